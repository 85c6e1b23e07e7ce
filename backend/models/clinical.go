package models

import "gorm.io/gorm"

type ClinicalSite struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Type     string `json:"type"` // hospital, ambulance, clinic
	Address  string `json:"address"`
	Contact  string `json:"contact"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

type ClinicalShift struct {
	gorm.Model
	StudentID uint    `json:"student_id" gorm:"index"`
	SiteID    uint    `json:"site_id"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Hours     float64 `json:"hours"`
	Preceptor string  `json:"preceptor"`
	Notes     string  `json:"notes"`
}

// SiteVisit records an instructor checking in on students at a clinical site.
type SiteVisit struct {
	gorm.Model
	SiteID       uint   `json:"site_id"`
	InstructorID uint   `json:"instructor_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	StudentsSeen int    `json:"students_seen"`
	Notes        string `json:"notes"`
}
