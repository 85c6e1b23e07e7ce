package models

import "gorm.io/gorm"

type Cohort struct {
	gorm.Model
	Name      string    `json:"name" gorm:"unique;not null"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Status    string    `json:"status" gorm:"default:active"` // planned, active, graduated, archived
	Students  []Student `json:"students,omitempty"`

	// Program requirement for this cohort; 0 falls back to the configured default
	ClinicalHoursRequired int `json:"clinical_hours_required"`

	// Optional gradebook weight overrides; all zero means use the defaults
	WeightScenarios  int `json:"weight_scenarios"`
	WeightSkills     int `json:"weight_skills"`
	WeightClinical   int `json:"weight_clinical"`
	WeightAttendance int `json:"weight_attendance"`
	WeightPeerEvals  int `json:"weight_peer_evals"`
}

type Student struct {
	gorm.Model
	CohortID           uint   `json:"cohort_id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email" gorm:"index"`
	Phone              string `json:"phone"`
	CertificationLevel string `json:"certification_level"`          // EMR, EMT, AEMT, Paramedic
	Status             string `json:"status" gorm:"default:active"` // active, withdrawn, graduated, on_leave
}
