package models

import "gorm.io/gorm"

type Feedback struct {
	gorm.Model
	SubmittedBy uint   `json:"submitted_by"`
	Subject     string `json:"subject" gorm:"not null"`
	Body        string `json:"body"`
	Category    string `json:"category"`                       // lab, clinical, scheduling, equipment, other
	Status      string `json:"status" gorm:"default:new"`      // new, in_review, resolved
	Priority    string `json:"priority" gorm:"default:normal"` // low, normal, high
	ReviewedBy  uint   `json:"reviewed_by"`
}
