package models

import "gorm.io/gorm"

type Skill struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Category string `json:"category"` // airway, assessment, trauma, medical, ops
	Required bool   `json:"required" gorm:"default:true"`
}

type SkillSignoff struct {
	gorm.Model
	StudentID    uint   `json:"student_id" gorm:"index:idx_signoff_student_skill,unique"`
	SkillID      uint   `json:"skill_id" gorm:"index:idx_signoff_student_skill,unique"`
	InstructorID uint   `json:"instructor_id"`
	SignedOffAt  string `json:"signed_off_at"` // YYYY-MM-DD
	Note         string `json:"note"`
}
