package models

import "gorm.io/gorm"

type Scenario struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Category    string `json:"category"` // medical, trauma, cardiac, pediatric, airway
	Description string `json:"description"`
}

type ScenarioRun struct {
	gorm.Model
	StudentID  uint   `json:"student_id" gorm:"index"`
	ScenarioID uint   `json:"scenario_id"`
	LabDayID   uint   `json:"lab_day_id"`
	Score      int    `json:"score" gorm:"check:score>=0 AND score<=5"`
	Role       string `json:"role"` // lead, partner, observer
	GraderID   uint   `json:"grader_id"`
	Comments   string `json:"comments"`
}
