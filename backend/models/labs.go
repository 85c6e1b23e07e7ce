package models

import "gorm.io/gorm"

type LabDay struct {
	gorm.Model
	CohortID     uint         `json:"cohort_id"`
	Date         string       `json:"date" gorm:"index"` // YYYY-MM-DD
	Topic        string       `json:"topic"`
	Location     string       `json:"location"`
	InstructorID uint         `json:"instructor_id"`
	Stations     []LabStation `json:"stations,omitempty"`
}

type LabStation struct {
	gorm.Model
	LabDayID      uint   `json:"lab_day_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	SequenceOrder int    `json:"sequence_order"`
}

type AttendanceRecord struct {
	gorm.Model
	LabDayID  uint   `json:"lab_day_id" gorm:"index:idx_attendance_day_student,unique"`
	StudentID uint   `json:"student_id" gorm:"index:idx_attendance_day_student,unique"`
	Status    string `json:"status"` // present, absent, excused, late
	Note      string `json:"note"`
}
