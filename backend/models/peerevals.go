package models

import "gorm.io/gorm"

type PeerEvaluation struct {
	gorm.Model
	StudentID   uint   `json:"student_id" gorm:"index"` // student being evaluated
	EvaluatorID uint   `json:"evaluator_id"`            // student giving the evaluation
	Score       int    `json:"score" gorm:"check:score>=0 AND score<=5"`
	Comments    string `json:"comments"`
}
