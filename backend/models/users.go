package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"unique;not null"`
	Email        string `json:"email" gorm:"unique;not null"`
	PasswordHash string `json:"password" gorm:"not null"`
	FullName     string `json:"full_name"`
	Role         string `json:"role" gorm:"default:instructor"` // instructor, coordinator, admin
}

type LoginHistory struct {
	gorm.Model
	UserID    uint      `json:"user_id"`
	LoginTime time.Time `json:"login_time"`
}
