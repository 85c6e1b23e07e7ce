package utils

import (
	"fmt"

	"emsadmin/backend/config"
	"emsadmin/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model. Shared with the test setup,
// which runs against sqlite instead of Postgres.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.Cohort{},
		&models.Student{},
		&models.LabDay{},
		&models.LabStation{},
		&models.AttendanceRecord{},
		&models.Skill{},
		&models.SkillSignoff{},
		&models.Scenario{},
		&models.ScenarioRun{},
		&models.ClinicalSite{},
		&models.ClinicalShift{},
		&models.SiteVisit{},
		&models.PeerEvaluation{},
		&models.Feedback{},
	)
}
