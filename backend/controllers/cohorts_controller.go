package controllers

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"emsadmin/backend/config"
	"emsadmin/backend/models"
	"emsadmin/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CohortsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCohortsController(db *gorm.DB, cfg *config.Config) *CohortsController {
	return &CohortsController{DB: db, Cfg: cfg}
}

func (cc *CohortsController) GetCohorts(c *fiber.Ctx) error {
	status := c.Query("status")

	query := cc.DB.Model(&models.Cohort{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var cohorts []models.Cohort
	if err := query.Order("start_date DESC").Find(&cohorts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, cohort := range cohorts {
		var studentCount int64
		cc.DB.Model(&models.Student{}).
			Where("cohort_id = ? AND status = 'active'", cohort.ID).
			Count(&studentCount)

		result = append(result, fiber.Map{
			"id":         cohort.ID,
			"name":       cohort.Name,
			"start_date": cohort.StartDate,
			"end_date":   cohort.EndDate,
			"status":     cohort.Status,
			"students":   studentCount,
		})
	}

	return c.JSON(result)
}

func (cc *CohortsController) CreateCohort(c *fiber.Ctx) error {
	var cohort models.Cohort
	if err := c.BodyParser(&cohort); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if cohort.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cohort name is required",
		})
	}

	if cohort.ClinicalHoursRequired == 0 {
		cohort.ClinicalHoursRequired = cc.Cfg.ClinicalHoursRequired
	}
	if cohort.Status == "" {
		cohort.Status = "active"
	}

	if err := cc.DB.Create(&cohort).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create cohort",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cohort created",
		"cohort":  cohort,
	})
}

func (cc *CohortsController) UpdateCohort(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var input struct {
		Name                  string `json:"name"`
		StartDate             string `json:"start_date"`
		EndDate               string `json:"end_date"`
		Status                string `json:"status"`
		ClinicalHoursRequired int    `json:"clinical_hours_required"`
		WeightScenarios       int    `json:"weight_scenarios"`
		WeightSkills          int    `json:"weight_skills"`
		WeightClinical        int    `json:"weight_clinical"`
		WeightAttendance      int    `json:"weight_attendance"`
		WeightPeerEvals       int    `json:"weight_peer_evals"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var cohort models.Cohort
	if err := cc.DB.First(&cohort, cohortID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cohort not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		cohort.Name = input.Name
	}
	if input.StartDate != "" {
		cohort.StartDate = input.StartDate
	}
	if input.EndDate != "" {
		cohort.EndDate = input.EndDate
	}
	if input.Status != "" {
		cohort.Status = input.Status
	}
	if input.ClinicalHoursRequired > 0 {
		cohort.ClinicalHoursRequired = input.ClinicalHoursRequired
	}
	if input.WeightScenarios+input.WeightSkills+input.WeightClinical+
		input.WeightAttendance+input.WeightPeerEvals > 0 {
		cohort.WeightScenarios = input.WeightScenarios
		cohort.WeightSkills = input.WeightSkills
		cohort.WeightClinical = input.WeightClinical
		cohort.WeightAttendance = input.WeightAttendance
		cohort.WeightPeerEvals = input.WeightPeerEvals
	}

	if err := cc.DB.Save(&cohort).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update cohort",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Cohort updated",
		"cohort":  cohort,
	})
}

func (cc *CohortsController) GetRoster(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	status := c.Query("status")

	query := cc.DB.Where("cohort_id = ?", cohortID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var students []models.Student
	if err := query.Order("last_name, first_name").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"cohort_id": cohortID,
		"students":  students,
	})
}

func (cc *CohortsController) AddStudent(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var student models.Student
	if err := c.BodyParser(&student); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if student.FirstName == "" && student.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student name is required",
		})
	}

	student.CohortID = uint(cohortID)
	student.Email = strings.ToLower(strings.TrimSpace(student.Email))
	if student.Status == "" {
		student.Status = "active"
	}

	if err := cc.DB.Create(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create student",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Student added",
		"student": student,
	})
}

func (cc *CohortsController) UpdateStudent(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var input struct {
		FirstName          string `json:"first_name"`
		LastName           string `json:"last_name"`
		Email              string `json:"email"`
		Phone              string `json:"phone"`
		CertificationLevel string `json:"certification_level"`
		Status             string `json:"status"`
		CohortID           uint   `json:"cohort_id"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var student models.Student
	if err := cc.DB.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Student not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.FirstName != "" {
		student.FirstName = input.FirstName
	}
	if input.LastName != "" {
		student.LastName = input.LastName
	}
	if input.Email != "" {
		student.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Phone != "" {
		student.Phone = input.Phone
	}
	if input.CertificationLevel != "" {
		student.CertificationLevel = input.CertificationLevel
	}
	if input.Status != "" {
		student.Status = input.Status
	}
	// Transfer to another cohort
	if input.CohortID != 0 && input.CohortID != student.CohortID {
		var target models.Cohort
		if err := cc.DB.First(&target, input.CohortID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Target cohort not found",
			})
		}
		student.CohortID = input.CohortID
	}

	if err := cc.DB.Save(&student).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update student",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Student updated",
		"student": student,
	})
}

// ImportRoster accepts a CSV body, validates it and inserts the clean rows.
// Invalid rows and duplicates are reported back per line, valid rows are not
// rolled back because of them.
func (cc *CohortsController) ImportRoster(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var cohort models.Cohort
	if err := cc.DB.First(&cohort, cohortID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Cohort not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// Existing roster emails for duplicate detection
	var existing []models.Student
	cc.DB.Select("email").Where("cohort_id = ?", cohortID).Find(&existing)

	existingEmails := make(map[string]bool, len(existing))
	for _, s := range existing {
		if s.Email != "" {
			existingEmails[strings.ToLower(s.Email)] = true
		}
	}

	result, err := utils.ParseRoster(bytes.NewReader(c.Body()), existingEmails)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	imported := 0
	for _, row := range result.Rows {
		student := models.Student{
			CohortID:           uint(cohortID),
			FirstName:          row.FirstName,
			LastName:           row.LastName,
			Email:              row.Email,
			Phone:              row.Phone,
			CertificationLevel: row.CertificationLevel,
			Status:             "active",
		}
		if err := cc.DB.Create(&student).Error; err != nil {
			result.Errors = append(result.Errors, utils.RosterRowError{
				Line:    row.Line,
				Message: "could not insert row",
			})
			continue
		}
		imported++
	}

	return c.JSON(fiber.Map{
		"message":  "Roster imported",
		"imported": imported,
		"skipped":  result.Skipped,
		"errors":   result.Errors,
	})
}
