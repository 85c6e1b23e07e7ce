package controllers

import (
	"errors"
	"strconv"

	"emsadmin/backend/config"
	"emsadmin/backend/models"
	"emsadmin/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClinicalController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewClinicalController(db *gorm.DB, cfg *config.Config) *ClinicalController {
	return &ClinicalController{DB: db, Cfg: cfg}
}

func (cc *ClinicalController) GetSites(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.ClinicalSite{})
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var sites []models.ClinicalSite
	if err := query.Order("name").Find(&sites).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(sites)
}

func (cc *ClinicalController) CreateSite(c *fiber.Ctx) error {
	var site models.ClinicalSite
	if err := c.BodyParser(&site); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if site.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Site name is required",
		})
	}
	site.IsActive = true

	if err := cc.DB.Create(&site).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create site",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Site created",
		"site":    site,
	})
}

func (cc *ClinicalController) UpdateSite(c *fiber.Ctx) error {
	siteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid site ID",
		})
	}

	var input struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Address  string `json:"address"`
		Contact  string `json:"contact"`
		Phone    string `json:"phone"`
		IsActive *bool  `json:"is_active"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var site models.ClinicalSite
	if err := cc.DB.First(&site, siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Site not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		site.Name = input.Name
	}
	if input.Type != "" {
		site.Type = input.Type
	}
	if input.Address != "" {
		site.Address = input.Address
	}
	if input.Contact != "" {
		site.Contact = input.Contact
	}
	if input.Phone != "" {
		site.Phone = input.Phone
	}
	if input.IsActive != nil {
		site.IsActive = *input.IsActive
	}

	if err := cc.DB.Save(&site).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update site",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Site updated",
		"site":    site,
	})
}

// LogShift records clinical hours for a student at a site.
func (cc *ClinicalController) LogShift(c *fiber.Ctx) error {
	var input struct {
		StudentID uint    `json:"student_id"`
		SiteID    uint    `json:"site_id"`
		Date      string  `json:"date"`
		Hours     float64 `json:"hours"`
		Preceptor string  `json:"preceptor"`
		Notes     string  `json:"notes"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Hours <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Hours must be positive",
		})
	}

	var student models.Student
	if err := cc.DB.First(&student, input.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var site models.ClinicalSite
	if err := cc.DB.First(&site, input.SiteID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Site not found",
		})
	}

	shift := models.ClinicalShift{
		StudentID: input.StudentID,
		SiteID:    input.SiteID,
		Date:      input.Date,
		Hours:     input.Hours,
		Preceptor: input.Preceptor,
		Notes:     input.Notes,
	}

	if err := cc.DB.Create(&shift).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not log shift",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Shift logged",
		"shift":   shift,
	})
}

// UpdateShift corrects a logged shift's date, hours or notes.
func (cc *ClinicalController) UpdateShift(c *fiber.Ctx) error {
	shiftID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid shift ID",
		})
	}

	var input struct {
		Date      string   `json:"date"`
		Hours     *float64 `json:"hours"`
		Preceptor string   `json:"preceptor"`
		Notes     string   `json:"notes"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var shift models.ClinicalShift
	if err := cc.DB.First(&shift, shiftID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Shift not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Hours != nil {
		if *input.Hours <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Hours must be positive",
			})
		}
		shift.Hours = *input.Hours
	}
	if input.Date != "" {
		shift.Date = input.Date
	}
	if input.Preceptor != "" {
		shift.Preceptor = input.Preceptor
	}
	if input.Notes != "" {
		shift.Notes = input.Notes
	}

	if err := cc.DB.Save(&shift).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update shift",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Shift updated",
		"shift":   shift,
	})
}

// GetStudentHours returns a student's logged shifts and total against the
// program requirement.
func (cc *ClinicalController) GetStudentHours(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := cc.DB.First(&student, studentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var shifts []models.ClinicalShift
	if err := cc.DB.Where("student_id = ?", studentID).Order("date").Find(&shifts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var total float64
	for _, s := range shifts {
		total += s.Hours
	}

	required := cc.Cfg.ClinicalHoursRequired
	var cohort models.Cohort
	if err := cc.DB.First(&cohort, student.CohortID).Error; err == nil && cohort.ClinicalHoursRequired > 0 {
		required = cohort.ClinicalHoursRequired
	}

	return c.JSON(fiber.Map{
		"student_id":  studentID,
		"total_hours": total,
		"required":    required,
		"shifts":      shifts,
	})
}

// RecordVisit logs an instructor site visit.
func (cc *ClinicalController) RecordVisit(c *fiber.Ctx) error {
	instructorID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	siteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid site ID",
		})
	}

	var input struct {
		Date         string `json:"date"`
		StudentsSeen int    `json:"students_seen"`
		Notes        string `json:"notes"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var site models.ClinicalSite
	if err := cc.DB.First(&site, siteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Site not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	visit := models.SiteVisit{
		SiteID:       uint(siteID),
		InstructorID: instructorID,
		Date:         input.Date,
		StudentsSeen: input.StudentsSeen,
		Notes:        input.Notes,
	}

	if err := cc.DB.Create(&visit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record visit",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Visit recorded",
		"visit":   visit,
	})
}

func (cc *ClinicalController) GetVisits(c *fiber.Ctx) error {
	siteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid site ID",
		})
	}

	var visits []models.SiteVisit
	if err := cc.DB.Where("site_id = ?", siteID).Order("date DESC").Find(&visits).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"site_id": siteID,
		"visits":  visits,
	})
}
