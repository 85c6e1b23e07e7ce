package controllers

import (
	"errors"
	"strconv"

	"emsadmin/backend/config"
	"emsadmin/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LabsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLabsController(db *gorm.DB, cfg *config.Config) *LabsController {
	return &LabsController{DB: db, Cfg: cfg}
}

var attendanceStatuses = map[string]bool{
	"present": true,
	"absent":  true,
	"excused": true,
	"late":    true,
}

func (lc *LabsController) GetLabDays(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Query("cohort_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var labDays []models.LabDay
	if err := lc.DB.Preload("Stations", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order")
	}).Where("cohort_id = ?", cohortID).Order("date").Find(&labDays).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"lab_days": labDays,
	})
}

func (lc *LabsController) CreateLabDay(c *fiber.Ctx) error {
	var labDay models.LabDay
	if err := c.BodyParser(&labDay); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if labDay.CohortID == 0 || labDay.Date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cohort_id and date are required",
		})
	}

	if err := lc.DB.Create(&labDay).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lab day",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lab day created",
		"lab_day": labDay,
	})
}

func (lc *LabsController) UpdateLabDay(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var input struct {
		Date         string `json:"date"`
		Topic        string `json:"topic"`
		Location     string `json:"location"`
		InstructorID uint   `json:"instructor_id"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var labDay models.LabDay
	if err := lc.DB.First(&labDay, labDayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lab day not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Date != "" {
		labDay.Date = input.Date
	}
	if input.Topic != "" {
		labDay.Topic = input.Topic
	}
	if input.Location != "" {
		labDay.Location = input.Location
	}
	if input.InstructorID != 0 {
		labDay.InstructorID = input.InstructorID
	}

	if err := lc.DB.Save(&labDay).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lab day",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lab day updated",
		"lab_day": labDay,
	})
}

func (lc *LabsController) AddStation(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var labDay models.LabDay
	if err := lc.DB.First(&labDay, labDayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lab day not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	// New stations go to the end of the rotation
	var stationCount int64
	lc.DB.Model(&models.LabStation{}).Where("lab_day_id = ?", labDayID).Count(&stationCount)

	station := models.LabStation{
		LabDayID:      uint(labDayID),
		Title:         input.Title,
		Description:   input.Description,
		SequenceOrder: int(stationCount) + 1,
	}

	if err := lc.DB.Create(&station).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create station",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Station added",
		"station": station,
	})
}

// ReorderStations persists a new station order for a lab day. The request
// body carries the full list of station IDs in their new sequence.
func (lc *LabsController) ReorderStations(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var input struct {
		StationIDs []uint `json:"station_ids"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var stations []models.LabStation
	if err := lc.DB.Where("lab_day_id = ?", labDayID).Find(&stations).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if len(input.StationIDs) != len(stations) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Station list does not match lab day",
		})
	}

	known := make(map[uint]bool, len(stations))
	for _, s := range stations {
		known[s.ID] = true
	}
	for _, id := range input.StationIDs {
		if !known[id] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Station list does not match lab day",
			})
		}
	}

	for i, id := range input.StationIDs {
		if err := lc.DB.Model(&models.LabStation{}).Where("id = ?", id).
			Update("sequence_order", i+1).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save station order",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Stations reordered",
	})
}

// RecordAttendance bulk-upserts attendance for a lab day.
func (lc *LabsController) RecordAttendance(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var input struct {
		Records []struct {
			StudentID uint   `json:"student_id"`
			Status    string `json:"status"`
			Note      string `json:"note"`
		} `json:"records"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var labDay models.LabDay
	if err := lc.DB.First(&labDay, labDayID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lab day not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	for _, r := range input.Records {
		if !attendanceStatuses[r.Status] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid attendance status: " + r.Status,
			})
		}
	}

	saved := 0
	for _, r := range input.Records {
		var record models.AttendanceRecord
		err := lc.DB.Where("lab_day_id = ? AND student_id = ?", labDayID, r.StudentID).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.AttendanceRecord{
				LabDayID:  uint(labDayID),
				StudentID: r.StudentID,
			}
		} else if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}

		record.Status = r.Status
		record.Note = r.Note

		if err := lc.DB.Save(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not save attendance",
			})
		}
		saved++
	}

	return c.JSON(fiber.Map{
		"message": "Attendance recorded",
		"saved":   saved,
	})
}

func (lc *LabsController) GetAttendance(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var records []models.AttendanceRecord
	if err := lc.DB.Where("lab_day_id = ?", labDayID).Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"lab_day_id": labDayID,
		"records":    records,
	})
}
