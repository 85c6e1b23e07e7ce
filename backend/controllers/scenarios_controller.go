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

type ScenariosController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewScenariosController(db *gorm.DB, cfg *config.Config) *ScenariosController {
	return &ScenariosController{DB: db, Cfg: cfg}
}

func (sc *ScenariosController) GetScenarios(c *fiber.Ctx) error {
	category := c.Query("category")

	query := sc.DB.Model(&models.Scenario{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var scenarios []models.Scenario
	if err := query.Order("title").Find(&scenarios).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(scenarios)
}

func (sc *ScenariosController) CreateScenario(c *fiber.Ctx) error {
	var scenario models.Scenario
	if err := c.BodyParser(&scenario); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if scenario.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Scenario title is required",
		})
	}

	if err := sc.DB.Create(&scenario).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create scenario",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Scenario created",
		"scenario": scenario,
	})
}

func (sc *ScenariosController) UpdateScenario(c *fiber.Ctx) error {
	scenarioID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scenario ID",
		})
	}

	var input struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Description string `json:"description"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var scenario models.Scenario
	if err := sc.DB.First(&scenario, scenarioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Scenario not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Title != "" {
		scenario.Title = input.Title
	}
	if input.Category != "" {
		scenario.Category = input.Category
	}
	if input.Description != "" {
		scenario.Description = input.Description
	}

	if err := sc.DB.Save(&scenario).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update scenario",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Scenario updated",
		"scenario": scenario,
	})
}

// RecordRun grades one scenario attempt for a student.
func (sc *ScenariosController) RecordRun(c *fiber.Ctx) error {
	graderID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	scenarioID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid scenario ID",
		})
	}

	var input struct {
		StudentID uint   `json:"student_id"`
		LabDayID  uint   `json:"lab_day_id"`
		Score     int    `json:"score"`
		Role      string `json:"role"`
		Comments  string `json:"comments"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Score < 0 || input.Score > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Score must be between 0 and 5",
		})
	}

	var scenario models.Scenario
	if err := sc.DB.First(&scenario, scenarioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Scenario not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var student models.Student
	if err := sc.DB.First(&student, input.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	run := models.ScenarioRun{
		StudentID:  input.StudentID,
		ScenarioID: uint(scenarioID),
		LabDayID:   input.LabDayID,
		Score:      input.Score,
		Role:       input.Role,
		GraderID:   graderID,
		Comments:   input.Comments,
	}

	if err := sc.DB.Create(&run).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not record scenario run",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Scenario run recorded",
		"run":     run,
	})
}

func (sc *ScenariosController) UpdateRun(c *fiber.Ctx) error {
	runID, err := strconv.Atoi(c.Params("runId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid run ID",
		})
	}

	var input struct {
		Score    *int   `json:"score"`
		Role     string `json:"role"`
		Comments string `json:"comments"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var run models.ScenarioRun
	if err := sc.DB.First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Scenario run not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Score != nil {
		if *input.Score < 0 || *input.Score > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Score must be between 0 and 5",
			})
		}
		run.Score = *input.Score
	}
	if input.Role != "" {
		run.Role = input.Role
	}
	if input.Comments != "" {
		run.Comments = input.Comments
	}

	if err := sc.DB.Save(&run).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update scenario run",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Scenario run updated",
		"run":     run,
	})
}

// GetLabDayRuns lists every scenario run graded on one lab day.
func (sc *ScenariosController) GetLabDayRuns(c *fiber.Ctx) error {
	labDayID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lab day ID",
		})
	}

	var runs []models.ScenarioRun
	if err := sc.DB.Where("lab_day_id = ?", labDayID).
		Order("created_at").Find(&runs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, run := range runs {
		var scenario models.Scenario
		if err := sc.DB.First(&scenario, run.ScenarioID).Error; err != nil {
			continue
		}

		result = append(result, fiber.Map{
			"id":         run.ID,
			"student_id": run.StudentID,
			"scenario":   scenario.Title,
			"score":      run.Score,
			"role":       run.Role,
			"grader_id":  run.GraderID,
		})
	}

	return c.JSON(fiber.Map{
		"lab_day_id": labDayID,
		"runs":       result,
	})
}

func (sc *ScenariosController) GetStudentRuns(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var runs []models.ScenarioRun
	if err := sc.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&runs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, run := range runs {
		var scenario models.Scenario
		if err := sc.DB.First(&scenario, run.ScenarioID).Error; err != nil {
			continue
		}

		result = append(result, fiber.Map{
			"id":       run.ID,
			"scenario": scenario.Title,
			"category": scenario.Category,
			"score":    run.Score,
			"role":     run.Role,
			"comments": run.Comments,
			"graded":   run.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"student_id": studentID,
		"runs":       result,
	})
}
