package controllers

import (
	"strconv"

	"emsadmin/backend/config"
	"emsadmin/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PeerEvalsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPeerEvalsController(db *gorm.DB, cfg *config.Config) *PeerEvalsController {
	return &PeerEvalsController{DB: db, Cfg: cfg}
}

func (pc *PeerEvalsController) SubmitEvaluation(c *fiber.Ctx) error {
	var input struct {
		StudentID   uint   `json:"student_id"`
		EvaluatorID uint   `json:"evaluator_id"`
		Score       int    `json:"score"`
		Comments    string `json:"comments"`
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

	if input.StudentID == input.EvaluatorID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Students cannot evaluate themselves",
		})
	}

	var student models.Student
	if err := pc.DB.First(&student, input.StudentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var evaluator models.Student
	if err := pc.DB.First(&evaluator, input.EvaluatorID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Evaluator not found",
		})
	}

	eval := models.PeerEvaluation{
		StudentID:   input.StudentID,
		EvaluatorID: input.EvaluatorID,
		Score:       input.Score,
		Comments:    input.Comments,
	}

	if err := pc.DB.Create(&eval).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save evaluation",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Evaluation submitted",
		"evaluation": eval,
	})
}

func (pc *PeerEvalsController) GetStudentEvaluations(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var evals []models.PeerEvaluation
	if err := pc.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&evals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var sum float64
	for _, e := range evals {
		sum += float64(e.Score)
	}
	var average float64
	if len(evals) > 0 {
		average = sum / float64(len(evals))
	}

	return c.JSON(fiber.Map{
		"student_id":  studentID,
		"count":       len(evals),
		"average":     average,
		"evaluations": evals,
	})
}
