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

type FeedbackController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewFeedbackController(db *gorm.DB, cfg *config.Config) *FeedbackController {
	return &FeedbackController{DB: db, Cfg: cfg}
}

var feedbackStatuses = map[string]bool{
	"new":       true,
	"in_review": true,
	"resolved":  true,
}

func (fc *FeedbackController) SubmitFeedback(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var feedback models.Feedback
	if err := c.BodyParser(&feedback); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if feedback.Subject == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Subject is required",
		})
	}

	feedback.SubmittedBy = userID
	feedback.Status = "new"
	if feedback.Priority == "" {
		feedback.Priority = "normal"
	}

	if err := fc.DB.Create(&feedback).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save feedback",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Feedback submitted",
		"feedback": feedback,
	})
}

// GetQueue returns the triage queue, newest-first, filterable by status and
// category.
func (fc *FeedbackController) GetQueue(c *fiber.Ctx) error {
	status := c.Query("status")
	category := c.Query("category")

	query := fc.DB.Model(&models.Feedback{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.Feedback
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(fiber.Map{
		"feedback": items,
	})
}

// Triage updates a feedback item's status and priority, stamping the
// reviewing user.
func (fc *FeedbackController) Triage(c *fiber.Ctx) error {
	reviewerID, err := utils.ExtractUserIDFromToken(c, fc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	feedbackID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feedback ID",
		})
	}

	var input struct {
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Status != "" && !feedbackStatuses[input.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status: " + input.Status,
		})
	}

	var feedback models.Feedback
	if err := fc.DB.First(&feedback, feedbackID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Feedback not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Status != "" {
		feedback.Status = input.Status
		feedback.ReviewedBy = reviewerID
	}
	if input.Priority != "" {
		feedback.Priority = input.Priority
	}

	if err := fc.DB.Save(&feedback).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update feedback",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Feedback updated",
		"feedback": feedback,
	})
}
