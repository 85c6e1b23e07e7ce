package controllers

import (
	"errors"
	"strconv"
	"time"

	"emsadmin/backend/config"
	"emsadmin/backend/models"
	"emsadmin/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SkillsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSkillsController(db *gorm.DB, cfg *config.Config) *SkillsController {
	return &SkillsController{DB: db, Cfg: cfg}
}

func (sc *SkillsController) GetSkills(c *fiber.Ctx) error {
	var skills []models.Skill
	if err := sc.DB.Order("category, name").Find(&skills).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	return c.JSON(skills)
}

func (sc *SkillsController) CreateSkill(c *fiber.Ctx) error {
	var skill models.Skill
	if err := c.BodyParser(&skill); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if skill.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Skill name is required",
		})
	}

	if err := sc.DB.Create(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create skill",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Skill created",
		"skill":   skill,
	})
}

func (sc *SkillsController) UpdateSkill(c *fiber.Ctx) error {
	skillID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid skill ID",
		})
	}

	var input struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Required *bool  `json:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var skill models.Skill
	if err := sc.DB.First(&skill, skillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Skill not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	if input.Name != "" {
		skill.Name = input.Name
	}
	if input.Category != "" {
		skill.Category = input.Category
	}
	if input.Required != nil {
		skill.Required = *input.Required
	}

	if err := sc.DB.Save(&skill).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update skill",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Skill updated",
		"skill":   skill,
	})
}

// SignOff marks a skill complete for a student. Re-signing an already
// signed-off skill replaces the old signoff.
func (sc *SkillsController) SignOff(c *fiber.Ctx) error {
	instructorID, err := utils.ExtractUserIDFromToken(c, sc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	skillID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid skill ID",
		})
	}

	var input struct {
		StudentID uint   `json:"student_id"`
		Note      string `json:"note"`
	}

	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var skill models.Skill
	if err := sc.DB.First(&skill, skillID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Skill not found",
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

	var signoff models.SkillSignoff
	err = sc.DB.Where("student_id = ? AND skill_id = ?", input.StudentID, skillID).
		First(&signoff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		signoff = models.SkillSignoff{
			StudentID: input.StudentID,
			SkillID:   uint(skillID),
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	signoff.InstructorID = instructorID
	signoff.SignedOffAt = time.Now().Format("2006-01-02")
	signoff.Note = input.Note

	if err := sc.DB.Save(&signoff).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save signoff",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Skill signed off",
		"signoff": signoff,
	})
}

func (sc *SkillsController) RevokeSignoff(c *fiber.Ctx) error {
	skillID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid skill ID",
		})
	}

	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	result := sc.DB.Where("student_id = ? AND skill_id = ?", studentID, skillID).
		Delete(&models.SkillSignoff{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not revoke signoff",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Signoff not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Signoff revoked",
	})
}

// GetChecklist returns a student's skill checklist with completion counts.
func (sc *SkillsController) GetChecklist(c *fiber.Ctx) error {
	studentID, err := strconv.Atoi(c.Params("studentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var skills []models.Skill
	if err := sc.DB.Order("category, name").Find(&skills).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var signoffs []models.SkillSignoff
	sc.DB.Where("student_id = ?", studentID).Find(&signoffs)

	signedOff := make(map[uint]models.SkillSignoff, len(signoffs))
	for _, s := range signoffs {
		signedOff[s.SkillID] = s
	}

	var checklist []fiber.Map
	completed, required := 0, 0
	for _, skill := range skills {
		if skill.Required {
			required++
		}

		item := fiber.Map{
			"skill_id": skill.ID,
			"name":     skill.Name,
			"category": skill.Category,
			"required": skill.Required,
			"complete": false,
		}

		if signoff, ok := signedOff[skill.ID]; ok {
			item["complete"] = true
			item["signed_off_at"] = signoff.SignedOffAt
			item["instructor_id"] = signoff.InstructorID
			if skill.Required {
				completed++
			}
		}

		checklist = append(checklist, item)
	}

	return c.JSON(fiber.Map{
		"student_id": studentID,
		"completed":  completed,
		"required":   required,
		"checklist":  checklist,
	})
}
