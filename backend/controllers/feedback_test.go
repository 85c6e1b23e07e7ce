package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestFeedbackTriage(t *testing.T) {
	resp, result := doJSON(t, "POST", "/api/feedback/", instructorToken, map[string]interface{}{
		"subject":  "Sim lab projector is dead",
		"body":     "Station 2 projector would not power on all morning.",
		"category": "equipment",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	feedback := result["feedback"].(map[string]interface{})
	assert.Equal(t, "new", feedback["status"])
	assert.Equal(t, "normal", feedback["priority"])
	feedbackID := idOf(feedback)

	// Subject is mandatory
	resp, _ = doJSON(t, "POST", "/api/feedback/", instructorToken, map[string]interface{}{
		"body": "no subject",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Queue is admin-only
	resp, _ = doJSON(t, "GET", "/api/feedback/?status=new", instructorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, result = doJSON(t, "GET", "/api/feedback/?status=new&category=equipment", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	queue := result["feedback"].([]interface{})
	assert.NotEmpty(t, queue)

	resp, result = doJSON(t, "PUT", "/api/feedback/"+feedbackID, adminToken, map[string]interface{}{
		"status":   "in_review",
		"priority": "high",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := result["feedback"].(map[string]interface{})
	assert.Equal(t, "in_review", updated["status"])
	assert.Equal(t, "high", updated["priority"])
	assert.Equal(t, float64(adminUser.ID), updated["reviewed_by"])

	// Unknown status is rejected
	resp, _ = doJSON(t, "PUT", "/api/feedback/"+feedbackID, adminToken, map[string]interface{}{
		"status": "closed",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result = doJSON(t, "PUT", "/api/feedback/"+feedbackID, adminToken, map[string]interface{}{
		"status": "resolved",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "resolved", result["feedback"].(map[string]interface{})["status"])
}
