package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestPeerEvaluations(t *testing.T) {
	_, result := doJSON(t, "POST", "/api/cohorts/", adminToken, map[string]interface{}{
		"name": "Peer Eval Cohort",
	})
	cohortID := idOf(result["cohort"].(map[string]interface{}))

	var students []map[string]interface{}
	for _, name := range []string{"Ira", "Noel"} {
		_, result := doJSON(t, "POST", "/api/cohorts/"+cohortID+"/students", adminToken,
			map[string]interface{}{
				"first_name": name,
				"last_name":  "Castillo",
				"email":      name + ".castillo@example.com",
			})
		students = append(students, result["student"].(map[string]interface{}))
	}

	// Self-evaluation is rejected
	resp, _ := doJSON(t, "POST", "/api/peer-evals/", instructorToken, map[string]interface{}{
		"student_id":   students[0]["ID"],
		"evaluator_id": students[0]["ID"],
		"score":        5,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	for _, score := range []int{4, 3} {
		resp, _ = doJSON(t, "POST", "/api/peer-evals/", instructorToken, map[string]interface{}{
			"student_id":   students[0]["ID"],
			"evaluator_id": students[1]["ID"],
			"score":        score,
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, result = doJSON(t, "GET", "/api/students/"+idOf(students[0])+"/peer-evals",
		instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), result["count"])
	assert.Equal(t, 3.5, result["average"])
}
