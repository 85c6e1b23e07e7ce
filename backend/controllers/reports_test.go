package controllers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"emsadmin/backend/grading"
	"emsadmin/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// Seeds a cohort with two students and activity in every grading category,
// then checks the reports against the grading package computed over the same
// raw counts.
func TestGradebookReport(t *testing.T) {
	_, result := doJSON(t, "POST", "/api/cohorts/", adminToken, map[string]interface{}{
		"name": "Report Cohort",
	})
	cohort := result["cohort"].(map[string]interface{})
	cohortID := idOf(cohort)

	type seeded struct {
		obj map[string]interface{}
		id  string
	}
	var students []seeded
	for _, name := range []struct{ first, last string }{
		{"Lena", "Ortiz"}, {"Theo", "Brandt"},
	} {
		_, result := doJSON(t, "POST", "/api/cohorts/"+cohortID+"/students", adminToken,
			map[string]interface{}{
				"first_name": name.first,
				"last_name":  name.last,
				"email":      name.first + ".report@example.com",
			})
		obj := result["student"].(map[string]interface{})
		students = append(students, seeded{obj: obj, id: idOf(obj)})
	}
	lena, theo := students[0], students[1]

	// Two lab days, one without an assigned instructor
	var labDayIDs []string
	for i, date := range []string{"2026-03-02", "2026-03-09"} {
		body := map[string]interface{}{
			"cohort_id": cohort["ID"],
			"date":      date,
			"topic":     "Megacode",
		}
		if i == 0 {
			body["instructor_id"] = instructorUser.ID
		}
		_, result := doJSON(t, "POST", "/api/labs/", instructorToken, body)
		labDayIDs = append(labDayIDs, idOf(result["lab_day"].(map[string]interface{})))
	}

	// Attendance: Lena 2/2, Theo 1/2
	doJSON(t, "POST", "/api/labs/"+labDayIDs[0]+"/attendance", instructorToken,
		map[string]interface{}{
			"records": []map[string]interface{}{
				{"student_id": lena.obj["ID"], "status": "present"},
				{"student_id": theo.obj["ID"], "status": "present"},
			},
		})
	doJSON(t, "POST", "/api/labs/"+labDayIDs[1]+"/attendance", instructorToken,
		map[string]interface{}{
			"records": []map[string]interface{}{
				{"student_id": lena.obj["ID"], "status": "late"},
				{"student_id": theo.obj["ID"], "status": "absent"},
			},
		})

	// Scenario runs: Lena 4+4, Theo 3
	_, result = doJSON(t, "POST", "/api/scenarios/", adminToken, map[string]interface{}{
		"title": "Traumatic arrest", "category": "trauma",
	})
	scenarioID := idOf(result["scenario"].(map[string]interface{}))
	for _, run := range []struct {
		student seeded
		score   int
	}{{lena, 4}, {lena, 4}, {theo, 3}} {
		doJSON(t, "POST", "/api/scenarios/"+scenarioID+"/runs", instructorToken,
			map[string]interface{}{
				"student_id": run.student.obj["ID"],
				"score":      run.score,
			})
	}

	// Skills: two required, Lena completes both, Theo one
	var skillIDs []string
	for _, name := range []string{"12-lead acquisition", "Spinal motion restriction"} {
		_, result := doJSON(t, "POST", "/api/skills/", adminToken, map[string]interface{}{
			"name": name, "required": true,
		})
		skillIDs = append(skillIDs, idOf(result["skill"].(map[string]interface{})))
	}
	doJSON(t, "POST", "/api/skills/"+skillIDs[0]+"/signoff", instructorToken,
		map[string]interface{}{"student_id": lena.obj["ID"]})
	doJSON(t, "POST", "/api/skills/"+skillIDs[1]+"/signoff", instructorToken,
		map[string]interface{}{"student_id": lena.obj["ID"]})
	doJSON(t, "POST", "/api/skills/"+skillIDs[0]+"/signoff", instructorToken,
		map[string]interface{}{"student_id": theo.obj["ID"]})

	// Clinical hours: Lena 145, Theo none
	_, result = doJSON(t, "POST", "/api/clinical/sites", adminToken, map[string]interface{}{
		"name": "Mercy General ED",
	})
	doJSON(t, "POST", "/api/clinical/shifts", instructorToken, map[string]interface{}{
		"student_id": lena.obj["ID"],
		"site_id":    result["site"].(map[string]interface{})["ID"],
		"date":       "2026-03-05",
		"hours":      145,
	})

	// Peer evals: Lena gets 4, Theo gets 3
	doJSON(t, "POST", "/api/peer-evals/", instructorToken, map[string]interface{}{
		"student_id": lena.obj["ID"], "evaluator_id": theo.obj["ID"], "score": 4,
	})
	doJSON(t, "POST", "/api/peer-evals/", instructorToken, map[string]interface{}{
		"student_id": theo.obj["ID"], "evaluator_id": lena.obj["ID"], "score": 3,
	})

	// Skills are a program-wide catalog, so the required total is whatever
	// exists at this point in the suite.
	var requiredSkills int64
	db.Model(&models.Skill{}).Where("required = ?", true).Count(&requiredSkills)

	weights := grading.Weights{Scenarios: 30, Skills: 25, Clinical: 20, Attendance: 15, PeerEvals: 10}
	expectLena := grading.Compose(grading.Metrics{
		ScenarioScoreSum:      8,
		ScenarioCount:         2,
		SkillSignoffCount:     2,
		SkillTotalRequired:    int(requiredSkills),
		ClinicalHours:         145,
		ClinicalHoursRequired: 290,
		AttendancePresent:     2,
		AttendanceTotal:       2,
		PeerEvalScoreSum:      4,
		PeerEvalCount:         1,
	}, weights)
	expectTheo := grading.Compose(grading.Metrics{
		ScenarioScoreSum:      3,
		ScenarioCount:         1,
		SkillSignoffCount:     1,
		SkillTotalRequired:    int(requiredSkills),
		ClinicalHours:         0,
		ClinicalHoursRequired: 290,
		AttendancePresent:     1,
		AttendanceTotal:       2,
		PeerEvalScoreSum:      3,
		PeerEvalCount:         1,
	}, weights)

	resp, result := doJSON(t, "GET", "/api/reports/cohorts/"+cohortID+"/gradebook",
		instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	rows := result["rows"].([]interface{})
	assert.Len(t, rows, 2)

	byName := make(map[string]map[string]interface{})
	for _, r := range rows {
		row := r.(map[string]interface{})
		byName[row["last_name"].(string)] = row
	}

	assertGrade := func(row map[string]interface{}, want grading.StudentGrade) {
		t.Helper()
		assert.Equal(t, float64(*want.ScenarioPct), row["scenario_pct"])
		assert.Equal(t, float64(want.SkillPct), row["skill_pct"])
		assert.Equal(t, float64(want.ClinicalPct), row["clinical_pct"])
		assert.Equal(t, float64(*want.AttendancePct), row["attendance_pct"])
		assert.Equal(t, float64(*want.PeerPct), row["peer_pct"])
		assert.Equal(t, float64(want.OverallPct), row["overall_pct"])
		assert.Equal(t, want.Grade, row["grade"])
		assert.Equal(t, want.BelowPassing, row["below_passing"])
	}
	assertGrade(byName["Ortiz"], expectLena)
	assertGrade(byName["Brandt"], expectTheo)

	wantMean := float64(expectLena.OverallPct+expectTheo.OverallPct) / 2
	assert.InDelta(t, wantMean, result["cohort_mean"].(float64), 0.001)

	// CSV export carries the same rows
	req := httptest.NewRequest("GET", "/api/reports/cohorts/"+cohortID+"/gradebook/export", nil)
	req.Header.Set("Authorization", instructorToken)
	exportResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, exportResp.StatusCode)
	assert.Contains(t, exportResp.Header.Get("Content-Type"), "text/csv")

	body, _ := io.ReadAll(exportResp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "overall")
	assert.Contains(t, string(body), "Ortiz")
	assert.Contains(t, string(body), expectLena.Grade)

	// Attendance report
	resp, result = doJSON(t, "GET", "/api/reports/cohorts/"+cohortID+"/attendance",
		instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	attByName := make(map[string]map[string]interface{})
	for _, r := range result["students"].([]interface{}) {
		row := r.(map[string]interface{})
		attByName[row["last_name"].(string)] = row
	}
	assert.Equal(t, float64(100), attByName["Ortiz"]["percentage"])
	assert.Equal(t, float64(50), attByName["Brandt"]["percentage"])

	dayRows := result["lab_days"].([]interface{})
	assert.Len(t, dayRows, 2)
	firstDay := dayRows[0].(map[string]interface{})
	assert.Equal(t, float64(2), firstDay["present"])

	// Coverage report
	resp, result = doJSON(t, "GET", "/api/reports/cohorts/"+cohortID+"/coverage",
		instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	weekdayLoad := result["weekday_load"].(map[string]interface{})
	assert.Equal(t, float64(2), weekdayLoad["Monday"])
	assert.Len(t, result["uncovered"].([]interface{}), 1)

	consistency := make(map[string]float64)
	for _, r := range result["consistency"].([]interface{}) {
		row := r.(map[string]interface{})
		consistency[row["last_name"].(string)] = row["consistency_rate"].(float64)
	}
	assert.Equal(t, float64(100), consistency["Ortiz"])
	assert.Equal(t, float64(50), consistency["Brandt"])

	// Cohort comparison includes this cohort
	resp, result = doJSON(t, "GET", "/api/reports/comparison", instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var entry map[string]interface{}
	for _, c := range result["cohorts"].([]interface{}) {
		row := c.(map[string]interface{})
		if row["cohort_name"] == "Report Cohort" {
			entry = row
		}
	}
	if assert.NotNil(t, entry) {
		assert.Equal(t, float64(2), entry["students"])
		assert.InDelta(t, wantMean, entry["mean_overall"].(float64), 0.001)
		assert.InDelta(t, 11.0/3.0, entry["mean_scenario_score"].(float64), 0.001)
	}
}
