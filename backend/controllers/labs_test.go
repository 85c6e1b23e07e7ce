package controllers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestLabDayScheduling(t *testing.T) {
	_, result := doJSON(t, "POST", "/api/cohorts/", adminToken, map[string]interface{}{
		"name": "Lab Cohort",
	})
	cohort := result["cohort"].(map[string]interface{})

	resp, result := doJSON(t, "POST", "/api/labs/", instructorToken, map[string]interface{}{
		"cohort_id": cohort["ID"],
		"date":      "2026-02-03",
		"topic":     "Airway management",
		"location":  "Sim Lab A",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	labDay := result["lab_day"].(map[string]interface{})
	labDayID := idOf(labDay)

	// Missing cohort or date is rejected
	resp, _ = doJSON(t, "POST", "/api/labs/", instructorToken, map[string]interface{}{
		"topic": "No date",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result = doJSON(t, "PUT", "/api/labs/"+labDayID, instructorToken, map[string]interface{}{
		"location": "Sim Lab B",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Sim Lab B", result["lab_day"].(map[string]interface{})["location"])
}

func TestStationReorder(t *testing.T) {
	_, result := doJSON(t, "POST", "/api/cohorts/", adminToken, map[string]interface{}{
		"name": "Station Cohort",
	})
	cohort := result["cohort"].(map[string]interface{})

	_, result = doJSON(t, "POST", "/api/labs/", instructorToken, map[string]interface{}{
		"cohort_id": cohort["ID"],
		"date":      "2026-02-10",
	})
	labDayID := idOf(result["lab_day"].(map[string]interface{}))

	var stationIDs []interface{}
	for _, title := range []string{"Intubation", "Chest decompression", "IV access"} {
		resp, result := doJSON(t, "POST", "/api/labs/"+labDayID+"/stations", instructorToken,
			map[string]interface{}{"title": title})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		stationIDs = append(stationIDs, result["station"].(map[string]interface{})["ID"])
	}

	// Reverse the rotation
	resp, _ := doJSON(t, "PUT", "/api/labs/"+labDayID+"/stations/reorder", instructorToken,
		map[string]interface{}{
			"station_ids": []interface{}{stationIDs[2], stationIDs[1], stationIDs[0]},
		})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result = doJSON(t, "GET", "/api/labs/?cohort_id="+idOf(cohort), instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	days := result["lab_days"].([]interface{})
	assert.Len(t, days, 1)
	stations := days[0].(map[string]interface{})["stations"].([]interface{})
	assert.Equal(t, "IV access", stations[0].(map[string]interface{})["title"])
	assert.Equal(t, "Intubation", stations[2].(map[string]interface{})["title"])

	// An incomplete ID list must not be applied
	resp, _ = doJSON(t, "PUT", "/api/labs/"+labDayID+"/stations/reorder", instructorToken,
		map[string]interface{}{
			"station_ids": []interface{}{stationIDs[0]},
		})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAttendanceRecording(t *testing.T) {
	_, result := doJSON(t, "POST", "/api/cohorts/", adminToken, map[string]interface{}{
		"name": "Attendance Cohort",
	})
	cohort := result["cohort"].(map[string]interface{})
	cohortID := idOf(cohort)

	var studentIDs []interface{}
	for _, name := range []string{"Riley", "Drew"} {
		_, result := doJSON(t, "POST", "/api/cohorts/"+cohortID+"/students", adminToken,
			map[string]interface{}{
				"first_name": name,
				"last_name":  "Park",
				"email":      name + ".park@example.com",
			})
		studentIDs = append(studentIDs, result["student"].(map[string]interface{})["ID"])
	}

	_, result = doJSON(t, "POST", "/api/labs/", instructorToken, map[string]interface{}{
		"cohort_id": cohort["ID"],
		"date":      "2026-02-17",
	})
	labDayID := idOf(result["lab_day"].(map[string]interface{}))

	resp, result := doJSON(t, "POST", "/api/labs/"+labDayID+"/attendance", instructorToken,
		map[string]interface{}{
			"records": []map[string]interface{}{
				{"student_id": studentIDs[0], "status": "present"},
				{"student_id": studentIDs[1], "status": "absent", "note": "sick call"},
			},
		})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), result["saved"])

	// Re-recording updates in place rather than duplicating
	resp, _ = doJSON(t, "POST", "/api/labs/"+labDayID+"/attendance", instructorToken,
		map[string]interface{}{
			"records": []map[string]interface{}{
				{"student_id": studentIDs[1], "status": "excused"},
			},
		})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, result = doJSON(t, "GET", "/api/labs/"+labDayID+"/attendance", instructorToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	records := result["records"].([]interface{})
	assert.Len(t, records, 2)

	statuses := make(map[float64]string)
	for _, r := range records {
		rec := r.(map[string]interface{})
		statuses[rec["student_id"].(float64)] = rec["status"].(string)
	}
	assert.Equal(t, "present", statuses[studentIDs[0].(float64)])
	assert.Equal(t, "excused", statuses[studentIDs[1].(float64)])

	// Unknown status is rejected before anything is written
	resp, _ = doJSON(t, "POST", "/api/labs/"+labDayID+"/attendance", instructorToken,
		map[string]interface{}{
			"records": []map[string]interface{}{
				{"student_id": studentIDs[0], "status": "tardy"},
			},
		})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
