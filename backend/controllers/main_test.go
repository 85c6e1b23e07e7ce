package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"emsadmin/backend/config"
	"emsadmin/backend/models"
	"emsadmin/backend/routes"
	"emsadmin/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	app             *fiber.App
	db              *gorm.DB
	cfg             *config.Config
	adminUser       models.User
	adminToken      string
	instructorUser  models.User
	instructorToken string
)

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

func setup() {
	cfg = &config.Config{
		JWTSecret:             "testsecret",
		ClinicalHoursRequired: 290,
		WeightScenarios:       30,
		WeightSkills:          25,
		WeightClinical:        20,
		WeightAttendance:      15,
		WeightPeerEvals:       10,
	}

	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if err := utils.Migrate(db); err != nil {
		panic(err)
	}

	app = fiber.New()
	routes.SetupRoutes(app, db, cfg)

	adminUser = models.User{
		Username:     "coordinator",
		Email:        "coordinator@example.com",
		PasswordHash: "$2a$10$XvgWZzX7J6ybBp5nD5vQj.9vqJZJQ7Q8QJZJQ7Q8QJZJQ7Q8QJZJQ7Q8",
		Role:         "admin",
	}
	db.Create(&adminUser)
	adminToken, _ = utils.GenerateJWTToken(adminUser.ID, adminUser.Role, cfg)

	instructorUser = models.User{
		Username:     "instructor",
		Email:        "instructor@example.com",
		PasswordHash: "$2a$10$XvgWZzX7J6ybBp5nD5vQj.9vqJZJQ7Q8QJZJQ7Q8QJZJQ7Q8QJZJQ7Q8",
		Role:         "instructor",
	}
	db.Create(&instructorUser)
	instructorToken, _ = utils.GenerateJWTToken(instructorUser.ID, instructorUser.Role, cfg)
}

// idOf extracts a record's ID from a decoded JSON object as a path segment.
func idOf(m map[string]interface{}) string {
	return strconv.FormatFloat(m["ID"].(float64), 'f', -1, 64)
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into a map.
func doJSON(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}
