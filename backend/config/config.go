package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Program constants
	ClinicalHoursRequired int

	// Default gradebook weights, percent per category
	WeightScenarios  int
	WeightSkills     int
	WeightClinical   int
	WeightAttendance int
	WeightPeerEvals  int
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "ems_program"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		ClinicalHoursRequired: getEnvInt("CLINICAL_HOURS_REQUIRED", 290),

		WeightScenarios:  getEnvInt("WEIGHT_SCENARIOS", 30),
		WeightSkills:     getEnvInt("WEIGHT_SKILLS", 25),
		WeightClinical:   getEnvInt("WEIGHT_CLINICAL", 20),
		WeightAttendance: getEnvInt("WEIGHT_ATTENDANCE", 15),
		WeightPeerEvals:  getEnvInt("WEIGHT_PEER_EVALS", 10),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
