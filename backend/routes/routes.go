package routes

import (
	"emsadmin/backend/config"
	"emsadmin/backend/controllers"
	"emsadmin/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// Cohorts and roster
	cohortsController := controllers.NewCohortsController(db, cfg)
	cohorts := app.Group("/api/cohorts", authMiddleware)
	cohorts.Get("/", cohortsController.GetCohorts)
	cohorts.Post("/", adminMiddleware, cohortsController.CreateCohort)
	cohorts.Put("/:id", adminMiddleware, cohortsController.UpdateCohort)
	cohorts.Get("/:id/roster", cohortsController.GetRoster)
	cohorts.Post("/:id/students", cohortsController.AddStudent)
	cohorts.Put("/:id/students/:studentId", cohortsController.UpdateStudent)
	cohorts.Post("/:id/roster/import", adminMiddleware, cohortsController.ImportRoster)

	// Lab scheduling and attendance
	labsController := controllers.NewLabsController(db, cfg)
	labs := app.Group("/api/labs", authMiddleware)
	labs.Get("/", labsController.GetLabDays)
	labs.Post("/", labsController.CreateLabDay)
	labs.Put("/:id", labsController.UpdateLabDay)
	labs.Post("/:id/stations", labsController.AddStation)
	labs.Put("/:id/stations/reorder", labsController.ReorderStations)
	labs.Post("/:id/attendance", labsController.RecordAttendance)
	labs.Get("/:id/attendance", labsController.GetAttendance)

	// Scenario catalog and grading
	scenariosController := controllers.NewScenariosController(db, cfg)
	labs.Get("/:id/runs", scenariosController.GetLabDayRuns)
	scenarios := app.Group("/api/scenarios", authMiddleware)
	scenarios.Get("/", scenariosController.GetScenarios)
	scenarios.Post("/", adminMiddleware, scenariosController.CreateScenario)
	scenarios.Put("/:id", adminMiddleware, scenariosController.UpdateScenario)
	scenarios.Post("/:id/runs", scenariosController.RecordRun)
	scenarios.Put("/runs/:runId", scenariosController.UpdateRun)
	app.Get("/api/students/:studentId/runs", authMiddleware, scenariosController.GetStudentRuns)

	// Skills and signoffs
	skillsController := controllers.NewSkillsController(db, cfg)
	skills := app.Group("/api/skills", authMiddleware)
	skills.Get("/", skillsController.GetSkills)
	skills.Post("/", adminMiddleware, skillsController.CreateSkill)
	skills.Put("/:id", adminMiddleware, skillsController.UpdateSkill)
	skills.Post("/:id/signoff", skillsController.SignOff)
	skills.Delete("/:id/signoff/:studentId", skillsController.RevokeSignoff)
	app.Get("/api/students/:studentId/skills", authMiddleware, skillsController.GetChecklist)

	// Clinical sites, shifts and visits
	clinicalController := controllers.NewClinicalController(db, cfg)
	clinical := app.Group("/api/clinical", authMiddleware)
	clinical.Get("/sites", clinicalController.GetSites)
	clinical.Post("/sites", adminMiddleware, clinicalController.CreateSite)
	clinical.Put("/sites/:id", adminMiddleware, clinicalController.UpdateSite)
	clinical.Post("/shifts", clinicalController.LogShift)
	clinical.Put("/shifts/:id", clinicalController.UpdateShift)
	clinical.Post("/sites/:id/visits", clinicalController.RecordVisit)
	clinical.Get("/sites/:id/visits", clinicalController.GetVisits)
	app.Get("/api/students/:studentId/hours", authMiddleware, clinicalController.GetStudentHours)

	// Peer evaluations
	peerEvalsController := controllers.NewPeerEvalsController(db, cfg)
	peerEvals := app.Group("/api/peer-evals", authMiddleware)
	peerEvals.Post("/", peerEvalsController.SubmitEvaluation)
	app.Get("/api/students/:studentId/peer-evals", authMiddleware, peerEvalsController.GetStudentEvaluations)

	// Feedback triage
	feedbackController := controllers.NewFeedbackController(db, cfg)
	feedback := app.Group("/api/feedback", authMiddleware)
	feedback.Post("/", feedbackController.SubmitFeedback)
	feedback.Get("/", adminMiddleware, feedbackController.GetQueue)
	feedback.Put("/:id", adminMiddleware, feedbackController.Triage)

	// Reports
	reportsController := controllers.NewReportsController(db, cfg)
	reports := app.Group("/api/reports", authMiddleware)
	reports.Get("/cohorts/:id/gradebook", reportsController.GetGradebook)
	reports.Get("/cohorts/:id/gradebook/export", reportsController.ExportGradebook)
	reports.Get("/cohorts/:id/attendance", reportsController.GetAttendanceReport)
	reports.Get("/cohorts/:id/coverage", reportsController.GetCoverageReport)
	reports.Get("/comparison", reportsController.GetCohortComparison)
}
