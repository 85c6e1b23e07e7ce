package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"emsadmin/backend/config"
	"emsadmin/backend/grading"
	"emsadmin/backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReportsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewReportsController(db *gorm.DB, cfg *config.Config) *ReportsController {
	return &ReportsController{DB: db, Cfg: cfg}
}

// weightsFor returns the cohort's weight overrides when set, otherwise the
// configured defaults.
func (rc *ReportsController) weightsFor(cohort models.Cohort) grading.Weights {
	if cohort.WeightScenarios+cohort.WeightSkills+cohort.WeightClinical+
		cohort.WeightAttendance+cohort.WeightPeerEvals > 0 {
		return grading.Weights{
			Scenarios:  float64(cohort.WeightScenarios),
			Skills:     float64(cohort.WeightSkills),
			Clinical:   float64(cohort.WeightClinical),
			Attendance: float64(cohort.WeightAttendance),
			PeerEvals:  float64(cohort.WeightPeerEvals),
		}
	}
	return grading.Weights{
		Scenarios:  float64(rc.Cfg.WeightScenarios),
		Skills:     float64(rc.Cfg.WeightSkills),
		Clinical:   float64(rc.Cfg.WeightClinical),
		Attendance: float64(rc.Cfg.WeightAttendance),
		PeerEvals:  float64(rc.Cfg.WeightPeerEvals),
	}
}

func (rc *ReportsController) clinicalRequiredFor(cohort models.Cohort) float64 {
	if cohort.ClinicalHoursRequired > 0 {
		return float64(cohort.ClinicalHoursRequired)
	}
	return float64(rc.Cfg.ClinicalHoursRequired)
}

type gradebookRow struct {
	StudentID uint   `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	grading.StudentGrade
}

// gradebookRows aggregates raw counts per student and composes the grade for
// everyone on the cohort's active roster. Grades are derived fresh from
// current rows on every call.
func (rc *ReportsController) gradebookRows(cohort models.Cohort) ([]gradebookRow, error) {
	var students []models.Student
	if err := rc.DB.Where("cohort_id = ? AND status = 'active'", cohort.ID).
		Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, err
	}

	type sumCount struct {
		StudentID uint
		Total     float64
		Count     int
	}

	scenarioAgg := make(map[uint]sumCount)
	var scenarioRows []sumCount
	rc.DB.Model(&models.ScenarioRun{}).
		Select("scenario_runs.student_id, SUM(scenario_runs.score) as total, COUNT(*) as count").
		Joins("JOIN students ON students.id = scenario_runs.student_id").
		Where("students.cohort_id = ?", cohort.ID).
		Group("scenario_runs.student_id").
		Scan(&scenarioRows)
	for _, r := range scenarioRows {
		scenarioAgg[r.StudentID] = r
	}

	var skillsRequired int64
	rc.DB.Model(&models.Skill{}).Where("required = ?", true).Count(&skillsRequired)

	signoffAgg := make(map[uint]int)
	var signoffRows []sumCount
	rc.DB.Model(&models.SkillSignoff{}).
		Select("skill_signoffs.student_id, COUNT(*) as count").
		Joins("JOIN skills ON skills.id = skill_signoffs.skill_id").
		Where("skills.required = ?", true).
		Group("skill_signoffs.student_id").
		Scan(&signoffRows)
	for _, r := range signoffRows {
		signoffAgg[r.StudentID] = r.Count
	}

	clinicalAgg := make(map[uint]float64)
	var clinicalRows []sumCount
	rc.DB.Model(&models.ClinicalShift{}).
		Select("student_id, SUM(hours) as total").
		Group("student_id").
		Scan(&clinicalRows)
	for _, r := range clinicalRows {
		clinicalAgg[r.StudentID] = r.Total
	}

	var labDayTotal int64
	rc.DB.Model(&models.LabDay{}).Where("cohort_id = ?", cohort.ID).Count(&labDayTotal)

	attendanceAgg := make(map[uint]int)
	var attendanceRows []sumCount
	rc.DB.Model(&models.AttendanceRecord{}).
		Select("attendance_records.student_id, COUNT(*) as count").
		Joins("JOIN lab_days ON lab_days.id = attendance_records.lab_day_id").
		Where("lab_days.cohort_id = ? AND attendance_records.status IN ('present', 'late')", cohort.ID).
		Group("attendance_records.student_id").
		Scan(&attendanceRows)
	for _, r := range attendanceRows {
		attendanceAgg[r.StudentID] = r.Count
	}

	peerAgg := make(map[uint]sumCount)
	var peerRows []sumCount
	rc.DB.Model(&models.PeerEvaluation{}).
		Select("student_id, SUM(score) as total, COUNT(*) as count").
		Group("student_id").
		Scan(&peerRows)
	for _, r := range peerRows {
		peerAgg[r.StudentID] = r
	}

	weights := rc.weightsFor(cohort)
	required := rc.clinicalRequiredFor(cohort)

	rows := make([]gradebookRow, 0, len(students))
	for _, s := range students {
		metrics := grading.Metrics{
			ScenarioScoreSum:      scenarioAgg[s.ID].Total,
			ScenarioCount:         scenarioAgg[s.ID].Count,
			SkillSignoffCount:     signoffAgg[s.ID],
			SkillTotalRequired:    int(skillsRequired),
			ClinicalHours:         clinicalAgg[s.ID],
			ClinicalHoursRequired: required,
			AttendancePresent:     attendanceAgg[s.ID],
			AttendanceTotal:       int(labDayTotal),
			PeerEvalScoreSum:      peerAgg[s.ID].Total,
			PeerEvalCount:         peerAgg[s.ID].Count,
		}

		rows = append(rows, gradebookRow{
			StudentID:    s.ID,
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			StudentGrade: grading.Compose(metrics, weights),
		})
	}

	return rows, nil
}

func (rc *ReportsController) GetGradebook(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var cohort models.Cohort
	if err := rc.DB.First(&cohort, cohortID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cohort not found",
		})
	}

	rows, err := rc.gradebookRows(cohort)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var mean float64
	belowPassing := 0
	for _, r := range rows {
		mean += float64(r.OverallPct)
		if r.BelowPassing {
			belowPassing++
		}
	}
	if len(rows) > 0 {
		mean /= float64(len(rows))
	}

	return c.JSON(fiber.Map{
		"cohort_id":     cohortID,
		"cohort_name":   cohort.Name,
		"rows":          rows,
		"cohort_mean":   mean,
		"below_passing": belowPassing,
	})
}

// ExportGradebook serializes the gradebook as CSV.
func (rc *ReportsController) ExportGradebook(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var cohort models.Cohort
	if err := rc.DB.First(&cohort, cohortID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Cohort not found",
		})
	}

	rows, err := rc.gradebookRows(cohort)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"last_name", "first_name", "scenarios", "skills",
		"clinical", "attendance", "peer_evals", "overall", "grade"})

	optional := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}

	for _, r := range rows {
		w.Write([]string{
			r.LastName,
			r.FirstName,
			optional(r.ScenarioPct),
			strconv.Itoa(r.SkillPct),
			strconv.Itoa(r.ClinicalPct),
			optional(r.AttendancePct),
			optional(r.PeerPct),
			strconv.Itoa(r.OverallPct),
			r.Grade,
		})
	}
	w.Flush()

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=gradebook-%d.csv", cohortID))
	return c.Send(buf.Bytes())
}

func (rc *ReportsController) GetAttendanceReport(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var labDays []models.LabDay
	if err := rc.DB.Where("cohort_id = ?", cohortID).Order("date").Find(&labDays).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var students []models.Student
	rc.DB.Where("cohort_id = ? AND status = 'active'", cohortID).
		Order("last_name, first_name").Find(&students)

	labDayIDs := make([]uint, 0, len(labDays))
	for _, d := range labDays {
		labDayIDs = append(labDayIDs, d.ID)
	}

	var records []models.AttendanceRecord
	if len(labDayIDs) > 0 {
		rc.DB.Where("lab_day_id IN ?", labDayIDs).Find(&records)
	}

	presentByStudent := make(map[uint]int)
	statusByDay := make(map[uint]map[string]int)
	for _, r := range records {
		if r.Status == "present" || r.Status == "late" {
			presentByStudent[r.StudentID]++
		}
		if statusByDay[r.LabDayID] == nil {
			statusByDay[r.LabDayID] = make(map[string]int)
		}
		statusByDay[r.LabDayID][r.Status]++
	}

	var studentRows []fiber.Map
	for _, s := range students {
		pct := 0.0
		if len(labDays) > 0 {
			pct = float64(presentByStudent[s.ID]) / float64(len(labDays)) * 100
		}
		studentRows = append(studentRows, fiber.Map{
			"student_id": s.ID,
			"first_name": s.FirstName,
			"last_name":  s.LastName,
			"present":    presentByStudent[s.ID],
			"total":      len(labDays),
			"percentage": pct,
		})
	}

	var dayRows []fiber.Map
	for _, d := range labDays {
		dayRows = append(dayRows, fiber.Map{
			"lab_day_id": d.ID,
			"date":       d.Date,
			"topic":      d.Topic,
			"present":    statusByDay[d.ID]["present"],
			"late":       statusByDay[d.ID]["late"],
			"absent":     statusByDay[d.ID]["absent"],
			"excused":    statusByDay[d.ID]["excused"],
		})
	}

	return c.JSON(fiber.Map{
		"cohort_id": cohortID,
		"students":  studentRows,
		"lab_days":  dayRows,
	})
}

// GetCohortComparison reports aggregate metrics side by side for every
// non-archived cohort.
func (rc *ReportsController) GetCohortComparison(c *fiber.Ctx) error {
	var cohorts []models.Cohort
	if err := rc.DB.Where("status <> 'archived'").Order("start_date").Find(&cohorts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	var result []fiber.Map
	for _, cohort := range cohorts {
		rows, err := rc.gradebookRows(cohort)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not query database",
			})
		}

		var meanOverall, attendanceSum, clinicalSum float64
		attendanceN := 0
		for _, r := range rows {
			meanOverall += float64(r.OverallPct)
			clinicalSum += float64(r.ClinicalPct)
			if r.AttendancePct != nil {
				attendanceSum += float64(*r.AttendancePct)
				attendanceN++
			}
		}

		var meanScenario float64
		rc.DB.Model(&models.ScenarioRun{}).
			Select("COALESCE(AVG(scenario_runs.score), 0)").
			Joins("JOIN students ON students.id = scenario_runs.student_id").
			Where("students.cohort_id = ?", cohort.ID).
			Scan(&meanScenario)

		entry := fiber.Map{
			"cohort_id":           cohort.ID,
			"cohort_name":         cohort.Name,
			"status":              cohort.Status,
			"students":            len(rows),
			"mean_overall":        0.0,
			"mean_attendance":     0.0,
			"mean_scenario_score": meanScenario,
			"mean_clinical_pct":   0.0,
		}
		if len(rows) > 0 {
			entry["mean_overall"] = meanOverall / float64(len(rows))
			entry["mean_clinical_pct"] = clinicalSum / float64(len(rows))
		}
		if attendanceN > 0 {
			entry["mean_attendance"] = attendanceSum / float64(attendanceN)
		}

		result = append(result, entry)
	}

	return c.JSON(fiber.Map{
		"cohorts": result,
	})
}

// GetCoverageReport summarizes scheduling patterns: lab days per weekday,
// per-student attendance consistency, and lab days with no instructor
// assigned.
func (rc *ReportsController) GetCoverageReport(c *fiber.Ctx) error {
	cohortID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cohort ID",
		})
	}

	var labDays []models.LabDay
	if err := rc.DB.Where("cohort_id = ?", cohortID).Order("date").Find(&labDays).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not query database",
		})
	}

	weekdays := make(map[string]int)
	var uncovered []fiber.Map
	for _, d := range labDays {
		if t, err := time.Parse("2006-01-02", d.Date); err == nil {
			weekdays[t.Weekday().String()]++
		}
		if d.InstructorID == 0 {
			uncovered = append(uncovered, fiber.Map{
				"lab_day_id": d.ID,
				"date":       d.Date,
				"topic":      d.Topic,
			})
		}
	}

	var students []models.Student
	rc.DB.Where("cohort_id = ? AND status = 'active'", cohortID).
		Order("last_name, first_name").Find(&students)

	labDayIDs := make([]uint, 0, len(labDays))
	for _, d := range labDays {
		labDayIDs = append(labDayIDs, d.ID)
	}

	var records []models.AttendanceRecord
	if len(labDayIDs) > 0 {
		rc.DB.Where("lab_day_id IN ?", labDayIDs).Find(&records)
	}

	attendedByStudent := make(map[uint]int)
	for _, r := range records {
		if r.Status == "present" || r.Status == "late" {
			attendedByStudent[r.StudentID]++
		}
	}

	var consistency []fiber.Map
	for _, s := range students {
		rate := 0.0
		if len(labDays) > 0 {
			rate = float64(attendedByStudent[s.ID]) / float64(len(labDays)) * 100
		}
		consistency = append(consistency, fiber.Map{
			"student_id":       s.ID,
			"first_name":       s.FirstName,
			"last_name":        s.LastName,
			"consistency_rate": rate,
		})
	}

	return c.JSON(fiber.Map{
		"cohort_id":      cohortID,
		"weekday_load":   weekdays,
		"uncovered":      uncovered,
		"consistency":    consistency,
		"total_lab_days": len(labDays),
	})
}
