package grading

import "math"

// Metrics holds one student's raw per-category counts, aggregated from
// scenario runs, skill signoffs, clinical shift logs, attendance records
// and peer evaluations.
type Metrics struct {
	ScenarioScoreSum      float64
	ScenarioCount         int
	SkillSignoffCount     int
	SkillTotalRequired    int
	ClinicalHours         float64
	ClinicalHoursRequired float64
	AttendancePresent     int
	AttendanceTotal       int
	PeerEvalScoreSum      float64
	PeerEvalCount         int
}

// Weights is the percent weight of each gradebook category. The default set
// sums to 100, but it does not have to: categories without data are dropped
// and the remaining weights renormalized.
type Weights struct {
	Scenarios  float64
	Skills     float64
	Clinical   float64
	Attendance float64
	PeerEvals  float64
}

// StudentGrade is the computed gradebook row. It is derived on every request
// and never persisted. Nil percentage fields mean the category has no data
// yet and did not count toward the overall grade.
type StudentGrade struct {
	ScenarioPct   *int   `json:"scenario_pct"`
	SkillPct      int    `json:"skill_pct"`
	ClinicalPct   int    `json:"clinical_pct"`
	AttendancePct *int   `json:"attendance_pct"`
	PeerPct       *int   `json:"peer_pct"`
	OverallPct    int    `json:"overall_pct"`
	Grade         string `json:"grade"`
	BelowPassing  bool   `json:"below_passing"`
}

const passingPct = 70

// Compose converts raw category counts into percentages and a weighted
// letter grade. Scenario, attendance and peer categories with no
// observations are excluded from the weighted average entirely; skills and
// clinical hours have program-constant denominators and always count, with a
// zero percentage when the denominator is missing.
func Compose(m Metrics, w Weights) StudentGrade {
	var g StudentGrade

	if m.ScenarioCount > 0 {
		g.ScenarioPct = intPtr(pct(100 * (m.ScenarioScoreSum / float64(m.ScenarioCount)) / 5))
	}
	if m.SkillTotalRequired > 0 {
		g.SkillPct = pct(100 * float64(m.SkillSignoffCount) / float64(m.SkillTotalRequired))
	}
	if m.ClinicalHoursRequired > 0 {
		g.ClinicalPct = pct(100 * m.ClinicalHours / m.ClinicalHoursRequired)
	}
	if m.AttendanceTotal > 0 {
		g.AttendancePct = intPtr(pct(100 * float64(m.AttendancePresent) / float64(m.AttendanceTotal)))
	}
	if m.PeerEvalCount > 0 {
		g.PeerPct = intPtr(pct(100 * (m.PeerEvalScoreSum / float64(m.PeerEvalCount)) / 5))
	}

	type pair struct {
		pct    int
		weight float64
	}

	included := []pair{
		{g.SkillPct, w.Skills},
		{g.ClinicalPct, w.Clinical},
	}
	if g.ScenarioPct != nil {
		included = append(included, pair{*g.ScenarioPct, w.Scenarios})
	}
	if g.AttendancePct != nil {
		included = append(included, pair{*g.AttendancePct, w.Attendance})
	}
	if g.PeerPct != nil {
		included = append(included, pair{*g.PeerPct, w.PeerEvals})
	}

	var weighted, totalWeight float64
	for _, p := range included {
		weighted += float64(p.pct) * p.weight
		totalWeight += p.weight
	}
	if totalWeight > 0 {
		g.OverallPct = pct(weighted / totalWeight)
	}

	g.Grade = Letter(g.OverallPct)
	g.BelowPassing = g.OverallPct < passingPct

	return g
}

// Letter maps an overall percentage to a letter grade.
func Letter(overallPct int) string {
	switch {
	case overallPct >= 90:
		return "A"
	case overallPct >= 80:
		return "B"
	case overallPct >= 70:
		return "C"
	case overallPct >= 60:
		return "D"
	default:
		return "F"
	}
}

// pct rounds to the nearest integer and clamps to [0, 100].
func pct(v float64) int {
	n := int(math.Round(v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func intPtr(n int) *int {
	return &n
}
