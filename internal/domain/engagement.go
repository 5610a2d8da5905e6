package domain

import (
	"strings"
	"time"
)

// EngagementType mirrors the tutor-request categories. Exactly one of
// the engagement's subject-matter fields is populated per type.
type EngagementType string

const (
	EngagementAcademic        EngagementType = "academic"
	EngagementLanguage        EngagementType = "language"
	EngagementTestExamPrep    EngagementType = "test_exam_prep"
	EngagementSoftSkills      EngagementType = "soft_skills"
	EngagementExtracurricular EngagementType = "extracurricular"
	EngagementSpecialNeeds    EngagementType = "special_needs"
)

// Engagement is a client-tutor tutoring arrangement. The engine reads
// it only for earnings reporting; creation lives elsewhere.
type Engagement struct {
	ID           string         `db:"id" json:"id"`
	Status       string         `db:"status" json:"status"`
	Type         EngagementType `db:"type" json:"type"`
	Subjects     []string       `db:"subjects" json:"subjects,omitempty"`
	Languages    []string       `db:"languages" json:"languages,omitempty"`
	Exam         *string        `db:"exam" json:"exam,omitempty"`
	Skills       []string       `db:"skills" json:"skills,omitempty"`
	Activities   []string       `db:"activities" json:"activities,omitempty"`
	SpecialNeeds []string       `db:"special_needs" json:"special_needs,omitempty"`
	StartDate    time.Time      `db:"start_date" json:"start_date"`
	EndDate      time.Time      `db:"end_date" json:"end_date"`
}

// Taught derives the human label for what the engagement covers from
// the field its type populates.
func (e *Engagement) Taught() string {
	switch e.Type {
	case EngagementAcademic:
		return strings.Join(e.Subjects, ", ")
	case EngagementExtracurricular:
		return strings.Join(e.Activities, ", ")
	case EngagementLanguage:
		return strings.Join(e.Languages, ", ")
	case EngagementSoftSkills:
		return strings.Join(e.Skills, ", ")
	case EngagementTestExamPrep:
		if e.Exam != nil {
			return *e.Exam
		}
		return ""
	case EngagementSpecialNeeds:
		return strings.Join(e.SpecialNeeds, ", ")
	default:
		return ""
	}
}

// Session is a single tutoring session under an engagement.
type Session struct {
	ID           string    `db:"id" json:"id"`
	EngagementID string    `db:"engagement_id" json:"engagement_id"`
	TuteeID      string    `db:"tutee_id" json:"tutee_id"`
	StartAt      time.Time `db:"start_at" json:"start_at"`
}

// EngagementEarnings is one summary row of the earnings breakdown.
type EngagementEarnings struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Tutee       string    `json:"tutee"`
	Currency    string    `json:"currency"`
	Taught      string    `json:"taught"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TotalDebit  float64   `json:"total_debit"`
	TotalCredit float64   `json:"total_credit"`
}

// EarningsBreakdown is the aggregated report for a tutor over a window.
type EarningsBreakdown struct {
	TotalDebit  float64              `json:"total_debit"`
	TotalCredit float64              `json:"total_credit"`
	Engagements []EngagementEarnings `json:"engagements"`
}
