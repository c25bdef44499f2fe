// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// AssessmentKind identifies one of the standard course assessments.
type AssessmentKind int

const (
	Sessional1 AssessmentKind = iota
	Sessional2
	LearningEngagement
)

// StandardKinds lists the assessments of a regular course in display order.
var StandardKinds = []AssessmentKind{Sessional1, Sessional2, LearningEngagement}

// Name returns the display name of the assessment.
func (k AssessmentKind) Name() string {
	switch k {
	case Sessional1:
		return "Sessional 1"
	case Sessional2:
		return "Sessional 2"
	case LearningEngagement:
		return "Learning Engagement"
	default:
		return "Unknown"
	}
}

// Weight returns the fixed share of the course grade for the assessment.
func (k AssessmentKind) Weight() float64 {
	switch k {
	case Sessional1:
		return 0.30
	case Sessional2:
		return 0.45
	case LearningEngagement:
		return 0.25
	default:
		return 0
	}
}

// IsSessional reports whether the kind is one of the two sessional exams.
func (k AssessmentKind) IsSessional() bool {
	return k == Sessional1 || k == Sessional2
}

func (k AssessmentKind) String() string {
	return k.Name()
}

// ParseKind maps a display name or short code (s1, s2, le) to a kind.
func ParseKind(s string) (AssessmentKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s1", "sessional 1", "sessional1":
		return Sessional1, true
	case "s2", "sessional 2", "sessional2":
		return Sessional2, true
	case "le", "learning engagement", "learning-engagement":
		return LearningEngagement, true
	default:
		return 0, false
	}
}

// Assessment is one graded component of a course.
type Assessment struct {
	Kind       AssessmentKind
	Weight     float64
	GradePoint *float64
	GradeLabel string
	Marks      *float64
}

// Course is a single course in a semester sheet.
// WGP, FinalGradePoint and LetterGrade are derived; everything else is input.
type Course struct {
	ID          string
	Name        string
	Credits     int
	Assessments []Assessment
	HasLab      bool
	LabMarks    *float64
	DirectGrade string

	WGP             *float64
	FinalGradePoint *float64
	LetterGrade     string
}

// Assessment returns a pointer to the assessment of the given kind, if present.
func (c *Course) Assessment(kind AssessmentKind) *Assessment {
	for i := range c.Assessments {
		if c.Assessments[i].Kind == kind {
			return &c.Assessments[i]
		}
	}
	return nil
}

// Habit is a tracked habit in display order.
type Habit struct {
	Name     string
	Position int
}

// HabitCheck stores completion of one habit on one day of a week.
type HabitCheck struct {
	HabitName string
	WeekStart time.Time
	DayIndex  int
	Completed bool
}

// UserCode is a personal code that owns persisted habits.
type UserCode struct {
	ID        string
	Code      string
	CreatedAt time.Time
}

// WeekProgress is the average completion for one stored week.
type WeekProgress struct {
	WeekStart  time.Time
	Percentage int
}
