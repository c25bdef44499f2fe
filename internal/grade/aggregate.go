package grade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/teamdino/studykit/internal/model"
)

// SemesterResult is the credit-weighted average of one semester.
type SemesterResult struct {
	SGPA             float64
	TotalCredits     int
	TotalGradePoints float64
}

// CumulativeResult is the credit-weighted average across semesters.
type CumulativeResult struct {
	CGPA             float64
	TotalCredits     int
	TotalGradePoints float64
}

// ValidCourses keeps named courses with a resolved final grade point.
func ValidCourses(courses []model.Course) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if c.FinalGradePoint == nil || strings.TrimSpace(c.Name) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SGPA averages the final grade points of the valid courses by credits.
// It returns false when no course counts or the credits sum to zero.
func SGPA(courses []model.Course) (SemesterResult, bool) {
	valid := ValidCourses(courses)
	if len(valid) == 0 {
		return SemesterResult{}, false
	}
	var res SemesterResult
	for _, c := range valid {
		res.TotalCredits += c.Credits
		res.TotalGradePoints += float64(c.Credits) * *c.FinalGradePoint
	}
	if res.TotalCredits == 0 {
		return SemesterResult{}, false
	}
	res.SGPA = res.TotalGradePoints / float64(res.TotalCredits)
	return res, true
}

// CGPA blends the current semester into a previous cumulative record.
// It returns false when the combined credits are zero.
func CGPA(sgpa float64, credits int, previousCGPA float64, previousCredits int) (CumulativeResult, bool) {
	totalCredits := previousCredits + credits
	if totalCredits == 0 {
		return CumulativeResult{}, false
	}
	previousPoints := previousCGPA * float64(previousCredits)
	currentPoints := sgpa * float64(credits)
	total := previousPoints + currentPoints
	return CumulativeResult{
		CGPA:             total / float64(totalCredits),
		TotalCredits:     totalCredits,
		TotalGradePoints: total,
	}, true
}

// PreviousRecord is the cumulative record before the current semester.
type PreviousRecord struct {
	CGPA    float64 `validate:"gte=0,lte=10"`
	Credits int     `validate:"gt=0"`
}

var validate = validator.New()

// Validate checks the record is usable for a CGPA calculation.
func (r PreviousRecord) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "CGPA":
				return fmt.Errorf("previous CGPA must be between 0 and 10")
			case "Credits":
				return fmt.Errorf("previous credits must be greater than 0")
			}
		}
		return fmt.Errorf("invalid previous record: %w", err)
	}
	return nil
}

// Cumulative validates the previous record and combines it with a semester.
func Cumulative(sem SemesterResult, prev PreviousRecord) (CumulativeResult, error) {
	if err := prev.Validate(); err != nil {
		return CumulativeResult{}, err
	}
	res, ok := CGPA(sem.SGPA, sem.TotalCredits, prev.CGPA, prev.Credits)
	if !ok {
		return CumulativeResult{}, fmt.Errorf("no credits to combine")
	}
	return res, nil
}
