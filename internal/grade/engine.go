package grade

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/teamdino/studykit/internal/model"
)

// DefaultCredits is the credit weight of a newly created course.
const DefaultCredits = 3

// Reasons reported by CheckForF.
const (
	ReasonEngagementAbsent = "Learning Engagement is L/AB"
	ReasonSessionalTotal   = "Sessional total < 25 with I grade"
)

// Lab blend shares of the final percentage.
const (
	theoryShare = 0.70
	labShare    = 0.30
)

const snapEpsilon = 1e-9

// NewCourse returns an empty course with the three standard assessments.
func NewCourse() model.Course {
	return model.Course{
		ID:          uuid.NewString(),
		Credits:     DefaultCredits,
		Assessments: DefaultAssessments(),
	}
}

// DefaultAssessments returns unresolved standard assessments.
func DefaultAssessments() []model.Assessment {
	out := make([]model.Assessment, 0, len(model.StandardKinds))
	for _, k := range model.StandardKinds {
		out = append(out, model.Assessment{Kind: k, Weight: k.Weight()})
	}
	return out
}

// RemoveCourse drops the course with the given id.
func RemoveCourse(courses []model.Course, id string) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID == id {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IsCLAD reports whether a course name selects CLAD mode.
func IsCLAD(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == "clad"
}

// Derive recomputes every derived field of a course from its inputs.
// Unresolved inputs leave WGP, FinalGradePoint and LetterGrade unset.
func Derive(c model.Course) model.Course {
	c = cloneCourse(c)
	c.WGP = nil
	c.FinalGradePoint = nil
	c.LetterGrade = ""

	if IsCLAD(c.Name) {
		return deriveCLAD(c)
	}
	c.DirectGrade = ""

	total, bothEntered := SessionalTotal(c.Assessments)
	pending := hasPendingSpecial(c.Assessments)
	for i := range c.Assessments {
		c.Assessments[i].GradePoint = resolvePoint(c.Assessments[i], total, bothEntered)
	}

	if le := c.Assessment(model.LearningEngagement); le != nil && le.GradeLabel == LabelLAB {
		return failCourse(c)
	}
	if pending && !bothEntered {
		return c
	}
	if isF, _ := CheckForF(c.Assessments); isF {
		return failCourse(c)
	}

	raw, ok := RawWGP(c.Assessments)
	if !ok {
		return c
	}
	wgp := RoundUp(raw)
	final := wgp
	if c.HasLab && c.LabMarks != nil {
		final = LabBlend(wgp, *c.LabMarks)
	}
	c.WGP = &wgp
	c.FinalGradePoint = &final
	c.LetterGrade = Lookup(final).Letter
	return c
}

func deriveCLAD(c model.Course) model.Course {
	c.Credits = 1
	c.Assessments = nil
	c.HasLab = false
	c.LabMarks = nil
	point, ok := CLADPoint(c.DirectGrade)
	if !ok {
		c.DirectGrade = ""
		return c
	}
	wgp, final := point, point
	c.WGP = &wgp
	c.FinalGradePoint = &final
	c.LetterGrade = c.DirectGrade
	return c
}

func failCourse(c model.Course) model.Course {
	wgp, final := 0.0, 0.0
	c.WGP = &wgp
	c.FinalGradePoint = &final
	c.LetterGrade = LabelF
	return c
}

// hasPendingSpecial reports whether a sessional carries I or Ab/R, the labels
// that cannot resolve without both sessional marks.
func hasPendingSpecial(assessments []model.Assessment) bool {
	for _, a := range assessments {
		if !a.Kind.IsSessional() {
			continue
		}
		if a.GradeLabel == LabelI || a.GradeLabel == LabelAbR {
			return true
		}
	}
	return false
}

func resolvePoint(a model.Assessment, total float64, bothEntered bool) *float64 {
	if a.GradeLabel == "" {
		return nil
	}
	if a.Kind.IsSessional() && IsSpecial(a.GradeLabel) {
		if a.GradeLabel == LabelP {
			p := SessionalPoint(LabelP, total)
			return &p
		}
		if !bothEntered {
			return nil
		}
		p := SessionalPoint(a.GradeLabel, total)
		return &p
	}
	p, ok := LabelPoint(a.Kind, a.GradeLabel)
	if !ok {
		return nil
	}
	return &p
}

// CheckForF reports whether the assessments force an F grade and why.
func CheckForF(assessments []model.Assessment) (bool, string) {
	var s1, s2 *model.Assessment
	for i := range assessments {
		a := &assessments[i]
		switch a.Kind {
		case model.LearningEngagement:
			if a.GradeLabel == LabelLAB {
				return true, ReasonEngagementAbsent
			}
		case model.Sessional1:
			s1 = a
		case model.Sessional2:
			s2 = a
		}
	}
	if s1 == nil || s2 == nil {
		return false, ""
	}
	if s1.GradeLabel != LabelI && s2.GradeLabel != LabelI {
		return false, ""
	}
	if s1.Marks == nil || s2.Marks == nil {
		return false, ""
	}
	if *s1.Marks+*s2.Marks < PassMarks {
		return true, ReasonSessionalTotal
	}
	return false, ""
}

// RawWGP returns the weighted sum of assessment grade points before rounding.
// It returns false when any assessment is unresolved.
func RawWGP(assessments []model.Assessment) (float64, bool) {
	if len(assessments) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, a := range assessments {
		if a.GradePoint == nil {
			return 0, false
		}
		sum += *a.GradePoint * a.Weight
	}
	return sum, true
}

// RoundUp rounds a grade point up to the next integer and caps it at 10.
// Values within float noise of an integer are treated as that integer.
func RoundUp(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		v = r
	}
	return math.Min(10, math.Ceil(v))
}

// LabBlend combines a theory WGP (70%) with lab marks (30%) into a final
// grade point, rounded up like the WGP.
func LabBlend(wgp, labMarks float64) float64 {
	theoryPct := (wgp / 10) * 100 * theoryShare
	labPct := labMarks * labShare
	return RoundUp((theoryPct + labPct) / 10)
}

// Contribution is one term of the WGP sum.
type Contribution struct {
	Kind         model.AssessmentKind
	Label        string
	GradePoint   float64
	Weight       float64
	Contribution float64
}

// Breakdown lists the weighted terms of a resolved course and their raw sum.
// It returns false when the WGP is not computable from the assessments.
func Breakdown(c model.Course) ([]Contribution, float64, bool) {
	raw, ok := RawWGP(c.Assessments)
	if !ok {
		return nil, 0, false
	}
	terms := make([]Contribution, 0, len(c.Assessments))
	for _, a := range c.Assessments {
		terms = append(terms, Contribution{
			Kind:         a.Kind,
			Label:        a.GradeLabel,
			GradePoint:   *a.GradePoint,
			Weight:       a.Weight,
			Contribution: *a.GradePoint * a.Weight,
		})
	}
	return terms, raw, true
}

func cloneCourse(c model.Course) model.Course {
	if c.Assessments != nil {
		assessments := make([]model.Assessment, len(c.Assessments))
		copy(assessments, c.Assessments)
		c.Assessments = assessments
	}
	return c
}
