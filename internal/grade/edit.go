package grade

import "github.com/teamdino/studykit/internal/model"

// Edit is a single user change to a course.
type Edit interface {
	apply(c *model.Course)
}

// Apply applies an edit and re-derives the course. The input is not modified.
func Apply(c model.Course, e Edit) model.Course {
	c = cloneCourse(c)
	if e != nil {
		e.apply(&c)
	}
	return Derive(c)
}

// SetName renames the course.
type SetName struct {
	Name string
}

func (e SetName) apply(c *model.Course) {
	c.Name = e.Name
	// Leaving CLAD mode brings back the assessments it cleared.
	if !IsCLAD(e.Name) && len(c.Assessments) == 0 {
		c.Assessments = DefaultAssessments()
	}
}

// SetCredits changes the credit weight.
type SetCredits struct {
	Credits int
}

func (e SetCredits) apply(c *model.Course) {
	c.Credits = e.Credits
}

// SetGrade selects a grade label for an assessment. Selecting a label clears
// the assessment's marks; an unknown or empty label clears the assessment.
type SetGrade struct {
	Kind  model.AssessmentKind
	Label string
}

func (e SetGrade) apply(c *model.Course) {
	a := c.Assessment(e.Kind)
	if a == nil {
		return
	}
	a.GradePoint = nil
	a.Marks = nil
	if !ValidLabel(e.Kind, e.Label) {
		a.GradeLabel = ""
		return
	}
	a.GradeLabel = e.Label
}

// SetMarks enters the raw marks of a sessional. Nil clears them.
type SetMarks struct {
	Kind  model.AssessmentKind
	Marks *float64
}

func (e SetMarks) apply(c *model.Course) {
	if !e.Kind.IsSessional() {
		return
	}
	a := c.Assessment(e.Kind)
	if a == nil {
		return
	}
	a.Marks = clampPtr(e.Marks)
}

// SetLab toggles the lab component. Turning it off drops the lab marks.
type SetLab struct {
	Enabled bool
}

func (e SetLab) apply(c *model.Course) {
	c.HasLab = e.Enabled
	if !e.Enabled {
		c.LabMarks = nil
	}
}

// SetLabMarks enters the lab score. Nil clears it.
type SetLabMarks struct {
	Marks *float64
}

func (e SetLabMarks) apply(c *model.Course) {
	c.LabMarks = clampPtr(e.Marks)
}

// SetDirectGrade selects the overall grade of a CLAD course.
// Labels outside the CLAD options are ignored.
type SetDirectGrade struct {
	Label string
}

func (e SetDirectGrade) apply(c *model.Course) {
	if _, ok := CLADPoint(e.Label); !ok {
		return
	}
	c.DirectGrade = e.Label
}

func clampPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	clamped := ClampMarks(*v)
	return &clamped
}
