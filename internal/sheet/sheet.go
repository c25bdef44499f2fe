// Package sheet reads a semester's courses from a TOML course sheet.
//
// A sheet is a list of [[course]] tables:
//
//	[[course]]
//	name = "Maths"
//	credits = 4
//	s1 = "A"
//	s2 = "I"
//	le = "O"
//	s1-marks = 12
//	s2-marks = 15
//	lab = true
//	lab-marks = 85
//
//	[[course]]
//	name = "CLAD"
//	grade = "A+"
package sheet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	gokitlog "github.com/go-kit/log"
	"github.com/go-playground/validator/v10"

	"github.com/teamdino/studykit/internal/grade"
	"github.com/teamdino/studykit/internal/logging"
	"github.com/teamdino/studykit/internal/model"
)

// Entry is one [[course]] table.
type Entry struct {
	Name     string   `toml:"name" validate:"required"`
	Credits  *int     `toml:"credits" validate:"omitempty,min=1"`
	S1       string   `toml:"s1"`
	S2       string   `toml:"s2"`
	LE       string   `toml:"le"`
	S1Marks  *float64 `toml:"s1-marks"`
	S2Marks  *float64 `toml:"s2-marks"`
	Lab      bool     `toml:"lab"`
	LabMarks *float64 `toml:"lab-marks"`
	Grade    string   `toml:"grade"`
}

// File is a decoded course sheet.
type File struct {
	Courses []Entry `toml:"course" validate:"dive"`
}

var validate = validator.New()

// Load reads and builds the courses of a sheet file.
func Load(logger gokitlog.Logger, path string) ([]model.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer logging.Close(logger, f, "sheet")
	return Parse(f)
}

// Parse decodes a sheet and builds its courses.
func Parse(r io.Reader) ([]model.Course, error) {
	var file File
	meta, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sheet: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown sheet key %q", undecoded[0].String())
	}
	if err := validate.Struct(file); err != nil {
		return nil, describe(err)
	}
	courses := make([]model.Course, 0, len(file.Courses))
	for i, e := range file.Courses {
		c, err := e.Course()
		if err != nil {
			return nil, fmt.Errorf("course %d (%s): %w", i+1, e.Name, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// Course replays the entry through the grade engine.
func (e Entry) Course() (model.Course, error) {
	c := grade.Apply(grade.NewCourse(), grade.SetName{Name: strings.TrimSpace(e.Name)})

	if grade.IsCLAD(c.Name) {
		if e.S1 != "" || e.S2 != "" || e.LE != "" || e.S1Marks != nil || e.S2Marks != nil || e.Lab || e.LabMarks != nil {
			return model.Course{}, fmt.Errorf("CLAD takes only a grade")
		}
		if e.Grade != "" {
			if _, ok := grade.CLADPoint(e.Grade); !ok {
				return model.Course{}, fmt.Errorf("unknown CLAD grade %q", e.Grade)
			}
			c = grade.Apply(c, grade.SetDirectGrade{Label: e.Grade})
		}
		return c, nil
	}
	if e.Grade != "" {
		return model.Course{}, fmt.Errorf("grade is only allowed for CLAD")
	}

	if e.Credits != nil {
		c = grade.Apply(c, grade.SetCredits{Credits: *e.Credits})
	}
	labels := []struct {
		kind  model.AssessmentKind
		label string
	}{
		{model.Sessional1, e.S1},
		{model.Sessional2, e.S2},
		{model.LearningEngagement, e.LE},
	}
	for _, l := range labels {
		if l.label == "" {
			continue
		}
		if !grade.ValidLabel(l.kind, l.label) {
			return model.Course{}, fmt.Errorf("unknown %s grade %q", l.kind.Name(), l.label)
		}
		c = grade.Apply(c, grade.SetGrade{Kind: l.kind, Label: l.label})
	}
	// Marks go after labels; selecting a label clears them.
	if e.S1Marks != nil {
		c = grade.Apply(c, grade.SetMarks{Kind: model.Sessional1, Marks: e.S1Marks})
	}
	if e.S2Marks != nil {
		c = grade.Apply(c, grade.SetMarks{Kind: model.Sessional2, Marks: e.S2Marks})
	}
	if e.Lab || e.LabMarks != nil {
		c = grade.Apply(c, grade.SetLab{Enabled: true})
	}
	if e.LabMarks != nil {
		c = grade.Apply(c, grade.SetLabMarks{Marks: e.LabMarks})
	}
	return c, nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid sheet: %w", err)
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Name":
		return fmt.Errorf("invalid sheet: %s: course name is required", fe.Namespace())
	case "Credits":
		return fmt.Errorf("invalid sheet: %s: credits must be at least 1", fe.Namespace())
	}
	return fmt.Errorf("invalid sheet: %s failed %s", fe.Namespace(), fe.Tag())
}
