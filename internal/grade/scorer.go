package grade

import (
	"math"

	"github.com/teamdino/studykit/internal/model"
)

// Grade labels a user can select.
const (
	LabelO     = "O"
	LabelAPlus = "A+"
	LabelA     = "A"
	LabelBPlus = "B+"
	LabelB     = "B"
	LabelC     = "C"
	LabelP     = "P"
	LabelI     = "I"
	LabelAbR   = "Ab/R"
	LabelLAB   = "L/AB"
	LabelF     = "F"
)

// Option is a selectable grade label and its fixed grade point.
// Special sessional labels have no fixed point and carry Special=true.
type Option struct {
	Label   string
	Point   float64
	Special bool
}

var letterOptions = []Option{
	{Label: LabelO, Point: 10},
	{Label: LabelAPlus, Point: 9},
	{Label: LabelA, Point: 8},
	{Label: LabelBPlus, Point: 7},
	{Label: LabelB, Point: 6},
	{Label: LabelC, Point: 5},
}

var sessionalOptions = append(append([]Option{}, letterOptions...),
	Option{Label: LabelP, Special: true},
	Option{Label: LabelI, Special: true},
	Option{Label: LabelAbR, Special: true},
)

var engagementOptions = append(append([]Option{}, letterOptions...),
	Option{Label: LabelP, Point: 4},
	Option{Label: LabelLAB, Point: 0},
)

var cladOptions = append(append([]Option{}, letterOptions...),
	Option{Label: LabelP, Point: 4},
	Option{Label: LabelI, Point: 4},
)

// Options returns the labels selectable for an assessment kind.
func Options(kind model.AssessmentKind) []Option {
	var src []Option
	if kind == model.LearningEngagement {
		src = engagementOptions
	} else {
		src = sessionalOptions
	}
	out := make([]Option, len(src))
	copy(out, src)
	return out
}

// CLADOptions returns the labels selectable as a CLAD course grade.
func CLADOptions() []Option {
	out := make([]Option, len(cladOptions))
	copy(out, cladOptions)
	return out
}

func findOption(options []Option, label string) (Option, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// ValidLabel reports whether label can be selected for the kind.
func ValidLabel(kind model.AssessmentKind, label string) bool {
	_, ok := findOption(Options(kind), label)
	return ok
}

// IsSpecial reports whether label is a special sessional grade (I, P, Ab/R).
func IsSpecial(label string) bool {
	return label == LabelI || label == LabelP || label == LabelAbR
}

// LabelPoint returns the fixed grade point of a label for the kind.
// It returns false for unknown labels and for special sessional labels,
// which depend on sessional marks.
func LabelPoint(kind model.AssessmentKind, label string) (float64, bool) {
	opt, ok := findOption(Options(kind), label)
	if !ok || opt.Special {
		return 0, false
	}
	return opt.Point, true
}

// CLADPoint returns the grade point of a CLAD course grade.
func CLADPoint(label string) (float64, bool) {
	opt, ok := findOption(cladOptions, label)
	if !ok {
		return 0, false
	}
	return opt.Point, true
}

// SessionalTotal sums the marks of both sessionals. Unset marks count as
// zero in the total; bothEntered is true only when both are set.
func SessionalTotal(assessments []model.Assessment) (total float64, bothEntered bool) {
	var s1, s2 *float64
	for _, a := range assessments {
		switch a.Kind {
		case model.Sessional1:
			s1 = a.Marks
		case model.Sessional2:
			s2 = a.Marks
		}
	}
	if s1 != nil {
		total += *s1
	}
	if s2 != nil {
		total += *s2
	}
	return total, s1 != nil && s2 != nil
}

// PassMarks is the sessional total an "I" grade needs to earn a pass point.
const PassMarks = 25

// SessionalPoint resolves a special sessional label against the combined
// sessional marks.
func SessionalPoint(label string, total float64) float64 {
	switch label {
	case LabelAbR:
		return 0
	case LabelP:
		return 4
	case LabelI:
		if total >= PassMarks {
			return 4
		}
		return 0
	default:
		return 0
	}
}

// ClampMarks limits a raw score to [0, 100]. NaN counts as 0.
func ClampMarks(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
