package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdino/studykit/internal/model"
)

func resolved(name string, credits int, final float64) model.Course {
	return model.Course{Name: name, Credits: credits, FinalGradePoint: &final, WGP: &final}
}

func TestSGPA(t *testing.T) {
	res, ok := SGPA([]model.Course{
		resolved("Maths", 3, 8),
		resolved("Physics", 4, 6),
	})
	require.True(t, ok)
	assert.Equal(t, 7, res.TotalCredits)
	assert.Equal(t, 48.0, res.TotalGradePoints)
	assert.InDelta(t, 6.857, res.SGPA, 0.001)
}

func TestSGPASkipsInvalidCourses(t *testing.T) {
	unnamed := resolved("   ", 4, 10)
	pending := model.Course{Name: "Chemistry", Credits: 4}
	res, ok := SGPA([]model.Course{resolved("Maths", 2, 9), unnamed, pending})
	require.True(t, ok)
	assert.Equal(t, 2, res.TotalCredits)
	assert.Equal(t, 9.0, res.SGPA)
}

func TestSGPANoResult(t *testing.T) {
	_, ok := SGPA(nil)
	assert.False(t, ok)

	_, ok = SGPA([]model.Course{{Name: "Maths", Credits: 3}})
	assert.False(t, ok)

	_, ok = SGPA([]model.Course{resolved("Maths", 0, 8)})
	assert.False(t, ok, "zero credits must not divide")
}

func TestCGPA(t *testing.T) {
	res, ok := CGPA(7.5, 20, 8.0, 60)
	require.True(t, ok)
	assert.Equal(t, 80, res.TotalCredits)
	assert.Equal(t, 630.0, res.TotalGradePoints)
	assert.Equal(t, 7.875, res.CGPA)

	_, ok = CGPA(0, 0, 0, 0)
	assert.False(t, ok)
}

func TestCumulativeValidatesPreviousRecord(t *testing.T) {
	sem := SemesterResult{SGPA: 7.5, TotalCredits: 20}

	res, err := Cumulative(sem, PreviousRecord{CGPA: 8, Credits: 60})
	require.NoError(t, err)
	assert.Equal(t, 7.875, res.CGPA)

	_, err = Cumulative(sem, PreviousRecord{CGPA: 10.5, Credits: 60})
	assert.EqualError(t, err, "previous CGPA must be between 0 and 10")

	_, err = Cumulative(sem, PreviousRecord{CGPA: 8, Credits: 0})
	assert.EqualError(t, err, "previous credits must be greater than 0")

	_, err = Cumulative(sem, PreviousRecord{CGPA: 0, Credits: 1})
	assert.NoError(t, err)
}

func TestSemesterFromDerivedCourses(t *testing.T) {
	maths := course("Maths",
		SetCredits{Credits: 3},
		SetGrade{Kind: model.Sessional1, Label: LabelA},
		SetGrade{Kind: model.Sessional2, Label: LabelA},
		SetGrade{Kind: model.LearningEngagement, Label: LabelA},
	)
	clad := course("CLAD", SetDirectGrade{Label: LabelO})
	failed := course("Biology",
		SetCredits{Credits: 4},
		SetGrade{Kind: model.LearningEngagement, Label: LabelLAB},
	)

	res, ok := SGPA([]model.Course{maths, clad, failed})
	require.True(t, ok)
	assert.Equal(t, 8, res.TotalCredits)
	assert.Equal(t, 34.0, res.TotalGradePoints)
}
