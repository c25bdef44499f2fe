package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdino/studykit/internal/grade"
	"github.com/teamdino/studykit/internal/model"
)

const semester = `
[[course]]
name = "Maths"
credits = 4
s1 = "A"
s2 = "A+"
le = "O"

[[course]]
name = "Physics"
s1 = "I"
s2 = "B"
le = "A"
s1-marks = 15
s2-marks = 12
lab = true
lab-marks = 140

[[course]]
name = "clad"
grade = "A+"
`

func TestParseSemester(t *testing.T) {
	courses, err := Parse(strings.NewReader(semester))
	require.NoError(t, err)
	require.Len(t, courses, 3)

	maths := courses[0]
	assert.Equal(t, 4, maths.Credits)
	require.NotNil(t, maths.FinalGradePoint)
	assert.Equal(t, 9.0, *maths.FinalGradePoint)
	assert.Equal(t, "A+", maths.LetterGrade)

	physics := courses[1]
	assert.Equal(t, grade.DefaultCredits, physics.Credits)
	s1 := physics.Assessment(model.Sessional1)
	require.NotNil(t, s1.Marks)
	assert.Equal(t, 15.0, *s1.Marks)
	require.NotNil(t, physics.LabMarks)
	assert.Equal(t, 100.0, *physics.LabMarks, "lab marks clamp")
	// I resolves to 4 (27 >= 25): 0.30*4 + 0.45*6 + 0.25*8 = 5.9 -> 6; lab (42+30)/10 = 7.2 -> 8
	require.NotNil(t, physics.WGP)
	assert.Equal(t, 6.0, *physics.WGP)
	assert.Equal(t, 8.0, *physics.FinalGradePoint)

	clad := courses[2]
	assert.Equal(t, 1, clad.Credits)
	assert.Equal(t, "A+", clad.LetterGrade)

	sem, ok := grade.SGPA(courses)
	require.True(t, ok)
	assert.Equal(t, 8, sem.TotalCredits)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown label":    "[[course]]\nname = \"X\"\ns1 = \"Z\"\n",
		"engagement Ab/R":  "[[course]]\nname = \"X\"\nle = \"Ab/R\"\n",
		"zero credits":     "[[course]]\nname = \"X\"\ncredits = 0\n",
		"missing name":     "[[course]]\ns1 = \"A\"\n",
		"unknown key":      "[[course]]\nname = \"X\"\nlecturer = \"Y\"\n",
		"grade on course":  "[[course]]\nname = \"X\"\ngrade = \"A\"\n",
		"CLAD with marks":  "[[course]]\nname = \"CLAD\"\ns1-marks = 10\n",
		"bad CLAD grade":   "[[course]]\nname = \"CLAD\"\ngrade = \"Ab/R\"\n",
		"malformed toml":   "[[course]\n",
		"credits negative": "[[course]]\nname = \"X\"\ncredits = -2\n",
	}
	for name, input := range cases {
		_, err := Parse(strings.NewReader(input))
		assert.Error(t, err, name)
	}
}

func TestParseCreditsMessage(t *testing.T) {
	_, err := Parse(strings.NewReader("[[course]]\nname = \"X\"\ncredits = 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credits must be at least 1")
}

func TestPendingCourseStaysUnresolved(t *testing.T) {
	courses, err := Parse(strings.NewReader("[[course]]\nname = \"X\"\ns1 = \"I\"\ns2 = \"A\"\nle = \"A\"\ns1-marks = 20\n"))
	require.NoError(t, err)
	assert.Nil(t, courses[0].FinalGradePoint)
	_, ok := grade.SGPA(courses)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sem.toml")
	require.NoError(t, os.WriteFile(path, []byte(semester), 0o644))
	courses, err := Load(nil, path)
	require.NoError(t, err)
	assert.Len(t, courses, 3)

	_, err = Load(nil, filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
