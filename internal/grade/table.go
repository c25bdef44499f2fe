// Package grade implements the 10-point grading rules: letter bands,
// assessment scoring, course derivation and semester/cumulative averages.
package grade

// Band is a letter grade with its grade point range.
type Band struct {
	Letter string
	Min    float64
	Max    float64
}

// Ordered highest first; Lookup depends on it.
var bands = []Band{
	{Letter: "O", Min: 9.5, Max: 10},
	{Letter: "A+", Min: 8.5, Max: 9.49},
	{Letter: "A", Min: 7.5, Max: 8.49},
	{Letter: "B+", Min: 6.5, Max: 7.49},
	{Letter: "B", Min: 5.5, Max: 6.49},
	{Letter: "C", Min: 4.5, Max: 5.49},
	{Letter: "P", Min: 4.0, Max: 4.49},
	{Letter: "F", Min: 0, Max: 3.99},
}

// Bands returns a copy of the grade table.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Lookup returns the band for a grade point value.
func Lookup(value float64) Band {
	for _, b := range bands {
		if value >= b.Min {
			return b
		}
	}
	return bands[len(bands)-1]
}
