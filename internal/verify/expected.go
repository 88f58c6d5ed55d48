package verify

import (
	"github.com/picarro/CommonUIAutomation/internal/styles"
)

// ExpectedValue is a single property expectation: either a literal string or
// a numeric value with an allowed absolute delta. The variant is resolved
// once at the API boundary instead of being re-branched on inside the
// comparison loop.
type ExpectedValue struct {
	Value        string
	Tolerance    float64
	hasTolerance bool
}

// Literal builds an expectation compared through the value normalizer.
func Literal(value string) ExpectedValue {
	return ExpectedValue{Value: value}
}

// Tolerated builds a numeric expectation with an allowed absolute delta.
// When either side fails to parse as a number the comparison falls back to
// normalized string equality.
func Tolerated(value string, tolerance float64) ExpectedValue {
	return ExpectedValue{Value: value, Tolerance: tolerance, hasTolerance: true}
}

// Matches compares an actual value against the expectation.
func (e ExpectedValue) Matches(actual string) bool {
	if e.hasTolerance {
		return styles.MatchesWithTolerance(e.Value, actual, e.Tolerance)
	}
	return styles.ValuesMatch(e.Value, actual)
}

// Expectation maps property names to expected values.
type Expectation map[string]ExpectedValue

// Literals converts a plain fixture mapping into an Expectation of literal
// values.
func Literals(props map[string]string) Expectation {
	expected := make(Expectation, len(props))
	for name, value := range props {
		expected[name] = Literal(value)
	}
	return expected
}

// SplitByKind partitions an expectation into regular entries and entries
// whose expected value is itself a var(--...) reference. The two sets are
// disjoint: a variable-valued property is verified by the CSS-variable path
// only, never double-checked by the computed-property path.
func (e Expectation) SplitByKind() (regular Expectation, variables Expectation) {
	regular = make(Expectation)
	variables = make(Expectation)
	for name, value := range e {
		if styles.IsVariableReference(value.Value) {
			variables[name] = value
		} else {
			regular[name] = value
		}
	}
	return regular, variables
}
