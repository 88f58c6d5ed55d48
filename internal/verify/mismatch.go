package verify

import (
	"fmt"
	"strings"
)

// MismatchKind identifies which comparison produced a mismatch record.
type MismatchKind string

const (
	// MismatchComputed is a computed-property value that differs from the
	// fixture expectation.
	MismatchComputed MismatchKind = "computed-property"

	// MismatchDeclaredColor is a declared color value (typically a var()
	// reference) that differs from the fixture expectation.
	MismatchDeclaredColor MismatchKind = "declared-color"

	// MismatchCSSVariable is a variable-valued property whose resolved value
	// differs from the predefined variable value.
	MismatchCSSVariable MismatchKind = "css-variable"

	// MismatchNoPredefined means a fixture entry references a CSS variable
	// that has no predefined value in the variable fixture.
	MismatchNoPredefined MismatchKind = "no-predefined-value"

	// MismatchMissingInBrowser means the variable fixture declares a value
	// the browser does not expose at all.
	MismatchMissingInBrowser MismatchKind = "missing-in-browser"

	// MismatchValue is a root-variable value that is present in the browser
	// but differs from the fixture.
	MismatchValue MismatchKind = "value-mismatch"
)

// Mismatch is one expected-vs-actual discrepancy found during a
// verification call.
type Mismatch struct {
	Kind     MismatchKind
	Name     string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("[%s] %s: expected %q, got %q", m.Kind, m.Name, m.Expected, m.Actual)
}

// VerificationError aggregates every mismatch found in a single
// verification call. Verification never fails fast: the full scan runs
// first so one run surfaces the complete picture.
type VerificationError struct {
	Mismatches []Mismatch
}

func (e *VerificationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "found %d mismatch(es):", len(e.Mismatches))
	for _, m := range e.Mismatches {
		sb.WriteString("\n  - ")
		sb.WriteString(m.String())
	}
	return sb.String()
}

// errorOrNil wraps mismatches into a VerificationError, or returns nil when
// the scan found none.
func errorOrNil(mismatches []Mismatch) error {
	if len(mismatches) == 0 {
		return nil
	}
	return &VerificationError{Mismatches: mismatches}
}
