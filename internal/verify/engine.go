// Package verify implements property verification against fixture
// expectations. A verification call scans every expected property, records
// every discrepancy, and reports them all in one aggregated error; it never
// stops at the first mismatch.
package verify

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
	"github.com/picarro/CommonUIAutomation/internal/styles"
)

// twPrefix marks framework-internal custom properties that are never part of
// the design-token contract and are skipped by the root-variable sweep.
const twPrefix = "--tw-"

// Engine verifies observed element styles against fixture expectations.
type Engine struct {
	resolver *styles.Resolver
	frame    interfaces.FrameEvaluator
	logger   arbor.ILogger
}

// NewEngine creates a verification engine over a frame evaluator.
func NewEngine(frame interfaces.FrameEvaluator, logger arbor.ILogger) *Engine {
	return &Engine{
		resolver: styles.NewResolver(frame, logger),
		frame:    frame,
		logger:   logger,
	}
}

// Resolver exposes the engine's style resolver for callers that need raw
// computed or declared values alongside verification.
func (e *Engine) Resolver() *styles.Resolver {
	return e.resolver
}

// VerifyProperties verifies a full expectation set against an element. The
// expectation is split by kind: regular entries are compared against the
// element's computed style, var()-valued entries go through the CSS-variable
// path with the predefined variable values as the second oracle. An empty
// expectation is a silent no-op.
func (e *Engine) VerifyProperties(ctx context.Context, selector string, expected Expectation, predefined map[string]string) error {
	if len(expected) == 0 {
		e.logger.Debug().Str("selector", selector).Msg("No expected properties, skipping verification")
		return nil
	}

	regular, variables := expected.SplitByKind()

	var mismatches []Mismatch
	computed, err := e.verifyComputed(ctx, selector, regular)
	if err != nil {
		return err
	}
	mismatches = append(mismatches, computed...)

	varMismatches, err := e.verifyVariables(ctx, selector, variables, predefined)
	if err != nil {
		return err
	}
	mismatches = append(mismatches, varMismatches...)

	return errorOrNil(mismatches)
}

// VerifyComputed verifies computed-style values only. Var()-valued entries
// in the expectation are compared literally, which is rarely what callers
// want; prefer VerifyProperties for mixed fixtures.
func (e *Engine) VerifyComputed(ctx context.Context, selector string, expected Expectation) error {
	mismatches, err := e.verifyComputed(ctx, selector, expected)
	if err != nil {
		return err
	}
	return errorOrNil(mismatches)
}

func (e *Engine) verifyComputed(ctx context.Context, selector string, expected Expectation) ([]Mismatch, error) {
	var mismatches []Mismatch
	for name, want := range expected {
		actual, err := e.resolver.Computed(ctx, selector, name)
		if err != nil {
			return nil, err
		}
		if !want.Matches(actual) {
			e.logger.Warn().
				Str("selector", selector).
				Str("property", name).
				Str("expected", want.Value).
				Str("actual", actual).
				Msg("Computed property mismatch")
			mismatches = append(mismatches, Mismatch{
				Kind:     MismatchComputed,
				Name:     name,
				Expected: want.Value,
				Actual:   actual,
			})
		}
	}
	return mismatches, nil
}

// VerifyDeclaredColors verifies author-declared values, typically color
// properties whose declared form is a var() reference. Comparison goes
// through the normalizer, so matching variable names and equivalent color
// literals both pass.
func (e *Engine) VerifyDeclaredColors(ctx context.Context, selector string, expected map[string]string) error {
	if len(expected) == 0 {
		return nil
	}

	var mismatches []Mismatch
	for name, want := range expected {
		actual, err := e.resolver.Declared(ctx, selector, name)
		if err != nil {
			return err
		}
		if !styles.ValuesMatch(want, actual) {
			e.logger.Warn().
				Str("selector", selector).
				Str("property", name).
				Str("expected", want).
				Str("actual", actual).
				Msg("Declared color mismatch")
			mismatches = append(mismatches, Mismatch{
				Kind:     MismatchDeclaredColor,
				Name:     name,
				Expected: want,
				Actual:   actual,
			})
		}
	}
	return errorOrNil(mismatches)
}

// VerifyCSSVariables verifies var()-valued expectations against both the
// live page and the predefined variable values. See verifyVariables for the
// two checks each entry gets.
func (e *Engine) VerifyCSSVariables(ctx context.Context, selector string, expected Expectation, predefined map[string]string) error {
	mismatches, err := e.verifyVariables(ctx, selector, expected, predefined)
	if err != nil {
		return err
	}
	return errorOrNil(mismatches)
}

// verifyVariables runs the two-oracle check for each var()-valued entry:
//
//  1. the element's computed value must equal what the referenced variable
//     resolves to on a disposable element (the reference is actually in
//     effect, not shadowed by something else)
//  2. the variable's raw value at the document root must equal the
//     predefined value from the variable fixture (the token itself is
//     correct); a variable absent from the fixture is its own mismatch kind
//
// Color comparison goes through the color canonicalizer so hex fixtures
// compare against rgb() browser output.
func (e *Engine) verifyVariables(ctx context.Context, selector string, expected Expectation, predefined map[string]string) ([]Mismatch, error) {
	var mismatches []Mismatch
	for property, want := range expected {
		varName, ok := styles.VariableName(want.Value)
		if !ok {
			// Not a var() reference; nothing to resolve. Fall back to a
			// computed comparison so the entry is still checked.
			extra, err := e.verifyComputed(ctx, selector, Expectation{property: want})
			if err != nil {
				return nil, err
			}
			mismatches = append(mismatches, extra...)
			continue
		}

		var resolved interfaces.ResolvedVariable
		if err := e.frame.EvaluateInFrame(ctx, interfaces.OpResolveVariable, selector, []string{property, varName}, &resolved); err != nil {
			return nil, err
		}

		if styles.NormalizeColor(resolved.Actual) != styles.NormalizeColor(resolved.Resolved) {
			e.logger.Warn().
				Str("selector", selector).
				Str("property", property).
				Str("variable", varName).
				Str("resolved", resolved.Resolved).
				Str("actual", resolved.Actual).
				Msg("CSS variable not in effect on element")
			mismatches = append(mismatches, Mismatch{
				Kind:     MismatchCSSVariable,
				Name:     property,
				Expected: resolved.Resolved,
				Actual:   resolved.Actual,
			})
		}

		predefinedValue, found := predefined[varName]
		if !found {
			mismatches = append(mismatches, Mismatch{
				Kind:     MismatchNoPredefined,
				Name:     varName,
				Expected: "",
				Actual:   resolved.RawVar,
			})
			continue
		}
		if styles.NormalizeHex(resolved.RawVar) != styles.NormalizeHex(predefinedValue) &&
			styles.NormalizeColor(resolved.RawVar) != styles.NormalizeColor(predefinedValue) {
			e.logger.Warn().
				Str("variable", varName).
				Str("predefined", predefinedValue).
				Str("actual", resolved.RawVar).
				Msg("CSS variable value differs from predefined value")
			mismatches = append(mismatches, Mismatch{
				Kind:     MismatchCSSVariable,
				Name:     varName,
				Expected: predefinedValue,
				Actual:   resolved.RawVar,
			})
		}
	}
	return mismatches, nil
}

// VariableReport is the outcome of a full root-variable sweep.
type VariableReport struct {
	// Matched variables agree between browser and fixture.
	Matched []string
	// Mismatches are variables present in both with differing values, plus
	// fixture variables the browser does not expose.
	Mismatches []Mismatch
	// MissingInFixture lists browser variables absent from the fixture.
	// Informational only: the page exposing extra tokens is not a failure.
	MissingInFixture []string
}

// VerifyAllCSSVariables sweeps every custom property exposed at the story
// document root and compares the set against the predefined variable values.
// Framework-internal --tw-* properties are skipped. A fixture variable the
// browser does not expose is a mismatch; a browser variable the fixture does
// not define is reported but does not fail the sweep.
func (e *Engine) VerifyAllCSSVariables(ctx context.Context, predefined map[string]string) (*VariableReport, error) {
	browserVars := make(map[string]string)
	if err := e.frame.EvaluateInFrame(ctx, interfaces.OpGetRootVariables, "", nil, &browserVars); err != nil {
		return nil, err
	}

	report := &VariableReport{}
	for name, want := range predefined {
		if strings.HasPrefix(name, twPrefix) {
			continue
		}
		actual, found := browserVars[name]
		if !found {
			// The stylesheet scan misses variables set outside :root rules
			// (inline styles, JS). Ask the computed root style directly
			// before declaring the variable absent.
			if err := e.frame.EvaluateInFrame(ctx, interfaces.OpGetRootVariable, "", []string{name}, &actual); err != nil {
				return nil, err
			}
			actual = strings.TrimSpace(actual)
		}
		if actual == "" {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Kind:     MismatchMissingInBrowser,
				Name:     name,
				Expected: want,
				Actual:   "",
			})
			continue
		}
		if styles.NormalizeColor(want) == styles.NormalizeColor(actual) ||
			styles.NormalizeHex(want) == styles.NormalizeHex(actual) {
			report.Matched = append(report.Matched, name)
			continue
		}
		report.Mismatches = append(report.Mismatches, Mismatch{
			Kind:     MismatchValue,
			Name:     name,
			Expected: want,
			Actual:   actual,
		})
	}
	for name := range browserVars {
		if strings.HasPrefix(name, twPrefix) {
			continue
		}
		if _, found := predefined[name]; !found {
			report.MissingInFixture = append(report.MissingInFixture, name)
		}
	}

	e.logger.Info().
		Int("matched", len(report.Matched)).
		Int("mismatched", len(report.Mismatches)).
		Int("missingInFixture", len(report.MissingInFixture)).
		Msg("CSS variable sweep complete")

	return report, errorOrNil(report.Mismatches)
}
