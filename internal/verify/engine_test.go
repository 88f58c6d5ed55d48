package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picarro/CommonUIAutomation/internal/common"
	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// fakeFrame answers probes from canned data instead of a browser.
type fakeFrame struct {
	computed   map[string]string                      // property -> value
	declared   map[string]string                      // property -> value
	resolved   map[string]interfaces.ResolvedVariable // variable name -> result
	rootVars   map[string]string                      // variable name -> value
	singleVars map[string]string                      // computed-root lookups
}

func (f *fakeFrame) EvaluateInFrame(_ context.Context, op interfaces.Operation, _ string, args []string, out interface{}) error {
	var result interface{}
	switch op {
	case interfaces.OpGetComputed:
		result = f.computed[args[0]]
	case interfaces.OpGetDeclared:
		result = f.declared[args[0]]
	case interfaces.OpResolveVariable:
		result = f.resolved[args[1]]
	case interfaces.OpGetRootVariables:
		result = f.rootVars
	case interfaces.OpGetRootVariable:
		result = f.singleVars[args[0]]
	default:
		return fmt.Errorf("unexpected operation %s", op)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func newTestEngine(frame *fakeFrame) *Engine {
	return NewEngine(frame, common.GetLogger())
}

func TestVerifyComputedAggregatesAllMismatches(t *testing.T) {
	frame := &fakeFrame{computed: map[string]string{
		"background-color": "rgb(0, 255, 0)",
		"font-size":        "14px",
		"border-width":     "2px",
	}}
	engine := newTestEngine(frame)

	err := engine.VerifyComputed(context.Background(), "button", Expectation{
		"background-color": Literal("rgb(0, 255, 0)"),
		"font-size":        Literal("16px"),
		"border-width":     Literal("1px"),
	})
	require.Error(t, err)

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Mismatches, 2)

	names := map[string]bool{}
	for _, m := range verr.Mismatches {
		assert.Equal(t, MismatchComputed, m.Kind)
		names[m.Name] = true
	}
	assert.True(t, names["font-size"])
	assert.True(t, names["border-width"])
	assert.False(t, names["background-color"])
}

func TestVerifyPropertiesEmptyExpectationIsNoOp(t *testing.T) {
	engine := newTestEngine(&fakeFrame{})
	assert.NoError(t, engine.VerifyProperties(context.Background(), "button", nil, nil))
	assert.NoError(t, engine.VerifyProperties(context.Background(), "button", Expectation{}, nil))
}

func TestVerifyPropertiesRoutesVariableEntries(t *testing.T) {
	frame := &fakeFrame{
		computed: map[string]string{"font-size": "16px"},
		resolved: map[string]interfaces.ResolvedVariable{
			"--color-green-100": {
				Actual:   "rgb(0, 255, 0)",
				Resolved: "rgb(0, 255, 0)",
				RawVar:   "#00ff00",
			},
		},
	}
	engine := newTestEngine(frame)

	expected := Expectation{
		"font-size":        Literal("16px"),
		"background-color": Literal("var(--color-green-100)"),
	}
	predefined := map[string]string{"--color-green-100": "#00FF00"}

	assert.NoError(t, engine.VerifyProperties(context.Background(), "button", expected, predefined))
}

func TestVerifyCSSVariablesReportsStaleReference(t *testing.T) {
	frame := &fakeFrame{
		resolved: map[string]interfaces.ResolvedVariable{
			"--color-green-100": {
				Actual:   "rgb(200, 0, 0)", // element does not follow the variable
				Resolved: "rgb(0, 255, 0)",
				RawVar:   "#00ff00",
			},
		},
	}
	engine := newTestEngine(frame)

	err := engine.VerifyCSSVariables(context.Background(), "button",
		Expectation{"background-color": Literal("var(--color-green-100)")},
		map[string]string{"--color-green-100": "#00ff00"})

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Mismatches, 1)
	assert.Equal(t, MismatchCSSVariable, verr.Mismatches[0].Kind)
	assert.Equal(t, "background-color", verr.Mismatches[0].Name)
}

func TestVerifyCSSVariablesNoPredefinedValue(t *testing.T) {
	frame := &fakeFrame{
		resolved: map[string]interfaces.ResolvedVariable{
			"--color-undocumented": {
				Actual:   "rgb(0, 255, 0)",
				Resolved: "rgb(0, 255, 0)",
				RawVar:   "#00ff00",
			},
		},
	}
	engine := newTestEngine(frame)

	err := engine.VerifyCSSVariables(context.Background(), "button",
		Expectation{"background-color": Literal("var(--color-undocumented)")},
		map[string]string{})

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Mismatches, 1)
	assert.Equal(t, MismatchNoPredefined, verr.Mismatches[0].Kind)
	assert.Equal(t, "--color-undocumented", verr.Mismatches[0].Name)
}

func TestVerifyDeclaredColors(t *testing.T) {
	frame := &fakeFrame{declared: map[string]string{
		"background-color": "var(--color-green-100)",
		"color":            "var(--color-white)",
	}}
	engine := newTestEngine(frame)

	// Matching variable names pass even with a fallback in the fixture
	assert.NoError(t, engine.VerifyDeclaredColors(context.Background(), "button", map[string]string{
		"background-color": "var(--color-green-100, #00ff00)",
	}))

	err := engine.VerifyDeclaredColors(context.Background(), "button", map[string]string{
		"color": "var(--color-black)",
	})
	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, MismatchDeclaredColor, verr.Mismatches[0].Kind)
}

func TestVerifyAllCSSVariables(t *testing.T) {
	frame := &fakeFrame{rootVars: map[string]string{
		"--color-green-100": "#00ff00",
		"--color-red-100":   "#ee0000",
		"--browser-only":    "1px",
		"--tw-ring-color":   "blue",
	}}
	engine := newTestEngine(frame)

	predefined := map[string]string{
		"--color-green-100": "rgb(0, 255, 0)", // equivalent color form
		"--color-red-100":   "#ff0000",        // differs
		"--fixture-only":    "#123456",        // absent from browser
		"--tw-opacity":      "1",              // framework-internal, skipped
	}

	report, err := engine.VerifyAllCSSVariables(context.Background(), predefined)
	require.NotNil(t, report)
	require.Error(t, err)

	assert.Equal(t, []string{"--color-green-100"}, report.Matched)
	assert.ElementsMatch(t, []string{"--browser-only"}, report.MissingInFixture)

	require.Len(t, report.Mismatches, 2)
	kinds := map[string]MismatchKind{}
	for _, m := range report.Mismatches {
		kinds[m.Name] = m.Kind
	}
	assert.Equal(t, MismatchValue, kinds["--color-red-100"])
	assert.Equal(t, MismatchMissingInBrowser, kinds["--fixture-only"])
}

// A variable the stylesheet scan misses can still be set on the root via
// inline style or script. The sweep falls back to reading the computed root
// style for it before reporting it missing.
func TestVerifyAllCSSVariablesComputedRootFallback(t *testing.T) {
	frame := &fakeFrame{
		rootVars:   map[string]string{"--color-green-100": "#00ff00"},
		singleVars: map[string]string{"--runtime-accent": " #112233 "},
	}
	engine := newTestEngine(frame)

	report, err := engine.VerifyAllCSSVariables(context.Background(), map[string]string{
		"--color-green-100": "#00ff00",
		"--runtime-accent":  "#112233",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"--color-green-100", "--runtime-accent"}, report.Matched)
	assert.Empty(t, report.Mismatches)
}

// Extra variables on the page never fail the sweep on their own; they are
// reported for fixture maintenance only.
func TestVerifyAllCSSVariablesBrowserExtrasDoNotFail(t *testing.T) {
	frame := &fakeFrame{rootVars: map[string]string{
		"--color-green-100": "#00ff00",
		"--undocumented-a":  "4px",
		"--undocumented-b":  "#abcdef",
	}}
	engine := newTestEngine(frame)

	report, err := engine.VerifyAllCSSVariables(context.Background(), map[string]string{
		"--color-green-100": "#00ff00",
	})
	require.NoError(t, err)
	assert.Empty(t, report.Mismatches)
	assert.ElementsMatch(t, []string{"--undocumented-a", "--undocumented-b"}, report.MissingInFixture)
}

func TestSplitByKind(t *testing.T) {
	expected := Expectation{
		"font-size":        Literal("16px"),
		"background-color": Literal("var(--color-green-100)"),
		"padding":          Tolerated("8", 0.5),
	}
	regular, variables := expected.SplitByKind()

	assert.Len(t, regular, 2)
	assert.Len(t, variables, 1)
	assert.Contains(t, variables, "background-color")
}

func TestExpectedValueMatches(t *testing.T) {
	assert.True(t, Literal("0px").Matches(""))
	assert.True(t, Tolerated("16", 0.5).Matches("16.3px"))
	assert.False(t, Tolerated("16", 0.1).Matches("16.3px"))
}
