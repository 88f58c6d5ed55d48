package browser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// fakeCounter answers count-matches probes from a selector -> count map.
type fakeCounter struct {
	counts map[string]int
	err    error
	asked  []string
}

func (f *fakeCounter) EvaluateInFrame(_ context.Context, op interfaces.Operation, selector string, _ []string, out interface{}) error {
	if f.err != nil {
		return f.err
	}
	if op != interfaces.OpCountMatches {
		return errors.New("unexpected operation")
	}
	f.asked = append(f.asked, selector)
	*(out.(*int)) = f.counts[selector]
	return nil
}

func TestFirstMatchingStopsAtFirstHit(t *testing.T) {
	frame := &fakeCounter{counts: map[string]int{
		"#a": 0,
		"#b": 2,
		"#c": 1,
	}}

	selector, err := FirstMatching(context.Background(), frame, "#a", "#b", "#c")
	require.NoError(t, err)
	assert.Equal(t, "#b", selector)

	// Candidates are tried in order and the scan stops at the first match
	assert.Equal(t, []string{"#a", "#b"}, frame.asked)
}

func TestFirstMatchingNoCandidateMatches(t *testing.T) {
	frame := &fakeCounter{counts: map[string]int{}}

	_, err := FirstMatching(context.Background(), frame, "#a", "#b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate selector matched")
}

func TestFirstMatchingPropagatesProbeError(t *testing.T) {
	probeErr := errors.New("browser gone")
	frame := &fakeCounter{err: probeErr}

	_, err := FirstMatching(context.Background(), frame, "#a")
	assert.ErrorIs(t, err, probeErr)
}

// A style rule that carries nested child rules (CSS nesting) still has its own
// declarations. The stylesheet walk must try to match the rule itself before
// descending into its children, otherwise the parent's declaration is lost.
func TestDeclaredWalkMatchesRuleBeforeRecursing(t *testing.T) {
	body, err := probeBody(interfaces.OpGetDeclared)
	require.NoError(t, err)

	match := strings.Index(body, "el.matches(rule.selectorText)")
	recurse := strings.Index(body, "walk(rule.cssRules)")
	require.NotEqual(t, -1, match)
	require.NotEqual(t, -1, recurse)
	assert.Less(t, match, recurse)
}

func TestRootVariableWalkMatchesRuleBeforeRecursing(t *testing.T) {
	body, err := probeBody(interfaces.OpGetRootVariables)
	require.NoError(t, err)

	match := strings.Index(body, "isRootSelector(rule.selectorText)")
	recurse := strings.Index(body, "walk(rule.cssRules)")
	require.NotEqual(t, -1, match)
	require.NotEqual(t, -1, recurse)
	assert.Less(t, match, recurse)
}
