// Package styles resolves and compares CSS values observed in the story
// iframe. Resolution happens in-page through a FrameEvaluator; comparison is
// pure string work implemented here.
package styles

import (
	"fmt"
	"strconv"
	"strings"
)

// ValuesMatch reports whether two CSS value strings are semantically
// equivalent. Rules are applied in priority order, first match wins:
//
//  1. exact equality after trimming and case folding
//  2. both are var(--x) references naming the same variable (a trailing
//     fallback segment after a comma is ignored)
//  3. numeric equality after stripping px/% suffixes, with an empty residual
//     treated as 0 - so "0", "0px" and "" are all equivalent
//  4. rgb(0, 0, 0) and rgba(0, 0, 0, 0) compare equal in both directions
//
// Rule 4 conflates the two common "unset color" sentinels. It is a narrow
// heuristic inherited from the fixture data, not a general zero-alpha rule.
func ValuesMatch(expected, actual string) bool {
	e := strings.ToLower(strings.TrimSpace(expected))
	a := strings.ToLower(strings.TrimSpace(actual))

	if e == a {
		return true
	}

	if ev, eok := VariableName(e); eok {
		if av, aok := VariableName(a); aok {
			return ev == av
		}
	}

	if en, eok := parseLength(e); eok {
		if an, aok := parseLength(a); aok {
			return en == an
		}
	}

	if (e == "rgb(0, 0, 0)" && a == "rgba(0, 0, 0, 0)") ||
		(a == "rgb(0, 0, 0)" && e == "rgba(0, 0, 0, 0)") {
		return true
	}

	return false
}

// MatchesWithTolerance compares two values as numbers with an allowed
// absolute delta after stripping px/% suffixes. When either side does not
// parse as a number it falls back to ValuesMatch.
func MatchesWithTolerance(expected, actual string, tolerance float64) bool {
	en, eok := parseLength(strings.ToLower(strings.TrimSpace(expected)))
	an, aok := parseLength(strings.ToLower(strings.TrimSpace(actual)))
	if eok && aok {
		delta := en - an
		if delta < 0 {
			delta = -delta
		}
		return delta <= tolerance
	}
	return ValuesMatch(expected, actual)
}

// parseLength strips px and % suffixes and parses the residual as a float.
// An empty residual parses as 0.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "px", ""), "%", ""))
	if s == "" {
		s = "0"
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsVariableReference reports whether a value is a var(--...) reference.
func IsVariableReference(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "var(--")
}

// VariableName extracts the referenced variable name (with its leading --)
// from a var() reference, ignoring any fallback segment after a comma.
// Returns false when the value is not a variable reference.
func VariableName(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "var(") {
		return "", false
	}
	inner := strings.TrimPrefix(v, "var(")
	if idx := strings.IndexByte(inner, ')'); idx >= 0 {
		inner = inner[:idx]
	}
	if idx := strings.IndexByte(inner, ','); idx >= 0 {
		inner = inner[:idx]
	}
	inner = strings.TrimSpace(inner)
	if !strings.HasPrefix(inner, "--") {
		return "", false
	}
	return inner, true
}

// NormalizeColor canonicalizes a color literal to "rgb(r, g, b)" form.
// 3-digit and 6-digit hex colors and rgb()/rgba() forms are converted; the
// alpha channel is dropped. Anything else is returned trimmed and folded.
// This canonicalizer serves CSS-variable verification, where a resolved
// variable literal is compared against a fixture literal; it is not part of
// the general ValuesMatch equivalence above.
func NormalizeColor(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "rgb") {
		if r, g, b, ok := parseRGBPrefix(s); ok {
			return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
		}
		return s
	}

	if strings.HasPrefix(s, "#") {
		hex := expandShortHex(s[1:])
		if len(hex) == 6 {
			r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
			g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
			b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
			if err1 == nil && err2 == nil && err3 == nil {
				return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
			}
		}
		return s
	}

	return s
}

// NormalizeHex lowercases a hex color and expands the 3-digit shorthand to
// 6 digits. Non-hex values are returned trimmed and folded.
func NormalizeHex(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	if !strings.HasPrefix(s, "#") {
		return s
	}
	return "#" + expandShortHex(s[1:])
}

func expandShortHex(hex string) string {
	if len(hex) != 3 {
		return hex
	}
	var sb strings.Builder
	for _, c := range hex {
		sb.WriteRune(c)
		sb.WriteRune(c)
	}
	return sb.String()
}

// parseRGBPrefix extracts the first three channel values from an rgb( or
// rgba( literal. Trailing alpha and close paren are ignored, which keeps the
// parse tolerant of both forms.
func parseRGBPrefix(s string) (int, int, int, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return 0, 0, 0, false
	}
	body := s[open+1:]
	if idx := strings.IndexByte(body, ')'); idx >= 0 {
		body = body[:idx]
	}
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return 0, 0, 0, false
	}
	channels := make([]int, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0, 0, 0, false
		}
		channels[i] = n
	}
	return channels[0], channels[1], channels[2], true
}
