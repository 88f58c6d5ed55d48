package interfaces

import "context"

// Operation identifies a supported in-frame probe. The set is closed:
// callers select a probe rather than injecting script bodies, which keeps
// the page boundary explicit and fakeable in tests.
type Operation string

const (
	// OpGetComputed returns the browser-computed value of a CSS property
	// (args[0] = property name, kebab-case with camelCase fallback).
	OpGetComputed Operation = "get-computed"

	// OpGetDeclared returns the author-declared value of a CSS property by
	// walking stylesheet rules in document order (args[0] = property name).
	// The walk does not compute specificity; later matching rules win and
	// the element's inline style overrides last.
	OpGetDeclared Operation = "get-declared"

	// OpGetAllComputed returns every computed property for the element as a
	// map of property name to value.
	OpGetAllComputed Operation = "get-all-computed"

	// OpGetBoundingBox returns the element's bounding box in outer-page
	// coordinates (the story iframe's own offset is applied).
	OpGetBoundingBox Operation = "get-bounding-box"

	// OpGetRootVariables returns every custom property exposed at the story
	// document root: the union of :root-targeting stylesheet rules and the
	// root element's computed style. The selector argument is ignored.
	OpGetRootVariables Operation = "get-root-variables"

	// OpGetRootVariable returns the value of a single custom property from
	// the root element's computed style (args[0] = variable name).
	OpGetRootVariable Operation = "get-root-variable"

	// OpResolveVariable probes a var()-valued property: it reads the
	// element's computed value, resolves the variable at the document root
	// (element fallback), and applies the variable to a disposable element
	// to learn what the property computes to through that reference
	// (args[0] = property name, args[1] = variable name).
	OpResolveVariable Operation = "resolve-variable"

	// OpGetText returns the element's textContent.
	OpGetText Operation = "get-text"

	// OpGetInnerText returns the element's innerText.
	OpGetInnerText Operation = "get-inner-text"

	// OpSetText replaces the element's textContent (args[0] = new text).
	OpSetText Operation = "set-text"

	// OpSetHTML replaces the element's innerHTML (args[0] = new markup).
	OpSetHTML Operation = "set-html"

	// OpGetAttribute returns an attribute value, or null when the attribute
	// is absent (args[0] = attribute name).
	OpGetAttribute Operation = "get-attribute"

	// OpCountMatches returns the number of elements matching the selector.
	OpCountMatches Operation = "count-matches"

	// OpGetOuterHTML returns the element's outerHTML.
	OpGetOuterHTML Operation = "get-outer-html"
)

// BoundingBox is an element's geometry in outer-page coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ResolvedVariable is the result of OpResolveVariable.
type ResolvedVariable struct {
	// Actual is the element's computed value for the property.
	Actual string `json:"actual"`
	// Resolved is what the property computes to when set to var(<name>) on
	// a disposable element. Some properties do not reflect custom property
	// values through a plain lookup, which is why this indirection exists.
	Resolved string `json:"resolved"`
	// RawVar is the variable's raw token at the document root (element
	// computed style as fallback).
	RawVar string `json:"rawVar"`
}

// FrameEvaluator evaluates probes against elements inside the story iframe's
// document. A selector matching zero elements yields empty results, never an
// error - callers decide whether empty is acceptable.
type FrameEvaluator interface {
	EvaluateInFrame(ctx context.Context, op Operation, selector string, args []string, out interface{}) error
}
