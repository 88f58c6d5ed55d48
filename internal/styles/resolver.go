package styles

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// Resolver retrieves CSS values for elements inside the story iframe. The
// two retrieval operations observe the same property at different levels and
// must never be conflated: Computed is the browser's final resolution,
// Declared is the raw author value and may still be a var(--x) reference.
type Resolver struct {
	frame  interfaces.FrameEvaluator
	logger arbor.ILogger
}

// NewResolver creates a style resolver over a frame evaluator.
func NewResolver(frame interfaces.FrameEvaluator, logger arbor.ILogger) *Resolver {
	return &Resolver{
		frame:  frame,
		logger: logger,
	}
}

// Computed returns the browser-computed value of a CSS property for the
// first element matching the selector. The in-page probe tries the
// kebab-case property name via getPropertyValue and falls back to camelCase
// indexing. An absent element yields an empty string.
func (r *Resolver) Computed(ctx context.Context, selector, property string) (string, error) {
	var value string
	if err := r.frame.EvaluateInFrame(ctx, interfaces.OpGetComputed, selector, []string{property}, &value); err != nil {
		return "", err
	}
	return value, nil
}

// Declared returns the author-declared value of a CSS property for the first
// element matching the selector, as the browser devtools Styles tab would
// show it (e.g. "var(--color-green-100)", "16px").
//
// The walk visits every same-origin stylesheet rule in document order,
// recursing through nested rule groups; each rule whose selector matches the
// element and sets the property overwrites the previously recorded value,
// and the element's inline style overrides last. CSS specificity is NOT
// computed - this is a known limitation of the document-order approximation,
// preserved because fixture data was authored against it. A later
// low-specificity rule can shadow an earlier high-specificity one.
func (r *Resolver) Declared(ctx context.Context, selector, property string) (string, error) {
	var value string
	if err := r.frame.EvaluateInFrame(ctx, interfaces.OpGetDeclared, selector, []string{property}, &value); err != nil {
		return "", err
	}
	return value, nil
}

// AllComputed returns every computed property for the first element matching
// the selector. An absent element yields an empty map.
func (r *Resolver) AllComputed(ctx context.Context, selector string) (map[string]string, error) {
	values := make(map[string]string)
	if err := r.frame.EvaluateInFrame(ctx, interfaces.OpGetAllComputed, selector, nil, &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
