package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/interfaces"
)

// pointerDevice issues raw pointer press and release events. Split out so
// release-on-failure behavior is testable without a browser.
type pointerDevice interface {
	press(ctx context.Context, x, y float64) error
	release(ctx context.Context, x, y float64) error
}

// cdpPointer dispatches mouse events through the DevTools input domain.
type cdpPointer struct{}

func (cdpPointer) press(ctx context.Context, x, y float64) error {
	return chromedp.Run(ctx,
		input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).
			WithClickCount(1),
	)
}

func (cdpPointer) release(ctx context.Context, x, y float64) error {
	return chromedp.Run(ctx,
		input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(input.Left).
			WithClickCount(1),
	)
}

// boundingBoxer resolves element geometry. Satisfied by Frame; narrowed to
// an interface so pointer behavior is testable without a browser.
type boundingBoxer interface {
	BoundingBox(ctx context.Context, selector string) (interfaces.BoundingBox, error)
}

// Pointer drives transient pointer state against elements in the story
// iframe. Coordinates come from the frame's bounding-box probe, which
// already accounts for the iframe offset.
type Pointer struct {
	frame  boundingBoxer
	device pointerDevice
	logger arbor.ILogger
}

// NewPointer creates a pointer bound to the story frame.
func NewPointer(frame *Frame, logger arbor.ILogger) *Pointer {
	return &Pointer{
		frame:  frame,
		device: cdpPointer{},
		logger: logger,
	}
}

// Hover moves the mouse to the center of the element matching selector. The
// element must have a non-empty bounding box.
func (p *Pointer) Hover(ctx context.Context, selector string) error {
	x, y, err := p.center(ctx, selector)
	if err != nil {
		return err
	}
	return chromedp.Run(ctx,
		input.DispatchMouseEvent(input.MouseMoved, x, y),
	)
}

// Click presses and immediately releases the pointer on the element's
// center.
func (p *Pointer) Click(ctx context.Context, selector string) error {
	return p.HoldPointerState(ctx, selector, func(context.Context) error { return nil })
}

// HoldPointerState presses the pointer on the element's center, runs fn
// while the button is held, and releases. The release is guaranteed: it runs
// even when fn returns an error or the press observation fails, so a failed
// assertion never leaves the browser with a stuck button. fn's error wins
// over a release error.
func (p *Pointer) HoldPointerState(ctx context.Context, selector string, fn func(ctx context.Context) error) error {
	x, y, err := p.center(ctx, selector)
	if err != nil {
		return err
	}

	if err := p.device.press(ctx, x, y); err != nil {
		return fmt.Errorf("failed to press pointer on %q: %w", selector, err)
	}
	p.logger.Debug().Str("selector", selector).Msg("Pointer held")

	// Give :active transitions a moment to apply before observing
	settle(ctx, 50*time.Millisecond)

	var releaseErr error
	fnErr := func() error {
		defer func() {
			if err := p.device.release(ctx, x, y); err != nil {
				p.logger.Warn().Str("selector", selector).Err(err).Msg("Pointer release failed")
				releaseErr = fmt.Errorf("failed to release pointer on %q: %w", selector, err)
			}
		}()
		return fn(ctx)
	}()

	if fnErr != nil {
		return fnErr
	}
	return releaseErr
}

// HoldPointerFor presses the pointer on the element for a fixed duration.
func (p *Pointer) HoldPointerFor(ctx context.Context, selector string, d time.Duration) error {
	return p.HoldPointerState(ctx, selector, func(ctx context.Context) error {
		settle(ctx, d)
		return nil
	})
}

func settle(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// center resolves the element's center point, requiring a visible box.
func (p *Pointer) center(ctx context.Context, selector string) (float64, float64, error) {
	box, err := p.frame.BoundingBox(ctx, selector)
	if err != nil {
		return 0, 0, err
	}
	if box.Width <= 0 || box.Height <= 0 {
		return 0, 0, fmt.Errorf("element %q has empty bounding box %+v", selector, box)
	}
	return box.X + box.Width/2, box.Y + box.Height/2, nil
}

var _ interfaces.FrameEvaluator = (*Frame)(nil)
