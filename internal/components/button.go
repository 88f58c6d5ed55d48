package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
)

// Button selectors. The primary selector targets the testid Storybook
// renders; the candidates list covers older story setups that render the
// button without one.
const (
	ButtonSelector         = "#storybook-root [data-testid='button-primary']"
	ButtonInStorybook      = "#storybook-root button"
	ButtonLegacy           = "#storybook-root div button"
	ButtonDisabledSelector = "#storybook-root button:disabled, #storybook-root button[disabled], #storybook-root button[aria-disabled='true']"
)

// ButtonStory is the default button story ID.
const ButtonStory = "main-button--primary"

var (
	// ButtonVariants, ButtonStates and ButtonSizes span the fixture key
	// space: button.properties is keyed <variant>.<state>.<size>.<property>.
	ButtonVariants = []string{"primary", "secondary", "ghost", "link", "warning"}
	ButtonStates   = []string{"active", "hover", "click", "disabled", "loading"}
	ButtonSizes    = []string{"large", "medium", "small"}

	// ButtonColorProperties are the properties verified at the declared
	// level, where the fixture value is usually a var() reference.
	ButtonColorProperties = []string{"background-color", "color", "border-color"}
)

// ButtonByTestID returns the selector for a button with a specific testid.
func ButtonByTestID(testID string) string {
	return fmt.Sprintf("#storybook-root [data-testid='%s']", testID)
}

// Button is the page object for the button component.
type Button struct {
	*Component
	Selector string
}

// NewButton creates a button page object bound to a live session.
func NewButton(session *browser.Session, config *common.Config, logger arbor.ILogger) *Button {
	return &Button{
		Component: NewComponent("button", session, config, logger),
		Selector:  ButtonSelector,
	}
}

// Locate resolves the button selector against the rendered story, falling
// back through the candidate selectors, and pins it for subsequent calls.
func (b *Button) Locate(ctx context.Context) error {
	selector, err := b.Session.Frame.FirstMatching(ctx, ButtonSelector, ButtonInStorybook, ButtonLegacy)
	if err != nil {
		return err
	}
	b.Selector = selector
	return nil
}

// Text returns the button's visible text, preferring the visible span the
// component renders its label into over the button's full innerText.
func (b *Button) Text(ctx context.Context) (string, error) {
	span := b.Selector + " span.visible, " + b.Selector + " span[class*='visible']"
	if present, err := b.Exists(ctx, span); err == nil && present {
		return b.Component.Text(ctx, span)
	}
	return b.Component.Text(ctx, b.Selector)
}

// VerifyVariantClass checks the button carries the bg-<variant> class its
// variant styling hangs off.
func (b *Button) VerifyVariantClass(ctx context.Context, variant string) error {
	class, _, err := b.Attribute(ctx, b.Selector, "class")
	if err != nil {
		return err
	}
	want := "bg-" + strings.ToLower(variant)
	for _, c := range strings.Fields(class) {
		if c == want {
			return nil
		}
	}
	return fmt.Errorf("button variant mismatch: class %q missing in %q", want, class)
}

// IsDisabled reports whether the button is disabled via the disabled
// attribute or aria-disabled.
func (b *Button) IsDisabled(ctx context.Context) (bool, error) {
	if _, present, err := b.Attribute(ctx, b.Selector, "disabled"); err != nil || present {
		return present, err
	}
	value, _, err := b.Attribute(ctx, b.Selector, "aria-disabled")
	return value == "true", err
}

// IsLoading reports whether the button advertises a loading state.
func (b *Button) IsLoading(ctx context.Context) (bool, error) {
	value, _, err := b.Attribute(ctx, b.Selector, "aria-busy")
	return value == "true", err
}

// IsActive reports whether the button advertises an active state.
func (b *Button) IsActive(ctx context.Context) (bool, error) {
	value, _, err := b.Attribute(ctx, b.Selector, "data-active")
	return value == "true", err
}

// Click clicks the button.
func (b *Button) Click(ctx context.Context) error {
	return b.Pointer.Click(ctx, b.Selector)
}

// Hover moves the pointer over the button so :hover styles apply.
func (b *Button) Hover(ctx context.Context) error {
	return b.Pointer.Hover(ctx, b.Selector)
}

// HoldClick holds the pointer down on the button while fn observes the
// :active styling. The pointer is released when fn returns, pass or fail.
func (b *Button) HoldClick(ctx context.Context, fn func(ctx context.Context) error) error {
	return b.Pointer.HoldPointerState(ctx, b.Selector, fn)
}

// VerifyVariant checks the fixture expectations for a variant/state/size
// triple against the button's current styling.
func (b *Button) VerifyVariant(ctx context.Context, variant, state, size string) error {
	return b.Component.VerifyVariant(ctx, b.Selector, variant, state, size)
}

// VerifyDeclaredColors checks the declared form of the button's color
// properties for a variant/state/size triple.
func (b *Button) VerifyDeclaredColors(ctx context.Context, variant, state, size string) error {
	props := b.Fixtures.LoadVariantProperties(b.Name, variant, state, size)
	return b.Component.VerifyDeclaredColors(ctx, b.Selector, props, ButtonColorProperties)
}
