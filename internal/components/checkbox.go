package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
	"github.com/picarro/CommonUIAutomation/internal/verify"
)

// Checkbox selectors.
const (
	CheckboxSelector         = "#storybook-root input[type='checkbox']"
	CheckboxCheckedSelector  = "#storybook-root input[type='checkbox']:checked"
	CheckboxDisabledSelector = "#storybook-root input[type='checkbox']:disabled"
	CheckboxIconSelector     = "#storybook-root [data-testid='checkbox-icon'], #storybook-root svg"
	CheckboxLabelSelector    = "#storybook-root label"
)

// CheckboxStory is the default checkbox story ID.
const CheckboxStory = "main-checkbox--default"

// CheckboxByID returns the selector for a checkbox with a specific id.
func CheckboxByID(id string) string {
	return fmt.Sprintf("#storybook-root input[type='checkbox'][id='%s']", id)
}

// Checkbox is the page object for the checkbox component. Its fixture keys
// carry sub-scopes: icon.<variant>.<state>.* and label.<variant>.<state>.*,
// with unprefixed keys describing the container.
type Checkbox struct {
	*Component
	Selector string
}

// NewCheckbox creates a checkbox page object bound to a live session.
func NewCheckbox(session *browser.Session, config *common.Config, logger arbor.ILogger) *Checkbox {
	return &Checkbox{
		Component: NewComponent("checkbox", session, config, logger),
		Selector:  CheckboxSelector,
	}
}

// IsChecked reports whether the checkbox is checked. The :checked pseudo
// class tracks the live property, which the checked attribute does not.
func (c *Checkbox) IsChecked(ctx context.Context) (bool, error) {
	return c.Exists(ctx, CheckboxCheckedSelector)
}

// IsDisabled reports whether the checkbox is disabled.
func (c *Checkbox) IsDisabled(ctx context.Context) (bool, error) {
	return c.Exists(ctx, CheckboxDisabledSelector)
}

// Toggle clicks the checkbox.
func (c *Checkbox) Toggle(ctx context.Context) error {
	return c.Pointer.Click(ctx, c.Selector)
}

// SetChecked toggles the checkbox only when its state differs from want.
func (c *Checkbox) SetChecked(ctx context.Context, want bool) error {
	checked, err := c.IsChecked(ctx)
	if err != nil {
		return err
	}
	if checked == want {
		return nil
	}
	return c.Toggle(ctx)
}

// Hover moves the pointer over the checkbox so :hover styles apply.
func (c *Checkbox) Hover(ctx context.Context) error {
	return c.Pointer.Hover(ctx, c.Selector)
}

// LabelText returns the text of the label associated with the checkbox
// through its for attribute, falling back to the enclosing label element.
func (c *Checkbox) LabelText(ctx context.Context) (string, error) {
	id, present, err := c.Attribute(ctx, c.Selector, "id")
	if err != nil {
		return "", err
	}
	if present && id != "" {
		selector := fmt.Sprintf("#storybook-root label[for='%s']", id)
		if found, err := c.Exists(ctx, selector); err == nil && found {
			return c.Text(ctx, selector)
		}
	}
	return c.Text(ctx, CheckboxLabelSelector)
}

// VerifyIcon checks the icon fixture expectations for a variant/state pair
// against the checkbox icon element.
func (c *Checkbox) VerifyIcon(ctx context.Context, variant, state string) error {
	return c.verifyScoped(ctx, CheckboxIconSelector, "icon", variant, state)
}

// VerifyLabel checks the label fixture expectations for a variant/state pair
// against the checkbox label element.
func (c *Checkbox) VerifyLabel(ctx context.Context, variant, state string) error {
	return c.verifyScoped(ctx, CheckboxLabelSelector, "label", variant, state)
}

func (c *Checkbox) verifyScoped(ctx context.Context, selector, scope, variant, state string) error {
	prefix := fmt.Sprintf("%s.%s.%s.", scope, strings.ToLower(variant), strings.ToLower(state))
	props := c.Fixtures.LoadPropertiesByPrefix(c.Name, prefix)
	if len(props) == 0 {
		return nil
	}
	predefined := c.Fixtures.LoadCSSVariables()
	return c.Engine.VerifyProperties(ctx, selector, verify.Literals(props), predefined)
}

// VerifyContainer checks the unscoped fixture expectations against the
// checkbox container.
func (c *Checkbox) VerifyContainer(ctx context.Context, selector string) error {
	all := c.Fixtures.LoadComponentProperties(c.Name)
	props := make(map[string]string)
	for k, v := range all {
		if strings.HasPrefix(k, "icon.") || strings.HasPrefix(k, "label.") {
			continue
		}
		props[k] = v
	}
	if len(props) == 0 {
		return nil
	}
	predefined := c.Fixtures.LoadCSSVariables()
	return c.Engine.VerifyProperties(ctx, selector, verify.Literals(props), predefined)
}
