// Package components provides page objects for the UI components under
// test. Each component bundles its selectors with the verification calls its
// test suites run, so suites read as scenario steps instead of selector
// plumbing.
package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
	"github.com/picarro/CommonUIAutomation/internal/fixtures"
	"github.com/picarro/CommonUIAutomation/internal/interfaces"
	"github.com/picarro/CommonUIAutomation/internal/verify"
)

// ThemeModes are the theme global values stories are verified under.
var ThemeModes = []string{"light", "light-hc", "dark", "dark-hc"}

// Component is the shared base for page objects: a browser session plus the
// fixture loader and verification engine wired to it.
type Component struct {
	Name     string
	Session  *browser.Session
	Pointer  *browser.Pointer
	Engine   *verify.Engine
	Fixtures *fixtures.Loader

	logger arbor.ILogger
}

// NewComponent wires a component base to a live session.
func NewComponent(name string, session *browser.Session, config *common.Config, logger arbor.ILogger) *Component {
	return &Component{
		Name:     name,
		Session:  session,
		Pointer:  browser.NewPointer(session.Frame, logger),
		Engine:   verify.NewEngine(session.Frame, logger),
		Fixtures: fixtures.NewLoader(config.Paths.ComponentsDir, logger),
		logger:   logger,
	}
}

// OpenStory navigates to a story with theme applied as a global.
func (c *Component) OpenStory(storyID, theme string, args map[string]string) error {
	var globals map[string]string
	if theme != "" {
		globals = map[string]string{"themeMode": theme}
	}
	return c.Session.NavigateToStory(storyID, args, globals)
}

// Text returns the element's innerText.
func (c *Component) Text(ctx context.Context, selector string) (string, error) {
	var text string
	err := c.Session.Frame.EvaluateInFrame(ctx, interfaces.OpGetInnerText, selector, nil, &text)
	return strings.TrimSpace(text), err
}

// TextContent returns the element's raw textContent, untrimmed.
func (c *Component) TextContent(ctx context.Context, selector string) (string, error) {
	var text string
	err := c.Session.Frame.EvaluateInFrame(ctx, interfaces.OpGetText, selector, nil, &text)
	return text, err
}

// SetText replaces the element's text content. Returns an error when no
// element matches the selector.
func (c *Component) SetText(ctx context.Context, selector, text string) error {
	var ok bool
	if err := c.Session.Frame.EvaluateInFrame(ctx, interfaces.OpSetText, selector, []string{text}, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// SetHTML replaces the element's inner HTML. Returns an error when no
// element matches the selector.
func (c *Component) SetHTML(ctx context.Context, selector, html string) error {
	var ok bool
	if err := c.Session.Frame.EvaluateInFrame(ctx, interfaces.OpSetHTML, selector, []string{html}, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

// Attribute returns an attribute value and whether it is present.
func (c *Component) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	var value *string
	if err := c.Session.Frame.EvaluateInFrame(ctx, interfaces.OpGetAttribute, selector, []string{name}, &value); err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// Exists reports whether any element matches the selector.
func (c *Component) Exists(ctx context.Context, selector string) (bool, error) {
	count, err := c.Session.Frame.CountMatches(ctx, selector)
	return count > 0, err
}

// VerifyVariant verifies the component's fixture expectations for a
// variant/state/size triple against the element. Var()-valued entries are
// checked through the CSS-variable path using the shared variable fixture.
func (c *Component) VerifyVariant(ctx context.Context, selector, variant, state, size string) error {
	props := c.Fixtures.LoadVariantProperties(c.Name, variant, state, size)
	if len(props) == 0 {
		c.logger.Debug().
			Str("component", c.Name).
			Str("variant", variant).
			Str("state", state).
			Str("size", size).
			Msg("No fixture entries for variant, skipping")
		return nil
	}
	predefined := c.Fixtures.LoadCSSVariables()
	return c.Engine.VerifyProperties(ctx, selector, verify.Literals(props), predefined)
}

// VerifyDeclaredColors verifies the author-declared form of the given color
// properties against fixture values, filtered from a wider property map.
func (c *Component) VerifyDeclaredColors(ctx context.Context, selector string, props map[string]string, colorProps []string) error {
	colors := make(map[string]string)
	for _, name := range colorProps {
		if v, ok := props[name]; ok {
			colors[name] = v
		}
	}
	return c.Engine.VerifyDeclaredColors(ctx, selector, colors)
}
