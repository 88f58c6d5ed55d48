package components

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
)

// Main tab selectors. Tab markup varies across story setups, so the tab and
// active-tab selectors carry alternatives.
const (
	TabListSelector     = "#storybook-root [role='tablist']"
	TabSelector         = "#storybook-root [role='tab'], #storybook-root button[class*='tab']"
	TabActiveSelector   = "#storybook-root [role='tab'][aria-selected='true'], #storybook-root button[aria-selected='true']"
	TabInactiveSelector = "#storybook-root [role='tab'][aria-selected='false']"
	TabPanelSelector    = "#storybook-root [role='tabpanel']"
)

// MainTabStory is the default main tab story ID.
const MainTabStory = "main-tab--default"

// TabByIndex returns the selector for the nth tab, 0-based.
func TabByIndex(index int) string {
	return fmt.Sprintf("#storybook-root [role='tab']:nth-of-type(%d)", index+1)
}

// MainTab is the page object for the main tab component.
type MainTab struct {
	*Component
}

// NewMainTab creates a main tab page object bound to a live session.
func NewMainTab(session *browser.Session, config *common.Config, logger arbor.ILogger) *MainTab {
	return &MainTab{
		Component: NewComponent("main_tab", session, config, logger),
	}
}

// TabCount returns the number of tabs rendered.
func (m *MainTab) TabCount(ctx context.Context) (int, error) {
	return m.Session.Frame.CountMatches(ctx, TabSelector)
}

// ActiveTabText returns the visible text of the selected tab.
func (m *MainTab) ActiveTabText(ctx context.Context) (string, error) {
	return m.Text(ctx, TabActiveSelector)
}

// SelectTab clicks the nth tab, 0-based.
func (m *MainTab) SelectTab(ctx context.Context, index int) error {
	return m.Pointer.Click(ctx, TabByIndex(index))
}

// HoverTab moves the pointer over the nth tab, 0-based.
func (m *MainTab) HoverTab(ctx context.Context, index int) error {
	return m.Pointer.Hover(ctx, TabByIndex(index))
}

// VerifyActiveTab checks the fixture expectations for the selected tab's
// variant/state/size triple.
func (m *MainTab) VerifyActiveTab(ctx context.Context, variant, size string) error {
	return m.VerifyVariant(ctx, TabActiveSelector, variant, "active", size)
}

// VerifyInactiveTab checks the fixture expectations for an unselected tab.
func (m *MainTab) VerifyInactiveTab(ctx context.Context, variant, size string) error {
	return m.VerifyVariant(ctx, TabInactiveSelector, variant, "inactive", size)
}
