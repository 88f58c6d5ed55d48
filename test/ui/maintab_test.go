package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picarro/CommonUIAutomation/internal/components"
)

var tabSizes = []string{"large", "medium", "small"}

// TestMainTabSelection verifies that clicking a tab moves the selection.
func TestMainTabSelection(t *testing.T) {
	utc := NewUITestContext(t, DefaultTestTimeout)
	defer utc.Cleanup()

	tabs := components.NewMainTab(utc.Session, utc.Config, utc.Logger)
	require.NoError(t, tabs.OpenStory(components.MainTabStory, "light", nil))

	count, err := tabs.TabCount(utc.Ctx())
	require.NoError(t, err)
	require.GreaterOrEqual(t, count, 2, "story should render at least two tabs")

	first, err := tabs.ActiveTabText(utc.Ctx())
	require.NoError(t, err)

	require.NoError(t, tabs.SelectTab(utc.Ctx(), 1))
	second, err := tabs.ActiveTabText(utc.Ctx())
	require.NoError(t, err)
	require.NotEqual(t, first, second, "selection should move to the clicked tab")
}

// TestMainTabProperties verifies active and inactive tab fixture entries
// under every theme mode.
func TestMainTabProperties(t *testing.T) {
	utc := NewUITestContext(t, DefaultTestTimeout)
	defer utc.Cleanup()

	for _, theme := range components.ThemeModes {
		tabs := components.NewMainTab(utc.Session, utc.Config, utc.Logger)
		require.NoError(t, tabs.OpenStory(components.MainTabStory, theme, nil))

		for _, size := range tabSizes {
			if err := tabs.VerifyActiveTab(utc.Ctx(), "default", size); err != nil {
				utc.Screenshot("maintab_" + theme + "_active_" + size)
				utc.LogMismatches(fmt.Sprintf("%s/active/%s", theme, size), err)
			}
			if err := tabs.VerifyInactiveTab(utc.Ctx(), "default", size); err != nil {
				utc.LogMismatches(fmt.Sprintf("%s/inactive/%s", theme, size), err)
			}
		}
	}
}
