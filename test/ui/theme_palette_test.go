package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picarro/CommonUIAutomation/internal/verify"
)

const themePaletteStory = "theme-palette--default"

// TestThemePaletteVariables sweeps every design-token variable at the story
// root against the predefined values, once per theme mode. Extra variables
// the browser exposes are reported but do not fail the sweep.
func TestThemePaletteVariables(t *testing.T) {
	utc := NewUITestContext(t, DefaultTestTimeout)
	defer utc.Cleanup()

	predefined := utc.Fixtures().LoadCSSVariables()
	if len(predefined) == 0 {
		t.Skip("no predefined CSS variables in components directory")
	}

	themes := []string{"light", "dark"}
	engine := verify.NewEngine(utc.Session.Frame, utc.Logger)

	for _, theme := range themes {
		require.NoError(t, utc.Session.NavigateToStory(themePaletteStory, nil,
			map[string]string{"themeMode": theme}))

		report, err := engine.VerifyAllCSSVariables(utc.Ctx(), predefined)
		require.NotNil(t, report)

		for _, name := range report.MissingInFixture {
			utc.Logger.Info().Str("variable", name).Str("theme", theme).
				Msg("Variable exposed by browser but not in fixture")
		}
		if err != nil {
			utc.Screenshot("theme_palette_" + theme)
			utc.LogMismatches("theme "+theme, err)
		}
	}
}
