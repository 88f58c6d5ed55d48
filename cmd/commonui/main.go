package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
	"github.com/picarro/CommonUIAutomation/internal/fixtures"
	"github.com/picarro/CommonUIAutomation/internal/verify"
)

var (
	configFile   = flag.String("config", "", "Configuration file path")
	storybookURL = flag.String("url", "", "Storybook URL (overrides config)")
	storyID      = flag.String("story", "", "Story ID to open before the sweep")
	theme        = flag.String("theme", "", "Theme mode global (light, dark, light-hc, dark-hc)")
	componentDir = flag.String("components", "", "Components fixture directory (overrides config)")
	component    = flag.String("component", "", "Component whose flat fixture properties to verify")
	selector     = flag.String("selector", "", "Element selector for -component verification")
	showVersion  = flag.Bool("version", false, "Print version information")

	config *common.Config
	logger arbor.ILogger
)

// main runs verification against a running Storybook: the CSS variable
// sweep compares every design-token variable exposed at the story root to
// the predefined values in the components fixture directory, and -component
// additionally verifies a component's flat fixture properties against an
// element.
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("CommonUI version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error
	config, err = common.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if *storybookURL != "" {
		config.Storybook.URL = *storybookURL
	}
	if *componentDir != "" {
		config.Paths.ComponentsDir = *componentDir
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if err := run(); err != nil {
		var verr *verify.VerificationError
		if errors.As(err, &verr) {
			logger.Error().Msg(verr.Error())
		} else {
			logger.Error().Err(err).Msg("Sweep failed")
		}
		os.Exit(1)
	}
	logger.Info().Msg("Verification passed")
}

func run() error {
	loader := fixtures.NewLoader(config.Paths.ComponentsDir, logger)
	predefined := loader.LoadCSSVariables()
	if len(predefined) == 0 {
		return fmt.Errorf("no predefined CSS variables under %s", config.Paths.ComponentsDir)
	}

	session, err := browser.NewSession(config, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	story := *storyID
	if story == "" {
		// Any story exposes the root variables; the palette story is the
		// conventional home for token verification.
		story = "theme-palette--default"
	}
	var globals map[string]string
	if *theme != "" {
		globals = map[string]string{"themeMode": *theme}
	}
	if err := session.NavigateToStory(story, nil, globals); err != nil {
		return err
	}

	engine := verify.NewEngine(session.Frame, logger)
	report, err := engine.VerifyAllCSSVariables(session.Context(), predefined)
	if report != nil {
		logger.Info().
			Int("matched", len(report.Matched)).
			Int("mismatched", len(report.Mismatches)).
			Int("browserOnly", len(report.MissingInFixture)).
			Msg("Sweep summary")
	}
	if err != nil {
		return err
	}

	if *component != "" {
		if *selector == "" {
			return fmt.Errorf("-component requires -selector")
		}
		props := loader.LoadComponentProperties(*component)
		if len(props) == 0 {
			return fmt.Errorf("no fixture properties for component %s", *component)
		}
		logger.Info().
			Str("component", *component).
			Str("selector", *selector).
			Int("properties", len(props)).
			Msg("Verifying component properties")
		return engine.VerifyProperties(session.Context(), *selector, verify.Literals(props), predefined)
	}
	return nil
}
