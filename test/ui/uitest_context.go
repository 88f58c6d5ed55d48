// uitest_context.go - Shared UI test context and helpers for CommonUI
// This provides UITestContext and helper functions used by all UI tests.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/browser"
	"github.com/picarro/CommonUIAutomation/internal/common"
	"github.com/picarro/CommonUIAutomation/internal/fixtures"
	"github.com/picarro/CommonUIAutomation/internal/verify"
)

// DefaultTestTimeout bounds a single component suite.
const DefaultTestTimeout = 5 * time.Minute

// UITestContext holds shared state for UI tests
type UITestContext struct {
	T       *testing.T
	Config  *common.Config
	Session *browser.Session
	Logger  arbor.ILogger

	ctx     context.Context
	cleanup []func()
}

// NewUITestContext creates a new UI test context with a live browser session.
// The test is skipped when STORYBOOK_URL is not set, so unit-only CI runs
// pass without a Storybook instance.
func NewUITestContext(t *testing.T, timeout time.Duration) *UITestContext {
	testConfig, err := LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping UI test: %v", err)
	}

	config := common.DefaultConfig()
	config.Storybook.URL = testConfig.StorybookURL
	config.Paths.ComponentsDir = testConfig.ComponentsDir
	logger := common.GetLogger()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), timeout)

	session, err := browser.NewSession(config, logger)
	if err != nil {
		cancelTimeout()
		t.Fatalf("Failed to start browser session: %v", err)
	}

	utc := &UITestContext{
		T:       t,
		Config:  config,
		Session: session,
		Logger:  logger,
		ctx:     ctx,
		cleanup: make([]func(), 0),
	}

	// Add cleanup functions in reverse order (LIFO)
	utc.cleanup = append(utc.cleanup, func() { cancelTimeout() })
	utc.cleanup = append(utc.cleanup, func() { session.Close() })

	return utc
}

// Cleanup releases all resources. Call this with defer.
func (utc *UITestContext) Cleanup() {
	if utc.T.Failed() {
		utc.Logger.Warn().Str("test", utc.T.Name()).Msg("=== TEST RESULT: FAIL ===")
	} else {
		utc.Logger.Info().Str("test", utc.T.Name()).Msg("=== TEST RESULT: PASS ===")
	}

	// Execute cleanup functions in reverse order
	for i := len(utc.cleanup) - 1; i >= 0; i-- {
		utc.cleanup[i]()
	}
}

// Ctx returns the test-scoped context for browser calls.
func (utc *UITestContext) Ctx() context.Context {
	return utc.ctx
}

// Fixtures returns a fixture loader rooted at the configured components dir.
func (utc *UITestContext) Fixtures() *fixtures.Loader {
	return fixtures.NewLoader(utc.Config.Paths.ComponentsDir, utc.Logger)
}

// Screenshot captures the page, failing softly: screenshot problems are
// logged, never fatal to the test.
func (utc *UITestContext) Screenshot(name string) {
	if _, err := utc.Session.Screenshot(name); err != nil {
		utc.Logger.Warn().Str("name", name).Err(err).Msg("Screenshot failed")
	}
}

// LogMismatches logs each mismatch of a verification error individually so
// the test output names every failing property, then fails the test.
func (utc *UITestContext) LogMismatches(label string, err error) {
	if err == nil {
		return
	}
	if verr, ok := err.(*verify.VerificationError); ok {
		for _, m := range verr.Mismatches {
			utc.Logger.Error().
				Str("context", label).
				Str("kind", string(m.Kind)).
				Str("name", m.Name).
				Str("expected", m.Expected).
				Str("actual", m.Actual).
				Msg("Property mismatch")
		}
	}
	utc.T.Errorf("%s: %v", label, err)
}
