// Package browser owns the headless Chrome session, story navigation and
// the in-frame probe layer used by style resolution and verification.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/picarro/CommonUIAutomation/internal/common"
)

// storyRootSelector is the element Storybook renders stories into inside
// the preview iframe. Navigation waits for it before a story is considered
// loaded.
const storyRootSelector = "#storybook-root, #root"

// Session is a live headless browser attached to a Storybook instance. It is
// not safe for concurrent use; run one session per test.
type Session struct {
	ID     string
	Frame  *Frame
	config *common.Config
	logger arbor.ILogger

	ctx     context.Context
	cleanup []func()

	screenshotNum int
}

// NewSession starts a headless Chrome instance and returns a session bound
// to it. Close must be called to release the browser.
func NewSession(config *common.Config, logger arbor.ILogger) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(config.Browser.ViewportWidth, config.Browser.ViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ID:      uuid.New().String(),
		Frame:   NewFrame(config.Storybook.IframeSelector, logger),
		config:  config,
		logger:  logger,
		ctx:     browserCtx,
		cleanup: make([]func(), 0),
	}

	// Cleanup runs in reverse order (LIFO)
	s.cleanup = append(s.cleanup, func() { cancelAlloc() })
	s.cleanup = append(s.cleanup, func() { cancelBrowser() })
	s.cleanup = append(s.cleanup, func() {
		if err := chromedp.Cancel(browserCtx); err != nil {
			logger.Warn().Err(err).Msg("Browser cancel returned error")
		}
	})

	// Start the browser process up front so a broken Chrome install fails
	// here instead of inside the first test step.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Info().
		Str("session", s.ID).
		Bool("headless", config.Browser.Headless).
		Msg("Browser session started")

	return s, nil
}

// Context returns the browser context for direct chromedp calls.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close releases the browser and every registered resource in reverse order.
func (s *Session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.logger.Info().Str("session", s.ID).Msg("Browser session closed")
}

// timeout returns the configured story timeout as a duration.
func (s *Session) timeout() time.Duration {
	return time.Duration(s.config.Storybook.TimeoutMS) * time.Millisecond
}

// NavigateToStory opens a story by ID with optional args and globals, then
// waits for the preview iframe and the story root inside it. The wait is
// bounded by the configured story timeout.
func (s *Session) NavigateToStory(storyID string, args, globals map[string]string) error {
	url := StoryURL(s.config.Storybook.URL, storyID, args, globals)

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout())
	defer cancel()

	s.logger.Info().Str("session", s.ID).Str("url", url).Msg("Navigating to story")

	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(s.config.Storybook.IframeSelector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to open story %s: %w", storyID, err)
	}

	if err := s.waitForStoryRoot(ctx); err != nil {
		return fmt.Errorf("story %s did not render: %w", storyID, err)
	}
	return nil
}

// waitForStoryRoot polls until the story root inside the preview iframe has
// at least one rendered child. WaitVisible cannot see into the iframe
// document, so this goes through the frame probe layer.
func (s *Session) waitForStoryRoot(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		count, err := s.Frame.CountMatches(ctx, storyRootSelector+" > *")
		if err == nil && count > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return err
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForElement polls until at least one element matches the selector
// inside the story iframe, bounded by the configured story timeout.
func (s *Session) WaitForElement(selector string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout())
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		count, err := s.Frame.CountMatches(ctx, selector)
		if err == nil && count > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("no element matched %q within %s", selector, s.timeout())
		case <-ticker.C:
		}
	}
}

// Screenshot captures the full page to the configured screenshots directory
// with a sequential number prefix and returns the file path.
func (s *Session) Screenshot(name string) (string, error) {
	s.screenshotNum++
	dir := s.config.Paths.ScreenshotsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%02d_%s.png", s.screenshotNum, name))

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout())
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	s.logger.Debug().Str("path", path).Msg("Screenshot captured")
	return path, nil
}
