package ui

import (
	"fmt"
	"os"
)

// TestConfig holds configuration for UI tests
type TestConfig struct {
	StorybookURL  string
	ComponentsDir string
}

// LoadTestConfig loads test configuration from environment variables.
// Fails if STORYBOOK_URL is not set - no fallback values.
func LoadTestConfig() (*TestConfig, error) {
	storybookURL := os.Getenv("STORYBOOK_URL")
	if storybookURL == "" {
		return nil, fmt.Errorf("STORYBOOK_URL environment variable is required for UI tests")
	}

	componentsDir := os.Getenv("COMPONENTS_DIR")
	if componentsDir == "" {
		componentsDir = "../../components"
	}

	return &TestConfig{
		StorybookURL:  storybookURL,
		ComponentsDir: componentsDir,
	}, nil
}
