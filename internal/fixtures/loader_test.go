package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picarro/CommonUIAutomation/internal/common"
)

func writeFixture(t *testing.T, dir, component, content string) {
	t.Helper()
	componentDir := filepath.Join(dir, component)
	require.NoError(t, os.MkdirAll(componentDir, 0755))
	path := filepath.Join(componentDir, component+".properties")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadComponentProperties(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "button", `
# button fixture
background-color = rgb(0, 255, 0)
color=#ffffff
css-var.background-color = var(--color-green-100)

padding = 8px 16px
padding = 12px 16px
`)

	loader := NewLoader(dir, common.GetLogger())
	props := loader.LoadComponentProperties("button")

	assert.Equal(t, "rgb(0, 255, 0)", props["background-color"])
	assert.Equal(t, "#ffffff", props["color"])

	// Duplicate keys: last occurrence wins
	assert.Equal(t, "12px 16px", props["padding"])

	// css-var.* documentation keys are excluded
	_, found := props["css-var.background-color"]
	assert.False(t, found)
	assert.Len(t, props, 3)
}

func TestLoadVariantProperties(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "button", `
primary.active.large.background-color = var(--color-green-100)
primary.active.large.font-size = 16px
primary.hover.large.background-color = var(--color-green-200)
secondary.active.large.background-color = rgb(1, 2, 3)
`)

	loader := NewLoader(dir, common.GetLogger())
	props := loader.LoadVariantProperties("button", "Primary", "Active", "Large")

	require.Len(t, props, 2)
	assert.Equal(t, "var(--color-green-100)", props["background-color"])
	assert.Equal(t, "16px", props["font-size"])
}

func TestLoadPropertiesByPrefix(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "checkbox", `
icon.default.checked.background-color = var(--color-green-100)
label.default.checked.color = rgb(0, 0, 0)
gap = 8px
`)

	loader := NewLoader(dir, common.GetLogger())

	icon := loader.LoadPropertiesByPrefix("checkbox", "icon.default.checked.")
	require.Len(t, icon, 1)
	assert.Equal(t, "var(--color-green-100)", icon["background-color"])

	label := loader.LoadPropertiesByPrefix("checkbox", "label.default.checked.")
	require.Len(t, label, 1)
	assert.Equal(t, "rgb(0, 0, 0)", label["color"])
}

func TestMissingFixtureIsEmptyNotError(t *testing.T) {
	loader := NewLoader(t.TempDir(), common.GetLogger())

	props := loader.LoadComponentProperties("nonexistent")
	assert.NotNil(t, props)
	assert.Empty(t, props)

	vars := loader.LoadCSSVariables()
	assert.NotNil(t, vars)
	assert.Empty(t, vars)
}

func TestLoadCSSVariablesBothForms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CSSVariablesFile)
	require.NoError(t, os.WriteFile(path, []byte(`
# design tokens
--color-green-100: #00ff00;
--color-green-200: rgb(0, 200, 0)
--spacing-small=4px
--spacing-large: 24px;;
not-a-variable = ignored
color: also-ignored;
`), 0644))

	loader := NewLoader(dir, common.GetLogger())
	vars := loader.LoadCSSVariables()

	require.Len(t, vars, 4)
	assert.Equal(t, "#00ff00", vars["--color-green-100"])
	assert.Equal(t, "rgb(0, 200, 0)", vars["--color-green-200"])
	assert.Equal(t, "4px", vars["--spacing-small"])

	// A run of trailing semicolons is stripped entirely
	assert.Equal(t, "24px", vars["--spacing-large"])
}
