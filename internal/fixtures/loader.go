// Package fixtures loads flat key=value expectation files used as the oracle
// for property verification. Loading is deliberately forgiving: a missing or
// unreadable file is a warning and an empty mapping, never an error, so the
// verification layer can distinguish "nothing to assert" from a real failure.
package fixtures

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
)

// CSSVarKeyPrefix is the key namespace for variable-documentation entries
// mixed into component property files. These are excluded from regular
// property retrieval.
const CSSVarKeyPrefix = "css-var."

// CSSVariablesFile is the shared variable-definition file name inside the
// components directory.
const CSSVariablesFile = "css-variables.properties"

// Loader reads component property fixtures from a components directory laid
// out as <dir>/<component>/<component>.properties.
type Loader struct {
	dir    string
	logger arbor.ILogger
}

// NewLoader creates a fixture loader rooted at the given components directory.
func NewLoader(dir string, logger arbor.ILogger) *Loader {
	return &Loader{
		dir:    dir,
		logger: logger,
	}
}

// propertiesPath returns the default fixture path for a component.
func (l *Loader) propertiesPath(component string) string {
	return filepath.Join(l.dir, component, component+".properties")
}

// parseFile parses a properties file into a key -> value map. Blank lines and
// # comments are skipped, keys and values are trimmed, and a duplicate key
// silently overwrites the earlier entry (last wins, matching parse order).
// Any I/O failure is logged and yields an empty map.
func (l *Loader) parseFile(path string) map[string]string {
	result := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		l.logger.Warn().Str("path", path).Err(err).Msg("Properties file not found")
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		result[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		l.logger.Warn().Str("path", path).Err(err).Msg("Error reading properties file")
		return make(map[string]string)
	}

	return result
}

// LoadComponentProperties loads a component's property fixture, excluding
// variable-documentation keys (css-var.* namespace).
func (l *Loader) LoadComponentProperties(component string) map[string]string {
	all := l.parseFile(l.propertiesPath(component))
	result := make(map[string]string, len(all))
	for key, value := range all {
		if strings.HasPrefix(key, CSSVarKeyPrefix) {
			continue
		}
		result[key] = value
	}
	return result
}

// LoadVariantProperties loads properties scoped to a variant/state/size
// triple. File keys have the shape <variant>.<state>.<size>.<css-property>;
// the returned map is keyed by the bare CSS property name.
func (l *Loader) LoadVariantProperties(component, variant, state, size string) map[string]string {
	prefix := fmt.Sprintf("%s.%s.%s.",
		strings.ToLower(variant), strings.ToLower(state), strings.ToLower(size))
	return l.LoadPropertiesByPrefix(component, prefix)
}

// LoadPropertiesByPrefix loads properties whose key starts with the given
// prefix, with the prefix stripped from the returned keys. This supports
// component sub-scopes (icon., label.<variant>.<state>., ...) that the fixed
// three-segment variant shape cannot express.
func (l *Loader) LoadPropertiesByPrefix(component, prefix string) map[string]string {
	all := l.parseFile(l.propertiesPath(component))
	result := make(map[string]string)
	for key, value := range all {
		if strings.HasPrefix(key, prefix) {
			result[strings.TrimPrefix(key, prefix)] = value
		}
	}
	return result
}

// LoadCSSVariables loads the shared CSS variable definitions from
// <components>/css-variables.properties.
func (l *Loader) LoadCSSVariables() map[string]string {
	return l.LoadCSSVariablesFromFile(filepath.Join(l.dir, CSSVariablesFile))
}

// LoadCSSVariablesFromFile loads variable definitions from an arbitrary
// path. Two line forms are accepted: "--name: value;" (CSS-like, trailing
// semicolon optional) and "--name=value" (flat). Only keys prefixed with
// "--" are kept.
func (l *Loader) LoadCSSVariablesFromFile(path string) map[string]string {
	result := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		l.logger.Warn().Str("path", path).Err(err).Msg("CSS variables file not found")
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, value, found := strings.Cut(line, ":"); found {
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(value), ";"))
			if strings.HasPrefix(name, "--") {
				result[name] = value
			}
			continue
		}
		if name, value, found := strings.Cut(line, "="); found {
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			if strings.HasPrefix(name, "--") {
				result[name] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		l.logger.Warn().Str("path", path).Err(err).Msg("Error reading CSS variables file")
		return make(map[string]string)
	}

	if len(result) == 0 {
		l.logger.Warn().Str("path", path).Msg("No CSS variables found in file")
	}

	return result
}
