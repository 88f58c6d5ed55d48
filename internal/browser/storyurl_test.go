package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoryURL(t *testing.T) {
	url := StoryURL("http://localhost:6006", "main-button--primary", nil, nil)
	assert.Equal(t, "http://localhost:6006/?path=/story/main-button--primary", url)

	url = StoryURL("http://localhost:6006/", "main-button--primary",
		map[string]string{"size": "large"},
		map[string]string{"themeMode": "dark"})
	assert.Equal(t,
		"http://localhost:6006/?path=/story/main-button--primary&args=size:large&globals=themeMode:dark",
		url)
}

func TestBuildArgsQuery(t *testing.T) {
	assert.Equal(t, "", BuildArgsQuery(nil))

	// Booleans use the ! form
	assert.Equal(t, "disabled:!true", BuildArgsQuery(map[string]string{"disabled": "true"}))
	assert.Equal(t, "loading:!false", BuildArgsQuery(map[string]string{"loading": "false"}))

	// Spaces become '+'
	assert.Equal(t, "label:Click+me", BuildArgsQuery(map[string]string{"label": "Click me"}))

	// Keys are sorted so URLs are stable
	assert.Equal(t, "a:1;b:2;c:3", BuildArgsQuery(map[string]string{"c": "3", "a": "1", "b": "2"}))

	// Reserved characters are percent-encoded
	assert.Equal(t, "label:50%25", BuildArgsQuery(map[string]string{"label": "50%"}))
}

func TestBuildGlobalsQuery(t *testing.T) {
	assert.Equal(t, "themeMode:dark-hc", BuildGlobalsQuery(map[string]string{"themeMode": "dark-hc"}))
}
