package uaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDesktopChrome(t *testing.T) {
	parser := NewParser()

	info := parser.Parse("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	assert.Equal(t, "Chrome", info.BrowserFamily)
	assert.Equal(t, "120", info.BrowserVersion)
	assert.Equal(t, "Windows", info.OSFamily)
}

func TestParseIPhone(t *testing.T) {
	parser := NewParser()

	info := parser.Parse("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

	assert.Equal(t, "iPhone", info.DeviceFamily)
	assert.Equal(t, "iOS", info.OSFamily)
}

func TestParseEmptyUserAgent(t *testing.T) {
	parser := NewParser()

	info := parser.Parse("")
	assert.NotEqual(t, "iPhone", info.DeviceFamily)
}
