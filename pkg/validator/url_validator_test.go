package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?q=1",
		"http://localhost:8080/x",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), "ValidateURL(%q)", u)
	}

	invalid := []string{
		"",
		"not-a-url",
		"ftp://example.com/file",
		"javascript:alert(1)",
		"http://",
		"http://" + strings.Repeat("a", 2048),
	}
	for _, u := range invalid {
		assert.Error(t, ValidateURL(u), "ValidateURL(%q)", u)
	}
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "http://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "https://example.com", NormalizeURL("https://example.com"))
	assert.Equal(t, "", NormalizeURL(""))
}
