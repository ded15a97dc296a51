package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("  User.Name+tag@sub.example.co  "))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail(""))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "hello", SanitizeString("he\x00llo"))
	assert.Equal(t, "", SanitizeString("   "))
}

func TestSanitizeTags(t *testing.T) {
	tags := SanitizeTags([]string{" cyberpunk ", "", "portrait", "cyberpunk", "  "})
	assert.Equal(t, []string{"cyberpunk", "portrait"}, tags)

	assert.Empty(t, SanitizeTags(nil))
}
