package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "frank-99", NormalizeHandle("  Frank-99  "))
	assert.Equal(t, "abc", NormalizeHandle("ABC"))
	// NFKC folds the fullwidth digits used by some IMEs.
	assert.Equal(t, "abc123", NormalizeHandle("abc１２３"))
}

func TestValidateHandle_Valid(t *testing.T) {
	for _, h := range []string{"abc", "frank-99", "a-b", "x0-9z", strings.Repeat("a", 20)} {
		assert.NoError(t, ValidateHandle(h), "handle %q", h)
	}
}

func TestValidateHandle_TooShort(t *testing.T) {
	err := ValidateHandle("ab")
	assert.ErrorContains(t, err, "at least 3")
}

func TestValidateHandle_TooLong(t *testing.T) {
	err := ValidateHandle(strings.Repeat("a", 21))
	assert.ErrorContains(t, err, "at most 20")
}

func TestValidateHandle_HyphenAtEdge(t *testing.T) {
	assert.ErrorContains(t, ValidateHandle("-abc"), "hyphen")
	assert.ErrorContains(t, ValidateHandle("abc-"), "hyphen")
}

func TestValidateHandle_BadCharacters(t *testing.T) {
	for _, h := range []string{"abc_def", "abc def", "Abc", "abc!", "abé"} {
		assert.Error(t, ValidateHandle(h), "handle %q", h)
	}
}
