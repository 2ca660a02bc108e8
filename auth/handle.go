package auth

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	handleMinLen = 3
	handleMaxLen = 20
)

// handlePattern allows lowercase letters, digits, and interior hyphens.
var handlePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// NormalizeHandle folds a user-supplied handle into canonical form before
// validation: NFKC normalization, lowercase, surrounding whitespace removed.
func NormalizeHandle(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// ValidateHandle checks a normalized handle against the naming rules and
// returns an error naming the first violated constraint.
func ValidateHandle(handle string) error {
	if len(handle) < handleMinLen {
		return fmt.Errorf("handle must be at least %d characters", handleMinLen)
	}
	if len(handle) > handleMaxLen {
		return fmt.Errorf("handle must be at most %d characters", handleMaxLen)
	}
	if strings.HasPrefix(handle, "-") || strings.HasSuffix(handle, "-") {
		return fmt.Errorf("handle cannot start or end with a hyphen")
	}
	if !handlePattern.MatchString(handle) {
		return fmt.Errorf("handle may only contain lowercase letters, digits, and hyphens")
	}
	return nil
}
