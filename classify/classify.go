// Package classify routes model responses to output channels.
//
// IsPositive is a naive keyword placeholder, not a sentiment model. Keep its
// behavior stable: callers rely on the exact substring rule.
package classify

import "strings"

const positiveKeyword = "positive"

// IsPositive reports whether text contains "positive", ignoring case.
func IsPositive(text string) bool {
	return strings.Contains(strings.ToLower(text), positiveKeyword)
}
