package service

import (
	"regexp"
	"strings"
)

// referencePattern matches the order code the storefront embeds into the
// payment instructions: "GO" followed by exactly six alphanumerics. The
// payer copies it verbatim into the transfer description, surrounded by
// arbitrary free text in arbitrary case.
var referencePattern = regexp.MustCompile(`(?i)GO[0-9A-Z]{6}`)

// ExtractReference returns the first order reference code found in a
// transfer description, upper-cased. ok is false when none is present.
func ExtractReference(description string) (string, bool) {
	match := referencePattern.FindString(description)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}
