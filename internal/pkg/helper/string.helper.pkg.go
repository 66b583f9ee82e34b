package helper

import (
	"encoding/json"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func StringPtr(s string) *string {
	return &s
}

func StringToStruct[I any](payload string, result *I) error {
	err := json.Unmarshal([]byte(payload), &result)
	if err != nil {
		return err
	}
	return nil
}

// Slugify lowercases the input, folds accented letters to their base form
// and replaces every remaining run of characters outside [a-z0-9] with a
// single dash. Leading and trailing dashes are stripped.
func Slugify(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(decomposed))

	lastDash := true
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case unicode.Is(unicode.Mn, r):
			// combining marks left over from the decomposition
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
