package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds the slug so note file names stay portable.
const MaxLength = 64

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make turns a recipe name into a file-safe slug. Accents are folded
// ("Aço 5,5" becomes "aco-5-5") and empty results become "untitled".
func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(foldAccents(input)))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
