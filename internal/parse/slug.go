package parse

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	edgeDashRe = regexp.MustCompile(`^-+|-+$`)
)

// stripMarks decomposes accented letters and drops the combining marks,
// so "Ação" becomes "Acao".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a movie title into the URL slug used for the watch page.
func Slugify(title string) (string, error) {
	s, _, err := transform.String(stripMarks, title)
	if err != nil {
		return "", fmt.Errorf("normalize title %q: %w", title, err)
	}

	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = edgeDashRe.ReplaceAllString(s, "")

	if s == "" {
		return "", fmt.Errorf("title %q has no characters usable in a slug", title)
	}
	return s, nil
}
