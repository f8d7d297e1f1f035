package cleaner

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes to NFD, removes combining marks, and recomposes, so
// "São Paulo" and "sao paulo" compare equal after lowering.
var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldCity returns the canonical form of a city name: trimmed, lowercased,
// accents stripped. On a transform error the lowered input is returned
// unchanged.
func FoldCity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		return s
	}
	return out
}
