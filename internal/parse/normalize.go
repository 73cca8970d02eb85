package parse

import "strings"

// Floor staff type on phone keyboards in two alphabets at once, so a small set
// of Cyrillic lookalikes has to be folded before any matching happens.
var homoglyphs = strings.NewReplacer(
	"ё", "е",
	"×", "x",
	"х", "x",
)

// Normalize lower-cases, folds homoglyphs and collapses whitespace runs.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = homoglyphs.Replace(s)

	return strings.Join(strings.Fields(s), " ")
}
