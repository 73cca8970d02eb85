package parse

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/nurbek2810/stockchat-api/internal/domain"
)

var (
	// Words that mark the whole message as non-business noise.
	ignoreMarkers = []string{"доля"}

	saleMarkers      = []string{"продал", "продажа", "прод.", "sale", "шт", "шт."}
	incrementMarkers = []string{"приход", "поступил", "получили", "привезли"}
	snapshotPrefixes = []string{"сток:", "остаток:", "новый сток:"}

	tbTokens = []string{"1тб", "1tb", "1 tb", "1 тб"}
)

var validMemory = map[int]bool{64: true, 128: true, 256: true, 512: true, 1024: true}

var (
	priceRe  = regexp2.MustCompile(`(\d[\d\s]{3,})\s*(?:тг|тенге|₸|kzt)`, regexp2.IgnoreCase)
	ramRomRe = regexp2.MustCompile(`\b(\d{1,2})\s*/\s*(\d{2,4})\b`, regexp2.None)

	// Two flavors of the capacity suffix. The word-bounded one is used when
	// extracting counts: a glued "256гб" stays attached to its number there,
	// which keeps the trailing-number rule from reading a capacity as a count.
	// The glued-aware one is used when extracting memory and cleaning
	// fragments, where "128gb" must still surface the 128.
	gbWordRe   = regexp2.MustCompile(`\b(gb|гб)\b`, regexp2.IgnoreCase)
	gbSuffixRe = regexp2.MustCompile(`(?:(?<=\d)|\b)(gb|гб)\b`, regexp2.IgnoreCase)
	memBareRe  = regexp2.MustCompile(`\b(64|128|256|512|1024)\b`, regexp2.None)
	nonWordRe  = regexp2.MustCompile(`[^\w\s\-+]`, regexp2.None)

	glueGRe = regexp2.MustCompile(`\b(\d+)\s+g\b`, regexp2.None)
	glueFRe = regexp2.MustCompile(`\b(\d+)\s+f\b`, regexp2.None)
)

// Quantity rules, tried in priority order; the first one that matches wins.
// The suffix shapes mirror how staff actually write counts:
// "— 3", "x2", "3 шт", and a bare trailing number as the last resort.
var quantityRules = []*regexp2.Regexp{
	regexp2.MustCompile(`[-—:]\s*(\d+)\s*$`, regexp2.None),
	regexp2.MustCompile(`\bx\s*(\d+)\s*$`, regexp2.None),
	regexp2.MustCompile(`\b(\d+)\s*шт\.?\s*$`, regexp2.None),
	regexp2.MustCompile(`\s(\d+)\s*$`, regexp2.None),
}

// Trailing quantity shapes stripped out of the model fragment.
var trailingQtyRes = []*regexp2.Regexp{
	regexp2.MustCompile(`[-—:]\s*\d+\s*$`, regexp2.None),
	regexp2.MustCompile(`\bx\s*\d+\s*$`, regexp2.None),
	regexp2.MustCompile(`\b\d+\s*шт\.?\s*$`, regexp2.None),
}

func findGroup(re *regexp2.Regexp, s string, group int) (string, bool) {
	m, err := re.FindStringMatch(s)
	if err != nil || m == nil {
		return "", false
	}

	g := m.GroupByNumber(group)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}

	return g.String(), true
}

func replaceAll(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return s
	}

	return out
}

// ContainsIgnoredWord reports whether the text carries a noise marker that
// suppresses the entire message regardless of its shape.
func ContainsIgnoredWord(s string) bool {
	norm := Normalize(s)
	for _, w := range ignoreMarkers {
		if strings.Contains(norm, w) {
			return true
		}
	}

	return false
}

// Quantity extracts a piece count from a line. GB and TB tokens are stripped
// first so "x2" and "шт" suffixes stay visible next to a capacity.
func Quantity(line string) (int, bool) {
	s := Normalize(line)
	s = replaceAll(gbWordRe, s, "")
	for _, tb := range tbTokens {
		s = strings.ReplaceAll(s, tb, "")
	}

	for _, rule := range quantityRules {
		if g, ok := findGroup(rule, s, 1); ok {
			if n, err := strconv.Atoi(g); err == nil {
				return n, true
			}
		}
	}

	return 0, false
}

// Memory extracts a memory capacity in GB from the closed set of valid sizes.
// A "ram/rom" pair contributes its second number; the terabyte token family
// normalizes to 1024. The boolean distinguishes "unknown" from an explicit
// value.
func Memory(line string) (int, bool) {
	norm := Normalize(line)

	squeezed := strings.ReplaceAll(norm, " ", "")
	if strings.Contains(squeezed, "1tb") || strings.Contains(squeezed, "1тб") {
		return 1024, true
	}

	// "128gb" glued to the number would hide it from the bare-number rule.
	norm = replaceAll(gbSuffixRe, norm, "")

	if g, ok := findGroup(ramRomRe, norm, 2); ok {
		if n, err := strconv.Atoi(g); err == nil && validMemory[n] {
			return n, true
		}
	}

	if g, ok := findGroup(memBareRe, norm, 1); ok {
		if n, err := strconv.Atoi(g); err == nil {
			return n, true
		}
	}

	return 0, false
}

// ModelFragment strips prices, quantity and memory tokens, sale markers and
// punctuation out of a line, leaving the cleaned fuzzy-matching query.
// The result is not a catalog identity.
func ModelFragment(line string) string {
	s := replaceAll(priceRe, line, "")
	s = Normalize(s)
	s = replaceAll(ramRomRe, s, " ")
	s = replaceAll(gbSuffixRe, s, " ")
	for _, tb := range tbTokens {
		s = strings.ReplaceAll(s, tb, " ")
	}
	s = replaceAll(memBareRe, s, " ")
	for _, re := range trailingQtyRes {
		s = replaceAll(re, s, " ")
	}
	for _, mk := range saleMarkers {
		s = strings.ReplaceAll(s, mk, " ")
	}
	for _, mk := range incrementMarkers {
		s = strings.ReplaceAll(s, mk, " ")
	}
	s = replaceAll(nonWordRe, s, " ")
	s = strings.Join(strings.Fields(s), " ")

	// Re-glue split model suffixes: "reno 11 f" came in as "11 f" → "11f".
	s = replaceAll(glueGRe, s, "$1g")
	s = replaceAll(glueFRe, s, "$1f")

	return s
}

// LooksLikeSaleLine reports whether a line has the shape of a sale report:
// an extractable quantity plus either a sale keyword or a memory token.
func LooksLikeSaleLine(s string) bool {
	norm := Normalize(s)

	if _, ok := Quantity(norm); !ok {
		return false
	}

	for _, mk := range saleMarkers {
		if strings.Contains(norm, mk) {
			return true
		}
	}
	_, hasMem := Memory(norm)

	return hasMem
}

// ParseSaleLine extracts a single sale row from a line, or reports that the
// line is unparseable. A missing quantity or a fragment shorter than
// minFragmentLen rejects the line.
func ParseSaleLine(line string, minFragmentLen int) (domain.ParsedLine, bool) {
	if strings.TrimSpace(line) == "" {
		return domain.ParsedLine{}, false
	}
	if ContainsIgnoredWord(line) {
		return domain.ParsedLine{}, false
	}
	if !LooksLikeSaleLine(line) {
		return domain.ParsedLine{}, false
	}

	qty, ok := Quantity(line)
	if !ok {
		return domain.ParsedLine{}, false
	}
	mem, hasMem := Memory(line)

	fragment := ModelFragment(line)
	if utf8.RuneCountInString(fragment) < minFragmentLen {
		return domain.ParsedLine{}, false
	}

	return domain.ParsedLine{
		Fragment:  fragment,
		Qty:       qty,
		MemoryGB:  mem,
		HasMemory: hasMem,
	}, true
}

// SplitLines breaks a message into logical lines: newlines always split, and
// semicolons split too when the line is long enough to be a real list.
func SplitLines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, ";") && utf8.RuneCountInString(raw) > 10 {
			for _, p := range strings.Split(raw, ";") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			continue
		}
		out = append(out, raw)
	}

	return out
}

// SnapshotLines returns the rows of a snapshot message: every non-empty line
// after the header line.
func SnapshotLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil
	}

	var out []string
	for _, raw := range lines[1:] {
		if raw = strings.TrimSpace(raw); raw != "" {
			out = append(out, raw)
		}
	}

	return out
}
