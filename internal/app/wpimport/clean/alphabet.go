package clean

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rewrite is a literal-or-pattern replacement applied before extraction.
type Rewrite struct {
	Pattern *regexp.Regexp
	Replace string
}

func lit(s, repl string) Rewrite {
	return Rewrite{Pattern: regexp.MustCompile(regexp.QuoteMeta(s)), Replace: repl}
}

// Alphabet is an allow-list of runes. Text outside the list is dropped,
// keeping maximal allowed runs in order.
type Alphabet struct {
	Name   string
	Digits bool
	Latin  bool
	// Scrub removes markup leftovers that would otherwise pass as punctuation.
	Scrub []Rewrite
}

// StandardAlphabet keeps Devanagari, ASCII spaces and ASCII punctuation.
var StandardAlphabet = Alphabet{Name: "standard"}

// DigitAlphabet additionally keeps digits and scrubs attribute residue
// such as `="`, `-">` and stray slashes, dots and underscores.
var DigitAlphabet = Alphabet{
	Name:   "digits",
	Digits: true,
	Scrub: []Rewrite{
		lit(`&;`, ""),
		lit(`="`, ""),
		lit(`-">`, ""),
		lit(`"://`, ""),
		lit(`../-`, ""),
		lit(`//`, "/"),
		lit(`___`, " "),
		lit(`=""`, ""),
		lit(`=" "`, ""),
		lit(`>`, ""),
		lit(`"`, ""),
		lit(`=`, ""),
		lit(`&`, ""),
		lit(`;`, ""),
		lit(`-`, ""),
		lit(`.`, ""),
		lit(`/`, ""),
		lit(`_`, ""),
	},
}

// ArtifactAlphabet is StandardAlphabet plus removal of half-stripped
// block comments like "/> -- /: --> >:".
var ArtifactAlphabet = Alphabet{
	Name: "artifacts",
	Scrub: []Rewrite{
		{Pattern: regexp.MustCompile(`>/\s*--\s*:?\s*>\s*--\s*/?:?>`)},
		{Pattern: regexp.MustCompile(`/\s*--\s*:?\s*>`)},
		{Pattern: regexp.MustCompile(`>:\s*>`)},
		lit(`/>`, ""),
		{Pattern: regexp.MustCompile(`\s*--\s*`), Replace: " "},
	},
}

// AlphabetByName resolves a configured alphabet name.
func AlphabetByName(name string) (Alphabet, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StandardAlphabet.Name:
		return StandardAlphabet, true
	case DigitAlphabet.Name:
		return DigitAlphabet, true
	case ArtifactAlphabet.Name:
		return ArtifactAlphabet, true
	}
	return Alphabet{}, false
}

// Allows reports whether r is in the alphabet.
func (a Alphabet) Allows(r rune) bool {
	switch {
	case r >= 0x0900 && r <= 0x097F: // Devanagari, includes । and ॥
		return true
	case r >= 0x20 && r <= 0x2F, r >= 0x3A && r <= 0x40, r >= 0x5B && r <= 0x60, r >= 0x7B && r <= 0x7E:
		return true
	case r == '‘' || r == '’' || r == '“' || r == '”':
		return true
	case r >= '0' && r <= '9':
		return a.Digits
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return a.Latin
	}
	return false
}

// Filter applies the scrub rules, then keeps only allowed runs,
// concatenated, with whitespace collapsed. When nothing survives the
// scrubbed input is returned unchanged so a post is never blanked out.
func (a Alphabet) Filter(s string) string {
	if s == "" {
		return ""
	}

	for _, rw := range a.Scrub {
		s = rw.Pattern.ReplaceAllString(s, rw.Replace)
	}
	s = CollapseSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if a.Allows(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}

	out := CollapseSpace(b.String())
	if out == "" {
		return s
	}
	return out
}

// Closed reports whether every rune of s is allowed.
func (a Alphabet) Closed(s string) bool {
	for _, r := range s {
		if !a.Allows(r) {
			return false
		}
	}
	return true
}
