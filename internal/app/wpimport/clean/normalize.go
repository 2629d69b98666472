package clean

import "golang.org/x/text/unicode/norm"

// maxPasses bounds the fixpoint loop in Normalize. Every pass is
// non-growing, so real content settles in two or three.
const maxPasses = 16

// Normalizer runs the full cleaning chain: markup stripping, contact
// redaction and alphabet filtering.
type Normalizer struct {
	Stripper *Stripper
	Alphabet Alphabet
}

// NewNormalizer returns a Normalizer using the default WordPress marker.
func NewNormalizer(a Alphabet) *Normalizer {
	return &Normalizer{Stripper: defaultStripper, Alphabet: a}
}

// Normalize cleans raw content. The chain is repeated until the text stops
// changing, so Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	s := norm.NFC.String(raw)
	for range maxPasses {
		next := norm.NFC.String(n.Alphabet.Filter(RedactContacts(n.Stripper.Strip(s))))
		if next == s {
			return s
		}
		s = next
	}
	return s
}

// Normalize cleans raw content with the given alphabet.
func Normalize(raw string, a Alphabet) string {
	return NewNormalizer(a).Normalize(raw)
}
