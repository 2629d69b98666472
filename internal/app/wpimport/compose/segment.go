// Package compose builds post records from normalized text: body blocks,
// category, slug and fallback titles.
package compose

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// MinSegmentRunes is the anti-noise threshold for a block.
const MinSegmentRunes = 3

const blockStyle = "normal"

var sentenceDelimRe = regexp.MustCompile(`[।॥!?\n\r]+`)

// KeyFunc generates locally unique block and span keys.
type KeyFunc func() string

// NewKey returns a 12-hex-char random key.
func NewKey() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}

// SplitSentences splits text on runs of sentence terminators and line
// breaks. Delimiter runs are returned as their own elements, untrimmed
// fragments in between. Empty fragments are omitted.
func SplitSentences(text string) []string {
	var parts []string
	last := 0
	for _, loc := range sentenceDelimRe.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			parts = append(parts, text[last:loc[0]])
		}
		parts = append(parts, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}
	return parts
}

// Segments returns the trimmed fragments that qualify as blocks, in order.
func Segments(text string) []string {
	var out []string
	for _, part := range SplitSentences(text) {
		frag := strings.TrimSpace(part)
		if frag == "" || IsPunctuationOnly(frag) {
			continue
		}
		if utf8.RuneCountInString(frag) < MinSegmentRunes {
			continue
		}
		out = append(out, frag)
	}
	return out
}

// Segment converts normalized text into body blocks. Non-blank input
// always yields at least one block.
func Segment(text string, newKey KeyFunc) []domain.Block {
	if newKey == nil {
		newKey = NewKey
	}

	segs := Segments(text)
	if len(segs) == 0 {
		whole := strings.TrimSpace(text)
		if whole == "" {
			return nil
		}
		segs = []string{whole}
	}

	blocks := make([]domain.Block, 0, len(segs))
	for _, s := range segs {
		blocks = append(blocks, NewBlock(s, newKey))
	}
	return blocks
}

// NewBlock wraps text in a single-span normal block.
func NewBlock(text string, newKey KeyFunc) domain.Block {
	return domain.Block{
		Key:   newKey(),
		Style: blockStyle,
		Children: []domain.Span{{
			Key:   newKey(),
			Text:  text,
			Marks: []string{},
		}},
	}
}

// IsPunctuationOnly reports whether s consists solely of whitespace and
// sentence punctuation.
func IsPunctuationOnly(s string) bool {
	return strings.TrimFunc(s, isSegmentPunct) == ""
}

func isSegmentPunct(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '।', '॥', '!', '?', ',', ';', ':', '-', '"', '\'', '(', ')', '“', '”', '‘', '’':
		return true
	}
	return false
}
