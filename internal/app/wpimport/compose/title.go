package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleRunes is the length a derived title is cut to.
const MaxTitleRunes = 60

const minTitleRunes = 5

// TitleFromText derives a title from normalized text: the first segment
// longer than five runes that is not punctuation, cut to MaxTitleRunes
// with "..." appended when cut.
func TitleFromText(text string) (string, bool) {
	for _, part := range SplitSentences(text) {
		frag := strings.TrimSpace(part)
		if utf8.RuneCountInString(frag) <= minTitleRunes || isTitlePunctOnly(frag) {
			continue
		}
		return Truncate(frag, MaxTitleRunes), true
	}
	return "", false
}

// Truncate cuts s to n runes, appending "..." when anything was dropped.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(truncateRunes(s, n)) + "..."
}

// FallbackTitle builds "Post <n>" with n in [0, 10000).
func FallbackTitle(intn func(int) int) string {
	return fmt.Sprintf("Post %d", intn(10000))
}

func isTitlePunctOnly(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return isSegmentPunct(r) || r == '='
	}) == ""
}
