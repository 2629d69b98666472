package compose

import (
	"strings"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

var (
	poemIndicators  = []string{"गीत", "कविता", "शेर", "शायरी", "गजल", "verses", "poem", "poetry"}
	storyIndicators = []string{"कहानी", "कहानि", "लघुकथा", "story", "tale", "narrative"}
)

// Classify picks a category from keywords in the title and content.
// Poem keywords are checked first, so text with both kinds is a poem.
// With no keyword at all the post is filed as a poem.
func Classify(title, content string) domain.Category {
	t := strings.ToLower(title)
	c := strings.ToLower(content)

	if containsAny(t, poemIndicators) || containsAny(c, poemIndicators) {
		return domain.CategoryPoems
	}
	if containsAny(t, storyIndicators) || containsAny(c, storyIndicators) {
		return domain.CategoryStories
	}
	return domain.CategoryPoems
}

var (
	poemTags  = []string{"poem", "कविता", "गीत"}
	storyTags = []string{"story", "कहानी", "निबंध"}
)

// CategoryFromTags maps export category/tag names to a category. The
// first tag that names either kind decides.
func CategoryFromTags(tags []string) (domain.Category, bool) {
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		switch {
		case containsAny(tag, poemTags):
			return domain.CategoryPoems, true
		case containsAny(tag, storyTags):
			return domain.CategoryStories, true
		}
	}
	return "", false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
