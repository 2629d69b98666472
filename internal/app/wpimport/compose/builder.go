package compose

import (
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/clean"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// WordPress export date layout for wp:post_date and wp:post_date_gmt.
const wpDateLayout = "2006-01-02 15:04:05"

// Options configures how export items become posts.
type Options struct {
	Alphabet clean.Alphabet

	// CategoryFromTags consults export categories before keyword classification.
	CategoryFromTags bool
	// TitleFromParagraph tries the first <p> element before segment-derived titles.
	TitleFromParagraph bool
	// UsePostName slugs wp:post_name instead of the title when present.
	UsePostName bool

	PlaceholderAsset string

	NewKey KeyFunc
	Now    func() time.Time
	IntN   func(int) int
}

// Builder turns export items into post records.
type Builder struct {
	opts       Options
	normalizer *clean.Normalizer
}

// NewBuilder fills unset hooks with real clocks and randomness.
func NewBuilder(opts Options) *Builder {
	if opts.NewKey == nil {
		opts.NewKey = NewKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IntN == nil {
		opts.IntN = rand.IntN
	}
	return &Builder{opts: opts, normalizer: clean.NewNormalizer(opts.Alphabet)}
}

// Ineligibility reasons.
const (
	ReasonNotPost      = "not a post"
	ReasonNotPublished = "not published"
	ReasonNoContent    = "empty content"
)

// Eligible reports whether an item should enter the pipeline, and why not.
func (b *Builder) Eligible(it domain.ExportItem) (bool, string) {
	switch {
	case it.PostType != "post":
		return false, ReasonNotPost
	case it.Status != "publish":
		return false, ReasonNotPublished
	case !it.HasContent():
		return false, ReasonNoContent
	}
	return true, ""
}

// Normalize cleans raw content with the builder's alphabet.
func (b *Builder) Normalize(raw string) string {
	return b.normalizer.Normalize(raw)
}

// Body normalizes raw content and segments it into blocks.
func (b *Builder) Body(raw string) []domain.Block {
	return Segment(b.Normalize(raw), b.opts.NewKey)
}

// Build assembles the post record for an eligible item.
func (b *Builder) Build(it domain.ExportItem) domain.Post {
	text := b.Normalize(it.Content)
	title := b.Title(it, text)

	post := domain.Post{
		Title:       title,
		Slug:        b.Slug(it, title),
		Category:    b.Category(it, title),
		PublishedAt: b.PublishedAt(it),
		Body:        Segment(text, b.opts.NewKey),
	}
	if b.opts.PlaceholderAsset != "" {
		post.BannerImage = &domain.ImageRef{AssetRef: b.opts.PlaceholderAsset}
	}
	return post
}

// Title returns the cleaned source title, or a derived one when empty.
func (b *Builder) Title(it domain.ExportItem, text string) string {
	if t := clean.StripMarkup(it.Title); t != "" {
		return t
	}
	if b.opts.TitleFromParagraph {
		if p := b.Normalize(clean.FirstParagraph(it.Content)); p != "" {
			return Truncate(p, MaxTitleRunes)
		}
	}
	if t, ok := TitleFromText(text); ok {
		return t
	}
	return FallbackTitle(b.opts.IntN)
}

// Slug derives the slug from wp:post_name (when enabled) or the title.
func (b *Builder) Slug(it domain.ExportItem, title string) string {
	if b.opts.UsePostName {
		if name := strings.TrimSpace(it.PostName); name != "" {
			if decoded, err := url.PathUnescape(name); err == nil {
				name = decoded
			}
			return Slugify(name, b.opts.Now())
		}
	}
	return Slugify(title, b.opts.Now())
}

// Category classifies the post, preferring export tags when enabled.
func (b *Builder) Category(it domain.ExportItem, title string) domain.Category {
	if b.opts.CategoryFromTags {
		if c, ok := CategoryFromTags(it.Tags()); ok {
			return c
		}
	}
	return Classify(title, clean.StripMarkup(it.Content))
}

// PublishedAt prefers the GMT export date, then the local one, then
// pubDate, then the current time.
func (b *Builder) PublishedAt(it domain.ExportItem) time.Time {
	if t, ok := parseWPDate(it.PublishDateGMT); ok {
		return t
	}
	if t, ok := parseWPDate(it.PublishDate); ok {
		return t
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(it.PubDate)); err == nil {
			return t.UTC()
		}
	}
	return b.opts.Now().UTC()
}

func parseWPDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(wpDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
