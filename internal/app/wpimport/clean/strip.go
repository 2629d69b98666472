// Package clean turns raw WordPress post content into plain, script-filtered text.
// Every function here is pure: string in, string out.
package clean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultMarker is the block-editor comment prefix used by WordPress exports.
const DefaultMarker = "wp"

var (
	cdataRe     = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)
	shortcodeRe = regexp.MustCompile(`\[/?(?:caption|embed)[^\]]*\]`)
)

// Stripper removes CMS markup from post content. The block-comment marker
// is configurable so exports from other block editors can be handled.
type Stripper struct {
	blockCommentRe *regexp.Regexp
	blockMarkerRe  *regexp.Regexp
}

// NewStripper compiles a Stripper for the given block-comment marker.
func NewStripper(marker string) *Stripper {
	m := regexp.QuoteMeta(marker)
	return &Stripper{
		blockCommentRe: regexp.MustCompile(`<!--\s*/?` + m + `:[^>]*-->`),
		blockMarkerRe:  regexp.MustCompile(`--\s*` + m + `:[^>]*\s*-->`),
	}
}

var defaultStripper = NewStripper(DefaultMarker)

// StripMarkup strips WordPress markup from s using the default marker.
func StripMarkup(s string) string {
	return defaultStripper.Strip(s)
}

// Strip unwraps CDATA, drops block comments, replaces tags with spaces,
// removes caption/embed shortcodes and decodes entities. The result has
// whitespace collapsed and trimmed.
func (st *Stripper) Strip(s string) string {
	if s == "" {
		return ""
	}

	s = cdataRe.ReplaceAllString(s, "$1")
	s = st.blockCommentRe.ReplaceAllString(s, "")
	s = st.blockMarkerRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = shortcodeRe.ReplaceAllString(s, "")

	// &nbsp; and friends survive CDATA sections verbatim.
	if strings.IndexByte(s, '&') >= 0 {
		s = html.UnescapeString(s)
	}

	return CollapseSpace(s)
}

// CollapseSpace replaces every run of Unicode whitespace with one ASCII
// space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
