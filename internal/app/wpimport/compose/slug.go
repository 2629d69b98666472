package compose

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

// maxSlugSourceRunes is how much of a title feeds the slug.
const maxSlugSourceRunes = 80

var translit = map[rune]string{
	// independent vowels
	'अ': "a", 'आ': "aa", 'इ': "i", 'ई': "ee", 'उ': "u", 'ऊ': "oo",
	'ए': "e", 'ऐ': "ai", 'ओ': "o", 'औ': "au",
	'ऋ': "ri", 'ॠ': "rii", 'ऌ': "li", 'ॡ': "lii",

	// consonants
	'क': "ka", 'ख': "kha", 'ग': "ga", 'घ': "gha", 'ङ': "na",
	'च': "cha", 'छ': "chha", 'ज': "ja", 'झ': "jha", 'ञ': "nya",
	'ट': "tta", 'ठ': "ttha", 'ड': "dda", 'ढ': "ddha", 'ण': "nna",
	'त': "ta", 'थ': "tha", 'द': "da", 'ध': "dha", 'न': "na",
	'प': "pa", 'फ': "pha", 'ब': "ba", 'भ': "bha", 'म': "ma",
	'य': "ya", 'र': "ra", 'ल': "la", 'व': "va",
	'श': "sha", 'ष': "ssha", 'स': "sa", 'ह': "ha",

	// vowel signs, anusvara, visarga
	'ा': "aa", 'ि': "i", 'ी': "ee", 'ु': "u", 'ू': "oo",
	'े': "e", 'ै': "ai", 'ो': "o", 'ौ': "au", 'ं': "m", 'ः': "aha",

	// digits
	'०': "0", '१': "1", '२': "2", '३': "3", '४': "4",
	'५': "5", '६': "6", '७': "7", '८': "8", '९': "9",

	'।': "", '॥': "", '"': "", '\'': "", '`': "",
	' ': "-",
}

var (
	slugInvalidRe = regexp.MustCompile(`[^\w\s-]`)
	slugSepRe     = regexp.MustCompile(`[\s_-]+`)
)

// Transliterate maps Devanagari characters to Latin. Characters outside
// the table pass through unchanged.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if t, ok := translit[r]; ok {
			b.WriteString(t)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Slugify turns a title into a URL-safe ASCII slug. Titles with nothing
// transliterable get "untitled-<epochMillis>".
func Slugify(title string, now time.Time) string {
	s := Transliterate(truncateRunes(title, maxSlugSourceRunes))
	s = strings.ToLower(s)
	s = slugInvalidRe.ReplaceAllString(s, "")
	s = slugSepRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > domain.MaxSlugLength {
		s = strings.TrimRight(s[:domain.MaxSlugLength], "-")
	}
	if s == "" {
		return fmt.Sprintf("untitled-%d", now.UnixMilli())
	}
	return s
}

// CollisionPolicy decides what happens when a new post's slug is taken.
type CollisionPolicy string

const (
	CollisionSkip   CollisionPolicy = "skip"
	CollisionSuffix CollisionPolicy = "suffix"
)

func (p CollisionPolicy) IsValid() bool {
	return p == CollisionSkip || p == CollisionSuffix
}

// SlugRegistry tracks slugs that are taken, both in the store and by posts
// already queued in the current run.
type SlugRegistry struct {
	owners map[string]string
	now    func() time.Time
}

// NewSlugRegistry creates an empty registry. now drives timestamp suffixes.
func NewSlugRegistry(now func() time.Time) *SlugRegistry {
	if now == nil {
		now = time.Now
	}
	return &SlugRegistry{owners: make(map[string]string), now: now}
}

// Add records slug as owned by the document id.
func (r *SlugRegistry) Add(slug, id string) {
	r.owners[slug] = id
}

// Owner returns the document that holds slug.
func (r *SlugRegistry) Owner(slug string) (string, bool) {
	id, ok := r.owners[slug]
	return id, ok
}

// Len returns the number of registered slugs.
func (r *SlugRegistry) Len() int { return len(r.owners) }

// Resolve returns a free slug for a new document. With CollisionSkip a
// taken slug yields ok=false. With CollisionSuffix the current epoch
// millis are appended, plus a counter if that is taken too.
func (r *SlugRegistry) Resolve(slug string, policy CollisionPolicy) (string, bool) {
	if _, taken := r.owners[slug]; !taken {
		return slug, true
	}
	if policy != CollisionSuffix {
		return "", false
	}

	base := fmt.Sprintf("%s-%d", slug, r.now().UnixMilli())
	candidate := base
	for n := 2; ; n++ {
		if _, taken := r.owners[candidate]; !taken {
			return candidate, true
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
