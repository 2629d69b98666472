package wpimport

import (
	"fmt"
	"strings"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/clean"
	"github.com/bihaanbhojpuri/bihaan-sync/internal/app/wpimport/compose"
)

// MatchKey selects how a candidate is matched to an existing document.
type MatchKey string

const (
	MatchSlug        MatchKey = "slug"
	MatchTitle       MatchKey = "title"
	MatchTitleOrSlug MatchKey = "title_or_slug"
)

func (k MatchKey) IsValid() bool {
	switch k {
	case MatchSlug, MatchTitle, MatchTitleOrSlug:
		return true
	}
	return false
}

// ExistingAction decides what happens to a candidate that matched.
type ExistingAction string

const (
	ExistingSkip  ExistingAction = "skip"
	ExistingPatch ExistingAction = "patch"
)

func (a ExistingAction) IsValid() bool {
	return a == ExistingSkip || a == ExistingPatch
}

// Policy is the full set of knobs that distinguish one import job from another.
type Policy struct {
	Name        string
	Match       MatchKey
	OnExisting  ExistingAction
	OnCollision compose.CollisionPolicy
	Alphabet    clean.Alphabet

	CategoryFromTags   bool
	TitleFromParagraph bool
	UsePostName        bool
	// EnsurePlaceholder finds or uploads the shared banner image first.
	EnsurePlaceholder bool
}

// ImportPolicy creates posts that are not in the store yet, keyed by slug.
var ImportPolicy = Policy{
	Name:             "import",
	Match:            MatchSlug,
	OnExisting:       ExistingSkip,
	OnCollision:      compose.CollisionSkip,
	Alphabet:         clean.StandardAlphabet,
	CategoryFromTags: true,
	UsePostName:      true,
}

// AddMissingPolicy fills gaps, treating a title or slug match as present.
var AddMissingPolicy = Policy{
	Name:        "add-missing",
	Match:       MatchTitleOrSlug,
	OnExisting:  ExistingSkip,
	OnCollision: compose.CollisionSkip,
	Alphabet:    clean.DigitAlphabet,
}

// SyncPolicy overwrites posts matched by slug and creates the rest.
var SyncPolicy = Policy{
	Name:               "sync",
	Match:              MatchSlug,
	OnExisting:         ExistingPatch,
	OnCollision:        compose.CollisionSuffix,
	Alphabet:           clean.StandardAlphabet,
	TitleFromParagraph: true,
	EnsurePlaceholder:  true,
}

// PolicyByName resolves a named preset.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ImportPolicy.Name:
		return ImportPolicy, nil
	case AddMissingPolicy.Name:
		return AddMissingPolicy, nil
	case SyncPolicy.Name:
		return SyncPolicy, nil
	}
	return Policy{}, fmt.Errorf("unknown policy %q", name)
}

// Validate checks every enum field of the policy.
func (p Policy) Validate() error {
	if !p.Match.IsValid() {
		return fmt.Errorf("policy %s: invalid match key %q", p.Name, p.Match)
	}
	if !p.OnExisting.IsValid() {
		return fmt.Errorf("policy %s: invalid existing action %q", p.Name, p.OnExisting)
	}
	if !p.OnCollision.IsValid() {
		return fmt.Errorf("policy %s: invalid collision policy %q", p.Name, p.OnCollision)
	}
	return nil
}

// TitleFilter matches titles against a denylist of known-bad titles.
type TitleFilter struct {
	patterns []string
}

// NewTitleFilter drops blank patterns.
func NewTitleFilter(patterns []string) TitleFilter {
	var ps []string
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			ps = append(ps, p)
		}
	}
	return TitleFilter{patterns: ps}
}

// Patterns returns the active denylist entries.
func (f TitleFilter) Patterns() []string { return f.patterns }

// Match returns the first pattern contained in title.
func (f TitleFilter) Match(title string) (string, bool) {
	for _, p := range f.patterns {
		if strings.Contains(title, p) {
			return p, true
		}
	}
	return "", false
}
