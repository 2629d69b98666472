package domain

// Category is the editorial bucket a post is filed under.
type Category string

const (
	CategoryPoems   Category = "poems"
	CategoryStories Category = "stories"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryPoems, CategoryStories:
		return true
	}
	return false
}

// Outcome is the per-item result of a pipeline run.
type Outcome string

const (
	OutcomeCreated    Outcome = "CREATED"
	OutcomeUpdated    Outcome = "UPDATED"
	OutcomeSkipped    Outcome = "SKIPPED"
	OutcomeExcluded   Outcome = "EXCLUDED"
	OutcomeIneligible Outcome = "INELIGIBLE"
	OutcomeDeleted    Outcome = "DELETED"
	OutcomeFailed     Outcome = "FAILED"
)

func (o Outcome) String() string { return string(o) }

func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCreated, OutcomeUpdated, OutcomeSkipped, OutcomeExcluded,
		OutcomeIneligible, OutcomeDeleted, OutcomeFailed:
		return true
	}
	return false
}
