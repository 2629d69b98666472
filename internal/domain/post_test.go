package domain

import (
	"errors"
	"strings"
	"testing"
)

func validPost() Post {
	return Post{
		Title:    "नमस्ते",
		Slug:     "namaste",
		Category: CategoryPoems,
		Body: []Block{
			{Key: "b1", Style: "normal", Children: []Span{{Key: "s1", Text: "नमस्ते दुनिया"}}},
		},
	}
}

func TestPost_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(p *Post)
		wantField string
	}{
		{name: "valid", mutate: func(p *Post) {}},
		{name: "empty category allowed", mutate: func(p *Post) { p.Category = "" }},
		{name: "blank title", mutate: func(p *Post) { p.Title = "  " }, wantField: FieldTitle},
		{name: "missing slug", mutate: func(p *Post) { p.Slug = "" }, wantField: FieldSlug},
		{name: "slug too long", mutate: func(p *Post) { p.Slug = strings.Repeat("a", MaxSlugLength+1) }, wantField: FieldSlug},
		{name: "unknown category", mutate: func(p *Post) { p.Category = "essays" }, wantField: FieldCategory},
		{name: "negative likes", mutate: func(p *Post) { p.Likes = -1 }, wantField: FieldLikes},
		{name: "block without spans", mutate: func(p *Post) { p.Body = []Block{{Key: "x"}} }, wantField: FieldBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validPost()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if ve.Errors[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Errors[0].Field, tt.wantField)
			}
		})
	}
}

func TestPostPatch_Validate(t *testing.T) {
	t.Parallel()

	f := false
	bad := Category("essays")

	tests := []struct {
		name    string
		patch   PostPatch
		wantErr bool
	}{
		{name: "set only", patch: PostPatch{ID: "p1", Set: PostFields{Featured: &f}}},
		{name: "unset category", patch: PostPatch{ID: "p1", Unset: []string{FieldCategory}}},
		{name: "missing id", patch: PostPatch{Set: PostFields{Featured: &f}}, wantErr: true},
		{name: "empty patch", patch: PostPatch{ID: "p1"}, wantErr: true},
		{name: "unset required field", patch: PostPatch{ID: "p1", Unset: []string{FieldTitle}}, wantErr: true},
		{name: "bad category", patch: PostPatch{ID: "p1", Set: PostFields{Category: &bad}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.patch.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error should wrap ErrValidation: %v", err)
			}
		})
	}
}

func TestBodyText(t *testing.T) {
	t.Parallel()

	body := []Block{
		{Children: []Span{{Text: "पहिला"}}},
		{Children: []Span{{Text: ""}}},
		{Children: []Span{{Text: "दूसरा "}, {Text: "भाग"}}},
	}

	if got, want := BodyText(body), "पहिला दूसरा भाग"; got != want {
		t.Errorf("BodyText() = %q, want %q", got, want)
	}
	if got := BodyText(nil); got != "" {
		t.Errorf("BodyText(nil) = %q, want empty", got)
	}
}

func TestExportItem_Tags(t *testing.T) {
	t.Parallel()

	it := ExportItem{Categories: []ExportCategory{
		{Domain: "category", Nicename: "kavita", Name: "कविता"},
		{Domain: "post_tag", Name: " Story "},
	}}

	got := it.Tags()
	want := []string{"कविता", "kavita", "story"}
	if len(got) != len(want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tags()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOutcome_IsValid_AllOutcomes(t *testing.T) {
	t.Parallel()

	for _, o := range []Outcome{OutcomeCreated, OutcomeUpdated, OutcomeSkipped, OutcomeExcluded, OutcomeIneligible, OutcomeDeleted, OutcomeFailed} {
		if !o.IsValid() {
			t.Errorf("%s should be valid", o)
		}
	}
	if Outcome("DONE").IsValid() {
		t.Error("DONE should not be valid")
	}
	if !CategoryStories.IsValid() || Category("").IsValid() {
		t.Error("category validity mismatch")
	}
}
