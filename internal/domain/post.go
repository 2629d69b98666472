package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxSlugLength mirrors the CMS schema limit on slug.current.
const MaxSlugLength = 96

// Document field names as stored in the CMS.
const (
	FieldTitle       = "title"
	FieldSlug        = "slug"
	FieldCategory    = "category"
	FieldBannerImage = "bannerImage"
	FieldPublishedAt = "publishedAt"
	FieldBody        = "body"
	FieldFeatured    = "featured"
	FieldPinned      = "pinned"
	FieldLikes       = "likes"
)

// Span is a run of plain text inside a Block.
type Span struct {
	Key   string
	Text  string
	Marks []string
}

// Block is one paragraph of portable rich text. The pipeline always emits
// exactly one unmarked span per block with style "normal".
type Block struct {
	Key      string
	Style    string
	Children []Span
}

// Text returns the concatenated text of all spans.
func (b Block) Text() string {
	if len(b.Children) == 1 {
		return b.Children[0].Text
	}
	parts := make([]string, 0, len(b.Children))
	for _, s := range b.Children {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "")
}

// BodyText joins the text of every block with a single space.
func BodyText(body []Block) string {
	parts := make([]string, 0, len(body))
	for _, b := range body {
		if t := b.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// ImageRef points at an uploaded image asset.
type ImageRef struct {
	AssetRef string
}

// Post is a CMS post document.
type Post struct {
	ID          string
	Title       string
	Slug        string
	Category    Category // empty once the legacy field has been unset
	BannerImage *ImageRef
	PublishedAt time.Time
	Body        []Block
	Featured    bool
	Pinned      bool
	Likes       int
}

// Validate checks the invariants every stored post must satisfy.
func (p *Post) Validate() error {
	var errs []FieldError

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, FieldError{Field: FieldTitle, Message: "required"})
	}
	switch {
	case p.Slug == "":
		errs = append(errs, FieldError{Field: FieldSlug, Message: "required"})
	case utf8.RuneCountInString(p.Slug) > MaxSlugLength:
		errs = append(errs, FieldError{Field: FieldSlug, Message: "too long"})
	}
	if p.Category != "" && !p.Category.IsValid() {
		errs = append(errs, FieldError{Field: FieldCategory, Message: "unknown category " + string(p.Category)})
	}
	if p.Likes < 0 {
		errs = append(errs, FieldError{Field: FieldLikes, Message: "must be >= 0"})
	}
	for _, b := range p.Body {
		if len(b.Children) == 0 {
			errs = append(errs, FieldError{Field: FieldBody, Message: "block without spans"})
			break
		}
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// PostFields is a sparse set of field values. Nil pointers are left untouched.
type PostFields struct {
	Title       *string
	Slug        *string
	Category    *Category
	BannerImage *ImageRef
	PublishedAt *time.Time
	Body        []Block
	Featured    *bool
	Pinned      *bool
	Likes       *int
}

// IsEmpty reports whether no field is set.
func (f PostFields) IsEmpty() bool {
	return f.Title == nil && f.Slug == nil && f.Category == nil && f.BannerImage == nil &&
		f.PublishedAt == nil && f.Body == nil && f.Featured == nil && f.Pinned == nil && f.Likes == nil
}

// PostPatch sets and unsets fields on an existing document.
type PostPatch struct {
	ID    string
	Set   PostFields
	Unset []string
}

// UnsettableFields lists document fields that may be removed by a patch.
var UnsettableFields = map[string]bool{
	FieldCategory:    true,
	FieldBannerImage: true,
}

// Validate checks the patch targets a document and only unsets optional fields.
func (p PostPatch) Validate() error {
	if p.ID == "" {
		return NewValidationError("id", "required")
	}
	if p.Set.IsEmpty() && len(p.Unset) == 0 {
		return NewValidationError("patch", "nothing to change")
	}
	if p.Set.Category != nil && !p.Set.Category.IsValid() {
		return NewValidationError(FieldCategory, "unknown category "+string(*p.Set.Category))
	}
	for _, f := range p.Unset {
		if !UnsettableFields[f] {
			return NewValidationError(f, "field cannot be unset")
		}
	}
	return nil
}

// PostFilter narrows post listings. Zero values mean "any".
type PostFilter struct {
	Category      *Category
	Featured      *bool
	Pinned        *bool
	TitleContains string
	Limit         int
	Offset        int
}

// PostRef is the identity part of a post, used for duplicate detection.
type PostRef struct {
	ID    string
	Title string
	Slug  string
}
