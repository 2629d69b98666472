package sanity

import (
	"fmt"
	"time"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

const (
	postType      = "post"
	slugType      = "slug"
	imageType     = "image"
	referenceType = "reference"
	blockType     = "block"
	spanType      = "span"
)

// document is a post as stored in the dataset.
type document struct {
	ID          string       `json:"_id,omitempty"`
	Type        string       `json:"_type"`
	Title       string       `json:"title"`
	Slug        *slugValue   `json:"slug,omitempty"`
	Category    string       `json:"category,omitempty"`
	BannerImage *imageValue  `json:"bannerImage,omitempty"`
	PublishedAt string       `json:"publishedAt,omitempty"`
	Body        []blockValue `json:"body,omitempty"`
	Featured    *bool        `json:"featured,omitempty"`
	Pinned      *bool        `json:"pinned,omitempty"`
	Likes       *int         `json:"likes,omitempty"`
}

type slugValue struct {
	Type    string `json:"_type"`
	Current string `json:"current"`
}

type imageValue struct {
	Type  string         `json:"_type"`
	Asset referenceValue `json:"asset"`
}

type referenceValue struct {
	Ref  string `json:"_ref"`
	Type string `json:"_type"`
}

type blockValue struct {
	Key      string      `json:"_key"`
	Type     string      `json:"_type"`
	Style    string      `json:"style"`
	Children []spanValue `json:"children"`
	MarkDefs []any       `json:"markDefs"`
}

type spanValue struct {
	Key   string   `json:"_key"`
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// postRef is the projection used for duplicate detection.
type postRef struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func toSlug(s string) *slugValue {
	return &slugValue{Type: slugType, Current: s}
}

func toImage(ref *domain.ImageRef) *imageValue {
	if ref == nil || ref.AssetRef == "" {
		return nil
	}
	return &imageValue{
		Type:  imageType,
		Asset: referenceValue{Ref: ref.AssetRef, Type: referenceType},
	}
}

func toBlocks(body []domain.Block) []blockValue {
	out := make([]blockValue, 0, len(body))
	for _, b := range body {
		children := make([]spanValue, 0, len(b.Children))
		for _, s := range b.Children {
			marks := s.Marks
			if marks == nil {
				marks = []string{}
			}
			children = append(children, spanValue{Key: s.Key, Type: spanType, Text: s.Text, Marks: marks})
		}
		out = append(out, blockValue{
			Key:      b.Key,
			Type:     blockType,
			Style:    b.Style,
			Children: children,
			MarkDefs: []any{},
		})
	}
	return out
}

func fromBlocks(body []blockValue) []domain.Block {
	if len(body) == 0 {
		return nil
	}
	out := make([]domain.Block, 0, len(body))
	for _, b := range body {
		spans := make([]domain.Span, 0, len(b.Children))
		for _, s := range b.Children {
			spans = append(spans, domain.Span{Key: s.Key, Text: s.Text, Marks: s.Marks})
		}
		out = append(out, domain.Block{Key: b.Key, Style: b.Style, Children: spans})
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// toDocument maps a new post. Schema fields are always written.
func toDocument(p domain.Post) document {
	featured, pinned, likes := p.Featured, p.Pinned, p.Likes
	doc := document{
		Type:        postType,
		Title:       p.Title,
		Slug:        toSlug(p.Slug),
		Category:    string(p.Category),
		BannerImage: toImage(p.BannerImage),
		Body:        toBlocks(p.Body),
		Featured:    &featured,
		Pinned:      &pinned,
		Likes:       &likes,
	}
	if !p.PublishedAt.IsZero() {
		doc.PublishedAt = formatTime(p.PublishedAt)
	}
	return doc
}

func (d document) toPost() (domain.Post, error) {
	p := domain.Post{
		ID:       d.ID,
		Title:    d.Title,
		Category: domain.Category(d.Category),
		Body:     fromBlocks(d.Body),
	}
	if d.Slug != nil {
		p.Slug = d.Slug.Current
	}
	if d.BannerImage != nil && d.BannerImage.Asset.Ref != "" {
		p.BannerImage = &domain.ImageRef{AssetRef: d.BannerImage.Asset.Ref}
	}
	if d.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, d.PublishedAt)
		if err != nil {
			return domain.Post{}, fmt.Errorf("document %s: publishedAt: %w", d.ID, err)
		}
		p.PublishedAt = t
	}
	if d.Featured != nil {
		p.Featured = *d.Featured
	}
	if d.Pinned != nil {
		p.Pinned = *d.Pinned
	}
	if d.Likes != nil {
		p.Likes = *d.Likes
	}
	return p, nil
}

// setFields maps the set half of a patch to document attributes.
func setFields(f domain.PostFields) map[string]any {
	set := make(map[string]any)
	if f.Title != nil {
		set[domain.FieldTitle] = *f.Title
	}
	if f.Slug != nil {
		set[domain.FieldSlug] = toSlug(*f.Slug)
	}
	if f.Category != nil {
		set[domain.FieldCategory] = string(*f.Category)
	}
	if img := toImage(f.BannerImage); img != nil {
		set[domain.FieldBannerImage] = img
	}
	if f.PublishedAt != nil {
		set[domain.FieldPublishedAt] = formatTime(*f.PublishedAt)
	}
	if f.Body != nil {
		set[domain.FieldBody] = toBlocks(f.Body)
	}
	if f.Featured != nil {
		set[domain.FieldFeatured] = *f.Featured
	}
	if f.Pinned != nil {
		set[domain.FieldPinned] = *f.Pinned
	}
	if f.Likes != nil {
		set[domain.FieldLikes] = *f.Likes
	}
	return set
}

// mutation is one entry of a mutate request.
type mutation struct {
	Create *document `json:"create,omitempty"`
	Patch  *patchOp  `json:"patch,omitempty"`
	Delete *deleteOp `json:"delete,omitempty"`
}

type patchOp struct {
	ID    string         `json:"id"`
	Set   map[string]any `json:"set,omitempty"`
	Unset []string       `json:"unset,omitempty"`
}

type deleteOp struct {
	ID string `json:"id"`
}

func patchMutation(p domain.PostPatch) mutation {
	op := &patchOp{ID: p.ID, Unset: p.Unset}
	if set := setFields(p.Set); len(set) > 0 {
		op.Set = set
	}
	return mutation{Patch: op}
}

type mutateRequest struct {
	Mutations []mutation `json:"mutations"`
}

type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Results       []struct {
		ID        string `json:"id"`
		Operation string `json:"operation"`
	} `json:"results"`
}

type queryResponse[T any] struct {
	Result T `json:"result"`
}

type assetResponse struct {
	Document struct {
		ID string `json:"_id"`
	} `json:"document"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Items       []struct {
			Error struct {
				Description string `json:"description"`
				Type        string `json:"type"`
			} `json:"error"`
		} `json:"items"`
	} `json:"error"`
	Message string `json:"message"`
}
