package sanity

import (
	"context"
	"fmt"
	"strings"

	"github.com/bihaanbhojpuri/bihaan-sync/internal/domain"
)

const postsOrder = " | order(publishedAt desc)"

// postConditions renders filter as GROQ constraints plus parameters.
// TitleContains uses the token-based match operator; callers narrow the
// result to a literal substring.
func postConditions(f domain.PostFilter) (string, map[string]any) {
	conds := []string{`_type == "post"`}
	params := map[string]any{}

	if f.Category != nil {
		conds = append(conds, "category == $category")
		params["category"] = string(*f.Category)
	}
	if f.Featured != nil {
		conds = append(conds, "featured == $featured")
		params["featured"] = *f.Featured
	}
	if f.Pinned != nil {
		conds = append(conds, "pinned == $pinned")
		params["pinned"] = *f.Pinned
	}
	if f.TitleContains != "" {
		conds = append(conds, "title match $title")
		params["title"] = "*" + f.TitleContains + "*"
	}
	return "*[" + strings.Join(conds, " && ") + "]", params
}

// ListPostRefs returns id, title and slug of every post.
func (c *Client) ListPostRefs(ctx context.Context) ([]domain.PostRef, error) {
	var resp queryResponse[[]postRef]
	q := `*[_type == "post"]{_id, title, "slug": slug.current}`
	if err := c.query(ctx, q, nil, &resp); err != nil {
		return nil, err
	}

	refs := make([]domain.PostRef, 0, len(resp.Result))
	for _, r := range resp.Result {
		refs = append(refs, domain.PostRef{ID: r.ID, Title: r.Title, Slug: r.Slug})
	}
	return refs, nil
}

// ListPosts returns posts matching filter, newest first.
func (c *Client) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	q, params := postConditions(filter)
	q += postsOrder

	// A GROQ slice needs both bounds, and the substring check below runs
	// after the query, so paging is applied here when either is in play.
	pageLocally := filter.TitleContains != "" || (filter.Offset > 0 && filter.Limit <= 0)
	if !pageLocally && filter.Limit > 0 {
		q += fmt.Sprintf("[%d...%d]", filter.Offset, filter.Offset+filter.Limit)
	}

	var resp queryResponse[[]document]
	if err := c.query(ctx, q, params, &resp); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(resp.Result))
	for _, d := range resp.Result {
		if filter.TitleContains != "" && !strings.Contains(d.Title, filter.TitleContains) {
			continue
		}
		p, err := d.toPost()
		if err != nil {
			return nil, fmt.Errorf("sanity: %w", err)
		}
		posts = append(posts, p)
	}

	if pageLocally {
		posts = page(posts, filter.Offset, filter.Limit)
	}
	return posts, nil
}

func page(posts []domain.Post, offset, limit int) []domain.Post {
	if offset >= len(posts) {
		return []domain.Post{}
	}
	posts = posts[offset:]
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

// CountPosts counts posts matching filter. Limit and Offset are ignored.
func (c *Client) CountPosts(ctx context.Context, filter domain.PostFilter) (int, error) {
	if filter.TitleContains != "" {
		filter.Limit, filter.Offset = 0, 0
		posts, err := c.ListPosts(ctx, filter)
		if err != nil {
			return 0, err
		}
		return len(posts), nil
	}

	q, params := postConditions(filter)
	var resp queryResponse[int]
	if err := c.query(ctx, "count("+q+")", params, &resp); err != nil {
		return 0, err
	}
	return resp.Result, nil
}

// GetPost returns one post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var resp queryResponse[*document]
	q := `*[_type == "post" && _id == $id][0]`
	if err := c.query(ctx, q, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("sanity: post %s: %w", id, domain.ErrNotFound)
	}

	p, err := resp.Result.toPost()
	if err != nil {
		return nil, fmt.Errorf("sanity: %w", err)
	}
	return &p, nil
}

// CreatePost creates a post and returns the generated id.
func (c *Client) CreatePost(ctx context.Context, post domain.Post) (string, error) {
	doc := toDocument(post)
	resp, err := c.mutate(ctx, mutation{Create: &doc})
	if err != nil {
		return "", err
	}
	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return "", fmt.Errorf("sanity: create: no document id in response")
	}
	return resp.Results[0].ID, nil
}

// PatchPost applies set and unset to an existing post.
func (c *Client) PatchPost(ctx context.Context, patch domain.PostPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	_, err := c.mutate(ctx, patchMutation(patch))
	return err
}

// Transaction applies every patch in a single mutate request.
func (c *Client) Transaction(ctx context.Context, patches ...domain.PostPatch) error {
	if len(patches) == 0 {
		return domain.NewValidationError("patches", "empty transaction")
	}
	muts := make([]mutation, 0, len(patches))
	for _, p := range patches {
		if err := p.Validate(); err != nil {
			return err
		}
		muts = append(muts, patchMutation(p))
	}
	_, err := c.mutate(ctx, muts...)
	return err
}

// DeletePost deletes a post by id.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	resp, err := c.mutate(ctx, mutation{Delete: &deleteOp{ID: id}})
	if err != nil {
		return err
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("sanity: delete %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
