package testhelper

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var seq atomic.Int64

// SeededPost is the identity of a row inserted by SeedPost.
type SeededPost struct {
	ID    string
	Title string
	Slug  string
}

// SeedPost inserts a minimal post with a unique title and slug.
// Tests share one database, so the prefix keeps rows of parallel tests apart.
func SeedPost(t *testing.T, pool *pgxpool.Pool, prefix string) SeededPost {
	t.Helper()

	n := seq.Add(1)
	p := SeededPost{
		Title: fmt.Sprintf("%s title %d-%d", prefix, time.Now().UnixNano(), n),
		Slug:  fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), n),
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO posts (title, slug, published_at, body)
		 VALUES ($1, $2, now(), '[]'::jsonb)
		 RETURNING id::text`,
		p.Title, p.Slug,
	).Scan(&p.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}
	return p
}
