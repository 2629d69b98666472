package ctxutil

import (
	"context"
	"testing"
)

func TestWithRunID_And_RunIDFromCtx(t *testing.T) {
	t.Parallel()

	ctx := WithRunID(context.Background(), "abcd1234")

	if got := RunIDFromCtx(ctx); got != "abcd1234" {
		t.Fatalf("expected abcd1234, got %q", got)
	}
}

func TestRunIDFromCtx_EmptyContext(t *testing.T) {
	t.Parallel()

	if got := RunIDFromCtx(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestRunIDFromCtx_WrongType(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), runIDKey, 42)
	if got := RunIDFromCtx(ctx); got != "" {
		t.Fatalf("expected empty string for wrong type, got %q", got)
	}
}

func TestNewRunID(t *testing.T) {
	t.Parallel()

	a, b := NewRunID(), NewRunID()
	if len(a) != 8 {
		t.Fatalf("expected 8 chars, got %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}
