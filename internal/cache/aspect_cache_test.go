package cache

import (
	"context"
	"testing"
	"time"

	"github.com/TheDaniel418/isopgem-cores/internal/store"
)

func TestCacheFallsBackWithoutRedis(t *testing.T) {
	backing := store.NewMemoryStore()
	ctx := context.Background()
	ts := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	if err := backing.StoreYear(ctx, 2026, []store.Aspect{
		{Body1: "Mars", Body2: "Venus", AspectType: "trine", ExactTimestamp: ts},
	}); err != nil {
		t.Fatalf("StoreYear error: %v", err)
	}

	c := New(backing, "", "", 0)
	rows, err := c.Query(ctx, store.Query{Start: ts.Add(-time.Hour), End: ts.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row via store fallback, got %d", len(rows))
	}
}

func TestCacheKeyIsStableAndDistinct(t *testing.T) {
	q1 := store.Query{Start: time.Unix(0, 0), End: time.Unix(1000, 0), Body1: "Mars"}
	q2 := store.Query{Start: time.Unix(0, 0), End: time.Unix(1000, 0), Body1: "Venus"}

	if cacheKey(q1) != cacheKey(q1) {
		t.Error("cacheKey should be deterministic for the same query")
	}
	if cacheKey(q1) == cacheKey(q2) {
		t.Error("cacheKey should differ for distinct queries")
	}
}
