package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreStoreAndQuery(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	err := s.StoreYear(ctx, 2026, []Aspect{
		{Body1: "Venus", Body2: "Mars", AspectType: "trine", IsMajor: true, ExactTimestamp: ts},
	})
	if err != nil {
		t.Fatalf("StoreYear error: %v", err)
	}

	rows, err := s.Query(ctx, Query{
		Start: ts.Add(-time.Hour),
		End:   ts.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Body1 != "Mars" || rows[0].Body2 != "Venus" {
		t.Errorf("expected canonicalized body order Mars<=Venus, got %s,%s", rows[0].Body1, rows[0].Body2)
	}
}

func TestMemoryStoreQueryEmptyRangeIsNotError(t *testing.T) {
	s := NewMemoryStore()
	rows, err := s.Query(context.Background(), Query{
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error for an empty range, got %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestMemoryStoreQueryFiltersByBodyAndKind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	ts := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	err := s.StoreYear(ctx, 2026, []Aspect{
		{Body1: "Venus", Body2: "Mars", AspectType: "trine", ExactTimestamp: ts},
		{Body1: "Sun", Body2: "Moon", AspectType: "square", ExactTimestamp: ts},
	})
	if err != nil {
		t.Fatalf("StoreYear error: %v", err)
	}

	rows, err := s.Query(ctx, Query{
		Start: ts.Add(-time.Hour),
		End:   ts.Add(time.Hour),
		Kind:  "square",
	})
	if err != nil {
		t.Fatalf("Query error: %v", err)
	}
	if len(rows) != 1 || rows[0].AspectType != "square" {
		t.Errorf("expected 1 square-kind row, got %+v", rows)
	}
}
