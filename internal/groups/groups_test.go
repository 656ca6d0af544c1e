package groups

import (
	"testing"
	"time"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/figurate"
)

func testDots(n int) []figurate.Dot {
	dots := make([]figurate.Dot, n)
	for i := 0; i < n; i++ {
		dots[i] = figurate.Dot{X: float64(i), Y: 0, Layer: float64(i % 3), Index: i + 1}
	}
	return dots
}

func TestSetOperationAlgebra(t *testing.T) {
	s := NewSession(testDots(4))
	s.SetActive("A")
	s.Select([]int{1, 2, 3}, true)
	s.SetActive("B")
	s.Select([]int{2, 3, 4}, true)

	if err := s.ApplySetOp(Union, []string{"A", "B"}, "union"); err != nil {
		t.Fatalf("union error: %v", err)
	}
	assertSet(t, s.Groups()["union"], []int{1, 2, 3, 4})

	if err := s.ApplySetOp(Intersection, []string{"A", "B"}, "inter"); err != nil {
		t.Fatalf("intersection error: %v", err)
	}
	assertSet(t, s.Groups()["inter"], []int{2, 3})

	if err := s.ApplySetOp(Difference, []string{"A", "B"}, "diff"); err != nil {
		t.Fatalf("difference error: %v", err)
	}
	assertSet(t, s.Groups()["diff"], []int{1})

	if err := s.ApplySetOp(SymmetricDifference, []string{"A", "B"}, "symdiff"); err != nil {
		t.Fatalf("symdiff error: %v", err)
	}
	assertSet(t, s.Groups()["symdiff"], []int{1, 4})
}

func assertSet(t *testing.T, got []int, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	seen := map[int]bool{}
	for _, v := range got {
		seen[v] = true
	}
	for _, v := range want {
		if !seen[v] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestApplySetOpRequiresTwoSources(t *testing.T) {
	s := NewSession(testDots(4))
	if err := s.ApplySetOp(Union, []string{"Default"}, "out"); !apperrors.Is(err, apperrors.InvalidParameters) {
		t.Errorf("expected InvalidParameters, got %v", err)
	}
}

func TestSelectSkipsInvalidIndices(t *testing.T) {
	s := NewSession(testDots(4))
	s.Select([]int{1, 2, 99}, true)
	assertSet(t, s.Groups()[DefaultGroupName], []int{1, 2})
}

func TestClearRetainsGroupName(t *testing.T) {
	s := NewSession(testDots(4))
	s.Select([]int{1, 2}, true)
	s.Connect()
	s.Clear()
	if _, ok := s.Groups()[DefaultGroupName]; !ok {
		t.Fatal("Default group should still exist after Clear")
	}
	if len(s.Groups()[DefaultGroupName]) != 0 {
		t.Error("active group should be empty after Clear")
	}
	if len(s.Connections()) != 0 {
		t.Error("connections should be empty after Clear")
	}
}

func TestConnectDropsDuplicates(t *testing.T) {
	s := NewSession(testDots(4))
	s.Select([]int{1, 2, 3}, true)
	s.Connect()
	s.Connect()
	if len(s.Connections()) != 2 {
		t.Errorf("expected 2 connections after duplicate Connect calls, got %d", len(s.Connections()))
	}
}

func TestClosePolygonRequiresThree(t *testing.T) {
	s := NewSession(testDots(4))
	s.Select([]int{1, 2}, true)
	s.ClosePolygon()
	if len(s.Connections()) != 0 {
		t.Error("ClosePolygon should no-op with fewer than 3 selected dots")
	}

	s.Select([]int{1, 2, 3}, true)
	s.ClosePolygon()
	if len(s.Connections()) != 1 {
		t.Fatalf("expected 1 connection after ClosePolygon, got %d", len(s.Connections()))
	}
	c := s.Connections()[0]
	if !(c.Dot1 == 3 && c.Dot2 == 1) {
		t.Errorf("expected closing edge (3,1), got (%d,%d)", c.Dot1, c.Dot2)
	}
}

func TestSelectByLayerCenteredOffset(t *testing.T) {
	s := NewSession(testDots(6))
	s.SelectByLayer(1, true) // UI layer 1 -> calculator layer 0
	assertSet(t, s.Groups()[DefaultGroupName], []int{1, 4})
}

func TestPatternSelectorBasics(t *testing.T) {
	p := NewPatternSelector(20)
	assertSet(t, p.Primes(), []int{2, 3, 5, 7, 11, 13, 17, 19})
	assertSet(t, p.Triangular(), []int{1, 3, 6, 10, 15})
	assertSet(t, p.Square(), []int{1, 4, 9, 16})
	assertSet(t, p.PerfectCube(), []int{1, 8})
}

func TestVisualizationRoundTrip(t *testing.T) {
	dots := testDots(4)
	s := NewSession(dots)
	s.Select([]int{1, 2, 3}, true)
	s.Connect()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	vis := s.Freeze("v1", "test", "", "regular", 3, 4, now, now)

	restored, err := Restore(vis, dots)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	assertSet(t, restored.Groups()[DefaultGroupName], []int{1, 2, 3})
	if len(restored.Connections()) != 2 {
		t.Errorf("expected 2 restored connections, got %d", len(restored.Connections()))
	}
}

func TestRestoreRejectsOutOfRangeIndex(t *testing.T) {
	dots := testDots(4)
	s := NewSession(dots)
	s.Select([]int{1, 2, 3}, true)
	vis := s.Freeze("v1", "test", "", "regular", 3, 4, time.Time{}, time.Time{})

	shrunk := dots[:2]
	_, err := Restore(vis, shrunk)
	if !apperrors.Is(err, apperrors.GroupIndexOutOfRange) {
		t.Errorf("expected GroupIndexOutOfRange, got %v", err)
	}
}
