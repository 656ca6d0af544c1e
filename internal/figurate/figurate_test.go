package figurate

import (
	"testing"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

func TestRegularCount(t *testing.T) {
	if got := RegularCount(3, 4); got != 10 {
		t.Errorf("RegularCount(3,4) = %d, want 10", got)
	}
}

func TestCenteredCount(t *testing.T) {
	if got := CenteredCount(6, 3); got != 19 {
		t.Errorf("CenteredCount(6,3) = %d, want 19", got)
	}
}

func TestTriangularIndex4(t *testing.T) {
	dots, err := Generate(3, 4, false, false)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(dots) != 10 {
		t.Fatalf("expected 10 dots, got %d", len(dots))
	}
	wantLayers := []float64{0, 1, 1, 2, 2, 2, 3, 3, 3, 3}
	for i, want := range wantLayers {
		if dots[i].Layer != want {
			t.Errorf("dot %d layer = %v, want %v", i, dots[i].Layer, want)
		}
	}
}

func TestCenteredHexagonalIndex3(t *testing.T) {
	dots, err := Generate(6, 3, true, false)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(dots) != 19 {
		t.Fatalf("expected 19 dots, got %d", len(dots))
	}
	counts := map[float64]int{}
	for _, d := range dots {
		counts[d.Layer]++
	}
	if counts[0] != 1 || counts[1] != 6 || counts[2] != 12 {
		t.Errorf("layer counts = %v, want {0:1, 1:6, 2:12}", counts)
	}
}

func TestIndex1IsOriginDot(t *testing.T) {
	dots, err := Generate(5, 1, false, false)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(dots) != 1 || dots[0].X != 0 || dots[0].Y != 0 || dots[0].Layer != 0 {
		t.Errorf("index 1 should yield a single origin dot, got %+v", dots)
	}
}

func TestStarRejectsFewSides(t *testing.T) {
	_, err := Generate(4, 3, false, true)
	if !apperrors.Is(err, apperrors.InvalidParameters) {
		t.Errorf("expected InvalidParameters, got %v", err)
	}
}

func TestGenerateRejectsInvalidDomains(t *testing.T) {
	if _, err := Generate(2, 3, false, false); !apperrors.Is(err, apperrors.InvalidParameters) {
		t.Errorf("expected InvalidParameters for sides<3, got %v", err)
	}
	if _, err := Generate(5, 0, false, false); !apperrors.Is(err, apperrors.InvalidParameters) {
		t.Errorf("expected InvalidParameters for index<1, got %v", err)
	}
}

func TestGeneralPolygonalSkippedVertices(t *testing.T) {
	dots, err := Generate(6, 3, false, false)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	found := false
	for _, d := range dots {
		if d.Layer == -1 && d.Index == -1 {
			found = true
		}
	}
	if !found {
		t.Error("expected at least one skipped-vertex placeholder for a hexagonal figure at index 3")
	}
}

func TestStarDeterminism(t *testing.T) {
	a, err := Generate(5, 4, false, true)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	b, err := Generate(5, 4, false, true)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic dot count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic dot at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestStarGeneratesInnerVertices(t *testing.T) {
	dots, err := Generate(5, 1, false, true)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	hasInner := false
	for _, d := range dots {
		if d.Layer == 0.5 {
			hasInner = true
		}
	}
	if !hasInner {
		t.Error("expected at least one inner intersection vertex for a pentagram at layer 1")
	}
}

func TestLineIntersectionParallel(t *testing.T) {
	_, _, ok := lineIntersection([2]float64{0, 0}, [2]float64{1, 0}, [2]float64{0, 1}, [2]float64{1, 1})
	if ok {
		t.Error("expected parallel lines to report no intersection")
	}
}

func TestLineIntersectionCrossing(t *testing.T) {
	x, y, ok := lineIntersection([2]float64{-1, 0}, [2]float64{1, 0}, [2]float64{0, -1}, [2]float64{0, 1})
	if !ok || x != 0 || y != 0 {
		t.Errorf("expected intersection at origin, got (%v,%v,%v)", x, y, ok)
	}
}
