package kamea

import (
	"testing"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

func TestDecomposeBigrams(t *testing.T) {
	b, err := DecomposeBigrams("210102")
	if err != nil {
		t.Fatalf("DecomposeBigrams error: %v", err)
	}
	if b.Bigram1 != 8 {
		t.Errorf("Bigram1 = %d, want 8", b.Bigram1)
	}
	if b.Bigram2 != 3 {
		t.Errorf("Bigram2 = %d, want 3", b.Bigram2)
	}
	if b.Bigram3 != 1 {
		t.Errorf("Bigram3 = %d, want 1", b.Bigram3)
	}
	if b.Locator != "1-3-8" {
		t.Errorf("Locator = %q, want %q", b.Locator, "1-3-8")
	}
}

func TestLocatorRoundTrip(t *testing.T) {
	for _, ditrune := range []string{"210102", "000000", "222222", "120021"} {
		locator, err := DitruneToLocator(ditrune)
		if err != nil {
			t.Fatalf("DitruneToLocator(%s) error: %v", ditrune, err)
		}
		got, err := LocatorToDitrune(locator)
		if err != nil {
			t.Fatalf("LocatorToDitrune(%s) error: %v", locator, err)
		}
		if got != ditrune {
			t.Errorf("round trip %s -> %s -> %s, want %s", ditrune, locator, got, ditrune)
		}
	}
}

func TestDecomposeBigramsRejectsWrongLength(t *testing.T) {
	if _, err := DecomposeBigrams("2101"); !apperrors.Is(err, apperrors.InvalidDigit) {
		t.Errorf("expected InvalidDigit, got %v", err)
	}
}

func TestLoadAndOrigin(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cell, err := g.At(0, 0)
	if err != nil {
		t.Fatalf("At(0,0) error: %v", err)
	}
	if cell.Decimal != 0 || cell.Ditrune != "000000" {
		t.Errorf("origin cell = %+v, want decimal 0 ditrune 000000", cell)
	}
}

func TestLoadOutOfBounds(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, err := g.At(14, 0); !apperrors.Is(err, apperrors.OutOfBounds) {
		t.Errorf("expected OutOfBounds, got %v", err)
	}
	if _, err := g.At(0, -14); !apperrors.Is(err, apperrors.OutOfBounds) {
		t.Errorf("expected OutOfBounds, got %v", err)
	}
}

func TestQuadsetAndOctaset(t *testing.T) {
	q := Quadset(2, 3)
	want := map[[2]int]bool{
		{2, 3}: true, {-2, 3}: true, {-2, -3}: true, {2, -3}: true,
	}
	if len(q) != 4 {
		t.Fatalf("expected 4 quadset cells, got %d", len(q))
	}
	for _, p := range q {
		if !want[[2]int{p.X, p.Y}] {
			t.Errorf("unexpected quadset cell %+v", p)
		}
	}

	qOrigin := Quadset(0, 0)
	if len(qOrigin) != 1 || qOrigin[0] != (struct{ X, Y int }{0, 0}) {
		t.Errorf("Quadset(0,0) = %+v, want singleton {(0,0)}", qOrigin)
	}

	qAxis := Quadset(0, 5)
	wantAxis := map[[2]int]bool{{0, 5}: true, {0, -5}: true}
	if len(qAxis) != 2 {
		t.Fatalf("expected 2 quadset cells for axis point, got %d: %+v", len(qAxis), qAxis)
	}
	for _, p := range qAxis {
		if !wantAxis[[2]int{p.X, p.Y}] {
			t.Errorf("unexpected quadset cell %+v", p)
		}
	}

	o := Octaset(2, 3)
	if len(o) != 8 {
		t.Fatalf("expected 8 octaset cells, got %d: %+v", len(o), o)
	}
	wantOcta := map[[2]int]bool{
		{2, 3}: true, {-2, 3}: true, {-2, -3}: true, {2, -3}: true,
		{3, 2}: true, {-3, 2}: true, {-3, -2}: true, {3, -2}: true,
	}
	for _, p := range o {
		if !wantOcta[[2]int{p.X, p.Y}] {
			t.Errorf("unexpected octaset cell %+v", p)
		}
	}
}

func TestQuadSumMatchesManualSum(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	sum, err := g.QuadSum(2, 3)
	if err != nil {
		t.Fatalf("QuadSum error: %v", err)
	}
	manual := 0
	for _, p := range Quadset(2, 3) {
		cell, _ := g.At(p.X, p.Y)
		manual += cell.Decimal
	}
	if sum != manual {
		t.Errorf("QuadSum = %d, want %d", sum, manual)
	}
}

func TestFindByDecimalRoundTrip(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cell, err := g.At(5, -7)
	if err != nil {
		t.Fatalf("At error: %v", err)
	}
	hits := g.FindByDecimal(cell.Decimal)
	found := false
	for _, c := range hits {
		if c.X == 5 && c.Y == -7 {
			found = true
		}
	}
	if !found {
		t.Errorf("FindByDecimal(%d) did not return origin cell (5,-7): %+v", cell.Decimal, hits)
	}
}

func TestFindByTernarySubstring(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	hits := g.FindByTernarySubstring("000000")
	if len(hits) != 1 || hits[0] != (Coord{X: 0, Y: 0}) {
		t.Errorf("FindByTernarySubstring(000000) = %+v, want exactly [(0,0)]", hits)
	}
}

func TestDecimalBijection(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	seen := make(map[int]bool)
	for x := -Origin; x <= Origin; x++ {
		for y := -Origin; y <= Origin; y++ {
			cell, _ := g.At(x, y)
			if seen[cell.Decimal] {
				t.Fatalf("decimal %d appears more than once", cell.Decimal)
			}
			seen[cell.Decimal] = true
		}
	}
	if len(seen) != Size*Size {
		t.Fatalf("expected %d distinct decimal values, got %d", Size*Size, len(seen))
	}
}
