package ternary

import (
	"testing"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

func TestToStandardBasic(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{1, "1"},
		{2, "2"},
		{3, "10"},
		{42, "1120"},
		{-42, "-1120"},
	}
	for _, c := range cases {
		if got := ToStandard(c.n, 0, 0, ""); got != c.want {
			t.Errorf("ToStandard(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestToStandardPadAndGroup(t *testing.T) {
	if got := ToStandard(5, 6, 0, ""); got != "000012" {
		t.Errorf("pad: got %q", got)
	}
	if got := ToStandard(42, 8, 3, "_"); got != "00_001_120" {
		t.Errorf("pad+group: got %q", got)
	}
}

func TestFromStandard(t *testing.T) {
	n, err := FromStandard("1120")
	if err != nil || n != 42 {
		t.Fatalf("FromStandard(1120) = %d, %v, want 42, nil", n, err)
	}

	n, err = FromStandard("-1120")
	if err != nil || n != -42 {
		t.Fatalf("FromStandard(-1120) = %d, %v, want -42, nil", n, err)
	}
}

func TestFromStandardErrors(t *testing.T) {
	if _, err := FromStandard(""); !apperrors.Is(err, apperrors.EmptyInput) {
		t.Errorf("expected EmptyInput, got %v", err)
	}
	if _, err := FromStandard("12-0"); !apperrors.Is(err, apperrors.BadSignPosition) {
		t.Errorf("expected BadSignPosition, got %v", err)
	}
	if _, err := FromStandard("103"); !apperrors.Is(err, apperrors.InvalidDigit) {
		t.Errorf("expected InvalidDigit, got %v", err)
	}
	if _, err := FromStandard("-"); !apperrors.Is(err, apperrors.EmptyInput) {
		t.Errorf("expected EmptyInput for bare sign, got %v", err)
	}
}

func TestToBalanced(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{13, "111"},
		{7, "1T1"},
		{1, "1"},
		{2, "1T"},
	}
	for _, c := range cases {
		if got := ToBalanced(c.n); got != c.want {
			t.Errorf("ToBalanced(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestToBalancedNegation(t *testing.T) {
	for _, n := range []int{1, 2, 5, 13, 40, 364} {
		pos := ToBalanced(n)
		neg := ToBalanced(-n)
		if len(pos) != len(neg) {
			t.Fatalf("ToBalanced(%d) and ToBalanced(%d) differ in length: %q vs %q", n, -n, pos, neg)
		}
		if negateBalanced(pos) != neg {
			t.Errorf("ToBalanced(-%d) = %q, want digit-wise negation %q", n, neg, negateBalanced(pos))
		}
	}
}

func TestFromBalanced(t *testing.T) {
	n, err := FromBalanced("1T1")
	if err != nil || n != 7 {
		t.Fatalf("FromBalanced(1T1) = %d, %v, want 7, nil", n, err)
	}
	n, err = FromBalanced("111")
	if err != nil || n != 13 {
		t.Fatalf("FromBalanced(111) = %d, %v, want 13, nil", n, err)
	}
}

func TestFromBalancedErrors(t *testing.T) {
	if _, err := FromBalanced(""); !apperrors.Is(err, apperrors.EmptyInput) {
		t.Errorf("expected EmptyInput, got %v", err)
	}
	if _, err := FromBalanced("121"); !apperrors.Is(err, apperrors.InvalidDigit) {
		t.Errorf("expected InvalidDigit, got %v", err)
	}
}

func TestBalancedToStandard(t *testing.T) {
	got, err := BalancedToStandard("1T1")
	if err != nil || got != "121" {
		t.Fatalf("BalancedToStandard(1T1) = %q, %v, want 121, nil", got, err)
	}
}

func TestStandardToBalanced(t *testing.T) {
	got, err := StandardToBalanced("1120")
	if err != nil {
		t.Fatalf("StandardToBalanced error: %v", err)
	}
	n, err := FromBalanced(got)
	if err != nil || n != 42 {
		t.Fatalf("round trip through balanced failed: got %q -> %d, %v", got, n, err)
	}
}

func TestRoundTripLaw(t *testing.T) {
	for n := -200; n <= 200; n++ {
		std := ToStandard(n, 0, 0, "")
		back, err := FromStandard(std)
		if err != nil || back != n {
			t.Fatalf("standard round trip failed for %d: %q -> %d, %v", n, std, back, err)
		}

		bal := ToBalanced(n)
		backBal, err := FromBalanced(bal)
		if err != nil || backBal != n {
			t.Fatalf("balanced round trip failed for %d: %q -> %d, %v", n, bal, backBal, err)
		}
	}
}

func TestSplitAndDigitPositions(t *testing.T) {
	digits, err := Split("1120")
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []Digit{Surge, Surge, Lattice, Aperture}
	for i, d := range want {
		if digits[i] != d {
			t.Errorf("Split[%d] = %v, want %v", i, digits[i], d)
		}
	}

	pairs, err := DigitPositions("12", 4)
	if err != nil {
		t.Fatalf("DigitPositions error: %v", err)
	}
	if len(pairs) != 4 {
		t.Fatalf("expected 4 pairs after padding, got %d", len(pairs))
	}
	if pairs[0].Power != 3 || pairs[0].Digit != Aperture {
		t.Errorf("pairs[0] = %+v, want power 3 digit 0", pairs[0])
	}
	if pairs[3].Power != 0 || pairs[3].Digit != Lattice {
		t.Errorf("pairs[3] = %+v, want power 0 digit 2", pairs[3])
	}
}

func TestSplitEmptyInput(t *testing.T) {
	if _, err := Split(""); !apperrors.Is(err, apperrors.EmptyInput) {
		t.Errorf("expected EmptyInput, got %v", err)
	}
}
