package kamea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

// Bigrams holds the three two-digit decompositions of a ditrune, each
// read as a base-3 number 0..8, plus the derived locator.
type Bigrams struct {
	Bigram1 int    // (d6, d1)
	Bigram2 int    // (d5, d2)
	Bigram3 int    // (d4, d3)
	Locator string // "R-A-C" = dec(bigram3)-dec(bigram2)-dec(bigram1)
}

// DecomposeBigrams splits a 6-digit ditrune "d6d5d4d3d2d1" (left to right,
// d1 least significant) into its three bigrams and derives the locator.
func DecomposeBigrams(ditrune string) (Bigrams, error) {
	if len(ditrune) != 6 {
		return Bigrams{}, apperrors.New(apperrors.InvalidDigit, "ditrune must be exactly 6 digits")
	}
	digits := make([]int, 6)
	for i := 0; i < 6; i++ {
		c := ditrune[i]
		if c < '0' || c > '2' {
			return Bigrams{}, apperrors.At(apperrors.InvalidDigit, "digit outside {0,1,2}", i)
		}
		digits[i] = int(c - '0')
	}
	d6, d5, d4, d3, d2, d1 := digits[0], digits[1], digits[2], digits[3], digits[4], digits[5]

	b1 := d6*3 + d1
	b2 := d5*3 + d2
	b3 := d4*3 + d3

	return Bigrams{
		Bigram1: b1,
		Bigram2: b2,
		Bigram3: b3,
		Locator: fmt.Sprintf("%d-%d-%d", b3, b2, b1),
	}, nil
}

// DitruneToLocator computes a ditrune's Kamea locator directly.
func DitruneToLocator(ditrune string) (string, error) {
	bigrams, err := DecomposeBigrams(ditrune)
	if err != nil {
		return "", err
	}
	return bigrams.Locator, nil
}

// LocatorToDitrune inverts DitruneToLocator: given a "R-A-C" locator, it
// reconstructs the 6-digit ditrune whose bigram-3/bigram-2/bigram-1
// decimal values are R, A, C respectively.
func LocatorToDitrune(locator string) (string, error) {
	parts := strings.Split(locator, "-")
	if len(parts) != 3 {
		return "", apperrors.New(apperrors.InvalidDigit, "locator must have the form R-A-C")
	}

	b3, err := parseBigramValue(parts[0])
	if err != nil {
		return "", err
	}
	b2, err := parseBigramValue(parts[1])
	if err != nil {
		return "", err
	}
	b1, err := parseBigramValue(parts[2])
	if err != nil {
		return "", err
	}

	d6, d1 := b1/3, b1%3
	d5, d2 := b2/3, b2%3
	d4, d3 := b3/3, b3%3

	return fmt.Sprintf("%d%d%d%d%d%d", d6, d5, d4, d3, d2, d1), nil
}

func parseBigramValue(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.New(apperrors.InvalidDigit, "locator component must be an integer")
	}
	if n < 0 || n > 8 {
		return 0, apperrors.New(apperrors.InvalidDigit, "locator component must be 0..8")
	}
	return n, nil
}
