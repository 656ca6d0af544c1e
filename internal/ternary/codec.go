// Package ternary implements exact, total conversions between signed
// integers, standard ternary strings ({0,1,2}), and balanced ternary
// strings ({T,0,1}).
//
// Every conversion in this package is a bijection within its documented
// domain: ToStandard/FromStandard and ToBalanced/FromBalanced round-trip
// for every int, with no loss of information at any step.
package ternary

import (
	"strconv"
	"strings"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

// Digit is a single ternary digit in {0, 1, 2}. 0 = Aperture, 1 = Surge,
// 2 = Lattice.
type Digit int

const (
	Aperture Digit = 0
	Surge    Digit = 1
	Lattice  Digit = 2
)

const balancedT = 'T'

// ToStandard converts a signed integer to its standard (non-negative digit
// alphabet plus optional leading '-') ternary representation.
//
// padLength, if > 0, left-pads the digits (after any sign) with zeros to at
// least that many digits. groupSize, if > 0, partitions the digits from the
// right into groups of that size, joined by sep.
func ToStandard(n int, padLength int, groupSize int, sep string) string {
	if n == 0 {
		digits := pad("0", padLength, "")
		if groupSize > 0 {
			digits = group(digits, groupSize, sep)
		}
		return digits
	}

	neg := n < 0
	v := n
	if neg {
		v = -v
	}

	var b []byte
	for v > 0 {
		b = append(b, byte('0'+v%3))
		v /= 3
	}
	// b was built least-significant first; reverse for MSD-first.
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	digits := pad(string(b), padLength, "")
	if groupSize > 0 {
		digits = group(digits, groupSize, sep)
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// pad left-pads s with zeros to at least length n. A no-op if n <= len(s).
func pad(s string, n int, _ string) string {
	if n <= len(s) {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// group partitions digits from the right into chunks of size, joined by sep.
func group(digits string, size int, sep string) string {
	if size <= 0 || len(digits) <= size {
		return digits
	}
	var parts []string
	for end := len(digits); end > 0; end -= size {
		start := end - size
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:end]}, parts...)
	}
	return strings.Join(parts, sep)
}

// FromStandard parses a signed standard-ternary string (optionally
// underscore- or separator-grouped digits are NOT accepted here; callers
// must strip grouping separators before calling). Returns InvalidDigit for
// any character outside {0,1,2,-}, BadSignPosition if '-' is not solely
// leading, and EmptyInput for a zero-length string.
func FromStandard(s string) (int, error) {
	if len(s) == 0 {
		return 0, apperrors.New(apperrors.EmptyInput, "standard ternary string must not be empty")
	}

	neg := false
	body := s
	if s[0] == '-' {
		neg = true
		body = s[1:]
	}
	if len(body) == 0 {
		return 0, apperrors.New(apperrors.EmptyInput, "no digits after sign")
	}

	n := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '-' {
			return 0, apperrors.At(apperrors.BadSignPosition, "'-' must be solely leading", i+len(s)-len(body))
		}
		if c < '0' || c > '2' {
			return 0, apperrors.At(apperrors.InvalidDigit, "digit outside {0,1,2}", i+len(s)-len(body))
		}
		n = n*3 + int(c-'0')
	}

	if neg {
		n = -n
	}
	return n, nil
}

// ToBalanced converts a signed integer to balanced ternary ({T,0,1}).
func ToBalanced(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	v := n
	if neg {
		v = -v
	}

	var b []byte
	for v != 0 {
		r := v % 3
		v /= 3
		switch r {
		case 2:
			r = -1
			v++
		case -2:
			// unreachable for non-negative v, kept for clarity
			r = 1
			v--
		}
		switch r {
		case -1:
			b = append(b, balancedT)
		default:
			b = append(b, byte('0'+r))
		}
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	digits := string(b)
	if neg {
		return negateBalanced(digits)
	}
	return digits
}

// negateBalanced flips every balanced digit (T<->1, 0 fixed) — the balanced
// representation of -n given the balanced representation of n.
func negateBalanced(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			out[i] = balancedT
		case balancedT:
			out[i] = '1'
		default:
			out[i] = '0'
		}
	}
	return string(out)
}

// FromBalanced parses a balanced-ternary string ({T,0,1}) to its signed
// decimal value.
func FromBalanced(s string) (int, error) {
	if len(s) == 0 {
		return 0, apperrors.New(apperrors.EmptyInput, "balanced ternary string must not be empty")
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var v int
		switch c {
		case '0':
			v = 0
		case '1':
			v = 1
		case balancedT:
			v = -1
		default:
			return 0, apperrors.At(apperrors.InvalidDigit, "digit outside {T,0,1}", i)
		}
		n = n*3 + v
	}
	return n, nil
}

// BalancedToStandard substitutes T->2, leaving 0 and 1 unchanged. This is a
// character rewrite only: it does not handle a leading sign, since balanced
// ternary carries no separate sign character.
func BalancedToStandard(s string) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out[i] = '0'
		case '1':
			out[i] = '1'
		case balancedT:
			out[i] = '2'
		default:
			return "", apperrors.At(apperrors.InvalidDigit, "digit outside {T,0,1}", i)
		}
	}
	return string(out), nil
}

// StandardToBalanced converts a non-negative standard-ternary string to
// balanced ternary by routing through decimal (§4.1: "the reverse requires
// going through decimal").
func StandardToBalanced(s string) (string, error) {
	n, err := FromStandard(s)
	if err != nil {
		return "", err
	}
	return ToBalanced(n), nil
}

// Split returns the per-position digits of a non-negative standard-ternary
// string, most-significant first.
func Split(s string) ([]Digit, error) {
	if len(s) == 0 {
		return nil, apperrors.New(apperrors.EmptyInput, "standard ternary string must not be empty")
	}
	digits := make([]Digit, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '2' {
			return nil, apperrors.At(apperrors.InvalidDigit, "digit outside {0,1,2}", i)
		}
		digits[i] = Digit(c - '0')
	}
	return digits, nil
}

// PositionPair is one (power-of-three, digit) pair, most-significant first.
type PositionPair struct {
	Power int
	Digit Digit
}

// DigitPositions returns (power-of-three, digit) pairs for s, most
// significant first, left-padding s with zeros to minLength digits first.
func DigitPositions(s string, minLength int) ([]PositionPair, error) {
	padded := pad(s, minLength, "")
	digits, err := Split(padded)
	if err != nil {
		return nil, err
	}
	n := len(digits)
	pairs := make([]PositionPair, n)
	for i, d := range digits {
		pairs[i] = PositionPair{Power: n - 1 - i, Digit: d}
	}
	return pairs, nil
}

// String formats a Digit as its decimal character, for %v and %s output in
// tests and debugging.
func (d Digit) String() string { return strconv.Itoa(int(d)) }
