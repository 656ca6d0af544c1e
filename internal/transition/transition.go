// Package transition implements closed binary and unary operations on
// ternary digit strings: the Taoist transition map, the fixed Conrune
// involution, iterated transition, and cycle detection.
package transition

import (
	"strconv"
	"strings"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

// Pair is an ordered pair of ternary digits, each in {0,1,2}.
type Pair struct {
	A, B byte
}

// Map is a validated, total transition table over all nine digit pairs.
// Once constructed, lookups never fail.
type Map struct {
	table [3][3]byte
}

// DefaultMap is the Taoist transition map:
//
//	(a,b) | 0 1 2
//	0     | 0 2 1
//	1     | 2 1 0
//	2     | 1 0 2
func DefaultMap() *Map {
	return &Map{table: [3][3]byte{
		{'0', '2', '1'},
		{'2', '1', '0'},
		{'1', '0', '2'},
	}}
}

// conrune returns the Conrune image of a single standard ternary digit.
// Conrune is a unary, digit-wise involution (0<->0, 1<->2, 2<->1), distinct
// from the binary Map type above; it has no pairwise table.
func conrune(d byte) (byte, error) {
	switch d {
	case '0':
		return '0', nil
	case '1':
		return '2', nil
	case '2':
		return '1', nil
	default:
		return 0, apperrors.New(apperrors.InvalidDigit, "digit outside {0,1,2}")
	}
}

// NewMapFromTable builds a Map from a caller-supplied entry set, keyed by
// Pair. It validates totality (all nine pairs present) and range (every
// key and value digit in {0,1,2}); partial or over-specified maps are
// rejected with IncompleteMap.
func NewMapFromTable(entries map[Pair]byte) (*Map, error) {
	m := &Map{}
	seen := 0
	for p, v := range entries {
		if !validDigit(p.A) || !validDigit(p.B) || !validDigit(v) {
			return nil, apperrors.New(apperrors.InvalidDigit, "digit outside {0,1,2}")
		}
		m.table[p.A-'0'][p.B-'0'] = v
		seen++
	}
	if seen != 9 {
		return nil, apperrors.New(apperrors.IncompleteMap, "transition map must cover all nine digit pairs")
	}
	return m, nil
}

// ParseRule parses a rule string of the form
// "00:0,01:2,02:1,10:2,11:1,12:0,20:1,21:0,22:2" into a validated Map. All
// nine pairs must appear exactly once; whitespace around entries is
// ignored.
func ParseRule(rule string) (*Map, error) {
	entries := make(map[Pair]byte)
	parts := strings.Split(rule, ",")
	for _, raw := range parts {
		entry := strings.TrimSpace(raw)
		if len(entry) != 4 || entry[2] != ':' {
			return nil, apperrors.New(apperrors.InvalidDigit, "malformed rule entry: "+entry)
		}
		a, b, v := entry[0], entry[1], entry[3]
		if !validDigit(a) || !validDigit(b) || !validDigit(v) {
			return nil, apperrors.New(apperrors.InvalidDigit, "digit outside {0,1,2} in entry: "+entry)
		}
		p := Pair{A: a, B: b}
		if _, dup := entries[p]; dup {
			return nil, apperrors.New(apperrors.IncompleteMap, "duplicate entry for pair "+entry[:2])
		}
		entries[p] = v
	}
	if len(entries) != 9 {
		return nil, apperrors.New(apperrors.IncompleteMap, "transition map must cover all nine digit pairs")
	}
	m := &Map{}
	for p, v := range entries {
		m.table[p.A-'0'][p.B-'0'] = v
	}
	return m, nil
}

func validDigit(d byte) bool { return d >= '0' && d <= '2' }

// Lookup returns map[(a,b)] for two digit characters in {0,1,2}.
func (m *Map) Lookup(a, b byte) (byte, error) {
	if !validDigit(a) || !validDigit(b) {
		return 0, apperrors.New(apperrors.InvalidDigit, "digit outside {0,1,2}")
	}
	return m.table[a-'0'][b-'0'], nil
}

// Apply computes the binary transition of two non-negative standard
// ternary strings: the shorter is left-padded with '0' to match the
// longer, then each aligned digit pair is looked up and concatenated
// most-significant first.
func (m *Map) Apply(first, second string) (string, error) {
	if err := rejectSigned(first); err != nil {
		return "", err
	}
	if err := rejectSigned(second); err != nil {
		return "", err
	}

	n := len(first)
	if len(second) > n {
		n = len(second)
	}
	a := leftPad(first, n)
	b := leftPad(second, n)

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := m.Lookup(a[i], b[i])
		if err != nil {
			return "", apperrors.At(apperrors.InvalidDigit, "digit outside {0,1,2}", i)
		}
		out[i] = v
	}
	return string(out), nil
}

func rejectSigned(s string) error {
	if len(s) == 0 {
		return apperrors.New(apperrors.EmptyInput, "transition operands must not be empty")
	}
	if s[0] == '-' {
		return apperrors.New(apperrors.NegativeInput, "transition is defined only on non-negative strings")
	}
	return nil
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

// ApplyConrune substitutes each digit of s by the Conrune map. Total and
// length-preserving.
func ApplyConrune(s string) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		v, err := conrune(s[i])
		if err != nil {
			return "", apperrors.At(apperrors.InvalidDigit, "digit outside {0,1,2}", i)
		}
		out[i] = v
	}
	return string(out), nil
}

// Triple is one step of an iterated transition: the pair fed in and the
// result produced.
type Triple struct {
	First  string
	Second string
	Result string
}

// ApplyMultiple produces n triples under the iteration rule:
// (f_{k+1}, s_{k+1}) = (result(f_k, s_k), f_k).
func (m *Map) ApplyMultiple(first, second string, n int) ([]Triple, error) {
	triples := make([]Triple, 0, n)
	f, s := first, second
	for i := 0; i < n; i++ {
		result, err := m.Apply(f, s)
		if err != nil {
			return triples, err
		}
		triples = append(triples, Triple{First: f, Second: s, Result: result})
		f, s = result, f
	}
	return triples, nil
}

// FindCycle advances the iteration under the same rule as ApplyMultiple,
// hashing each (first, second) state in a set keyed on the concatenated
// pair. On the first repeated state, it returns the triples produced from
// that state's first occurrence up to (but not including) its
// re-occurrence. If no repeat appears within maxIterations steps, it fails
// with NoCycleFound.
func (m *Map) FindCycle(first, second string, maxIterations int) ([]Triple, error) {
	seenAt := make(map[string]int)
	var all []Triple

	f, s := first, second
	seenAt[stateKey(f, s)] = 0

	for i := 0; i < maxIterations; i++ {
		result, err := m.Apply(f, s)
		if err != nil {
			return nil, err
		}
		all = append(all, Triple{First: f, Second: s, Result: result})
		f, s = result, f

		key := stateKey(f, s)
		if start, ok := seenAt[key]; ok {
			return all[start:], nil
		}
		seenAt[key] = i + 1
	}

	return nil, apperrors.New(apperrors.NoCycleFound, "no repeated state within "+strconv.Itoa(maxIterations)+" iterations")
}

func stateKey(first, second string) string {
	return first + "|" + second
}
