// Package groups maintains a mutable overlay of named dot groups,
// connections, and colors over a generated figurate coordinate set.
package groups

import (
	"image/color"
	"sort"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/figurate"
)

// DefaultGroupName is the one group that always exists and cannot be
// deleted.
const DefaultGroupName = "Default"

// Connection is an undirected edge between two dot indices, carrying its
// own rendering metadata.
type Connection struct {
	Dot1, Dot2 int
	Color      color.RGBA
	Width      float64
	Style      int
}

// Session is the mutable, single-owner overlay described by the model:
// named groups, the active selection, connections, and group colors, over
// a fixed figurate dot set.
type Session struct {
	dots   []figurate.Dot
	groups map[string]map[int]bool
	colors map[string]color.RGBA
	active string
	conns  []Connection
}

// NewSession creates a session over the given dot set with only the
// Default group present.
func NewSession(dots []figurate.Dot) *Session {
	return &Session{
		dots:   dots,
		groups: map[string]map[int]bool{DefaultGroupName: {}},
		colors: map[string]color.RGBA{},
		active: DefaultGroupName,
	}
}

// SetActive makes name the active group, creating it (empty) if absent.
func (s *Session) SetActive(name string) {
	if _, ok := s.groups[name]; !ok {
		s.groups[name] = map[int]bool{}
	}
	s.active = name
}

// Active returns the active group's name.
func (s *Session) Active() string { return s.active }

func (s *Session) validIndex(index int) bool {
	for _, d := range s.dots {
		if d.Index == index {
			return true
		}
	}
	return false
}

// Select adds (or, if replace is true, replaces) the given indices in the
// active group. Indices not present in the current figurate set are
// silently skipped.
func (s *Session) Select(indices []int, replace bool) {
	group := s.groups[s.active]
	if replace {
		group = map[int]bool{}
	}
	for _, idx := range indices {
		if s.validIndex(idx) {
			group[idx] = true
		}
	}
	s.groups[s.active] = group
}

// Clear empties the active group and the connection list, retaining the
// group's name.
func (s *Session) Clear() {
	s.groups[s.active] = map[int]bool{}
	s.conns = nil
}

// SelectByLayer unions every dot index whose layer matches target into the
// active group. When centeredUIOffset is true, the caller's layer-1 means
// the calculator's layer-0 (the UI's off-by-one convention for centered
// figures), and target is translated accordingly before matching.
func (s *Session) SelectByLayer(target int, centeredUIOffset bool) {
	effective := float64(target)
	if centeredUIOffset {
		effective = float64(target - 1)
	}
	group := s.groups[s.active]
	for _, d := range s.dots {
		if d.Layer == effective {
			group[d.Index] = true
		}
	}
	s.groups[s.active] = group
}

// SelectionOrder returns the active group's member indices, sorted
// ascending, used as the deterministic order consecutive connections walk.
func (s *Session) SelectionOrder() []int {
	group := s.groups[s.active]
	out := make([]int, 0, len(group))
	for idx := range group {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// Connect appends connections between consecutive dots of the active
// group's selection order. Duplicate unordered pairs are dropped.
func (s *Session) Connect() {
	order := s.SelectionOrder()
	for i := 0; i+1 < len(order); i++ {
		s.addConnection(order[i], order[i+1])
	}
}

// ClosePolygon adds a connection from the last to the first dot of the
// active group's selection order, if the active group has at least 3
// members.
func (s *Session) ClosePolygon() {
	order := s.SelectionOrder()
	if len(order) < 3 {
		return
	}
	s.addConnection(order[len(order)-1], order[0])
}

func (s *Session) addConnection(a, b int) {
	for _, c := range s.conns {
		if (c.Dot1 == a && c.Dot2 == b) || (c.Dot1 == b && c.Dot2 == a) {
			return
		}
	}
	s.conns = append(s.conns, Connection{Dot1: a, Dot2: b, Style: 1})
}

// Connections returns the current connection list.
func (s *Session) Connections() []Connection { return s.conns }

// Groups returns the group-name -> member-indices map. Callers must treat
// the returned sets as read-only snapshots.
func (s *Session) Groups() map[string][]int {
	out := make(map[string][]int, len(s.groups))
	for name, members := range s.groups {
		indices := make([]int, 0, len(members))
		for idx := range members {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		out[name] = indices
	}
	return out
}

// SetColor assigns a display color to a group.
func (s *Session) SetColor(name string, c color.RGBA) {
	s.colors[name] = c
}

// SetOp is one of the supported set operations over named groups.
type SetOp int

const (
	Union SetOp = iota
	Intersection
	Difference
	SymmetricDifference
)

// ApplySetOp computes the named set operation over at least two source
// groups and writes the result into resultName (the group is created if
// absent). Difference is first-minus-union-of-rest; symmetric difference
// is membership in an odd number of the input sets.
func (s *Session) ApplySetOp(op SetOp, sourceNames []string, resultName string) error {
	if len(sourceNames) < 2 {
		return apperrors.New(apperrors.InvalidParameters, "set operation requires at least two source groups")
	}
	sets := make([]map[int]bool, len(sourceNames))
	for i, name := range sourceNames {
		sets[i] = s.groups[name]
	}

	var result map[int]bool
	switch op {
	case Union:
		result = unionAll(sets)
	case Intersection:
		result = intersectAll(sets)
	case Difference:
		rest := unionAll(sets[1:])
		result = map[int]bool{}
		for idx := range sets[0] {
			if !rest[idx] {
				result[idx] = true
			}
		}
	case SymmetricDifference:
		counts := map[int]int{}
		for _, set := range sets {
			for idx := range set {
				counts[idx]++
			}
		}
		result = map[int]bool{}
		for idx, n := range counts {
			if n%2 == 1 {
				result[idx] = true
			}
		}
	default:
		return apperrors.New(apperrors.InvalidParameters, "unknown set operation")
	}

	s.groups[resultName] = result
	return nil
}

func unionAll(sets []map[int]bool) map[int]bool {
	out := map[int]bool{}
	for _, set := range sets {
		for idx := range set {
			out[idx] = true
		}
	}
	return out
}

func intersectAll(sets []map[int]bool) map[int]bool {
	if len(sets) == 0 {
		return map[int]bool{}
	}
	out := map[int]bool{}
	for idx := range sets[0] {
		in := true
		for _, set := range sets[1:] {
			if !set[idx] {
				in = false
				break
			}
		}
		if in {
			out[idx] = true
		}
	}
	return out
}
