package groups

import (
	"image/color"
	"time"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/figurate"
)

// colorJSON is the wire shape for a color: 8-bit per channel, object form.
type colorJSON struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

func toColorJSON(c color.RGBA) colorJSON {
	return colorJSON{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fromColorJSON(c colorJSON) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// connectionJSON is the wire shape of one Connection.
type connectionJSON struct {
	Dot1  int       `json:"dot1"`
	Dot2  int       `json:"dot2"`
	Color colorJSON `json:"color"`
	Width float64   `json:"width"`
	Style int       `json:"style"`
}

// Visualization is the saved-visualization document: generation
// parameters, groups, colors, and connections, freezing a Session for
// persistence.
type Visualization struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Type        string               `json:"type"` // "regular" or "centered"
	Sides       int                  `json:"sides"`
	Index       int                  `json:"index"`
	Groups      map[string][]int     `json:"groups"`
	Colors      map[string]colorJSON `json:"colors"`
	Connections []connectionJSON     `json:"connections"`
	Created     time.Time            `json:"created"`
	Modified    time.Time            `json:"modified"`
}

// Freeze captures the session's current state as a Visualization. genType
// must be "regular" or "centered", matching how the dots were generated.
func (s *Session) Freeze(id, name, description, genType string, sides, index int, created, modified time.Time) Visualization {
	colors := make(map[string]colorJSON, len(s.colors))
	for name, c := range s.colors {
		colors[name] = toColorJSON(c)
	}

	conns := make([]connectionJSON, len(s.conns))
	for i, c := range s.conns {
		conns[i] = connectionJSON{Dot1: c.Dot1, Dot2: c.Dot2, Color: toColorJSON(c.Color), Width: c.Width, Style: c.Style}
	}

	return Visualization{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        genType,
		Sides:       sides,
		Index:       index,
		Groups:      s.Groups(),
		Colors:      colors,
		Connections: conns,
		Created:     created,
		Modified:    modified,
	}
}

// Restore rebuilds a Session from a Visualization and a freshly-generated
// dot set for the same (sides, index, type). The generation parameters are
// applied first (the caller regenerates dots and passes them in); if any
// group references an index absent from dots, load fails with
// GroupIndexOutOfRange.
func Restore(v Visualization, dots []figurate.Dot) (*Session, error) {
	s := NewSession(dots)

	valid := make(map[int]bool, len(dots))
	for _, d := range dots {
		valid[d.Index] = true
	}

	for name, indices := range v.Groups {
		group := map[int]bool{}
		for _, idx := range indices {
			if !valid[idx] {
				return nil, apperrors.New(apperrors.GroupIndexOutOfRange,
					"saved visualization references a dot index absent from the current figurate set")
			}
			group[idx] = true
		}
		s.groups[name] = group
	}
	if _, ok := s.groups[DefaultGroupName]; !ok {
		s.groups[DefaultGroupName] = map[int]bool{}
	}

	for name, c := range v.Colors {
		s.colors[name] = fromColorJSON(c)
	}

	for _, c := range v.Connections {
		s.conns = append(s.conns, Connection{
			Dot1:  c.Dot1,
			Dot2:  c.Dot2,
			Color: fromColorJSON(c.Color),
			Width: c.Width,
			Style: c.Style,
		})
	}

	s.active = DefaultGroupName
	return s, nil
}
