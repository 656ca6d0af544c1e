// Package figurate generates deterministic dot coordinates for regular,
// centered, and star polygonal figures.
package figurate

import (
	"math"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

// Dot is one point in a generated figure. Layer 0 marks the center dot of
// centered and star forms; layer -1 with index -1 marks a skipped-vertex
// placeholder that renderers must not draw a label for. Star inner
// vertices carry a layer of ℓ-0.5 for some integer layer ℓ.
type Dot struct {
	X, Y  float64
	Layer float64
	Index int
}

// RegularCount returns the closed-form dot count for a regular k-gonal
// number: (k-2)*n*(n-1)/2 + n.
func RegularCount(k, n int) int {
	return (k-2)*n*(n-1)/2 + n
}

// CenteredCount returns the closed-form dot count for a centered k-gonal
// number: k*n*(n-1)/2 + 1.
func CenteredCount(k, n int) int {
	return k*n*(n-1)/2 + 1
}

// Generate produces the dot sequence for the given parameters. Sides must
// be >= 3, index >= 1; star requires sides >= 5. centered and star are
// mutually exclusive requests from the caller's perspective, but star
// takes precedence if both are set, matching the calculator's own
// dispatch order.
func Generate(sides, index int, centered, star bool) ([]Dot, error) {
	if sides < 3 {
		return nil, apperrors.New(apperrors.InvalidParameters, "sides must be >= 3")
	}
	if index < 1 {
		return nil, apperrors.New(apperrors.InvalidParameters, "index must be >= 1")
	}
	if star && sides < 5 {
		return nil, apperrors.New(apperrors.InvalidParameters, "star polygons require sides >= 5")
	}

	switch {
	case star:
		return generateStar(sides, index), nil
	case centered:
		return generateCentered(sides, index), nil
	case sides == 3:
		return generateTriangular(index), nil
	case sides == 4:
		return generateSquare(index), nil
	default:
		return generateGeneral(sides, index), nil
	}
}

func generateTriangular(index int) []Dot {
	dots := []Dot{{X: 0, Y: 0, Layer: 0, Index: 1}}

	for layer := 1; layer < index; layer++ {
		y := float64(layer) * math.Sqrt(3) / 2
		for i := 0; i <= layer; i++ {
			x := float64(i) - float64(layer)/2
			dots = append(dots, Dot{X: x, Y: y, Layer: float64(layer), Index: len(dots) + 1})
		}
	}
	return dots
}

func generateSquare(index int) []Dot {
	dots := []Dot{{X: 0, Y: 0, Layer: 0, Index: 1}}

	for layer := 1; layer < index; layer++ {
		for i := 0; i < layer; i++ {
			dots = append(dots, Dot{X: float64(i), Y: float64(layer), Layer: float64(layer), Index: len(dots) + 1})
		}
		for i := 0; i <= layer; i++ {
			dots = append(dots, Dot{X: float64(layer), Y: float64(i), Layer: float64(layer), Index: len(dots) + 1})
		}
	}
	return dots
}

// generateGeneral implements the side-walk scheme for k >= 5: place dot 1
// at the origin, then for each layer ℓ walk the k-2 sides of a regular
// polygon of side length ℓ that do not touch the origin vertex (the two
// sides through the origin already carry the smaller layers' dots),
// emitting skipped-vertex placeholders where a side's terminal vertex
// would duplicate the next side's initial vertex. Each layer adds
// (k-2)ℓ+1 real dots, so the total matches RegularCount. Placeholders take
// no index, so real dots are numbered 1..RegularCount without gaps.
func generateGeneral(sides, index int) []Dot {
	dots := []Dot{{X: 0, Y: 0, Layer: 0, Index: 1}}
	realCount := 1

	exteriorAngle := 2 * math.Pi / float64(sides)

	for layer := 1; layer < index; layer++ {
		sideLength := float64(layer)
		dotsPerSide := layer + 1

		vertices := make([][2]float64, sides)
		vertices[0] = [2]float64{0, 0}
		cx, cy := 0.0, 0.0
		for i := 1; i < sides; i++ {
			angle := float64(i) * exteriorAngle
			cx += sideLength * math.Cos(angle)
			cy += sideLength * math.Sin(angle)
			vertices[i] = [2]float64{cx, cy}
		}

		for i := 1; i <= sides-2; i++ {
			v1 := vertices[i]
			v2 := vertices[i+1]

			for j := 0; j < dotsPerSide; j++ {
				t := float64(j) / float64(dotsPerSide-1)
				x := v1[0] + t*(v2[0]-v1[0])
				y := v1[1] + t*(v2[1]-v1[1])

				if j == dotsPerSide-1 && i < sides-2 {
					dots = append(dots, Dot{X: x, Y: y, Layer: -1, Index: -1})
					continue
				}
				realCount++
				dots = append(dots, Dot{X: x, Y: y, Layer: float64(layer), Index: realCount})
			}
		}
	}
	return dots
}

// generateCentered walks concentric k-gon layers around a center dot,
// stopping partway through the final layer if the closed-form count would
// otherwise be overshot.
func generateCentered(sides, index int) []Dot {
	target := CenteredCount(sides, index)
	dots := []Dot{{X: 0, Y: 0, Layer: 0, Index: 1}}

	if index == 1 || len(dots) >= target {
		return dots
	}

	maxLayers := index - 1
	for layer := 1; layer <= maxLayers; layer++ {
		dotsInLayer := sides * layer
		if len(dots)+dotsInLayer > target {
			addPartialCenteredLayer(&dots, sides, layer, target-len(dots))
			break
		}
		addCenteredLayer(&dots, sides, layer)
	}
	return dots
}

func centeredVertices(sides, layer int) [][2]float64 {
	vertices := make([][2]float64, sides)
	for i := 0; i < sides; i++ {
		angle := 2*math.Pi*float64(i)/float64(sides) + math.Pi/float64(sides)
		vertices[i] = [2]float64{
			float64(layer) * math.Cos(angle),
			float64(layer) * math.Sin(angle),
		}
	}
	return vertices
}

func addCenteredLayer(dots *[]Dot, sides, layer int) {
	vertices := centeredVertices(sides, layer)
	for i := 0; i < sides; i++ {
		v1 := vertices[i]
		v2 := vertices[(i+1)%sides]
		for j := 0; j < layer; j++ {
			t := float64(j) / float64(layer)
			x := v1[0] + t*(v2[0]-v1[0])
			y := v1[1] + t*(v2[1]-v1[1])
			*dots = append(*dots, Dot{X: x, Y: y, Layer: float64(layer), Index: len(*dots) + 1})
		}
	}
}

func addPartialCenteredLayer(dots *[]Dot, sides, layer, need int) {
	vertices := centeredVertices(sides, layer)
	added := 0
	for i := 0; i < sides && added < need; i++ {
		v1 := vertices[i]
		v2 := vertices[(i+1)%sides]
		take := layer
		if need-added < take {
			take = need - added
		}
		for j := 0; j < take; j++ {
			t := float64(j) / float64(layer)
			x := v1[0] + t*(v2[0]-v1[0])
			y := v1[1] + t*(v2[1]-v1[1])
			*dots = append(*dots, Dot{X: x, Y: y, Layer: float64(layer), Index: len(*dots) + 1})
			added++
			if added >= need {
				return
			}
		}
	}
}
