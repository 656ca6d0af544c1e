package figurate

import "math"

const dedupeEpsilon = 1e-6

// starSkip returns the chord-skip value for a k-pointed star, per the
// fixed table for common sizes and a fallback formula otherwise.
func starSkip(sides int) int {
	switch sides {
	case 5:
		return 2
	case 6:
		return 2
	case 7:
		return 3
	case 8:
		return 3
	case 9:
		return 4
	case 10:
		return 3
	case 11:
		return 5
	case 12:
		return 5
	}
	skip := sides / 2
	if skip%2 == 0 && sides%2 == 0 {
		skip--
	}
	return skip
}

func generateStar(sides, index int) []Dot {
	dots := []Dot{{X: 0, Y: 0, Layer: 0, Index: 1}}
	skip := starSkip(sides)

	for layer := 1; layer <= index; layer++ {
		outerVertices := make([][2]float64, sides)
		for i := 0; i < sides; i++ {
			angle := 2 * math.Pi * float64(i) / float64(sides)
			x := float64(layer) * math.Cos(angle)
			y := float64(layer) * math.Sin(angle)
			outerVertices[i] = [2]float64{x, y}
			dots = append(dots, Dot{X: x, Y: y, Layer: float64(layer), Index: len(dots) + 1})
		}

		outerRadius := float64(layer)
		var inner [][2]float64
		for i := 0; i < sides; i++ {
			iNext := (i + skip) % sides
			for j := i + 1; j < sides; j++ {
				jNext := (j + skip) % sides
				if iNext == j || jNext == i {
					continue
				}
				p1, p2 := outerVertices[i], outerVertices[iNext]
				p3, p4 := outerVertices[j], outerVertices[jNext]
				x, y, ok := lineIntersection(p1, p2, p3, p4)
				if !ok {
					continue
				}
				centerDist := math.Hypot(x, y)
				if centerDist >= outerRadius*0.9 {
					continue
				}
				if !containsNear(inner, x, y) {
					inner = append(inner, [2]float64{x, y})
				}
			}
		}

		for _, p := range inner {
			dots = append(dots, Dot{X: p[0], Y: p[1], Layer: float64(layer) - 0.5, Index: len(dots) + 1})
		}

		if index >= 3 {
			dotsPerSide := index - 2
			for i := 0; i < sides; i++ {
				ov := outerVertices[i]
				target1 := (i + skip) % sides
				target2 := ((i-skip)%sides + sides) % sides

				connected := connectedInner(inner, outerVertices[i], outerVertices[target1], outerVertices[target2])
				for _, innerPoint := range connected {
					for j := 1; j <= dotsPerSide; j++ {
						t := float64(j) / float64(dotsPerSide+1)
						x := ov[0]*(1-t) + innerPoint[0]*t
						y := ov[1]*(1-t) + innerPoint[1]*t
						dots = append(dots, Dot{X: x, Y: y, Layer: float64(layer), Index: len(dots) + 1})
					}
				}
			}
		}
	}
	return dots
}

func containsNear(points [][2]float64, x, y float64) bool {
	for _, p := range points {
		if math.Abs(p[0]-x) < dedupeEpsilon && math.Abs(p[1]-y) < dedupeEpsilon {
			return true
		}
	}
	return false
}

// connectedInner returns, of the inner intersection points, those lying on
// the segment from outer to target1 or from outer to target2 — the two
// star chords emanating from this outer vertex. At most two points are
// returned.
func connectedInner(inner [][2]float64, outer, target1, target2 [2]float64) [][2]float64 {
	var out [][2]float64
	for _, p := range inner {
		if pointOnSegment(outer, target1, p) || pointOnSegment(outer, target2, p) {
			out = append(out, p)
			if len(out) == 2 {
				break
			}
		}
	}
	return out
}

func pointOnSegment(a, b, p [2]float64) bool {
	lenSq := (b[0]-a[0])*(b[0]-a[0]) + (b[1]-a[1])*(b[1]-a[1])
	if lenSq == 0 {
		return math.Abs(p[0]-a[0]) < dedupeEpsilon && math.Abs(p[1]-a[1]) < dedupeEpsilon
	}
	r := ((p[0]-a[0])*(b[0]-a[0]) + (p[1]-a[1])*(b[1]-a[1])) / lenSq
	if r < 0 || r > 1 {
		return false
	}
	dist := math.Abs((b[1]-a[1])*p[0]-(b[0]-a[0])*p[1]+b[0]*a[1]-b[1]*a[0]) / math.Sqrt(lenSq)
	return dist < 1e-6
}

// lineIntersection solves the two lines through (p1,p2) and (p3,p4) in the
// algebraic form a*x + b*y = c, returning false for parallel lines (zero
// determinant).
func lineIntersection(p1, p2, p3, p4 [2]float64) (x, y float64, ok bool) {
	a1 := p2[1] - p1[1]
	b1 := p1[0] - p2[0]
	c1 := a1*p1[0] + b1*p1[1]

	a2 := p4[1] - p3[1]
	b2 := p3[0] - p4[0]
	c2 := a2*p3[0] + b2*p3[1]

	det := a1*b2 - a2*b1
	if det == 0 {
		return 0, 0, false
	}
	x = (b2*c1 - b1*c2) / det
	y = (a1*c2 - a2*c1) / det
	return x, y, true
}
