package kamea

import "strings"

// Coord is a Cartesian grid coordinate.
type Coord struct {
	X, Y int
}

// FindByDecimal returns every cell whose decimal value equals target.
func (g *Grid) FindByDecimal(target int) []Coord {
	var out []Coord
	for x := -Origin; x <= Origin; x++ {
		for y := -Origin; y <= Origin; y++ {
			cell, _ := g.At(x, y)
			if cell.Decimal == target {
				out = append(out, Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// FindByTernarySubstring returns every cell whose 6-digit ditrune contains
// substr.
func (g *Grid) FindByTernarySubstring(substr string) []Coord {
	var out []Coord
	for x := -Origin; x <= Origin; x++ {
		for y := -Origin; y <= Origin; y++ {
			cell, _ := g.At(x, y)
			if strings.Contains(cell.Ditrune, substr) {
				out = append(out, Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// FindByQuadSum returns every cell (x,y), excluding axis points where the
// quadset degenerates, whose quadset sum equals target.
func (g *Grid) FindByQuadSum(target int) []Coord {
	var out []Coord
	for x := -Origin; x <= Origin; x++ {
		for y := -Origin; y <= Origin; y++ {
			if x == 0 || y == 0 {
				continue
			}
			sum, err := g.QuadSum(x, y)
			if err != nil {
				continue
			}
			if sum == target {
				out = append(out, Coord{X: x, Y: y})
			}
		}
	}
	return out
}
