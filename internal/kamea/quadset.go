package kamea

// Quadset returns the four reflections of (x,y) across both axes, clipped
// to the grid's bounds. Points outside [-13,13]^2 are omitted rather than
// erroring, since quadsets are used for exploratory sums over whatever
// portion of the reflection set actually lies on the grid.
func Quadset(x, y int) []struct{ X, Y int } {
	candidates := []struct{ X, Y int }{
		{x, y},
		{-x, y},
		{-x, -y},
		{x, -y},
	}
	return clipped(candidates)
}

// Octaset returns the Quadset of (x,y) unioned with the Quadset of the
// swapped coordinate (y,x), deduplicated and clipped to grid bounds.
func Octaset(x, y int) []struct{ X, Y int } {
	seen := make(map[[2]int]bool)
	var out []struct{ X, Y int }
	for _, p := range Quadset(x, y) {
		key := [2]int{p.X, p.Y}
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	for _, p := range Quadset(y, x) {
		key := [2]int{p.X, p.Y}
		if !seen[key] {
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

func clipped(points []struct{ X, Y int }) []struct{ X, Y int } {
	seen := make(map[[2]int]bool)
	var out []struct{ X, Y int }
	for _, p := range points {
		if !InBounds(p.X, p.Y) {
			continue
		}
		key := [2]int{p.X, p.Y}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// QuadSum returns the arithmetic sum of decimal values at the quadset
// cells of (x,y).
func (g *Grid) QuadSum(x, y int) (int, error) {
	sum := 0
	for _, p := range Quadset(x, y) {
		cell, err := g.At(p.X, p.Y)
		if err != nil {
			return 0, err
		}
		sum += cell.Decimal
	}
	return sum, nil
}

// OctaSum returns the arithmetic sum of decimal values at the octaset
// cells of (x,y); it is the quadset sum when (x,y) lies on an axis of
// symmetry (x == y or x == -y), where the octaset degenerates to the
// quadset.
func (g *Grid) OctaSum(x, y int) (int, error) {
	sum := 0
	for _, p := range Octaset(x, y) {
		cell, err := g.At(p.X, p.Y)
		if err != nil {
			return 0, err
		}
		sum += cell.Decimal
	}
	return sum, nil
}
