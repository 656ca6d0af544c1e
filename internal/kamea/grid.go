// Package kamea implements analysis of the 27x27 ditrune grid: bigram
// decomposition, locator computation, quadset/octaset construction, and
// pattern search.
package kamea

import (
	"embed"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/transition"
)

//go:embed data/decimal_kamea.csv data/ditrune_kamea.csv
var gridFiles embed.FS

const (
	// Size is the grid's edge length; coordinates range over [-Origin, Origin].
	Size   = 27
	Origin = 13
)

// Cell is one immutable grid cell.
type Cell struct {
	Decimal int
	Ditrune string
}

// Grid is the loaded, integrity-checked 27x27 ditrune grid. Cells are
// immutable after load.
type Grid struct {
	cells [Size][Size]Cell
}

// Load reads the embedded decimal and ditrune CSV pairs, zero-pads ditrune
// values to 6 characters, checks that the two files agree on every cell,
// and asserts the Conrune-pair geometry invariant (the cell at (-x,-y)
// holds the Conrune of the cell at (x,y)). Any violation is IntegrityError.
func Load() (*Grid, error) {
	decimalRows, err := readCSV("data/decimal_kamea.csv")
	if err != nil {
		return nil, err
	}
	ditruneRows, err := readCSV("data/ditrune_kamea.csv")
	if err != nil {
		return nil, err
	}
	if len(decimalRows) != Size || len(ditruneRows) != Size {
		return nil, apperrors.New(apperrors.IntegrityError, "grid files must each contain 27 rows")
	}

	g := &Grid{}
	for r := 0; r < Size; r++ {
		if len(decimalRows[r]) != Size || len(ditruneRows[r]) != Size {
			return nil, apperrors.At(apperrors.IntegrityError, "grid row must contain 27 columns", r)
		}
		for c := 0; c < Size; c++ {
			dec, err := strconv.Atoi(strings.TrimSpace(decimalRows[r][c]))
			if err != nil {
				return nil, apperrors.At(apperrors.IntegrityError, "decimal cell is not an integer", r*Size+c)
			}
			ditrune := padDitrune(strings.TrimSpace(ditruneRows[r][c]))

			wantDitrune := decimalToDitrune(dec)
			if ditrune != wantDitrune {
				return nil, apperrors.At(apperrors.IntegrityError,
					fmt.Sprintf("ditrune %q does not match base-3 form of decimal %d (%q)", ditrune, dec, wantDitrune),
					r*Size+c)
			}

			g.cells[r][c] = Cell{Decimal: dec, Ditrune: ditrune}
		}
	}

	if err := g.assertConrunePairs(); err != nil {
		return nil, err
	}
	return g, nil
}

func readCSV(name string) ([][]string, error) {
	f, err := gridFiles.Open(name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.IntegrityError, "cannot open grid data file "+name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.IntegrityError, "cannot parse grid data file "+name, err)
	}
	return rows, nil
}

func padDitrune(s string) string {
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

func decimalToDitrune(n int) string {
	digits := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		digits[i] = byte('0' + n%3)
		n /= 3
	}
	return string(digits)
}

// assertConrunePairs verifies that the cell at Cartesian (-x,-y) carries
// the digit-wise Conrune of the cell at (x,y), for every (x,y) on the
// grid.
func (g *Grid) assertConrunePairs() error {
	for x := -Origin; x <= Origin; x++ {
		for y := -Origin; y <= Origin; y++ {
			cell, err := g.At(x, y)
			if err != nil {
				return err
			}
			opposite, err := g.At(-x, -y)
			if err != nil {
				return err
			}
			want, err := transition.ApplyConrune(cell.Ditrune)
			if err != nil {
				return apperrors.Wrap(apperrors.IntegrityError, "conrune check failed to evaluate", err)
			}
			if opposite.Ditrune != want {
				return apperrors.New(apperrors.IntegrityError,
					fmt.Sprintf("cell (%d,%d)=%s is not the conrune of cell (%d,%d)=%s", -x, -y, opposite.Ditrune, x, y, cell.Ditrune))
			}
		}
	}
	return nil
}

// toRowCol converts Cartesian (x,y) to (row,col), per the fixed convention
// row = 13-y, col = x+13.
func toRowCol(x, y int) (row, col int) {
	return Origin - y, x + Origin
}

// InBounds reports whether (x,y) lies within [-13,13]^2.
func InBounds(x, y int) bool {
	return x >= -Origin && x <= Origin && y >= -Origin && y <= Origin
}

// At returns the cell at Cartesian (x,y). OutOfBounds if outside [-13,13]^2.
func (g *Grid) At(x, y int) (Cell, error) {
	if !InBounds(x, y) {
		return Cell{}, apperrors.New(apperrors.OutOfBounds, fmt.Sprintf("coordinate (%d,%d) outside [-13,13]^2", x, y))
	}
	row, col := toRowCol(x, y)
	return g.cells[row][col], nil
}
