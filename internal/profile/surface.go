package profile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/strata-data/xsection/internal/geometry"
)

// Surface supplies elevations at map positions. Implementations return
// ok=false where the surface has no data, which becomes a gap in the
// sampled trace.
type Surface interface {
	Name() string
	ElevationAt(p geometry.Point) (float64, bool)
}

// GridSurface is a regular elevation grid in map coordinates, sampled with
// bilinear interpolation between cell centers. It implements Surface.
type GridSurface struct {
	name     string
	ncols    int
	nrows    int
	xll      float64
	yll      float64
	cellsize float64
	nodata   float64
	// values holds cells row-major with the northernmost row first, the
	// order ASCII grid files store them in.
	values []float64
}

// NewGridSurface wraps raw grid cells. values must hold nrows*ncols cells,
// northernmost row first.
func NewGridSurface(name string, ncols, nrows int, xll, yll, cellsize, nodata float64, values []float64) (*GridSurface, error) {
	if ncols < 1 || nrows < 1 {
		return nil, fmt.Errorf("grid %s: %dx%d cells", name, ncols, nrows)
	}
	if cellsize <= 0 {
		return nil, fmt.Errorf("grid %s: cellsize %g must be positive", name, cellsize)
	}
	if len(values) != ncols*nrows {
		return nil, fmt.Errorf("grid %s: %d values for %dx%d cells", name, len(values), ncols, nrows)
	}
	return &GridSurface{
		name:     name,
		ncols:    ncols,
		nrows:    nrows,
		xll:      xll,
		yll:      yll,
		cellsize: cellsize,
		nodata:   nodata,
		values:   values,
	}, nil
}

// Name returns the surface name.
func (g *GridSurface) Name() string { return g.name }

// Bounds returns the outer edge of the grid in map coordinates.
func (g *GridSurface) Bounds() (min, max geometry.Point) {
	min = geometry.Pt(g.xll, g.yll)
	max = geometry.Pt(g.xll+float64(g.ncols)*g.cellsize, g.yll+float64(g.nrows)*g.cellsize)
	return min, max
}

// cell returns the value at a column and a row counted from the south.
func (g *GridSurface) cell(col, rowFromSouth int) float64 {
	rowFromTop := g.nrows - 1 - rowFromSouth
	return g.values[rowFromTop*g.ncols+col]
}

// ElevationAt samples the surface at p. Positions outside the grid edge or
// adjacent to a NoData cell report no value.
func (g *GridSurface) ElevationAt(p geometry.Point) (float64, bool) {
	min, max := g.Bounds()
	if p.X < min.X || p.X > max.X || p.Y < min.Y || p.Y > max.Y {
		return 0, false
	}

	// Continuous cell-center coordinates: cell (0,0) has its center half a
	// cell in from the southwest corner.
	gx := (p.X-g.xll)/g.cellsize - 0.5
	gy := (p.Y-g.yll)/g.cellsize - 0.5
	gx = clamp(gx, 0, float64(g.ncols-1))
	gy = clamp(gy, 0, float64(g.nrows-1))

	c0 := int(math.Floor(gx))
	r0 := int(math.Floor(gy))
	if c0 > g.ncols-2 {
		c0 = g.ncols - 2
	}
	if r0 > g.nrows-2 {
		r0 = g.nrows - 2
	}
	if g.ncols == 1 {
		c0 = 0
	}
	if g.nrows == 1 {
		r0 = 0
	}
	c1 := c0
	r1 := r0
	if g.ncols > 1 {
		c1 = c0 + 1
	}
	if g.nrows > 1 {
		r1 = r0 + 1
	}

	v00 := g.cell(c0, r0)
	v10 := g.cell(c1, r0)
	v01 := g.cell(c0, r1)
	v11 := g.cell(c1, r1)
	for _, v := range []float64{v00, v10, v01, v11} {
		if v == g.nodata || math.IsNaN(v) {
			return 0, false
		}
	}

	fx := gx - float64(c0)
	fy := gy - float64(r0)
	bottom := v00 + (v10-v00)*fx
	top := v01 + (v11-v01)*fx
	return bottom + (top-bottom)*fy, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ReadASCIIGrid parses an ESRI ASCII grid (.asc). The header accepts both
// corner (xllcorner/yllcorner) and center (xllcenter/yllcenter)
// registration; NODATA_value defaults to -9999 when absent.
func ReadASCIIGrid(name string, r io.Reader) (*GridSurface, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{}
	var values []float64
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(values) == 0 && len(fields) == 2 {
			if key := strings.ToLower(fields[0]); isHeaderKey(key) {
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("grid %s: header %s: %w", name, fields[0], err)
				}
				header[key] = v
				continue
			}
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("grid %s: bad cell value %q: %w", name, f, err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grid %s: %w", name, err)
	}

	ncols, ok := header["ncols"]
	if !ok {
		return nil, fmt.Errorf("grid %s: missing ncols header", name)
	}
	nrows, ok := header["nrows"]
	if !ok {
		return nil, fmt.Errorf("grid %s: missing nrows header", name)
	}
	cellsize, ok := header["cellsize"]
	if !ok {
		return nil, fmt.Errorf("grid %s: missing cellsize header", name)
	}

	xll, xok := header["xllcorner"]
	yll, yok := header["yllcorner"]
	if !xok {
		if center, ok := header["xllcenter"]; ok {
			xll = center - cellsize/2
			xok = true
		}
	}
	if !yok {
		if center, ok := header["yllcenter"]; ok {
			yll = center - cellsize/2
			yok = true
		}
	}
	if !xok || !yok {
		return nil, fmt.Errorf("grid %s: missing xll/yll registration headers", name)
	}

	nodata, ok := header["nodata_value"]
	if !ok {
		nodata = -9999
	}

	return NewGridSurface(name, int(ncols), int(nrows), xll, yll, cellsize, nodata, values)
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}
