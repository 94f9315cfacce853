package frames

import (
	"math"
	"sort"
)

// Patch is one rectangular grid of a frame. Q holds one row of Meqn values per cell,
// x-fastest for 2D patches.
type Patch struct {
	Number int
	Level  int
	Mx, My int
	XLow   float64
	YLow   float64
	Dx, Dy float64
	Meqn   int
	Q      [][]float64
}

func (p *Patch) Dim() int {
	if p.My > 0 {
		return 2
	}
	return 1
}

// Component returns q[m] for every cell, or nil if m is out of range.
func (p *Patch) Component(m int) []float64 {
	if m < 0 || m >= p.Meqn {
		return nil
	}
	out := make([]float64, len(p.Q))
	for i, row := range p.Q {
		out[i] = row[m]
	}
	return out
}

// Centers returns the x cell centers of a 1D patch.
func (p *Patch) Centers() []float64 {
	out := make([]float64, p.Mx)
	for i := range out {
		out[i] = p.XLow + (float64(i)+0.5)*p.Dx
	}
	return out
}

func (p *Patch) contains(x, y float64) bool {
	if x < p.XLow || x >= p.XLow+float64(p.Mx)*p.Dx {
		return false
	}
	if p.Dim() == 1 {
		return true
	}
	return y >= p.YLow && y < p.YLow+float64(p.My)*p.Dy
}

func (p *Patch) at(x, y float64, m int) float64 {
	i := int((x - p.XLow) / p.Dx)
	if i >= p.Mx {
		i = p.Mx - 1
	}
	if p.Dim() == 1 {
		return p.Q[i][m]
	}
	j := int((y - p.YLow) / p.Dy)
	if j >= p.My {
		j = p.My - 1
	}
	return p.Q[j*p.Mx+i][m]
}

// Frame is one parsed fort.q snapshot.
type Frame struct {
	Index   int
	Number  int
	Time    float64
	Patches []Patch
}

// Dim is the dimensionality of the first patch, or 0 for an empty frame.
func (f *Frame) Dim() int {
	if len(f.Patches) == 0 {
		return 0
	}
	return f.Patches[0].Dim()
}

// Bounds is the bounding box of all patches.
func (f *Frame) Bounds() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for i := range f.Patches {
		p := &f.Patches[i]
		xmin = math.Min(xmin, p.XLow)
		xmax = math.Max(xmax, p.XLow+float64(p.Mx)*p.Dx)
		if p.Dim() == 2 {
			ymin = math.Min(ymin, p.YLow)
			ymax = math.Max(ymax, p.YLow+float64(p.My)*p.Dy)
		}
	}
	if len(f.Patches) == 0 || f.Dim() == 1 {
		ymin, ymax = 0, 0
	}
	if len(f.Patches) == 0 {
		xmin, xmax = 0, 0
	}
	return xmin, xmax, ymin, ymax
}

// Sample returns q[m] at (x, y) from the finest patch covering the point.
func (f *Frame) Sample(x, y float64, m int) (float64, bool) {
	best := -1
	for i := range f.Patches {
		p := &f.Patches[i]
		if m < 0 || m >= p.Meqn || !p.contains(x, y) {
			continue
		}
		if best < 0 || p.Level > f.Patches[best].Level {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return f.Patches[best].at(x, y, m), true
}

// Line returns cell centers and q[m] across all 1D patches, sorted by x.
// Cells covered by a finer patch are dropped.
func (f *Frame) Line(m int) (xs, ys []float64) {
	type point struct{ x, y float64 }
	var pts []point
	for i := range f.Patches {
		p := &f.Patches[i]
		if p.Dim() != 1 || m < 0 || m >= p.Meqn {
			continue
		}
		q := p.Component(m)
		for c, x := range p.Centers() {
			if f.refined(x, p.Level) {
				continue
			}
			pts = append(pts, point{x, q[c]})
		}
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].x < pts[b].x })
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = pt.x, pt.y
	}
	return xs, ys
}

func (f *Frame) refined(x float64, level int) bool {
	for i := range f.Patches {
		p := &f.Patches[i]
		if p.Level > level && p.contains(x, 0) {
			return true
		}
	}
	return false
}
