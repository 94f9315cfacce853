package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/iplot/internal/export"
	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/setplot"
	"github.com/san-kum/iplot/internal/viz"
)

const captionHeight = 20

// Figure is one rendering surface showing a single solution component.
type Figure struct {
	spec  setplot.Figure
	frame *frames.Frame
}

func newFigure(spec setplot.Figure) *Figure {
	return &Figure{spec: spec}
}

func (f *Figure) Name() string            { return f.spec.Name }
func (f *Figure) Spec() setplot.Figure    { return f.spec }
func (f *Figure) Frame() *frames.Frame    { return f.frame }
func (f *Figure) update(fr *frames.Frame) { f.frame = fr }

// Title expands %t and %f in the configured title for the current frame.
func (f *Figure) Title() string {
	title := f.spec.Title
	if title == "" {
		title = f.spec.Name
	}
	if f.frame == nil {
		return strings.NewReplacer("%t", "-", "%f", "-").Replace(title)
	}
	return strings.NewReplacer(
		"%t", strconv.FormatFloat(f.frame.Time, 'g', 6, 64),
		"%f", strconv.Itoa(f.frame.Number),
	).Replace(title)
}

func (f *Figure) line() (xs, ys []float64) {
	if f.frame == nil {
		return nil, nil
	}
	return f.frame.Line(f.spec.Component)
}

// grid samples the component on a cols x rows lattice over the frame bounds,
// row 0 at the bottom. Uncovered cells are NaN.
func (f *Figure) grid(cols, rows int) (values [][]float64, lo, hi float64) {
	if f.frame == nil || cols <= 0 || rows <= 0 {
		return nil, 0, 0
	}
	xmin, xmax, ymin, ymax := f.frame.Bounds()
	dx := (xmax - xmin) / float64(cols)
	dy := (ymax - ymin) / float64(rows)
	lo, hi = math.Inf(1), math.Inf(-1)
	values = make([][]float64, rows)
	for r := range values {
		values[r] = make([]float64, cols)
		y := ymin + (float64(r)+0.5)*dy
		for c := range values[r] {
			x := xmin + (float64(c)+0.5)*dx
			v, ok := f.frame.Sample(x, y, f.spec.Component)
			if !ok {
				values[r][c] = math.NaN()
				continue
			}
			values[r][c] = v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if lo > hi {
		lo, hi = 0, 0
	}
	if len(f.spec.YLim) == 2 {
		lo, hi = f.spec.YLim[0], f.spec.YLim[1]
	}
	return values, lo, hi
}

// View renders the figure as terminal text of roughly width x height cells.
func (f *Figure) View(width, height int) string {
	if f.frame == nil {
		return "(no frames)"
	}
	width, height = max(width, 10), max(height, 3)

	if f.spec.Kind == setplot.KindPcolor {
		c := viz.NewCanvas(width, height)
		w, h := c.Dots()
		values, lo, hi := f.grid(w, h)
		c.Dither(func(x, y int) (float64, bool) {
			v := values[h-1-y][x]
			if math.IsNaN(v) {
				return 0, false
			}
			return viz.Normalize(v, lo, hi), true
		})
		return c.String() + "\n" + f.Title()
	}

	_, ys := f.line()
	if len(ys) == 0 {
		return fmt.Sprintf("(component %d not present)", f.spec.Component)
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(f.Title()),
	}
	if len(f.spec.YLim) == 2 {
		opts = append(opts, asciigraph.LowerBound(f.spec.YLim[0]), asciigraph.UpperBound(f.spec.YLim[1]))
	}
	return asciigraph.Plot(ys, opts...)
}

// Image rasterizes the figure at its configured size.
func (f *Figure) Image() (image.Image, error) {
	w, h := f.spec.Width, f.spec.Height
	if f.frame != nil && f.spec.Kind == setplot.KindLine {
		if xs, ys := f.line(); len(xs) >= 2 {
			return f.chartImage(xs, ys)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	if f.frame != nil && f.spec.Kind == setplot.KindPcolor && h > captionHeight {
		values, lo, hi := f.grid(w, h-captionHeight)
		rows := len(values)
		for r, row := range values {
			py := captionHeight + rows - 1 - r
			for c, v := range row {
				if !math.IsNaN(v) {
					img.SetRGBA(c, py, viz.Viridis.At(viz.Normalize(v, lo, hi)))
				}
			}
		}
	}
	caption(img, f.Title())
	return img, nil
}

// lineChart builds the go-chart rendering shared by the PNG and SVG outputs.
func (f *Figure) lineChart(xs, ys []float64) chart.Chart {
	yaxis := chart.YAxis{}
	switch lo, hi := viz.Range(ys); {
	case len(f.spec.YLim) == 2:
		yaxis.Range = &chart.ContinuousRange{Min: f.spec.YLim[0], Max: f.spec.YLim[1]}
	case lo == hi:
		yaxis.Range = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	return chart.Chart{
		Title:      f.Title(),
		Width:      f.spec.Width,
		Height:     f.spec.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "x"},
		YAxis:      yaxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    f.spec.Name,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5},
			},
		},
	}
}

func (f *Figure) chartImage(xs, ys []float64) (image.Image, error) {
	graph := f.lineChart(xs, ys)
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("plot %s: %w", f.spec.Name, err)
	}
	return png.Decode(&buf)
}

// WriteSVG writes the figure as a standalone SVG document. Line figures go
// through the same chart as Image; pcolor figures are drawn as colored cells.
func (f *Figure) WriteSVG(w io.Writer) error {
	if f.frame != nil && f.spec.Kind == setplot.KindLine {
		if xs, ys := f.line(); len(xs) >= 2 {
			graph := f.lineChart(xs, ys)
			if err := graph.Render(chart.SVG, w); err != nil {
				return fmt.Errorf("plot %s: %w", f.spec.Name, err)
			}
			return nil
		}
	}

	var values [][]float64
	var lo, hi float64
	if f.spec.Kind == setplot.KindPcolor {
		values, lo, hi = f.grid(max(f.spec.Width/4, 1), max(f.spec.Height/4, 1))
	}
	_, err := io.WriteString(w, export.GridSVG(values, lo, hi, f.spec.Width, f.spec.Height, f.Title()))
	return err
}

func caption(img *image.RGBA, text string) {
	if text == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 14),
	}
	d.DrawString(text)
}
