package plot

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/san-kum/iplot/internal/export"
	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/setplot"
)

// Renderer loads frames from a Source and keeps every figure showing the
// most recently rendered one.
type Renderer struct {
	src     *frames.Source
	figures []*Figure
	frame   *frames.Frame
	renders int
}

func NewRenderer(src *frames.Source, cfg *setplot.PlotConfig) *Renderer {
	if cfg == nil {
		cfg = setplot.Default()
	}
	r := &Renderer{src: src}
	for _, spec := range cfg.Figures {
		r.figures = append(r.figures, newFigure(spec))
	}
	return r
}

// Render shows frame i on every figure. With no frames it clears them.
func (r *Renderer) Render(i int) error {
	r.renders++
	if r.src.Count() == 0 {
		r.show(nil)
		return nil
	}
	fr, err := r.src.Load(i)
	if err != nil {
		return err
	}
	r.show(fr)
	return nil
}

func (r *Renderer) show(fr *frames.Frame) {
	r.frame = fr
	for _, f := range r.figures {
		f.update(fr)
	}
}

// Frame is the frame currently on display, or nil.
func (r *Renderer) Frame() *frames.Frame { return r.frame }

// Renders counts Render calls since construction.
func (r *Renderer) Renders() int { return r.renders }

func (r *Renderer) NumFigures() int { return len(r.figures) }

func (r *Renderer) Figure(i int) *Figure {
	if i < 0 || i >= len(r.figures) {
		return nil
	}
	return r.figures[i]
}

func (r *Renderer) Image(fig int) (image.Image, error) {
	f := r.Figure(fig)
	if f == nil {
		return nil, fmt.Errorf("plot: no figure %d", fig)
	}
	return f.Image()
}

func (r *Renderer) Encode(fig int, format export.Format, w io.Writer) error {
	f := r.Figure(fig)
	if f == nil {
		return fmt.Errorf("plot: no figure %d", fig)
	}
	switch format {
	case export.FormatSVG:
		return f.WriteSVG(w)
	case export.FormatPNG:
		img, err := f.Image()
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", export.ErrUnknownFormat, format)
}
