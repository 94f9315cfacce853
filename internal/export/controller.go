package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/nav"
)

// FrameRenderer renders frames into a set of figures that can be captured.
type FrameRenderer interface {
	nav.Renderer
	NumFigures() int
	Image(fig int) (image.Image, error)
	Encode(fig int, format Format, w io.Writer) error
}

// Controller walks the whole frame range to save images or an animation.
type Controller struct {
	state    *nav.State
	renderer FrameRenderer
	format   Format
}

func NewController(state *nav.State, renderer FrameRenderer, format Format) *Controller {
	if format == "" {
		format = FormatPNG
	}
	return &Controller{state: state, renderer: renderer, format: format}
}

// FileName is the image name of figure fig at frame sol, zero-padded to the
// widths of the largest indices.
func FileName(fig, sol, numFigures, numFrames int, format Format) string {
	fw := len(strconv.Itoa(max(numFigures-1, 0)))
	sw := len(strconv.Itoa(max(numFrames-1, 0)))
	return fmt.Sprintf("fig%0*d_sol%0*d.%s", fw, fig, sw, sol, format.Ext())
}

// SaveAllFrames renders every frame in order and writes each figure to dir.
// Existing files with the same names are overwritten.
func (c *Controller) SaveAllFrames(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &ExportError{Op: "save", Path: dir, Frame: -1, Err: err}
	}

	n, nfig := c.state.Max(), c.renderer.NumFigures()
	for i := 0; i < n; i++ {
		c.state.JumpTo(i)
		if err := c.renderer.Render(i); err != nil {
			return &ExportError{Op: "render", Path: dir, Frame: i, Err: err}
		}
		for f := 0; f < nfig; f++ {
			path := filepath.Join(dir, FileName(f, i, nfig, n, c.format))
			if err := c.writeFigure(f, path); err != nil {
				return &ExportError{Op: "save", Path: path, Frame: i, Err: err}
			}
		}
	}
	log.Printf("saved %d images to %s", n*nfig, dir)
	return nil
}

func (c *Controller) writeFigure(fig int, path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.renderer.Encode(fig, c.format, fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// ExportAnimation renders every frame of the current figure into a GIF with
// a delay of 1000/fps milliseconds per frame.
func (c *Controller) ExportAnimation(fps float64, file string) error {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return &ExportError{Op: "animation", Path: file, Frame: -1, Err: ErrInvalidFPS}
	}
	n := c.state.Max()
	if n == 0 {
		return &ExportError{Op: "animation", Path: file, Frame: -1, Err: frames.ErrNoFrames}
	}
	fig := c.renderer.NumFigures() - 1
	if fig < 0 {
		return &ExportError{Op: "animation", Path: file, Frame: -1, Err: ErrNoFigures}
	}

	delay := FrameDelay(fps)
	anim := &gif.GIF{LoopCount: 0}
	for i := 0; i < n; i++ {
		c.state.JumpTo(i)
		if err := c.renderer.Render(i); err != nil {
			return &ExportError{Op: "render", Path: file, Frame: i, Err: err}
		}
		img, err := c.renderer.Image(fig)
		if err != nil {
			return &ExportError{Op: "capture", Path: file, Frame: i, Err: err}
		}
		anim.Image = append(anim.Image, toPaletted(img))
		anim.Delay = append(anim.Delay, delay)
	}

	if err := writeGIF(file, anim); err != nil {
		return &ExportError{Op: "animation", Path: file, Frame: -1, Err: err}
	}
	log.Printf("wrote %d frames to %s", n, file)
	return nil
}

// FrameDelay converts a frame rate to a GIF delay in hundredths of a second.
func FrameDelay(fps float64) int {
	d := int(math.Round(100 / fps))
	if d < 1 {
		return 1
	}
	return d
}

func toPaletted(img image.Image) *image.Paletted {
	if p, ok := img.(*image.Paletted); ok {
		return p
	}
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p
}

func writeGIF(path string, anim *gif.GIF) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(fh, anim); err != nil {
		fh.Close()
		os.Remove(path)
		return err
	}
	return fh.Close()
}
