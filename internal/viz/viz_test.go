package viz

import (
	"image/color"
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCanvas_SetAndString(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if !c.IsSet(0, 0) || !c.IsSet(3, 3) {
		t.Error("expected dots to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("unexpected dot at (1, 0)")
	}
	if got := c.String(); got != "⠁⢀" {
		t.Errorf("String() = %q", got)
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for x := 0; x < 8; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("dot (%d, 0) not set", x)
		}
	}
}

func TestCanvas_Dither(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		want  int
	}{
		{"empty", 0, 0},
		{"half", 0.5, 32},
		{"full", 1, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 2)
			c.Dither(func(x, y int) (float64, bool) { return tt.level, true })
			n := 0
			w, h := c.Dots()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if c.IsSet(x, y) {
						n++
					}
				}
			}
			if n != tt.want {
				t.Errorf("set %d dots, want %d", n, tt.want)
			}
		})
	}
}

func TestColormap(t *testing.T) {
	if got := Viridis.At(-1); got != Viridis[0] {
		t.Errorf("At(-1) = %v", got)
	}
	if got := Viridis.At(2); got != Viridis[len(Viridis)-1] {
		t.Errorf("At(2) = %v", got)
	}
	mid := Colormap{{0, 0, 0, 255}, {200, 100, 50, 255}}.At(0.5)
	if mid != (color.RGBA{100, 50, 25, 255}) {
		t.Errorf("At(0.5) = %v", mid)
	}
}

func TestRangeAndNormalize(t *testing.T) {
	lo, hi := Range([]float64{3, math.NaN(), -1, math.Inf(1), 2})
	if lo != -1 || hi != 3 {
		t.Errorf("Range = %v, %v", lo, hi)
	}
	if v := Normalize(1, -1, 3); v != 0.5 {
		t.Errorf("Normalize = %v", v)
	}
	if v := Normalize(5, 2, 2); v != 0.5 {
		t.Errorf("degenerate Normalize = %v", v)
	}
}

func TestPositionBar(t *testing.T) {
	tests := []struct {
		i, n, width int
		marker      int
	}{
		{0, 10, 10, 0},
		{9, 10, 10, 9},
		{0, 1, 5, 0},
	}
	for _, tt := range tests {
		bar := PositionBar(tt.i, tt.n, tt.width)
		if utf8.RuneCountInString(bar) != tt.width {
			t.Errorf("bar %q has wrong width", bar)
		}
		if idx := strings.IndexRune(bar, '▌'); utf8.RuneCountInString(bar[:idx]) != tt.marker {
			t.Errorf("PositionBar(%d, %d) marker at wrong place: %q", tt.i, tt.n, bar)
		}
	}
	if got := PositionBar(0, 0, 3); got != "░░░" {
		t.Errorf("empty bar = %q", got)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nope").Name != "minimal" {
		t.Error("expected fallback to minimal")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names mismatch")
	}
}
