package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/iplot/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`

func svgTitle(sb *strings.Builder, width int, title string) {
	if title == "" {
		return
	}
	fmt.Fprintf(sb, `<text x="%d" y="16" font-family="sans-serif" font-size="13" text-anchor="middle">%s</text>
`, width/2, html.EscapeString(title))
}

// GridSVG draws a row-major grid of values (row 0 at the bottom) as colored cells.
func GridSVG(values [][]float64, lo, hi float64, width, height int, title string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)

	rows := len(values)
	if rows == 0 || len(values[0]) == 0 {
		svgTitle(&sb, width, title)
		sb.WriteString("</svg>")
		return sb.String()
	}
	cols := len(values[0])
	cw := float64(width) / float64(cols)
	ch := float64(height) / float64(rows)

	sb.WriteString("<g shape-rendering=\"crispEdges\">\n")
	for r, row := range values {
		y := float64(rows-1-r) * ch
		for c, v := range row {
			if math.IsNaN(v) {
				continue
			}
			col := viz.Viridis.At(viz.Normalize(v, lo, hi))
			fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#%02x%02x%02x"/>
`, float64(c)*cw, y, cw, ch, col.R, col.G, col.B)
		}
	}
	sb.WriteString("</g>\n")
	svgTitle(&sb, width, title)
	sb.WriteString("</svg>")
	return sb.String()
}
