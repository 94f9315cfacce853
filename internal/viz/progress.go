package viz

import "strings"

// PositionBar draws a track of width cells with a marker at index i of n.
func PositionBar(i, n, width int) string {
	if width < 1 {
		return ""
	}
	if n <= 0 {
		return strings.Repeat("░", width)
	}
	pos := 0
	if n > 1 {
		pos = i * (width - 1) / (n - 1)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > width-1 {
		pos = width - 1
	}
	return strings.Repeat("█", pos) + "▌" + strings.Repeat("░", width-1-pos)
}
