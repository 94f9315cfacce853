package frames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMalformed = errors.New("frames: malformed solution file")

// ParseQ reads the patches of one ASCII fort.q file.
//
// Each patch starts with "value name" header lines (grid_number, AMR_level, mx,
// my, xlow, ylow, dx, dy) followed by one line of meqn values per cell.
func ParseQ(r io.Reader) ([]Patch, error) {
	var (
		patches []Patch
		cur     *Patch
		header  = map[string]string{}
		inData  bool
		lineNo  int
	)

	finish := func() error {
		if cur == nil {
			return nil
		}
		cells := cur.Mx
		if cur.My > 0 {
			cells *= cur.My
		}
		if len(cur.Q) != cells {
			return fmt.Errorf("%w: patch %d has %d cells, header says %d", ErrMalformed, cur.Number, len(cur.Q), cells)
		}
		patches = append(patches, *cur)
		cur = nil
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		if isHeader(fields) {
			key := strings.ToLower(fields[1])
			if inData && (key == "grid_number" || key == "patch_number") {
				if err := finish(); err != nil {
					return nil, err
				}
				inData = false
				header = map[string]string{}
			}
			header[key] = fields[0]
			continue
		}

		if !inData {
			p, err := patchFromHeader(header)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			cur = p
			inData = true
		}

		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := parseFloat(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			row[i] = v
		}
		if cur.Meqn == 0 {
			cur.Meqn = len(row)
		} else if len(row) != cur.Meqn {
			return nil, fmt.Errorf("%w: line %d has %d values, want %d", ErrMalformed, lineNo, len(row), cur.Meqn)
		}
		cur.Q = append(cur.Q, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return patches, nil
}

// ParseTime reads the time line of a fort.t file.
func ParseTime(r io.Reader) (float64, error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 2 && strings.EqualFold(fields[1], "time") {
			return parseFloat(fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: no time entry", ErrMalformed)
}

func readTime(path string) (float64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	t, err := ParseTime(f)
	if err != nil {
		return 0, false
	}
	return t, true
}

func patchFromHeader(h map[string]string) (*Patch, error) {
	p := &Patch{Level: 1, Dx: 1, Dy: 1}
	var err error
	geti := func(key string, dst *int) {
		if v, ok := h[key]; ok && err == nil {
			*dst, err = strconv.Atoi(v)
		}
	}
	getf := func(key string, dst *float64) {
		if v, ok := h[key]; ok && err == nil {
			*dst, err = parseFloat(v)
		}
	}
	geti("grid_number", &p.Number)
	geti("patch_number", &p.Number)
	geti("amr_level", &p.Level)
	geti("mx", &p.Mx)
	geti("my", &p.My)
	getf("xlow", &p.XLow)
	getf("ylow", &p.YLow)
	getf("dx", &p.Dx)
	getf("dy", &p.Dy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if p.Mx <= 0 {
		return nil, fmt.Errorf("%w: missing mx", ErrMalformed)
	}
	if p.Dx <= 0 || (p.My > 0 && p.Dy <= 0) {
		return nil, fmt.Errorf("%w: non-positive cell size", ErrMalformed)
	}
	return p, nil
}

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	c := fields[1][0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// parseFloat accepts Fortran D exponents.
func parseFloat(s string) (float64, error) {
	s = strings.Map(func(r rune) rune {
		if r == 'D' || r == 'd' {
			return 'E'
		}
		return r
	}, s)
	return strconv.ParseFloat(s, 64)
}
