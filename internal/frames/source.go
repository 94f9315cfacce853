package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	Pattern          = "fort.q*"
	DefaultCacheSize = 32
)

// ErrNoFrames is the warning reported when a directory holds no solution files.
var ErrNoFrames = errors.New("frames: no fort.q files found")

// Source lists the solution files of one output directory and loads them by index.
type Source struct {
	dir   string
	files []string
	cache *lru.Cache[int, *Frame]
}

// Open discovers the frames in dir. A missing directory yields an empty source.
func Open(dir string, cacheSize int) (*Source, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[int, *Frame](cacheSize)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, Pattern))
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return &Source{dir: dir, files: files, cache: cache}, nil
}

func (s *Source) Dir() string { return s.dir }
func (s *Source) Count() int  { return len(s.files) }

// Name returns the file name of frame i.
func (s *Source) Name(i int) string {
	if i < 0 || i >= len(s.files) {
		return ""
	}
	return filepath.Base(s.files[i])
}

// Number is the solver's frame number parsed from the file suffix, or i if it has none.
func (s *Source) Number(i int) int {
	suffix := strings.TrimPrefix(s.Name(i), "fort.q")
	if n, err := strconv.Atoi(suffix); err == nil {
		return n
	}
	return i
}

// Load parses frame i, reusing a cached copy when available.
func (s *Source) Load(i int) (*Frame, error) {
	if i < 0 || i >= len(s.files) {
		return nil, fmt.Errorf("frames: index %d out of range [0, %d)", i, len(s.files))
	}
	if f, ok := s.cache.Get(i); ok {
		return f, nil
	}

	path := s.files[i]
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	patches, err := ParseQ(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	frame := &Frame{Index: i, Number: s.Number(i), Patches: patches}
	tpath := filepath.Join(s.dir, "fort.t"+strings.TrimPrefix(filepath.Base(path), "fort.q"))
	if t, ok := readTime(tpath); ok {
		frame.Time = t
	}
	s.cache.Add(i, frame)
	return frame, nil
}
