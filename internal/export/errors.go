package export

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFPS    = errors.New("export: frames per second must be positive")
	ErrNoFigures     = errors.New("export: no figures to capture")
	ErrUnknownFormat = errors.New("export: unknown image format")
)

// ExportError reports a failed artifact write. Frame is -1 when the failure
// is not tied to a single frame.
type ExportError struct {
	Op    string
	Path  string
	Frame int
	Err   error
}

func (e *ExportError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("export %s %s (frame %d): %v", e.Op, e.Path, e.Frame, e.Err)
	}
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
