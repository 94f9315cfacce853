package nav

type EventKind int

const (
	// EventFrameChanged follows a render triggered by a key.
	EventFrameChanged EventKind = iota
	// EventEntryChanged carries the digits typed so far.
	EventEntryChanged
	// EventEntryCleared is emitted after every commit and on cancel.
	EventEntryCleared
	EventExported
	EventExportFailed
)

func (k EventKind) String() string {
	switch k {
	case EventFrameChanged:
		return "frame-changed"
	case EventEntryChanged:
		return "entry-buffer-changed"
	case EventEntryCleared:
		return "entry-buffer-cleared"
	case EventExported:
		return "exported"
	case EventExportFailed:
		return "export-failed"
	}
	return "unknown"
}

type Event struct {
	Kind   EventKind
	Index  int
	Buffer string
	Path   string
	Err    error
}

type Listener func(Event)
