package nav

import (
	"errors"
	"fmt"
	"log"
)

var ErrKeyConflict = errors.New("nav: key bound to more than one action")

// Action is the class a key event falls into.
type Action int

const (
	ActionIgnore Action = iota
	ActionStep
	ActionDigit
	ActionCommit
	ActionSaveAll
	ActionExport
)

func (a Action) String() string {
	switch a {
	case ActionStep:
		return "step"
	case ActionDigit:
		return "digit"
	case ActionCommit:
		return "commit"
	case ActionSaveAll:
		return "save-all"
	case ActionExport:
		return "export"
	default:
		return "ignore"
	}
}

// Renderer draws one frame. Calls with the same index must be idempotent.
type Renderer interface {
	Render(index int) error
}

// Exporter drives a full traversal of the frame range.
type Exporter interface {
	SaveAllFrames(dir string) error
	ExportAnimation(fps float64, file string) error
}

// Keys names the non-navigation keys the router reacts to.
type Keys struct {
	Commit  string
	SaveAll string
	Export  string
}

func DefaultKeys() Keys {
	return Keys{Commit: "enter", SaveAll: "a", Export: "w"}
}

type RouterConfig struct {
	Keys          Keys
	PlotDir       string
	AnimationFPS  float64
	AnimationFile string
}

// Router classifies key events and dispatches them against a State.
// It is not safe for concurrent use; the host must deliver keys one at a time.
type Router struct {
	state     *State
	renderer  Renderer
	exporter  Exporter
	cfg       RouterConfig
	listeners []Listener
}

func NewRouter(state *State, renderer Renderer, exporter Exporter, cfg RouterConfig) (*Router, error) {
	seen := map[string]bool{}
	for _, k := range []string{cfg.Keys.Commit, cfg.Keys.SaveAll, cfg.Keys.Export} {
		if k == "" {
			continue
		}
		if _, ok := state.Delta(k); ok || seen[k] || isDigitKey(k) {
			return nil, fmt.Errorf("%w: %q", ErrKeyConflict, k)
		}
		seen[k] = true
	}
	return &Router{state: state, renderer: renderer, exporter: exporter, cfg: cfg}, nil
}

func (r *Router) State() *State { return r.state }
func (r *Router) Keys() Keys    { return r.cfg.Keys }

// Subscribe registers l for every event the router emits.
func (r *Router) Subscribe(l Listener) {
	r.listeners = append(r.listeners, l)
}

func (r *Router) emit(ev Event) {
	for _, l := range r.listeners {
		l(ev)
	}
}

func (r *Router) Classify(key string) Action {
	if _, ok := r.state.Delta(key); ok {
		return ActionStep
	}
	if isDigitKey(key) {
		return ActionDigit
	}
	switch key {
	case "":
		return ActionIgnore
	case r.cfg.Keys.Commit:
		return ActionCommit
	case r.cfg.Keys.SaveAll:
		if r.exporter != nil {
			return ActionSaveAll
		}
	case r.cfg.Keys.Export:
		if r.exporter != nil {
			return ActionExport
		}
	}
	return ActionIgnore
}

// HandleKey processes one key event to completion, including any render it triggers.
func (r *Router) HandleKey(key string) error {
	switch r.Classify(key) {
	case ActionStep:
		if r.state.Step(key) {
			return r.render()
		}
	case ActionDigit:
		if !r.state.InEntry() {
			r.state.BeginEntry()
		}
		r.state.AppendDigit(rune(key[0]))
		r.emit(Event{Kind: EventEntryChanged, Index: r.state.Current(), Buffer: r.state.Pending()})
	case ActionCommit:
		changed := r.state.CommitEntry()
		var err error
		if changed {
			err = r.render()
		}
		r.emit(Event{Kind: EventEntryCleared, Index: r.state.Current()})
		return err
	case ActionSaveAll:
		return r.saveAll()
	case ActionExport:
		return r.exportAnimation()
	}
	return nil
}

// CancelEntry drops buffered digits without moving.
func (r *Router) CancelEntry() {
	if !r.state.InEntry() {
		return
	}
	r.state.CancelEntry()
	r.emit(Event{Kind: EventEntryCleared, Index: r.state.Current()})
}

func (r *Router) render() error {
	i := r.state.Current()
	if err := r.renderer.Render(i); err != nil {
		return fmt.Errorf("render frame %d: %w", i, err)
	}
	r.emit(Event{Kind: EventFrameChanged, Index: i})
	return nil
}

func (r *Router) saveAll() error {
	dir := r.cfg.PlotDir
	log.Printf("saving %d frames to %s", r.state.Max(), dir)
	if err := r.exporter.SaveAllFrames(dir); err != nil {
		r.emit(Event{Kind: EventExportFailed, Index: r.state.Current(), Path: dir, Err: err})
		return err
	}
	r.emit(Event{Kind: EventExported, Index: r.state.Current(), Path: dir})
	return nil
}

func (r *Router) exportAnimation() error {
	file := r.cfg.AnimationFile
	log.Printf("writing animation %s at %.2f fps", file, r.cfg.AnimationFPS)
	if err := r.exporter.ExportAnimation(r.cfg.AnimationFPS, file); err != nil {
		r.emit(Event{Kind: EventExportFailed, Index: r.state.Current(), Path: file, Err: err})
		return err
	}
	r.emit(Event{Kind: EventExported, Index: r.state.Current(), Path: file})
	return nil
}
