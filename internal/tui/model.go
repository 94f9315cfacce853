package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/nav"
	"github.com/san-kum/iplot/internal/plot"
	"github.com/san-kum/iplot/internal/viz"
)

const barWidth = 24

type Options struct {
	Router   *nav.Router
	Renderer *plot.Renderer
	Source   *frames.Source
	Title    string
	Theme    string
}

// Model hosts a Router in a terminal program. Every key except quit, help
// and esc goes to the router; router events drive the status line and the
// window title.
type Model struct {
	router   *nav.Router
	renderer *plot.Renderer
	src      *frames.Source
	title    string

	keys   keyMap
	help   help.Model
	styles styles

	pending []nav.Event
	status  string
	failed  bool

	width  int
	height int
}

func New(opts Options) *Model {
	theme := viz.GetTheme(opts.Theme)
	h := help.New()
	h.Styles = helpStyles(theme)

	m := &Model{
		router:   opts.Router,
		renderer: opts.Renderer,
		src:      opts.Source,
		title:    opts.Title,
		keys:     newKeyMap(opts.Router.State().Bindings(), opts.Router.Keys()),
		help:     h,
		styles:   newStyles(theme),
		width:    80,
		height:   24,
	}
	m.router.Subscribe(func(ev nav.Event) { m.pending = append(m.pending, ev) })
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.WindowTitle())
}

// WindowTitle is the configured title, followed by the digits typed so far
// while a frame index is being entered.
func (m *Model) WindowTitle() string {
	if st := m.router.State(); st.InEntry() {
		return fmt.Sprintf("%s (#%s)", m.title, st.Pending())
	}
	return m.title
}

// Status is the last export or error message, and whether it reports a failure.
func (m *Model) Status() (string, bool) { return m.status, m.failed }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.router.CancelEntry()
	case msg.Type == tea.KeyRunes && (len(msg.Runes) > 1 || msg.Paste):
		// A paste or a burst of typing arrives as one message.
		for _, r := range msg.Runes {
			if err = m.router.HandleKey(string(r)); err != nil {
				break
			}
		}
	default:
		err = m.router.HandleKey(msg.String())
	}
	reported, cmd := m.drain()
	if err != nil && !reported {
		m.status, m.failed = err.Error(), true
	}
	return cmd
}

// drain applies queued router events and reports whether one was a failure.
func (m *Model) drain() (bool, tea.Cmd) {
	events := m.pending
	m.pending = nil

	var failed, retitle bool
	for _, ev := range events {
		switch ev.Kind {
		case nav.EventFrameChanged:
			m.status, m.failed = "", false
		case nav.EventEntryChanged, nav.EventEntryCleared:
			retitle = true
		case nav.EventExported:
			m.status, m.failed = "wrote "+ev.Path, false
		case nav.EventExportFailed:
			m.status, m.failed = ev.Err.Error(), true
			failed = true
		}
	}
	if retitle {
		return failed, tea.SetWindowTitle(m.WindowTitle())
	}
	return failed, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.WindowTitle()))
	b.WriteString("\n\n")

	n := max(m.renderer.NumFigures(), 1)
	w := max(m.width-2, 20)
	h := max((m.height-8)/n-2, 4)
	for i := 0; i < m.renderer.NumFigures(); i++ {
		b.WriteString(m.styles.plot.Render(m.renderer.Figure(i).View(w, h)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if st := m.router.State(); st.InEntry() {
		b.WriteString(m.styles.accent.Render("go to: " + st.Pending() + "▋"))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := m.styles.accent
		if m.failed {
			style = m.styles.err
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) statusLine() string {
	st := m.router.State()
	if st.Max() == 0 {
		return m.styles.muted.Render(fmt.Sprintf("no %s files in %s", frames.Pattern, m.src.Dir()))
	}
	i := st.Current()
	parts := []string{
		m.styles.text.Render(fmt.Sprintf("frame %d/%d", i+1, st.Max())),
		m.styles.muted.Render(m.src.Name(i)),
	}
	if fr := m.renderer.Frame(); fr != nil {
		parts = append(parts, m.styles.text.Render(fmt.Sprintf("t = %g", fr.Time)))
	}
	parts = append(parts, m.styles.accent.Render(viz.PositionBar(i, st.Max(), barWidth)))
	return strings.Join(parts, "  ")
}

// Run blocks until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
