// Package session assembles the frame source, plot renderer, navigation
// state, router and export controller for one output directory.
package session

import (
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/iplot/internal/config"
	"github.com/san-kum/iplot/internal/export"
	"github.com/san-kum/iplot/internal/frames"
	"github.com/san-kum/iplot/internal/nav"
	"github.com/san-kum/iplot/internal/plot"
	"github.com/san-kum/iplot/internal/setplot"
	"github.com/san-kum/iplot/internal/tui"
)

type Session struct {
	cfg      *config.Config
	src      *frames.Source
	renderer *plot.Renderer
	exporter *export.Controller
	router   *nav.Router
}

// New validates cfg and builds a session showing frame 0. An output
// directory without frames is logged and yields an empty session.
func New(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "format", Err: err}
	}

	src, err := frames.Open(cfg.Outdir, cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Outdir, err)
	}
	if src.Count() == 0 {
		log.Printf("warning: %v in %s", frames.ErrNoFrames, cfg.Outdir)
	}

	plots, err := setplot.Load(cfg.Setplot)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Setplot, err)
	}

	state, err := nav.NewState(src.Count(), cfg.Bindings)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "bindings", Err: err}
	}
	renderer := plot.NewRenderer(src, plots)
	exporter := export.NewController(state, renderer, format)
	router, err := nav.NewRouter(state, renderer, exporter, cfg.RouterConfig())
	if err != nil {
		return nil, &config.ConfigurationError{Field: "keys", Err: err}
	}

	s := &Session{
		cfg:      cfg,
		src:      src,
		renderer: renderer,
		exporter: exporter,
		router:   router,
	}
	router.Subscribe(func(ev nav.Event) {
		if ev.Kind == nav.EventExportFailed {
			log.Printf("%s %s: %v", ev.Kind, ev.Path, ev.Err)
		}
	})

	log.Printf("session: %d frames in %s, %d figures", src.Count(), cfg.Outdir, renderer.NumFigures())
	if err := renderer.Render(state.Current()); err != nil {
		return nil, fmt.Errorf("render frame 0: %w", err)
	}
	return s, nil
}

func (s *Session) Config() *config.Config       { return s.cfg }
func (s *Session) Source() *frames.Source       { return s.src }
func (s *Session) Renderer() *plot.Renderer     { return s.renderer }
func (s *Session) Router() *nav.Router          { return s.router }
func (s *Session) Exporter() *export.Controller { return s.exporter }

// Export writes the animation headlessly, as the --export-file mode does.
func (s *Session) Export(file string, fps float64) error {
	log.Printf("exporting %d frames to %s at %.2f fps", s.src.Count(), file, fps)
	return s.exporter.ExportAnimation(fps, file)
}

// Interactive runs the terminal browser until the user quits. Logging is
// redirected to the configured log file while the screen is owned by the UI.
func (s *Session) Interactive() error {
	if s.cfg.LogFile != "" {
		f, err := tea.LogToFile(s.cfg.LogFile, "iplot")
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
	}
	return tui.Run(tui.New(tui.Options{
		Router:   s.router,
		Renderer: s.renderer,
		Source:   s.src,
		Title:    s.cfg.Title,
		Theme:    s.cfg.Theme,
	}))
}

// IsConfiguration reports whether err should end the process with a usage failure.
func IsConfiguration(err error) bool {
	var cerr *config.ConfigurationError
	return errors.As(err, &cerr)
}
