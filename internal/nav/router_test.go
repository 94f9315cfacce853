package nav_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/iplot/internal/nav"
)

type recordingRenderer struct {
	calls []int
	err   error
}

func (r *recordingRenderer) Render(i int) error {
	r.calls = append(r.calls, i)
	return r.err
}

type recordingExporter struct {
	saved    []string
	animated []string
	fps      []float64
	err      error
}

func (e *recordingExporter) SaveAllFrames(dir string) error {
	e.saved = append(e.saved, dir)
	return e.err
}

func (e *recordingExporter) ExportAnimation(fps float64, file string) error {
	e.fps = append(e.fps, fps)
	e.animated = append(e.animated, file)
	return e.err
}

var _ = Describe("Router", func() {
	var (
		state    *nav.State
		renderer *recordingRenderer
		exporter *recordingExporter
		router   *nav.Router
		events   []nav.Event
	)

	build := func(max int) {
		var err error
		state, err = nav.NewState(max, nil)
		Expect(err).NotTo(HaveOccurred())
		renderer = &recordingRenderer{}
		exporter = &recordingExporter{}
		router, err = nav.NewRouter(state, renderer, exporter, nav.RouterConfig{
			Keys:          nav.DefaultKeys(),
			PlotDir:       "_plots",
			AnimationFPS:  2,
			AnimationFile: "movie.gif",
		})
		Expect(err).NotTo(HaveOccurred())
		events = nil
		router.Subscribe(func(ev nav.Event) { events = append(events, ev) })
	}

	kinds := func() []nav.EventKind {
		out := make([]nav.EventKind, 0, len(events))
		for _, ev := range events {
			out = append(out, ev.Kind)
		}
		return out
	}

	BeforeEach(func() { build(10) })

	Describe("Classify", func() {
		DescribeTable("maps keys to actions",
			func(key string, want nav.Action) {
				Expect(router.Classify(key)).To(Equal(want))
			},
			Entry("right arrow", "right", nav.ActionStep),
			Entry("left arrow", "left", nav.ActionStep),
			Entry("up arrow", "up", nav.ActionStep),
			Entry("down arrow", "down", nav.ActionStep),
			Entry("digit", "7", nav.ActionDigit),
			Entry("enter", "enter", nav.ActionCommit),
			Entry("save all", "a", nav.ActionSaveAll),
			Entry("export", "w", nav.ActionExport),
			Entry("letter", "x", nav.ActionIgnore),
			Entry("multi-digit name", "12", nav.ActionIgnore),
			Entry("empty", "", nav.ActionIgnore),
		)
	})

	Describe("stepping", func() {
		It("renders the new frame once per change", func() {
			Expect(router.HandleKey("right")).To(Succeed())
			Expect(router.HandleKey("up")).To(Succeed())
			Expect(renderer.calls).To(Equal([]int{1, 2}))
			Expect(kinds()).To(Equal([]nav.EventKind{nav.EventFrameChanged, nav.EventFrameChanged}))
		})

		It("does not render at the lower boundary", func() {
			Expect(router.HandleKey("left")).To(Succeed())
			Expect(renderer.calls).To(BeEmpty())
			Expect(events).To(BeEmpty())
		})

		It("holds at the upper boundary", func() {
			for i := 0; i < 15; i++ {
				Expect(router.HandleKey("right")).To(Succeed())
			}
			Expect(state.Current()).To(Equal(9))
			Expect(renderer.calls).To(HaveLen(9))
		})

		It("propagates render failures", func() {
			renderer.err = errors.New("boom")
			err := router.HandleKey("right")
			Expect(err).To(MatchError(ContainSubstring("render frame 1")))
			Expect(state.Current()).To(Equal(1))
		})
	})

	Describe("digit entry", func() {
		It("ignores interleaved keys", func() {
			for _, key := range []string{"2", "x", "tab", "3", "pgup", "enter"} {
				Expect(router.HandleKey(key)).To(Succeed())
			}
			Expect(state.Current()).To(Equal(9))

			build(100)
			for _, key := range []string{"2", "z", "3", "enter"} {
				Expect(router.HandleKey(key)).To(Succeed())
			}
			Expect(state.Current()).To(Equal(23))
			Expect(renderer.calls).To(Equal([]int{23}))
		})

		It("reports the buffer as it grows and clears it on commit", func() {
			Expect(router.HandleKey("4")).To(Succeed())
			Expect(router.HandleKey("2")).To(Succeed())
			Expect(router.HandleKey("enter")).To(Succeed())

			Expect(kinds()).To(Equal([]nav.EventKind{
				nav.EventEntryChanged,
				nav.EventEntryChanged,
				nav.EventFrameChanged,
				nav.EventEntryCleared,
			}))
			Expect(events[0].Buffer).To(Equal("4"))
			Expect(events[1].Buffer).To(Equal("42"))
			Expect(events[3].Index).To(Equal(9))
		})

		It("does not render when the commit lands on the current frame", func() {
			Expect(router.HandleKey("0")).To(Succeed())
			Expect(router.HandleKey("enter")).To(Succeed())
			Expect(renderer.calls).To(BeEmpty())
			Expect(kinds()).To(ContainElement(nav.EventEntryCleared))
		})

		It("jumps to 0 on an empty commit", func() {
			state.JumpTo(6)
			Expect(router.HandleKey("enter")).To(Succeed())
			Expect(state.Current()).To(Equal(0))
			Expect(renderer.calls).To(Equal([]int{0}))
		})

		It("cancels without moving", func() {
			Expect(router.HandleKey("5")).To(Succeed())
			router.CancelEntry()
			Expect(state.Pending()).To(BeEmpty())
			Expect(state.Current()).To(Equal(0))
			Expect(kinds()).To(Equal([]nav.EventKind{nav.EventEntryChanged, nav.EventEntryCleared}))
		})
	})

	Describe("exports", func() {
		It("saves all frames to the plot directory", func() {
			Expect(router.HandleKey("a")).To(Succeed())
			Expect(exporter.saved).To(Equal([]string{"_plots"}))
			Expect(kinds()).To(Equal([]nav.EventKind{nav.EventExported}))
		})

		It("writes the animation with the configured defaults", func() {
			Expect(router.HandleKey("w")).To(Succeed())
			Expect(exporter.animated).To(Equal([]string{"movie.gif"}))
			Expect(exporter.fps).To(Equal([]float64{2}))
		})

		It("reports export failures without touching the state", func() {
			state.JumpTo(4)
			exporter.err = errors.New("disk full")
			Expect(router.HandleKey("a")).To(MatchError("disk full"))
			Expect(state.Current()).To(Equal(4))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(nav.EventExportFailed))
		})
	})

	Context("with no frames", func() {
		BeforeEach(func() { build(0) })

		It("keeps every navigation a no-op", func() {
			for _, key := range []string{"right", "left", "up", "down", "3", "enter"} {
				Expect(router.HandleKey(key)).To(Succeed())
			}
			Expect(state.Current()).To(Equal(0))
			Expect(renderer.calls).To(BeEmpty())
		})
	})

	It("rejects keys bound twice", func() {
		s, err := nav.NewState(3, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = nav.NewRouter(s, renderer, exporter, nav.RouterConfig{
			Keys: nav.Keys{Commit: "enter", SaveAll: "right", Export: "w"},
		})
		Expect(err).To(MatchError(nav.ErrKeyConflict))
	})
})
