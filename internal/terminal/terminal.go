// Package terminal renders the editor and its node library on a character
// grid and turns terminal mouse and key events into editor input.
//
// The surface never touches editor state from the goroutine that reads
// terminal events. Every event is posted to the event loop, and Draw is
// expected to run there as well, typically from the loop's idle hook.
package terminal

import (
	"context"
	"log/slog"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/ComNetsHH/FlowEmu/internal/library"
	"github.com/gdamore/tcell/v2"
)

// DefaultPaletteWidth is the number of columns given to the node library,
// separator included.
const DefaultPaletteWidth = 24

// Surface draws an editor on a tcell screen.
type Surface struct {
	screen  tcell.Screen
	editor  *editor.Editor
	library *library.Library
	post    func(func()) bool
	logger  *slog.Logger

	status       func() string
	quit         func()
	paletteWidth int

	// pressed tracks the primary button so button masks become edges.
	pressed bool
	// cursor indexes the selected node's parameters.
	cursor   int
	cursorOf editor.NodeID
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Surface) { s.logger = ctxlog.OrDiscard(l) } }

// WithStatus sets a callback whose result is shown in the status line.
func WithStatus(f func() string) Option { return func(s *Surface) { s.status = f } }

// WithQuit sets the callback run when the user asks to leave.
func WithQuit(f func()) Option { return func(s *Surface) { s.quit = f } }

// WithPaletteWidth overrides DefaultPaletteWidth. The library must be built
// with a matching origin.
func WithPaletteWidth(w int) Option { return func(s *Surface) { s.paletteWidth = w } }

// New creates a surface. post schedules a function on the goroutine that owns
// ed and lib.
func New(screen tcell.Screen, ed *editor.Editor, lib *library.Library, post func(func()) bool, opts ...Option) *Surface {
	s := &Surface{
		screen:       screen,
		editor:       ed,
		library:      lib,
		post:         post,
		logger:       ctxlog.OrDiscard(nil),
		status:       func() string { return "" },
		quit:         func() {},
		paletteWidth: DefaultPaletteWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "terminal")
	return s
}

// Origin is where the editor canvas starts on the screen.
func (s *Surface) Origin() geom.Point {
	return geom.Point{X: float64(s.paletteWidth)}
}

// Run reads terminal events and posts them to the loop until ctx is done or
// the screen is finalized.
func (s *Surface) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	s.logger.Debug("Terminal surface started.")
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok && ctx.Err() != nil {
			return nil
		}
		if !s.post(func() { s.Handle(ev) }) {
			return nil
		}
	}
}

// Handle applies one terminal event. It must run on the loop.
func (s *Surface) Handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
	case *tcell.EventMouse:
		s.handleMouse(ev)
	case *tcell.EventKey:
		s.handleKey(ev)
	}
	s.syncCursor()
}

func (s *Surface) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := geom.Point{X: float64(x), Y: float64(y)}
	down := ev.Buttons()&tcell.Button1 != 0

	kind := editor.PointerMove
	switch {
	case down && !s.pressed:
		s.pressed = true
		kind = editor.PointerDown
	case !down && s.pressed:
		s.pressed = false
		kind = editor.PointerUp
	}

	if kind == editor.PointerDown && x < s.paletteWidth {
		s.library.HandleInput(editor.InputEvent{Kind: kind, Pos: pos})
		return
	}
	s.editor.HandleInput(editor.InputEvent{Kind: kind, Pos: pos.Sub(s.Origin())})
}

func (s *Surface) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		s.editor.HandleInput(editor.InputEvent{Kind: editor.KeyDown, Key: editor.KeyDelete})
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.quit()
	case tcell.KeyUp:
		s.cursor--
	case tcell.KeyDown:
		s.cursor++
	case tcell.KeyLeft:
		s.adjust(-1)
	case tcell.KeyRight:
		s.adjust(1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			s.quit()
		case '-':
			s.adjust(-1)
		case '+':
			s.adjust(1)
		}
	}
}

// syncCursor keeps the parameter cursor on the selected node's parameters.
func (s *Surface) syncCursor() {
	n := s.editor.Selected()
	if n == nil {
		s.cursor, s.cursorOf = 0, ""
		return
	}
	if n.ID() != s.cursorOf {
		s.cursor, s.cursorOf = 0, n.ID()
	}
	count := len(n.Parameters())
	switch {
	case count == 0:
		s.cursor = 0
	case s.cursor < 0:
		s.cursor = count - 1
	case s.cursor >= count:
		s.cursor = 0
	}
}

// adjust moves the selected parameter by one step in dir.
func (s *Surface) adjust(dir float64) {
	n := s.editor.Selected()
	if n == nil {
		return
	}
	params := n.Parameters()
	if s.cursor < 0 || s.cursor >= len(params) {
		return
	}
	p := params[s.cursor]
	step := p.Step
	if step == 0 {
		step = 1
	}
	if err := s.editor.InputParameter(n.ID(), p.ID, p.Value()+dir*step); err != nil {
		s.logger.Warn("Failed to adjust parameter.", "node", n.ID(), "parameter", p.ID, "error", err)
	}
}
