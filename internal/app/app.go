// Package app wires the notification pipeline together: configuration,
// model, renderer, terminal window, poller, history, and Lua hooks. It
// owns the terminal event loop and serializes render passes so the
// pipeline itself can stay lock-free.
package app

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/chime/internal/config"
	"github.com/dshills/chime/internal/history"
	"github.com/dshills/chime/internal/logging"
	"github.com/dshills/chime/internal/notify"
	"github.com/dshills/chime/internal/poll"
	"github.com/dshills/chime/internal/renderer"
	"github.com/dshills/chime/internal/renderer/highlight"
	"github.com/dshills/chime/internal/script"
	"github.com/dshills/chime/internal/window"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means defaults.
	ConfigPath string

	// Watch reloads the configuration when the file changes.
	Watch bool

	// Demo feeds sample notifications through the pipeline.
	Demo bool

	// Tabstop is the tab width used when measuring messages.
	Tabstop int

	// LogPath appends diagnostics to a file. Logging to the terminal
	// would fight the screen, so empty disables logging entirely.
	LogPath string

	// LogLevel sets verbosity when LogPath is set.
	LogLevel string
}

// Application coordinates the notification pipeline and the terminal
// event loop.
type Application struct {
	opts Options
	cfg  config.Config

	log     *logging.Logger
	logFile *os.File
	palette *highlight.Palette
	model   *notify.Model
	engine  *renderer.Renderer
	win     *window.Window
	poller  *poll.Poller
	archive *history.Ring
	scripts *script.Engine
	watcher *config.Watcher

	// mu serializes render passes and archive access across the
	// poller, the event loop, and config reloads. The model carries
	// its own lock; the rest of the pipeline is single-threaded.
	mu sync.Mutex

	running  atomic.Bool
	shutdown sync.Once
	done     chan struct{}
}

// New creates an application from the given options. The terminal
// window is attached separately with SetWindow.
func New(opts Options) (*Application, error) {
	a := &Application{opts: opts, done: make(chan struct{})}
	if err := a.bootstrap(); err != nil {
		if a.logFile != nil {
			a.logFile.Close()
		}
		if a.scripts != nil {
			a.scripts.Close()
		}
		return nil, err
	}
	return a, nil
}

// bootstrap initializes the terminal-independent components.
func (a *Application) bootstrap() error {
	// 1. Logging
	a.log = logging.Null
	if a.opts.LogPath != "" {
		f, err := os.OpenFile(a.opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "logging", Err: err}
		}
		a.logFile = f
		a.log = logging.New(logging.Config{
			Level:  logging.ParseLevel(a.opts.LogLevel),
			Output: f,
			Prefix: "chime",
		})
	}

	// 2. Configuration
	cfg := config.Default()
	if a.opts.ConfigPath != "" {
		loaded, err := config.Load(a.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	a.cfg = cfg

	// 3. Palette and model
	a.palette = highlight.NewPalette()
	cfg.ApplyStyles(a.palette)
	a.model = notify.New(cfg.Model)
	cfg.ApplyGroups(a.model)

	// 4. Lua hooks
	a.scripts = script.New()
	if err := a.loadScripts(cfg); err != nil {
		return &InitError{Component: "script", Err: err}
	}

	// 5. History
	a.archive = history.New(cfg.HistorySize)

	return nil
}

// SetWindow attaches the terminal window and builds the renderer and
// poller on top of it. Must be called before Run.
func (a *Application) SetWindow(w *window.Window) {
	a.win = w

	opts := a.cfg.Render
	opts.RenderMessage = a.messageHook(a.cfg)
	a.engine = renderer.New(w, a.palette, opts)
	a.engine.SetCaptureSource(highlight.NewLexerSource())
	a.engine.SetLogger(a.log)

	a.poller = poll.New(a.cfg.PollPeriod, a.tick, a.log)
}

// Run initializes the window and blocks on the terminal event loop
// until quit is requested. It returns ErrQuit on a normal exit.
func (a *Application) Run() error {
	if a.win == nil || a.engine == nil {
		return ErrNoWindow
	}
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if err := a.win.Init(); err != nil {
		return &InitError{Component: "window", Err: err}
	}
	defer a.Shutdown()

	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := config.WatchFile(a.opts.ConfigPath, 0, a.log, a.reconfigure)
		if err != nil {
			a.log.Warn("config watch disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	a.renderNow()
	a.poller.Start()

	if a.opts.Demo {
		go a.demo()
	}

	for {
		ev := a.win.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			a.win.Sync()
			a.renderNow()
		case *tcell.EventKey:
			if a.handleKey(e) {
				return ErrQuit
			}
		}
	}
}

// handleKey reacts to a key event and reports whether to quit.
func (a *Application) handleKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	switch e.Rune() {
	case 'q':
		return true
	case 'h':
		a.echoHistory()
	case 'c':
		a.clearAll()
	}
	return false
}

// Shutdown stops the pipeline and restores the terminal. It is safe to
// call more than once.
func (a *Application) Shutdown() {
	a.shutdown.Do(func() {
		if a.watcher != nil {
			a.watcher.Close()
		}
		if a.poller != nil {
			a.poller.Stop()
			<-a.poller.Done()
		}
		if a.scripts != nil {
			a.scripts.Close()
		}
		if a.win != nil {
			a.win.Fini()
		}
		if a.logFile != nil {
			a.logFile.Close()
		}
		close(a.done)
	})
}

// Done is closed when the application has shut down.
func (a *Application) Done() <-chan struct{} {
	return a.done
}

// Palette returns the highlight palette, for wiring a window.
func (a *Application) Palette() *highlight.Palette {
	return a.palette
}

// Post inserts or updates a notification and schedules a render.
func (a *Application) Post(n notify.Notification) *notify.Item {
	it := a.model.Post(time.Now(), n)
	if a.poller != nil {
		a.poller.Kick()
	}
	return it
}

// Dismiss removes one notification, archiving it in the history.
func (a *Application) Dismiss(group string, key any) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	it := a.model.Remove(group, key)
	if it == nil {
		return false
	}
	now := time.Now()
	a.archive.Observe([]notify.Removal{{Group: group, Item: it}}, now)
	a.present(now)
	return true
}

// History returns the archived records, oldest first.
func (a *Application) History() []history.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.archive.Records()
}

// tick is the poll body: prune expired items, archive them, render.
// Polling stays active while items remain on screen.
func (a *Application) tick(now time.Time) bool {
	a.mu.Lock()
	removed := a.model.Tick(now)
	a.archive.Observe(removed, now)
	a.present(now)
	a.mu.Unlock()

	return a.model.Len() > 0
}

// present runs one render pass and paints the frame. Callers hold
// a.mu.
func (a *Application) present(now time.Time) {
	frame := a.engine.Render(now, a.model.Groups())
	a.win.Draw(frame)
}

// renderNow runs a single render pass.
func (a *Application) renderNow() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.present(time.Now())
}

// clearAll dismisses every notification, archiving each one.
func (a *Application) clearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	var removed []notify.Removal
	for _, g := range a.model.Groups() {
		for _, it := range g.Items {
			if got := a.model.Remove(g.Key, it.Key); got != nil {
				removed = append(removed, notify.Removal{Group: g.Key, Item: got})
			}
		}
	}
	a.archive.Observe(removed, now)
	a.present(now)
}

// echoHistory suspends the screen and prints the archive as plain
// text, waiting for enter before resuming.
func (a *Application) echoHistory() {
	if err := a.win.Suspend(); err != nil {
		a.log.Warn("suspend: %v", err)
		return
	}

	recs := a.History()
	if len(recs) == 0 {
		fmt.Println("history is empty")
	} else if err := history.Echo(os.Stdout, recs); err != nil {
		a.log.Warn("echo history: %v", err)
	}
	fmt.Print("press enter to continue ")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	if err := a.win.Resume(); err != nil {
		a.log.Warn("resume: %v", err)
		return
	}
	a.renderNow()
}

// reconfigure applies a live-reloaded configuration between passes.
func (a *Application) reconfigure(cfg config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	cfg.ApplyStyles(a.palette)
	cfg.ApplyGroups(a.model)
	if err := a.loadScripts(cfg); err != nil {
		a.log.Warn("script reload: %v", err)
	}
	opts := cfg.Render
	opts.RenderMessage = a.messageHook(cfg)
	a.engine.SetOptions(opts)
	a.present(time.Now())
	a.mu.Unlock()

	a.log.Info("configuration reloaded")
	a.poller.Kick()
}

// loadScripts compiles the configured Lua sources into the engine.
func (a *Application) loadScripts(cfg config.Config) error {
	if cfg.Script.Path != "" {
		if err := a.scripts.LoadFile(cfg.Script.Path); err != nil {
			return err
		}
	}
	if cfg.Script.Inline != "" {
		if err := a.scripts.Load(cfg.Script.Inline); err != nil {
			return err
		}
	}
	return nil
}

// messageHook resolves the configured render_message function to a
// hook, or nil when unset or undefined.
func (a *Application) messageHook(cfg config.Config) renderer.MessageHook {
	if cfg.RenderMessage == "" {
		return nil
	}
	if !a.scripts.Defined(cfg.RenderMessage) {
		a.log.Warn("render_message %q is not defined", cfg.RenderMessage)
		return nil
	}
	return a.scripts.MessageHook(cfg.RenderMessage)
}
