package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"chainpad/catalog"
	"chainpad/config"
	"chainpad/deck"
	"chainpad/input"
	"chainpad/layout"
	"chainpad/midi"
	"chainpad/nav"
	"chainpad/render"
	"chainpad/theme"
	"chainpad/tui"
)

const (
	cornerRadius   = 12
	volumeCC       = 7
	brightnessStep = 5
)

// Controller composes the deck, the navigation session, the input
// router and the MIDI sender, and owns the device lifecycle. One
// goroutine (run) consumes all input and reload events, so session
// state needs no locking of its own.
type Controller struct {
	log         *zap.Logger
	cfg         *config.Config
	catalogPath string

	dev     *deck.Device
	sender  *midi.Sender
	session *nav.Session
	router  *input.Router
	watcher *fsnotify.Watcher

	brightness int
	volume     int

	// Snapshot for the TUI mirror, guarded separately because the
	// TUI reads from its own goroutine.
	mu      sync.Mutex
	status  tui.Status
	updates chan struct{}
}

func NewController(cfg *config.Config, catalogPath string, log *zap.Logger) *Controller {
	return &Controller{
		log:         log,
		cfg:         cfg,
		catalogPath: catalogPath,
		brightness:  cfg.Brightness,
		volume:      100,
		updates:     make(chan struct{}, 1),
	}
}

// Start finds and opens the panel, wires the session and router, and
// performs the initial catalog load. Device errors here are fatal;
// a failed catalog load only leaves navigation degraded.
func (c *Controller) Start(ctx context.Context) error {
	var candidates []string
	if c.cfg.DeviceAddr != "" {
		candidates = append(candidates, c.cfg.DeviceAddr)
	}

	infos, err := deck.Discover(candidates, c.log)
	if err != nil {
		return fmt.Errorf("%w (is the panel bridge running?)", err)
	}
	dev, err := deck.Open(infos[0].Addr, c.log)
	if err != nil {
		return err
	}
	c.dev = dev
	c.dev.SetBrightness(c.brightness)

	sender, err := midi.NewSender(c.cfg.MIDIPort, c.log)
	if err != nil {
		c.log.Warn("midi output unavailable, activations are log-only", zap.Error(err))
	} else {
		c.sender = sender
	}

	c.session = nav.NewSession(c, c.activateModule, c.log)
	c.router = input.NewRouter(c.session, c.log)
	c.bindDials()

	cat, err := catalog.LoadFile(c.catalogPath)
	if err != nil {
		c.log.Error("catalog load failed, navigation disabled", zap.Error(err))
		c.session.SetCatalog(nil)
	} else {
		c.log.Info("catalog loaded", zap.Int("chains", len(cat.Chains)))
		c.session.SetCatalog(cat)
	}

	if w, err := fsnotify.NewWatcher(); err != nil {
		c.log.Warn("catalog watch unavailable", zap.Error(err))
	} else if err := w.Add(c.catalogPath); err != nil {
		c.log.Warn("catalog watch unavailable", zap.Error(err))
		w.Close()
	} else {
		c.watcher = w
	}

	go c.run(ctx)
	return nil
}

// run is the single event loop: panel input and catalog file changes
// are handled to completion, in order, one at a time.
func (c *Controller) run(ctx context.Context) {
	var watchEvents chan fsnotify.Event
	var watchErrors chan error
	if c.watcher != nil {
		watchEvents = c.watcher.Events
		watchErrors = c.watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return

		case raw, ok := <-c.dev.Events():
			if !ok {
				c.log.Error("panel disconnected")
				return
			}
			c.noteEvent(raw.Kind)
			c.router.HandleRaw(raw.Kind, raw.Payload)

		case ev, ok := <-watchEvents:
			if !ok {
				watchEvents = nil
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				c.reload()
			}

		case err, ok := <-watchErrors:
			if !ok {
				watchErrors = nil
				continue
			}
			c.log.Warn("catalog watch error", zap.Error(err))
		}
	}
}

// reload re-reads the catalog file. Failure keeps the current
// catalog; success replaces it wholesale and re-enters the list view.
func (c *Controller) reload() {
	cat, err := catalog.LoadFile(c.catalogPath)
	if err != nil {
		c.log.Error("catalog reload failed, keeping current catalog", zap.Error(err))
		return
	}
	c.log.Info("catalog reloaded", zap.Int("chains", len(cat.Chains)))
	c.session.SetCatalog(cat)
}

func (c *Controller) bindDials() {
	c.router.BindDial(input.DialLeft, input.DialBinding{
		OnRotate: func(delta int) {
			c.brightness = clamp(c.brightness+delta*brightnessStep, 10, 100)
			if err := c.dev.SetBrightness(c.brightness); err != nil {
				c.log.Warn("set brightness failed", zap.Error(err))
			}
		},
		OnPress: func() { c.reload() },
	})
	c.router.BindDial(input.DialRight, input.DialBinding{
		OnRotate: func(delta int) {
			ch := c.session.Selected()
			if ch == nil {
				return
			}
			c.volume = clamp(c.volume+delta*2, 0, 127)
			if c.sender != nil {
				c.sender.Control(chainChannel(ch), volumeCC, uint8(c.volume))
			}
		},
		OnPress: func() { c.session.ShowCatalog() },
	})
}

// ShowSlots implements nav.Renderer: full clear, then every face is
// rendered and written individually so one bad button never takes
// down the rest of the layout.
func (c *Controller) ShowSlots(slots []layout.Slot) error {
	if err := c.dev.ClearAll(); err != nil {
		c.log.Warn("panel clear failed", zap.Error(err))
	}

	for _, s := range slots {
		img, err := render.Label(render.Spec{
			Text:         s.Text,
			TextColor:    theme.Text,
			Background:   s.Color,
			CornerRadius: cornerRadius,
			Overlay:      s.Overlay,
			OverlayColor: theme.Overlay,
		})
		if err != nil {
			c.log.Warn("render failed", zap.Int("index", s.Index), zap.Error(err))
			continue
		}
		if err := c.dev.FillButton(s.Index, img); err != nil {
			c.log.Warn("button write failed", zap.Int("index", s.Index), zap.Error(err))
		}
	}

	c.publishStatus(slots)
	return nil
}

// activateModule is the session's activation hook: one note on the
// chain's MIDI channel, when the module carries a note at all.
func (c *Controller) activateModule(ch *catalog.Chain, m *catalog.Module) {
	if m.MIDINote == nil {
		c.log.Info("module has no midi note, activation is log-only",
			zap.String("module", m.DeviceName))
		return
	}
	if c.sender == nil {
		return
	}
	if err := c.sender.Activate(chainChannel(ch), uint8(*m.MIDINote)); err != nil {
		c.log.Warn("activation send failed", zap.Error(err))
	}
}

// chainChannel maps the document's 1-based MIDI channel to the wire
// channel, defaulting to 0.
func chainChannel(ch *catalog.Chain) uint8 {
	if ch.MIDIChannel != nil && *ch.MIDIChannel >= 1 && *ch.MIDIChannel <= 16 {
		return uint8(*ch.MIDIChannel - 1)
	}
	return 0
}

// Stop releases the device handle and collaborators.
func (c *Controller) Stop() {
	if c.watcher != nil {
		c.watcher.Close()
	}
	if c.sender != nil {
		c.sender.Close()
	}
	if c.dev != nil {
		c.dev.Close()
	}
}

// tui.Source implementation

func (c *Controller) Status() tui.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Updates() <-chan struct{} { return c.updates }

func (c *Controller) publishStatus(slots []layout.Slot) {
	viewName := "catalog"
	chainName := ""
	if c.session.View() == nav.ViewChain {
		viewName = "chain"
		if sel := c.session.Selected(); sel != nil {
			chainName = sel.Name
		}
	}

	c.mu.Lock()
	c.status.DeviceName = c.dev.Info().Name
	c.status.ViewName = viewName
	c.status.ChainName = chainName
	c.status.Slots = slots
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) noteEvent(kind string) {
	c.mu.Lock()
	c.status.LastEvent = kind
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
