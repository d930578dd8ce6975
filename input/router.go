package input

import (
	"go.uber.org/zap"
)

// ButtonTarget receives resolved button presses and releases. The
// navigation session implements it; an unbound index is its no-op to
// make, not the router's.
type ButtonTarget interface {
	Press(index int)
	Release(index int)
}

// DialBinding holds the optional handlers for one physical dial. Set
// once at wiring time; navigation never alters it.
type DialBinding struct {
	OnRotate  func(delta int)
	OnPress   func()
	OnRelease func()
}

// Router fans decoded events out to the button target and the two
// dial bindings. It carries no navigation state.
type Router struct {
	log     *zap.Logger
	buttons ButtonTarget
	dials   [2]DialBinding
}

func NewRouter(buttons ButtonTarget, log *zap.Logger) *Router {
	return &Router{log: log, buttons: buttons}
}

func (r *Router) BindDial(d Dial, b DialBinding) {
	r.dials[d] = b
}

// Handle dispatches one event. Absent handlers are silent no-ops.
func (r *Router) Handle(ev Event) {
	switch ev := ev.(type) {
	case ButtonDown:
		r.log.Debug("button down", zap.Int("index", ev.Index))
		r.buttons.Press(ev.Index)
	case ButtonUp:
		r.buttons.Release(ev.Index)
	case DialRotate:
		if fn := r.dials[ev.Dial].OnRotate; fn != nil {
			fn(ev.Delta)
		}
	case DialPress:
		if fn := r.dials[ev.Dial].OnPress; fn != nil {
			fn()
		}
	case DialRelease:
		if fn := r.dials[ev.Dial].OnRelease; fn != nil {
			fn()
		}
	}
}

// HandleRaw decodes one transport frame and dispatches it. Malformed
// frames are logged and dropped.
func (r *Router) HandleRaw(kind string, payload any) {
	ev, err := Decode(kind, payload)
	if err != nil {
		r.log.Warn("dropping event", zap.String("kind", kind), zap.Error(err))
		return
	}
	r.Handle(ev)
}
