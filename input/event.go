package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEvent marks a raw payload that could not be normalized
// to a canonical index or dial id. Such events are logged and dropped
// by the router, never propagated.
var ErrMalformedEvent = errors.New("input: malformed event")

type Dial int

const (
	DialLeft Dial = iota
	DialRight
)

func (d Dial) String() string {
	if d == DialRight {
		return "right"
	}
	return "left"
}

// Event is the closed set of panel input messages. All events for a
// device are delivered in order through one channel and handled by a
// single consumer.
type Event interface{ event() }

type ButtonDown struct{ Index int }
type ButtonUp struct{ Index int }
type DialRotate struct {
	Dial  Dial
	Delta int
}
type DialPress struct{ Dial Dial }
type DialRelease struct{ Dial Dial }

func (ButtonDown) event()  {}
func (ButtonUp) event()    {}
func (DialRotate) event()  {}
func (DialPress) event()   {}
func (DialRelease) event() {}

// Decode normalizes one raw transport frame (kind + loosely typed
// payload) into an Event. The transport may send a bare numeric
// index or a structured record carrying one.
func Decode(kind string, payload any) (Event, error) {
	switch kind {
	case "down":
		i, err := NormalizeIndex(payload)
		if err != nil {
			return nil, err
		}
		return ButtonDown{Index: i}, nil
	case "up":
		i, err := NormalizeIndex(payload)
		if err != nil {
			return nil, err
		}
		return ButtonUp{Index: i}, nil
	case "dial":
		d, err := normalizeDial(payload)
		if err != nil {
			return nil, err
		}
		delta, err := normalizeDelta(payload)
		if err != nil {
			return nil, err
		}
		return DialRotate{Dial: d, Delta: delta}, nil
	case "dialDown":
		d, err := normalizeDial(payload)
		if err != nil {
			return nil, err
		}
		return DialPress{Dial: d}, nil
	case "dialUp":
		d, err := normalizeDial(payload)
		if err != nil {
			return nil, err
		}
		return DialRelease{Dial: d}, nil
	}
	return nil, fmt.Errorf("%w: kind %q", ErrMalformedEvent, kind)
}

// NormalizeIndex reduces the accepted payload shapes to one canonical
// button index: a bare number, or a record with an "index" field.
func NormalizeIndex(payload any) (int, error) {
	if n, ok := asInt(payload); ok {
		return n, nil
	}
	if m, ok := payload.(map[string]any); ok {
		if n, ok := asInt(m["index"]); ok {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: no index in %T payload", ErrMalformedEvent, payload)
}

func normalizeDial(payload any) (Dial, error) {
	v := payload
	if m, ok := payload.(map[string]any); ok {
		v = m["dial"]
	}
	if n, ok := asInt(v); ok {
		switch n {
		case 0:
			return DialLeft, nil
		case 1:
			return DialRight, nil
		}
		return 0, fmt.Errorf("%w: dial %d", ErrMalformedEvent, n)
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "left", "l":
			return DialLeft, nil
		case "right", "r":
			return DialRight, nil
		}
	}
	return 0, fmt.Errorf("%w: no dial id in %T payload", ErrMalformedEvent, payload)
}

func normalizeDelta(payload any) (int, error) {
	if m, ok := payload.(map[string]any); ok {
		if n, ok := asInt(m["delta"]); ok {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: no delta in %T payload", ErrMalformedEvent, payload)
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
