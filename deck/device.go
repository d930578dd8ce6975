package deck

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultAddr is where the panel bridge listens when nothing is
// configured.
const DefaultAddr = "ws://127.0.0.1:9906/deck"

const (
	dialTimeout  = 2 * time.Second
	helloTimeout = 2 * time.Second
)

var (
	// ErrDeviceNotFound means no panel answered on any candidate
	// address. Fatal at startup.
	ErrDeviceNotFound = errors.New("deck: no panel found")
	// ErrOpenFailed wraps a transport-level open failure, e.g. the
	// panel is already claimed by another process.
	ErrOpenFailed = errors.New("deck: open failed")
)

// DeviceInfo identifies one reachable panel.
type DeviceInfo struct {
	Name    string
	Addr    string
	Buttons int
}

// RawEvent is one inbound input frame, still carrying the loosely
// typed payload the wire format allows (bare index or record).
type RawEvent struct {
	Kind    string
	Payload any
}

// frame is the JSON wire format, both directions.
type frame struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Name    string `json:"name,omitempty"`
	Buttons int    `json:"buttons,omitempty"`
	Index   int    `json:"index,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Pixels  string `json:"pixels,omitempty"`
	Percent int    `json:"percent,omitempty"`
}

// Device is one open panel connection. Writes are serialized on one
// mutex; the read loop feeds Events until the connection drops.
type Device struct {
	info    DeviceInfo
	conn    *websocket.Conn
	writeMu sync.Mutex
	events  chan RawEvent
	log     *zap.Logger

	closeOnce sync.Once
}

// Discover probes each candidate address and returns the panels that
// answered with a hello frame.
func Discover(candidates []string, log *zap.Logger) ([]DeviceInfo, error) {
	if len(candidates) == 0 {
		candidates = []string{DefaultAddr}
	}

	var infos []DeviceInfo
	for _, addr := range candidates {
		info, err := probe(addr)
		if err != nil {
			log.Debug("no panel", zap.String("addr", addr), zap.Error(err))
			continue
		}
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return nil, ErrDeviceNotFound
	}
	return infos, nil
}

func probe(addr string) (DeviceInfo, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(addr, nil)
	if err != nil {
		return DeviceInfo{}, err
	}
	defer conn.Close()

	info, err := readHello(conn, addr)
	if err != nil {
		return DeviceInfo{}, err
	}
	return info, nil
}

func readHello(conn *websocket.Conn, addr string) (DeviceInfo, error) {
	conn.SetReadDeadline(time.Now().Add(helloTimeout))
	defer conn.SetReadDeadline(time.Time{})

	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		return DeviceInfo{}, err
	}
	if f.Type != "hello" {
		return DeviceInfo{}, fmt.Errorf("unexpected frame %q before hello", f.Type)
	}
	return DeviceInfo{Name: f.Name, Addr: addr, Buttons: f.Buttons}, nil
}

// Open dials a panel and starts its read loop.
func Open(addr string, log *zap.Logger) (*Device, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v (is another process holding the panel?)", ErrOpenFailed, addr, err)
	}

	info, err := readHello(conn, addr)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, addr, err)
	}

	d := &Device{
		info:   info,
		conn:   conn,
		events: make(chan RawEvent, 32),
		log:    log,
	}
	go d.readLoop()

	log.Info("panel open", zap.String("name", info.Name), zap.String("addr", addr))
	return d, nil
}

func (d *Device) Info() DeviceInfo { return d.info }

// Events delivers inbound input frames in arrival order. The channel
// closes when the connection drops.
func (d *Device) Events() <-chan RawEvent { return d.events }

func (d *Device) readLoop() {
	defer close(d.events)
	for {
		var f frame
		if err := d.conn.ReadJSON(&f); err != nil {
			d.log.Debug("panel read loop ended", zap.Error(err))
			return
		}
		if f.Type != "event" {
			continue
		}
		select {
		case d.events <- RawEvent{Kind: f.Kind, Payload: f.Payload}:
		default:
			// consumer stalled, drop rather than block the socket
		}
	}
}

// FillButton writes one button face as raw RGBA pixels.
func (d *Device) FillButton(index int, img *image.RGBA) error {
	b := img.Bounds()
	return d.write(frame{
		Type:   "draw",
		Index:  index,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: base64.StdEncoding.EncodeToString(img.Pix),
	})
}

// ClearAll blanks every button face.
func (d *Device) ClearAll() error {
	return d.write(frame{Type: "clear"})
}

// SetBrightness sets the global panel brightness, clamped to 0-100.
func (d *Device) SetBrightness(percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return d.write(frame{Type: "brightness", Percent: percent})
}

func (d *Device) write(f frame) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	return d.conn.WriteJSON(f)
}

// Close blanks the panel and drops the connection.
func (d *Device) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.write(frame{Type: "clear"})
		err = d.conn.Close()
	})
	return err
}
