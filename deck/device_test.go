package deck

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chainpad/render"
	"chainpad/theme"
)

var upgrader = websocket.Upgrader{}

// fakePanel is a bridge endpoint that answers with a hello and
// records every frame the client writes.
func fakePanel(t *testing.T, inbound chan frame, outbound chan frame) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.WriteJSON(frame{Type: "hello", Name: "testpanel", Buttons: 32})

		go func() {
			for f := range outbound {
				conn.WriteJSON(f)
			}
		}()
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			select {
			case inbound <- f:
			default:
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDiscover(t *testing.T) {
	addr := fakePanel(t, make(chan frame, 16), make(chan frame))

	infos, err := Discover([]string{"ws://127.0.0.1:1/nope", addr}, zap.NewNop())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 panel, got %d", len(infos))
	}
	if infos[0].Name != "testpanel" || infos[0].Buttons != 32 || infos[0].Addr != addr {
		t.Errorf("info wrong: %+v", infos[0])
	}
}

func TestDiscoverNotFound(t *testing.T) {
	_, err := Discover([]string{"ws://127.0.0.1:1/nope"}, zap.NewNop())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenFailed(t *testing.T) {
	_, err := Open("ws://127.0.0.1:1/nope", zap.NewNop())
	if !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
}

func TestDeviceEventsAndWrites(t *testing.T) {
	inbound := make(chan frame, 16)
	outbound := make(chan frame, 16)
	addr := fakePanel(t, inbound, outbound)

	dev, err := Open(addr, zap.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dev.Close()

	if dev.Info().Name != "testpanel" {
		t.Errorf("info wrong: %+v", dev.Info())
	}

	// Inbound events surface in order with the raw payload intact.
	outbound <- frame{Type: "event", Kind: "down", Payload: 5}
	outbound <- frame{Type: "hello"} // non-event frames are skipped
	outbound <- frame{Type: "event", Kind: "dial", Payload: map[string]any{"dial": "left", "delta": -1}}

	ev := waitEvent(t, dev)
	if ev.Kind != "down" {
		t.Fatalf("expected down event, got %+v", ev)
	}
	if n, ok := ev.Payload.(float64); !ok || n != 5 {
		t.Fatalf("expected numeric payload 5, got %#v", ev.Payload)
	}
	ev = waitEvent(t, dev)
	if ev.Kind != "dial" {
		t.Fatalf("expected dial event, got %+v", ev)
	}

	// Button write carries the full RGBA face.
	img, err := render.Label(render.Spec{Text: "Drums", TextColor: theme.Text, Background: theme.Chain})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.FillButton(3, img); err != nil {
		t.Fatalf("FillButton failed: %v", err)
	}
	f := waitFrame(t, inbound)
	if f.Type != "draw" || f.Index != 3 || f.Width != render.ButtonPixels {
		t.Fatalf("draw frame wrong: %+v", f)
	}
	pix, err := base64.StdEncoding.DecodeString(f.Pixels)
	if err != nil {
		t.Fatalf("pixels not base64: %v", err)
	}
	if len(pix) != render.ButtonPixels*render.ButtonPixels*4 {
		t.Fatalf("pixel buffer length %d", len(pix))
	}

	if err := dev.ClearAll(); err != nil {
		t.Fatal(err)
	}
	if f := waitFrame(t, inbound); f.Type != "clear" {
		t.Fatalf("expected clear frame, got %+v", f)
	}

	if err := dev.SetBrightness(150); err != nil {
		t.Fatal(err)
	}
	if f := waitFrame(t, inbound); f.Type != "brightness" || f.Percent != 100 {
		t.Fatalf("brightness must clamp to 100: %+v", f)
	}
}

func waitEvent(t *testing.T, dev *Device) RawEvent {
	t.Helper()
	select {
	case ev, ok := <-dev.Events():
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return RawEvent{}
}

func waitFrame(t *testing.T, frames chan frame) frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return frame{}
}
