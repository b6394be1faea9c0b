package web

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/server"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

func dial(t *testing.T, h *Handler, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frameMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg frameMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHandlerSendsInitialFrame(t *testing.T) {
	h := NewHandler(HandlerOptions{Config: config.Default()})
	conn := dial(t, h, "?w=800&h=600")

	msg := readFrame(t, conn)
	if msg.Type != MsgFrame {
		t.Fatalf("type = %q, want %q", msg.Type, MsgFrame)
	}
	if msg.Width != 800 || msg.Height != 600 {
		t.Errorf("field = %vx%v, want 800x600", msg.Width, msg.Height)
	}
	if msg.Player.X != 400-60 || msg.Player.Y != 300-20 {
		t.Errorf("player at (%v,%v), want centered", msg.Player.X, msg.Player.Y)
	}
	if msg.Player.Image != config.PlayerImage {
		t.Errorf("player image = %q", msg.Player.Image)
	}
	if len(msg.Asteroids) != config.InitialAsteroids {
		t.Errorf("asteroids = %d, want %d", len(msg.Asteroids), config.InitialAsteroids)
	}
	if msg.Best != "--:--.---" || msg.Over {
		t.Errorf("unexpected HUD state: best=%q over=%v", msg.Best, msg.Over)
	}
}

func TestHandlerIgnoresBadSizeParams(t *testing.T) {
	h := NewHandler(HandlerOptions{})
	conn := dial(t, h, "?w=-5&h=NaN")

	msg := readFrame(t, conn)
	if msg.Width != config.FieldWidth || msg.Height != config.FieldHeight {
		t.Errorf("field = %vx%v, want defaults", msg.Width, msg.Height)
	}
}

func TestHandlerRejectsUnboundedFrameRate(t *testing.T) {
	cfg := config.Default()
	cfg.TargetFPS = 2_000_000_000
	h := NewHandler(HandlerOptions{Config: cfg})
	conn := dial(t, h, "")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg frameMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected the connection to close, got frame %+v", msg.Type)
	}
}

func TestHandlerShutdown(t *testing.T) {
	hub := server.NewHub(nil)
	h := NewHandler(HandlerOptions{Hub: hub, Store: store.NewMemory()})
	conn := dial(t, h, "")
	readFrame(t, conn)

	go hub.Shutdown(2 * time.Second)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("connection ended before shutdown notice: %v", err)
		}
		if msg["type"] == MsgShutdown {
			return
		}
	}
}

func newTestPlayer(t *testing.T, cfg config.Game) *player {
	t.Helper()
	p := &player{cfg: cfg, store: store.NewMemory(), logger: log.New(io.Discard)}
	if err := p.newGame(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlayerHandle(t *testing.T) {
	p := newTestPlayer(t, config.Default())

	p.handle(clientMessage{Type: MsgKeyDown, Key: "ArrowLeft"})
	p.handle(clientMessage{Type: MsgKeyDown, Key: "Escape"})
	if got := p.game.Keys(); got != object.Keys(0).Press(object.Left) {
		t.Errorf("keys = %04b, want left", got)
	}
	p.handle(clientMessage{Type: MsgKeyUp, Key: "ArrowLeft"})
	if !p.game.Keys().Empty() {
		t.Errorf("keys = %04b, want none", p.game.Keys())
	}

	p.handle(clientMessage{Type: MsgKeyDown, Key: "ArrowUp"})
	p.handle(clientMessage{Type: MsgKeyDown, Key: "ArrowRight"})
	p.handle(clientMessage{Type: MsgBlur})
	if !p.game.Keys().Empty() {
		t.Errorf("keys after blur = %04b, want none", p.game.Keys())
	}

	p.handle(clientMessage{Type: MsgResize, Width: 1000, Height: 500})
	if f := p.game.Field(); f.Width != 1000 || f.Height != 500 {
		t.Errorf("field = %+v", f)
	}
	p.handle(clientMessage{Type: MsgResize, Width: 0, Height: 500})
	if f := p.game.Field(); f.Width != 1000 {
		t.Errorf("zero resize applied: %+v", f)
	}

	old := p.game
	p.handle(clientMessage{Type: MsgRestart})
	if p.game != old {
		t.Error("restart while running replaced the game")
	}
}

func TestPlayerRestartKeepsFieldSize(t *testing.T) {
	cfg := config.Default()
	cfg.PlayerWidth = 4 * cfg.FieldWidth
	cfg.PlayerHeight = 4 * cfg.FieldHeight
	cfg.InitialAsteroids = 1
	cfg.AsteroidMaxSpeed = 0
	p := newTestPlayer(t, cfg)

	p.handle(clientMessage{Type: MsgResize, Width: 900, Height: 700})
	p.game.Tick(100)
	if !p.game.Over() {
		t.Fatal("expected game over")
	}
	if f := p.frame(); !f.Over || f.Best != "00:00.100" {
		t.Errorf("frame over=%v best=%q", f.Over, f.Best)
	}

	p.handle(clientMessage{Type: MsgRestart})
	if p.game.Over() {
		t.Fatal("restart did not start a new game")
	}
	if f := p.game.Field(); f.Width != 900 || f.Height != 700 {
		t.Errorf("restarted field = %+v, want 900x700", f)
	}
}
