// Package web drives games for browser clients over websockets.
//
// Each connection owns one game. A reader goroutine forwards browser
// messages over a channel; the frame loop is the only goroutine that
// touches the game.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/dodge/internal/loop"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/server"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 512
	inboxSize      = 64
)

// Handler upgrades HTTP requests and runs one game per websocket.
type Handler struct {
	cfg      config.Game
	store    store.Store
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Config config.Game // zero value means config.Default()
	Store  store.Store // shared best-time storage
	Hub    *server.Hub
	Logger *log.Logger
}

// NewHandler creates a websocket game handler.
func NewHandler(opts HandlerOptions) *Handler {
	cfg := opts.Config
	if cfg.TargetFPS == 0 && cfg.FieldWidth == 0 {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	hub := opts.Hub
	if hub == nil {
		hub = server.NewHub(logger)
	}
	return &Handler{
		cfg:    cfg,
		store:  st,
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// ServeHTTP upgrades the request and plays until the browser disconnects,
// the request context ends or the hub shuts down.
//
// The optional query parameters w and h set the initial field size to the
// browser window, and name labels the session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg
	if width, ok := positiveParam(r, "w"); ok {
		cfg.FieldWidth = width
	}
	if height, ok := positiveParam(r, "h"); ok {
		cfg.FieldHeight = height
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	name := r.URL.Query().Get("name")
	if name == "" {
		name = r.RemoteAddr
	}
	sess := h.hub.Register(name)
	defer h.hub.Unregister(sess.ID)

	p := &player{
		conn:    conn,
		cfg:     cfg,
		store:   h.store,
		session: sess,
		logger:  h.logger.With("session", sess.ID, "user", name),
	}
	if err := p.newGame(); err != nil {
		p.logger.Error("failed to start game", "err", err)
		return
	}

	inbox := make(chan clientMessage, inboxSize)
	done := make(chan struct{})
	defer close(done)
	go readMessages(conn, inbox, done, p.logger)

	if err := p.run(r.Context(), inbox); err != nil && !isClosed(err) {
		p.logger.Warn("session ended", "err", err)
		return
	}
	p.logger.Debug("session ended")
}

// player is the per-connection state owned by the frame loop.
type player struct {
	conn    *websocket.Conn
	cfg     config.Game
	store   store.Store
	session *server.Session
	logger  *log.Logger
	game    *loop.Game
	sprites []loop.Sprite
	sentEnd bool // final game over frame delivered
}

func (p *player) newGame() error {
	game, err := loop.New(p.cfg,
		loop.WithStore(p.store),
		loop.WithLogger(p.logger),
	)
	if err != nil {
		return err
	}
	p.game = game
	p.sentEnd = false
	return nil
}

// run is the frame loop. It returns when the inbox closes or on write errors.
func (p *player) run(ctx context.Context, inbox <-chan clientMessage) error {
	ticker := time.NewTicker(p.cfg.FrameTime())
	defer ticker.Stop()

	if err := p.writeFrame(); err != nil {
		return err
	}

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-inbox:
			if !ok {
				return nil
			}
			p.handle(msg)
		case ev, ok := <-p.session.EventsCh:
			if !ok {
				return nil
			}
			if ev.Type == server.EventServerShutdown {
				return p.write(shutdownMessage{
					Type:    MsgShutdown,
					Message: "The server is restarting for maintenance. Please reconnect in a moment.",
				})
			}
		case now := <-ticker.C:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			if p.game.Over() {
				if p.sentEnd {
					continue
				}
				p.sentEnd = true
			} else {
				p.game.Tick(dt)
			}
			if err := p.writeFrame(); err != nil {
				return err
			}
		}
	}
}

// handle applies one browser message to the game.
func (p *player) handle(msg clientMessage) {
	switch msg.Type {
	case MsgKeyDown, MsgKeyUp:
		d, ok := object.ParseDirection(msg.Key)
		if !ok {
			return
		}
		if msg.Type == MsgKeyDown {
			p.game.Press(d)
		} else {
			p.game.Release(d)
		}
	case MsgBlur:
		p.game.ReleaseAll()
	case MsgResize:
		p.game.Resize(msg.Width, msg.Height)
		// Restarted games keep the browser's current size.
		field := p.game.Field()
		p.cfg.FieldWidth, p.cfg.FieldHeight = field.Width, field.Height
		p.sentEnd = false
	case MsgRestart:
		if !p.game.Over() {
			return
		}
		if err := p.newGame(); err != nil {
			p.logger.Error("failed to restart game", "err", err)
			return
		}
		p.logger.Debug("game restarted")
	default:
		p.logger.Debug("unknown message", "type", msg.Type)
	}
}

// frame builds the outbound snapshot of the current game.
func (p *player) frame() frameMessage {
	field := p.game.Field()
	best, ok := p.game.BestTime()
	p.sprites = p.game.AppendAsteroids(p.sprites[:0])

	asteroids := make([]sprite, len(p.sprites))
	for i, s := range p.sprites {
		asteroids[i] = toSprite(s)
	}
	return frameMessage{
		Type:      MsgFrame,
		Width:     field.Width,
		Height:    field.Height,
		Player:    toSprite(p.game.Player()),
		Asteroids: asteroids,
		Elapsed:   p.game.Elapsed(),
		Time:      loop.FormatTime(p.game.Elapsed()),
		Best:      loop.FormatBest(best, ok),
		Over:      p.game.Over(),
	}
}

func (p *player) writeFrame() error {
	return p.write(p.frame())
}

func (p *player) write(v any) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteJSON(v)
}

// readMessages forwards decoded browser messages until the connection fails
// or done is closed. Malformed messages are skipped.
func readMessages(conn *websocket.Conn, inbox chan<- clientMessage, done <-chan struct{}, logger *log.Logger) {
	defer close(inbox)
	conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				logger.Debug("read failed", "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("malformed message", "err", err)
			continue
		}

		select {
		case inbox <- msg:
		case <-done:
			return
		}
	}
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, websocket.ErrCloseSent)
}

func positiveParam(r *http.Request, key string) (float64, bool) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
