// Package client runs one game session on an ANSI terminal.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/server"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

// Client handles rendering and input for a single connection.
type Client struct {
	hub          *server.Hub
	session      *server.Session
	cfg          config.Game
	store        store.Store
	logger       *log.Logger
	game         *loop.Game
	held         object.Keys // directions currently pressed on game
	sprites      []loop.Sprite
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	input        input.Input
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc

	running       bool
	shuttingDown  bool
	shutdownTimer float64 // seconds left on the shutdown screen
	isInactive    bool
	wasInactive   bool
	wasOver       bool
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Config       config.Game // zero value means config.Default()
	Store        store.Store // best-time storage; defaults to memory
	Logger       *log.Logger // defaults to discard
	Hub          *server.Hub // session registry; a private one is created if nil
}

// NewClient creates a client and starts its first game.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	cfg := opts.Config
	if cfg.TargetFPS == 0 && cfg.FieldWidth == 0 {
		cfg = config.Default()
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hub := opts.Hub
	if hub == nil {
		hub = server.NewHub(logger)
	}

	session := hub.Register(opts.Username)
	logger = logger.With("session", session.ID)

	c := &Client{
		hub:          hub,
		session:      session,
		cfg:          cfg,
		store:        st,
		logger:       logger,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		running:      true,
	}

	if err := c.newGame(); err != nil {
		hub.Unregister(session.ID)
		return nil, err
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, cfg.FieldWidth, cfg.FieldHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)

	return c, nil
}

// Run starts the client loop. Blocks until the player quits, the context
// is cancelled or the hub shuts down.
func (c *Client) Run(ctx context.Context) error {
	defer c.hub.Unregister(c.session.ID)

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	frameTime := c.cfg.FrameTime()
	lastTime := time.Now()

	for c.running {
		select {
		case <-ctx.Done():
			draw.ClearScreen(c.writer)
			return ctx.Err()
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		if c.shuttingDown {
			c.shutdownTimer -= delta.Seconds()
			if c.shutdownTimer <= 0 {
				c.running = false
			}
		} else if !c.game.Over() {
			c.game.Tick(float64(delta) / float64(time.Millisecond))
		}

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// newGame replaces the current game with a fresh one.
func (c *Client) newGame() error {
	game, err := loop.New(c.cfg,
		loop.WithStore(c.store),
		loop.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}
	c.game = game
	c.held = 0
	return nil
}

// processInput reads input and forwards held directions to the game.
func (c *Client) processInput() {
	c.input = input.ReadInput(c.inputStream)

	if len(c.input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive session")
		c.running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.isInactive = true
	}

	if c.input.Quit {
		c.running = false
		return
	}

	if c.game.Over() {
		if c.input.Restart && !c.shuttingDown {
			c.restart()
		}
		return
	}

	c.syncKeys(c.input.Held)
}

// syncKeys turns the sampled held set into Press and Release calls.
func (c *Client) syncKeys(held object.Keys) {
	for _, d := range object.Directions {
		switch {
		case held.Has(d) && !c.held.Has(d):
			c.game.Press(d)
		case !held.Has(d) && c.held.Has(d):
			c.game.Release(d)
		}
	}
	c.held = held
}

// restart starts a new game after game over.
func (c *Client) restart() {
	input.ResetKeyInput(c.inputStream)
	if err := c.newGame(); err != nil {
		c.logger.Error("failed to restart game", "err", err)
		c.running = false
		return
	}
	c.logger.Debug("game restarted")
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.session.EventsCh:
			if !ok {
				c.running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.shuttingDown = true
				c.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
