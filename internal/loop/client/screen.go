package client

import (
	"fmt"
	"time"

	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/loop"
	"github.com/tomz197/dodge/internal/loop/config"
)

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	over := c.game.Over()
	if over != c.wasOver || c.isInactive != c.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.wasOver = over
		c.wasInactive = c.isInactive
	}

	c.canvas.Clear()

	c.drawSprite(c.game.Player())
	c.sprites = c.game.AppendAsteroids(c.sprites[:0])
	for _, s := range c.sprites {
		c.drawSprite(s)
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawSprite picks a rendering style from the sprite's image key.
func (c *Client) drawSprite(s loop.Sprite) {
	switch s.Image {
	case c.cfg.PlayerImage:
		c.canvas.FillRect(s.Bounds)
	default:
		c.canvas.StrokeRect(s.Bounds)
	}
}

// writeText writes s at a canvas position and marks the cells for repaint.
func (c *Client) writeText(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// writeCentered writes s centered on the given row.
func (c *Client) writeCentered(row int, s string) {
	c.writeText(c.canvas.TerminalWidth()/2-len([]rune(s))/2, row, s)
}

// drawUI draws the game UI overlay.
func (c *Client) drawUI() {
	centerY := c.canvas.TerminalHeight() / 2

	if c.shuttingDown {
		c.drawShutdownScreen(centerY)
		return
	}

	c.drawHUD()

	if c.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	if c.game.Over() {
		c.drawGameOverScreen(centerY)
	}
}

// drawHUD draws the best and current time in the top left corner.
// Both are fixed width so shrinking values leave nothing behind.
func (c *Client) drawHUD() {
	best, ok := c.game.BestTime()
	c.chunkWriter.WriteString(draw.ColorBold)
	c.writeText(2, 1, "Best time: "+loop.FormatBest(best, ok))
	c.writeText(2, 2, "Time: "+loop.FormatTime(c.game.Elapsed()))
	c.chunkWriter.WriteString(draw.ColorReset)
}

// drawGameOverScreen draws the game over banner and restart prompt.
func (c *Client) drawGameOverScreen(centerY int) {
	startY := centerY - len(gameOverArt)
	c.chunkWriter.WriteString(draw.ColorRed)
	for i, line := range gameOverArt {
		c.writeCentered(startY+i, line)
	}
	c.chunkWriter.WriteString(draw.ColorReset)

	if best, ok := c.game.BestTime(); ok && best == c.game.Elapsed() {
		c.chunkWriter.WriteString(draw.ColorBrightCyan)
		c.writeCentered(centerY+1, "New best time!")
		c.chunkWriter.WriteString(draw.ColorReset)
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerY+3, ">>  Press SPACE to Restart  <<")
	} else {
		c.writeCentered(centerY+3, "                              ")
	}
	c.writeCentered(centerY+4, "Q to quit")
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.writeCentered(centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerY, msg)
	c.writeCentered(centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerY int) {
	c.writeCentered(centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerY, "Please reconnect in a moment.")

	remaining := int(c.shutdownTimer) + 1
	c.writeCentered(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerY+4, "Press Q to disconnect now")
}
