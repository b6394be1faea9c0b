package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/dodge/internal/physics"
)

// dirtyCell marks a previously rendered cell that must be rewritten on the
// next Render regardless of its pixel state.
const dirtyCell rune = -1

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels.
//
// Render only emits cells that changed since the previous Render, so the
// terminal is never cleared between frames.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []bool // Flat slice: [y * termWidth + x] - true if pixel is set
	prev           []rune // Last rendered rune per cell: [row * termWidth + col]

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewCanvas creates a canvas for the given terminal dimensions with a 1:1 mapping.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
// A size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	if termWidth != c.termWidth || termHeight != c.termHeight || c.prev == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]bool, c.subPixelHeight*termWidth)
		c.prev = make([]rune, termHeight*termWidth)
		c.ForceRedraw()
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render write every cell.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = dirtyCell
	}
}

// MarkTextDirty flags cells overwritten by text so the next Render repaints them.
// col and row are 1-based canvas coordinates.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.prev[r*c.termWidth+x] = dirtyCell
		}
	}
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

// pixelSpan maps a logical rectangle onto inclusive pixel bounds.
func (c *Canvas) pixelSpan(r physics.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.Left() * c.scaleX))
	y0 = int(math.Floor(r.Top() * c.scaleY))
	x1 = int(math.Ceil(r.Right()*c.scaleX)) - 1
	y1 = int(math.Ceil(r.Bottom()*c.scaleY)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// FillRect sets every pixel covered by the logical rectangle.
func (c *Canvas) FillRect(r physics.Rect) {
	x0, y0, x1, y1 := c.pixelSpan(r)
	x0, x1 = max(x0, 0), min(x1, c.termWidth-1)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight-1)
	for y := y0; y <= y1; y++ {
		row := y * c.termWidth
		for x := x0; x <= x1; x++ {
			c.pixels[row+x] = true
		}
	}
}

// StrokeRect draws the one-pixel outline of the logical rectangle.
func (c *Canvas) StrokeRect(r physics.Rect) {
	x0, y0, x1, y1 := c.pixelSpan(r)
	for x := x0; x <= x1; x++ {
		c.setPixel(x, y0)
		c.setPixel(x, y1)
	}
	for y := y0 + 1; y < y1; y++ {
		c.setPixel(x0, y)
		c.setPixel(x1, y)
	}
}

// cell returns the half-block rune for the given 0-based terminal cell.
func (c *Canvas) cell(col, row int) rune {
	top := c.pixels[row*2*c.termWidth+col]
	bottom := c.pixels[(row*2+1)*c.termWidth+col]
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpperHalf
	case bottom:
		return BlockLowerHalf
	default:
		return BlockEmpty
	}
}

// Render outputs the changed cells to the writer using half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		lastCol := -2
		for col := 0; col < c.termWidth; col++ {
			ch := c.cell(col, row)
			idx := row*c.termWidth + col
			if c.prev[idx] == ch {
				continue
			}
			c.prev[idx] = ch

			// Adjacent changed cells reuse the cursor advance from the previous rune.
			if col != lastCol+1 {
				c.renderBuf.WriteString("\033[")
				c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
				c.renderBuf.WriteByte(';')
				c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
				c.renderBuf.WriteByte('H')
			}
			c.renderBuf.WriteRune(ch)
			lastCol = col
		}
	}

	writeChunked(w, c.renderBuf.String())
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + line + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + line)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + line)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}

	io.WriteString(w, buf.String())
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}
