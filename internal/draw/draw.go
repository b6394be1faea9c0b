// Package draw renders rectangles to ANSI terminals using half-block characters.
package draw

import (
	"fmt"
	"io"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI color sequences.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorRed        = "\033[31m"
	ColorBrightCyan = "\033[96m"
)

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

func cursorTo(col, row int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}
