// Package input turns a raw terminal byte stream into held directions.
//
// Terminals only report key presses (and auto-repeats), never releases, so a
// key counts as held for a short window after each byte that names it.
package input

import (
	"bufio"
	"time"

	"github.com/tomz197/dodge/internal/object"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// It has to bridge the gap between terminal auto-repeat events.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Restart bool
	Held    object.Keys
	Pressed []byte
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit    time.Time
	restart time.Time
	dirs    [len(object.Directions)]time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch     chan byte
	closed bool
	state  keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream (EOF, dropped connection) reports Quit.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	parseBytes(&s.state, buf, now)
	in := s.state.input(now)
	in.Pressed = buf
	if s.closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets every recent key press, so keys held across a
// restart do not leak into the new session.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
}

// input builds the frame input from key state.
func (st *keyState) input(now time.Time) Input {
	in := Input{
		Quit:    now.Sub(st.quit) < keyHoldDuration,
		Restart: now.Sub(st.restart) < keyHoldDuration,
	}
	for _, d := range object.Directions {
		if now.Sub(st.dirs[d]) < keyHoldDuration {
			in.Held = in.Held.Press(d)
		}
	}
	return in
}

// parseBytes updates key state timestamps from a batch of raw bytes.
// Arrow keys arrive as CSI (ESC [ X) or SS3 (ESC O X) sequences.
func parseBytes(state *keyState, buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			if d, ok := arrowDirection(buf[i+2]); ok {
				state.dirs[d] = now
				i += 2
				continue
			}
		}

		applyByteToState(state, b, now)
	}
}

func arrowDirection(code byte) (object.Direction, bool) {
	switch code {
	case 'A':
		return object.Up, true
	case 'B':
		return object.Down, true
	case 'C':
		return object.Right, true
	case 'D':
		return object.Left, true
	}
	return 0, false
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C arrives as a byte in raw mode
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.dirs[object.Left] = now
	case 'd', 'D', 'l', 'L':
		state.dirs[object.Right] = now
	case 'w', 'W', 'k', 'K':
		state.dirs[object.Up] = now
	case 's', 'S', 'j', 'J':
		state.dirs[object.Down] = now
	case ' ', '\n', '\r':
		state.restart = now
	}
}
