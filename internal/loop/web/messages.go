package web

import (
	"github.com/tomz197/dodge/internal/loop"
	"github.com/tomz197/dodge/internal/physics"
)

// Inbound message types.
const (
	MsgKeyDown = "keydown"
	MsgKeyUp   = "keyup"
	MsgResize  = "resize"
	MsgRestart = "restart"
	MsgBlur    = "blur" // window lost focus; key-ups will not arrive
)

// Outbound message types.
const (
	MsgFrame    = "frame"
	MsgShutdown = "shutdown"
)

// clientMessage is sent by the browser.
type clientMessage struct {
	Type   string  `json:"type"`
	Key    string  `json:"key,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type sprite struct {
	rect
	Image string `json:"image"`
}

// frameMessage is everything the browser needs to draw one frame.
type frameMessage struct {
	Type      string   `json:"type"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Player    sprite   `json:"player"`
	Asteroids []sprite `json:"asteroids"`
	Elapsed   float64  `json:"elapsed"`
	Time      string   `json:"time"`
	Best      string   `json:"best"`
	Over      bool     `json:"over"`
}

type shutdownMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func toRect(r physics.Rect) rect {
	return rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func toSprite(s loop.Sprite) sprite {
	return sprite{rect: toRect(s.Bounds), Image: s.Image}
}
