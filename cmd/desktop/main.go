package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/loop"
	gamecfg "github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/object"
	"github.com/tomz197/dodge/internal/store"
)

var (
	playerFill   = color.RGBA{R: 51, G: 170, B: 255, A: 255}
	playerStroke = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	rockStroke   = color.RGBA{R: 204, G: 204, B: 204, A: 255}
)

// keyDirections maps window keys onto held directions.
var keyDirections = map[ebiten.Key]object.Direction{
	ebiten.KeyArrowUp:    object.Up,
	ebiten.KeyArrowDown:  object.Down,
	ebiten.KeyArrowLeft:  object.Left,
	ebiten.KeyArrowRight: object.Right,
}

// desktop adapts a loop.Game to ebiten.Game.
type desktop struct {
	cfg     gamecfg.Game
	store   store.Store
	logger  *log.Logger
	game    *loop.Game
	sprites []loop.Sprite
	start   time.Time // Frame timestamps are measured from here
	width   int       // Window size reported by Layout
	height  int
}

func newDesktop(cfg gamecfg.Game, st store.Store, logger *log.Logger) (*desktop, error) {
	d := &desktop{
		cfg:    cfg,
		store:  st,
		logger: logger,
		width:  int(cfg.FieldWidth),
		height: int(cfg.FieldHeight),
	}
	if err := d.newGame(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *desktop) newGame() error {
	game, err := loop.New(d.cfg, loop.WithStore(d.store), loop.WithLogger(d.logger))
	if err != nil {
		return err
	}
	d.game = game
	d.start = time.Now()
	return nil
}

func (d *desktop) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if d.game.Over() {
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			// Restarted games fill the current window.
			d.cfg.FieldWidth, d.cfg.FieldHeight = float64(d.width), float64(d.height)
			return d.newGame()
		}
		return nil
	}

	if f := d.game.Field(); int(f.Width) != d.width || int(f.Height) != d.height {
		d.game.Resize(float64(d.width), float64(d.height))
	}

	// Key-ups are not delivered while the window is unfocused.
	if !ebiten.IsFocused() {
		d.game.ReleaseAll()
	}
	for key, dir := range keyDirections {
		if inpututil.IsKeyJustPressed(key) {
			d.game.Press(dir)
		}
		if inpututil.IsKeyJustReleased(key) {
			d.game.Release(dir)
		}
	}

	d.game.Frame(float64(time.Since(d.start)) / float64(time.Millisecond))
	return nil
}

func (d *desktop) Draw(screen *ebiten.Image) {
	p := d.game.Player().Bounds
	vector.DrawFilledRect(screen, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), playerFill, false)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), 1, playerStroke, false)

	d.sprites = d.game.AppendAsteroids(d.sprites[:0])
	for _, s := range d.sprites {
		b := s.Bounds
		vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 2, rockStroke, false)
	}

	best, ok := d.game.BestTime()
	ebitenutil.DebugPrintAt(screen, "Best time: "+loop.FormatBest(best, ok), 20, 10)
	ebitenutil.DebugPrintAt(screen, "Time: "+loop.FormatTime(d.game.Elapsed()), 20, 30)

	if d.game.Over() {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", d.width/2-27, d.height/2)
		ebitenutil.DebugPrintAt(screen, "Press SPACE to restart, Q to quit", d.width/2-99, d.height/2+20)
	}
}

// Layout keeps one logical pixel per window pixel so the field tracks the window.
func (d *desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		d.width, d.height = outsideWidth, outsideHeight
	}
	return d.width, d.height
}

func main() {
	logger := config.NewLogger(os.Stderr, "desktop")

	cfg, err := gamecfg.Load(config.GetEnv(config.EnvConfig, ""))
	if err != nil {
		logger.Fatal("failed to load game config", "err", err)
	}
	records := store.NewFile(config.StorePath())

	d, err := newDesktop(cfg, store.WithNamespace(records, "desktop"), logger)
	if err != nil {
		logger.Fatal("failed to start game", "err", err)
	}

	ebiten.SetWindowSize(int(cfg.FieldWidth), int(cfg.FieldHeight))
	ebiten.SetWindowTitle("Dodge")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TargetFPS)

	if err := ebiten.RunGame(d); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
