//go:build gui

// Package window is the desktop dashboard window.
package window

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/temidaradev/esset/v2"
	"golang.org/x/image/font/gofont/goregular"

	"OrbWatch/internal/model"
	"OrbWatch/internal/view"
)

const baseFontSize = 14

var (
	bgColor      = color.RGBA{25, 25, 25, 255}
	panelColor   = color.RGBA{50, 50, 50, 255}
	textColor    = color.RGBA{255, 255, 255, 255}
	faintColor   = color.RGBA{150, 150, 150, 255}
	errorColor   = color.RGBA{255, 80, 80, 255}
	okColor      = color.RGBA{0, 200, 0, 255}
	loadingColor = color.RGBA{255, 200, 0, 255}
)

// Game draws the board every frame.
type Game struct {
	ctx         context.Context
	board       *view.Board
	refresh     func()
	fontFace    text.Face
	titleFace   text.Face
	lineHeight  float64
	deviceScale float64
	layout      layout
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.triggerRefresh()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if g.layout.hitRefresh(mx, my) {
			g.triggerRefresh()
		}
	}
	return nil
}

func (g *Game) triggerRefresh() {
	if g.refresh == nil {
		return
	}
	log.Println("[INFO] manual refresh requested")
	go g.refresh()
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	snap := g.board.Snapshot()

	b := screen.Bounds()
	g.layout = computeLayout(b.Dx(), b.Dy(), g.deviceScale, g.lineHeight*4)

	x := 10.0 * g.deviceScale
	y := 10.0 * g.deviceScale

	dot := okColor
	if snap.StatusError {
		dot = errorColor
	}
	vector.DrawFilledCircle(screen, float32(x+5*g.deviceScale), float32(y+g.lineHeight/2), 5*float32(g.deviceScale), dot, true)
	esset.DrawText(screen, model.ChartTitle, 0, x+16*g.deviceScale, y, g.titleFace, textColor)

	price := snap.CurrentPrice
	if price == "" {
		price = "--"
	}
	esset.DrawText(screen, "Current Price: "+price, 0, x, y+g.lineHeight, g.fontFace, textColor)
	esset.DrawText(screen, snap.LastUpdate, 0, x, y+2*g.lineHeight, g.fontFace, faintColor)
	switch {
	case snap.LoadingVisible:
		esset.DrawText(screen, "Loading...", 0, x, y+3*g.lineHeight, g.fontFace, loadingColor)
	case snap.ErrorVisible:
		esset.DrawText(screen, snap.ErrorText, 0, x, y+3*g.lineHeight, g.fontFace, errorColor)
	}

	g.drawButton(screen)
	g.drawChart(screen, snap.Chart)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	r := g.layout.refresh
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), panelColor, false)
	label := "Refresh"
	w, h := text.Measure(label, g.fontFace, -1)
	esset.DrawText(screen, label, 0, float64(r.Min.X)+(float64(r.Dx())-w)/2, float64(r.Min.Y)+(float64(r.Dy())-h)/2, g.fontFace, textColor)
}

func (g *Game) drawChart(screen *ebiten.Image, spec *model.ChartSpec) {
	r := g.layout.chart
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), panelColor, false)

	values := spec.Points()
	if len(values) == 0 {
		msg := "No price data yet."
		w, h := text.Measure(msg, g.fontFace, -1)
		esset.DrawText(screen, msg, 0, float64(r.Min.X)+(float64(r.Dx())-w)/2, float64(r.Min.Y)+(float64(r.Dy())-h)/2, g.fontFace, faintColor)
		return
	}

	bc := spec.Datasets[0].BorderColor
	line := color.RGBA{bc.R, bc.G, bc.B, 255}
	pts := plot(values, r.Inset(int(8*g.deviceScale)))
	for i := 1; i < len(pts); i++ {
		vector.StrokeLine(screen, pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y, 2*float32(g.deviceScale), line, true)
	}
	last := pts[len(pts)-1]
	vector.DrawFilledCircle(screen, last.X, last.Y, 3*float32(g.deviceScale), line, true)

	caption := fmt.Sprintf("%s / %s", spec.Options.Y.Title, spec.Options.X.Title)
	_, h := text.Measure(caption, g.fontFace, -1)
	esset.DrawText(screen, caption, 0, float64(r.Min.X), float64(r.Min.Y)-h-4*g.deviceScale, g.fontFace, faintColor)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func Run(ctx context.Context, board *view.Board, refresh func(), _ *time.Location) error {
	ebiten.SetWindowSize(900, 600)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("OrbWatch")

	scale := ebiten.Monitor().DeviceScaleFactor()
	face, err := esset.GetFont(goregular.TTF, int(baseFontSize*scale))
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	titleFace, err := esset.GetFont(goregular.TTF, int(baseFontSize*1.4*scale))
	if err != nil {
		return fmt.Errorf("load title font: %w", err)
	}

	g := &Game{
		ctx:         ctx,
		board:       board,
		refresh:     refresh,
		fontFace:    face,
		titleFace:   titleFace,
		lineHeight:  baseFontSize*scale*1.5 + 5*scale,
		deviceScale: scale,
	}
	return ebiten.RunGame(g)
}
