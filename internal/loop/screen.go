package loop

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomz197/skyraid/internal/draw"
	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/game/config"
	"github.com/tomz197/skyraid/internal/ledger"
)

const (
	panelWidth    = 26 // Columns reserved right of the field for the HUD
	overlayWidth  = 34
	fallbackCols  = 80
	fallbackRows  = 24
	farewellText  = "Home at last. Thank you, pilot."
	symbolOffsetY = 70.0 // Height of the symbol above the ground
)

var (
	playerColor    = draw.ParseHex(config.PlayerColor)
	explosionColor = draw.ParseHex(config.ExplosionColor)
	planetColor    = draw.RGB(90, 140, 220)
	groundColor    = draw.RGB(70, 120, 60)
	sunsetColor    = draw.RGB(255, 140, 90)
	figureColor    = draw.RGB(230, 230, 230)
	symbolColor    = draw.RGB(255, 90, 120)
	textColor      = draw.RGB(255, 255, 255)
)

// screen renders snapshots onto a terminal: the field on a half-block
// canvas, a HUD panel to its right and text overlays on top.
type screen struct {
	termSize draw.TermSizeFunc
	canvas   *draw.Canvas
	cw       *draw.ChunkWriter

	termW, termH int // Last seen terminal size
	width        int // Canvas size in cells
	height       int
	overlay      string // Overlay drawn last frame; a change repaints everything
}

func newScreen(w io.Writer, termSize draw.TermSizeFunc) *screen {
	if termSize == nil {
		termSize = draw.DefaultTermSizeFunc
	}
	return &screen{
		termSize: termSize,
		canvas:   draw.NewScaledCanvas(1, 1, config.FieldWidth, config.FieldHeight),
		cw:       draw.NewChunkWriter(w, 0, 0),
	}
}

// resize refits the canvas when the terminal size changed.
func (s *screen) resize() {
	tw, th, err := s.termSize()
	if err != nil || tw <= 0 || th <= 0 {
		tw, th = fallbackCols, fallbackRows
	}
	if tw == s.termW && th == s.termH {
		return
	}
	s.termW, s.termH = tw, th
	w, h, offCol, offRow := draw.Fit(tw, th, panelWidth, float64(config.FieldWidth)/config.FieldHeight)
	s.width, s.height = w, h
	s.canvas.Resize(w, h)
	s.canvas.SetOffset(offCol, offRow)
	s.canvas.ForceRedraw()
	s.cw.SetOffset(offCol, offRow)
	draw.ClearScreen(s.cw)
}

// render draws one frame of d's game.
func (s *screen) render(d *Driver) error {
	s.resize()
	snap := d.Game().Snapshot()

	s.canvas.Clear()
	drawWorld(s.canvas, &snap)

	lines := overlayLines(d, &snap)
	key := ""
	if len(lines) > 0 {
		key = lines[0]
	}
	if key != s.overlay {
		s.overlay = key
		s.canvas.ForceRedraw()
	}
	s.canvas.Render(s.cw)

	s.drawPanel(d, &snap)
	s.drawOverlay(lines)
	if snap.Cinematic.MessageAlpha > 0 {
		row := max(s.height/4, 1)
		s.cw.WriteColored(s.width/2-len(farewellText)/2+1, row, textColor.Scale(snap.Cinematic.MessageAlpha), s.fit(farewellText))
	}
	return s.cw.Flush()
}

func drawWorld(c *draw.Canvas, snap *game.Snapshot) {
	w, h := float64(snap.Field.Width), float64(snap.Field.Height)
	cf := snap.Cinematic

	if cf.Active {
		if cf.GradientAlpha > 0 {
			c.FillRect(0, 0, w, cf.GroundY, sunsetColor.Scale(cf.GradientAlpha*0.5))
		}
		if cf.BackdropSize > 0 && cf.BackdropAlpha > 0 {
			c.FillCircle(w/2, h*0.35, cf.BackdropSize/2, planetColor.Scale(cf.BackdropAlpha))
		}
		if cf.GroundY < h {
			c.FillRect(0, cf.GroundY, w, h-cf.GroundY, groundColor)
		}
		if cf.Phase >= game.PhaseReunion {
			drawFigure(c, cf.LeftX, cf.GroundY)
			drawFigure(c, cf.RightX, cf.GroundY)
		}
		if cf.SymbolAlpha > 0 {
			drawHeart(c, w/2, cf.GroundY-symbolOffsetY, 10, symbolColor.Scale(cf.SymbolAlpha))
		}
	}

	for _, e := range snap.Enemies {
		c.FillRect(e.X, e.Y, e.Width, e.Height, draw.ParseHex(e.Color))
	}
	for _, b := range snap.Bullets {
		c.FillRect(b.X, b.Y, b.Width, b.Height, draw.ParseHex(b.Color))
	}
	for _, e := range snap.Explosions {
		p := e.Progress(snap.Now)
		c.FillCircle(e.X, e.Y, e.Size/2*(0.5+0.5*p), explosionColor.Scale(1-p))
	}

	// The ship stays hidden once the figures have taken over the scene.
	if snap.Visible && !(cf.Active && cf.Phase >= game.PhaseReunion) {
		p := snap.Player
		c.FillPolygon([]draw.Point{
			{X: p.X + p.Width/2, Y: p.Y},
			{X: p.X + p.Width, Y: p.Y + p.Height},
			{X: p.X, Y: p.Y + p.Height},
		}, playerColor)
	}
}

func drawFigure(c *draw.Canvas, x, groundY float64) {
	c.FillRect(x-5, groundY-30, 10, 22, figureColor)
	c.FillCircle(x, groundY-36, 6, figureColor)
}

func drawHeart(c *draw.Canvas, x, y, r float64, col draw.Color) {
	c.FillCircle(x-r*0.7, y, r, col)
	c.FillCircle(x+r*0.7, y, r, col)
	c.FillPolygon([]draw.Point{
		{X: x - r*1.6, Y: y + r*0.3},
		{X: x + r*1.6, Y: y + r*0.3},
		{X: x, Y: y + r*2.2},
	}, col)
}

// drawPanel writes the HUD. Fields are padded so shorter values overwrite
// longer ones without clearing.
func (s *screen) drawPanel(d *Driver, snap *game.Snapshot) {
	col := s.width + 3
	if s.termW-s.width < panelWidth/2 {
		return
	}
	level := fmt.Sprintf("%d", snap.Level)
	if snap.Infinite {
		level += " (infinite)"
	}
	bomb := "-"
	if snap.Shop.Bomb {
		bomb = "ready"
	}
	rows := []string{
		"S K Y R A I D",
		"",
		fmt.Sprintf("Pilot   %s", d.Player()),
		fmt.Sprintf("Score   %d", snap.Score),
		fmt.Sprintf("Record  %d", d.Record()),
		fmt.Sprintf("Level   %s", level),
		fmt.Sprintf("Kills   %d/%d", snap.Kills, snap.KillsRequired),
		fmt.Sprintf("Lives   %s", strings.Repeat("^ ", snap.Lives)),
		fmt.Sprintf("Points  %d", snap.Shop.SavedPoints),
		fmt.Sprintf("Shots   x%d", snap.Shop.MultiShot),
		fmt.Sprintf("Bomb    %s", bomb),
		"",
		"A D / < >  move",
		"SPACE      fire",
		"B          bomb",
		"S          shop",
		"R          ranking",
		"P          pause",
		"Q          quit",
	}
	for i, r := range rows {
		if i+1 > s.height {
			break
		}
		s.cw.WriteAt(col, i+1, pad(r, panelWidth-2))
	}
}

// overlayLines returns the text box for the current overlay, or nil.
// The first line identifies the overlay.
func overlayLines(d *Driver, snap *game.Snapshot) []string {
	switch {
	case snap.RankingOpen:
		return rankingLines(d.Ranking(), d.LastRank())
	case snap.ShopOpen:
		return shopLines(snap.Shop)
	case snap.OfferPending:
		return []string{
			"MISSION COMPLETE",
			"",
			"Keep flying in infinite mode?",
			"",
			"Y  continue     N  land",
		}
	case snap.Over:
		lines := []string{
			"GAME OVER",
			"",
			fmt.Sprintf("Score %d", snap.Score),
			fmt.Sprintf("Points banked %d", snap.Shop.SavedPoints),
		}
		if r := d.LastRank(); r >= 0 {
			lines = append(lines, fmt.Sprintf("New high score #%d", r+1))
		}
		return append(lines, "", "ENTER  new run", "S shop    R ranking")
	case snap.Paused:
		return []string{"PAUSED", "", "P  resume"}
	}
	return nil
}

func shopLines(shop game.Shop) []string {
	multi := fmt.Sprintf("%d pts", shop.MultiShotPrice)
	if shop.MultiShotMaxed {
		multi = "MAX"
	}
	lives := fmt.Sprintf("%d pts", shop.MaxLivesPrice)
	if shop.MaxLivesMaxed {
		lives = "MAX"
	}
	bomb := fmt.Sprintf("%d pts", shop.BombPrice)
	if shop.Bomb {
		bomb = "OWNED"
	}
	return []string{
		"UPGRADE SHOP",
		"",
		fmt.Sprintf("Points %d", shop.SavedPoints),
		"",
		fmt.Sprintf("1  Multishot x%d  %s", shop.MultiShot, multi),
		fmt.Sprintf("2  Max lives %d   %s", shop.MaxLives, lives),
		fmt.Sprintf("3  Bomb          %s", bomb),
		"",
		"S  close",
	}
}

func rankingLines(entries []ledger.Entry, lastRank int) []string {
	lines := []string{"HIGH SCORES", ""}
	if len(entries) == 0 {
		lines = append(lines, "No scores yet")
	}
	for i, e := range entries {
		mark := " "
		if i == lastRank {
			mark = ">"
		}
		lines = append(lines, fmt.Sprintf("%s%2d. %-12.12s %7d", mark, i+1, e.Name, e.Score))
	}
	return append(lines, "", "R  close")
}

func (s *screen) drawOverlay(lines []string) {
	if len(lines) == 0 {
		return
	}
	width := min(overlayWidth, s.width)
	top := max((s.height-len(lines))/2, 0) + 1
	left := max((s.width-width)/2, 0) + 1
	for i, l := range lines {
		if top+i > s.height {
			break
		}
		text := pad(centerText(l, width), width)
		if i == 0 {
			s.cw.WriteColored(left, top+i, textColor, text)
			continue
		}
		s.cw.WriteAt(left, top+i, text)
	}
}

// fit truncates text to the canvas width.
func (s *screen) fit(text string) string {
	if len(text) > s.width {
		return text[:max(s.width, 0)]
	}
	return text
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

// pad right-fills s with spaces to exactly width bytes, truncating if needed.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
