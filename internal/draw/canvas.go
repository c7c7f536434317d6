package draw

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a 24-bit RGB color. The zero value is transparent.
type Color struct {
	R, G, B uint8
	Set     bool
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// ParseHex parses "#rrggbb". Malformed input yields white.
func ParseHex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return RGB(255, 255, 255)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v))
}

// Scale darkens the color by f in [0, 1].
func (c Color) Scale(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	return Color{
		R:   uint8(float64(c.R) * f),
		G:   uint8(float64(c.G) * f),
		B:   uint8(float64(c.B) * f),
		Set: c.Set,
	}
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Drawing uses logical coordinates that are scaled
// to terminal cells.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int     // termHeight * 2
	pixels         []Color // [y * termWidth + x]
	prev           []Color // Last rendered frame, for diffing

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64
	scaleY        float64

	// 0-based terminal offsets used to center the render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	intersectionBuf []float64
}

// NewScaledCanvas creates a canvas that maps logicalWidth x logicalHeight
// onto termWidth x termHeight cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 1), max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = nil
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render repaint every cell.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the pixel color at terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return Color{}
	}
	return c.pixels[y*c.termWidth+x]
}

// FillRect fills an axis-aligned rectangle given in logical coordinates.
// Rectangles always cover at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)
	for py := max(y0, 0); py < min(y1, c.subPixelHeight); py++ {
		for px := max(x0, 0); px < min(x1, c.termWidth); px++ {
			c.pixels[py*c.termWidth+px] = col
		}
	}
}

// FillCircle fills a circle given in logical coordinates.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	rx, ry := r*c.scaleX, r*c.scaleY
	if rx <= 0 || ry <= 0 {
		return
	}
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	for py := int(math.Floor(pcy - ry)); py <= int(math.Ceil(pcy+ry)); py++ {
		dy := (float64(py) + 0.5 - pcy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		for px := int(math.Ceil(pcx - half - 0.5)); px <= int(math.Floor(pcx+half-0.5)); px++ {
			c.setPixel(px, py, col)
		}
	}
}

// FillPolygon fills a polygon given in logical coordinates using a scanline fill.
func (c *Canvas) FillPolygon(points []Point, col Color) {
	if len(points) < 3 {
		return
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minY = math.Min(minY, p.Y*c.scaleY)
		maxY = math.Max(maxY, p.Y*c.scaleY)
	}

	n := len(points)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		xs := c.intersectionBuf[:0]
		for i := range n {
			p1 := Point{points[i].X * c.scaleX, points[i].Y * c.scaleY}
			p2 := Point{points[(i+1)%n].X * c.scaleX, points[(i+1)%n].Y * c.scaleY}
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = xs
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(math.Ceil(xs[i] - 0.5)); x <= int(math.Floor(xs[i+1]-0.5)); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

// maxChunkSize is the maximum bytes to write at once for smooth SSH flow.
const maxChunkSize = 1400

// Render writes the cells that changed since the previous Render, using
// the upper half-block with the top pixel as foreground and the bottom
// pixel as background.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	full := c.prev == nil
	if full {
		c.prev = make([]Color, len(c.pixels))
	}
	for row := range c.termHeight {
		top := row * 2 * c.termWidth
		bottom := top + c.termWidth
		for col := range c.termWidth {
			t, b := c.pixels[top+col], c.pixels[bottom+col]
			if !full && t == c.prev[top+col] && b == c.prev[bottom+col] {
				continue
			}
			c.prev[top+col], c.prev[bottom+col] = t, b
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH", row+1+c.offsetRow, col+1+c.offsetCol)
			writeCell(&c.renderBuf, t, b)
		}
	}
	c.renderBuf.WriteString(resetStyle)

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data[:min(len(data), maxChunkSize)]
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

const resetStyle = "\033[0m"

func writeCell(sb *strings.Builder, top, bottom Color) {
	switch {
	case !top.Set && !bottom.Set:
		sb.WriteString(resetStyle)
		sb.WriteByte(' ')
	case top == bottom:
		sb.WriteString(Foreground(top))
		sb.WriteString("\033[49m")
		sb.WriteRune(BlockFull)
	case !bottom.Set:
		sb.WriteString(Foreground(top))
		sb.WriteString("\033[49m")
		sb.WriteRune(BlockUpperHalf)
	case !top.Set:
		sb.WriteString(Foreground(bottom))
		sb.WriteString("\033[49m")
		sb.WriteRune(BlockLowerHalf)
	default:
		sb.WriteString(Foreground(top))
		fmt.Fprintf(sb, "\033[48;2;%d;%d;%dm", bottom.R, bottom.G, bottom.B)
		sb.WriteRune(BlockUpperHalf)
	}
}

// Foreground returns the escape sequence selecting col as text color.
func Foreground(col Color) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", col.R, col.G, col.B)
}
