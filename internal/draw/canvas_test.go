package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := map[string]Color{
		"#ff4d4d": RGB(0xff, 0x4d, 0x4d),
		"000000":  RGB(0, 0, 0),
		"#fff":    RGB(255, 255, 255),
		"nope":    RGB(255, 255, 255),
	}
	for in, want := range tests {
		if got := ParseHex(in); got != want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestFillRectScalesToPixels(t *testing.T) {
	// 10x5 cells -> 10x10 sub-pixels over a 10x10 logical field.
	c := NewScaledCanvas(10, 5, 10, 10)
	red := RGB(255, 0, 0)

	c.FillRect(2, 3, 2, 2, red)

	for y := range 10 {
		for x := range 10 {
			want := x >= 2 && x < 4 && y >= 3 && y < 5
			if got := c.At(x, y) == red; got != want {
				t.Errorf("pixel (%d,%d) set = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFillRectCoversAtLeastOnePixel(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(51, 51, 1, 1, RGB(1, 2, 3))
	if !c.At(5, 5).Set {
		t.Error("tiny rect not drawn")
	}
}

func TestFillRectClipsOutsideCanvas(t *testing.T) {
	c := NewScaledCanvas(4, 2, 40, 40)
	c.FillRect(-100, -100, 1000, 1000, RGB(9, 9, 9))
	if !c.At(0, 0).Set || !c.At(3, 3).Set {
		t.Error("clipped rect did not cover the canvas")
	}
}

func TestFillCircle(t *testing.T) {
	c := NewScaledCanvas(20, 10, 20, 20)
	c.FillCircle(10, 10, 4, RGB(0, 255, 0))
	if !c.At(10, 10).Set {
		t.Error("center not filled")
	}
	if c.At(0, 0).Set || c.At(19, 19).Set {
		t.Error("corners filled")
	}
}

func TestRenderOnlyRepaintsChanges(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRect(0, 0, 1, 2, RGB(255, 255, 255))

	var first bytes.Buffer
	c.Render(&first)
	if got := strings.Count(first.String(), "\033["+"1;1H"); got != 1 {
		t.Fatalf("first frame did not paint cell (1,1)")
	}
	if !strings.ContainsRune(first.String(), BlockFull) {
		t.Error("full block missing for a two-pixel cell")
	}

	var second bytes.Buffer
	c.Render(&second)
	if strings.Contains(second.String(), "H") {
		t.Errorf("unchanged frame repainted: %q", second.String())
	}

	c.ForceRedraw()
	var third bytes.Buffer
	c.Render(&third)
	if got := strings.Count(third.String(), "H"); got != 8 {
		t.Errorf("forced redraw painted %d cells, want 8", got)
	}
}

func TestChunkWriterOffsets(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 1, "abcd")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[3;4Hhi\033[3;11Habcd"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                 string
		termW, termH, panel  int
		wantW, wantH, offCol int
	}{
		{"height bound", 120, 40, 30, 60, 40, 15},
		{"width bound", 60, 100, 30, 30, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, col, _ := Fit(tt.termW, tt.termH, tt.panel, 0.75)
			if w != tt.wantW || h != tt.wantH || col != tt.offCol {
				t.Errorf("Fit = %d x %d at col %d, want %d x %d at col %d", w, h, col, tt.wantW, tt.wantH, tt.offCol)
			}
		})
	}
}
