package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/milk9111/tiledmap/tmx"
)

const (
	emptyGlyph = "."
	glyphs     = "#%&@*+=~ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// palette assigns one glyph to every distinct tile of a layer. A tile's
// "glyph" string property takes precedence over the generated glyph.
type palette struct {
	order  []*tmx.Tile
	glyphs map[*tmx.Tile]string
	width  int
}

func newPalette(l *tmx.TileLayer) *palette {
	p := &palette{glyphs: map[*tmx.Tile]string{}, width: runewidth.StringWidth(emptyGlyph)}
	next := 0
	for pt := range l.Tiles() {
		t := pt.Cell.Tile
		if _, ok := p.glyphs[t]; ok {
			continue
		}
		g, err := t.Properties.String("glyph")
		if err != nil || g == "" {
			g = "?"
			if next < len(glyphs) {
				g = string(glyphs[next])
			}
			next++
		}
		p.glyphs[t] = g
		p.order = append(p.order, t)
		p.width = max(p.width, runewidth.StringWidth(g))
	}
	return p
}

func (p *palette) glyph(c tmx.Cell) string {
	if c.Empty() {
		return emptyGlyph
	}
	return p.glyphs[c.Tile]
}

// drawLayer draws l with its top-left cell at screen column ox, row oy.
// Cells left or above the screen are skipped.
func drawLayer(scr tcell.Screen, l *tmx.TileLayer, p *palette, ox, oy int) {
	sw, sh := scr.Size()
	st := tcell.StyleDefault
	dim := st.Foreground(tcell.ColorGray)
	for y := 0; y < l.Height; y++ {
		sy := oy + y
		if sy < 0 || sy >= sh {
			continue
		}
		for x := 0; x < l.Width; x++ {
			sx := ox + x*p.width
			if sx < 0 || sx >= sw {
				continue
			}
			c, err := l.Cell(x, y)
			if err != nil {
				continue
			}
			style := st
			if c.Empty() {
				style = dim
			} else if c.Flags.Any() {
				style = st.Reverse(true)
			}
			putGlyph(scr, sx, sy, p.glyph(c), style)
		}
	}
}

// drawLegend lists every glyph with the tile it stands for, one per row.
func drawLegend(scr tcell.Screen, p *palette, x, y int) {
	st := tcell.StyleDefault
	for i, t := range p.order {
		g := p.glyphs[t]
		putGlyph(scr, x, y+i, g, st)
		label := fmt.Sprintf("gid %d  %s#%d", t.GID(), t.Tileset.Name, t.ID)
		if t.Class != "" {
			label += "  " + t.Class
		}
		putText(scr, x+p.width+1, y+i, label, st)
	}
}

// putGlyph draws a possibly multi-rune glyph, padding wide glyphs.
func putGlyph(scr tcell.Screen, x, y int, glyph string, st tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	scr.SetContent(x, y, runes[0], runes[1:], st)
	if runewidth.StringWidth(glyph) == 2 {
		scr.SetContent(x+1, y, ' ', nil, st)
	}
}

// putText writes s one rune per column, stopping at the right edge.
func putText(scr tcell.Screen, x, y int, s string, st tcell.Style) {
	sw, _ := scr.Size()
	for _, r := range s {
		if x >= sw {
			break
		}
		scr.SetContent(x, y, r, nil, st)
		x += max(1, runewidth.RuneWidth(r))
	}
}
