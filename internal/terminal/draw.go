package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/gdamore/tcell/v2"
)

var (
	styleDefault  = tcell.StyleDefault
	styleHeader   = tcell.StyleDefault.Bold(true)
	styleLink     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

const hints = "q quit  del remove  ↑↓ select  ←→ adjust"

// Draw repaints the whole screen. It must run on the loop.
func (s *Surface) Draw() {
	s.screen.Clear()
	w, h := s.screen.Size()
	canvas := clip{minX: s.paletteWidth, maxX: w, maxY: h - 1}

	s.drawPalette(h - 1)
	for _, p := range s.editor.Paths() {
		s.drawLink(canvas, p.Curve())
	}
	if l := s.editor.Loose(); l != nil {
		s.drawLink(canvas, l.Curve())
	}
	for _, n := range s.editor.Nodes() {
		s.drawNode(canvas, n)
	}
	s.drawStatus(w, h)
	s.screen.Show()
}

// clip is the drawable area, max edges exclusive.
type clip struct {
	minX, maxX, maxY int
}

func (c clip) contains(x, y int) bool {
	return x >= c.minX && x < c.maxX && y >= 0 && y < c.maxY
}

func (s *Surface) set(c clip, x, y int, r rune, st tcell.Style) {
	if c.contains(x, y) {
		s.screen.SetContent(x, y, r, nil, st)
	}
}

// text writes str from x, stopping before limit.
func (s *Surface) text(c clip, x, y, limit int, str string, st tcell.Style) {
	for _, r := range str {
		if x >= limit {
			return
		}
		s.set(c, x, y, r, st)
		x++
	}
}

func (s *Surface) drawPalette(height int) {
	c := clip{minX: 0, maxX: s.paletteWidth, maxY: height}
	sep := s.paletteWidth - 1
	for y := 0; y < height; y++ {
		s.set(c, sep, y, '│', styleDefault)
	}
	for y, e := range s.library.Entries() {
		if y >= height {
			return
		}
		if e.Template == nil {
			arrow := "▾ "
			if e.Group.Collapsed {
				arrow = "▸ "
			}
			s.text(c, 0, y, sep, arrow+e.Group.Name, styleHeader)
			continue
		}
		s.text(c, 2, y, sep, e.Template.Title(), styleDefault)
	}
}

// toScreen maps an editor surface point to a screen cell.
func (s *Surface) toScreen(p geom.Point) (int, int) {
	return s.paletteWidth + int(math.Round(p.X)), int(math.Round(p.Y))
}

func (s *Surface) drawLink(c clip, curve geom.Curve) {
	span := math.Abs(curve.End.X-curve.Start.X) + math.Abs(curve.End.Y-curve.Start.Y)
	for _, p := range curve.Sample(int(span)*2 + 1) {
		x, y := s.toScreen(p)
		s.set(c, x, y, '·', styleLink)
	}
}

func (s *Surface) drawNode(c clip, n *editor.Node) {
	x0, y0 := s.toScreen(n.ScreenPosition())
	size := n.Size()
	w, h := int(size.Width), int(size.Height)
	if w < 4 {
		w = 4
	}
	selected := s.editor.Selected() == n
	border := styleDefault
	if selected {
		border = styleSelected
	}
	right := x0 + w - 1
	bottom := y0 + h

	for x := x0; x <= right; x++ {
		for y := y0 + 1; y < bottom; y++ {
			s.set(c, x, y, ' ', styleDefault)
		}
		s.set(c, x, y0, '─', border)
		s.set(c, x, y0+1, '─', border)
		s.set(c, x, bottom, '─', border)
	}
	for y := y0; y <= bottom; y++ {
		s.set(c, x0, y, '│', border)
		s.set(c, right, y, '│', border)
	}
	s.set(c, x0, y0, '┌', border)
	s.set(c, right, y0, '┐', border)
	s.set(c, x0, y0+1, '├', border)
	s.set(c, right, y0+1, '┤', border)
	s.set(c, x0, bottom, '└', border)
	s.set(c, right, bottom, '┘', border)
	s.text(c, x0+2, y0, right-1, " "+n.Title()+" ", border.Bold(true))

	layout := s.editor.Layout()
	row := y0 + int(layout.TitleHeight)
	inner, limit := x0+2, right-1
	params := 0
	for _, item := range n.Content() {
		switch item := item.(type) {
		case *editor.Label:
			s.text(c, inner, row, limit, item.Text, styleDefault)
			row++
		case *editor.Parameter:
			st := styleDefault
			if selected && params == s.cursor {
				st = styleCursor
			}
			s.text(c, inner, row, limit, parameterText(item), st)
			params++
			row++
		case *editor.Statistic:
			s.text(c, inner, row, limit, statisticText(item), styleDefault)
			row++
		case *editor.Flow:
			for i, p := range item.Left {
				s.text(c, inner, row+i, limit, p.Label(), styleDefault)
			}
			for i, p := range item.Right {
				label := p.Label()
				s.text(c, limit-len([]rune(label)), row+i, limit, label, styleDefault)
			}
			row += max(len(item.Left), len(item.Right))
		}
	}

	for _, p := range n.Ports() {
		r := p.Rect()
		x, y := s.toScreen(r.Min.Add(s.editor.Pan()))
		glyph := '○'
		if p.Connected() {
			glyph = '●'
		}
		s.set(c, x, y, glyph, border)
	}
}

func parameterText(p *editor.Parameter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", p.Label, p.Format(p.Value()))
	if p.Unit != "" {
		b.WriteString(" " + p.Unit)
	}
	if p.Dirty() {
		b.WriteString(" *")
	}
	return b.String()
}

func statisticText(st *editor.Statistic) string {
	v, ok := st.Value()
	if !ok {
		return st.Label + ": –"
	}
	out := st.Label + ": " + editor.FormatValue(v, st.Integer)
	if st.Unit != "" {
		out += " " + st.Unit
	}
	return out
}

func (s *Surface) drawStatus(w, h int) {
	y := h - 1
	c := clip{minX: 0, maxX: w, maxY: h}
	for x := 0; x < w; x++ {
		s.set(c, x, y, ' ', styleStatus)
	}
	line := " " + s.editor.State().String()
	if st := s.status(); st != "" {
		line += " │ " + st
	}
	line += " │ " + hints
	s.text(c, 0, y, w, line, styleStatus)
}
