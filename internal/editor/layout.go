package editor

// Layout holds the metrics used to place ports and size nodes. Units are
// whatever the surface uses: pixels for a graphical canvas, cells for a
// terminal.
type Layout struct {
	TitleHeight  float64
	RowHeight    float64
	PortWidth    float64
	PortHeight   float64
	DefaultWidth float64
}

// DefaultLayout is sized for a pixel canvas.
var DefaultLayout = Layout{
	TitleHeight:  30,
	RowHeight:    24,
	PortWidth:    12,
	PortHeight:   12,
	DefaultWidth: 180,
}

// CellLayout is sized for a character grid.
var CellLayout = Layout{
	TitleHeight:  2,
	RowHeight:    1,
	PortWidth:    1,
	PortHeight:   1,
	DefaultWidth: 22,
}
