package editor

import (
	"fmt"

	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// PortRole tags what a port does in the flow. It affects rendering only;
// any two ports may be linked.
type PortRole int

const (
	Sending PortRole = iota
	Receiving
	Requesting
	Responding
)

// String returns the wire name of the role.
func (r PortRole) String() string {
	switch r {
	case Sending:
		return "sending"
	case Receiving:
		return "receiving"
	case Requesting:
		return "requesting"
	case Responding:
		return "responding"
	default:
		return "unknown"
	}
}

// ParsePortRole is the inverse of PortRole.String.
func ParsePortRole(s string) (PortRole, error) {
	switch s {
	case "sending":
		return Sending, nil
	case "receiving":
		return Receiving, nil
	case "requesting":
		return Requesting, nil
	case "responding":
		return Responding, nil
	}
	return 0, fmt.Errorf("invalid port role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r PortRole) MarshalText() ([]byte, error) {
	if r < Sending || r > Responding {
		return nil, fmt.Errorf("invalid port role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *PortRole) UnmarshalText(b []byte) error {
	v, err := ParsePortRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Side is the node edge a port sits on.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// ParseSide parses "left" or "right".
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid port side %q", s)
}

// direction is the way a link leaves a port on this side.
func (s Side) direction() geom.Direction {
	if s == Right {
		return geom.Rightward
	}
	return geom.Leftward
}

// Port is a connection point on a node. It holds direct references to its
// node and editor and carries at most one link.
type Port struct {
	id    PortID
	role  PortRole
	label string
	side  Side

	node   *Node
	editor *Editor
	link   *Path

	// row is the port's index on its side, counted across the whole node.
	row int
}

// NewPort creates a detached port. Its side is fixed when it is placed in a Flow.
func NewPort(id PortID, role PortRole, label string) *Port {
	return &Port{id: id, role: role, label: label}
}

func (p *Port) ID() PortID      { return p.id }
func (p *Port) Role() PortRole  { return p.role }
func (p *Port) Label() string   { return p.label }
func (p *Port) Side() Side      { return p.side }
func (p *Port) Node() *Node     { return p.node }
func (p *Port) Editor() *Editor { return p.editor }

// Link returns the path attached to this port, loose or committed, or nil.
func (p *Port) Link() *Path { return p.link }

// Connected reports whether a path is attached.
func (p *Port) Connected() bool { return p.link != nil }

// Ref returns the serialized reference to this port.
func (p *Port) Ref() PortRef {
	var nid NodeID
	if p.node != nil {
		nid = p.node.id
	}
	return PortRef{Node: nid, Port: p.id}
}

// Rect is the port's box in canvas coordinates, before panning.
func (p *Port) Rect() geom.Rect {
	l := p.layout()
	var pos geom.Point
	var width float64
	if p.node != nil {
		pos = p.node.position
		width = p.node.Size().Width
	}
	y := pos.Y + l.TitleHeight + float64(p.row)*l.RowHeight + (l.RowHeight-l.PortHeight)/2
	x := pos.X
	if p.side == Right {
		x = pos.X + width - l.PortWidth
	}
	return geom.Rect{Min: geom.Point{X: x, Y: y}, Size: geom.Size{Width: l.PortWidth, Height: l.PortHeight}}
}

// Anchor is where links attach, in screen coordinates. Right-side ports are
// offset by the port width so links leave from the node's outer edge.
func (p *Port) Anchor() geom.Point {
	r := p.Rect()
	a := geom.Point{X: r.Min.X, Y: r.Min.Y + r.Size.Height/2}
	if p.side == Right {
		a.X += r.Size.Width
	}
	if p.editor != nil {
		a = a.Add(p.editor.pan)
	}
	return a
}

func (p *Port) layout() Layout {
	if p.editor != nil {
		return p.editor.layout
	}
	return DefaultLayout
}
