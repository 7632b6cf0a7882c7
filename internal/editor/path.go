package editor

import (
	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// Path is a link between two ports. While one end follows the pointer the
// path is loose: it is kept out of the committed list, out of the serialized
// document and out of link notifications.
type Path struct {
	from   *Port
	to     *Port
	editor *Editor
	curve  geom.Curve
}

// NewPath creates a detached path. A nil end follows the pointer; both ends
// nil is rejected.
func NewPath(from, to *Port) (*Path, error) {
	if from == nil && to == nil {
		return nil, ErrPointerBothEnds
	}
	return &Path{from: from, to: to}, nil
}

// From returns the sending end, or nil while it follows the pointer.
func (p *Path) From() *Port { return p.from }

// To returns the receiving end, or nil while it follows the pointer.
func (p *Path) To() *Port { return p.to }

// Committed reports whether both ends are anchored at ports.
func (p *Path) Committed() bool { return p.from != nil && p.to != nil }

// Curve returns the curve computed by the last update.
func (p *Path) Curve() geom.Curve { return p.curve }

// Data returns the serialized form. A pointer end is nil.
func (p *Path) Data() PathData {
	var d PathData
	if p.from != nil {
		r := p.from.Ref()
		d.From = &r
	}
	if p.to != nil {
		r := p.to.Ref()
		d.To = &r
	}
	return d
}

// Touches reports whether either end sits on a port of n.
func (p *Path) Touches(n *Node) bool {
	return (p.from != nil && p.from.node == n) || (p.to != nil && p.to.node == n)
}

func (p *Path) key() pathKey {
	return keyOf(p.Data())
}

// update recomputes the curve from the current anchors and pointer.
func (p *Path) update() {
	var pointer geom.Point
	if p.editor != nil {
		pointer = p.editor.pointer
	}

	start, startDir := pointer, geom.Rightward
	if p.from != nil {
		start, startDir = p.from.Anchor(), p.from.side.direction()
	}
	end, endDir := pointer, geom.Leftward
	if p.to != nil {
		end, endDir = p.to.Anchor(), p.to.side.direction()
	}
	p.curve = geom.LinkCurve(start, startDir, end, endDir)
}

// pathKey is the (fromNode, fromPort, toNode, toPort) tuple used to diff
// committed links.
type pathKey struct {
	fromNode NodeID
	fromPort PortID
	toNode   NodeID
	toPort   PortID
}

func keyOf(d PathData) pathKey {
	var k pathKey
	if d.From != nil {
		k.fromNode, k.fromPort = d.From.Node, d.From.Port
	}
	if d.To != nil {
		k.toNode, k.toPort = d.To.Node, d.To.Port
	}
	return k
}
