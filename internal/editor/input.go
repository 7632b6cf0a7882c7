package editor

import "github.com/ComNetsHH/FlowEmu/internal/geom"

// State is the interaction state of the editor.
type State int

const (
	Idle State = iota
	Panning
	DraggingNode
	DraggingLink
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Panning:
		return "PANNING"
	case DraggingNode:
		return "DRAGGING_NODE"
	case DraggingLink:
		return "DRAGGING_LINK"
	default:
		return "UNKNOWN"
	}
}

// InputKind is the kind of an input event.
type InputKind int

const (
	PointerDown InputKind = iota + 1
	PointerMove
	PointerUp
	KeyDown
)

// Key identifies the keys the editor reacts to.
type Key int

const (
	KeyNone Key = iota
	KeyDelete
)

// TargetKind is what lies under the pointer.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetCanvas
	TargetNode
	TargetPort
)

// Target is the element an input event is aimed at. Surfaces that know what
// was hit (a DOM, a widget tree) fill it in; otherwise the editor resolves
// it from the event position.
type Target struct {
	Kind TargetKind
	Node *Node
	Port *Port
}

// InputEvent is a surface-independent pointer or keyboard event. Pos is in
// surface coordinates, the same space as Port.Anchor.
type InputEvent struct {
	Kind   InputKind
	Pos    geom.Point
	Key    Key
	Target Target
}

// HitTest returns what lies at surface point pos. Nodes higher in the
// stacking order win; within a node, ports win over the body.
func (e *Editor) HitTest(pos geom.Point) Target {
	p := pos.Sub(e.pan)
	for i := len(e.order) - 1; i >= 0; i-- {
		n := e.order[i]
		for _, port := range n.portOrder {
			if port.Rect().Contains(p) {
				return Target{Kind: TargetPort, Node: n, Port: port}
			}
		}
		if n.Rect().Contains(p) {
			return Target{Kind: TargetNode, Node: n}
		}
	}
	return Target{Kind: TargetCanvas}
}

// State reports the current interaction state. A loose link keeps the editor
// in DraggingLink between pointer gestures until it is completed or dropped.
func (e *Editor) State() State {
	switch {
	case e.dragNode != nil:
		return DraggingNode
	case e.loose != nil:
		return DraggingLink
	case e.panning:
		return Panning
	default:
		return Idle
	}
}
