package editor

import (
	"fmt"
	"testing"

	"github.com/ComNetsHH/FlowEmu/internal/control"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/stretchr/testify/require"
)

// recorder collects hook invocations as short strings.
type recorder struct {
	events []string
	cbData []any
	errs   []error
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnNodeAdd: func(n *Node, cb any) {
			r.add(fmt.Sprintf("node-add:%s", n.ID()), cb)
		},
		OnNodeChange: func(n *Node, cb any) {
			r.add(fmt.Sprintf("node-change:%s", n.ID()), cb)
		},
		OnNodeRemove: func(n *Node, cb any) {
			r.add(fmt.Sprintf("node-remove:%s", n.ID()), cb)
		},
		OnLinkAdd: func(p *Path, cb any) {
			r.add("link-add:"+describe(p), cb)
		},
		OnLinkRemove: func(p *Path, cb any) {
			r.add("link-remove:"+describe(p), cb)
		},
		OnParameterAdd: func(n *Node, id string) {
			r.add(fmt.Sprintf("param-add:%s.%s", n.ID(), id), nil)
		},
		OnParameterChange: func(n *Node, id string, v float64) {
			r.add(fmt.Sprintf("param-change:%s.%s=%v", n.ID(), id, v), nil)
		},
		OnStatisticAdd: func(n *Node, id string) {
			r.add(fmt.Sprintf("stat-add:%s.%s", n.ID(), id), nil)
		},
		OnDiagnostic: func(err error) {
			r.errs = append(r.errs, err)
		},
	}
}

func (r *recorder) add(ev string, cb any) {
	r.events = append(r.events, ev)
	r.cbData = append(r.cbData, cb)
}

func (r *recorder) reset() {
	r.events, r.cbData, r.errs = nil, nil, nil
}

func describe(p *Path) string {
	end := func(port *Port) string {
		if port == nil {
			return "pointer"
		}
		return fmt.Sprintf("%s.%s", port.Node().ID(), port.ID())
	}
	return end(p.From()) + "->" + end(p.To())
}

// newStage returns an editor with a manual scheduler and a hook recorder.
func newStage(t *testing.T) (*Editor, *recorder, *control.ManualScheduler) {
	t.Helper()
	rec := &recorder{}
	sched := control.NewManualScheduler()
	e := New(WithHooks(rec.hooks()), WithScheduler(sched))
	return e, rec, sched
}

// newQueueNode builds a node with one flow row (in | out) and a delay parameter.
// With DefaultLayout at position pos:
//
//	in  port box: pos + (0..12,   36..48), anchor pos + (0, 42)
//	out port box: pos + (168..180, 36..48), anchor pos + (180, 42)
//	body:         pos + (0..180, 0..78)
func newQueueNode(id NodeID, pos geom.Point) *Node {
	n := NewNode(id, "fifo_queue", "FIFO Queue")
	n.position = pos
	flow := NewFlow(
		[]*Port{NewPort("in", Receiving, "In")},
		[]*Port{NewPort("out", Sending, "Out")},
	)
	if err := n.AddContent(flow); err != nil {
		panic(err)
	}
	maxDelay := 1000.0
	minDelay := 0.0
	_ = n.AddContent(&Parameter{ID: "delay", Label: "Delay", Unit: "ms", Integer: true, Min: &minDelay, Max: &maxDelay, Step: 1})
	return n
}

// addPair adds nodes A at (0,0) and B at (400,0).
func addPair(t *testing.T, e *Editor) (*Node, *Node) {
	t.Helper()
	a := newQueueNode("A", geom.Point{})
	b := newQueueNode("B", geom.Point{X: 400})
	require.NoError(t, e.AddNode(a, nil))
	require.NoError(t, e.AddNode(b, nil))
	return a, b
}

func connectPair(t *testing.T, e *Editor) *Path {
	t.Helper()
	p, err := e.Connect(PortRef{Node: "A", Port: "out"}, PortRef{Node: "B", Port: "in"}, nil)
	require.NoError(t, err)
	return p
}

func down(x, y float64) InputEvent { return InputEvent{Kind: PointerDown, Pos: geom.Point{X: x, Y: y}} }
func move(x, y float64) InputEvent { return InputEvent{Kind: PointerMove, Pos: geom.Point{X: x, Y: y}} }
func up(x, y float64) InputEvent   { return InputEvent{Kind: PointerUp, Pos: geom.Point{X: x, Y: y}} }
