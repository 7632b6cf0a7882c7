package editor

import (
	"testing"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode_FiresNodeThenContentHooks(t *testing.T) {
	t.Parallel()
	e, rec, _ := newStage(t)
	n := newQueueNode("A", geom.Point{})
	require.NoError(t, n.AddContent(&Statistic{ID: "bytes_per_second", Label: "Throughput", Unit: "B/s"}))

	require.NoError(t, e.AddNode(n, "remote"))

	assert.Equal(t, []string{"node-add:A", "param-add:A.delay", "stat-add:A.bytes_per_second"}, rec.events)
	assert.Equal(t, "remote", rec.cbData[0])
	assert.Same(t, e, n.Port("in").Editor(), "ports reference their editor directly")
	assert.Same(t, n, n.Port("out").Node())
}

func TestAddNode_Rejections(t *testing.T) {
	t.Parallel()
	e, rec, _ := newStage(t)
	require.NoError(t, e.AddNode(newQueueNode("A", geom.Point{}), nil))

	err := e.AddNode(newQueueNode("A", geom.Point{}), nil)
	assert.ErrorIs(t, err, ErrDuplicateNode)

	err = e.AddNode(e.Node("A"), nil)
	assert.ErrorIs(t, err, ErrNodeAttached)
	assert.Len(t, rec.errs, 2, "usage errors reach the diagnostic channel")
	assert.Len(t, e.Nodes(), 1)
}

func TestAddNode_AssignsMonotonicTimestampIDs(t *testing.T) {
	t.Parallel()
	fixed := time.UnixMilli(1_700_000_000_000)
	e := New(WithClock(func() time.Time { return fixed }))

	a := NewNode("", "null", "Null")
	b := NewNode("", "null", "Null")
	require.NoError(t, e.AddNode(a, nil))
	require.NoError(t, e.AddNode(b, nil))

	assert.Equal(t, NodeID("1700000000000"), a.ID())
	assert.Equal(t, NodeID("1700000000001"), b.ID(), "ids created in the same millisecond stay distinct")
}

func TestNode_DuplicatePortRejected(t *testing.T) {
	t.Parallel()
	n := newQueueNode("A", geom.Point{})

	err := n.AddContent(NewFlow([]*Port{NewPort("in", Receiving, "Again")}, nil))

	assert.ErrorIs(t, err, ErrDuplicatePort)
	assert.Len(t, n.Ports(), 2)
	assert.Equal(t, Left, n.Port("in").Side())
	assert.Equal(t, Right, n.Port("out").Side())
}

func TestRemoveNode_CascadesLinksBeforeNode(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	e, rec, _ := newStage(t)
	addPair(t, e)
	c := newQueueNode("C", geom.Point{X: 800})
	require.NoError(t, e.AddNode(c, nil))
	connectPair(t, e)
	_, err := e.Connect(PortRef{Node: "B", Port: "out"}, PortRef{Node: "C", Port: "in"}, nil)
	require.NoError(t, err)
	rec.reset()

	// --- Act ---
	require.NoError(t, e.RemoveNode("B", "remote"))

	// --- Assert ---
	assert.Equal(t, []string{
		"link-remove:A.out->B.in",
		"link-remove:B.out->C.in",
		"node-remove:B",
	}, rec.events)
	assert.Empty(t, e.Paths())
	assert.False(t, e.Node("A").Port("out").Connected())
	assert.False(t, e.Node("C").Port("in").Connected())
	assert.Nil(t, e.Node("B"))
	for _, cb := range rec.cbData {
		assert.Equal(t, "remote", cb)
	}
}

func TestRemoveNode_DropsLooseLinkSilently(t *testing.T) {
	t.Parallel()
	e, rec, _ := newStage(t)
	a, _ := addPair(t, e)
	e.HandleInput(down(174, 42))
	require.Equal(t, DraggingLink, e.State())
	rec.reset()

	require.NoError(t, e.RemoveNode("A", nil))

	assert.Equal(t, []string{"node-remove:A"}, rec.events)
	assert.Nil(t, e.Loose())
	assert.Nil(t, a.Editor())
	assert.Equal(t, Idle, e.State())
}

func TestRemoveNode_Unknown(t *testing.T) {
	t.Parallel()
	e, rec, _ := newStage(t)
	assert.ErrorIs(t, e.RemoveNode("nope", nil), ErrUnknownNode)
	assert.Len(t, rec.errs, 1)
}

func TestNewPath_PointerAtBothEnds(t *testing.T) {
	t.Parallel()
	p, err := NewPath(nil, nil)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrPointerBothEnds)
}

func TestAddPath_PortAlreadyConnected(t *testing.T) {
	t.Parallel()
	e, rec, _ := newStage(t)
	a, b := addPair(t, e)
	connectPair(t, e)
	rec.reset()

	p, err := NewPath(b.Port("out"), a.Port("in"))
	require.NoError(t, err)
	require.NoError(t, e.AddPath(p, nil))

	again, err := NewPath(a.Port("out"), b.Port("in"))
	require.NoError(t, err)
	assert.ErrorIs(t, e.AddPath(again, nil), ErrPortConnected)
	assert.Equal(t, []string{"link-add:B.out->A.in"}, rec.events)
	assert.Len(t, e.Paths(), 2)
}

func TestRemovePath_Unknown(t *testing.T) {
	t.Parallel()
	e, _, _ := newStage(t)
	a, b := addPair(t, e)
	p, err := NewPath(a.Port("out"), b.Port("in"))
	require.NoError(t, err)

	assert.ErrorIs(t, e.RemovePath(p, nil), ErrUnknownPath)
}

func TestParameter_SettleThroughEditor(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	e, rec, sched := newStage(t)
	addPair(t, e)
	require.NoError(t, e.SetParameterValue("A", "delay", 40))
	rec.reset()

	// --- Act ---
	require.NoError(t, e.InputParameter("A", "delay", 55.4))
	sched.Advance(500 * time.Millisecond)
	require.NoError(t, e.SetParameterValue("A", "delay", 41))

	// --- Assert ---
	par := e.Node("A").Parameter("delay")
	assert.Equal(t, []string{"param-change:A.delay=55"}, rec.events, "integer parameters round local edits")
	assert.Equal(t, 55.0, par.Value())
	assert.True(t, par.Dirty())

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, 41.0, par.Value())
	assert.False(t, par.Dirty())
}

func TestInputParameter_ClampsToBounds(t *testing.T) {
	t.Parallel()
	e, _, _ := newStage(t)
	addPair(t, e)

	require.NoError(t, e.InputParameter("A", "delay", 5000))
	assert.Equal(t, 1000.0, e.Node("A").Parameter("delay").Value())

	assert.ErrorIs(t, e.InputParameter("A", "missing", 1), ErrUnknownContent)
	assert.ErrorIs(t, e.InputParameter("Z", "delay", 1), ErrUnknownNode)
}

func TestSetStatisticValue(t *testing.T) {
	t.Parallel()
	e, _, _ := newStage(t)
	n := newQueueNode("A", geom.Point{})
	require.NoError(t, n.AddContent(&Statistic{ID: "packets_per_second", Unit: "packets/s"}))
	require.NoError(t, e.AddNode(n, nil))

	require.NoError(t, e.SetStatisticValue("A", "packets_per_second", 12.5))

	v, known := n.Statistic("packets_per_second").Value()
	assert.True(t, known)
	assert.Equal(t, 12.5, v)
}

func TestSerialize_ExcludesLoosePath(t *testing.T) {
	t.Parallel()
	e, _, _ := newStage(t)
	addPair(t, e)
	connectPair(t, e)
	e.HandleInput(down(574, 42)) // B.out starts a loose link

	doc := e.Serialize()

	require.NotNil(t, e.Loose())
	require.Len(t, doc.Paths, 1)
	assert.Equal(t, &PortRef{Node: "A", Port: "out"}, doc.Paths[0].From)
	assert.Equal(t, &PortRef{Node: "B", Port: "in"}, doc.Paths[0].To)
	assert.Len(t, doc.Nodes, 2)
}
