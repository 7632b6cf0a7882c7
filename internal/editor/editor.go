package editor

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/control"
	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// Editor owns the nodes and links of one canvas together with the pointer
// interaction state. It is not safe for concurrent use: every call,
// including timer callbacks, must come from the same goroutine.
type Editor struct {
	logger *slog.Logger
	hooks  Hooks
	layout Layout
	sched  control.Scheduler
	settle time.Duration
	ids    idSource

	nodes map[NodeID]*Node
	// order is the stacking order; the last node is drawn on top.
	order []*Node
	paths []*Path
	loose *Path

	pan      geom.Point
	pointer  geom.Point
	selected *Node

	dragNode *Node
	grab     geom.Point

	panning       bool
	panOrigin     geom.Point
	pointerOrigin geom.Point
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = ctxlog.OrDiscard(l) }
}

// WithHooks installs the owner's notifications.
func WithHooks(h Hooks) Option {
	return func(e *Editor) { e.hooks = h }
}

// WithLayout sets the port and node metrics.
func WithLayout(l Layout) Option {
	return func(e *Editor) { e.layout = l }
}

// WithScheduler sets the scheduler for parameter settle windows.
func WithScheduler(s control.Scheduler) Option {
	return func(e *Editor) { e.sched = s }
}

// WithSettleWindow sets how long a local parameter edit holds off
// authoritative values.
func WithSettleWindow(d time.Duration) Option {
	return func(e *Editor) { e.settle = d }
}

// WithClock sets the clock used to mint node ids.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.ids.now = now }
}

// New creates an empty editor.
func New(opts ...Option) *Editor {
	e := &Editor{
		logger: ctxlog.OrDiscard(nil),
		layout: DefaultLayout,
		sched:  control.SystemScheduler{},
		settle: control.DefaultWindow,
		ids:    idSource{now: time.Now},
		nodes:  make(map[NodeID]*Node),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "editor")
	return e
}

// SetHooks replaces the owner's notifications.
func (e *Editor) SetHooks(h Hooks) { e.hooks = h }

func (e *Editor) Layout() Layout       { return e.layout }
func (e *Editor) Pan() geom.Point      { return e.pan }
func (e *Editor) Pointer() geom.Point  { return e.pointer }
func (e *Editor) Selected() *Node      { return e.selected }
func (e *Editor) Node(id NodeID) *Node { return e.nodes[id] }

// Nodes returns all nodes in stacking order.
func (e *Editor) Nodes() []*Node { return slices.Clone(e.order) }

// Paths returns the committed paths in insertion order.
func (e *Editor) Paths() []*Path { return slices.Clone(e.paths) }

// Loose returns the path being dragged, or nil.
func (e *Editor) Loose() *Path { return e.loose }

// NewID mints a fresh node id.
func (e *Editor) NewID() NodeID {
	for {
		id := e.ids.next()
		if _, taken := e.nodes[id]; !taken {
			return id
		}
	}
}

// AddNode takes ownership of n. An empty id is replaced with a fresh one.
// The node-add hook fires, followed by one parameter-add or statistic-add
// hook per item in content order.
func (e *Editor) AddNode(n *Node, callbackData any) error {
	if n.editor != nil {
		return e.report(fmt.Errorf("add node %s: %w", n.id, ErrNodeAttached))
	}
	if n.id == "" {
		n.id = e.NewID()
	}
	if _, dup := e.nodes[n.id]; dup {
		return e.report(fmt.Errorf("add node %s: %w", n.id, ErrDuplicateNode))
	}

	n.editor = e
	for _, c := range n.content {
		e.attachContent(n, c)
	}
	e.nodes[n.id] = n
	e.order = append(e.order, n)
	e.logger.Debug("Node added.", "node", n.id, "type", n.typ)

	e.hooks.nodeAdd(n, callbackData)
	for _, c := range n.content {
		e.fireContentAdd(n, c)
	}
	return nil
}

// RemoveNode removes a node. Every committed link touching one of its ports
// is removed first, each with its own link-remove hook; a loose link anchored
// on the node is dropped without notification. The node-remove hook fires last.
func (e *Editor) RemoveNode(id NodeID, callbackData any) error {
	n, ok := e.nodes[id]
	if !ok {
		return e.report(fmt.Errorf("remove node %s: %w", id, ErrUnknownNode))
	}

	for _, p := range n.portOrder {
		switch {
		case p.link == nil:
		case p.link == e.loose:
			e.dropLoose()
		default:
			e.removeCommitted(p.link, callbackData)
		}
	}

	delete(e.nodes, id)
	e.order = slices.DeleteFunc(e.order, func(o *Node) bool { return o == n })
	if e.selected == n {
		e.selected = nil
	}
	if e.dragNode == n {
		e.dragNode = nil
	}
	for _, par := range n.Parameters() {
		if par.value != nil {
			par.value.Stop()
		}
	}
	n.editor = nil
	for _, p := range n.portOrder {
		p.editor = nil
	}
	e.logger.Debug("Node removed.", "node", id)

	e.hooks.nodeRemove(n, callbackData)
	return nil
}

// AddPath attaches p. A committed path joins the link list and fires the
// link-add hook. A loose path becomes the one being dragged and fires nothing.
func (e *Editor) AddPath(p *Path, callbackData any) error {
	if p.from == nil && p.to == nil {
		return e.report(ErrPointerBothEnds)
	}
	for _, port := range []*Port{p.from, p.to} {
		if port == nil {
			continue
		}
		if port.node == nil || e.nodes[port.node.id] != port.node {
			return e.report(fmt.Errorf("add path at %s/%s: %w", port.Ref().Node, port.id, ErrUnknownPort))
		}
		if port.link != nil {
			return e.report(fmt.Errorf("add path at %s/%s: %w", port.node.id, port.id, ErrPortConnected))
		}
	}
	if !p.Committed() && e.loose != nil {
		return e.report(ErrLoosePathExists)
	}

	p.editor = e
	if p.from != nil {
		p.from.link = p
	}
	if p.to != nil {
		p.to.link = p
	}
	p.update()

	if !p.Committed() {
		e.loose = p
		return nil
	}
	e.paths = append(e.paths, p)
	e.hooks.linkAdd(p, callbackData)
	return nil
}

// RemovePath detaches p. Removing the loose path fires nothing.
func (e *Editor) RemovePath(p *Path, callbackData any) error {
	if p == e.loose && p != nil {
		e.dropLoose()
		return nil
	}
	if !slices.Contains(e.paths, p) {
		return e.report(ErrUnknownPath)
	}
	e.removeCommitted(p, callbackData)
	return nil
}

// Connect resolves both references and adds a committed path between them.
func (e *Editor) Connect(from, to PortRef, callbackData any) (*Path, error) {
	fp, tp := e.resolve(from), e.resolve(to)
	if fp == nil {
		return nil, e.report(fmt.Errorf("connect from %s/%s: %w", from.Node, from.Port, ErrUnknownPort))
	}
	if tp == nil {
		return nil, e.report(fmt.Errorf("connect to %s/%s: %w", to.Node, to.Port, ErrUnknownPort))
	}
	p, _ := NewPath(fp, tp)
	if err := e.AddPath(p, callbackData); err != nil {
		return nil, err
	}
	return p, nil
}

// Serialize returns the committed graph. The loose path is never included.
func (e *Editor) Serialize() Document {
	doc := Document{
		Nodes: make(map[NodeID]NodeData, len(e.nodes)),
		Paths: make([]PathData, 0, len(e.paths)),
	}
	for id, n := range e.nodes {
		doc.Nodes[id] = n.Data()
	}
	for _, p := range e.paths {
		doc.Paths = append(doc.Paths, p.Data())
	}
	return doc
}

// Select makes n the selected node and raises it to the top. nil clears the
// selection.
func (e *Editor) Select(n *Node) {
	e.selected = n
	if n == nil {
		return
	}
	if i := slices.Index(e.order, n); i >= 0 && i != len(e.order)-1 {
		e.order = append(slices.Delete(e.order, i, i+1), n)
	}
}

// BeginDrag starts dragging n as if the pointer had been pressed on it at
// grab, an offset from the node's top-left corner.
func (e *Editor) BeginDrag(n *Node, grab geom.Point) {
	e.Select(n)
	e.dragNode = n
	e.grab = grab
	e.panning = false
}

// SetParameterValue records an authoritative parameter value.
func (e *Editor) SetParameterValue(id NodeID, parameterID string, v float64) error {
	par, err := e.parameter(id, parameterID)
	if err != nil {
		return err
	}
	par.value.Update(v)
	return nil
}

// InputParameter records a local edit, normalized to the parameter's bounds,
// and fires the parameter-change hook.
func (e *Editor) InputParameter(id NodeID, parameterID string, v float64) error {
	par, err := e.parameter(id, parameterID)
	if err != nil {
		return err
	}
	v = par.Normalize(v)
	par.value.Input(v)
	e.hooks.parameterChange(par.node, parameterID, v)
	return nil
}

// SetStatisticValue records a reported statistic value.
func (e *Editor) SetStatisticValue(id NodeID, statisticID string, v float64) error {
	n, ok := e.nodes[id]
	if !ok {
		return e.report(fmt.Errorf("statistic %s/%s: %w", id, statisticID, ErrUnknownNode))
	}
	s := n.Statistic(statisticID)
	if s == nil {
		return e.report(fmt.Errorf("statistic %s/%s: %w", id, statisticID, ErrUnknownContent))
	}
	s.value, s.known = v, true
	return nil
}

func (e *Editor) parameter(id NodeID, parameterID string) (*Parameter, error) {
	n, ok := e.nodes[id]
	if !ok {
		return nil, e.report(fmt.Errorf("parameter %s/%s: %w", id, parameterID, ErrUnknownNode))
	}
	par := n.Parameter(parameterID)
	if par == nil {
		return nil, e.report(fmt.Errorf("parameter %s/%s: %w", id, parameterID, ErrUnknownContent))
	}
	return par, nil
}

func (e *Editor) resolve(ref PortRef) *Port {
	n, ok := e.nodes[ref.Node]
	if !ok {
		return nil
	}
	return n.ports[ref.Port]
}

func (e *Editor) removeCommitted(p *Path, callbackData any) {
	e.paths = slices.DeleteFunc(e.paths, func(o *Path) bool { return o == p })
	if p.from != nil {
		p.from.link = nil
	}
	if p.to != nil {
		p.to.link = nil
	}
	e.hooks.linkRemove(p, callbackData)
}

func (e *Editor) dropLoose() {
	p := e.loose
	if p == nil {
		return
	}
	if p.from != nil {
		p.from.link = nil
	}
	if p.to != nil {
		p.to.link = nil
	}
	e.loose = nil
}

// attachContent wires an item of an owned node to the editor.
func (e *Editor) attachContent(n *Node, c Content) {
	switch v := c.(type) {
	case *Flow:
		for _, p := range v.Ports() {
			p.editor = e
		}
	case *Parameter:
		if v.value == nil {
			v.value = control.NewValue(e.sched, e.settle, nil)
			if v.Default != nil {
				v.value.Preset(*v.Default)
			}
		}
	}
}

func (e *Editor) fireContentAdd(n *Node, c Content) {
	switch v := c.(type) {
	case *Parameter:
		e.hooks.parameterAdd(n, v.ID)
	case *Statistic:
		e.hooks.statisticAdd(n, v.ID)
	}
}

// refreshNode recomputes the curve of every link touching n.
func (e *Editor) refreshNode(n *Node) {
	if e == nil {
		return
	}
	for _, p := range n.portOrder {
		if p.link != nil {
			p.link.update()
		}
	}
}

// refreshAll recomputes every curve.
func (e *Editor) refreshAll() {
	for _, p := range e.paths {
		p.update()
	}
	if e.loose != nil {
		e.loose.update()
	}
}

// report sends err to the diagnostic channel and returns it.
func (e *Editor) report(err error) error {
	e.logger.Warn("Editor operation rejected.", "error", err)
	e.hooks.diagnostic(err)
	return err
}
