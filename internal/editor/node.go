package editor

import (
	"fmt"

	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// Node is a positioned box holding an ordered list of content items. The
// ports of every Flow item are also indexed node-wide by id.
type Node struct {
	id        NodeID
	typ       string
	title     string
	removable bool
	position  geom.Point
	size      geom.Size

	content []Content
	ports   map[PortID]*Port
	// portOrder lists ports in content order.
	portOrder []*Port
	keys      map[string]struct{}
	// rejected holds content keys UpdateNode could not append.
	rejected map[string]struct{}

	editor *Editor
}

// NewNode creates an empty, removable node. An empty id is replaced with a
// fresh one when the node is added to an editor.
func NewNode(id NodeID, typ, title string) *Node {
	return &Node{
		id:        id,
		typ:       typ,
		title:     title,
		removable: true,
		ports:     make(map[PortID]*Port),
		keys:      make(map[string]struct{}),
	}
}

// NewNodeFromData builds a detached node from its serialized form.
func NewNodeFromData(id NodeID, d NodeData) (*Node, error) {
	n := NewNode(id, d.Type, d.Title)
	n.removable = d.Removable
	n.position = d.Position
	n.size = d.Size
	for i, cd := range d.Content {
		c, err := NewContent(cd)
		if err != nil {
			return nil, fmt.Errorf("node %s content %d: %w", id, i, err)
		}
		if err := n.AddContent(c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Node) ID() NodeID            { return n.id }
func (n *Node) Type() string          { return n.typ }
func (n *Node) Title() string         { return n.title }
func (n *Node) Removable() bool       { return n.removable }
func (n *Node) SetRemovable(r bool)   { n.removable = r }
func (n *Node) Position() geom.Point  { return n.position }
func (n *Node) Editor() *Editor       { return n.editor }
func (n *Node) Port(id PortID) *Port  { return n.ports[id] }
func (n *Node) Ports() []*Port        { return append([]*Port(nil), n.portOrder...) }
func (n *Node) Content() []Content    { return append([]Content(nil), n.content...) }
func (n *Node) SetTitle(title string) { n.title = title }
func (n *Node) hasContent(k string) bool {
	_, ok := n.keys[k]
	return ok
}

// rejectOnce records k as rejected and reports whether it was new.
func (n *Node) rejectOnce(k string) bool {
	if _, ok := n.rejected[k]; ok {
		return false
	}
	if n.rejected == nil {
		n.rejected = make(map[string]struct{})
	}
	n.rejected[k] = struct{}{}
	return true
}

// Size returns the stored size, or the size implied by the content when none
// has been set.
func (n *Node) Size() geom.Size {
	if !n.size.IsZero() {
		return n.size
	}
	l := n.layout()
	return geom.Size{Width: l.DefaultWidth, Height: l.TitleHeight + float64(n.rowCount())*l.RowHeight}
}

// Rect is the node's box in canvas coordinates, before panning.
func (n *Node) Rect() geom.Rect {
	return geom.Rect{Min: n.position, Size: n.Size()}
}

// ScreenPosition is the node's top-left corner with the editor's pan applied.
func (n *Node) ScreenPosition() geom.Point {
	if n.editor == nil {
		return n.position
	}
	return n.position.Add(n.editor.pan)
}

// SetPosition moves the node and redraws attached links. It fires no hooks.
func (n *Node) SetPosition(p geom.Point) {
	n.position = p
	n.editor.refreshNode(n)
}

// SetSize sets an explicit size. A zero size returns to content sizing.
func (n *Node) SetSize(s geom.Size) {
	n.size = s
	n.editor.refreshNode(n)
}

// Parameter returns the parameter with the given id, or nil.
func (n *Node) Parameter(id string) *Parameter {
	for _, c := range n.content {
		if p, ok := c.(*Parameter); ok && p.ID == id {
			return p
		}
	}
	return nil
}

// Statistic returns the statistic with the given id, or nil.
func (n *Node) Statistic(id string) *Statistic {
	for _, c := range n.content {
		if s, ok := c.(*Statistic); ok && s.ID == id {
			return s
		}
	}
	return nil
}

// Parameters returns the node's parameters in content order.
func (n *Node) Parameters() []*Parameter {
	var out []*Parameter
	for _, c := range n.content {
		if p, ok := c.(*Parameter); ok {
			out = append(out, p)
		}
	}
	return out
}

// Statistics returns the node's statistics in content order.
func (n *Node) Statistics() []*Statistic {
	var out []*Statistic
	for _, c := range n.content {
		if s, ok := c.(*Statistic); ok {
			out = append(out, s)
		}
	}
	return out
}

// AddContent appends an item to the body. Flow ports join the node-wide
// port index; a port id already in use rejects the whole item. When the node
// belongs to an editor, parameter and statistic hooks fire.
func (n *Node) AddContent(c Content) error {
	if f, ok := c.(*Flow); ok {
		seen := make(map[PortID]struct{})
		for _, p := range f.Ports() {
			if _, dup := n.ports[p.id]; dup {
				return fmt.Errorf("node %s port %s: %w", n.id, p.id, ErrDuplicatePort)
			}
			if _, dup := seen[p.id]; dup {
				return fmt.Errorf("node %s port %s: %w", n.id, p.id, ErrDuplicatePort)
			}
			seen[p.id] = struct{}{}
		}
		for _, p := range f.Ports() {
			p.node = n
			p.editor = n.editor
			n.ports[p.id] = p
			n.portOrder = append(n.portOrder, p)
		}
	}
	switch v := c.(type) {
	case *Parameter:
		v.node = n
	case *Statistic:
		v.node = n
	}

	n.content = append(n.content, c)
	n.keys[c.key()] = struct{}{}
	n.relayout()

	if n.editor != nil {
		n.editor.attachContent(n, c)
		n.editor.fireContentAdd(n, c)
		n.editor.refreshNode(n)
	}
	return nil
}

// Data returns the node's serialized form.
func (n *Node) Data() NodeData {
	d := NodeData{
		Type:      n.typ,
		Title:     n.title,
		Removable: n.removable,
		Position:  n.position,
		Size:      n.Size(),
		Content:   make([]ContentData, 0, len(n.content)),
	}
	for _, c := range n.content {
		d.Content = append(d.Content, c.Data())
	}
	return d
}

func (n *Node) rowCount() int {
	rows := 0
	for _, c := range n.content {
		rows += c.rows()
	}
	return rows
}

// relayout assigns every port its row.
func (n *Node) relayout() {
	row := 0
	for _, c := range n.content {
		if f, ok := c.(*Flow); ok {
			for i, p := range f.Left {
				p.row = row + i
			}
			for i, p := range f.Right {
				p.row = row + i
			}
		}
		row += c.rows()
	}
}

func (n *Node) layout() Layout {
	if n.editor != nil {
		return n.editor.layout
	}
	return DefaultLayout
}
