// Package library is the palette of node templates. Pressing a template
// spawns a copy into the editor and hands it straight to the editor's node
// drag, so a node is placed in one gesture.
package library

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/ComNetsHH/FlowEmu/internal/editor"
	"github.com/ComNetsHH/FlowEmu/internal/geom"
)

// Group is a named, collapsible set of templates.
type Group struct {
	Name      string
	Collapsed bool
	Templates []*editor.Node
}

// Entry is one visible palette row: a group header, or a template when
// Template is set.
type Entry struct {
	Group    *Group
	Template *editor.Node
}

// Library holds template groups in display order.
type Library struct {
	editor *editor.Editor
	logger *slog.Logger
	groups []*Group

	// origin is the editor canvas's top-left corner in palette coordinates.
	origin    geom.Point
	rowHeight float64
	width     float64
}

// Option configures a Library.
type Option func(*Library)

// WithOrigin sets where the editor canvas starts relative to the pointer
// coordinates the palette receives.
func WithOrigin(p geom.Point) Option { return func(l *Library) { l.origin = p } }

// WithRowHeight sets the height of one palette row.
func WithRowHeight(h float64) Option { return func(l *Library) { l.rowHeight = h } }

// WithWidth sets the palette width.
func WithWidth(w float64) Option { return func(l *Library) { l.width = w } }

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option { return func(l *Library) { l.logger = ctxlog.OrDiscard(lg) } }

// New creates an empty library that spawns into ed.
func New(ed *editor.Editor, opts ...Option) *Library {
	l := &Library{
		editor:    ed,
		logger:    ctxlog.OrDiscard(nil),
		rowHeight: ed.Layout().RowHeight,
		width:     ed.Layout().DefaultWidth,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "library")
	return l
}

// AddNode registers a template in the named group, creating the group on
// first use.
func (l *Library) AddNode(group string, template *editor.Node) {
	g := l.Group(group)
	if g == nil {
		g = &Group{Name: group}
		l.groups = append(l.groups, g)
	}
	g.Templates = append(g.Templates, template)
}

// Group returns the named group, or nil.
func (l *Library) Group(name string) *Group {
	for _, g := range l.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Groups returns the groups in display order.
func (l *Library) Groups() []*Group { return slices.Clone(l.groups) }

// Toggle flips a group between collapsed and expanded and returns the new
// collapsed state.
func (l *Library) Toggle(name string) bool {
	g := l.Group(name)
	if g == nil {
		return false
	}
	g.Collapsed = !g.Collapsed
	return g.Collapsed
}

// Replace swaps in a new set of groups, keeping the collapsed state of groups
// that survive by name.
func (l *Library) Replace(groups []*Group) {
	for _, g := range groups {
		if old := l.Group(g.Name); old != nil {
			g.Collapsed = old.Collapsed
		}
	}
	l.groups = groups
	l.logger.Info("Node library reloaded.", "groups", len(groups))
}

// Template finds a template by node type.
func (l *Library) Template(typ string) *editor.Node {
	for _, g := range l.groups {
		for _, t := range g.Templates {
			if t.Type() == typ {
				return t
			}
		}
	}
	return nil
}

// Entries lists the visible palette rows top to bottom.
func (l *Library) Entries() []Entry {
	var out []Entry
	for _, g := range l.groups {
		out = append(out, Entry{Group: g})
		if g.Collapsed {
			continue
		}
		for _, t := range g.Templates {
			out = append(out, Entry{Group: g, Template: t})
		}
	}
	return out
}

// HitTest returns the palette row at pos, if any.
func (l *Library) HitTest(pos geom.Point) (Entry, bool) {
	if pos.X < 0 || pos.X >= l.width || pos.Y < 0 || l.rowHeight <= 0 {
		return Entry{}, false
	}
	entries := l.Entries()
	i := int(pos.Y / l.rowHeight)
	if i >= len(entries) {
		return Entry{}, false
	}
	return entries[i], true
}

// Spawn copies template into the editor under the pointer and starts dragging
// it. pointer is in palette coordinates; grab is the offset of the pointer
// inside the node.
func (l *Library) Spawn(template *editor.Node, pointer, grab geom.Point) (*editor.Node, error) {
	d := template.Data()
	// Templates are detached, so their size was computed with the default
	// layout. Let the editor's layout size the copy.
	d.Size = geom.Size{}
	n, err := editor.NewNodeFromData("", d)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", template.Type(), err)
	}
	n.SetPosition(pointer.Sub(l.origin).Sub(l.editor.Pan()).Sub(grab))

	if err := l.editor.AddNode(n, nil); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", template.Type(), err)
	}
	l.editor.BeginDrag(n, grab)
	l.logger.Debug("Node spawned from library.", "type", n.Type(), "node", n.ID())
	return n, nil
}

// HandleInput consumes pointer presses on the palette. Headers toggle their
// group; templates spawn. It reports whether the event was consumed.
func (l *Library) HandleInput(ev editor.InputEvent) bool {
	if ev.Kind != editor.PointerDown {
		return false
	}
	entry, ok := l.HitTest(ev.Pos)
	if !ok {
		return false
	}
	if entry.Template == nil {
		l.Toggle(entry.Group.Name)
		return true
	}
	rowTop := float64(int(ev.Pos.Y/l.rowHeight)) * l.rowHeight
	grab := geom.Point{X: ev.Pos.X, Y: ev.Pos.Y - rowTop}
	if _, err := l.Spawn(entry.Template, ev.Pos, grab); err != nil {
		l.logger.Warn("Failed to spawn node.", "error", err)
	}
	return true
}
