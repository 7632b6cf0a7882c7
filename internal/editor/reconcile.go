package editor

import (
	"fmt"
	"slices"
)

// UpdateNode applies an authoritative snapshot of an existing node. Position,
// size and title are taken from d, and content items d has that the node
// lacks are appended. Sizes compare against the node's effective size, so
// echoing a node's own Data changes nothing. Local items are never removed.
// If anything changed, the node-change hook fires. An unknown id is reported and skipped; the node
// arrives through AddNode.
func (e *Editor) UpdateNode(id NodeID, d NodeData, callbackData any) error {
	n, ok := e.nodes[id]
	if !ok {
		return e.report(fmt.Errorf("update node %s: %w", id, ErrUnknownNode))
	}

	modified := false
	if d.Title != "" && d.Title != n.title {
		n.title = d.Title
		modified = true
	}

	for i, cd := range d.Content {
		c, err := NewContent(cd)
		if err != nil {
			e.report(fmt.Errorf("update node %s content %d: %w", id, i, err))
			continue
		}
		if n.hasContent(c.key()) {
			continue
		}
		if err := n.AddContent(c); err != nil {
			// Snapshots repeat; a conflicting item is reported the first time only.
			if n.rejectOnce(c.key()) {
				e.report(err)
			} else {
				e.logger.Debug("Conflicting content skipped again.", "node", id, "error", err)
			}
			continue
		}
		modified = true
	}

	// Geometry is compared after content so the effective size includes any
	// rows just appended. A zero size in d carries no size information.
	// A node under the pointer keeps its local geometry until it is dropped.
	if n != e.dragNode {
		if n.position != d.Position {
			n.position = d.Position
			modified = true
		}
		if !d.Size.IsZero() && d.Size != n.Size() {
			n.size = d.Size
			modified = true
		}
	}

	if modified {
		e.refreshNode(n)
		e.hooks.nodeChange(n, callbackData)
	}
	return nil
}

// UpdatePaths makes the committed links equal to the authoritative list.
// Local links missing from the list are removed; listed links missing
// locally are added. Entries naming nodes or ports that do not exist yet, or
// ports busy with the link being dragged, are skipped and picked up by a
// later call. Applying the same list twice changes nothing.
func (e *Editor) UpdatePaths(paths []PathData, callbackData any) {
	want := make(map[pathKey]struct{}, len(paths))
	for _, pd := range paths {
		if pd.From == nil || pd.To == nil {
			continue
		}
		want[keyOf(pd)] = struct{}{}
	}

	for _, p := range slices.Clone(e.paths) {
		if _, ok := want[p.key()]; !ok {
			e.removeCommitted(p, callbackData)
		}
	}

	have := make(map[pathKey]struct{}, len(e.paths))
	for _, p := range e.paths {
		have[p.key()] = struct{}{}
	}
	for _, pd := range paths {
		if pd.From == nil || pd.To == nil {
			continue
		}
		k := keyOf(pd)
		if _, ok := have[k]; ok {
			continue
		}
		from, to := e.resolve(*pd.From), e.resolve(*pd.To)
		if from == nil || to == nil {
			e.logger.Debug("Path references are not materialized yet.", "from", *pd.From, "to", *pd.To)
			continue
		}
		if from.link != nil || to.link != nil {
			e.logger.Debug("Path endpoint busy, deferring.", "from", *pd.From, "to", *pd.To)
			continue
		}
		p, _ := NewPath(from, to)
		if err := e.AddPath(p, callbackData); err != nil {
			continue
		}
		have[k] = struct{}{}
	}
}
