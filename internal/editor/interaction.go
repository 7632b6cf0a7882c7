package editor

import "slices"

// HandleInput advances the interaction state machine by one event.
//
//	             down on canvas              down on node
//	Panning  <------------------  Idle  ------------------>  DraggingNode
//	   |                          ^  |                            |
//	   +----------- up -----------+  | down on free port          | up: node-change
//	                              |  v                            |
//	                       DraggingLink <-------------------------+
//	                (down on free port completes: link-add)
//
// Pressing a connected port while no link is loose detaches that end and
// fires link-remove. Delete removes the selected node if it is removable.
func (e *Editor) HandleInput(ev InputEvent) {
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp:
		e.pointerUp(ev)
	case KeyDown:
		e.keyDown(ev)
	}
}

func (e *Editor) pointerDown(ev InputEvent) {
	e.pointer = ev.Pos
	t := ev.Target
	if t.Kind == TargetNone {
		t = e.HitTest(ev.Pos)
	}

	switch t.Kind {
	case TargetPort:
		e.portDown(t.Port)
	case TargetNode:
		screen := t.Node.ScreenPosition()
		e.BeginDrag(t.Node, ev.Pos.Sub(screen))
	default:
		e.selected = nil
		e.dropLoose()
		e.panning = true
		e.panOrigin = e.pan
		e.pointerOrigin = ev.Pos
	}
}

func (e *Editor) portDown(port *Port) {
	if port == nil {
		return
	}
	switch {
	case port.link == nil && e.loose == nil:
		// Ports on the right edge send, ports on the left receive.
		from, to := port, (*Port)(nil)
		if port.side == Left {
			from, to = nil, port
		}
		p, _ := NewPath(from, to)
		_ = e.AddPath(p, nil)

	case port.link == nil:
		p := e.loose
		if p.from == nil {
			p.from = port
		} else {
			p.to = port
		}
		port.link = p
		e.loose = nil
		e.paths = append(e.paths, p)
		p.update()
		e.logger.Debug("Link completed.", "from", p.from.Ref(), "to", p.to.Ref())
		e.hooks.linkAdd(p, nil)

	case e.loose == nil:
		p := port.link
		e.paths = slices.DeleteFunc(e.paths, func(o *Path) bool { return o == p })
		e.hooks.linkRemove(p, nil)
		if p.from == port {
			p.from = nil
		} else {
			p.to = nil
		}
		port.link = nil
		e.loose = p
		p.update()
		e.logger.Debug("Link detached.", "port", port.Ref())
	}
}

func (e *Editor) pointerMove(ev InputEvent) {
	e.pointer = ev.Pos
	switch {
	case e.dragNode != nil:
		n := e.dragNode
		n.position = ev.Pos.Sub(e.pan).Sub(e.grab)
		e.refreshNode(n)
	case e.panning:
		e.pan = e.panOrigin.Add(ev.Pos.Sub(e.pointerOrigin))
		e.refreshAll()
	}
	if e.loose != nil {
		e.loose.update()
	}
}

func (e *Editor) pointerUp(ev InputEvent) {
	e.pointer = ev.Pos
	if n := e.dragNode; n != nil {
		e.dragNode = nil
		e.hooks.nodeChange(n, nil)
	}
	e.panning = false
}

func (e *Editor) keyDown(ev InputEvent) {
	if ev.Key != KeyDelete || e.selected == nil || !e.selected.removable {
		return
	}
	_ = e.RemoveNode(e.selected.id, nil)
}
