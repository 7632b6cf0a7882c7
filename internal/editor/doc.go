// Package editor is a headless node editor: the nodes, ports and links of a
// flow graph together with the pointer interaction that edits them.
//
// # Model
//
// An Editor owns Nodes. A Node holds an ordered list of Content items
// (Label, Parameter, Statistic, Flow); the ports of every Flow are also
// indexed on the node by id. A Path links two ports. While one end follows
// the pointer the path is "loose": it is UI state only, never serialized and
// never announced through hooks. A port carries a link reference exactly when
// some path, loose or committed, ends on it.
//
// # Interaction
//
// Surfaces translate their native events into InputEvents and feed them to
// HandleInput. The editor moves between Idle, Panning, DraggingNode and
// DraggingLink. Panning is a view transform: stored node positions never
// change while panning, only screen positions and curves do.
//
// # Reconciliation
//
// UpdateNode and UpdatePaths fold an authoritative graph into local state
// without disturbing an in-flight gesture. Hooks fired by those calls carry
// the caller's callbackData, so an owner can tell its own echoes apart from
// local edits, which carry nil.
//
// # Concurrency
//
// Nothing here is safe for concurrent use. Run every call, including
// scheduler callbacks, on one goroutine.
package editor
