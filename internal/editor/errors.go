package editor

import "errors"

var (
	// ErrUnknownNode is returned when an operation names a node the editor does not hold.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownPort is returned when a port reference cannot be resolved.
	ErrUnknownPort = errors.New("unknown port")
	// ErrUnknownPath is returned when removing a path the editor does not hold.
	ErrUnknownPath = errors.New("unknown path")
	// ErrDuplicateNode is returned when adding a node whose id is already taken.
	ErrDuplicateNode = errors.New("duplicate node id")
	// ErrDuplicatePort is returned when content would introduce a port id already used on the node.
	ErrDuplicatePort = errors.New("duplicate port id")
	// ErrPointerBothEnds is returned when a path would be anchored to the pointer at both ends.
	ErrPointerBothEnds = errors.New("path anchored to the pointer at both ends")
	// ErrPortConnected is returned when a port that already carries a link is asked to take another.
	ErrPortConnected = errors.New("port already connected")
	// ErrLoosePathExists is returned when a second loose path is started.
	ErrLoosePathExists = errors.New("a loose path is already being dragged")
	// ErrNodeAttached is returned when a node already owned by an editor is added again.
	ErrNodeAttached = errors.New("node already belongs to an editor")
	// ErrUnknownContent is returned for content kinds the editor cannot build.
	ErrUnknownContent = errors.New("unknown content kind")
)
