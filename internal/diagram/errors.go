package diagram

import "errors"

var (
	ErrUnknownNode         = errors.New("unknown node")
	ErrUnknownEdge         = errors.New("unknown edge")
	ErrUnknownAnchor       = errors.New("unknown anchor")
	ErrInteractionConflict = errors.New("node is busy with another interaction")
	ErrNotDragging         = errors.New("node is not being dragged")
	ErrNotResizing         = errors.New("node is not being resized")
	ErrSelfConnection      = errors.New("cannot connect an anchor to itself")
	ErrInvalidKind         = errors.New("invalid relationship kind")
	ErrClosed              = errors.New("editor closed")
)
