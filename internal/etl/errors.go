package etl

import "errors"

// Failure classes. All of them are fatal to a run; callers classify with errors.Is.
var (
	// ErrTransport marks a network or HTTP failure during page retrieval.
	ErrTransport = errors.New("transport failure")
	// ErrDecode marks a page or snapshot body that is not valid JSON or lacks expected fields.
	ErrDecode = errors.New("decode failure")
	// ErrShapeMismatch marks a record that does not have the shape its table declares.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrCursorLoop marks a server handing back a cursor this run already fetched.
	ErrCursorLoop = errors.New("cursor already fetched")
)
