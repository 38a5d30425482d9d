package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrDecode       = errors.New("decode detections document")
	ErrInvalidFrame = errors.New("invalid frame record")
)
