package possession

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrInvalidResolution = errors.New("resolution must be a positive number of frames per second")
)
