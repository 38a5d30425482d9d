package batch

import "errors"

// ErrNoInputs is returned when a run is started without input files.
var ErrNoInputs = errors.New("no input files")
