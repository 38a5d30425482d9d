package report

import "errors"

// ErrUnknownFormat is returned for output formats Encode cannot write.
var ErrUnknownFormat = errors.New("unknown report format")
