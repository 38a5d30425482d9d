package chart

import "errors"

// ErrInvalidSize is returned when the canvas cannot fit the chart layout.
var ErrInvalidSize = errors.New("invalid chart size")
