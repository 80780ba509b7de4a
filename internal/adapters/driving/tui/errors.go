package tui

import "errors"

// ErrMissingThreadService is returned when the thread service is not provided.
var ErrMissingThreadService = errors.New("tui: thread service is required")

// ErrMissingSearchSession is returned when the search session is not provided.
var ErrMissingSearchSession = errors.New("tui: search session is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
