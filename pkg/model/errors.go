package model

import "errors"

// ErrNestedDependencies is returned when a dependency collection is
// started while another one is open on the same goroutine.
var ErrNestedDependencies = errors.New("model: attempt to collect nested dependencies; nested dependencies are not supported")
