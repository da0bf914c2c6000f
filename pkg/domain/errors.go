package domain

import "errors"

// ErrGraphNotFound is returned when a graph ID cannot be found in a loader or store.
var ErrGraphNotFound = errors.New("graph not found")

// ErrInvalidGraph is returned when a graph description is structurally broken
// (duplicate node IDs, edges pointing to unknown slots, ...).
var ErrInvalidGraph = errors.New("invalid graph")

// ErrNoLoader is returned when an operation needs a GraphLoader and none is configured.
var ErrNoLoader = errors.New("no graph loader configured")
