package eval

import "github.com/google/uuid"

// newTrace stamps a uuid on every host-API eval call and on every
// ApplyMode entry (spec SPEC_FULL.md §5): purely a log-correlation aid for an embedder
// driving many engine instances, never observable to the evaluated
// program and never part of core semantics.
func newTrace() string {
	return uuid.NewString()
}
