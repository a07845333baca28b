// Package dom defines the document-tree collaborator the behavior
// controllers are written against, plus an in-memory implementation.
//
// The contract is deliberately small: a queryable tree of elements with
// attribute, class, and text mutation; event registration with capture
// flags; and a cancellable deferred-execution scheduler. Controllers in
// pkg/nav and pkg/modal only ever talk to these interfaces, so the same
// code runs against the test harness and the live session mirror.
//
// The in-memory implementation is single-threaded by design: event
// dispatch runs every handler to completion before returning, and no
// locking is performed. Live sessions funnel all document access
// through one goroutine to preserve that model.
package dom
