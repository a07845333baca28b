// Package nav implements the collapsible navigation controller: an
// open/closed state machine over ARIA, class, and data attributes,
// with exact attribute restoration on teardown and deferred
// active-link highlighting via pkg/navpath.
package nav
