// Package modal implements the demo dialog: an accessible modal with
// a keyboard focus trap, overlay dismissal, Escape handling, and focus
// restoration to the element that opened it. At most one modal exists
// at a time; opening a second closes the first.
package modal
