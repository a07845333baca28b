package dom

import (
	"errors"
	"time"
)

// Common DOM errors.
var (
	ErrDetached     = errors.New("dom: element is detached from the document")
	ErrNotFocusable = errors.New("dom: element cannot receive focus")
	ErrBadSelector  = errors.New("dom: malformed selector")
)

// Handler handles a dispatched event.
type Handler func(*Event)

// ListenerHandle detaches a previously registered event listener.
// Remove is idempotent.
type ListenerHandle interface {
	Remove()
}

// Handle cancels pending deferred work. Cancel is idempotent and is a
// no-op once the work has run.
type Handle interface {
	Cancel()
}

// Scheduler is the deferred-execution collaborator supplied by the host.
//
// DeferIdle schedules low-priority work that must run no later than the
// given timeout. After schedules work at a fixed delay. Hosts without an
// idle primitive fall back to a bounded timer; hosts without timers run
// the work synchronously and return a no-op handle.
type Scheduler interface {
	DeferIdle(timeout time.Duration, fn func()) Handle
	After(d time.Duration, fn func()) Handle
}

// Element is a single node in the host document tree. Controllers never
// own element lifecycle; they only read and mutate attributes, classes,
// text, and listeners.
type Element interface {
	// Tag returns the lowercase tag name.
	Tag() string

	// UID returns a document-unique identifier assigned at creation.
	// It is stable for the lifetime of the element and is what the
	// patch protocol uses to address nodes.
	UID() string

	// Attr returns the attribute value and whether it is present.
	Attr(name string) (string, bool)

	// SetAttr sets an attribute. Failures are per-attribute: a failed
	// set never affects other attributes.
	SetAttr(name, value string) error

	// RemoveAttr removes an attribute if present.
	RemoveAttr(name string) error

	// HasClass reports whether the class attribute contains name.
	HasClass(name string) bool

	// AddClass appends name to the class attribute if absent.
	AddClass(name string) error

	// RemoveClass removes name from the class attribute if present.
	RemoveClass(name string) error

	// Text returns the element's own text content.
	Text() string

	// SetText replaces the element's own text content.
	SetText(text string) error

	// Parent returns the parent element, or nil for the root.
	Parent() Element

	// Children returns the child elements in document order.
	Children() []Element

	// AppendChild attaches child as the last child of this element.
	AppendChild(child Element) error

	// Detach removes this element from its parent.
	Detach() error

	// Contains reports whether other is this element or a descendant.
	Contains(other Element) bool

	// Matches reports whether the element matches a simple selector.
	// Malformed selectors never match.
	Matches(selector string) bool

	// Query returns the first descendant matching selector, or nil.
	Query(selector string) Element

	// QueryAll returns all descendants matching selector in document order.
	QueryAll(selector string) []Element

	// On registers an event listener. The capture flag selects the
	// capture phase; the returned handle detaches the listener.
	On(eventType string, capture bool, h Handler) ListenerHandle

	// Focus moves document focus to this element.
	Focus() error

	// Blur removes focus if this element currently holds it.
	Blur()

	// Focusable reports whether the element can receive programmatic
	// focus (includes tabindex="-1" elements).
	Focusable() bool

	// Document returns the owning document.
	Document() Document
}

// Document is the queryable tree collaborator supplied by the host.
type Document interface {
	// Root returns the document element.
	Root() Element

	// Body returns the body element, or nil if the document has none.
	Body() Element

	// Query returns the first element matching selector, or nil.
	// Malformed selectors yield nil, never an error.
	Query(selector string) Element

	// QueryAll returns all elements matching selector in document order.
	QueryAll(selector string) []Element

	// CreateElement creates a detached element owned by this document.
	CreateElement(tag string) Element

	// ElementByUID returns the element with the given UID, or nil.
	ElementByUID(uid string) Element

	// ActiveElement returns the currently focused element, or nil.
	ActiveElement() Element

	// Location returns the document's full URL.
	Location() string

	// Scheduler returns the deferred-execution collaborator.
	Scheduler() Scheduler

	// Dispatch delivers an event through capture, target, and bubble
	// phases. Handlers run to completion before Dispatch returns.
	Dispatch(ev *Event)
}

// Event is a dispatched DOM event. Events are synchronous: the dispatch
// that created an event completes before the next event is processed.
type Event struct {
	Type     string
	Target   Element
	Key      string
	ShiftKey bool

	stopped          bool
	defaultPrevented bool
}

// StopPropagation prevents the event from reaching further listeners.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Observer receives a callback for every mutation applied to a document.
// The live session layer uses this to translate mutations into wire
// patches; a nil observer disables recording.
type Observer interface {
	SetAttr(el Element, name, value string)
	RemoveAttr(el Element, name string)
	AddClass(el Element, name string)
	RemoveClass(el Element, name string)
	SetText(el Element, text string)
	InsertNode(parent, child Element, index int)
	RemoveNode(el Element)
	Focus(el Element)
	Blur(el Element)
}
