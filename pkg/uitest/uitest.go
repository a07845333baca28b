// Package uitest is the test harness for page behaviors: it parses
// static HTML into an in-memory document, drives events through it,
// and asserts on the resulting attribute and class state. Deferred
// work is under manual control via Flush.
package uitest

import (
	"testing"

	"github.com/navkit-dev/navkit"
	"github.com/navkit-dev/navkit/pkg/dom"
)

// Harness wraps a document, a manual scheduler, and a controller for
// one test.
type Harness struct {
	T     *testing.T
	Doc   *dom.MemoryDocument
	Sched *dom.ManualScheduler
	Ctrl  *navkit.Controller
}

// Option configures a Harness.
type Option func(*options)

type options struct {
	location string
	cfg      *navkit.Config
	noInit   bool
}

// WithLocation sets the document URL. Default "https://example.com/".
func WithLocation(url string) Option {
	return func(o *options) { o.location = url }
}

// WithConfig passes a controller config to Init.
func WithConfig(cfg *navkit.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithoutInit builds the harness without calling Init, for tests that
// exercise the lifecycle themselves.
func WithoutInit() Option {
	return func(o *options) { o.noInit = true }
}

// New parses html into a document and binds a controller to it.
func New(t *testing.T, html string, opts ...Option) *Harness {
	t.Helper()
	o := options{location: "https://example.com/"}
	for _, opt := range opts {
		opt(&o)
	}

	sched := dom.NewManualScheduler()
	doc, err := dom.ParseString(html, dom.WithLocation(o.location), dom.WithScheduler(sched))
	if err != nil {
		t.Fatalf("uitest: parse: %v", err)
	}

	h := &Harness{
		T:     t,
		Doc:   doc,
		Sched: sched,
		Ctrl:  navkit.New(doc),
	}
	if !o.noInit {
		h.Ctrl.Init(o.cfg)
	}
	return h
}

// Flush runs all pending deferred work.
func (h *Harness) Flush() { h.Sched.Flush() }

// Query returns the first match, or nil.
func (h *Harness) Query(selector string) dom.Element {
	return h.Doc.Query(selector)
}

// MustQuery returns the first match or fails the test.
func (h *Harness) MustQuery(selector string) dom.Element {
	h.T.Helper()
	el := h.Doc.Query(selector)
	if el == nil {
		h.T.Fatalf("uitest: no element matches %q", selector)
	}
	return el
}

// Click dispatches a click on the first element matching selector.
func (h *Harness) Click(selector string) {
	h.T.Helper()
	h.ClickEl(h.MustQuery(selector))
}

// ClickEl dispatches a click on el.
func (h *Harness) ClickEl(el dom.Element) {
	h.Doc.Dispatch(&dom.Event{Type: "click", Target: el})
}

// Keydown dispatches a keydown with the given key on el. A nil el
// targets the focused element, falling back to the document root.
func (h *Harness) Keydown(el dom.Element, key string, shift bool) {
	if el == nil {
		el = h.Doc.ActiveElement()
	}
	if el == nil {
		el = h.Doc.Root()
	}
	h.Doc.Dispatch(&dom.Event{Type: "keydown", Target: el, Key: key, ShiftKey: shift})
}

// AttrIs fails unless the element's attribute has the given value.
func (h *Harness) AttrIs(el dom.Element, name, want string) {
	h.T.Helper()
	got, ok := el.Attr(name)
	if !ok {
		h.T.Errorf("uitest: <%s %s> attribute %q absent, want %q", el.Tag(), el.UID(), name, want)
		return
	}
	if got != want {
		h.T.Errorf("uitest: <%s %s> attribute %q = %q, want %q", el.Tag(), el.UID(), name, got, want)
	}
}

// AttrAbsent fails if the element carries the attribute.
func (h *Harness) AttrAbsent(el dom.Element, name string) {
	h.T.Helper()
	if got, ok := el.Attr(name); ok {
		h.T.Errorf("uitest: <%s %s> attribute %q = %q, want absent", el.Tag(), el.UID(), name, got)
	}
}

// HasClass fails unless the element carries the class.
func (h *Harness) HasClass(el dom.Element, class string) {
	h.T.Helper()
	if !el.HasClass(class) {
		h.T.Errorf("uitest: <%s %s> missing class %q (class=%q)", el.Tag(), el.UID(), class, attrOr(el, "class"))
	}
}

// NoClass fails if the element carries the class.
func (h *Harness) NoClass(el dom.Element, class string) {
	h.T.Helper()
	if el.HasClass(class) {
		h.T.Errorf("uitest: <%s %s> has class %q, want absent", el.Tag(), el.UID(), class)
	}
}

// FocusedIs fails unless el currently holds focus.
func (h *Harness) FocusedIs(el dom.Element) {
	h.T.Helper()
	active := h.Doc.ActiveElement()
	if active == nil {
		h.T.Errorf("uitest: nothing focused, want <%s %s>", el.Tag(), el.UID())
		return
	}
	if active.UID() != el.UID() {
		h.T.Errorf("uitest: focus on <%s %s>, want <%s %s>", active.Tag(), active.UID(), el.Tag(), el.UID())
	}
}

func attrOr(el dom.Element, name string) string {
	v, _ := el.Attr(name)
	return v
}
