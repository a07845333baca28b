package dom

import (
	"strconv"
	"strings"
)

// MemoryDocument is the in-memory Document implementation. It backs the
// test harness and the live session mirror. All methods must be called
// from a single goroutine; the document provides run-to-completion
// event dispatch and no internal locking.
type MemoryDocument struct {
	root     *memoryElement
	active   *memoryElement
	location string
	sched    Scheduler
	observer Observer
	byUID    map[string]*memoryElement
	nextUID  int
}

// DocumentOption configures a MemoryDocument.
type DocumentOption func(*MemoryDocument)

// WithLocation sets the document URL.
func WithLocation(url string) DocumentOption {
	return func(d *MemoryDocument) { d.location = url }
}

// WithScheduler sets the deferred-execution collaborator.
// The default is a ManualScheduler.
func WithScheduler(s Scheduler) DocumentOption {
	return func(d *MemoryDocument) { d.sched = s }
}

// NewDocument creates an empty document with <html><body> scaffolding.
func NewDocument(opts ...DocumentOption) *MemoryDocument {
	d := &MemoryDocument{
		byUID:    make(map[string]*memoryElement),
		location: "https://localhost/",
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sched == nil {
		d.sched = NewManualScheduler()
	}
	d.root = d.newElement("html")
	body := d.newElement("body")
	d.root.children = append(d.root.children, body)
	body.parent = d.root
	return d
}

func (d *MemoryDocument) newElement(tag string) *memoryElement {
	d.nextUID++
	el := &memoryElement{
		doc:   d,
		tag:   strings.ToLower(tag),
		uid:   "e" + strconv.Itoa(d.nextUID),
		attrs: make(map[string]string),
	}
	d.byUID[el.uid] = el
	return el
}

// Observe installs the mutation observer. Passing nil stops recording.
func (d *MemoryDocument) Observe(o Observer) { d.observer = o }

// Root returns the document element.
func (d *MemoryDocument) Root() Element { return d.root }

// Body returns the body element, or nil.
func (d *MemoryDocument) Body() Element {
	for _, c := range d.root.children {
		if c.tag == "body" {
			return c
		}
	}
	return nil
}

// Query returns the first element matching selector, or nil.
func (d *MemoryDocument) Query(selector string) Element {
	return d.root.Query(selector)
}

// QueryAll returns all elements matching selector in document order.
func (d *MemoryDocument) QueryAll(selector string) []Element {
	return d.root.QueryAll(selector)
}

// CreateElement creates a detached element.
func (d *MemoryDocument) CreateElement(tag string) Element {
	return d.newElement(tag)
}

// ElementByUID returns the element with the given UID, or nil.
func (d *MemoryDocument) ElementByUID(uid string) Element {
	if el, ok := d.byUID[uid]; ok {
		return el
	}
	return nil
}

// ActiveElement returns the currently focused element, or nil.
func (d *MemoryDocument) ActiveElement() Element {
	if d.active == nil {
		return nil
	}
	return d.active
}

// Location returns the document URL.
func (d *MemoryDocument) Location() string { return d.location }

// SetLocation updates the document URL.
func (d *MemoryDocument) SetLocation(url string) { d.location = url }

// Scheduler returns the deferred-execution collaborator.
func (d *MemoryDocument) Scheduler() Scheduler { return d.sched }

// Dispatch delivers an event through capture, target, and bubble phases.
func (d *MemoryDocument) Dispatch(ev *Event) {
	target, _ := ev.Target.(*memoryElement)
	if target == nil {
		if d.active != nil {
			target = d.active
		} else if b, ok := d.Body().(*memoryElement); ok {
			target = b
		} else {
			return
		}
		ev.Target = target
	}

	// Ancestor chain, root first.
	var chain []*memoryElement
	for el := target; el != nil; el = el.parent {
		chain = append([]*memoryElement{el}, chain...)
	}

	// Capture phase: root down to target.
	for _, el := range chain {
		el.invoke(ev, true)
		if ev.stopped {
			return
		}
	}
	// Bubble phase: target up to root.
	for i := len(chain) - 1; i >= 0; i-- {
		chain[i].invoke(ev, false)
		if ev.stopped {
			return
		}
	}
}

// memoryElement is the in-memory Element implementation.
type memoryElement struct {
	doc      *MemoryDocument
	tag      string
	uid      string
	attrs    map[string]string
	text     string
	parent   *memoryElement
	children []*memoryElement

	listeners []*memoryListener
	nextLID   int
}

type memoryListener struct {
	id      int
	typ     string
	capture bool
	fn      Handler
	el      *memoryElement
	removed bool
}

// Remove detaches the listener. Safe to call more than once.
func (l *memoryListener) Remove() {
	if l.removed {
		return
	}
	l.removed = true
	ls := l.el.listeners
	for i, cand := range ls {
		if cand == l {
			l.el.listeners = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

func (el *memoryElement) invoke(ev *Event, capture bool) {
	// Snapshot so handlers may add or remove listeners mid-dispatch.
	snapshot := make([]*memoryListener, len(el.listeners))
	copy(snapshot, el.listeners)
	for _, l := range snapshot {
		if l.removed || l.capture != capture || l.typ != ev.Type {
			continue
		}
		l.fn(ev)
		if ev.stopped {
			return
		}
	}
}

func (el *memoryElement) Tag() string { return el.tag }
func (el *memoryElement) UID() string { return el.uid }

func (el *memoryElement) Attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

func (el *memoryElement) SetAttr(name, value string) error {
	if name == "" {
		return ErrBadSelector
	}
	el.attrs[name] = value
	if o := el.doc.observer; o != nil {
		o.SetAttr(el, name, value)
	}
	return nil
}

func (el *memoryElement) RemoveAttr(name string) error {
	if _, ok := el.attrs[name]; !ok {
		return nil
	}
	delete(el.attrs, name)
	if o := el.doc.observer; o != nil {
		o.RemoveAttr(el, name)
	}
	return nil
}

func (el *memoryElement) classes() []string {
	return strings.Fields(el.attrs["class"])
}

func (el *memoryElement) HasClass(name string) bool {
	for _, c := range el.classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (el *memoryElement) AddClass(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return ErrBadSelector
	}
	if el.HasClass(name) {
		return nil
	}
	cs := append(el.classes(), name)
	el.attrs["class"] = strings.Join(cs, " ")
	if o := el.doc.observer; o != nil {
		o.AddClass(el, name)
	}
	return nil
}

func (el *memoryElement) RemoveClass(name string) error {
	cs := el.classes()
	kept := cs[:0]
	removed := false
	for _, c := range cs {
		if c == name {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return nil
	}
	if len(kept) == 0 {
		delete(el.attrs, "class")
	} else {
		el.attrs["class"] = strings.Join(kept, " ")
	}
	if o := el.doc.observer; o != nil {
		o.RemoveClass(el, name)
	}
	return nil
}

func (el *memoryElement) Text() string { return el.text }

func (el *memoryElement) SetText(text string) error {
	el.text = text
	if o := el.doc.observer; o != nil {
		o.SetText(el, text)
	}
	return nil
}

func (el *memoryElement) Parent() Element {
	if el.parent == nil {
		return nil
	}
	return el.parent
}

func (el *memoryElement) Children() []Element {
	out := make([]Element, len(el.children))
	for i, c := range el.children {
		out[i] = c
	}
	return out
}

func (el *memoryElement) AppendChild(child Element) error {
	c, ok := child.(*memoryElement)
	if !ok || c.doc != el.doc {
		return ErrDetached
	}
	if c.parent != nil {
		if err := c.Detach(); err != nil {
			return err
		}
	}
	c.parent = el
	el.children = append(el.children, c)
	if o := el.doc.observer; o != nil {
		o.InsertNode(el, c, len(el.children)-1)
	}
	return nil
}

func (el *memoryElement) Detach() error {
	p := el.parent
	if p == nil {
		return nil
	}
	for i, c := range p.children {
		if c == el {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	el.parent = nil
	if el.doc.active != nil && el.Contains(el.doc.active) {
		el.doc.active = nil
	}
	if o := el.doc.observer; o != nil {
		o.RemoveNode(el)
	}
	return nil
}

func (el *memoryElement) Contains(other Element) bool {
	o, ok := other.(*memoryElement)
	if !ok {
		return false
	}
	for cur := o; cur != nil; cur = cur.parent {
		if cur == el {
			return true
		}
	}
	return false
}

func (el *memoryElement) Matches(selector string) bool {
	sel, err := parseSelector(selector)
	if err != nil {
		return false
	}
	return sel.matches(el)
}

func (el *memoryElement) Query(selector string) Element {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var found *memoryElement
	el.walk(func(cand *memoryElement) bool {
		if sel.matches(cand) {
			found = cand
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return found
}

func (el *memoryElement) QueryAll(selector string) []Element {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil
	}
	var out []Element
	el.walk(func(cand *memoryElement) bool {
		if sel.matches(cand) {
			out = append(out, cand)
		}
		return true
	})
	return out
}

// walk visits descendants in document order, excluding el itself.
// The visitor returns false to stop the walk.
func (el *memoryElement) walk(visit func(*memoryElement) bool) bool {
	for _, c := range el.children {
		if !visit(c) {
			return false
		}
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

func (el *memoryElement) On(eventType string, capture bool, h Handler) ListenerHandle {
	el.nextLID++
	l := &memoryListener{
		id:      el.nextLID,
		typ:     eventType,
		capture: capture,
		fn:      h,
		el:      el,
	}
	el.listeners = append(el.listeners, l)
	return l
}

func (el *memoryElement) Focus() error {
	if !el.Focusable() {
		return ErrNotFocusable
	}
	if el.doc.active == el {
		return nil
	}
	el.doc.active = el
	if o := el.doc.observer; o != nil {
		o.Focus(el)
	}
	return nil
}

func (el *memoryElement) Blur() {
	if el.doc.active != el {
		return
	}
	el.doc.active = nil
	if o := el.doc.observer; o != nil {
		o.Blur(el)
	}
}

// Focusable reports whether the element can receive programmatic focus.
// Elements with tabindex="-1" are focusable but not reachable by Tab;
// callers that need Tab order must filter those out themselves.
func (el *memoryElement) Focusable() bool {
	if _, disabled := el.attrs["disabled"]; disabled {
		return false
	}
	if _, hidden := el.attrs["hidden"]; hidden {
		return false
	}
	if _, ok := el.attrs["tabindex"]; ok {
		return true
	}
	switch el.tag {
	case "a":
		_, ok := el.attrs["href"]
		return ok
	case "button", "input", "select", "textarea":
		return true
	}
	return false
}

func (el *memoryElement) Document() Document { return el.doc }
