package dom

import (
	"errors"
	"testing"
)

func buildTree(t *testing.T) (*MemoryDocument, Element, Element, Element) {
	t.Helper()
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	btn := doc.CreateElement("button")
	if err := doc.Body().AppendChild(outer); err != nil {
		t.Fatal(err)
	}
	if err := outer.AppendChild(inner); err != nil {
		t.Fatal(err)
	}
	if err := inner.AppendChild(btn); err != nil {
		t.Fatal(err)
	}
	return doc, outer, inner, btn
}

func TestDispatchPhaseOrder(t *testing.T) {
	doc, outer, inner, btn := buildTree(t)

	var order []string
	outer.On("click", true, func(*Event) { order = append(order, "outer-capture") })
	inner.On("click", true, func(*Event) { order = append(order, "inner-capture") })
	btn.On("click", true, func(*Event) { order = append(order, "btn-capture") })
	btn.On("click", false, func(*Event) { order = append(order, "btn-bubble") })
	inner.On("click", false, func(*Event) { order = append(order, "inner-bubble") })
	outer.On("click", false, func(*Event) { order = append(order, "outer-bubble") })

	doc.Dispatch(&Event{Type: "click", Target: btn})

	want := []string{"outer-capture", "inner-capture", "btn-capture", "btn-bubble", "inner-bubble", "outer-bubble"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDispatchStopPropagation(t *testing.T) {
	doc, outer, inner, btn := buildTree(t)

	var order []string
	inner.On("click", false, func(ev *Event) {
		order = append(order, "inner")
		ev.StopPropagation()
	})
	outer.On("click", false, func(*Event) { order = append(order, "outer") })

	doc.Dispatch(&Event{Type: "click", Target: btn})

	if len(order) != 1 || order[0] != "inner" {
		t.Errorf("order = %v, want [inner]", order)
	}
}

func TestDispatchTypeFilter(t *testing.T) {
	doc, _, _, btn := buildTree(t)
	clicks, keys := 0, 0
	btn.On("click", false, func(*Event) { clicks++ })
	btn.On("keydown", false, func(*Event) { keys++ })

	doc.Dispatch(&Event{Type: "keydown", Target: btn, Key: "Enter"})
	if clicks != 0 || keys != 1 {
		t.Errorf("clicks=%d keys=%d", clicks, keys)
	}
}

func TestListenerRemoveIsIdempotent(t *testing.T) {
	doc, _, _, btn := buildTree(t)
	n := 0
	h := btn.On("click", false, func(*Event) { n++ })

	doc.Dispatch(&Event{Type: "click", Target: btn})
	h.Remove()
	h.Remove()
	doc.Dispatch(&Event{Type: "click", Target: btn})

	if n != 1 {
		t.Errorf("handler ran %d times, want 1", n)
	}
}

func TestListenerRemovedMidDispatch(t *testing.T) {
	doc, _, _, btn := buildTree(t)
	var second ListenerHandle
	ran := false
	btn.On("click", false, func(*Event) { second.Remove() })
	second = btn.On("click", false, func(*Event) { ran = true })

	doc.Dispatch(&Event{Type: "click", Target: btn})
	if ran {
		t.Error("removed listener still ran")
	}
}

func TestFocusRules(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	btn := doc.CreateElement("button")
	link := doc.CreateElement("a")
	_ = doc.Body().AppendChild(div)
	_ = doc.Body().AppendChild(btn)
	_ = doc.Body().AppendChild(link)

	if err := div.Focus(); !errors.Is(err, ErrNotFocusable) {
		t.Errorf("div.Focus() = %v, want ErrNotFocusable", err)
	}
	if err := link.Focus(); !errors.Is(err, ErrNotFocusable) {
		t.Errorf("a without href: %v, want ErrNotFocusable", err)
	}

	_ = link.SetAttr("href", "/x")
	if err := link.Focus(); err != nil {
		t.Errorf("a with href: %v", err)
	}
	if err := btn.Focus(); err != nil {
		t.Fatal(err)
	}
	if doc.ActiveElement() != btn {
		t.Error("ActiveElement is not the focused button")
	}

	// tabindex makes anything focusable, including -1.
	_ = div.SetAttr("tabindex", "-1")
	if err := div.Focus(); err != nil {
		t.Errorf("tabindex=-1 div: %v", err)
	}

	_ = btn.SetAttr("disabled", "")
	if btn.Focusable() {
		t.Error("disabled button is focusable")
	}

	div.Blur()
	if doc.ActiveElement() != nil {
		t.Error("Blur left focus in place")
	}
	// Blurring an unfocused element is a no-op.
	_ = btn.RemoveAttr("disabled")
	_ = btn.Focus()
	div.Blur()
	if doc.ActiveElement() != btn {
		t.Error("Blur of unfocused element moved focus")
	}
}

func TestDetachClearsFocus(t *testing.T) {
	doc := NewDocument()
	wrap := doc.CreateElement("div")
	btn := doc.CreateElement("button")
	_ = doc.Body().AppendChild(wrap)
	_ = wrap.AppendChild(btn)
	_ = btn.Focus()

	if err := wrap.Detach(); err != nil {
		t.Fatal(err)
	}
	if doc.ActiveElement() != nil {
		t.Error("focus survived subtree detach")
	}
	if btn.(*memoryElement).parent != wrap {
		t.Error("btn lost its parent inside the detached subtree")
	}
}

func TestClassOperations(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("nav")

	if err := el.AddClass("site-nav"); err != nil {
		t.Fatal(err)
	}
	if err := el.AddClass("site-nav"); err != nil {
		t.Fatal(err)
	}
	_ = el.AddClass("nav--open")
	if v, _ := el.Attr("class"); v != "site-nav nav--open" {
		t.Errorf("class = %q", v)
	}
	if !el.HasClass("nav--open") || el.HasClass("nav") {
		t.Error("HasClass is wrong")
	}

	_ = el.RemoveClass("site-nav")
	if v, _ := el.Attr("class"); v != "nav--open" {
		t.Errorf("class = %q", v)
	}
	_ = el.RemoveClass("nav--open")
	if _, ok := el.Attr("class"); ok {
		t.Error("empty class attribute not removed")
	}

	if err := el.AddClass("two words"); err == nil {
		t.Error("AddClass accepted whitespace")
	}
}

func TestElementByUID(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	if doc.ElementByUID(el.UID()) != el {
		t.Error("ElementByUID did not find the element")
	}
	if doc.ElementByUID("e999") != nil {
		t.Error("unknown UID returned an element")
	}
}

func TestDispatchFallsBackToActiveThenBody(t *testing.T) {
	doc := NewDocument()
	btn := doc.CreateElement("button")
	_ = doc.Body().AppendChild(btn)

	got := ""
	doc.Body().On("keydown", false, func(ev *Event) { got = ev.Target.Tag() })

	doc.Dispatch(&Event{Type: "keydown", Key: "Escape"})
	if got != "body" {
		t.Errorf("unfocused fallback target = %q, want body", got)
	}

	_ = btn.Focus()
	btn.On("keydown", false, func(ev *Event) { got = ev.Target.Tag() })
	doc.Dispatch(&Event{Type: "keydown", Key: "Escape"})
	if got != "button" {
		t.Errorf("focused fallback target = %q, want button", got)
	}
}
