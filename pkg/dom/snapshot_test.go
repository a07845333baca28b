package dom

import "testing"

func TestSnapshotRestoresValues(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("button")
	_ = el.SetAttr("aria-expanded", "false")
	_ = el.SetAttr("class", "nav-toggle")

	s := CaptureAttributes(el, "aria-expanded", "class")
	_ = el.SetAttr("aria-expanded", "true")
	_ = el.AddClass("nav--open")
	s.Restore()

	if v, _ := el.Attr("aria-expanded"); v != "false" {
		t.Errorf("aria-expanded = %q, want false", v)
	}
	if v, _ := el.Attr("class"); v != "nav-toggle" {
		t.Errorf("class = %q, want nav-toggle", v)
	}
}

func TestSnapshotRestoresAbsence(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	s := CaptureAttributes(el, "aria-hidden")
	_ = el.SetAttr("aria-hidden", "true")
	s.Restore()

	if _, ok := el.Attr("aria-hidden"); ok {
		t.Error("absent attribute was restored as present")
	}
}

func TestSnapshotDistinguishesEmptyFromAbsent(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	_ = el.SetAttr("data-open", "")

	s := CaptureAttributes(el, "data-open")
	_ = el.RemoveAttr("data-open")
	s.Restore()

	v, ok := el.Attr("data-open")
	if !ok {
		t.Fatal("empty-valued attribute was not restored")
	}
	if v != "" {
		t.Errorf("data-open = %q, want empty", v)
	}
}

func TestSnapshotFirstRecordWins(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	_ = el.SetAttr("role", "navigation")

	s := CaptureAttributes(el, "role")
	_ = el.SetAttr("role", "menu")
	s.Add("role") // must not overwrite the original record
	s.Restore()

	if v, _ := el.Attr("role"); v != "navigation" {
		t.Errorf("role = %q, want navigation", v)
	}
}

func TestGuardedRestore(t *testing.T) {
	t.Run("removes while value is still ours", func(t *testing.T) {
		doc := NewDocument()
		el := doc.CreateElement("div")
		s := CaptureAttributes(el, "role")
		_ = el.SetAttr("role", "button")
		s.Guard("role", "button")
		s.Restore()
		if _, ok := el.Attr("role"); ok {
			t.Error("injected role not removed")
		}
	})

	t.Run("keeps a foreign value", func(t *testing.T) {
		doc := NewDocument()
		el := doc.CreateElement("div")
		s := CaptureAttributes(el, "role")
		_ = el.SetAttr("role", "button")
		s.Guard("role", "button")
		_ = el.SetAttr("role", "menuitem") // someone else changed it
		s.Restore()
		if v, _ := el.Attr("role"); v != "menuitem" {
			t.Errorf("role = %q, want menuitem left alone", v)
		}
	})

	t.Run("guard does not apply to recorded values", func(t *testing.T) {
		doc := NewDocument()
		el := doc.CreateElement("div")
		_ = el.SetAttr("role", "navigation")
		s := CaptureAttributes(el, "role")
		s.Guard("role", "button")
		_ = el.SetAttr("role", "button")
		s.Restore()
		if v, _ := el.Attr("role"); v != "navigation" {
			t.Errorf("role = %q, want navigation", v)
		}
	})
}
