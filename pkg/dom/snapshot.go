package dom

// AttributeSnapshot records the pre-mutation state of a set of
// attributes on one element so teardown can reproduce it exactly.
// Absence is recorded distinctly from an empty value: restoring an
// attribute that was absent removes it rather than writing "".
type AttributeSnapshot struct {
	el     Element
	values map[string]*string
	guards map[string]string
}

// CaptureAttributes records the current value-or-absence of each named
// attribute on el. Capture before the first mutation; capturing the
// same name twice keeps the first record.
func CaptureAttributes(el Element, names ...string) *AttributeSnapshot {
	s := &AttributeSnapshot{
		el:     el,
		values: make(map[string]*string, len(names)),
	}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add records one more attribute if it is not already recorded.
func (s *AttributeSnapshot) Add(name string) {
	if _, ok := s.values[name]; ok {
		return
	}
	if v, present := s.el.Attr(name); present {
		val := v
		s.values[name] = &val
	} else {
		s.values[name] = nil
	}
}

// Guard constrains the restore of an attribute that was absent at
// capture time: it is removed only while its live value still equals
// expected. This protects values injected by the controller (such as
// role="button") from clobbering a value other code set after init.
func (s *AttributeSnapshot) Guard(name, expected string) {
	if s.guards == nil {
		s.guards = make(map[string]string)
	}
	s.guards[name] = expected
}

// Element returns the snapshotted element.
func (s *AttributeSnapshot) Element() Element { return s.el }

// Restore writes every recorded attribute back: recorded values are
// set, recorded absences are removed. A failure on one attribute does
// not stop the others.
func (s *AttributeSnapshot) Restore() {
	for name, val := range s.values {
		if val != nil {
			_ = s.el.SetAttr(name, *val)
			continue
		}
		if expected, guarded := s.guards[name]; guarded {
			if live, ok := s.el.Attr(name); !ok || live != expected {
				continue
			}
		}
		_ = s.el.RemoveAttr(name)
	}
}
