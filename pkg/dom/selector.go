package dom

import "strings"

// The selector engine supports the subset the controllers need:
// tag, #id, .class, [attr], [attr="value"], compounds of those, and
// the descendant combinator. Anything else fails to parse, and a
// failed parse is reported as "no match" by Matches/Query.

type attrTest struct {
	name     string
	value    string
	hasValue bool
}

// compound is one whitespace-separated selector part.
type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrTest
}

// selector is a descendant chain of compounds, leftmost ancestor first.
type selector struct {
	parts []compound
}

func parseSelector(s string) (*selector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, ErrBadSelector
	}
	sel := &selector{}
	for _, f := range fields {
		c, err := parseCompound(f)
		if err != nil {
			return nil, err
		}
		sel.parts = append(sel.parts, c)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			j := simpleEnd(s, i+1)
			if j == i+1 {
				return c, ErrBadSelector
			}
			c.id = s[i+1 : j]
			i = j
		case '.':
			j := simpleEnd(s, i+1)
			if j == i+1 {
				return c, ErrBadSelector
			}
			c.classes = append(c.classes, s[i+1:j])
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return c, ErrBadSelector
			}
			body := s[i+1 : i+j]
			i += j + 1
			name, value, hasValue := strings.Cut(body, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return c, ErrBadSelector
			}
			if hasValue {
				value = strings.TrimSpace(value)
				value = strings.Trim(value, `"'`)
			}
			c.attrs = append(c.attrs, attrTest{name: name, value: value, hasValue: hasValue})
		default:
			if c.tag != "" || !isNameByte(s[i]) {
				return c, ErrBadSelector
			}
			j := simpleEnd(s, i)
			c.tag = strings.ToLower(s[i:j])
			i = j
		}
	}
	if c.tag == "" && c.id == "" && len(c.classes) == 0 && len(c.attrs) == 0 {
		return c, ErrBadSelector
	}
	return c, nil
}

// simpleEnd returns the index after a run of identifier bytes starting at i.
func simpleEnd(s string, i int) int {
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	return i
}

func isNameByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

func (c compound) matches(el *memoryElement) bool {
	if c.tag != "" && c.tag != el.tag {
		return false
	}
	if c.id != "" && el.attrs["id"] != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !el.HasClass(cl) {
			return false
		}
	}
	for _, at := range c.attrs {
		v, ok := el.attrs[at.name]
		if !ok {
			return false
		}
		if at.hasValue && v != at.value {
			return false
		}
	}
	return true
}

// matches checks the rightmost compound against el, then walks ancestors
// for the remaining compounds (standard right-to-left matching).
func (s *selector) matches(el *memoryElement) bool {
	last := len(s.parts) - 1
	if !s.parts[last].matches(el) {
		return false
	}
	anc := el.parent
	for i := last - 1; i >= 0; i-- {
		for {
			if anc == nil {
				return false
			}
			if s.parts[i].matches(anc) {
				anc = anc.parent
				break
			}
			anc = anc.parent
		}
	}
	return true
}
