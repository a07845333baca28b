package dom

import (
	"html"
	"sort"
	"strings"
)

// voidTags never carry children or a closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// OuterHTML serializes an element subtree. Attributes are emitted in
// sorted order so output is deterministic; every value is escaped. The
// patch protocol uses this to ship newly inserted nodes to the client.
func OuterHTML(el Element) string {
	var b strings.Builder
	writeElement(&b, el)
	return b.String()
}

func writeElement(b *strings.Builder, el Element) {
	tag := el.Tag()
	b.WriteByte('<')
	b.WriteString(tag)

	names := attributeNames(el)
	for _, name := range names {
		v, _ := el.Attr(name)
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(v))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if voidTags[tag] {
		return
	}
	if t := el.Text(); t != "" {
		b.WriteString(html.EscapeString(t))
	}
	for _, c := range el.Children() {
		writeElement(b, c)
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func attributeNames(el Element) []string {
	mem, ok := el.(*memoryElement)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(mem.attrs))
	for name := range mem.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
