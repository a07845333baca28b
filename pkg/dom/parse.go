package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a MemoryDocument from static HTML. Text nodes are folded
// into their parent element's text content; comments, doctypes, and
// processing instructions are dropped. This is the shape the behavior
// controllers need, not a general-purpose HTML DOM.
func Parse(r io.Reader, opts ...DocumentOption) (*MemoryDocument, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	doc := &MemoryDocument{
		byUID:    make(map[string]*memoryElement),
		location: "https://localhost/",
	}
	for _, opt := range opts {
		opt(doc)
	}
	if doc.sched == nil {
		doc.sched = NewManualScheduler()
	}

	root := findElement(node, "html")
	if root == nil {
		// html.Parse always synthesizes <html>, but be tolerant.
		doc.root = doc.newElement("html")
		body := doc.newElement("body")
		doc.root.children = append(doc.root.children, body)
		body.parent = doc.root
		return doc, nil
	}

	doc.root = convertElement(doc, root)
	return doc, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string, opts ...DocumentOption) (*MemoryDocument, error) {
	return Parse(strings.NewReader(src), opts...)
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func convertElement(doc *MemoryDocument, n *html.Node) *memoryElement {
	el := doc.newElement(n.Data)
	for _, a := range n.Attr {
		el.attrs[a.Key] = a.Val
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := convertElement(doc, c)
			child.parent = el
			el.children = append(el.children, child)
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	el.text = strings.TrimSpace(text.String())
	return el
}
