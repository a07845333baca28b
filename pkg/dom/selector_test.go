package dom

import "testing"

const selectorFixture = `<!DOCTYPE html>
<html>
<body>
<header>
<nav id="main-nav" class="site-nav" data-nav>
<button class="nav-toggle" data-nav-toggle aria-label="Menu">Menu</button>
<div class="nav-panel" data-nav-panel>
<a href="/" class="nav-link">Home</a>
<a href="/docs" class="nav-link active">Docs</a>
</div>
</nav>
</header>
<main><p class="intro">hello</p></main>
</body>
</html>`

func selectorDoc(t *testing.T) *MemoryDocument {
	t.Helper()
	doc, err := ParseString(selectorFixture)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestQuerySelectors(t *testing.T) {
	doc := selectorDoc(t)

	cases := []struct {
		sel     string
		wantTag string
	}{
		{"nav", "nav"},
		{"#main-nav", "nav"},
		{".site-nav", "nav"},
		{"[data-nav]", "nav"},
		{"[data-nav-toggle]", "button"},
		{`[aria-label="Menu"]`, "button"},
		{"nav.site-nav", "nav"},
		{"header nav", "nav"},
		{"nav .nav-panel", "div"},
		{"nav div a", "a"},
		{"a.nav-link.active", "a"},
		{`a[href="/docs"]`, "a"},
	}
	for _, tc := range cases {
		el := doc.Query(tc.sel)
		if el == nil {
			t.Errorf("Query(%q) = nil", tc.sel)
			continue
		}
		if el.Tag() != tc.wantTag {
			t.Errorf("Query(%q).Tag() = %q, want %q", tc.sel, el.Tag(), tc.wantTag)
		}
	}
}

func TestQueryAllDocumentOrder(t *testing.T) {
	doc := selectorDoc(t)
	links := doc.QueryAll("a[href]")
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if h, _ := links[0].Attr("href"); h != "/" {
		t.Errorf("first link href = %q", h)
	}
	if h, _ := links[1].Attr("href"); h != "/docs" {
		t.Errorf("second link href = %q", h)
	}
}

func TestQueryNoMatch(t *testing.T) {
	doc := selectorDoc(t)
	if el := doc.Query("#missing"); el != nil {
		t.Errorf("Query(#missing) = %v", el)
	}
	if el := doc.Query("footer a"); el != nil {
		t.Errorf("Query(footer a) = %v", el)
	}
}

func TestMalformedSelectorsNeverMatch(t *testing.T) {
	doc := selectorDoc(t)
	for _, sel := range []string{"", "  ", "[unclosed", "#", ".", "nav>a", "a:hover", "[=x]"} {
		if el := doc.Query(sel); el != nil {
			t.Errorf("Query(%q) matched %v, want nil", sel, el)
		}
		if all := doc.QueryAll(sel); len(all) != 0 {
			t.Errorf("QueryAll(%q) = %d matches, want 0", sel, len(all))
		}
		if doc.Query("nav").Matches(sel) {
			t.Errorf("Matches(%q) = true, want false", sel)
		}
	}
}

func TestMatches(t *testing.T) {
	doc := selectorDoc(t)
	nav := doc.Query("nav")
	if !nav.Matches("nav.site-nav") {
		t.Error("nav does not match nav.site-nav")
	}
	if !nav.Matches("header nav") {
		t.Error("descendant selector did not match against ancestors")
	}
	if nav.Matches("main nav") {
		t.Error("nav matched a wrong ancestor chain")
	}
}
