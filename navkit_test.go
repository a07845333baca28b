package navkit_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/navkit-dev/navkit"
	"github.com/navkit-dev/navkit/pkg/dom"
	"github.com/navkit-dev/navkit/pkg/uitest"
)

const page = `<!DOCTYPE html>
<html>
<body>
<header>
<nav data-nav class="site-nav">
<button data-nav-toggle>Menu</button>
<div data-nav-panel>
<a href="/">Home</a>
<a href="/docs">Docs</a>
</div>
</nav>
</header>
<main id="main">
<div class="demo-cta" data-demo="editor">Try it</div>
<p>content</p>
</main>
<footer><span data-year>2020</span></footer>
</body>
</html>`

func TestInitAndToggle(t *testing.T) {
	h := uitest.New(t, page, uitest.WithLocation("https://example.com/docs"))
	if !h.Ctrl.Initialized() {
		t.Fatal("not initialized")
	}

	nav := h.MustQuery("[data-nav]")
	h.AttrIs(nav, "data-open", "false")

	h.Ctrl.ToggleNav()
	h.AttrIs(nav, "data-open", "true")
	h.HasClass(nav, "nav--open")

	h.Click("[data-nav-toggle]")
	h.AttrIs(nav, "data-open", "false")
	h.NoClass(nav, "nav--open")
}

func TestDeferredHighlight(t *testing.T) {
	h := uitest.New(t, page, uitest.WithLocation("https://example.com/docs"))
	docs := h.MustQuery(`a[href="/docs"]`)
	h.NoClass(docs, "active")

	h.Flush()
	h.HasClass(docs, "active")
	h.AttrIs(docs, "aria-current", "page")
}

func TestInitIsIdempotent(t *testing.T) {
	h := uitest.New(t, page)
	h.Ctrl.ToggleNav(true)

	h.Ctrl.Init(nil) // no-op while initialized
	nav := h.MustQuery("[data-nav]")
	h.AttrIs(nav, "data-open", "true")

	h.Ctrl.Init(&navkit.Config{}) // fresh config re-initializes
	h.AttrIs(nav, "data-open", "false")
}

func TestDemoBlocks(t *testing.T) {
	h := uitest.New(t, page)
	h.Ctrl.InitDemoBlocks()

	cta := h.MustQuery("[data-demo]")
	// The div CTA gets button semantics.
	h.AttrIs(cta, "role", "button")
	h.AttrIs(cta, "tabindex", "0")

	h.ClickEl(cta)
	modal := h.Ctrl.Modal()
	if modal == nil || !modal.IsOpen() {
		t.Fatal("click did not open the demo modal")
	}
	if v, _ := modal.Dialog().Attr("data-demo"); v != "editor" {
		t.Errorf("dialog demo id = %q, want editor", v)
	}

	h.Ctrl.CloseDemoModal()
	if modal.IsOpen() {
		t.Fatal("modal still open")
	}

	// Keyboard activation.
	h.Keydown(cta, "Enter", false)
	if !h.Ctrl.Modal().IsOpen() {
		t.Error("Enter did not open the modal")
	}
	h.Ctrl.CloseDemoModal()
	h.Keydown(cta, " ", false)
	if !h.Ctrl.Modal().IsOpen() {
		t.Error("Space did not open the modal")
	}
}

func TestDemoBlocksRescanReplacesWiring(t *testing.T) {
	h := uitest.New(t, page)
	h.Ctrl.InitDemoBlocks()
	h.Ctrl.InitDemoBlocks()

	h.Click("[data-demo]")
	if !h.Ctrl.Modal().IsOpen() {
		t.Fatal("modal did not open")
	}
	// A second scan must not have doubled the wiring: one close leaves
	// it closed.
	h.Ctrl.CloseDemoModal()
	if h.Ctrl.Modal().IsOpen() {
		t.Error("modal reopened by a duplicate listener")
	}
}

func TestCloseModalKeepsNavBodyState(t *testing.T) {
	h := uitest.New(t, page)
	h.Ctrl.InitDemoBlocks()

	h.Ctrl.OpenDemoModal("editor", nil)
	h.Ctrl.ToggleNav(true)
	h.Ctrl.CloseDemoModal()

	if !h.Ctrl.Nav().IsOpen() {
		t.Fatal("nav closed by the modal")
	}
	body := h.Doc.Body()
	if !body.HasClass("nav-open") {
		t.Errorf("modal close stripped the nav body class; body class=%q",
			func() string { v, _ := body.Attr("class"); return v }())
	}
	if body.HasClass("modal-open") {
		t.Error("modal body class survived close")
	}
}

func TestDestroyIsExactInverse(t *testing.T) {
	sched := dom.NewManualScheduler()
	doc, err := dom.ParseString(page,
		dom.WithLocation("https://example.com/docs"),
		dom.WithScheduler(sched))
	if err != nil {
		t.Fatal(err)
	}
	before := dom.OuterHTML(doc.Root())

	ctrl := navkit.New(doc)
	ctrl.Init(nil)
	sched.Flush()
	ctrl.InitDemoBlocks()
	ctrl.ToggleNav(true)
	ctrl.OpenDemoModal("editor", nil)
	ctrl.Destroy()

	after := dom.OuterHTML(doc.Root())
	if before != after {
		t.Errorf("document changed across Init/Destroy\nbefore: %s\nafter:  %s", before, after)
	}
	if ctrl.Initialized() {
		t.Error("still initialized")
	}

	// No listeners remain.
	doc.Dispatch(&dom.Event{Type: "click", Target: doc.Query("[data-nav-toggle]")})
	if doc.Query(".modal-overlay") != nil {
		t.Error("wiring survived Destroy")
	}
}

func TestDestroyCancelsDeferredWork(t *testing.T) {
	h := uitest.New(t, page, uitest.WithLocation("https://example.com/docs"))
	h.Ctrl.Destroy()
	h.Flush()

	docs := h.MustQuery(`a[href="/docs"]`)
	h.NoClass(docs, "active")
}

func TestDestroyBeforeInitIsSafe(t *testing.T) {
	h := uitest.New(t, page, uitest.WithoutInit())
	h.Ctrl.Destroy()
	h.Ctrl.ToggleNav()
	h.Ctrl.HighlightActiveLink()
	if h.Ctrl.Initialized() {
		t.Error("initialized without Init")
	}
}

func TestStampYear(t *testing.T) {
	h := uitest.New(t, page)
	h.Ctrl.StampYear()

	el := h.MustQuery("[data-year]")
	want := strconv.Itoa(time.Now().Year())
	if el.Text() != want {
		t.Errorf("year = %q, want %q", el.Text(), want)
	}
}

func TestCustomConfig(t *testing.T) {
	cfg := &navkit.Config{}
	cfg.ClassNames.NavOpen = "menu-visible"
	h := uitest.New(t, page, uitest.WithConfig(cfg))

	h.Ctrl.ToggleNav(true)
	nav := h.MustQuery("[data-nav]")
	h.HasClass(nav, "menu-visible")
	h.NoClass(nav, "nav--open")
}
