package nav

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/navkit-dev/navkit/pkg/dom"
	"github.com/navkit-dev/navkit/pkg/navpath"
)

// openFocusDelay is the fixed interval between opening the nav and
// moving focus into it, so CSS transitions start before focus lands.
// Deliberately not configurable.
const openFocusDelay = 150 * time.Millisecond

// Controller owns the open/closed state of a collapsible navigation
// panel and every attribute it touches on the way. Destroying the
// controller restores the document attribute-for-attribute to its
// pre-bind state.
//
// All methods must be called from the document's event goroutine. No
// public operation ever returns an error: failures degrade silently,
// per attribute, so a broken enhancement never breaks the page.
type Controller struct {
	doc dom.Document
	log *slog.Logger
	cfg Config

	bound bool
	open  bool

	nav     dom.Element
	panel   dom.Element
	toggles []dom.Element
	links   []dom.Element

	snapshots []*dom.AttributeSnapshot
	snapByUID map[string]*dom.AttributeSnapshot
	listeners []dom.ListenerHandle
	marked    []dom.Element

	highlightHandle dom.Handle
	focusHandle     dom.Handle
}

// New creates an unbound controller for doc.
func New(doc dom.Document) *Controller {
	return &Controller{doc: doc}
}

// Bound reports whether the controller is currently bound.
func (c *Controller) Bound() bool { return c.bound }

// IsOpen reports whether the nav is open.
func (c *Controller) IsOpen() bool { return c.bound && c.open }

// Bind resolves elements and takes attribute snapshots. Calling Bind
// again with nil while bound is a no-op; calling with a new config
// restores the previous bind first, then re-binds with fresh
// snapshots and listeners.
func (c *Controller) Bind(cfg *Config) {
	if c.bound {
		if cfg == nil {
			return
		}
		c.Unbind()
	}

	if cfg == nil {
		c.cfg = DefaultConfig()
	} else {
		c.cfg = cfg.merged()
	}
	c.log = c.cfg.Logger
	if c.log == nil {
		c.log = slog.Default()
	}
	c.snapByUID = make(map[string]*dom.AttributeSnapshot)

	c.nav = firstMatch(c.doc, c.cfg.NavSelectors)
	if c.nav == nil {
		c.log.Debug("nav: no nav container found, staying unbound")
		return
	}
	c.panel = firstMatch(c.doc, c.cfg.PanelSelectors)
	c.toggles = allMatches(c.doc, c.cfg.ToggleSelectors)
	c.collectLinks()

	// Snapshots before any mutation.
	c.snapshot(c.nav, "data-open", "class", "id")
	if c.panel != nil {
		c.snapshot(c.panel, "class", "aria-hidden", "id")
	}
	for _, t := range c.toggles {
		c.snapshot(t, c.cfg.ExpandedAttr, "aria-controls", "role", "tabindex")
	}
	if body := c.doc.Body(); body != nil {
		c.snapshot(body, "class")
	}

	c.ensureIdentifiers()
	c.bound = true
	c.open = false
	c.applyClosed()

	// Listener attachment always happens after attribute setup.
	for _, t := range c.toggles {
		t := t
		c.listeners = append(c.listeners,
			t.On("click", false, func(ev *dom.Event) {
				ev.PreventDefault()
				c.Toggle()
			}),
			t.On("keydown", false, func(ev *dom.Event) {
				if t.Tag() == "button" {
					return
				}
				if ev.Key == "Enter" || ev.Key == " " || ev.Key == "Space" {
					ev.PreventDefault()
					c.Toggle()
				}
			}),
		)
	}

	// Active-link highlighting is low priority: defer it off the
	// critical path, bounded by DeferDelay, and keep the handle so
	// Unbind can cancel it before it fires.
	c.highlightHandle = c.doc.Scheduler().DeferIdle(c.cfg.DeferDelay, func() {
		c.highlightHandle = nil
		c.HighlightActiveLink()
	})
}

// Toggle flips the open state, or forces it when a boolean is given.
// Forcing the current state is a no-op.
func (c *Controller) Toggle(force ...bool) {
	if !c.bound {
		return
	}
	want := !c.open
	if len(force) > 0 {
		want = force[0]
	}
	if want == c.open {
		return
	}
	c.open = want
	if want {
		c.applyOpen()
	} else {
		c.applyClosed()
	}
}

// HighlightActiveLink re-scans the link list, clears previous marks,
// and marks every link that refers to the current page with the active
// class and aria-current="page". Safe to call repeatedly.
func (c *Controller) HighlightActiveLink() {
	if !c.bound {
		return
	}
	if len(c.links) == 0 {
		c.collectLinks()
	}
	c.unmarkAll()

	current := c.doc.Location()
	hrefs := make([]string, len(c.links))
	for i, l := range c.links {
		hrefs[i], _ = l.Attr("href")
	}

	exact := false
	for i, href := range hrefs {
		if navpath.Matches(href, current) {
			c.mark(c.links[i])
			exact = true
		}
	}
	if exact {
		return
	}
	if i := navpath.SectionMatch(hrefs, current); i >= 0 {
		c.mark(c.links[i])
	}
}

// Unbind closes the nav, cancels pending deferred work, restores every
// snapshotted attribute exactly, detaches every listener, and resets
// the controller. Safe to call when never bound.
func (c *Controller) Unbind() {
	if !c.bound {
		return
	}
	c.Toggle(false)

	if c.highlightHandle != nil {
		c.highlightHandle.Cancel()
		c.highlightHandle = nil
	}
	if c.focusHandle != nil {
		c.focusHandle.Cancel()
		c.focusHandle = nil
	}
	c.unmarkAll()

	for _, s := range c.snapshots {
		s.Restore()
	}

	// Listener removal happens before state reset.
	for _, l := range c.listeners {
		l.Remove()
	}

	c.bound = false
	c.open = false
	c.nav = nil
	c.panel = nil
	c.toggles = nil
	c.links = nil
	c.snapshots = nil
	c.snapByUID = nil
	c.listeners = nil
	c.marked = nil
}

// applyOpen mutates the document for the Open state. Each mutation is
// independent: one failure never blocks the rest.
func (c *Controller) applyOpen() {
	_ = c.nav.SetAttr("data-open", "true")
	_ = c.nav.AddClass(c.cfg.NavOpenClass)
	if c.panel != nil {
		_ = c.panel.AddClass(c.cfg.PanelOpenClass)
		_ = c.panel.SetAttr("aria-hidden", "false")
	}
	for _, t := range c.toggles {
		_ = t.SetAttr(c.cfg.ExpandedAttr, "true")
	}
	if body := c.doc.Body(); body != nil {
		_ = body.AddClass(c.cfg.BodyOpenClass)
	}
	if c.cfg.FocusFirstLinkOnOpen && len(c.links) > 0 {
		first := c.links[0]
		c.focusHandle = c.doc.Scheduler().After(openFocusDelay, func() {
			c.focusHandle = nil
			if c.bound && c.open {
				_ = first.Focus()
			}
		})
	}
}

// applyClosed mutates the document for the Closed state: the exact
// inverse of applyOpen, with no focus movement.
func (c *Controller) applyClosed() {
	if c.focusHandle != nil {
		c.focusHandle.Cancel()
		c.focusHandle = nil
	}
	_ = c.nav.SetAttr("data-open", "false")
	_ = c.nav.RemoveClass(c.cfg.NavOpenClass)
	if c.panel != nil {
		_ = c.panel.RemoveClass(c.cfg.PanelOpenClass)
		_ = c.panel.SetAttr("aria-hidden", "true")
	}
	for _, t := range c.toggles {
		_ = t.SetAttr(c.cfg.ExpandedAttr, "false")
	}
	if body := c.doc.Body(); body != nil {
		_ = body.RemoveClass(c.cfg.BodyOpenClass)
	}
}

// ensureIdentifiers gives the nav and panel stable ids so toggles can
// carry aria-controls, and gives non-button toggles button semantics.
// Author-supplied ids, aria-controls, role, and tabindex are never
// overwritten.
func (c *Controller) ensureIdentifiers() {
	if id, ok := c.nav.Attr("id"); !ok || id == "" {
		_ = c.nav.SetAttr("id", c.generateID("site-nav"))
	}
	panelID := ""
	if c.panel != nil {
		var ok bool
		if panelID, ok = c.panel.Attr("id"); !ok || panelID == "" {
			panelID = c.generateID("nav-panel")
			_ = c.panel.SetAttr("id", panelID)
		}
	}
	for _, t := range c.toggles {
		if panelID != "" {
			if _, ok := t.Attr("aria-controls"); !ok {
				_ = t.SetAttr("aria-controls", panelID)
			}
		}
		if t.Tag() != "button" {
			if _, ok := t.Attr("role"); !ok {
				_ = t.SetAttr("role", "button")
				// Remove on restore only while the value is still ours.
				c.snapByUID[t.UID()].Guard("role", "button")
			}
			if _, ok := t.Attr("tabindex"); !ok {
				_ = t.SetAttr("tabindex", "0")
			}
		}
	}
}

// generateID returns base, or base-N for the first N that does not
// collide with an existing id in the document.
func (c *Controller) generateID(base string) string {
	for seq := 1; ; seq++ {
		id := base
		if seq > 1 {
			id += "-" + strconv.Itoa(seq)
		}
		if c.doc.Query("#"+id) == nil {
			return id
		}
	}
}

func (c *Controller) collectLinks() {
	if c.nav == nil {
		return
	}
	for _, sel := range c.cfg.LinkSelectors {
		if links := c.nav.QueryAll(sel); len(links) > 0 {
			c.links = links
			return
		}
	}
}

// snapshot captures attributes on el once; repeated calls extend the
// existing snapshot instead of re-capturing.
func (c *Controller) snapshot(el dom.Element, names ...string) {
	s, ok := c.snapByUID[el.UID()]
	if !ok {
		s = dom.CaptureAttributes(el)
		c.snapByUID[el.UID()] = s
		c.snapshots = append(c.snapshots, s)
	}
	for _, n := range names {
		s.Add(n)
	}
}

func (c *Controller) mark(link dom.Element) {
	c.snapshot(link, "class", "aria-current")
	_ = link.AddClass(c.cfg.ActiveLinkClass)
	_ = link.SetAttr("aria-current", "page")
	c.marked = append(c.marked, link)
}

func (c *Controller) unmarkAll() {
	for _, l := range c.marked {
		_ = l.RemoveClass(c.cfg.ActiveLinkClass)
		_ = l.RemoveAttr("aria-current")
	}
	c.marked = nil
}

// firstMatch returns the first element matched by a selector fallback
// chain. Malformed selectors in the chain are skipped.
func firstMatch(doc dom.Document, selectors []string) dom.Element {
	for _, sel := range selectors {
		if el := doc.Query(sel); el != nil {
			return el
		}
	}
	return nil
}

// allMatches returns the matches of the first selector in the chain
// that matches anything.
func allMatches(doc dom.Document, selectors []string) []dom.Element {
	for _, sel := range selectors {
		if els := doc.QueryAll(sel); len(els) > 0 {
			return els
		}
	}
	return nil
}
