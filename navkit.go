// Package navkit is a progressive-enhancement engine for static
// sites: a collapsible navigation controller, active-link
// highlighting, and a placeholder demo dialog, all written against
// the abstract document tree in pkg/dom.
//
// A Controller is constructed once per page and passed explicitly to
// any code that needs it; there is no package-level singleton. The
// same controller drives the in-memory test harness (pkg/uitest) and
// live WebSocket sessions (pkg/live).
package navkit

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/navkit-dev/navkit/pkg/dom"
	"github.com/navkit-dev/navkit/pkg/modal"
	"github.com/navkit-dev/navkit/pkg/nav"
)

// Controller orchestrates the page behaviors. Init and Destroy are a
// strict pair: Destroy undoes every document mutation Init and later
// operations made, attribute for attribute.
type Controller struct {
	doc dom.Document
	log *slog.Logger
	cfg Config

	nav   *nav.Controller
	modal *modal.Controller

	initialized bool

	demoListeners []dom.ListenerHandle
	demoSnaps     []*dom.AttributeSnapshot
}

// New creates an uninitialized controller for doc.
func New(doc dom.Document) *Controller {
	return &Controller{
		doc: doc,
		nav: nav.New(doc),
	}
}

// Init wires the controller to the document. It is idempotent:
// calling again with nil while initialized is a no-op, and calling
// with a new config destroys the previous wiring first, then
// re-binds with fresh snapshots.
func (c *Controller) Init(cfg *Config) {
	if c.initialized {
		if cfg == nil {
			return
		}
		c.Destroy()
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

	nc := c.cfg.navConfig()
	c.nav.Bind(&nc)
	mc := c.cfg.modalConfig()
	c.modal = modal.New(c.doc, &mc)

	c.initialized = true
	c.log.Debug("navkit: initialized", "location", c.doc.Location())
}

// Destroy closes the nav and any open modal, unwires demo blocks,
// restores every snapshotted attribute exactly, detaches every
// listener, and resets all state. Safe to call when never
// initialized.
func (c *Controller) Destroy() {
	if !c.initialized {
		return
	}
	if c.modal != nil {
		c.modal.Close(true)
	}
	c.unwireDemoBlocks()
	c.nav.Unbind()

	c.modal = nil
	c.initialized = false
	c.log.Debug("navkit: destroyed")
}

// ToggleNav flips the nav open state, or forces it when a boolean is
// given.
func (c *Controller) ToggleNav(force ...bool) {
	if !c.initialized {
		return
	}
	c.nav.Toggle(force...)
}

// HighlightActiveLink re-computes which nav links refer to the current
// page. Safe to call at any time after Init.
func (c *Controller) HighlightActiveLink() {
	if !c.initialized {
		return
	}
	c.nav.HighlightActiveLink()
}

// OpenDemoModal opens the placeholder dialog for the named demo.
// opener may be nil; the currently focused element is then recorded
// for focus restoration.
func (c *Controller) OpenDemoModal(id string, opener dom.Element) {
	if !c.initialized {
		return
	}
	c.modal.Open(id, opener)
}

// CloseDemoModal closes the dialog if one is open.
func (c *Controller) CloseDemoModal(forceClear ...bool) {
	if !c.initialized {
		return
	}
	c.modal.Close(forceClear...)
}

// InitDemoBlocks scans for demo call-to-action elements and wires
// click and keyboard activation to the demo dialog. Re-scanning
// replaces the previous wiring.
func (c *Controller) InitDemoBlocks() {
	if !c.initialized {
		return
	}
	c.unwireDemoBlocks()

	var blocks []dom.Element
	for _, sel := range c.cfg.Selectors.Demo {
		if blocks = c.doc.QueryAll(sel); len(blocks) > 0 {
			break
		}
	}

	for _, b := range blocks {
		b := b
		id, _ := b.Attr("data-demo")
		if id == "" {
			id = "demo"
		}

		if b.Tag() != "button" {
			s := dom.CaptureAttributes(b, "role", "tabindex")
			if _, ok := b.Attr("role"); !ok {
				_ = b.SetAttr("role", "button")
				s.Guard("role", "button")
			}
			if _, ok := b.Attr("tabindex"); !ok {
				_ = b.SetAttr("tabindex", "0")
			}
			c.demoSnaps = append(c.demoSnaps, s)
		}

		c.demoListeners = append(c.demoListeners,
			b.On("click", false, func(ev *dom.Event) {
				ev.PreventDefault()
				c.OpenDemoModal(id, b)
			}),
			b.On("keydown", false, func(ev *dom.Event) {
				if ev.Key == "Enter" || ev.Key == " " || ev.Key == "Space" {
					ev.PreventDefault()
					c.OpenDemoModal(id, b)
				}
			}),
		)
	}
}

// StampYear replaces the text of every [data-year] element with the
// current year.
func (c *Controller) StampYear() {
	year := strconv.Itoa(time.Now().Year())
	for _, el := range c.doc.QueryAll("[data-year]") {
		_ = el.SetText(year)
	}
}

// Nav exposes the nav controller, mainly for tests and the live layer.
func (c *Controller) Nav() *nav.Controller { return c.nav }

// Modal exposes the modal controller while initialized, or nil.
func (c *Controller) Modal() *modal.Controller { return c.modal }

// Initialized reports whether Init has run.
func (c *Controller) Initialized() bool { return c.initialized }

func (c *Controller) unwireDemoBlocks() {
	for _, l := range c.demoListeners {
		l.Remove()
	}
	c.demoListeners = nil
	for _, s := range c.demoSnaps {
		s.Restore()
	}
	c.demoSnaps = nil
}
