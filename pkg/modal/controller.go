package modal

import (
	"log/slog"
	"time"

	"github.com/navkit-dev/navkit/pkg/dom"
)

// focusDelay is the fixed interval between inserting the dialog and
// moving focus to its close control. Not configurable.
const focusDelay = 50 * time.Millisecond

// Element ids used for dialog labelling.
const (
	titleID = "demo-modal-title"
	descID  = "demo-modal-desc"
)

// Config controls class names and main-content lookup for the modal.
// Zero-value fields fall back to the defaults.
type Config struct {
	// MainSelectors locates the main content region hidden from
	// assistive tech while the modal is open.
	MainSelectors []string

	// OverlayClass and DialogClass style the generated elements.
	OverlayClass string
	DialogClass  string

	// BodyOpenClass is added to the body while a modal is open.
	BodyOpenClass string

	// CloseLabel is the text of the close control.
	CloseLabel string

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default modal configuration.
func DefaultConfig() Config {
	return Config{
		MainSelectors: []string{"main", "#main", `[role="main"]`},
		OverlayClass:  "modal-overlay",
		DialogClass:   "modal-dialog",
		BodyOpenClass: "modal-open",
		CloseLabel:    "Close",
	}
}

func (c Config) merged() Config {
	out := DefaultConfig()
	if len(c.MainSelectors) > 0 {
		out.MainSelectors = c.MainSelectors
	}
	if c.OverlayClass != "" {
		out.OverlayClass = c.OverlayClass
	}
	if c.DialogClass != "" {
		out.DialogClass = c.DialogClass
	}
	if c.BodyOpenClass != "" {
		out.BodyOpenClass = c.BodyOpenClass
	}
	if c.CloseLabel != "" {
		out.CloseLabel = c.CloseLabel
	}
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	return out
}

// Controller manages the single demo dialog. Methods must run on the
// document's event goroutine and never return errors to callers.
type Controller struct {
	doc dom.Document
	log *slog.Logger
	cfg Config

	open     bool
	overlay  dom.Element
	dialog   dom.Element
	closeBtn dom.Element
	opener   dom.Element

	mainSnap *dom.AttributeSnapshot

	listeners   []dom.ListenerHandle
	focusHandle dom.Handle
}

// New creates a modal controller for doc. A nil cfg uses defaults.
func New(doc dom.Document, cfg *Config) *Controller {
	c := &Controller{doc: doc}
	if cfg == nil {
		c.cfg = DefaultConfig()
	} else {
		c.cfg = cfg.merged()
	}
	c.log = c.cfg.Logger
	if c.log == nil {
		c.log = slog.Default()
	}
	return c
}

// IsOpen reports whether a dialog is currently in the document.
func (c *Controller) IsOpen() bool { return c.open }

// Dialog returns the dialog element while open, or nil.
func (c *Controller) Dialog() dom.Element { return c.dialog }

// Open builds and inserts the demo dialog for id. Any dialog already
// open is closed first; modals never stack. opener is the element
// focus returns to on close; when nil, the currently focused element
// is recorded instead.
func (c *Controller) Open(id string, opener dom.Element) {
	if c.open {
		c.Close()
	}

	if opener == nil {
		opener = c.doc.ActiveElement()
	}
	c.opener = opener

	body := c.doc.Body()
	if body == nil {
		return
	}

	// Hide the main content region from assistive tech while open.
	if main := firstMatch(c.doc, c.cfg.MainSelectors); main != nil {
		c.mainSnap = dom.CaptureAttributes(main, "aria-hidden")
		_ = main.SetAttr("aria-hidden", "true")
	}
	// Only the one class is added here, and Close removes only that
	// class: other controllers may change the body class list while the
	// modal is open, and their state must survive.
	_ = body.AddClass(c.cfg.BodyOpenClass)

	c.buildDialog(id)
	_ = body.AppendChild(c.overlay)

	c.listeners = append(c.listeners,
		c.closeBtn.On("click", false, func(ev *dom.Event) {
			ev.PreventDefault()
			c.Close()
		}),
		// Clicks inside the overlay but outside the dialog dismiss.
		c.overlay.On("click", false, func(ev *dom.Event) {
			if c.dialog != nil && c.dialog.Contains(ev.Target) {
				return
			}
			c.Close()
		}),
		// Escape and the focus trap act on every keydown while open,
		// registered in the capture phase on the document root.
		c.doc.Root().On("keydown", true, func(ev *dom.Event) {
			c.handleKeydown(ev)
		}),
	)

	closeBtn := c.closeBtn
	c.focusHandle = c.doc.Scheduler().After(focusDelay, func() {
		c.focusHandle = nil
		if c.open {
			_ = closeBtn.Focus()
		}
	})

	c.open = true
}

// Close removes the dialog, restores main-content and body state,
// detaches modal-scoped listeners, and returns focus to the opener if
// it can still receive it. forceClear empties the listener registry
// even when a removal failed. Safe to call when no modal is open.
func (c *Controller) Close(forceClear ...bool) {
	force := len(forceClear) > 0 && forceClear[0]
	if !c.open {
		if force {
			c.listeners = nil
		}
		return
	}
	c.open = false

	if c.focusHandle != nil {
		c.focusHandle.Cancel()
		c.focusHandle = nil
	}

	if c.overlay != nil {
		_ = c.overlay.Detach()
	}
	if c.mainSnap != nil {
		c.mainSnap.Restore()
		c.mainSnap = nil
	}
	if body := c.doc.Body(); body != nil {
		_ = body.RemoveClass(c.cfg.BodyOpenClass)
	}

	var kept []dom.ListenerHandle
	for _, l := range c.listeners {
		if err := safeRemove(l); err != nil {
			kept = append(kept, l)
		}
	}
	c.listeners = kept
	if force {
		c.listeners = nil
	}

	if c.opener != nil && c.opener.Focusable() {
		_ = c.opener.Focus()
	}

	c.overlay = nil
	c.dialog = nil
	c.closeBtn = nil
	c.opener = nil
}

func (c *Controller) buildDialog(id string) {
	c.overlay = c.doc.CreateElement("div")
	_ = c.overlay.SetAttr("class", c.cfg.OverlayClass)
	_ = c.overlay.SetAttr("data-modal-overlay", "")

	c.dialog = c.doc.CreateElement("div")
	_ = c.dialog.SetAttr("role", "dialog")
	_ = c.dialog.SetAttr("aria-modal", "true")
	_ = c.dialog.SetAttr("aria-labelledby", titleID)
	_ = c.dialog.SetAttr("aria-describedby", descID)
	_ = c.dialog.SetAttr("class", c.cfg.DialogClass)
	// Programmatically focusable so the trap can pin focus here when
	// the dialog has no focusable descendants.
	_ = c.dialog.SetAttr("tabindex", "-1")
	if id != "" {
		_ = c.dialog.SetAttr("data-demo", id)
	}

	title := c.doc.CreateElement("h2")
	_ = title.SetAttr("id", titleID)
	label := "Demo"
	if id != "" {
		label = "Demo: " + id
	}
	_ = title.SetText(label)

	desc := c.doc.CreateElement("p")
	_ = desc.SetAttr("id", descID)
	_ = desc.SetText("This demo is a placeholder. The full experience is not part of this site.")

	c.closeBtn = c.doc.CreateElement("button")
	_ = c.closeBtn.SetAttr("type", "button")
	_ = c.closeBtn.SetAttr("class", "modal-close")
	_ = c.closeBtn.SetText(c.cfg.CloseLabel)

	_ = c.dialog.AppendChild(title)
	_ = c.dialog.AppendChild(desc)
	_ = c.dialog.AppendChild(c.closeBtn)
	_ = c.overlay.AppendChild(c.dialog)
}

func (c *Controller) handleKeydown(ev *dom.Event) {
	if !c.open {
		return
	}
	switch ev.Key {
	case "Escape":
		ev.PreventDefault()
		c.Close()
	case "Tab":
		c.trapTab(ev)
	}
}

// trapTab keeps Tab cycling confined to the dialog's focusable
// descendants, wrapping at both ends. A dialog with no focusable
// descendants pins focus to the dialog container itself.
func (c *Controller) trapTab(ev *dom.Event) {
	tabs := c.tabbables()
	if len(tabs) == 0 {
		ev.PreventDefault()
		_ = c.dialog.Focus()
		return
	}

	active := c.doc.ActiveElement()
	first, last := tabs[0], tabs[len(tabs)-1]

	switch {
	case active == nil || !c.dialog.Contains(active):
		ev.PreventDefault()
		_ = first.Focus()
	case ev.ShiftKey && same(active, first):
		ev.PreventDefault()
		_ = last.Focus()
	case !ev.ShiftKey && same(active, last):
		ev.PreventDefault()
		_ = first.Focus()
	}
}

// tabbables returns the dialog's focusable descendants in document
// order, excluding tabindex="-1" elements.
func (c *Controller) tabbables() []dom.Element {
	var out []dom.Element
	var walk func(el dom.Element)
	walk = func(el dom.Element) {
		for _, child := range el.Children() {
			if child.Focusable() {
				if ti, ok := child.Attr("tabindex"); !ok || ti != "-1" {
					out = append(out, child)
				}
			}
			walk(child)
		}
	}
	walk(c.dialog)
	return out
}

func same(a, b dom.Element) bool {
	return a != nil && b != nil && a.UID() == b.UID()
}

func safeRemove(l dom.ListenerHandle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = dom.ErrDetached
		}
	}()
	l.Remove()
	return nil
}

func firstMatch(doc dom.Document, selectors []string) dom.Element {
	for _, sel := range selectors {
		if el := doc.Query(sel); el != nil {
			return el
		}
	}
	return nil
}
