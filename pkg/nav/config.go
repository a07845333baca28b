package nav

import (
	"log/slog"
	"time"
)

// Config controls how the nav controller locates elements and which
// class and attribute names it toggles. Zero-value fields fall back to
// the defaults; merging is shallow and per-field, override wins.
type Config struct {
	// NavSelectors is the fallback chain for locating the nav
	// container. The first selector that matches wins.
	NavSelectors []string

	// ToggleSelectors locates the controls that open and close the nav.
	ToggleSelectors []string

	// PanelSelectors locates the collapsible panel inside the nav.
	PanelSelectors []string

	// LinkSelectors locates navigation links, scoped to the nav subtree.
	LinkSelectors []string

	// NavOpenClass is added to the nav container while open.
	NavOpenClass string

	// PanelOpenClass is added to the panel while open.
	PanelOpenClass string

	// ActiveLinkClass marks links that refer to the current page.
	ActiveLinkClass string

	// BodyOpenClass is added to the document body while the nav is open.
	BodyOpenClass string

	// ExpandedAttr is the name of the expanded-state attribute set on
	// toggles. Default "aria-expanded".
	ExpandedAttr string

	// FocusFirstLinkOnOpen moves focus to the first nav link shortly
	// after opening, letting CSS transitions start first.
	// Disabled by default.
	FocusFirstLinkOnOpen bool

	// DeferDelay bounds how long the deferred active-link highlight may
	// wait before running.
	DeferDelay time.Duration

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when Bind receives nil.
func DefaultConfig() Config {
	return Config{
		NavSelectors:         []string{"[data-nav]", "nav.site-nav", "header nav", "nav"},
		ToggleSelectors:      []string{"[data-nav-toggle]", ".nav-toggle"},
		PanelSelectors:       []string{"[data-nav-panel]", ".nav-panel"},
		LinkSelectors:        []string{"a[href]"},
		NavOpenClass:         "nav--open",
		PanelOpenClass:       "panel--open",
		ActiveLinkClass:      "active",
		BodyOpenClass:        "nav-open",
		ExpandedAttr:         "aria-expanded",
		FocusFirstLinkOnOpen: false,
		DeferDelay:           200 * time.Millisecond,
	}
}

// merged overlays non-zero fields of c onto the defaults.
func (c Config) merged() Config {
	out := DefaultConfig()
	if len(c.NavSelectors) > 0 {
		out.NavSelectors = c.NavSelectors
	}
	if len(c.ToggleSelectors) > 0 {
		out.ToggleSelectors = c.ToggleSelectors
	}
	if len(c.PanelSelectors) > 0 {
		out.PanelSelectors = c.PanelSelectors
	}
	if len(c.LinkSelectors) > 0 {
		out.LinkSelectors = c.LinkSelectors
	}
	if c.NavOpenClass != "" {
		out.NavOpenClass = c.NavOpenClass
	}
	if c.PanelOpenClass != "" {
		out.PanelOpenClass = c.PanelOpenClass
	}
	if c.ActiveLinkClass != "" {
		out.ActiveLinkClass = c.ActiveLinkClass
	}
	if c.BodyOpenClass != "" {
		out.BodyOpenClass = c.BodyOpenClass
	}
	if c.ExpandedAttr != "" {
		out.ExpandedAttr = c.ExpandedAttr
	}
	out.FocusFirstLinkOnOpen = c.FocusFirstLinkOnOpen
	if c.DeferDelay > 0 {
		out.DeferDelay = c.DeferDelay
	}
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	return out
}
