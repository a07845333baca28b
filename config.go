package navkit

import (
	"log/slog"
	"time"

	"github.com/navkit-dev/navkit/pkg/modal"
	"github.com/navkit-dev/navkit/pkg/nav"
)

// Selectors are the fallback-chain CSS selectors used to locate the
// elements the controller enhances. Each chain is tried in order and
// the first selector that matches wins; malformed selectors are
// skipped.
type Selectors struct {
	Nav       []string
	NavToggle []string
	NavPanel  []string
	NavLinks  []string
	Demo      []string
}

// ClassNames are the class names toggled on state changes.
type ClassNames struct {
	NavOpen    string
	PanelOpen  string
	ActiveLink string
}

// Config is the page-controller configuration. It is merged shallowly
// over DefaultConfig: a non-zero field replaces the default wholesale.
// The config is immutable after Init.
type Config struct {
	Selectors  Selectors
	ClassNames ClassNames

	// AriaExpandedAttr is the expanded-state attribute set on nav
	// toggles. Default "aria-expanded".
	AriaExpandedAttr string

	// FocusFirstLinkOnOpen moves focus into the nav when it opens.
	FocusFirstLinkOnOpen bool

	// DeferDelay bounds the idle-time fallback for deferred
	// active-link highlighting.
	DeferDelay time.Duration

	// BodyOpenClass is added to the body while the nav is open.
	BodyOpenClass string

	// Modal configures the demo dialog.
	Modal modal.Config

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when Init receives nil.
func DefaultConfig() Config {
	nc := nav.DefaultConfig()
	return Config{
		Selectors: Selectors{
			Nav:       nc.NavSelectors,
			NavToggle: nc.ToggleSelectors,
			NavPanel:  nc.PanelSelectors,
			NavLinks:  nc.LinkSelectors,
			Demo:      []string{"[data-demo]", ".demo-cta"},
		},
		ClassNames: ClassNames{
			NavOpen:    nc.NavOpenClass,
			PanelOpen:  nc.PanelOpenClass,
			ActiveLink: nc.ActiveLinkClass,
		},
		AriaExpandedAttr: nc.ExpandedAttr,
		DeferDelay:       nc.DeferDelay,
		BodyOpenClass:    nc.BodyOpenClass,
		Modal:            modal.DefaultConfig(),
	}
}

// merged overlays non-zero fields of c onto the defaults.
func (c Config) merged() Config {
	out := DefaultConfig()
	if len(c.Selectors.Nav) > 0 {
		out.Selectors.Nav = c.Selectors.Nav
	}
	if len(c.Selectors.NavToggle) > 0 {
		out.Selectors.NavToggle = c.Selectors.NavToggle
	}
	if len(c.Selectors.NavPanel) > 0 {
		out.Selectors.NavPanel = c.Selectors.NavPanel
	}
	if len(c.Selectors.NavLinks) > 0 {
		out.Selectors.NavLinks = c.Selectors.NavLinks
	}
	if len(c.Selectors.Demo) > 0 {
		out.Selectors.Demo = c.Selectors.Demo
	}
	if c.ClassNames.NavOpen != "" {
		out.ClassNames.NavOpen = c.ClassNames.NavOpen
	}
	if c.ClassNames.PanelOpen != "" {
		out.ClassNames.PanelOpen = c.ClassNames.PanelOpen
	}
	if c.ClassNames.ActiveLink != "" {
		out.ClassNames.ActiveLink = c.ClassNames.ActiveLink
	}
	if c.AriaExpandedAttr != "" {
		out.AriaExpandedAttr = c.AriaExpandedAttr
	}
	out.FocusFirstLinkOnOpen = c.FocusFirstLinkOnOpen
	if c.DeferDelay > 0 {
		out.DeferDelay = c.DeferDelay
	}
	if c.BodyOpenClass != "" {
		out.BodyOpenClass = c.BodyOpenClass
	}
	out.Modal = c.Modal
	if c.Logger != nil {
		out.Logger = c.Logger
	}
	return out
}

// navConfig translates the page config into the nav controller's.
func (c Config) navConfig() nav.Config {
	return nav.Config{
		NavSelectors:         c.Selectors.Nav,
		ToggleSelectors:      c.Selectors.NavToggle,
		PanelSelectors:       c.Selectors.NavPanel,
		LinkSelectors:        c.Selectors.NavLinks,
		NavOpenClass:         c.ClassNames.NavOpen,
		PanelOpenClass:       c.ClassNames.PanelOpen,
		ActiveLinkClass:      c.ClassNames.ActiveLink,
		BodyOpenClass:        c.BodyOpenClass,
		ExpandedAttr:         c.AriaExpandedAttr,
		FocusFirstLinkOnOpen: c.FocusFirstLinkOnOpen,
		DeferDelay:           c.DeferDelay,
		Logger:               c.Logger,
	}
}

// modalConfig translates the page config into the modal controller's.
func (c Config) modalConfig() modal.Config {
	mc := c.Modal
	if mc.Logger == nil {
		mc.Logger = c.Logger
	}
	return mc
}
