package browser

import "time"

// Options configures the tab fleet.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	// Headed is the useful default here: the whole point is handing a live
	// winning tab back to the user.
	Headless bool

	// Viewport sets the initial viewport size for every tab
	Viewport *Viewport

	// ProbeTimeout bounds the wait for body content during a probe
	ProbeTimeout time.Duration

	// NavTimeout bounds initial navigation when opening tabs
	NavTimeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// RefreshOptions configures a fleet-wide refresh pass.
type RefreshOptions struct {
	// Stagger is the wait between consecutive tab refreshes. Refreshing
	// tabs back to back tends to hand them the same queue slot; the
	// stagger is what earns each tab a distinct position.
	Stagger time.Duration

	// ClearBeforeRefresh clears each tab's cookies and storage right
	// before its refresh, so the reload enters the queue as a new visitor.
	ClearBeforeRefresh bool
}

// Default values for fleet operations.
const (
	DefaultProbeTimeout   = 10 * time.Second
	DefaultNavTimeout     = 30 * time.Second
	DefaultRefreshStagger = 3 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)
