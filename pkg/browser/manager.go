package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/queuewatch/pkg/logging"
	"github.com/entrhq/queuewatch/pkg/queue"
)

// clearStorageScript wipes the web storage a queue page could use to pin a
// returning visitor to their old slot. Cookie clearing is separate because
// cookies live on the browser context, not the page.
const clearStorageScript = `() => { window.localStorage.clear(); window.sessionStorage.clear(); }`

// Tab is one monitored tab: an isolated browser context holding a single
// page. Isolated contexts keep cookie jars independent, so every tab holds
// its own place in the queue.
type Tab struct {
	// ID is the tab's stable identity, assigned in open order
	ID queue.SessionID

	// Context is the tab's isolated browser context
	Context playwright.BrowserContext

	// Page is the tab itself
	Page playwright.Page

	// TargetURL is the URL the tab was opened against
	TargetURL string

	// OpenedAt is when the tab was created
	OpenedAt time.Time
}

// Manager owns the Playwright driver, the browser process, and the fixed
// set of monitored tabs.
type Manager struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	tabs        []*Tab
	opts        Options
	logger      *logging.Logger
	initialized bool
}

// NewManager creates a tab fleet manager. Zero-valued options are replaced
// with package defaults.
func NewManager(opts Options) *Manager {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = DefaultNavTimeout
	}

	logger, _ := logging.NewLogger("browser") // falls back to stderr on failure

	return &Manager{
		opts:   opts,
		logger: logger,
	}
}

// Initialize installs and starts the Playwright driver and launches the
// browser process. Must be called before OpenTabs.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it does not interleave with the CLI summary.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &m.opts.Headless,
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	m.pw = pw
	m.browser = browser
	m.initialized = true
	return nil
}

// OpenTabs opens n tabs against url, in order, and assigns IDs 0..n-1. The
// tab set is fixed once this returns; OpenTabs may only be called once.
func (m *Manager) OpenTabs(ctx context.Context, url string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("manager not initialized")
	}
	if len(m.tabs) > 0 {
		return fmt.Errorf("tabs already opened")
	}
	if n <= 0 {
		return fmt.Errorf("tab count must be positive, got %d", n)
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		tab, err := m.openTab(queue.SessionID(i), url)
		if err != nil {
			return fmt.Errorf("failed to open tab %d/%d: %w", i+1, n, err)
		}
		m.tabs = append(m.tabs, tab)
		m.logger.Infof("opened tab %d/%d at %s", i+1, n, url)
	}

	return nil
}

// openTab creates one isolated context with a single page and navigates it.
// Caller holds the lock.
func (m *Manager) openTab(id queue.SessionID, url string) (*Tab, error) {
	browserContext, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.opts.Viewport.Width,
			Height: m.opts.Viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(m.opts.NavTimeout.Milliseconds()))

	if _, err := page.Goto(url, playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded}); err != nil {
		page.Close()
		browserContext.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	return &Tab{
		ID:        id,
		Context:   browserContext,
		Page:      page,
		TargetURL: url,
		OpenedAt:  time.Now(),
	}, nil
}

// Sessions returns the tab IDs in their fixed open order.
func (m *Manager) Sessions() []queue.SessionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]queue.SessionID, len(m.tabs))
	for i, tab := range m.tabs {
		ids[i] = tab.ID
	}
	return ids
}

// tab looks up a tab by ID.
func (m *Manager) tab(id queue.SessionID) (*Tab, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int(id) < 0 || int(id) >= len(m.tabs) {
		return nil, fmt.Errorf("tab %d not found", id)
	}
	return m.tabs[id], nil
}

// snapshot returns the current tab slice for iteration outside the lock.
func (m *Manager) snapshot() []*Tab {
	m.mu.Lock()
	defer m.mu.Unlock()

	tabs := make([]*Tab, len(m.tabs))
	copy(tabs, m.tabs)
	return tabs
}

// ClearStorage deletes one tab's cookies, local storage, and session
// storage. A storage-clear failure is tolerated once cookies are gone; the
// queue identity lives primarily in the cookie jar.
func (m *Manager) ClearStorage(id queue.SessionID) error {
	tab, err := m.tab(id)
	if err != nil {
		return err
	}

	if err := tab.Context.ClearCookies(); err != nil {
		return fmt.Errorf("failed to clear cookies for tab %d: %w", id, err)
	}

	if _, err := tab.Page.Evaluate(clearStorageScript); err != nil {
		m.logger.Warnf("tab %d: cookies cleared but storage clear failed: %v", id, err)
	}

	return nil
}

// ClearAllStorage clears cookies and storage on every tab, continuing past
// per-tab failures and reporting them together.
func (m *Manager) ClearAllStorage() error {
	var errs []error
	for _, tab := range m.snapshot() {
		if err := m.ClearStorage(tab.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors clearing storage: %v", errs)
	}
	return nil
}

// Refresh reloads one tab.
func (m *Manager) Refresh(id queue.SessionID) error {
	tab, err := m.tab(id)
	if err != nil {
		return err
	}
	if _, err := tab.Page.Reload(); err != nil {
		return fmt.Errorf("failed to refresh tab %d: %w", id, err)
	}
	return nil
}

// RefreshAll reloads every tab in order, optionally clearing storage right
// before each reload and waiting the configured stagger between tabs. The
// stagger wait is interruptible through ctx.
func (m *Manager) RefreshAll(ctx context.Context, opts RefreshOptions) error {
	tabs := m.snapshot()
	for i, tab := range tabs {
		if opts.ClearBeforeRefresh {
			if err := m.ClearStorage(tab.ID); err != nil {
				m.logger.Warnf("tab %d: clear before refresh failed: %v", tab.ID, err)
			}
		}

		if err := m.Refresh(tab.ID); err != nil {
			m.logger.Warnf("tab %d: refresh failed: %v", tab.ID, err)
		} else {
			m.logger.Infof("refreshed tab %d/%d", i+1, len(tabs))
		}

		if i < len(tabs)-1 && opts.Stagger > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.Stagger):
			}
		}
	}
	return nil
}

// BodyText returns a tab's rendered body text, waiting up to ProbeTimeout
// for the body to exist. When direct extraction fails for a reason other
// than a timeout, the raw document is flattened to plain text instead.
func (m *Manager) BodyText(id queue.SessionID) (string, error) {
	tab, err := m.tab(id)
	if err != nil {
		return "", err
	}

	timeout := float64(m.opts.ProbeTimeout.Milliseconds())
	text, err := tab.Page.InnerText("body", playwright.PageInnerTextOptions{Timeout: &timeout})
	if err == nil {
		return normalizeSpace(text), nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return "", fmt.Errorf("body text for tab %d: %w", id, err)
	}

	m.logger.Warnf("tab %d: body text extraction failed, falling back to raw HTML: %v", id, err)
	raw, contentErr := tab.Page.Content()
	if contentErr != nil {
		return "", fmt.Errorf("page content for tab %d: %w", id, contentErr)
	}
	return FlattenHTML(raw)
}

// URL returns a tab's current location.
func (m *Manager) URL(id queue.SessionID) (string, error) {
	tab, err := m.tab(id)
	if err != nil {
		return "", err
	}
	return tab.Page.URL(), nil
}

// Focus brings a tab to the front, typically the winning one.
func (m *Manager) Focus(id queue.SessionID) error {
	tab, err := m.tab(id)
	if err != nil {
		return err
	}
	if err := tab.Page.BringToFront(); err != nil {
		return fmt.Errorf("failed to focus tab %d: %w", id, err)
	}
	return nil
}

// Shutdown closes every tab, the browser, and the Playwright driver.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tab := range m.tabs {
		tab.Page.Close()
		tab.Context.Close()
	}
	m.tabs = nil

	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}

	if m.initialized && m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.initialized = false
	}

	return nil
}
