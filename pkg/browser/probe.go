package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/queuewatch/pkg/queue"
)

// Probe adapts a Manager to the queue.SessionProbe interface the monitoring
// engine drives.
type Probe struct {
	manager *Manager
}

// NewProbe creates a probe over the manager's tab fleet.
func NewProbe(manager *Manager) *Probe {
	return &Probe{manager: manager}
}

// Text returns a tab's rendered body text. Playwright timeouts are mapped
// onto queue.ErrProbeTimeout so the scanner can classify them.
func (p *Probe) Text(ctx context.Context, id queue.SessionID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := p.manager.BodyText(id)
	if err != nil {
		return "", classifyProbeError(err)
	}
	return text, nil
}

// Locator returns a tab's current URL, best-effort.
func (p *Probe) Locator(_ context.Context, id queue.SessionID) string {
	url, err := p.manager.URL(id)
	if err != nil {
		return queue.LocatorError
	}
	return url
}

// Refresh reloads a tab's content.
func (p *Probe) Refresh(_ context.Context, id queue.SessionID) error {
	return p.manager.Refresh(id)
}

// classifyProbeError maps driver-level failures onto the queue package's
// error taxonomy. Timeouts are the only class the monitor treats specially.
func classifyProbeError(err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", queue.ErrProbeTimeout, err)
	}
	return err
}
