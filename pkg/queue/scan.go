package queue

import (
	"context"
	"errors"
)

// RunRound probes every session exactly once, in the fixed order given, and
// returns the per-session results. One session failing never blocks the
// rest of the round: timeouts and errors are recorded as degraded results
// and scanning continues.
func RunRound(ctx context.Context, sessions []SessionID, probe SessionProbe, pattern *Pattern) RoundAggregate {
	aggregate := make(RoundAggregate, len(sessions))
	for _, id := range sessions {
		aggregate[id] = scanSession(ctx, id, probe, pattern)
	}
	return aggregate
}

// scanSession probes a single session and classifies the outcome.
func scanSession(ctx context.Context, id SessionID, probe SessionProbe, pattern *Pattern) SessionResult {
	text, err := probe.Text(ctx, id)
	switch {
	case errors.Is(err, ErrProbeTimeout):
		return SessionResult{ID: id, Status: StatusTimeout, Locator: LocatorTimeout}
	case err != nil:
		return SessionResult{ID: id, Status: StatusError, Locator: LocatorError}
	}

	return SessionResult{
		ID:      id,
		Signals: pattern.Extract(text),
		Locator: probe.Locator(ctx, id),
		Status:  StatusOK,
	}
}
