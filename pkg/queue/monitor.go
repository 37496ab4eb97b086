package queue

import (
	"context"
	"fmt"
	"time"
)

// State is the monitor's terminal condition.
type State string

const (
	// StateRunning means monitoring is still in progress
	StateRunning State = "running"

	// StateFound means the convergence condition was met
	StateFound State = "found"

	// StateExhausted means the attempt budget ran out (or the context was
	// cancelled) before convergence
	StateExhausted State = "exhausted"
)

// Params configures a monitoring run.
type Params struct {
	// CheckInterval is the wait between rounds. Required.
	CheckInterval time.Duration

	// MaxAttempts bounds the number of rounds. Zero means unbounded.
	MaxAttempts int

	// StopOnFirstFind stops monitoring as soon as any session reports a
	// signal, without waiting for the rest to converge.
	StopOnFirstFind bool

	// MinConverged stops monitoring once this many sessions report a
	// signal. Zero means all sessions must converge. Ignored when
	// StopOnFirstFind is set.
	MinConverged int
}

// Validate checks the parameters before a run starts.
func (p Params) Validate() error {
	if p.CheckInterval <= 0 {
		return fmt.Errorf("check interval must be positive, got %s", p.CheckInterval)
	}
	if p.MaxAttempts < 0 {
		return fmt.Errorf("max attempts cannot be negative, got %d", p.MaxAttempts)
	}
	if p.MinConverged < 0 {
		return fmt.Errorf("min converged cannot be negative, got %d", p.MinConverged)
	}
	return nil
}

// Logger is the subset of the logging package the monitor uses. A nil
// logger disables monitor logging.
type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Monitor repeatedly scans a fixed set of sessions until they converge on a
// signal or the attempt budget is exhausted. Only the most recent round's
// aggregate is retained; there is no cross-round history.
type Monitor struct {
	sessions []SessionID
	probe    SessionProbe
	pattern  *Pattern
	params   Params
	logger   Logger
}

// NewMonitor creates a monitor over the given sessions. The session order
// is fixed for the monitor's lifetime; selection tie-breaks depend on it.
func NewMonitor(sessions []SessionID, probe SessionProbe, pattern *Pattern, params Params) (*Monitor, error) {
	if len(sessions) == 0 {
		return nil, fmt.Errorf("at least one session is required")
	}
	if probe == nil {
		return nil, fmt.Errorf("probe is required")
	}
	if pattern == nil {
		return nil, fmt.Errorf("pattern is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	fixed := make([]SessionID, len(sessions))
	copy(fixed, sessions)

	return &Monitor{
		sessions: fixed,
		probe:    probe,
		pattern:  pattern,
		params:   params,
	}, nil
}

// SetLogger attaches a logger for per-round progress reporting.
func (m *Monitor) SetLogger(logger Logger) {
	m.logger = logger
}

// Run executes rounds until a stop condition is met and returns the last
// aggregate produced together with the terminal state.
//
// The first round always executes before any interval wait. A round in
// progress runs to completion across all sessions; cancellation is only
// observed at the interval wait, where it returns the last aggregate with
// StateExhausted and the context's error. Exhausting MaxAttempts with zero
// signals found is a valid outcome, not an error.
func (m *Monitor) Run(ctx context.Context) (RoundAggregate, State, error) {
	attempt := 0
	for {
		attempt++
		aggregate := RunRound(ctx, m.sessions, m.probe, m.pattern)
		valid := aggregate.ValidCount()
		m.logRound(attempt, valid, aggregate)

		if valid > 0 && m.converged(valid) {
			m.infof("converged after %d round(s): %d/%d sessions reporting", attempt, valid, len(m.sessions))
			return aggregate, StateFound, nil
		}

		if m.params.MaxAttempts > 0 && attempt >= m.params.MaxAttempts {
			m.warnf("attempt budget exhausted after %d round(s): %d/%d sessions reporting", attempt, valid, len(m.sessions))
			return aggregate, StateExhausted, nil
		}

		select {
		case <-ctx.Done():
			m.warnf("monitoring cancelled after %d round(s)", attempt)
			return aggregate, StateExhausted, ctx.Err()
		case <-time.After(m.params.CheckInterval):
		}
	}
}

// converged reports whether valid reporting sessions satisfy the configured
// stop condition. Callers guarantee valid > 0.
func (m *Monitor) converged(valid int) bool {
	if m.params.StopOnFirstFind {
		return true
	}
	need := m.params.MinConverged
	if need == 0 || need > len(m.sessions) {
		need = len(m.sessions)
	}
	return valid >= need
}

func (m *Monitor) logRound(attempt, valid int, aggregate RoundAggregate) {
	if m.logger == nil {
		return
	}
	m.logger.Infof("round %d: %d/%d sessions reporting", attempt, valid, len(m.sessions))
	for _, id := range aggregate.IDs() {
		result := aggregate[id]
		if min, ok := result.Min(); ok {
			m.logger.Infof("  session %d: position %d (%s)", id, min, result.Locator)
		} else {
			m.logger.Infof("  session %d: waiting (status=%s)", id, result.Status)
		}
	}
}

func (m *Monitor) infof(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Infof(format, v...)
	}
}

func (m *Monitor) warnf(format string, v ...interface{}) {
	if m.logger != nil {
		m.logger.Warnf(format, v...)
	}
}
