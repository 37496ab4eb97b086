// Package queue implements the multi-tab queue monitoring engine.
//
// The package is deliberately browser-agnostic: it drives an abstract
// SessionProbe collaborator and knows nothing about how tabs are created,
// refreshed, or torn down. The pkg/browser package provides the Playwright
// implementation of the probe.
//
// # Architecture
//
// Monitoring is organized around four pieces:
//
//  1. Pattern: a compiled, case-insensitive regular expression that extracts
//     numeric queue-position signals from rendered page text
//  2. RunRound: one synchronized pass probing every session exactly once,
//     producing a RoundAggregate
//  3. Monitor: repeats rounds on an interval until a convergence condition
//     is met or the attempt budget is exhausted
//  4. SelectBest: picks the session reporting the lowest position from the
//     final aggregate
//
// # Failure model
//
// Per-session failures never abort a round. A probe timeout or error
// degrades that session's result for the current round only; the session is
// probed again on the next round. Only configuration errors (a malformed
// pattern) are fatal, and those surface at compile time before monitoring
// starts.
//
// "No signal found anywhere" is a legitimate terminal outcome, not an
// error: the Monitor returns the last aggregate it produced and SelectBest
// reports that no session qualified.
//
// # Example Usage
//
//	pattern, err := queue.CompilePattern(`queue[:\s]+(\d+)`)
//	if err != nil {
//	    return err
//	}
//
//	monitor, err := queue.NewMonitor(sessions, probe, pattern, queue.Params{
//	    CheckInterval:   5 * time.Second,
//	    MaxAttempts:     60,
//	    StopOnFirstFind: false,
//	})
//	if err != nil {
//	    return err
//	}
//
//	aggregate, state, err := monitor.Run(ctx)
//	if best, ok := queue.SelectBest(aggregate); ok {
//	    fmt.Printf("session %d is at position %d\n", best.ID, best.Position)
//	}
package queue
