package queue

import "sort"

// SessionID identifies one monitored browser session. IDs are assigned in
// tab-open order (0..N-1) and stay stable for the session's lifetime; the
// selector's tie-break depends on that ordering.
type SessionID int

// Status records how a session's probe went for one round.
type Status string

const (
	// StatusOK means the probe returned page text, whether or not any
	// signal was found in it.
	StatusOK Status = "ok"

	// StatusTimeout means content readiness was not reached within the
	// probe's bounded wait.
	StatusTimeout Status = "timeout"

	// StatusError means the probe failed for any reason other than a
	// timeout.
	StatusError Status = "error"
)

// SessionResult is one session's outcome for one round. Results are rebuilt
// from scratch every round; a failure never carries over.
type SessionResult struct {
	// ID is the session this result belongs to
	ID SessionID

	// Signals holds every position extracted from the page text, in
	// document order. Empty when nothing matched or the probe failed.
	Signals []int

	// Locator is the session's location at probe time, or one of the
	// LocatorTimeout/LocatorError sentinels.
	Locator string

	// Status records the probe outcome
	Status Status
}

// Min returns the lowest signal this result carries. The boolean is false
// when the probe failed or no signal was extracted; that state is distinct
// from a real position of zero.
func (r SessionResult) Min() (int, bool) {
	if r.Status != StatusOK || len(r.Signals) == 0 {
		return 0, false
	}
	min := r.Signals[0]
	for _, n := range r.Signals[1:] {
		if n < min {
			min = n
		}
	}
	return min, true
}

// RoundAggregate maps every monitored session to its result for a single
// round. All entries come from the same scan pass.
type RoundAggregate map[SessionID]SessionResult

// ValidCount returns how many sessions produced at least one signal this
// round.
func (a RoundAggregate) ValidCount() int {
	count := 0
	for _, r := range a {
		if _, ok := r.Min(); ok {
			count++
		}
	}
	return count
}

// IDs returns the aggregate's session IDs in ascending order.
func (a RoundAggregate) IDs() []SessionID {
	ids := make([]SessionID, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BestSelection names the session currently reporting the lowest position.
type BestSelection struct {
	ID       SessionID
	Position int
}
