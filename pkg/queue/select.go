package queue

// SelectBest picks the session with the lowest valid position from a
// round's aggregate. Ties go to the lowest SessionID, which makes selection
// deterministic across runs. The boolean is false when no session in the
// aggregate produced a signal; that outcome is distinct from any found
// position, including zero.
func SelectBest(aggregate RoundAggregate) (BestSelection, bool) {
	var best BestSelection
	found := false

	for _, id := range aggregate.IDs() {
		min, ok := aggregate[id].Min()
		if !ok {
			continue
		}
		// Strictly-less on an ascending ID walk keeps the lowest ID on ties.
		if !found || min < best.Position {
			best = BestSelection{ID: id, Position: min}
			found = true
		}
	}

	return best, found
}
