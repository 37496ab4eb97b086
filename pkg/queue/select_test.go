package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBest_LowestWins(t *testing.T) {
	aggregate := RoundAggregate{
		0: {ID: 0, Status: StatusTimeout},
		1: {ID: 1, Status: StatusOK, Signals: []int{42}},
		2: {ID: 2, Status: StatusOK, Signals: []int{17}},
	}

	best, ok := SelectBest(aggregate)
	require.True(t, ok)
	assert.Equal(t, SessionID(2), best.ID)
	assert.Equal(t, 17, best.Position)
}

func TestSelectBest_TieBreaksOnLowestID(t *testing.T) {
	aggregate := RoundAggregate{
		0: {ID: 0, Status: StatusOK, Signals: []int{5}},
		1: {ID: 1, Status: StatusOK, Signals: []int{5}},
		2: {ID: 2, Status: StatusOK, Signals: []int{9}},
	}

	best, ok := SelectBest(aggregate)
	require.True(t, ok)
	assert.Equal(t, SessionID(0), best.ID)
	assert.Equal(t, 5, best.Position)
}

func TestSelectBest_NoneWhenNoSignals(t *testing.T) {
	aggregate := RoundAggregate{
		0: {ID: 0, Status: StatusTimeout},
		1: {ID: 1, Status: StatusError},
		2: {ID: 2, Status: StatusOK}, // probed fine, no signal
	}

	_, ok := SelectBest(aggregate)
	assert.False(t, ok)
}

func TestSelectBest_ZeroPositionIsDistinctFromNone(t *testing.T) {
	aggregate := RoundAggregate{
		0: {ID: 0, Status: StatusOK, Signals: []int{0}},
		1: {ID: 1, Status: StatusOK, Signals: []int{3}},
	}

	best, ok := SelectBest(aggregate)
	require.True(t, ok)
	assert.Equal(t, SessionID(0), best.ID)
	assert.Equal(t, 0, best.Position)
}

func TestSelectBest_UsesPerSessionMinimum(t *testing.T) {
	aggregate := RoundAggregate{
		0: {ID: 0, Status: StatusOK, Signals: []int{40, 22, 61}},
		1: {ID: 1, Status: StatusOK, Signals: []int{25}},
	}

	best, ok := SelectBest(aggregate)
	require.True(t, ok)
	assert.Equal(t, SessionID(0), best.ID)
	assert.Equal(t, 22, best.Position)
}

func TestSelectBest_EmptyAggregate(t *testing.T) {
	_, ok := SelectBest(RoundAggregate{})
	assert.False(t, ok)
}
