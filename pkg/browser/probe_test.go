package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/queuewatch/pkg/queue"
)

func TestClassifyProbeError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
	}{
		{
			name:        "playwright timeout maps to probe timeout",
			err:         fmt.Errorf("body text for tab 0: %w", playwright.ErrTimeout),
			wantTimeout: true,
		},
		{
			name:        "other driver errors pass through",
			err:         errors.New("page crashed"),
			wantTimeout: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyProbeError(tt.err)
			require.Error(t, classified)
			assert.Equal(t, tt.wantTimeout, errors.Is(classified, queue.ErrProbeTimeout))
		})
	}
}

func TestProbe_TextHonorsCancelledContext(t *testing.T) {
	probe := NewProbe(NewManager(Options{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probe.Text(ctx, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbe_LocatorSentinelOnUnknownTab(t *testing.T) {
	probe := NewProbe(NewManager(Options{}))
	assert.Equal(t, queue.LocatorError, probe.Locator(context.Background(), 99))
}

func TestProbe_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	manager := NewManager(Options{Headless: true})
	require.NoError(t, manager.Initialize())
	defer manager.Shutdown()

	ctx := context.Background()
	require.NoError(t, manager.OpenTabs(ctx, "about:blank", 2))
	require.Equal(t, []queue.SessionID{0, 1}, manager.Sessions())

	// Give the tabs distinct queue positions.
	tab0, err := manager.tab(0)
	require.NoError(t, err)
	require.NoError(t, tab0.Page.SetContent("<body><p>queue: 42</p></body>"))

	tab1, err := manager.tab(1)
	require.NoError(t, err)
	require.NoError(t, tab1.Page.SetContent("<body><p>Please wait...</p></body>"))

	probe := NewProbe(manager)
	pattern := queue.MustCompilePattern(queue.DefaultPatternExpr)

	aggregate := queue.RunRound(ctx, manager.Sessions(), probe, pattern)
	require.Len(t, aggregate, 2)

	best, ok := queue.SelectBest(aggregate)
	require.True(t, ok)
	assert.Equal(t, queue.SessionID(0), best.ID)
	assert.Equal(t, 42, best.Position)

	assert.NoError(t, manager.Focus(best.ID))
}

func TestManager_StorageAndRefresh_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	manager := NewManager(Options{Headless: true})
	require.NoError(t, manager.Initialize())
	defer manager.Shutdown()

	ctx := context.Background()
	require.NoError(t, manager.OpenTabs(ctx, "about:blank", 1))

	require.NoError(t, manager.ClearAllStorage())
	require.NoError(t, manager.RefreshAll(ctx, RefreshOptions{ClearBeforeRefresh: true}))
}

func TestManager_OpenTabsValidation(t *testing.T) {
	manager := NewManager(Options{})

	// Not initialized yet.
	err := manager.OpenTabs(context.Background(), "https://example.com", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")
}
