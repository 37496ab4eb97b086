// Package main provides the queuewatch command line application.
// queuewatch opens a fleet of browser tabs against a virtual waiting room,
// clears their cookies so each tab enters the queue as a fresh visitor,
// then monitors every tab for a queue-position signal and brings the tab
// with the lowest position to the front.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entrhq/queuewatch/pkg/browser"
	appconfig "github.com/entrhq/queuewatch/pkg/config"
	"github.com/entrhq/queuewatch/pkg/logging"
	"github.com/entrhq/queuewatch/pkg/queue"
)

const version = "0.1.0" // Version of the queuewatch tool

// flags holds the raw command line values before they are merged over the
// config file.
type flags struct {
	configPath         string
	targetURL          string
	tabs               int
	pattern            string
	checkInterval      time.Duration
	maxAttempts        int
	stopOnFirstFind    bool
	minConverged       int
	headless           bool
	probeTimeout       time.Duration
	refreshStagger     time.Duration
	clearBeforeRefresh bool
	showVersion        bool
}

func main() {
	config, showVersion, err := parseFlags()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if showVersion {
		fmt.Printf("queuewatch v%s\n", version)
		return
	}

	if err := config.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	pattern, err := queue.CompilePattern(config.Pattern)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, config, pattern); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// parseFlags parses the command line, loads the optional config file, and
// merges explicitly-set flags over it.
func parseFlags() (*appconfig.Config, bool, error) {
	defaults := appconfig.DefaultConfig()
	var f flags

	flag.StringVar(&f.configPath, "config", "", "Path to a YAML configuration file (optional)")
	flag.StringVar(&f.targetURL, "url", "", "Target waiting-room URL to open in every tab")
	flag.IntVar(&f.tabs, "tabs", defaults.Tabs, "Number of tabs to open")
	flag.StringVar(&f.pattern, "pattern", defaults.Pattern, "Regular expression extracting the queue position (exactly one capturing group)")
	flag.DurationVar(&f.checkInterval, "interval", defaults.CheckInterval, "Wait between scan rounds")
	flag.IntVar(&f.maxAttempts, "max-attempts", defaults.MaxAttempts, "Maximum number of scan rounds (0 for unbounded)")
	flag.BoolVar(&f.stopOnFirstFind, "stop-on-first", defaults.StopOnFirstFind, "Stop monitoring as soon as any tab reports a position")
	flag.IntVar(&f.minConverged, "min-converged", defaults.MinConverged, "Stop once this many tabs report a position (0 requires all)")
	flag.BoolVar(&f.headless, "headless", defaults.Headless, "Run the browser without a visible window")
	flag.DurationVar(&f.probeTimeout, "probe-timeout", defaults.ProbeTimeout, "Bounded wait for page content during a probe")
	flag.DurationVar(&f.refreshStagger, "stagger", defaults.RefreshStagger, "Wait between consecutive tab refreshes")
	flag.BoolVar(&f.clearBeforeRefresh, "clear-before-refresh", defaults.ClearBeforeRefresh, "Clear each tab's cookies and storage right before its refresh")
	flag.BoolVar(&f.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "queuewatch - find the best-placed tab in a virtual waiting room\n\n")
		fmt.Fprintf(os.Stderr, "Usage: queuewatch [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  queuewatch -url https://example.com/waiting-room -tabs 10\n")
		fmt.Fprintf(os.Stderr, "  queuewatch -config run.yaml -stop-on-first\n")
		fmt.Fprintf(os.Stderr, "  queuewatch -url https://example.com -pattern 'Number of users in line ahead of you:[\\s\\S]*?(\\d+)'\n")
	}

	flag.Parse()

	config := defaults
	if f.configPath != "" {
		loaded, err := appconfig.Load(f.configPath)
		if err != nil {
			return nil, false, err
		}
		config = loaded
	}

	// Explicitly-set flags win over the config file.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "url":
			config.TargetURL = f.targetURL
		case "tabs":
			config.Tabs = f.tabs
		case "pattern":
			config.Pattern = f.pattern
		case "interval":
			config.CheckInterval = f.checkInterval
		case "max-attempts":
			config.MaxAttempts = f.maxAttempts
		case "stop-on-first":
			config.StopOnFirstFind = f.stopOnFirstFind
		case "min-converged":
			config.MinConverged = f.minConverged
		case "headless":
			config.Headless = f.headless
		case "probe-timeout":
			config.ProbeTimeout = f.probeTimeout
		case "stagger":
			config.RefreshStagger = f.refreshStagger
		case "clear-before-refresh":
			config.ClearBeforeRefresh = f.clearBeforeRefresh
		}
	})

	return config, f.showVersion, nil
}

// shutdownRequested reports whether err is the context cancellation raised
// by the signal handler, which ends the run cleanly rather than as a
// failure.
func shutdownRequested(err error) bool {
	return errors.Is(err, context.Canceled)
}

// run executes one full cycle: open tabs, reset queue identities, monitor,
// and hand the best tab to the user.
func run(ctx context.Context, config *appconfig.Config, pattern *queue.Pattern) error {
	logger, logErr := logging.NewLogger("main")
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", logErr)
	}
	defer logger.Close()

	logger.Infof("starting run %s: %d tab(s) against %s", logger.RunID(), config.Tabs, config.TargetURL)

	manager := browser.NewManager(config.BrowserOptions())
	if err := manager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer manager.Shutdown()

	fmt.Printf("Opening %d tab(s) at %s...\n", config.Tabs, config.TargetURL)
	if err := manager.OpenTabs(ctx, config.TargetURL, config.Tabs); err != nil {
		if shutdownRequested(err) {
			return nil
		}
		return fmt.Errorf("failed to open tabs: %w", err)
	}

	fmt.Println("Clearing cookies and storage...")
	if err := manager.ClearAllStorage(); err != nil {
		logger.Warnf("storage clearing incomplete: %v", err)
	}

	fmt.Println("Refreshing tabs with stagger to earn distinct queue positions...")
	if err := manager.RefreshAll(ctx, config.RefreshOptions()); err != nil {
		if shutdownRequested(err) {
			return nil
		}
		return fmt.Errorf("refresh pass aborted: %w", err)
	}

	monitor, err := queue.NewMonitor(manager.Sessions(), browser.NewProbe(manager), pattern, config.MonitorParams())
	if err != nil {
		return err
	}
	monitor.SetLogger(logger)

	fmt.Printf("Monitoring every %s", config.CheckInterval)
	if config.MaxAttempts > 0 {
		fmt.Printf(" for up to %d round(s)", config.MaxAttempts)
	}
	fmt.Println("...")

	aggregate, state, err := monitor.Run(ctx)
	if err != nil && !shutdownRequested(err) {
		return err
	}

	printSummary(aggregate, state)

	if best, ok := queue.SelectBest(aggregate); ok {
		fmt.Printf("\nBest tab: %d at position %d (%s)\n", best.ID, best.Position, aggregate[best.ID].Locator)
		if focusErr := manager.Focus(best.ID); focusErr != nil {
			logger.Warnf("could not focus best tab: %v", focusErr)
		}

		if !config.Headless && ctx.Err() == nil {
			fmt.Println("The winning tab is now in front. Press Ctrl+C to close the browser.")
			<-ctx.Done()
		}
	} else {
		fmt.Println("\nNo queue position found in any tab.")
	}

	return nil
}

// printSummary writes the final per-tab results to stdout.
func printSummary(aggregate queue.RoundAggregate, state queue.State) {
	switch state {
	case queue.StateFound:
		fmt.Println("\nConverged:")
	case queue.StateExhausted:
		fmt.Println("\nStopped without full convergence:")
	}

	for _, id := range aggregate.IDs() {
		result := aggregate[id]
		if min, ok := result.Min(); ok {
			fmt.Printf("  tab %d: position %d (%s)\n", id, min, result.Locator)
		} else {
			fmt.Printf("  tab %d: no signal (status=%s)\n", id, result.Status)
		}
	}
}
