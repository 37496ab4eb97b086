// Package browser drives the fleet of monitored tabs through Playwright.
//
// The package is the collaborator side of the queue engine: it owns tab
// creation, cookie and storage clearing, staggered refreshes, and text
// extraction, and exposes the result to pkg/queue through the Probe adapter
// implementing queue.SessionProbe.
//
// # Architecture
//
// One Manager owns a single Playwright browser process. Each monitored tab
// gets its own BrowserContext so tabs carry independent cookie jars and
// therefore independent queue identities; the page inside the context is
// the tab itself. Tabs are identified by queue.SessionID in open order and
// the set is fixed once OpenTabs returns.
//
// # Tab Lifecycle
//
//  1. Initialize: install and start the Playwright driver
//  2. OpenTabs: open N tabs against the target URL, IDs 0..N-1
//  3. ClearAllStorage / RefreshAll: reset queue identities before monitoring
//  4. Probe: the queue engine reads text, locations, and refreshes
//  5. Focus: bring the winning tab to the front
//  6. Shutdown: close everything and stop the driver
//
// # Text extraction
//
// BodyText waits for the document body within a bounded wait and returns
// its rendered text. When direct extraction fails for a reason other than a
// timeout, the raw document HTML is flattened to plain text as a fallback;
// each failed attempt is logged rather than silently swallowed.
package browser
