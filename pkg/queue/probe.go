package queue

import (
	"context"
	"errors"
)

// ErrProbeTimeout reports that a session's content was not ready within the
// probe's bounded wait. Implementations wrap this sentinel so the scanner
// can distinguish a timeout from other retrieval failures with errors.Is.
var ErrProbeTimeout = errors.New("probe timeout")

// Locator sentinels recorded when the real location of a session could not
// be determined.
const (
	LocatorTimeout = "timeout"
	LocatorError   = "error"
)

// SessionProbe is the collaborator interface the monitoring engine drives.
// How sessions are created, how cookies and storage are cleared, and how
// tabs are physically opened are entirely the implementation's concern.
type SessionProbe interface {
	// Text returns the session's current rendered page text. It fails with
	// an error wrapping ErrProbeTimeout when content readiness is not
	// reached within the implementation's bounded wait, or with any other
	// error on retrieval failure.
	Text(ctx context.Context, id SessionID) (string, error)

	// Locator returns the session's current navigable location,
	// best-effort. Implementations return LocatorError rather than failing
	// when the location cannot be determined.
	Locator(ctx context.Context, id SessionID) string

	// Refresh reloads the session's content. Errors surface on the next
	// Text call rather than aborting the caller.
	Refresh(ctx context.Context, id SessionID) error
}
