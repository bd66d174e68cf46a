// Package diff provides a structural comparison for event-stream
// tests, used wherever an assert.DeepEqual-style byte comparison
// would produce an unreadable failure message for two
// []markcore.Event slices.
package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/xemantic/markanywhere/internal/markcore"
)

// Events compares want and got and returns an empty string if they
// match, or a unified diff otherwise. markcore.Event's unexported
// Attributes fields are compared through its Equal method, which
// cmp.Diff picks up automatically.
func Events(want, got []markcore.Event) string {
	return cmp.Diff(want, got)
}

// RequireEvents fails the test with a structural diff if want and got
// don't match.
func RequireEvents(tb testing.TB, want, got []markcore.Event) {
	tb.Helper()
	if d := Events(want, got); d != "" {
		tb.Fatalf("event stream mismatch (-want +got):\n%s", d)
	}
}
