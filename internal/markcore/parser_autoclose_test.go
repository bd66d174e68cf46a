package markcore_test

import (
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/diff"
)

// TestUnclosedBoldAutoClosesAtParagraphEnd documents the decision that
// an unterminated "**bold" at the end of a paragraph auto-closes
// rather than falling back to literal asterisks the way CommonMark
// does. This is intentional and non-CommonMark.
func TestUnclosedBoldAutoClosesAtParagraphEnd(t *testing.T) {
	got := parseAll(t, "**bold")
	want := []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewMark("strong", false, nil),
		markcore.NewText("bold"),
		markcore.NewUnmark("strong", false),
		markcore.NewUnmark("p", false),
	}
	diff.RequireEvents(t, want, got)
}
