package markcore_test

import (
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
)

func TestExtractorCapturesTargetOnce(t *testing.T) {
	attrs := markcore.NewAttributes()
	attrs.Set("lang", "go")
	input := []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewText("before"),
		markcore.NewUnmark("p", false),
		markcore.NewMark("code", true, attrs),
		markcore.NewText("fmt.Println"),
		markcore.NewText("(1)"),
		markcore.NewUnmark("code", true),
		markcore.NewMark("p", false, nil),
		markcore.NewText("after"),
		markcore.NewUnmark("p", false),
	}

	x := markcore.NewMarkupContentExtractor("code")
	got := collect(markcore.Extract(seq(input), x))

	// pass-through: the stream is unaffected.
	if len(got) != len(input) {
		t.Fatalf("Extract altered the stream: got %d events, want %d", len(got), len(input))
	}

	assert.True(t, x.Succeeded)
	assert.False(t, x.IsExtracting)
	assert.Equal(t, "fmt.Println(1)", x.Content)
	v, ok := x.Attributes.Get("lang")
	assert.True(t, ok)
	assert.Equal(t, "go", v)
	if len(x.ExtractedEvents) != 4 {
		t.Fatalf("got %d extracted events, want 4: %+v", len(x.ExtractedEvents), x.ExtractedEvents)
	}
}

func TestExtractorIgnoresLaterOccurrences(t *testing.T) {
	input := []markcore.Event{
		markcore.NewMark("code", true, nil),
		markcore.NewText("first"),
		markcore.NewUnmark("code", true),
		markcore.NewMark("code", true, nil),
		markcore.NewText("second"),
		markcore.NewUnmark("code", true),
	}
	x := markcore.NewMarkupContentExtractor("code")
	collect(markcore.Extract(seq(input), x))
	assert.Equal(t, "first", x.Content)
}

func TestExtractorNeverSucceedsWithoutTarget(t *testing.T) {
	input := []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewText("no target here"),
		markcore.NewUnmark("p", false),
	}
	x := markcore.NewMarkupContentExtractor("code")
	collect(markcore.Extract(seq(input), x))
	assert.False(t, x.Succeeded)
	assert.False(t, x.IsExtracting)
	assert.Equal(t, "", x.Content)
}
