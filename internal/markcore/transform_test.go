package markcore_test

import (
	"strings"
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
)

func textOf(events []markcore.Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Kind == markcore.TextEvent {
			b.WriteString(e.Text)
		}
	}
	return b.String()
}

// TestTransformHTMLToMarkdown is spec.md section 8 scenario 6.
func TestTransformHTMLToMarkdown(t *testing.T) {
	tr := markcore.BuildTransformer(func(b *markcore.TransformerBuilder) {
		b.Match("h1", func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			h.Text("# ")
			h.Children("span")
			h.Text("\n\n")
		})
		b.Match("p", func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			h.Children("span")
			h.Text("\n\n")
		})
		b.MatchMode("em", "span", func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			h.Text("*")
			h.Children("span")
			h.Text("*")
		})
	})

	input := []markcore.Event{
		markcore.NewMark("h1", false, nil),
		markcore.NewText("Title"),
		markcore.NewUnmark("h1", false),
		markcore.NewMark("p", false, nil),
		markcore.NewText("Hello "),
		markcore.NewMark("em", false, nil),
		markcore.NewText("world"),
		markcore.NewUnmark("em", false),
		markcore.NewText("!"),
		markcore.NewUnmark("p", false),
	}

	got := collect(markcore.Transform(seq(input), tr))
	assert.Equal(t, "# Title\n\nHello *world*!\n\n", textOf(got))
}

func TestTransformDiscardsChildrenWhenNotRequested(t *testing.T) {
	tr := markcore.BuildTransformer(func(b *markcore.TransformerBuilder) {
		b.Match("script", func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			// never calls h.Children: nested content is dropped entirely.
		})
	})
	input := []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewText("before "),
		markcore.NewMark("script", false, nil),
		markcore.NewText("alert(1)"),
		markcore.NewMark("em", false, nil),
		markcore.NewText("nested"),
		markcore.NewUnmark("em", false),
		markcore.NewUnmark("script", false),
		markcore.NewText(" after"),
		markcore.NewUnmark("p", false),
	}
	got := collect(markcore.Transform(seq(input), tr))
	assert.Equal(t, "before  after", textOf(got))
	for _, e := range got {
		if e.Kind == markcore.MarkEvent && (e.Name == "script" || e.Name == "em") {
			t.Fatalf("expected script/em to be fully discarded, got %+v", got)
		}
	}
}

func TestTransformUnmatchedPassesThroughAndTracksMode(t *testing.T) {
	tr := markcore.BuildTransformer(func(b *markcore.TransformerBuilder) {
		b.MatchMode("em", "inside-div", func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			h.Text("_")
			h.Children(markcore.RootMode)
			h.Text("_")
		})
	})
	// "div" has no rule, so it passes through unchanged, but its mode
	// stays RootMode (unmatched marks never shift mode) -- the "em"
	// rule, scoped to mode "inside-div", must NOT fire here.
	input := []markcore.Event{
		markcore.NewMark("div", false, nil),
		markcore.NewMark("em", false, nil),
		markcore.NewText("x"),
		markcore.NewUnmark("em", false),
		markcore.NewUnmark("div", false),
	}
	got := collect(markcore.Transform(seq(input), tr))
	want := []markcore.Event{
		markcore.NewMark("div", false, nil),
		markcore.NewMark("em", false, nil),
		markcore.NewText("x"),
		markcore.NewUnmark("em", false),
		markcore.NewUnmark("div", false),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Name != want[i].Name || got[i].Text != want[i].Text {
			t.Fatalf("event %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTransformMatchFuncUsesAttributes(t *testing.T) {
	tr := markcore.BuildTransformer(func(b *markcore.TransformerBuilder) {
		b.MatchFunc(func(name string, isTag bool, attrs *markcore.Attributes) bool {
			if name != "span" || attrs == nil {
				return false
			}
			v, ok := attrs.Get("class")
			return ok && v == "highlight"
		}, func(h *markcore.Handler, name string, isTag bool, attrs *markcore.Attributes) {
			h.Text("==")
			h.Children(markcore.RootMode)
			h.Text("==")
		})
	})
	attrs := markcore.NewAttributes()
	attrs.Set("class", "highlight")
	input := []markcore.Event{
		markcore.NewMark("span", false, attrs),
		markcore.NewText("hot"),
		markcore.NewUnmark("span", false),
	}
	got := collect(markcore.Transform(seq(input), tr))
	assert.Equal(t, "==hot==", textOf(got))
}

func TestTransformMatchText(t *testing.T) {
	tr := markcore.BuildTransformer(func(b *markcore.TransformerBuilder) {
		b.MatchText(func(h *markcore.Handler, text string) {
			h.Text(strings.ToUpper(text))
		})
	})
	input := []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewText("shout"),
		markcore.NewUnmark("p", false),
	}
	got := collect(markcore.Transform(seq(input), tr))
	assert.Equal(t, "SHOUT", textOf(got))
}
