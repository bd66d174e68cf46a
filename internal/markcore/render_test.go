package markcore_test

import (
	"iter"
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
)

func seq(events []markcore.Event) iter.Seq[markcore.Event] {
	return func(yield func(markcore.Event) bool) {
		for _, e := range events {
			if !yield(e) {
				return
			}
		}
	}
}

func render(t *testing.T, events []markcore.Event, opts ...markcore.RenderOption) string {
	t.Helper()
	out, err := markcore.Render(seq(events), opts...)
	assert.NoError(t, err)
	return out
}

func TestRenderBlockWithTextChild(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("p", false, nil),
		markcore.NewText("hello"),
		markcore.NewUnmark("p", false),
	})
	assert.Equal(t, "<p>\n  hello\n</p>", got)
}

func TestRenderChildlessBlockCollapses(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("div", false, nil),
		markcore.NewUnmark("div", false),
	})
	assert.Equal(t, "<div></div>", got)
}

func TestRenderNestedBlocksIndent(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("ul", false, nil),
		markcore.NewMark("li", false, nil),
		markcore.NewText("one"),
		markcore.NewUnmark("li", false),
		markcore.NewMark("li", false, nil),
		markcore.NewText("two"),
		markcore.NewUnmark("li", false),
		markcore.NewUnmark("ul", false),
	})
	want := "<ul>\n  <li>\n    one\n  </li>\n  <li>\n    two\n  </li>\n</ul>"
	assert.Equal(t, want, got)
}

// TestRenderInlineMarkStaysInPlace exercises spec.md section 4.3's
// "inline marks print in place without newlines" at the point that
// actually governs it: a block parent breaks before every direct
// child regardless of its own inline/block-ness (scenario 1's
// "<p>\n  <strong>world</strong>\n</p>"), but an INLINE parent never
// breaks before its children, so purely inline content nested under
// an inline mark stays on one line.
func TestRenderInlineMarkStaysInPlace(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("strong", false, nil),
		markcore.NewText("bold "),
		markcore.NewMark("em", false, nil),
		markcore.NewText("inner"),
		markcore.NewUnmark("em", false),
		markcore.NewText(" more"),
		markcore.NewUnmark("strong", false),
	})
	assert.Equal(t, "<strong>bold <em>inner</em> more</strong>", got)
}

func TestRenderEscapesTextAndAttributes(t *testing.T) {
	attrs := markcore.NewAttributes()
	attrs.Set("title", `a "quote" & <tag>`)
	got := render(t, []markcore.Event{
		markcore.NewMark("span", false, attrs),
		markcore.NewText("1 < 2 & 3 > 2"),
		markcore.NewUnmark("span", false),
	})
	assert.Equal(t, `<span title="a &quot;quote&quot; &amp; &lt;tag&gt;">1 &lt; 2 &amp; 3 &gt; 2</span>`, got)
}

func TestRenderPreIsVerbatim(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("pre", false, nil),
		markcore.NewText("func f() {\n\t<return>\n}"),
		markcore.NewUnmark("pre", false),
	})
	// pre is a block, so its one Text child still gets the usual
	// break+indent before it; the text itself is written verbatim, so
	// its own embedded newlines are not escaped or re-indented.
	assert.Equal(t, "<pre>\n  func f() {\n\t<return>\n}\n</pre>", got)
}

func TestRenderMultilineTextReindents(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("blockquote", false, nil),
		markcore.NewText("line one\nline two"),
		markcore.NewUnmark("blockquote", false),
	})
	assert.Equal(t, "<blockquote>\n  line one\n  line two\n</blockquote>", got)
}

func TestRenderCustomMarkupTagIsBlock(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("foo:bar", true, nil),
		markcore.NewText("body"),
		markcore.NewUnmark("foo:bar", true),
	})
	assert.Equal(t, "<foo:bar>\n  body\n</foo:bar>", got)
}

func TestRenderCompactKeepsBlocksInline(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("ul", false, nil),
		markcore.NewMark("li", false, nil),
		markcore.NewText("one"),
		markcore.NewUnmark("li", false),
		markcore.NewUnmark("ul", false),
	}, markcore.WithCompact(true))
	assert.Equal(t, "<ul><li>one</li></ul>", got)
}

func TestRenderIndentWidth(t *testing.T) {
	got := render(t, []markcore.Event{
		markcore.NewMark("ul", false, nil),
		markcore.NewMark("li", false, nil),
		markcore.NewText("one"),
		markcore.NewUnmark("li", false),
		markcore.NewUnmark("ul", false),
	}, markcore.WithIndentWidth(4))
	assert.Equal(t, "<ul>\n    <li>\n        one\n    </li>\n</ul>", got)
}
