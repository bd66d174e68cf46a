package markanywhere_test

import (
	"bytes"
	"errors"
	"iter"
	"testing"

	"github.com/xemantic/markanywhere"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
	"github.com/xemantic/markanywhere/plugin/required"
)

func chunks(ss ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, s := range ss {
			if !yield(s) {
				return
			}
		}
	}
}

func collectEvents(seq iter.Seq[markanywhere.Event]) []markanywhere.Event {
	var out []markanywhere.Event
	for e := range seq {
		out = append(out, e)
	}
	return out
}

func TestParseAndRender(t *testing.T) {
	rendered, err := markanywhere.Render(markanywhere.Parse(chunks("# Hello\n**world**")))
	assert.NoError(t, err)
	assert.Equal(t, "<h1>\n  Hello\n</h1>\n<p>\n  <strong>world</strong>\n</p>", rendered)
}

func TestParseWithPluginsRejectsMissingAttribute(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id"}})
	events := collectEvents(markanywhere.ParseWithPlugins(chunks("<ns:widget>body</ns:widget>"), p))
	for _, e := range events {
		if e.Kind == markanywhere.MarkEvent && e.Name == "ns:widget" {
			t.Fatalf("expected the stream to terminate before the offending Mark reached downstream: %+v", events)
		}
	}
}

func TestParseWithPluginsPassesValidTag(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id"}})
	events := collectEvents(markanywhere.ParseWithPlugins(chunks(`<ns:widget id="1">body</ns:widget>`), p))
	if len(events) == 0 {
		t.Fatal("expected events, got none")
	}
	if events[0].Kind != markanywhere.MarkEvent || events[0].Name != "ns:widget" {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
}

func TestBuildEventsAndTransform(t *testing.T) {
	events := markanywhere.BuildEvents(func(s *markanywhere.Scope) {
		s.Block("p", nil, func(s *markanywhere.Scope) {
			s.Text("hi")
		})
	})
	tr := markanywhere.BuildTransformer(func(b *markanywhere.TransformerBuilder) {
		b.Match("p", func(h *markanywhere.Handler, name string, isTag bool, attrs *markanywhere.Attributes) {
			h.Text("<<")
			h.Children(markanywhere.RootMode)
			h.Text(">>")
		})
	})
	rendered, err := markanywhere.Render(markanywhere.Transform(events, tr))
	assert.NoError(t, err)
	assert.Equal(t, "&lt;&lt;hi&gt;&gt;", rendered)
}

func TestExtract(t *testing.T) {
	x := markanywhere.NewMarkupContentExtractor("ns:code")
	collectEvents(markanywhere.Extract(markanywhere.Parse(chunks("<ns:code>fmt.Println(1)</ns:code>")), x))
	assert.True(t, x.Succeeded)
	assert.Equal(t, "fmt.Println(1)", x.Content)
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e := markanywhere.NewText("hello")
	assert.NoError(t, markanywhere.EncodeJSON(&buf, e))
	got, err := markanywhere.DecodeJSON(&buf)
	assert.NoError(t, err)
	if got.Kind != e.Kind || got.Text != e.Text {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestDecodeErrorType(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":"bogus"}`)
	_, err := markanywhere.DecodeJSON(&buf)
	var de *markanywhere.DecodeError
	assert.True(t, errors.As(err, &de))
}
