// Package markanywhere parses Markdown interleaved with custom markup
// tags into a stream of Text/Mark/Unmark events, and provides a
// renderer, a rule-based transformer, and a content extractor that
// operate on that stream.
//
// The core parsing, rendering, transforming and extracting logic
// lives in internal/markcore; this package re-exports its public
// surface and wires in the option and plugin packages.
package markanywhere

import (
	"io"
	"iter"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/option"
	"github.com/xemantic/markanywhere/plugin"
)

// Event, Kind and Attributes are the event-stream data model; see
// internal/markcore for their full documentation.
type (
	Event      = markcore.Event
	Kind       = markcore.Kind
	Attributes = markcore.Attributes
)

const (
	TextEvent   = markcore.TextEvent
	MarkEvent   = markcore.MarkEvent
	UnmarkEvent = markcore.UnmarkEvent
)

// NewText returns a Text event.
func NewText(s string) Event { return markcore.NewText(s) }

// NewMark returns a Mark event. attrs may be nil.
func NewMark(name string, isTag bool, attrs *Attributes) Event {
	return markcore.NewMark(name, isTag, attrs)
}

// NewUnmark returns an Unmark event.
func NewUnmark(name string, isTag bool) Event { return markcore.NewUnmark(name, isTag) }

// NewAttributes returns an empty, ready-to-use Attributes.
func NewAttributes() *Attributes { return markcore.NewAttributes() }

// Parse parses a sequence of source chunks into an event stream. The
// resulting sequence is lazy: pulling one event may consume zero or
// more chunks from the input before yielding.
func Parse(chunks iter.Seq[string]) iter.Seq[Event] {
	return markcore.Parse(chunks)
}

// ParseWithPlugins is Parse with one or more AttributePlugin run, in
// order, against every custom markup tag's attributes as it's
// parsed. A plugin error stops the stream at that point, consistent
// with spec.md's "error conditions in downstream consumers propagate
// as stream termination."
func ParseWithPlugins(chunks iter.Seq[string], plugins ...plugin.AttributePlugin) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for e := range Parse(chunks) {
			if e.Kind == MarkEvent && e.IsTag && len(plugins) > 0 {
				if err := plugin.Apply(plugins, e.Name, e.Attributes); err != nil {
					return
				}
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Scope is the handle passed to a BuildEvents program; see
// internal/markcore.Scope.
type Scope = markcore.Scope

// BuildEvents constructs an event stream programmatically by calling
// fn with a Scope. option.WithProduceTags sets the default is_tag
// used by the scope's unqualified primitives.
func BuildEvents(fn func(s *Scope), opts ...option.Option) iter.Seq[Event] {
	cfg := option.NewConfig(opts...)
	return markcore.BuildEvents(cfg.GetProduceTags(), fn)
}

// Renderer is the streaming form of Render; see internal/markcore.Renderer.
type Renderer = markcore.Renderer

// NewRenderer returns a Renderer writing to w, configured by opts
// (option.WithIndentWidth, option.WithCompact).
func NewRenderer(w io.Writer, opts ...option.Option) *Renderer {
	cfg := option.NewConfig(opts...)
	return markcore.NewRenderer(w,
		markcore.WithIndentWidth(cfg.GetIndentWidth()),
		markcore.WithCompact(cfg.GetCompact()),
	)
}

// Render renders events to a pretty-printed, HTML-like string.
func Render(events iter.Seq[Event], opts ...option.Option) (string, error) {
	cfg := option.NewConfig(opts...)
	return markcore.Render(events,
		markcore.WithIndentWidth(cfg.GetIndentWidth()),
		markcore.WithCompact(cfg.GetCompact()),
	)
}

// Transformer, TransformerBuilder, Handler and the handler function
// types mirror internal/markcore's transform rule engine.
type (
	Transformer        = markcore.Transformer
	TransformerBuilder = markcore.TransformerBuilder
	Handler            = markcore.Handler
	MarkHandler        = markcore.MarkHandler
	TextHandler        = markcore.TextHandler
)

// RootMode is the child mode in effect before any rule's handler has
// called Handler.Children with an explicit mode.
const RootMode = markcore.RootMode

// NewTransformerBuilder returns an empty rule builder.
func NewTransformerBuilder() *TransformerBuilder { return markcore.NewTransformerBuilder() }

// BuildTransformer registers rules on a fresh builder passed to fn and
// returns the resulting Transformer.
func BuildTransformer(fn func(b *TransformerBuilder)) *Transformer {
	return markcore.BuildTransformer(fn)
}

// Transform rewrites events through t's rules.
func Transform(events iter.Seq[Event], t *Transformer) iter.Seq[Event] {
	return markcore.Transform(events, t)
}

// MarkupContentExtractor observes a stream for a target tag; see
// internal/markcore.MarkupContentExtractor.
type MarkupContentExtractor = markcore.MarkupContentExtractor

// NewMarkupContentExtractor returns an extractor watching for tag.
func NewMarkupContentExtractor(tag string) *MarkupContentExtractor {
	return markcore.NewMarkupContentExtractor(tag)
}

// Extract drives x from events while forwarding every event unchanged.
func Extract(events iter.Seq[Event], x *MarkupContentExtractor) iter.Seq[Event] {
	return markcore.Extract(events, x)
}

// DecodeError reports a malformed serialized Event.
type DecodeError = markcore.DecodeError

// EncodeJSON writes e to w in the wire format documented in spec.md
// section 6.
func EncodeJSON(w io.Writer, e Event) error { return markcore.EncodeJSON(w, e) }

// DecodeJSON reads one event from r in the wire format written by EncodeJSON.
func DecodeJSON(r io.Reader) (Event, error) { return markcore.DecodeJSON(r) }
