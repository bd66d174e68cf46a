package markcore

import "iter"

// MarkupContentExtractor is a side-observer attached to an event
// stream with Extract. It watches for a Mark named tag, captures it
// and everything up to its matching Unmark, and otherwise leaves the
// stream untouched for downstream consumers (spec.md section 4.5).
//
// The exported fields are observable state, meant to be read after
// (or during, if the caller interleaves pulling from the extracted
// stream with inspecting the extractor) the attached stream has been
// drained past the point of interest.
type MarkupContentExtractor struct {
	tag string

	// IsExtracting is true from the moment Mark(tag) is seen until its
	// matching Unmark arrives.
	IsExtracting bool
	// Succeeded is true once the matching Unmark has been observed.
	Succeeded bool
	// ExtractedEvents holds every event from Mark(tag) through its
	// Unmark, inclusive, once Succeeded.
	ExtractedEvents []Event
	// Attributes holds the matched Mark's attributes, nil if it had none.
	Attributes *Attributes
	// Content accumulates every Text event's payload seen while extracting.
	Content string

	done bool
}

// NewMarkupContentExtractor returns an extractor watching for tag.
func NewMarkupContentExtractor(tag string) *MarkupContentExtractor {
	return &MarkupContentExtractor{tag: tag}
}

// observe updates extractor state for one event. Later occurrences of
// tag are ignored once the extractor has already succeeded once.
func (x *MarkupContentExtractor) observe(e Event) {
	if x.done {
		return
	}
	if x.IsExtracting {
		x.ExtractedEvents = append(x.ExtractedEvents, e)
		if e.Kind == TextEvent {
			x.Content += e.Text
		}
		if e.Kind == UnmarkEvent && e.Name == x.tag {
			x.IsExtracting = false
			x.Succeeded = true
			x.done = true
		}
		return
	}
	if e.Kind == MarkEvent && e.Name == x.tag {
		x.IsExtracting = true
		x.Attributes = e.Attributes.Clone()
		x.ExtractedEvents = append(x.ExtractedEvents, e)
	}
}

// Extract drives x from events while forwarding every event
// unchanged, so the returned sequence can replace events in a
// downstream pipeline without altering it.
func Extract(events iter.Seq[Event], x *MarkupContentExtractor) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for e := range events {
			x.observe(e)
			if !yield(e) {
				return
			}
		}
	}
}
