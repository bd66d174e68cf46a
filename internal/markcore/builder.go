package markcore

import "iter"

// Scope is the handle passed into a BuildEvents program. Its methods
// are the builder DSL described in spec.md section 4.1: raw emission
// primitives plus scoped blocks that emit a Mark, run a nested
// function, and emit the matching Unmark.
type Scope struct {
	yield       func(Event) bool
	produceTags bool
	stopped     bool
}

// BuildEvents returns a lazy event sequence produced by fn. produceTags
// sets the default is_tag value used by the scope's unqualified
// Mark/Unmark/Block primitives, so the same builder program can
// stand in for either Markdown-derived or markup-derived streams.
func BuildEvents(produceTags bool, fn func(s *Scope)) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		s := &Scope{yield: yield, produceTags: produceTags}
		fn(s)
	}
}

func (s *Scope) emit(e Event) bool {
	if s.stopped {
		return false
	}
	if !s.yield(e) {
		s.stopped = true
		return false
	}
	return true
}

// Text emits a Text event.
func (s *Scope) Text(text string) { s.emit(NewText(text)) }

// Mark emits a Mark event using the scope's default is_tag.
func (s *Scope) Mark(name string, attrs *Attributes) {
	s.emit(NewMark(name, s.produceTags, attrs))
}

// MarkIsTag emits a Mark event with an explicit is_tag, bypassing the
// scope's default.
func (s *Scope) MarkIsTag(name string, isTag bool, attrs *Attributes) {
	s.emit(NewMark(name, isTag, attrs))
}

// Unmark emits an Unmark event using the scope's default is_tag.
func (s *Scope) Unmark(name string) {
	s.emit(NewUnmark(name, s.produceTags))
}

// UnmarkIsTag emits an Unmark event with an explicit is_tag.
func (s *Scope) UnmarkIsTag(name string, isTag bool) {
	s.emit(NewUnmark(name, isTag))
}

// Block emits Mark(name), runs fn, then emits the matching Unmark,
// using the scope's default is_tag for both.
func (s *Scope) Block(name string, attrs *Attributes, fn func(*Scope)) {
	s.BlockIsTag(name, s.produceTags, attrs, fn)
}

// Tag is identical to Block but always marks with is_tag=true,
// regardless of the scope's default — for building markup-derived
// streams inline with a builder otherwise configured for Markdown.
func (s *Scope) Tag(name string, attrs *Attributes, fn func(*Scope)) {
	s.BlockIsTag(name, true, attrs, fn)
}

// BlockIsTag is the raw scoped-block primitive underlying Block and Tag.
func (s *Scope) BlockIsTag(name string, isTag bool, attrs *Attributes, fn func(*Scope)) {
	if !s.emit(NewMark(name, isTag, attrs)) {
		return
	}
	if fn != nil {
		fn(s)
	}
	if s.stopped {
		return
	}
	s.emit(NewUnmark(name, isTag))
}
