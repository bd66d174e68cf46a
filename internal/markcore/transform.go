package markcore

import "iter"

// RootMode is the child mode in effect before any Mark has matched a
// rule that calls Handler.Children with an explicit mode. Passing
// RootMode to MatchMode/MatchFuncMode restricts a rule to firing on
// top-level marks (or marks under an ancestor whose handler never
// called Children with a different mode).
const RootMode = ""

// MarkHandler is invoked when a Mark matches a rule. attrs are the
// matched mark's attributes (nil if it had none). The handler emits
// replacement output through h; see Handler.
type MarkHandler func(h *Handler, name string, isTag bool, attrs *Attributes)

// TextHandler is invoked for every Text event when a text rule is
// registered (spec.md section 4.4's match_text).
type TextHandler func(h *Handler, text string)

// Handler is the scope passed to a matched rule's handler. Emitting
// through it before calling Children produces output that appears
// before the element's (possibly mode-shifted) original children;
// emitting after Children produces output held back until the
// matching Unmark arrives, so a handler can wrap the spliced children
// in prefix and suffix output.
type Handler struct {
	pre            []Event
	post           []Event
	calledChildren bool
	childMode      string
}

func (h *Handler) emit(e Event) {
	if h.calledChildren {
		h.post = append(h.post, e)
	} else {
		h.pre = append(h.pre, e)
	}
}

// Text emits a Text event.
func (h *Handler) Text(s string) { h.emit(NewText(s)) }

// Mark emits a Mark/Unmark pair around fn, letting a handler wrap
// output in a renamed or newly-introduced element.
func (h *Handler) Mark(name string, isTag bool, attrs *Attributes, fn func(*Handler)) {
	h.emit(NewMark(name, isTag, attrs))
	if fn != nil {
		fn(h)
	}
	h.emit(NewUnmark(name, isTag))
}

// Children requests that the matched element's original child events
// be spliced into the output at this point, matched against rules
// using mode for the duration of those children. Only the first call
// in a given handler invocation has effect, matching spec.md section
// 4.4's "at this point" wording.
func (h *Handler) Children(mode string) {
	if h.calledChildren {
		return
	}
	h.calledChildren = true
	h.childMode = mode
}

type ruleKind uint8

const (
	ruleByName ruleKind = iota
	ruleByPred
)

type rule struct {
	kind ruleKind
	name string
	pred func(name string, isTag bool, attrs *Attributes) bool
	mode *string // nil means "any mode" (spec.md's mode=None)
	h    MarkHandler
}

func (r *rule) matches(name string, isTag bool, attrs *Attributes, currentMode string) bool {
	if r.mode != nil && *r.mode != currentMode {
		return false
	}
	switch r.kind {
	case ruleByName:
		return name == r.name
	case ruleByPred:
		return r.pred(name, isTag, attrs)
	}
	return false
}

// Transformer is an ordered set of rules built with
// NewTransformerBuilder/BuildTransformer, applied to an event stream
// by Transform.
type Transformer struct {
	rules       []rule
	textHandler TextHandler
}

// TransformerBuilder accumulates rules in registration order; the
// first whose mode and name/predicate match a Mark wins, per spec.md
// section 4.4.
type TransformerBuilder struct {
	t Transformer
}

// NewTransformerBuilder returns an empty builder.
func NewTransformerBuilder() *TransformerBuilder {
	return &TransformerBuilder{}
}

// BuildTransformer is the builder-function convenience form, mirroring
// BuildEvents: fn registers rules on the builder it's given.
func BuildTransformer(fn func(b *TransformerBuilder)) *Transformer {
	b := NewTransformerBuilder()
	fn(b)
	return b.Build()
}

// Match registers a rule firing on Mark(name) in any mode.
func (b *TransformerBuilder) Match(name string, h MarkHandler) *TransformerBuilder {
	b.t.rules = append(b.t.rules, rule{kind: ruleByName, name: name, h: h})
	return b
}

// MatchMode registers a rule firing on Mark(name) only while mode is
// the current child mode.
func (b *TransformerBuilder) MatchMode(name, mode string, h MarkHandler) *TransformerBuilder {
	m := mode
	b.t.rules = append(b.t.rules, rule{kind: ruleByName, name: name, mode: &m, h: h})
	return b
}

// MatchFunc registers a rule firing on any Mark for which pred
// returns true, in any mode.
func (b *TransformerBuilder) MatchFunc(pred func(name string, isTag bool, attrs *Attributes) bool, h MarkHandler) *TransformerBuilder {
	b.t.rules = append(b.t.rules, rule{kind: ruleByPred, pred: pred, h: h})
	return b
}

// MatchFuncMode is MatchFunc restricted to a specific current mode.
func (b *TransformerBuilder) MatchFuncMode(pred func(name string, isTag bool, attrs *Attributes) bool, mode string, h MarkHandler) *TransformerBuilder {
	m := mode
	b.t.rules = append(b.t.rules, rule{kind: ruleByPred, pred: pred, mode: &m, h: h})
	return b
}

// MatchText registers the single handler for every Text event
// (spec.md section 4.4's match_text). Registering a second one
// replaces the first.
func (b *TransformerBuilder) MatchText(h TextHandler) *TransformerBuilder {
	b.t.textHandler = h
	return b
}

// Build finalizes the rule set.
func (b *TransformerBuilder) Build() *Transformer {
	t := b.t
	return &t
}

func (t *Transformer) find(name string, isTag bool, attrs *Attributes, currentMode string) *rule {
	for i := range t.rules {
		if t.rules[i].matches(name, isTag, attrs, currentMode) {
			return &t.rules[i]
		}
	}
	return nil
}

// txFrame tracks, for one still-open source Mark, what Transform must
// do when its matching Unmark arrives.
type txFrame struct {
	discard  bool // matched but the handler never called Children: drop all nested source content
	matched  bool
	prevMode string
	post     []Event
}

// Transform applies t to events, producing the rewritten stream
// described by spec.md section 4.4. It is single-pass and lazy: rules
// run as each Mark is matched rather than after buffering the whole
// document.
func Transform(events iter.Seq[Event], t *Transformer) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		var stack []txFrame
		currentMode := RootMode

		for e := range events {
			switch e.Kind {
			case TextEvent:
				if len(stack) > 0 && stack[len(stack)-1].discard {
					continue
				}
				if t.textHandler != nil {
					h := &Handler{}
					t.textHandler(h, e.Text)
					for _, ev := range h.pre {
						if !emit(yield, ev) {
							return
						}
					}
					continue
				}
				if !emit(yield, e) {
					return
				}

			case MarkEvent:
				if len(stack) > 0 && stack[len(stack)-1].discard {
					stack = append(stack, txFrame{discard: true})
					continue
				}
				if r := t.find(e.Name, e.IsTag, e.Attributes, currentMode); r != nil {
					h := &Handler{}
					r.h(h, e.Name, e.IsTag, e.Attributes)
					for _, ev := range h.pre {
						if !emit(yield, ev) {
							return
						}
					}
					frame := txFrame{matched: true, prevMode: currentMode}
					if h.calledChildren {
						frame.post = h.post
						currentMode = h.childMode
					} else {
						frame.discard = true
					}
					stack = append(stack, frame)
					continue
				}
				// unmatched: forward unchanged, inherit current mode for its children.
				if !emit(yield, e) {
					return
				}
				stack = append(stack, txFrame{matched: false, prevMode: currentMode})

			case UnmarkEvent:
				if len(stack) == 0 {
					// spec.md section 7: unexpected Unmark on an empty
					// matcher stack is ignored.
					continue
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.discard {
					continue
				}
				if !top.matched {
					if !emit(yield, e) {
						return
					}
					continue
				}
				currentMode = top.prevMode
				for _, ev := range top.post {
					if !emit(yield, ev) {
						return
					}
				}
			}
		}
	}
}
