package markcore

import "iter"

// blockKind is the outer, line/section-governing mode of the parser,
// mirroring spec.md section 4.2's block state table.
type blockKind uint8

const (
	blockStart blockKind = iota
	blockHeading
	blockParagraph
	blockCodeBlock
	blockUnorderedList
	blockOrderedList
	blockBlockquote
	blockBlockquoteList
	blockMathBlock
	blockTable
	blockTableBody
	blockCustomMarkup
)

// block carries the payload of the current blockKind: heading level,
// code fence length, or the open custom-markup tag name.
type block struct {
	kind         blockKind
	headingLevel int
	fenceLen     int
	fenceLang    string
	customTag    string
	checkbox     bool // current list item is a checkbox item
	ordered      bool // table/list bookkeeping not otherwise distinguished by kind
}

// openMark is an entry on the parser's stack of currently-open marks,
// used to auto-close everything in LIFO order at block end or
// end-of-stream (spec.md section 4.2 "end of stream or end of
// block... any still-open inline formatting is auto-closed").
type openMark struct {
	name  string
	isTag bool
}

// Parser is the resumable, chunk-fed state machine described in
// spec.md section 4.2. Construct with NewParser and drive it with
// FeedChunk for each input chunk, then Finalize once the input is
// exhausted. Parse wraps this pair around a whole iter.Seq[string] of
// chunks for the common case.
//
// A Parser is single-use and single-threaded: it holds no goroutines
// or channels, and FeedChunk/Finalize must not be called concurrently
// with themselves or each other (spec.md section 5).
type Parser struct {
	blk block

	// line buffers bytes while the Start state (or a
	// continuation check within a list/blockquote/table) is still
	// disambiguating what the current line commits to.
	line lineBuffer

	// openStack records every Mark currently open, for auto-close.
	openStack []openMark

	inl inlineState

	// inContCheck and contFor track the one-line lookahead used to
	// decide whether a '\n' inside a line-oriented block (Paragraph,
	// the two list kinds, the two blockquote kinds) continues that
	// block or ends it; see continueOrEnd* in continuation.go.
	inContCheck bool
	contFor     blockKind

	// contChecklist is set while contUnorderedListByte is looking
	// ahead, after a continuation line's "- "/"* " marker, for a
	// "[ ] "/"[x] " checkbox tail; see contChecklistByte.
	contChecklist bool

	// lineEndCheck is the analogous one-line lookahead used inside
	// fenced code blocks and math blocks to detect a closing fence
	// line; kept separate from inContCheck because those blocks are
	// reached through the blk.kind switch rather than intercepted
	// ahead of it.
	lineEndCheck bool

	// tableHeader stashes a table's header line while the following
	// line is checked for a valid separator row.
	tableHeader []byte
	tableCols   int

	custom customState

	done bool
}

// customState holds the incremental state used to parse a custom
// markup block's attribute section and to scan its body for the
// closing "</tag>" sentinel one byte at a time (see customtag.go).
type customState struct {
	phase uint8 // 0 = scanning attrs, 1 = expect one newline, 2 = body
	buf   []byte

	sentinel  string
	matchLen  int
	matchBuf  []byte
	pendingNL bool
}

// NewParser returns a Parser ready to receive its first chunk.
func NewParser() *Parser {
	return &Parser{}
}

func emit(yield func(Event) bool, e Event) bool {
	return yield(e)
}

func (p *Parser) pushOpen(name string, isTag bool) {
	p.openStack = append(p.openStack, openMark{name: name, isTag: isTag})
}

// popOpen removes the innermost open mark matching name/isTag,
// wherever it sits in the stack, and emits its Unmark; it emits
// nothing when no open mark matches. Used when a block deliberately
// closes one of its own marks (as opposed to the blanket auto-close
// at EOF).
func (p *Parser) popOpen(yield func(Event) bool, name string, isTag bool) bool {
	for i := len(p.openStack) - 1; i >= 0; i-- {
		if p.openStack[i].name == name && p.openStack[i].isTag == isTag {
			p.openStack = append(p.openStack[:i], p.openStack[i+1:]...)
			return emit(yield, NewUnmark(name, isTag))
		}
	}
	return true
}

// closeAllOpen auto-closes every still-open mark in LIFO order,
// emitting no events for marks that were abandoned mid-stream by a
// consumer cancellation (cancellation is handled by the caller
// stopping iteration; closeAllOpen only runs to completion).
func (p *Parser) closeAllOpen(yield func(Event) bool) bool {
	for len(p.openStack) > 0 {
		top := p.openStack[len(p.openStack)-1]
		p.openStack = p.openStack[:len(p.openStack)-1]
		if !emit(yield, NewUnmark(top.name, top.isTag)) {
			return false
		}
	}
	return true
}

// FeedChunk consumes one input chunk and returns the events it makes
// determinable. Splitting a document across FeedChunk calls at any
// byte boundary never changes the resulting event sequence, including
// when a control token straddles the split (spec.md section 6,
// "Parser input quirks"), except that a run of text may come out as
// several adjacent Text events split at the chunk boundary.
func (p *Parser) FeedChunk(chunk string) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if p.done {
			return
		}
		i := 0
		for i < len(chunk) {
			if n := p.fastPathRun(chunk[i:]); n > 0 {
				if !emit(yield, NewText(chunk[i:i+n])) {
					return
				}
				i += n
				continue
			}
			c := chunk[i]
			i++
			if !p.consumeByte(c, yield) {
				return
			}
		}
	}
}

// Finalize flushes any state still pending once the input is known to
// be exhausted: it auto-closes the current block (if any) and every
// still-open inline mark, and flushes a residual inline buffer as
// literal text. It must be called exactly once, after the last
// FeedChunk.
func (p *Parser) Finalize() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if p.done {
			return
		}
		p.done = true
		p.finalizeCurrentLine(yield)
		p.closeCurrentBlock(yield)
		p.closeAllOpen(yield)
	}
}

// Parse drives a fresh Parser over chunks and returns the resulting
// lazy event sequence. It is the package-level convenience form of
// NewParser + FeedChunk + Finalize.
func Parse(chunks iter.Seq[string]) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		p := NewParser()
		for chunk := range chunks {
			for ev := range p.FeedChunk(chunk) {
				if !yield(ev) {
					return
				}
			}
		}
		for ev := range p.Finalize() {
			if !yield(ev) {
				return
			}
		}
	}
}

// consumeByte is the single per-byte dispatch point, routing to the
// Start-state line buffering or to the active block/inline handler.
func (p *Parser) consumeByte(c byte, yield func(Event) bool) bool {
	if p.inContCheck {
		return p.consumeContByte(c, yield)
	}
	switch p.blk.kind {
	case blockStart:
		return p.consumeStart(c, yield)
	case blockCodeBlock:
		return p.consumeCodeBlockByte(c, yield)
	case blockCustomMarkup:
		return p.consumeCustomMarkupByte(c, yield)
	case blockMathBlock:
		return p.consumeMathBlockByte(c, yield)
	case blockTable, blockTableBody:
		return p.consumeTableByte(c, yield)
	default: // Heading, Paragraph, UnorderedList, OrderedList, Blockquote, BlockquoteList
		return p.consumeTextLineByte(c, yield)
	}
}
