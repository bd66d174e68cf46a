package markcore

import (
	"strconv"
	"strings"
)

// continueOrEndParagraph, continueOrEndList and continueOrEndBlockquote
// start the one-line lookahead that decides, once the following
// line's prefix is known, whether a '\n' continues the current block
// or ends it (see consumeContByte).
func (p *Parser) continueOrEndParagraph(yield func(Event) bool) bool {
	p.inContCheck = true
	p.contFor = blockParagraph
	p.line.Reset()
	return true
}

func (p *Parser) continueOrEndList(yield func(Event) bool) bool {
	p.inContCheck = true
	p.contFor = p.blk.kind
	p.line.Reset()
	return true
}

func (p *Parser) continueOrEndBlockquote(yield func(Event) bool) bool {
	p.inContCheck = true
	p.contFor = p.blk.kind
	p.line.Reset()
	return true
}

// consumeContByte dispatches the buffered lookahead line to the
// handler for whatever block is checking continuation.
func (p *Parser) consumeContByte(c byte, yield func(Event) bool) bool {
	if c == '\n' && p.line.Len() == 0 && p.contFor != blockTable {
		return p.endContinuedBlock(yield)
	}
	switch p.contFor {
	case blockParagraph:
		p.inContCheck = false
		if !emit(yield, NewText("\n")) {
			return false
		}
		return p.consumeByte(c, yield)
	case blockUnorderedList:
		return p.contUnorderedListByte(c, yield)
	case blockOrderedList:
		return p.contOrderedListByte(c, yield)
	case blockBlockquote, blockBlockquoteList:
		return p.contBlockquoteByte(c, yield)
	case blockTable:
		return p.contTableSeparatorByte(c, yield)
	}
	return true
}

func (p *Parser) endContinuedBlock(yield func(Event) bool) bool {
	p.line.Reset()
	p.inContCheck = false
	return p.closeCurrentBlock(yield)
}

func (p *Parser) endContinuedBlockReplay(c byte, yield func(Event) bool) bool {
	buf := append([]byte(nil), p.line.Bytes()...)
	p.line.Reset()
	p.inContCheck = false
	if !p.closeCurrentBlock(yield) {
		return false
	}
	if !p.replayBytes(buf, yield) {
		return false
	}
	return p.consumeByte(c, yield)
}

func (p *Parser) contUnorderedListByte(c byte, yield func(Event) bool) bool {
	if p.contChecklist {
		return p.contChecklistByte(c, yield)
	}
	buf := p.line.Bytes()
	if len(buf) == 0 {
		if c == '-' || c == '*' {
			p.line.Append(c)
			return true
		}
		return p.endContinuedBlockReplay(c, yield)
	}
	if c == ' ' {
		p.line.Reset()
		if !p.popOpen(yield, "li", false) {
			return false
		}
		p.pushOpen("li", false)
		if !emit(yield, NewMark("li", false, nil)) {
			return false
		}
		p.contChecklist = true
		return true
	}
	return p.endContinuedBlockReplay(c, yield)
}

// contChecklistByte mirrors continueChecklistStart's "[ ] "/"[x] "
// lookahead for a list item reached via continuation rather than
// block Start, so every item in a mixed checked/unchecked list is
// recognized regardless of its position in the list.
func (p *Parser) contChecklistByte(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	switch len(buf) {
	case 0:
		if c == '[' {
			p.line.Append(c)
			return true
		}
		return p.endContChecklistProbe(c, yield)
	case 1:
		if c != ' ' && c != 'x' {
			return p.endContChecklistProbe(c, yield)
		}
		p.line.Append(c)
		return true
	case 2:
		if c == ']' {
			p.line.Append(c)
			return true
		}
		return p.endContChecklistProbe(c, yield)
	case 3:
		if c == ' ' {
			checked := buf[1] != ' '
			p.line.Reset()
			p.contChecklist = false
			p.inContCheck = false
			attrs := NewAttributes()
			attrs.Set("type", "checkbox")
			if checked {
				attrs.Set("checked", "true")
			}
			if !emit(yield, NewMark("input", false, attrs)) {
				return false
			}
			return emit(yield, NewUnmark("input", false))
		}
		return p.endContChecklistProbe(c, yield)
	}
	return p.endContChecklistProbe(c, yield)
}

// endContChecklistProbe gives up on checkbox syntax: whatever was
// buffered so far is ordinary item text, and c resumes normal
// byte-by-byte dispatch inside the still-open "li".
func (p *Parser) endContChecklistProbe(c byte, yield func(Event) bool) bool {
	buf := append([]byte(nil), p.line.Bytes()...)
	p.line.Reset()
	p.contChecklist = false
	p.inContCheck = false
	if len(buf) > 0 && !emit(yield, NewText(string(buf))) {
		return false
	}
	return p.consumeByte(c, yield)
}

func (p *Parser) contOrderedListByte(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if len(buf) == 0 {
		if isDigit(c) {
			p.line.Append(c)
			return true
		}
		return p.endContinuedBlockReplay(c, yield)
	}
	last := buf[len(buf)-1]
	if last != '.' {
		if isDigit(c) && len(buf) < 9 {
			p.line.Append(c)
			return true
		}
		if c == '.' {
			p.line.Append(c)
			return true
		}
		return p.endContinuedBlockReplay(c, yield)
	}
	if c == ' ' {
		p.line.Reset()
		p.inContCheck = false
		if !p.popOpen(yield, "li", false) {
			return false
		}
		p.pushOpen("li", false)
		return emit(yield, NewMark("li", false, nil))
	}
	return p.endContinuedBlockReplay(c, yield)
}

func (p *Parser) contBlockquoteByte(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if len(buf) == 0 {
		if c == '>' {
			p.line.Append(c)
			return true
		}
		return p.endContinuedBlockReplay(c, yield)
	}
	p.line.Reset()
	p.inContCheck = false
	if !emit(yield, NewText("\n")) {
		return false
	}
	if c == ' ' {
		return true
	}
	return p.consumeByte(c, yield)
}

// --- table separator validation ---

func (p *Parser) contTableSeparatorByte(c byte, yield func(Event) bool) bool {
	if c != '\n' {
		p.line.Append(c)
		return true
	}
	sep := p.line.Bytes()
	if isValidTableSeparator(sep) {
		cells := splitTableCells(p.tableHeader)
		p.tableHeader = nil
		p.line.Reset()
		p.inContCheck = false
		p.tableCols = len(cells)
		p.blk = block{kind: blockTableBody}
		p.pushOpen("table", false)
		if !emit(yield, NewMark("table", false, nil)) {
			return false
		}
		p.pushOpen("thead", false)
		if !emit(yield, NewMark("thead", false, nil)) {
			return false
		}
		p.pushOpen("tr", false)
		if !emit(yield, NewMark("tr", false, nil)) {
			return false
		}
		for _, cell := range cells {
			p.pushOpen("th", false)
			if !emit(yield, NewMark("th", false, nil)) {
				return false
			}
			if cell != "" && !emit(yield, NewText(cell)) {
				return false
			}
			if !p.popOpen(yield, "th", false) {
				return false
			}
		}
		if !p.popOpen(yield, "tr", false) {
			return false
		}
		if !p.popOpen(yield, "thead", false) {
			return false
		}
		p.pushOpen("tbody", false)
		return emit(yield, NewMark("tbody", false, nil))
	}

	// Not a table after all: the stashed header line was ordinary
	// paragraph content, and the line just buffered starts a fresh
	// block of its own.
	header := append([]byte(nil), p.tableHeader...)
	second := append([]byte(nil), p.line.Bytes()...)
	p.tableHeader = nil
	p.line.Reset()
	p.inContCheck = false
	p.blk = block{kind: blockParagraph}
	p.pushOpen("p", false)
	if !emit(yield, NewMark("p", false, nil)) {
		return false
	}
	if !p.replayBytes(header, yield) {
		return false
	}
	if !p.flushPendingInline(yield) {
		return false
	}
	if !p.popOpen(yield, "p", false) {
		return false
	}
	p.blk = block{kind: blockStart}
	if !p.replayBytes(second, yield) {
		return false
	}
	return p.consumeByte(c, yield)
}

// isValidTableSeparator matches spec.md's header separator row pattern
// `^\|[-:|\s]+\|$`.
func isValidTableSeparator(sep []byte) bool {
	if len(sep) < 3 || sep[0] != '|' || sep[len(sep)-1] != '|' {
		return false
	}
	for _, b := range sep {
		switch b {
		case '-', '|', ':', ' ', '\t', '\r', '\f', '\v':
		default:
			return false
		}
	}
	return true
}

func splitTableCells(line []byte) []string {
	s := string(line)
	parts := strings.Split(s, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, c := range parts {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

// consumeTableByte handles a data row inside a table body: a whole
// line is buffered, split on '|' into cells at the newline, and a
// blank line ends the table (consistent with the parser's general
// "blank line ends the line-oriented block" rule).
func (p *Parser) consumeTableByte(c byte, yield func(Event) bool) bool {
	if c != '\n' {
		p.line.Append(c)
		return true
	}
	row := p.line.Bytes()
	if len(row) == 0 {
		p.line.Reset()
		return p.closeCurrentBlock(yield)
	}
	cells := splitTableCells(row)
	p.line.Reset()
	p.pushOpen("tr", false)
	if !emit(yield, NewMark("tr", false, nil)) {
		return false
	}
	for i := 0; i < p.tableCols; i++ {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		p.pushOpen("td", false)
		if !emit(yield, NewMark("td", false, nil)) {
			return false
		}
		if cell != "" && !emit(yield, NewText(cell)) {
			return false
		}
		if !p.popOpen(yield, "td", false) {
			return false
		}
	}
	return p.popOpen(yield, "tr", false)
}

// closeCurrentBlock flushes any pending inline state and emits the
// Unmark events that close out the current block's own marks, then
// returns the parser to the Start state.
func (p *Parser) closeCurrentBlock(yield func(Event) bool) bool {
	switch p.blk.kind {
	case blockStart:
		return true
	case blockHeading:
		if !p.flushPendingInline(yield) {
			return false
		}
		name := "h" + strconv.Itoa(p.blk.headingLevel)
		if !p.popOpen(yield, name, false) {
			return false
		}
	case blockParagraph:
		if !p.flushPendingInline(yield) {
			return false
		}
		if !p.popOpen(yield, "p", false) {
			return false
		}
	case blockUnorderedList:
		if !p.flushPendingInline(yield) {
			return false
		}
		if !p.popOpen(yield, "li", false) {
			return false
		}
		if !p.popOpen(yield, "ul", false) {
			return false
		}
	case blockOrderedList:
		if !p.flushPendingInline(yield) {
			return false
		}
		if !p.popOpen(yield, "li", false) {
			return false
		}
		if !p.popOpen(yield, "ol", false) {
			return false
		}
	case blockBlockquote, blockBlockquoteList:
		if !p.flushPendingInline(yield) {
			return false
		}
		if !p.popOpen(yield, "p", false) {
			return false
		}
		if !p.popOpen(yield, "blockquote", false) {
			return false
		}
	case blockCodeBlock:
		if !p.popOpen(yield, "pre", false) {
			return false
		}
	case blockMathBlock:
		if !p.popOpen(yield, "math", false) {
			return false
		}
	case blockTableBody:
		if !p.popOpen(yield, "tbody", false) {
			return false
		}
		if !p.popOpen(yield, "table", false) {
			return false
		}
	case blockCustomMarkup:
		if !p.popOpen(yield, p.blk.customTag, true) {
			return false
		}
	}
	p.blk = block{kind: blockStart}
	return true
}

// finalizeCurrentLine flushes whatever the parser was still
// disambiguating when the input ended: an ambiguous Start prefix, a
// pending one-line continuation lookahead, a pending code/math fence
// check, or a custom markup body scan. It never fails (the parser has
// no error path); it only emits the literal text that recovery calls
// for.
func (p *Parser) finalizeCurrentLine(yield func(Event) bool) bool {
	if p.blk.kind == blockCustomMarkup {
		return p.finalizeCustomMarkup(yield)
	}
	if p.lineEndCheck {
		buf := append([]byte(nil), p.line.Bytes()...)
		p.line.Reset()
		p.lineEndCheck = false
		if len(buf) > 0 {
			return emit(yield, NewText(string(buf)))
		}
		return true
	}
	if p.inContCheck {
		buf := append([]byte(nil), p.line.Bytes()...)
		p.line.Reset()
		p.inContCheck = false
		if p.contFor == blockTable {
			header := append([]byte(nil), p.tableHeader...)
			p.tableHeader = nil
			p.blk = block{kind: blockParagraph}
			p.pushOpen("p", false)
			if !emit(yield, NewMark("p", false, nil)) {
				return false
			}
			if !p.replayBytes(header, yield) {
				return false
			}
			if len(buf) == 0 {
				return true
			}
			if !p.flushPendingInline(yield) {
				return false
			}
			if !p.popOpen(yield, "p", false) {
				return false
			}
			p.blk = block{kind: blockParagraph}
			p.pushOpen("p", false)
			if !emit(yield, NewMark("p", false, nil)) {
				return false
			}
			return p.replayBytes(buf, yield)
		}
		if len(buf) > 0 {
			if !emit(yield, NewText("\n")) {
				return false
			}
			return p.replayBytes(buf, yield)
		}
		return true
	}
	if p.blk.kind == blockStart && p.line.Len() > 0 {
		buf := append([]byte(nil), p.line.Bytes()...)
		p.line.Reset()
		p.blk = block{kind: blockParagraph}
		p.pushOpen("p", false)
		if !emit(yield, NewMark("p", false, nil)) {
			return false
		}
		return p.replayBytes(buf, yield)
	}
	return true
}
