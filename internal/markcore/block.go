package markcore

import "strconv"

// lineBuffer accumulates raw bytes while the parser is disambiguating
// what the current line commits to, either at the very start of a
// block (see consumeStart) or while checking whether a line-oriented
// block continues onto its next line (see consumeContByte).
type lineBuffer struct {
	buf []byte
}

func (l *lineBuffer) Reset()           { l.buf = l.buf[:0] }
func (l *lineBuffer) Append(c byte)    { l.buf = append(l.buf, c) }
func (l *lineBuffer) Bytes() []byte    { return l.buf }
func (l *lineBuffer) Len() int         { return len(l.buf) }

// replayBytes feeds each byte of bs through consumeByte in turn,
// stopping early if any of them asks the iteration to stop.
func (p *Parser) replayBytes(bs []byte, yield func(Event) bool) bool {
	for _, b := range bs {
		if !p.consumeByte(b, yield) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isNameByte(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-'
}

// consumeStart is the Start-state dispatcher: it buffers an
// ambiguous-prefix of the current line into p.line and, as soon as
// enough bytes have arrived to settle what block the line begins,
// commits to that block (discarding or replaying the buffered bytes
// as appropriate) or falls back to treating the line as the start of
// a Paragraph.
func (p *Parser) consumeStart(c byte, yield func(Event) bool) bool {
	if p.line.Len() == 0 {
		switch {
		case c == '\n':
			return true
		case c == '#':
			p.line.Append(c)
			return true
		case c == '`':
			p.line.Append(c)
			return true
		case c == '-' || c == '*' || c == '_':
			p.line.Append(c)
			return true
		case isDigit(c):
			p.line.Append(c)
			return true
		case c == '>':
			p.line.Append(c)
			return true
		case c == '$':
			p.line.Append(c)
			return true
		case c == '|':
			p.line.Append(c)
			return true
		case c == '<':
			p.line.Append(c)
			return true
		default:
			return p.startParagraph(yield, c)
		}
	}

	buf := p.line.Bytes()
	switch buf[0] {
	case '#':
		return p.continueHeadingStart(c, yield)
	case '`':
		return p.continueFenceStart(c, yield)
	case '-', '*', '_':
		return p.continueHRListStart(c, yield)
	case '>':
		return p.continueBlockquoteStart(c, yield)
	case '$':
		return p.continueMathStart(c, yield)
	case '|':
		return p.continueTableStart(c, yield)
	case '<':
		return p.continueCustomTagStart(c, yield)
	default:
		if isDigit(buf[0]) {
			return p.continueOrderedListStart(c, yield)
		}
	}
	return p.startParagraph(yield, c)
}

// startParagraph commits the Start state to a Paragraph and replays
// whatever was buffered (if anything), followed by c, through the
// inline machinery.
func (p *Parser) startParagraph(yield func(Event) bool, c byte) bool {
	buf := append([]byte(nil), p.line.Bytes()...)
	p.line.Reset()
	p.blk = block{kind: blockParagraph}
	p.pushOpen("p", false)
	if !emit(yield, NewMark("p", false, nil)) {
		return false
	}
	if !p.replayBytes(buf, yield) {
		return false
	}
	return p.consumeByte(c, yield)
}

func allBytesEqual(buf []byte, c byte) bool {
	for _, b := range buf {
		if b != c {
			return false
		}
	}
	return true
}

// --- heading ---

func (p *Parser) continueHeadingStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if allBytesEqual(buf, '#') {
		if c == '#' {
			if len(buf) == 6 {
				// seventh hash: always falls back to Paragraph.
				p.line.Append(c)
				return p.drainParagraphFallback(yield)
			}
			p.line.Append(c)
			return true
		}
		level := len(buf)
		p.line.Reset()
		if c == ' ' {
			p.blk = block{kind: blockHeading, headingLevel: level}
			name := "h" + strconv.Itoa(level)
			p.pushOpen(name, false)
			return emit(yield, NewMark(name, false, nil))
		}
		// "#foo" with no space: falls back to Paragraph, replaying
		// the hashes plus this byte.
		hashes := make([]byte, level)
		for i := range hashes {
			hashes[i] = '#'
		}
		return p.fallbackToParagraph2(hashes, c, yield)
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

// fallbackToParagraph2 opens a paragraph, replays prefix as its
// content and then consumes c; the caller passes the prefix
// explicitly, since p.line is cleared here.
func (p *Parser) fallbackToParagraph2(prefix []byte, c byte, yield func(Event) bool) bool {
	p.line.Reset()
	p.blk = block{kind: blockParagraph}
	p.pushOpen("p", false)
	if !emit(yield, NewMark("p", false, nil)) {
		return false
	}
	if !p.replayBytes(prefix, yield) {
		return false
	}
	return p.consumeByte(c, yield)
}

// drainParagraphFallback is used once a pattern (7+ hashes and
// similar) has already committed to "this can only be a paragraph"
// without needing to look at c specially; c is appended to the buffer
// and the whole thing replayed as paragraph content.
func (p *Parser) drainParagraphFallback(yield func(Event) bool) bool {
	buf := append([]byte(nil), p.line.Bytes()...)
	p.line.Reset()
	p.blk = block{kind: blockParagraph}
	p.pushOpen("p", false)
	if !emit(yield, NewMark("p", false, nil)) {
		return false
	}
	return p.replayBytes(buf, yield)
}

// --- fenced code block ---

func (p *Parser) continueFenceStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if allBytesEqual(buf, '`') && len(buf) < 3 {
		if c == '`' {
			p.line.Append(c)
			return true
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	if allBytesEqual(buf, '`') && len(buf) == 3 {
		// collecting an optional language tag up to the newline
		if c == '\n' {
			p.line.Reset()
			return p.commitCodeBlock(yield, "")
		}
		if isLangByte(c) {
			p.line.Append(c)
			return true
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	// len(buf) > 3: we're in the language-tag-collecting phase.
	if c == '\n' {
		lang := string(buf[3:])
		p.line.Reset()
		return p.commitCodeBlock(yield, lang)
	}
	if isLangByte(c) {
		p.line.Append(c)
		return true
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

func isLangByte(c byte) bool { return isAlpha(c) || isDigit(c) }

func (p *Parser) commitCodeBlock(yield func(Event) bool, lang string) bool {
	p.blk = block{kind: blockCodeBlock, fenceLen: 3, fenceLang: lang}
	p.lineEndCheck = true
	attrs := NewAttributes()
	if lang == "" {
		attrs.Set("class", "code")
	} else {
		attrs.Set("class", "code lang-"+lang)
	}
	p.pushOpen("pre", false)
	return emit(yield, NewMark("pre", false, attrs))
}

// consumeCodeBlockByte handles bytes while inside a fenced code
// block: content is passed through literally until a line consisting
// solely of a closing fence of at least the opening length.
func (p *Parser) consumeCodeBlockByte(c byte, yield func(Event) bool) bool {
	if p.lineEndCheck {
		return p.consumeFenceCloseByte(c, yield)
	}
	if c == '\n' {
		p.lineEndCheck = true
		p.line.Reset()
		return emit(yield, NewText("\n"))
	}
	return emit(yield, NewText(string(c)))
}

// consumeFenceCloseByte buffers a line inside a code block to check
// whether it is the closing fence (>= fenceLen backticks, alone on
// the line).
func (p *Parser) consumeFenceCloseByte(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if c == '\n' {
		if allBytesEqual(buf, '`') && len(buf) >= p.blk.fenceLen && len(buf) > 0 {
			p.line.Reset()
			p.lineEndCheck = false
			p.blk = block{kind: blockStart}
			return p.popOpen(yield, "pre", false)
		}
		// not a closing fence: the buffered line plus this newline
		// were genuine code content.
		content := append(append([]byte(nil), buf...), '\n')
		p.line.Reset()
		p.lineEndCheck = false
		return emit(yield, NewText(string(content)))
	}
	if c == '`' && (len(buf) == 0 || allBytesEqual(buf, '`')) {
		p.line.Append(c)
		return true
	}
	// diverges from a pure backtick run: flush what's buffered as
	// text and resume ordinary code-block scanning for the rest of
	// the line.
	content := append([]byte(nil), buf...)
	p.line.Reset()
	p.lineEndCheck = false
	if !emit(yield, NewText(string(content))) {
		return false
	}
	return emit(yield, NewText(string(c)))
}

// --- HR / unordered & ordered list markers ---

func (p *Parser) continueHRListStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	marker := buf[0]
	if len(buf) == 1 {
		if c == ' ' {
			p.line.Append(c)
			return true
		}
		if c == marker {
			p.line.Append(c)
			return true
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	if buf[1] == ' ' {
		// "X ": confirmed list marker; only remaining question is
		// whether this is a checkbox item.
		return p.continueChecklistStart(c, yield)
	}
	// building toward a run of identical marker characters (HR).
	if allBytesEqual(buf, marker) {
		if c == marker {
			p.line.Append(c)
			return true
		}
		if c == '\n' {
			p.line.Reset()
			p.pushOpen("hr", false)
			if !emit(yield, NewMark("hr", false, nil)) {
				return false
			}
			return p.popOpen(yield, "hr", false)
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

// continueChecklistStart handles the "- " / "* " tail, deciding
// whether the item is also a "[ ] "/"[x] " checkbox.
func (p *Parser) continueChecklistStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	switch len(buf) {
	case 2:
		if c == '[' {
			p.line.Append(c)
			return true
		}
		return p.commitUnorderedList(nil, c, yield)
	case 3:
		if c != ' ' && c != 'x' {
			return p.commitUnorderedList(buf[2:], c, yield)
		}
		p.line.Append(c)
		return true
	case 4:
		if c == ']' {
			p.line.Append(c)
			return true
		}
		return p.commitUnorderedList(buf[2:], c, yield)
	case 5:
		if c == ' ' {
			checked := buf[3] != ' '
			p.line.Reset()
			return p.commitUnorderedListChecked(checked, yield)
		}
		return p.commitUnorderedList(buf[2:], c, yield)
	}
	return p.commitUnorderedList(buf[2:], c, yield)
}

func (p *Parser) commitUnorderedList(remainder []byte, c byte, yield func(Event) bool) bool {
	p.line.Reset()
	p.blk = block{kind: blockUnorderedList}
	p.pushOpen("ul", false)
	if !emit(yield, NewMark("ul", false, nil)) {
		return false
	}
	p.pushOpen("li", false)
	if !emit(yield, NewMark("li", false, nil)) {
		return false
	}
	if remainder != nil && !p.replayBytes(remainder, yield) {
		return false
	}
	return p.consumeByte(c, yield)
}

func (p *Parser) commitUnorderedListChecked(checked bool, yield func(Event) bool) bool {
	p.blk = block{kind: blockUnorderedList, checkbox: true}
	p.pushOpen("ul", false)
	if !emit(yield, NewMark("ul", false, nil)) {
		return false
	}
	p.pushOpen("li", false)
	if !emit(yield, NewMark("li", false, nil)) {
		return false
	}
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

func (p *Parser) continueOrderedListStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
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
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	// buf ends in '.', waiting to see if a space follows.
	if c == ' ' {
		p.line.Reset()
		p.blk = block{kind: blockOrderedList}
		p.pushOpen("ol", false)
		if !emit(yield, NewMark("ol", false, nil)) {
			return false
		}
		p.pushOpen("li", false)
		return emit(yield, NewMark("li", false, nil))
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

// --- blockquote ---

func (p *Parser) continueBlockquoteStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if len(buf) == 1 {
		if c == ' ' {
			p.line.Reset()
			return p.commitBlockquote(yield)
		}
		p.line.Reset()
		if !p.commitBlockquote(yield) {
			return false
		}
		return p.consumeByte(c, yield)
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

func (p *Parser) commitBlockquote(yield func(Event) bool) bool {
	p.blk = block{kind: blockBlockquote}
	p.pushOpen("blockquote", false)
	if !emit(yield, NewMark("blockquote", false, nil)) {
		return false
	}
	p.pushOpen("p", false)
	return emit(yield, NewMark("p", false, nil))
}

// --- math block ---

func (p *Parser) continueMathStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if len(buf) == 1 {
		if c == '$' {
			p.line.Append(c)
			return true
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	// buf == "$$"
	if c == '\n' {
		p.line.Reset()
		p.blk = block{kind: blockMathBlock}
		p.lineEndCheck = true
		attrs := NewAttributes()
		attrs.Set("display", "block")
		p.pushOpen("math", false)
		return emit(yield, NewMark("math", false, attrs))
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

// consumeMathBlockByte handles content inside a "$$ ... $$" block:
// literal text until a line consisting solely of "$$".
func (p *Parser) consumeMathBlockByte(c byte, yield func(Event) bool) bool {
	if p.lineEndCheck {
		return p.consumeMathCloseByte(c, yield)
	}
	if c == '\n' {
		p.lineEndCheck = true
		p.line.Reset()
		return emit(yield, NewText("\n"))
	}
	return emit(yield, NewText(string(c)))
}

func (p *Parser) consumeMathCloseByte(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if c == '$' && len(buf) < 2 {
		p.line.Append(c)
		return true
	}
	if c == '\n' && len(buf) == 2 {
		p.line.Reset()
		p.lineEndCheck = false
		p.blk = block{kind: blockStart}
		return p.popOpen(yield, "math", false)
	}
	content := append([]byte(nil), buf...)
	p.line.Reset()
	p.lineEndCheck = false
	if !emit(yield, NewText(string(content))) {
		return false
	}
	if c == '\n' {
		p.lineEndCheck = true
		return true
	}
	return emit(yield, NewText(string(c)))
}

// --- custom markup tag ---

func (p *Parser) continueCustomTagStart(c byte, yield func(Event) bool) bool {
	buf := p.line.Bytes()
	if len(buf) == 1 {
		if isAlpha(c) {
			p.line.Append(c)
			return true
		}
		return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
	}
	// buf[1:] accumulates the full "ns:name" tag token; a space or '>'
	// ends it, at which point it must contain a ':' or this isn't
	// custom markup after all.
	if c == ' ' || c == '>' {
		name := string(buf[1:])
		if !hasColon(name) {
			return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
		}
		p.line.Reset()
		p.blk = block{kind: blockCustomMarkup, customTag: name}
		if !p.beginCustomMarkupAttrs(yield) {
			return false
		}
		if c == '>' {
			return p.consumeCustomMarkupByte(c, yield)
		}
		return true
	}
	if isNameByte(c) || c == ':' {
		p.line.Append(c)
		return true
	}
	return p.fallbackToParagraph2(append([]byte(nil), buf...), c, yield)
}

func hasColon(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return true
		}
	}
	return false
}

// --- table ---

func (p *Parser) continueTableStart(c byte, yield func(Event) bool) bool {
	if c == '\n' {
		p.tableHeader = append([]byte(nil), p.line.Bytes()...)
		p.line.Reset()
		p.inContCheck = true
		p.contFor = blockTable
		return true
	}
	p.line.Append(c)
	return true
}
