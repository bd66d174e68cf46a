package markcore

import "strings"

// collectPhase tracks the inline parser's progress
// through the multi-character `[text](url)` / `![alt](url)` grammar
// (spec.md section 4.2's inline grammar table).
type collectPhase uint8

const (
	collectNone collectPhase = iota
	collectText               // buffering link text / image alt
	collectAwaitParen         // saw closing ']', waiting for '('
	collectURL                // buffering the url inside (...)
)

// inlineState holds every piece of pending, as-yet-ambiguous inline
// state described in spec.md section 4.2: the toggle booleans, the
// link/image/autolink sub-states, the escape flag, and the small
// marker run buffer.
type inlineState struct {
	bold      bool
	italic    bool
	sup       bool
	math      bool
	sub       bool
	strike    bool
	highlight bool
	code      bool // single-backtick code span open

	escapeNext bool

	runChar byte
	runLen  int

	doubleCode       bool // inside a `` ... `` span, buffering raw content
	doubleCodePend   bool // previous byte was a backtick candidate for the closing ``
	doubleCodeBuf    []byte

	link      collectPhase
	linkText  []byte
	linkURL   []byte

	img      collectPhase
	imgAlt   []byte
	imgURL   []byte

	bangPending bool // saw '!' and is waiting to see whether '[' follows

	autolinkActive bool
	autolinkBuf    []byte
}

func runMax(c byte) int {
	switch c {
	case '*', '_':
		return 3
	case '~', '=', '`':
		return 2
	default:
		return 0
	}
}

// consumeTextLineByte handles one byte while the parser is in a
// text-bearing block (Heading, Paragraph, UnorderedList, OrderedList,
// Blockquote, BlockquoteList). It is responsible for the block's own
// line-continuation decisions (does a '\n' end the block?) as well as
// routing ordinary bytes into the inline state machine.
func (p *Parser) consumeTextLineByte(c byte, yield func(Event) bool) bool {
	if p.inl.escapeNext {
		p.inl.escapeNext = false
		return emit(yield, NewText(string(c)))
	}
	if c == '\n' {
		return p.handleLineBreak(yield)
	}
	return p.consumeInlineByte(c, yield)
}

// handleLineBreak implements the per-blockKind line-continuation
// policy: headings always end at the first newline; paragraphs
// continue until a blank line; lists and blockquotes need to inspect
// the next line's prefix to decide whether to continue the same
// collection or terminate it.
func (p *Parser) handleLineBreak(yield func(Event) bool) bool {
	switch p.blk.kind {
	case blockHeading:
		if !p.flushPendingInline(yield) {
			return false
		}
		return p.closeCurrentBlock(yield)
	case blockParagraph:
		return p.continueOrEndParagraph(yield)
	case blockUnorderedList, blockOrderedList:
		return p.continueOrEndList(yield)
	case blockBlockquote, blockBlockquoteList:
		return p.continueOrEndBlockquote(yield)
	}
	return true
}

// resolveRun finalizes the current marker run (a run of 1..max equal
// marker characters) by performing whatever toggle or literal
// emission it denotes, per the table in spec.md section 4.2. It must
// be called whenever a differing character, end-of-block, or max run
// length is reached.
func (p *Parser) resolveRun(yield func(Event) bool) bool {
	c, n := p.inl.runChar, p.inl.runLen
	p.inl.runChar, p.inl.runLen = 0, 0
	switch c {
	case '*', '_':
		switch n {
		case 1:
			return p.toggleItalic(yield)
		case 2:
			return p.toggleBold(yield)
		case 3:
			if !p.toggleBold(yield) {
				return false
			}
			return p.toggleItalic(yield)
		}
	case '~':
		switch n {
		case 1:
			return p.toggleMark(yield, &p.inl.sub, "sub")
		case 2:
			return p.toggleMark(yield, &p.inl.strike, "del")
		}
	case '=':
		switch n {
		case 1:
			return emit(yield, NewText("="))
		case 2:
			return p.toggleMark(yield, &p.inl.highlight, "mark")
		}
	case '`':
		switch n {
		case 1:
			return p.toggleMark(yield, &p.inl.code, "code")
		case 2:
			p.inl.doubleCode = true
			p.inl.doubleCodeBuf = nil
			return true
		}
	}
	return true
}

func (p *Parser) toggleItalic(yield func(Event) bool) bool {
	return p.toggleMark(yield, &p.inl.italic, "em")
}

func (p *Parser) toggleBold(yield func(Event) bool) bool {
	return p.toggleMark(yield, &p.inl.bold, "strong")
}

func (p *Parser) toggleMark(yield func(Event) bool, open *bool, name string) bool {
	if *open {
		*open = false
		return p.popOpen(yield, name, false)
	}
	*open = true
	p.pushOpen(name, false)
	return emit(yield, NewMark(name, false, nil))
}

// consumeInlineByte routes a single byte through the inline grammar:
// escapes, the double-backtick code span, link/image/autolink
// collection, immediate togglers, and the marker run buffer.
func (p *Parser) consumeInlineByte(c byte, yield func(Event) bool) bool {
	if p.inl.escapeNext {
		p.inl.escapeNext = false
		return emit(yield, NewText(string(c)))
	}

	if p.inl.code && p.inl.runLen == 0 {
		if c == '`' {
			p.inl.code = false
			return p.popOpen(yield, "code", false)
		}
		return emit(yield, NewText(string(c)))
	}

	if p.inl.doubleCode {
		return p.consumeDoubleCodeByte(c, yield)
	}

	if p.inl.link != collectNone {
		return p.consumeLinkByte(c, yield)
	}
	if p.inl.img != collectNone {
		return p.consumeImageByte(c, yield)
	}
	if p.inl.bangPending {
		p.inl.bangPending = false
		if c == '[' {
			p.inl.img = collectText
			p.inl.imgAlt = nil
			return true
		}
		if !emit(yield, NewText("!")) {
			return false
		}
		return p.consumeInlineByte(c, yield)
	}
	if p.inl.autolinkActive {
		return p.consumeAutolinkByte(c, yield)
	}

	if p.inl.runLen > 0 {
		if c == p.inl.runChar && p.inl.runLen < runMax(c) {
			p.inl.runLen++
			if p.inl.runLen == runMax(c) {
				return p.resolveRun(yield)
			}
			return true
		}
		if !p.resolveRun(yield) {
			return false
		}
		return p.consumeInlineByte(c, yield)
	}

	switch c {
	case '*', '_', '~', '=', '`':
		p.inl.runChar = c
		p.inl.runLen = 1
		return true
	case '^':
		return p.toggleMark(yield, &p.inl.sup, "sup")
	case '$':
		return p.toggleMark(yield, &p.inl.math, "math")
	case '\\':
		p.inl.escapeNext = true
		return true
	case '[':
		p.inl.link = collectText
		p.inl.linkText = nil
		return true
	case '!':
		p.inl.bangPending = true
		return true
	case '<':
		p.inl.autolinkActive = true
		p.inl.autolinkBuf = nil
		return true
	default:
		return emit(yield, NewText(string(c)))
	}
}

func (p *Parser) consumeDoubleCodeByte(c byte, yield func(Event) bool) bool {
	if p.inl.doubleCodePend {
		p.inl.doubleCodePend = false
		if c == '`' {
			p.inl.doubleCode = false
			content := string(p.inl.doubleCodeBuf)
			p.inl.doubleCodeBuf = nil
			if len(content) >= 2 && content[0] == ' ' && content[len(content)-1] == ' ' {
				content = content[1 : len(content)-1]
			}
			p.pushOpen("code", false)
			if !emit(yield, NewMark("code", false, nil)) {
				return false
			}
			if content != "" && !emit(yield, NewText(content)) {
				return false
			}
			return p.popOpen(yield, "code", false)
		}
		p.inl.doubleCodeBuf = append(p.inl.doubleCodeBuf, '`', c)
		return true
	}
	if c == '`' {
		p.inl.doubleCodePend = true
		return true
	}
	p.inl.doubleCodeBuf = append(p.inl.doubleCodeBuf, c)
	return true
}

func (p *Parser) consumeLinkByte(c byte, yield func(Event) bool) bool {
	switch p.inl.link {
	case collectText:
		if c == ']' {
			p.inl.link = collectAwaitParen
			return true
		}
		p.inl.linkText = append(p.inl.linkText, c)
		return true
	case collectAwaitParen:
		if c == '(' {
			p.inl.link = collectURL
			p.inl.linkURL = nil
			return true
		}
		text := "[" + string(p.inl.linkText) + "]"
		p.inl.link = collectNone
		if !emit(yield, NewText(text)) {
			return false
		}
		return p.consumeInlineByte(c, yield)
	case collectURL:
		if c == ')' {
			p.inl.link = collectNone
			href, title := splitURLTitle(string(p.inl.linkURL))
			attrs := NewAttributes()
			attrs.Set("href", href)
			if title != "" {
				attrs.Set("title", title)
			}
			p.pushOpen("a", false)
			if !emit(yield, NewMark("a", false, attrs)) {
				return false
			}
			if len(p.inl.linkText) > 0 && !emit(yield, NewText(string(p.inl.linkText))) {
				return false
			}
			return p.popOpen(yield, "a", false)
		}
		p.inl.linkURL = append(p.inl.linkURL, c)
		return true
	}
	return true
}

func (p *Parser) consumeImageByte(c byte, yield func(Event) bool) bool {
	switch p.inl.img {
	case collectText:
		if c == ']' {
			p.inl.img = collectAwaitParen
			return true
		}
		p.inl.imgAlt = append(p.inl.imgAlt, c)
		return true
	case collectAwaitParen:
		if c == '(' {
			p.inl.img = collectURL
			p.inl.imgURL = nil
			return true
		}
		text := "![" + string(p.inl.imgAlt) + "]"
		p.inl.img = collectNone
		if !emit(yield, NewText(text)) {
			return false
		}
		return p.consumeInlineByte(c, yield)
	case collectURL:
		if c == ')' {
			p.inl.img = collectNone
			attrs := NewAttributes()
			attrs.Set("src", string(p.inl.imgURL))
			attrs.Set("alt", string(p.inl.imgAlt))
			p.pushOpen("img", false)
			if !emit(yield, NewMark("img", false, attrs)) {
				return false
			}
			return p.popOpen(yield, "img", false)
		}
		p.inl.imgURL = append(p.inl.imgURL, c)
		return true
	}
	return true
}

func (p *Parser) consumeAutolinkByte(c byte, yield func(Event) bool) bool {
	if c == '>' {
		p.inl.autolinkActive = false
		content := string(p.inl.autolinkBuf)
		p.inl.autolinkBuf = nil
		var href string
		switch {
		case strings.Contains(content, "://"):
			href = content
		case strings.Contains(content, "@"):
			href = "mailto:" + content
		default:
			return emit(yield, NewText("<"+content+">"))
		}
		attrs := NewAttributes()
		attrs.Set("href", href)
		p.pushOpen("a", false)
		if !emit(yield, NewMark("a", false, attrs)) {
			return false
		}
		if !emit(yield, NewText(content)) {
			return false
		}
		return p.popOpen(yield, "a", false)
	}
	if c == ' ' || c == '\t' || c == '\n' || c == '<' {
		p.inl.autolinkActive = false
		content := string(p.inl.autolinkBuf)
		p.inl.autolinkBuf = nil
		if !emit(yield, NewText("<"+content)) {
			return false
		}
		return p.consumeInlineByte(c, yield)
	}
	p.inl.autolinkBuf = append(p.inl.autolinkBuf, c)
	return true
}

func splitURLTitle(s string) (href, title string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	href = s[:i]
	title = strings.Trim(s[i+1:], `" `)
	return href, title
}

// flushPendingInline emits literal text for any as-yet-unresolved
// inline collection (a marker run, a code span, a link/image/autolink
// opener) at block end, per spec.md section 7's recovery rules:
// unterminated formatting auto-closes, an abandoned "[text](" flushes
// its buffered text, and an unterminated "<foo" flushes literally.
func (p *Parser) flushPendingInline(yield func(Event) bool) bool {
	if p.inl.runLen > 0 {
		if !p.resolveRun(yield) {
			return false
		}
	}
	if p.inl.doubleCode {
		p.inl.doubleCode = false
		buf := p.inl.doubleCodeBuf
		p.inl.doubleCodeBuf = nil
		if p.inl.doubleCodePend {
			p.inl.doubleCodePend = false
			buf = append(buf, '`')
		}
		if len(buf) > 0 && !emit(yield, NewText(string(buf))) {
			return false
		}
	}
	switch p.inl.link {
	case collectText:
		p.inl.link = collectNone
		if !emit(yield, NewText("["+string(p.inl.linkText))) {
			return false
		}
	case collectAwaitParen:
		p.inl.link = collectNone
		if !emit(yield, NewText("["+string(p.inl.linkText)+"]")) {
			return false
		}
	case collectURL:
		p.inl.link = collectNone
		if !emit(yield, NewText("["+string(p.inl.linkText)+"]("+string(p.inl.linkURL))) {
			return false
		}
	}
	switch p.inl.img {
	case collectText:
		p.inl.img = collectNone
		if !emit(yield, NewText("!["+string(p.inl.imgAlt))) {
			return false
		}
	case collectAwaitParen:
		p.inl.img = collectNone
		if !emit(yield, NewText("!["+string(p.inl.imgAlt)+"]")) {
			return false
		}
	case collectURL:
		p.inl.img = collectNone
		if !emit(yield, NewText("!["+string(p.inl.imgAlt)+"]("+string(p.inl.imgURL))) {
			return false
		}
	}
	if p.inl.bangPending {
		p.inl.bangPending = false
		if !emit(yield, NewText("!")) {
			return false
		}
	}
	if p.inl.autolinkActive {
		p.inl.autolinkActive = false
		buf := p.inl.autolinkBuf
		p.inl.autolinkBuf = nil
		if !emit(yield, NewText("<"+string(buf))) {
			return false
		}
	}
	// Auto-close still-open inline formatting, innermost first.
	toggles := map[string]*bool{"strong": &p.inl.bold, "em": &p.inl.italic, "code": &p.inl.code,
		"sup": &p.inl.sup, "sub": &p.inl.sub, "del": &p.inl.strike, "mark": &p.inl.highlight, "math": &p.inl.math}
	for len(p.openStack) > 0 {
		top := p.openStack[len(p.openStack)-1]
		open := toggles[top.name]
		if top.isTag || open == nil || !*open {
			break
		}
		*open = false
		p.openStack = p.openStack[:len(p.openStack)-1]
		if !emit(yield, NewUnmark(top.name, false)) {
			return false
		}
	}
	return true
}

// fastPathRun returns the length of the longest prefix of s that can
// be emitted verbatim as a single Text event without any character in
// it being able to alter parser state, per spec.md section 4.2's fast
// path. It returns 0 when no bytes qualify (the caller falls back to
// per-byte processing).
func (p *Parser) fastPathRun(s string) int {
	if p.inl.escapeNext || p.inl.runLen > 0 {
		return 0
	}
	// A pending continuation-line lookahead (paragraph/list/blockquote/
	// table) buffers bytes in p.line and decides block-boundary
	// bookkeeping one byte at a time; p.blk.kind doesn't change while
	// that's in progress, so it can't be used alone to tell the fast
	// path it's safe to skip consumeByte.
	if p.inContCheck {
		return 0
	}
	switch p.blk.kind {
	case blockParagraph, blockHeading, blockUnorderedList, blockOrderedList,
		blockBlockquote, blockBlockquoteList:
		// fall through to the inline-substate-aware scan below
	case blockCustomMarkup:
		// Only the body-scanning phase is fast-pathable: phase 0
		// (attribute text) and phase 1 (the single newline after '>')
		// must go through consumeCustomMarkupByte, and a sentinel match
		// or held-back newline already in progress inside the body
		// must finish byte by byte rather than being overrun.
		if p.custom.phase != 2 || p.custom.matchLen > 0 || p.custom.pendingNL {
			return 0
		}
		return scanUntilAny(s, "<\n")
	default:
		return 0
	}
	if p.inl.doubleCode || p.inl.link != collectNone || p.inl.img != collectNone ||
		p.inl.bangPending || p.inl.autolinkActive {
		return 0
	}
	if p.inl.code {
		return scanUntilAny(s, "`\n")
	}
	return scanUntilAny(s, "*_~=`^$\\[!<\n")
}

// scanUntilAny returns the length of the prefix of s containing none
// of the bytes in controls.
func scanUntilAny(s, controls string) int {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(controls, s[i]) >= 0 {
			return i
		}
	}
	return len(s)
}
