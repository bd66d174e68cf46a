package markcore

// beginCustomMarkupAttrs starts the attribute-scanning phase of a
// custom markup tag once its name and the confirming ':' have been
// seen. The raw attribute text is buffered until the closing '>' of
// the opening tag, since it has no internal ambiguity worth resolving
// byte by byte.
func (p *Parser) beginCustomMarkupAttrs(yield func(Event) bool) bool {
	p.custom = customState{phase: 0}
	return true
}

// consumeCustomMarkupByte drives the three phases of a custom markup
// block: scanning the opening tag's attributes, consuming the single
// newline that immediately follows '>', and then scanning the body
// for the "</tag>" closing sentinel one byte at a time so the body's
// literal text can be streamed out as soon as it's known not to be
// part of the closer.
func (p *Parser) consumeCustomMarkupByte(c byte, yield func(Event) bool) bool {
	switch p.custom.phase {
	case 0:
		if c == '>' {
			attrs := parseAttrString(string(p.custom.buf))
			p.custom.buf = nil
			p.custom.phase = 1
			p.pushOpen(p.blk.customTag, true)
			return emit(yield, NewMark(p.blk.customTag, true, attrs))
		}
		p.custom.buf = append(p.custom.buf, c)
		return true
	case 1:
		p.custom.phase = 2
		p.custom.sentinel = "</" + p.blk.customTag + ">"
		p.custom.matchLen = 0
		p.custom.matchBuf = nil
		p.custom.pendingNL = false
		if c == '\n' {
			return true
		}
		return p.consumeCustomBodyByte(c, yield)
	default:
		return p.consumeCustomBodyByte(c, yield)
	}
}

func (p *Parser) consumeCustomBodyByte(c byte, yield func(Event) bool) bool {
	cs := &p.custom
	if cs.matchLen > 0 {
		if c == cs.sentinel[cs.matchLen] {
			cs.matchBuf = append(cs.matchBuf, c)
			cs.matchLen++
			if cs.matchLen == len(cs.sentinel) {
				cs.matchLen = 0
				cs.matchBuf = nil
				cs.pendingNL = false
				p.blk.kind = blockStart
				tag := p.blk.customTag
				p.blk = block{kind: blockStart}
				return p.popOpen(yield, tag, true)
			}
			return true
		}
		// speculative match broke: flush what was held back, then
		// reprocess c fresh.
		pending := cs.pendingNL
		buf := cs.matchBuf
		cs.matchBuf = nil
		cs.matchLen = 0
		cs.pendingNL = false
		if pending && !emit(yield, NewText("\n")) {
			return false
		}
		if len(buf) > 0 && !emit(yield, NewText(string(buf))) {
			return false
		}
		return p.consumeCustomBodyByte(c, yield)
	}

	if c == '\n' {
		if cs.pendingNL {
			if !emit(yield, NewText("\n")) {
				return false
			}
		}
		cs.pendingNL = true
		return true
	}
	if c == cs.sentinel[0] {
		cs.matchBuf = append(cs.matchBuf, c)
		cs.matchLen = 1
		return true
	}
	if cs.pendingNL {
		cs.pendingNL = false
		if !emit(yield, NewText("\n")) {
			return false
		}
	}
	return emit(yield, NewText(string(c)))
}

// finalizeCustomMarkup flushes whatever the custom markup scanner was
// holding back when the input ended, and lets the general
// closeCurrentBlock auto-close the tag itself.
func (p *Parser) finalizeCustomMarkup(yield func(Event) bool) bool {
	switch p.custom.phase {
	case 0:
		attrs := parseAttrString(string(p.custom.buf))
		p.custom.buf = nil
		p.pushOpen(p.blk.customTag, true)
		return emit(yield, NewMark(p.blk.customTag, true, attrs))
	case 1:
		return true
	default:
		cs := &p.custom
		if cs.pendingNL && !emit(yield, NewText("\n")) {
			return false
		}
		if len(cs.matchBuf) > 0 && !emit(yield, NewText(string(cs.matchBuf))) {
			return false
		}
		cs.pendingNL = false
		cs.matchBuf = nil
		cs.matchLen = 0
		return true
	}
}

// parseAttrString parses a raw `key="value" key2="value2"` attribute
// string as found inside a custom markup tag's opening "<name: ...>".
// Malformed fragments are skipped rather than rejected, consistent
// with the parser never failing.
func parseAttrString(s string) *Attributes {
	attrs := NewAttributes()
	i := 0
	for i < len(s) {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
			i++
		}
		start := i
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		if i == start {
			i++
			continue
		}
		key := s[start:i]
		if i >= len(s) || s[i] != '=' {
			continue
		}
		i++ // '='
		if i >= len(s) || s[i] != '"' {
			continue
		}
		i++ // opening quote
		valStart := i
		for i < len(s) && s[i] != '"' {
			i++
		}
		value := s[valStart:i]
		if i < len(s) {
			i++ // closing quote
		}
		attrs.Set(key, value)
	}
	if attrs.Len() == 0 {
		return nil
	}
	return attrs
}
