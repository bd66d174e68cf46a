package markcore

import (
	"bytes"
	"io"
	"iter"
	"strings"
)

// blockNames is the fixed set of names the renderer lays out one per
// line with two-space indentation, per spec.md section 4.3. Any name
// containing ':' (a custom markup tag) is also treated as a block.
var blockNames = map[string]bool{
	"div": true, "section": true, "article": true, "header": true,
	"footer": true, "nav": true, "aside": true, "main": true,
	"p": true, "pre": true,
	"ul": true, "ol": true, "li": true,
	"dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tfoot": true,
	"tr": true, "th": true, "td": true,
	"blockquote": true, "figure": true, "figcaption": true,
	"details": true, "summary": true, "footnote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

func isBlockName(name string) bool {
	return blockNames[name] || strings.Contains(name, ":")
}

// RenderOption configures a Renderer; see WithIndentWidth and
// WithCompact. The zero value of every option is the spec.md default.
type RenderOption func(*Renderer)

// WithIndentWidth sets the number of spaces per indentation level
// (spec.md section 4.3 default: 2).
func WithIndentWidth(n int) RenderOption {
	return func(r *Renderer) { r.indentUnit = strings.Repeat(" ", n) }
}

// WithCompact renders block elements the way inline elements normally
// render: in place, with no line break or indentation. Text/attribute
// escaping is unaffected. This is an additive rendering mode, not a
// change to spec.md's default behavior.
func WithCompact(compact bool) RenderOption {
	return func(r *Renderer) { r.compact = compact }
}

// Renderer turns an event stream into a pretty-printed, HTML-like
// string with two-space indentation, as described in spec.md section
// 4.3. Use Render for the common case of rendering straight to a
// string; NewRenderer/Write is the streaming form for writing
// directly to an io.Writer.
type Renderer struct {
	w          io.Writer
	indentUnit string
	compact    bool
	depth      int
	preDepth   int

	open []renderFrame

	// atLineStart tracks whether the last byte written was a newline,
	// so breakBeforeChild never doubles one up.
	atLineStart bool

	err error
}

// renderFrame is bookkeeping for one still-open Mark: whether it
// counts as a block (for indentation), whether any child content has
// been written since it opened (a childless mark collapses to
// "<name></name>" on one line per spec.md section 4.3), and whether
// it is a pre element (suspends escaping/indentation of Text).
type renderFrame struct {
	name     string
	block    bool
	hadChild bool
	wasPre   bool
}

// NewRenderer returns a Renderer that writes to w.
func NewRenderer(w io.Writer, opts ...RenderOption) *Renderer {
	r := &Renderer{w: w, atLineStart: true, indentUnit: "  "}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render renders events to a string.
func Render(events iter.Seq[Event], opts ...RenderOption) (string, error) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, opts...)
	for e := range events {
		if !r.Write(e) {
			break
		}
	}
	if err := r.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) writeString(s string) bool {
	if r.err != nil || s == "" {
		return r.err == nil
	}
	if _, err := io.WriteString(r.w, s); err != nil {
		r.err = err
		return false
	}
	r.atLineStart = strings.HasSuffix(s, "\n")
	return true
}

func (r *Renderer) indent() bool {
	if r.depth == 0 {
		return true
	}
	return r.writeString(strings.Repeat(r.indentUnit, r.depth))
}

// breakBeforeChild marks the innermost open frame as having a child
// and, if that frame is a block, ensures we're on a fresh, indented
// line before the child is written — whether the child is Text or a
// nested Mark, and whether or not this is the frame's first child.
func (r *Renderer) breakBeforeChild() bool {
	if len(r.open) == 0 {
		return true
	}
	top := &r.open[len(r.open)-1]
	top.hadChild = true
	if !top.block {
		return true
	}
	if !r.atLineStart {
		if !r.writeString("\n") {
			return false
		}
	}
	return r.indent()
}

// Write renders a single event. It returns false once a write error
// has occurred; the caller should stop feeding events in that case.
func (r *Renderer) Write(e Event) bool {
	if r.err != nil {
		return false
	}
	switch e.Kind {
	case TextEvent:
		return r.writeText(e.Text)
	case MarkEvent:
		return r.writeMark(e)
	case UnmarkEvent:
		return r.writeUnmark(e)
	}
	return true
}

func (r *Renderer) writeText(text string) bool {
	if text == "" {
		return true
	}
	if !r.breakBeforeChild() {
		return false
	}
	if r.preDepth > 0 {
		return r.writeString(text)
	}
	escaped := escapeText(text)
	if !strings.Contains(escaped, "\n") {
		return r.writeString(escaped)
	}
	pad := strings.Repeat(r.indentUnit, r.depth)
	escaped = strings.ReplaceAll(escaped, "\n", "\n"+pad)
	return r.writeString(escaped)
}

func (r *Renderer) writeMark(e Event) bool {
	if !r.breakBeforeChild() {
		return false
	}
	block := !r.compact && isBlockName(e.Name)
	if !r.writeString("<" + e.Name) {
		return false
	}
	if e.Attributes.Len() > 0 {
		ok := true
		e.Attributes.Range(func(k, v string) bool {
			ok = r.writeString(" " + k + `="` + escapeAttr(v) + `"`)
			return ok
		})
		if !ok {
			return false
		}
	}
	if !r.writeString(">") {
		return false
	}
	r.open = append(r.open, renderFrame{name: e.Name, block: block, wasPre: e.Name == "pre"})
	if block {
		r.depth++
	}
	if e.Name == "pre" {
		r.preDepth++
	}
	return true
}

func (r *Renderer) writeUnmark(e Event) bool {
	if len(r.open) == 0 {
		return true
	}
	top := r.open[len(r.open)-1]
	r.open = r.open[:len(r.open)-1]
	if top.wasPre {
		r.preDepth--
	}
	if top.block {
		r.depth--
	}
	if top.hadChild && top.block {
		if !r.atLineStart {
			if !r.writeString("\n") {
				return false
			}
		}
		if !r.indent() {
			return false
		}
	}
	if !r.writeString("</" + top.name + ">") {
		return false
	}
	if top.block {
		return r.writeString("\n")
	}
	return true
}

// Close finalizes the rendered output, trimming the single trailing
// newline spec.md section 4.3 calls for at the very end of the
// document. It only has a trailing newline to trim when the
// underlying writer is one it can inspect (a *bytes.Buffer, as used
// by Render); for a streaming io.Writer the trim is the caller's
// concern since the bytes are already flushed.
func (r *Renderer) Close() error {
	if buf, ok := r.w.(*bytes.Buffer); ok {
		b := buf.Bytes()
		if n := len(b); n > 0 && b[n-1] == '\n' {
			buf.Truncate(n - 1)
		}
	}
	return r.err
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	if !strings.ContainsAny(s, "<>&\"") {
		return s
	}
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
