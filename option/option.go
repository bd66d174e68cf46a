// Package option holds the functional options shared by the
// renderer and the event builder.
package option

// Config holds configuration for rendering and event building.
type Config struct {
	indentWidth *int
	produceTags *bool
	compact     *bool
}

const (
	defaultIndentWidth = 2
	defaultProduceTags = false
	defaultCompact     = false
)

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithIndentWidth sets the renderer's number of spaces per
// indentation level (spec default: 2).
func WithIndentWidth(n int) Option {
	return func(c *Config) { c.indentWidth = &n }
}

// WithProduceTags sets the default is_tag value used by a builder
// Scope's unqualified Mark/Unmark/Block primitives.
func WithProduceTags(enable bool) Option {
	return func(c *Config) { c.produceTags = &enable }
}

// WithCompact renders block elements in place, with no line break or
// indentation, the way inline elements normally render.
func WithCompact(enable bool) Option {
	return func(c *Config) { c.compact = &enable }
}

// GetIndentWidth returns the Config's indent width if set, else the default.
func (c *Config) GetIndentWidth() int {
	if c != nil && c.indentWidth != nil {
		return *c.indentWidth
	}
	return defaultIndentWidth
}

// GetProduceTags returns the Config's produceTags if set, else the default.
func (c *Config) GetProduceTags() bool {
	if c != nil && c.produceTags != nil {
		return *c.produceTags
	}
	return defaultProduceTags
}

// GetCompact returns the Config's compact setting if set, else the default.
func (c *Config) GetCompact() bool {
	if c != nil && c.compact != nil {
		return *c.compact
	}
	return defaultCompact
}

// NewConfig creates a new Config with the provided options applied.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{}
	cfg.Apply(opts...)
	return cfg
}

// Apply applies additional options to an existing Config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
}

// CombineOptions combines multiple options into a single Option, so a
// preset bundle like Pretty or Compact can be passed alongside other
// options wherever a single Option is expected.
func CombineOptions(opts ...Option) Option {
	return func(c *Config) {
		c.Apply(opts...)
	}
}

// Pretty is the spec-default rendering: two-space indentation, one
// block element per line.
var Pretty = CombineOptions(WithIndentWidth(2), WithCompact(false))

// Compact renders block elements without the newline-and-indent the
// default renderer uses, for embedding rendered output inline.
var Compact = CombineOptions(WithCompact(true))
