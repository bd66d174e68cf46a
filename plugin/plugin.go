// Package plugin extends the parser with a hook for validating or
// transforming custom markup tag attributes as they're parsed.
package plugin

import "github.com/xemantic/markanywhere/internal/markcore"

// AttributePlugin processes a custom markup tag's attributes as each
// one is parsed. Registering one is additive: a parser run without a
// plugin behaves exactly as spec.md describes on its own.
//
// ProcessAttributes is called once per Mark event with IsTag true, in
// the order tags are encountered in the source. It may mutate attrs
// in place (add defaults, normalize a value) before the Mark event is
// emitted downstream; for a tag written without attributes attrs is
// nil, so there is nothing to mutate.
type AttributePlugin interface {
	Name() string
	ProcessAttributes(tagName string, attrs *markcore.Attributes) error
}

// Apply runs every plugin in plugins against a single tag Mark, in
// order, stopping at the first error.
func Apply(plugins []AttributePlugin, tagName string, attrs *markcore.Attributes) error {
	for _, p := range plugins {
		if err := p.ProcessAttributes(tagName, attrs); err != nil {
			return err
		}
	}
	return nil
}
