// Package required provides an AttributePlugin that enforces a set of
// mandatory attribute keys per custom markup tag name.
package required

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xemantic/markanywhere/internal/markcore"
)

// Plugin rejects a tag that's missing one of its configured required
// attributes. Tags with no entry in Keys are left alone.
type Plugin struct {
	// Keys maps a tag name to the attribute keys it must carry.
	Keys map[string][]string
}

// New returns a Plugin requiring keys[name] attributes on each tag
// named name.
func New(keys map[string][]string) *Plugin {
	return &Plugin{Keys: keys}
}

func (p *Plugin) Name() string { return "required" }

// ProcessAttributes implements plugin.AttributePlugin.
func (p *Plugin) ProcessAttributes(tagName string, attrs *markcore.Attributes) error {
	required, ok := p.Keys[tagName]
	if !ok {
		return nil
	}
	var missing []string
	for _, k := range required {
		if _, ok := attrs.Get(k); !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("required: tag %q is missing attribute(s): %s", tagName, strings.Join(missing, ", "))
}
