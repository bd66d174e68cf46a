package required_test

import (
	"testing"

	"github.com/xemantic/markanywhere/internal/markcore"
	"github.com/xemantic/markanywhere/internal/testutil/assert"
	"github.com/xemantic/markanywhere/plugin/required"
)

func TestUnlistedTagIsIgnored(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id"}})
	assert.NoError(t, p.ProcessAttributes("ns:other", markcore.NewAttributes()))
}

func TestMissingKeyFails(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id", "kind"}})
	attrs := markcore.NewAttributes()
	attrs.Set("id", "42")
	err := p.ProcessAttributes("ns:widget", attrs)
	assert.ErrorMatches(t, `required: tag "ns:widget" is missing attribute\(s\): kind`, err)
}

func TestMissingKeysAreSortedAndJoined(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id", "kind", "alt"}})
	err := p.ProcessAttributes("ns:widget", markcore.NewAttributes())
	assert.ErrorMatches(t, `required: tag "ns:widget" is missing attribute\(s\): alt, id, kind`, err)
}

func TestAllKeysPresentSucceeds(t *testing.T) {
	p := required.New(map[string][]string{"ns:widget": {"id"}})
	attrs := markcore.NewAttributes()
	attrs.Set("id", "42")
	assert.NoError(t, p.ProcessAttributes("ns:widget", attrs))
}

func TestName(t *testing.T) {
	p := required.New(nil)
	assert.Equal(t, "required", p.Name())
}
