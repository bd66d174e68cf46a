package option_test

import (
	"testing"

	"github.com/xemantic/markanywhere/internal/testutil/assert"
	"github.com/xemantic/markanywhere/option"
)

func TestDefaults(t *testing.T) {
	cfg := option.NewConfig()
	assert.Equal(t, 2, cfg.GetIndentWidth())
	assert.False(t, cfg.GetProduceTags())
	assert.False(t, cfg.GetCompact())
}

func TestOptionsOverrideDefaults(t *testing.T) {
	cfg := option.NewConfig(
		option.WithIndentWidth(4),
		option.WithProduceTags(true),
		option.WithCompact(true),
	)
	assert.Equal(t, 4, cfg.GetIndentWidth())
	assert.True(t, cfg.GetProduceTags())
	assert.True(t, cfg.GetCompact())
}

func TestApplyMergesIntoExistingConfig(t *testing.T) {
	cfg := option.NewConfig(option.WithIndentWidth(4))
	cfg.Apply(option.WithCompact(true))
	assert.Equal(t, 4, cfg.GetIndentWidth())
	assert.True(t, cfg.GetCompact())
}

func TestCombineOptionsBundlesPresets(t *testing.T) {
	cfg := option.NewConfig(option.Compact)
	assert.True(t, cfg.GetCompact())

	cfg2 := option.NewConfig(option.Pretty)
	assert.Equal(t, 2, cfg2.GetIndentWidth())
	assert.False(t, cfg2.GetCompact())
}

func TestNilConfigReturnsDefaults(t *testing.T) {
	var cfg *option.Config
	assert.Equal(t, 2, cfg.GetIndentWidth())
	assert.False(t, cfg.GetProduceTags())
	assert.False(t, cfg.GetCompact())
}
