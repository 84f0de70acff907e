package model

import (
	"maps"
	"sort"

	"github.com/samber/lo"
)

// GlobalConf is the read-only platform configuration shared by every component.
// It is built once at startup and passed by pointer; nothing mutates it afterwards.
type GlobalConf struct {
	platforms map[string]PlatformConfig
}

// NewGlobalConf copies platforms into a new immutable configuration.
func NewGlobalConf(platforms map[string]PlatformConfig) *GlobalConf {
	copied := make(map[string]PlatformConfig, len(platforms))
	for key, p := range platforms {
		p.Categories = maps.Clone(p.Categories)
		if p.Categories == nil {
			p.Categories = CategoryConfig{}
		}
		copied[key] = p
	}
	return &GlobalConf{platforms: copied}
}

// Platform returns the configuration for a platform key.
func (g *GlobalConf) Platform(key string) (PlatformConfig, bool) {
	p, ok := g.platforms[key]
	if !ok {
		return PlatformConfig{}, false
	}
	p.Categories = maps.Clone(p.Categories)
	return p, true
}

// PlatformKeys returns all platform keys sorted alphabetically.
func (g *GlobalConf) PlatformKeys() []string {
	keys := lo.Keys(g.platforms)
	sort.Strings(keys)
	return keys
}

// Len returns the number of configured platforms.
func (g *GlobalConf) Len() int {
	return len(g.platforms)
}
