package config

import (
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/samber/lo"
)

// File is the optional TOML settings file. Flags and environment variables
// take precedence over values set here.
type File struct {
	Port       string                      `toml:"port"`
	APIURL     string                      `toml:"api_url"`
	Token      string                      `toml:"token"`
	Notice     string                      `toml:"notice"`
	RateLimit  int                         `toml:"rate_limit"`
	SessionTTL time.Duration               `toml:"session_ttl"`
	Platforms  map[string]PlatformOverride `toml:"platforms"`
}

// PlatformOverride patches or adds one platform of the global configuration.
// Unset fields keep the backend's value.
type PlatformOverride struct {
	Name       *string           `toml:"name"`
	HasTarget  *bool             `toml:"has_target"`
	EnabledTag *bool             `toml:"enabled_tag"`
	Categories map[string]string `toml:"categories"`
	TargetHint string            `toml:"target_hint"`
}

// Load reads a settings file. An empty path yields an empty File.
func Load(path string) (*File, error) {
	f := &File{}
	if path == "" {
		return f, nil
	}

	md, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}

	for key, o := range f.Platforms {
		if _, err := o.categories(); err != nil {
			return nil, fmt.Errorf("platform %s: %w", key, err)
		}
	}
	return f, nil
}

func (o PlatformOverride) categories() (model.CategoryConfig, error) {
	if o.Categories == nil {
		return nil, nil
	}
	cats := make(model.CategoryConfig, len(o.Categories))
	for rawID, label := range o.Categories {
		id, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil {
			return nil, fmt.Errorf("category id %q is not an integer", rawID)
		}
		cats[id] = label
	}
	return cats, nil
}

// ApplyPlatforms merges the file's platform overrides into platforms and returns
// the result. The input map is not modified.
func (f *File) ApplyPlatforms(platforms map[string]model.PlatformConfig) map[string]model.PlatformConfig {
	merged := maps.Clone(platforms)
	if merged == nil {
		merged = make(map[string]model.PlatformConfig)
	}

	for key, o := range f.Platforms {
		p, ok := merged[key]
		if !ok {
			p = model.PlatformConfig{Name: key, PlatformName: key}
		}
		if o.Name != nil {
			p.Name = *o.Name
		}
		if o.HasTarget != nil {
			p.HasTarget = *o.HasTarget
		}
		if o.EnabledTag != nil {
			p.EnabledTag = *o.EnabledTag
		}
		if cats, _ := o.categories(); cats != nil {
			p.Categories = cats
		}
		if o.TargetHint != "" {
			p.TargetHint = o.TargetHint
		}
		merged[key] = p
	}

	if len(f.Platforms) > 0 {
		slog.Debug("applied platform overrides", "platforms", lo.Keys(f.Platforms))
	}
	return merged
}
