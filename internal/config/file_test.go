package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bison-admin.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		f, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, &File{}, f)
	})

	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, `
port = "9000"
api_url = "http://bot:8080/bison/api"
notice = "**Maintenance** tonight"
rate_limit = 30
session_ttl = "2h"

[platforms.weibo]
target_hint = "Open the profile and copy the number from the URL"

[platforms.weibo.categories]
1 = "posts"
2 = "reposts"

[platforms.bilibili-live]
name = "Bilibili Live"
has_target = true
enabled_tag = false
`)

		f, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9000", f.Port)
		assert.Equal(t, "http://bot:8080/bison/api", f.APIURL)
		assert.Equal(t, 30, f.RateLimit)
		assert.Equal(t, 2*time.Hour, f.SessionTTL)
		require.Contains(t, f.Platforms, "weibo")
		assert.Equal(t, map[string]string{"1": "posts", "2": "reposts"}, f.Platforms["weibo"].Categories)
		require.Contains(t, f.Platforms, "bilibili-live")
		require.NotNil(t, f.Platforms["bilibili-live"].HasTarget)
		assert.True(t, *f.Platforms["bilibili-live"].HasTarget)
	})

	t.Run("non-integer category id", func(t *testing.T) {
		path := writeConfig(t, `
[platforms.weibo.categories]
posts = "posts"
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "not an integer")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid toml", func(t *testing.T) {
		_, err := Load(writeConfig(t, `port = `))
		assert.Error(t, err)
	})
}

func TestFile_ApplyPlatforms(t *testing.T) {
	name := "Sina Weibo"
	noTags := false
	hasTarget := true

	f := &File{Platforms: map[string]PlatformOverride{
		"weibo": {
			Name:       &name,
			EnabledTag: &noTags,
			Categories: map[string]string{"3": "videos"},
		},
		"rss": {HasTarget: &hasTarget, TargetHint: "Feed URL"},
	}}

	backend := map[string]model.PlatformConfig{
		"weibo": {
			Name: "Weibo", PlatformName: "weibo", HasTarget: true, EnabledTag: true,
			Categories: model.CategoryConfig{1: "posts"},
		},
		"arknights": {Name: "Arknights", PlatformName: "arknights"},
	}

	merged := f.ApplyPlatforms(backend)

	assert.Len(t, merged, 3)
	assert.Equal(t, model.PlatformConfig{
		Name: "Sina Weibo", PlatformName: "weibo", HasTarget: true, EnabledTag: false,
		Categories: model.CategoryConfig{3: "videos"},
	}, merged["weibo"])
	assert.Equal(t, backend["arknights"], merged["arknights"])
	assert.Equal(t, model.PlatformConfig{
		Name: "rss", PlatformName: "rss", HasTarget: true, TargetHint: "Feed URL",
	}, merged["rss"])

	assert.Equal(t, "Weibo", backend["weibo"].Name, "input is not modified")
	assert.NotContains(t, backend, "rss")
}

func TestFile_ApplyPlatformsNilInput(t *testing.T) {
	merged := (&File{}).ApplyPlatforms(nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
