package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// CategoryConfig maps a platform's category id to its display label.
type CategoryConfig map[int]string

// IDs returns the category ids in ascending order.
func (c CategoryConfig) IDs() []int {
	ids := lo.Keys(c)
	sort.Ints(ids)
	return ids
}

// PlatformConfig describes one platform's display name and capability flags.
type PlatformConfig struct {
	Name         string         `json:"name" toml:"name"`
	PlatformName string         `json:"platformName,omitempty" toml:"platform_name"`
	HasTarget    bool           `json:"hasTarget" toml:"has_target"`
	EnabledTag   bool           `json:"enabledTag" toml:"enabled_tag"`
	Categories   CategoryConfig `json:"categories" toml:"-"`
	TargetHint   string         `json:"-" toml:"target_hint"` // markdown shown under the target input
}

// HasCategories reports whether the platform defines at least one category.
func (p PlatformConfig) HasCategories() bool {
	return len(p.Categories) > 0
}

// SubscribeConfig is one subscription record.
type SubscribeConfig struct {
	TargetType string   `json:"targetType"`
	Target     string   `json:"target"`
	TargetName string   `json:"targetName"`
	Cats       []int    `json:"cats"`
	Tags       []string `json:"tags"`
}

// SubscribeGroup is a group (e.g. a chat group) with its subscriptions.
type SubscribeGroup struct {
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Subscribes []SubscribeConfig `json:"subscribes"`
}

// SubscribeResp is the full grouped subscription list, in the order the backend sent it.
type SubscribeResp []SubscribeGroup

// UnmarshalJSON decodes the backend's {"groupKey": {"name", "subscribes"}} object
// while keeping the key order of the document.
func (r *SubscribeResp) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read subscribe response: %w", err)
	}
	if tok == nil {
		*r = SubscribeResp{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("subscribe response must be an object, got %v", tok)
	}

	groups := SubscribeResp{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("read group key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("group key must be a string, got %v", keyTok)
		}

		var body struct {
			Name       string            `json:"name"`
			Subscribes []SubscribeConfig `json:"subscribes"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("decode group %s: %w", key, err)
		}
		groups = append(groups, SubscribeGroup{
			Key:        key,
			Name:       body.Name,
			Subscribes: body.Subscribes,
		})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("read end of subscribe response: %w", err)
	}

	*r = groups
	return nil
}

// Group returns the group with the given key.
func (r SubscribeResp) Group(key string) (SubscribeGroup, bool) {
	return lo.Find(r, func(g SubscribeGroup) bool {
		return g.Key == key
	})
}

// LoginType is the role of a logged-in operator.
type LoginType string

const (
	LoginAdmin LoginType = "admin"
	LoginUser  LoginType = "user"
)

// LoginInfo is the identity returned by the backend's auth exchange.
type LoginInfo struct {
	Type  LoginType `json:"type"`
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Token string    `json:"token"`
}

// IsAdmin reports whether the operator may see admin-only views.
func (l LoginInfo) IsAdmin() bool {
	return l.Type == LoginAdmin
}

// AddSubscribeReq is the body of the create-subscription request.
type AddSubscribeReq struct {
	PlatformName string   `json:"platformName"`
	Target       string   `json:"target"`
	TargetName   string   `json:"targetName"`
	Categories   []int    `json:"categories"`
	Tags         []string `json:"tags"`
}
