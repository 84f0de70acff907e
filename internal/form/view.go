package form

import (
	"slices"

	"github.com/samber/lo"
)

// PlatformOption is one entry of the platform select.
type PlatformOption struct {
	Key      string
	Name     string
	Selected bool
}

// CategoryOption is one entry of the category multi-select.
type CategoryOption struct {
	ID       int
	Label    string
	Selected bool
}

// View is an immutable snapshot of a form used for rendering.
type View struct {
	Group string
	State State

	Platforms   []PlatformOption
	Platform    string
	PlatformErr string

	Target            string
	TargetName        string
	TargetStatus      TargetStatus
	TargetErr         string
	TargetDisabled    bool
	TargetPlaceholder string
	TargetHint        string

	Categories          []CategoryOption
	CategoriesDisabled  bool
	CategoryPlaceholder string

	Tags         []string
	AllTags      bool
	TagsDisabled bool

	Loading bool
	FormErr string
}

// Open reports whether the modal should be shown.
func (v View) Open() bool {
	return v.State == StateOpen || v.State == StateSubmitting
}

// HasErrors reports whether any field carries a validation message.
func (v View) HasErrors() bool {
	return v.PlatformErr != "" || v.TargetErr != "" || v.FormErr != ""
}

// view builds the snapshot. Caller holds f.mu.
func (f *Form) view() View {
	platforms := lo.Map(f.conf.PlatformKeys(), func(key string, _ int) PlatformOption {
		p, _ := f.conf.Platform(key)
		return PlatformOption{Key: key, Name: p.Name, Selected: key == f.platformKey}
	})

	v := View{
		Group:       f.group,
		State:       f.state,
		Platforms:   platforms,
		Platform:    f.platformKey,
		PlatformErr: f.platformErr,

		Target:         f.target,
		TargetName:     f.targetName,
		TargetStatus:   f.targetStatus,
		TargetErr:      f.targetErr,
		TargetDisabled: !f.platform.HasTarget,
		TargetHint:     f.platform.TargetHint,

		CategoriesDisabled: !f.platform.HasCategories(),

		Tags:         slices.Clone(f.tagValues),
		AllTags:      len(f.tagValues) == 0,
		TagsDisabled: f.platformKey != "" && !f.platform.EnabledTag,

		Loading: f.state == StateSubmitting,
		FormErr: f.formErr,
	}

	switch {
	case f.platformKey == "":
		v.TargetPlaceholder = PlaceholderChoosePlatform
	case f.platform.HasTarget:
		v.TargetPlaceholder = PlaceholderTarget
	default:
		v.TargetPlaceholder = PlaceholderNoTarget
	}

	if f.platform.HasCategories() {
		v.CategoryPlaceholder = PlaceholderCategories
		v.Categories = lo.Map(f.platform.Categories.IDs(), func(id int, _ int) CategoryOption {
			return CategoryOption{
				ID:       id,
				Label:    f.platform.Categories[id],
				Selected: slices.Contains(f.categories, id),
			}
		})
	} else {
		v.CategoryPlaceholder = PlaceholderNoCategories
	}

	return v
}
