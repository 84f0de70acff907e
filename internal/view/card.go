// Package view turns backend subscription data into display models for the
// config page. Everything here is pure.
package view

import (
	"strconv"

	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/samber/lo"
)

// ChipKind selects the colour and meaning of a chip.
type ChipKind string

const (
	ChipValue       ChipKind = "value"       // a concrete category or tag
	ChipAll         ChipKind = "all"         // empty tag set: no filtering
	ChipUnsupported ChipKind = "unsupported" // platform has no such filter
)

// Indicator labels.
const (
	LabelAllTags             = "all tags"
	LabelUnsupportedCategory = "categories not supported"
	LabelUnsupportedTag      = "tags not supported"
	LabelUnknownPlatform     = "unknown platform"
)

// Chip is one label on a card.
type Chip struct {
	Kind  ChipKind
	Label string
}

// Card is the display model of one subscription.
type Card struct {
	Key        string
	Title      string
	Platform   string
	Target     string
	TargetName string
	Categories []Chip
	Tags       []Chip
	Unknown    bool // subscription references a platform missing from the configuration
}

// BuildCard renders sub against the platform configuration. A subscription
// whose platform is not configured yields a placeholder card with Unknown set.
func BuildCard(sub model.SubscribeConfig, conf *model.GlobalConf) Card {
	card := Card{
		Key:        sub.TargetType + "-" + sub.Target,
		Platform:   sub.TargetType,
		Target:     sub.Target,
		TargetName: sub.TargetName,
	}

	platform, ok := conf.Platform(sub.TargetType)
	if !ok {
		card.Unknown = true
		card.Title = LabelUnknownPlatform + " (" + sub.TargetType + ") - " + sub.TargetName
		return card
	}

	card.Title = platform.Name + " - " + sub.TargetName
	card.Categories = categoryChips(sub.Cats, platform)
	card.Tags = tagChips(sub.Tags, platform)
	return card
}

func categoryChips(cats []int, platform model.PlatformConfig) []Chip {
	if !platform.HasCategories() {
		return []Chip{{Kind: ChipUnsupported, Label: LabelUnsupportedCategory}}
	}
	return lo.Map(cats, func(id int, _ int) Chip {
		label, ok := platform.Categories[id]
		if !ok {
			label = strconv.Itoa(id)
		}
		return Chip{Kind: ChipValue, Label: label}
	})
}

func tagChips(tags []string, platform model.PlatformConfig) []Chip {
	switch {
	case !platform.EnabledTag:
		return []Chip{{Kind: ChipUnsupported, Label: LabelUnsupportedTag}}
	case len(tags) == 0:
		return []Chip{{Kind: ChipAll, Label: LabelAllTags}}
	default:
		return lo.Map(tags, func(tag string, _ int) Chip {
			return Chip{Kind: ChipValue, Label: tag}
		})
	}
}
