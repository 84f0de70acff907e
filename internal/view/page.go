package view

import (
	"log/slog"

	"github.com/mtlprog/bison-admin/internal/model"
	"github.com/samber/lo"
)

// Group is one collapsible section of the config page.
type Group struct {
	Key   string
	Name  string
	Title string
	Cards []Card
}

// ConfigPage is the display model of the subscription list.
type ConfigPage struct {
	Groups  []Group
	Unknown int // cards rendered as unknown-platform placeholders
}

// Empty reports whether the page should show the empty-state placeholder.
func (p ConfigPage) Empty() bool {
	return len(p.Groups) == 0
}

// BuildConfigPage builds one section per group in response order, with one
// card per subscription in original order.
func BuildConfigPage(resp model.SubscribeResp, conf *model.GlobalConf) ConfigPage {
	page := ConfigPage{}
	for _, g := range resp {
		cards := lo.Map(g.Subscribes, func(sub model.SubscribeConfig, _ int) Card {
			return BuildCard(sub, conf)
		})
		for _, c := range cards {
			if c.Unknown {
				page.Unknown++
				slog.Warn("subscription references unknown platform",
					"group", g.Key, "platform", c.Platform, "target", c.Target)
			}
		}
		page.Groups = append(page.Groups, Group{
			Key:   g.Key,
			Name:  g.Name,
			Title: g.Key + " - " + g.Name,
			Cards: cards,
		})
	}
	return page
}
