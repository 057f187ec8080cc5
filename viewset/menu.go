package viewset

import (
	"sort"
	"strings"
)

// DefaultGroupIcon 菜单分组默认图标
const DefaultGroupIcon = "folder-open-inverse"

// MenuEntry 后台菜单项
type MenuEntry struct {
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	IconName string      `json:"icon_name"`
	URL      string      `json:"url,omitempty"`
	Order    int         `json:"order"`
	Children []MenuEntry `json:"children,omitempty"`
}

// MenuEntry 视图集的菜单项
// label: menu_label > verbose_name_plural 标题化；icon: menu_icon > DefaultIcon
func (v *ViewSet) MenuEntry() MenuEntry {
	cfg := v.Settings()
	entry := MenuEntry{
		Name:     cfg.MenuName,
		Label:    strings.TrimSpace(cfg.MenuLabel),
		IconName: cfg.MenuIcon,
		URL:      v.URL(Index, ""),
		Order:    cfg.MenuOrder,
	}
	if entry.Name == "" {
		entry.Name = cfg.Name
	}
	if entry.Label == "" {
		entry.Label = TitleCase(v.Model.Plural())
	}
	if entry.IconName == "" {
		entry.IconName = DefaultIcon
	}
	return entry
}

// Group 菜单分组：一个顶级菜单项下挂多个视图集
type Group struct {
	Label string
	Icon  string
	Name  string
	Order int
	Items []*ViewSet
}

// MenuEntry 分组菜单项，子项为各成员视图集
// label 缺省为第一个成员的 app_label 标题化
func (g *Group) MenuEntry() MenuEntry {
	entry := MenuEntry{
		Name:     g.Name,
		Label:    strings.TrimSpace(g.Label),
		IconName: g.Icon,
		Order:    g.Order,
	}
	if entry.Label == "" && len(g.Items) > 0 {
		entry.Label = TitleCase(g.Items[0].Model.AppLabel)
	}
	if entry.Name == "" {
		entry.Name = Slugify(entry.Label)
	}
	if entry.IconName == "" {
		entry.IconName = DefaultGroupIcon
	}
	for _, item := range g.Items {
		if !item.Settings().InMenu() {
			continue
		}
		entry.Children = append(entry.Children, item.MenuEntry())
	}
	sortEntries(entry.Children)
	return entry
}

func sortEntries(entries []MenuEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
}
