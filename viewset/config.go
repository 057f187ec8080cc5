package viewset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultIcon 未配置 menu_icon 时使用的图标
const DefaultIcon = "table"

// DefaultListPerPage 列表默认每页数量
const DefaultListPerPage = 20

// Config 视图集配置。零值字段表示未设置，由下一层补齐
type Config struct {
	Name           string `yaml:"name" json:"name,omitempty"`
	URLPrefix      string `yaml:"url_prefix" json:"url_prefix,omitempty"`
	MenuLabel      string `yaml:"menu_label" json:"menu_label,omitempty"`
	MenuIcon       string `yaml:"menu_icon" json:"menu_icon,omitempty"`
	MenuName       string `yaml:"menu_name" json:"menu_name,omitempty"`
	MenuOrder      int    `yaml:"menu_order" json:"menu_order,omitempty"`
	AddToAdminMenu *bool  `yaml:"add_to_admin_menu" json:"add_to_admin_menu,omitempty"`

	TemplatePrefix           string `yaml:"template_prefix" json:"template_prefix,omitempty"`
	IndexTemplateName        string `yaml:"index_template_name" json:"index_template_name,omitempty"`
	IndexResultsTemplateName string `yaml:"index_results_template_name" json:"index_results_template_name,omitempty"`
	CreateTemplateName       string `yaml:"create_template_name" json:"create_template_name,omitempty"`
	EditTemplateName         string `yaml:"edit_template_name" json:"edit_template_name,omitempty"`
	DeleteTemplateName       string `yaml:"delete_template_name" json:"delete_template_name,omitempty"`

	ListPerPage    int      `yaml:"list_per_page" json:"list_per_page,omitempty"`
	ListExport     []string `yaml:"list_export" json:"list_export,omitempty"`
	ExportFilename string   `yaml:"export_filename" json:"export_filename,omitempty"`
}

// Merge 逐字段合并：c 中已设置的值优先，未设置的取 fallback
func (c Config) Merge(fallback Config) Config {
	out := c
	pick := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	pick(&out.Name, fallback.Name)
	pick(&out.URLPrefix, fallback.URLPrefix)
	pick(&out.MenuLabel, fallback.MenuLabel)
	pick(&out.MenuIcon, fallback.MenuIcon)
	pick(&out.MenuName, fallback.MenuName)
	pick(&out.TemplatePrefix, fallback.TemplatePrefix)
	pick(&out.IndexTemplateName, fallback.IndexTemplateName)
	pick(&out.IndexResultsTemplateName, fallback.IndexResultsTemplateName)
	pick(&out.CreateTemplateName, fallback.CreateTemplateName)
	pick(&out.EditTemplateName, fallback.EditTemplateName)
	pick(&out.DeleteTemplateName, fallback.DeleteTemplateName)
	pick(&out.ExportFilename, fallback.ExportFilename)
	if out.MenuOrder == 0 {
		out.MenuOrder = fallback.MenuOrder
	}
	if out.AddToAdminMenu == nil {
		out.AddToAdminMenu = fallback.AddToAdminMenu
	}
	if out.ListPerPage <= 0 {
		out.ListPerPage = fallback.ListPerPage
	}
	if len(out.ListExport) == 0 {
		out.ListExport = fallback.ListExport
	}
	return out
}

// TemplateName 指定视图的显式模板名，未设置返回空串
func (c Config) TemplateName(kind ViewKind) string {
	switch kind {
	case Index:
		return c.IndexTemplateName
	case IndexResults:
		return c.IndexResultsTemplateName
	case Add:
		return c.CreateTemplateName
	case Edit:
		return c.EditTemplateName
	case Delete:
		return c.DeleteTemplateName
	}
	return ""
}

// InMenu 是否出现在后台菜单中，默认出现
func (c Config) InMenu() bool {
	return c.AddToAdminMenu == nil || *c.AddToAdminMenu
}

// PerPage 每页数量
func (c Config) PerPage() int {
	if c.ListPerPage > 0 {
		return c.ListPerPage
	}
	return DefaultListPerPage
}

// Overrides 按视图集 key 索引的实例级配置
type Overrides map[string]Config

// LoadOverrides 从 YAML 读取实例级配置
func LoadOverrides(r io.Reader) (Overrides, error) {
	out := Overrides{}
	if err := yaml.NewDecoder(r).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		return nil, fmt.Errorf("解析视图集覆盖配置失败: %w", err)
	}
	return out, nil
}

// LoadOverridesFile 读取覆盖配置文件，path 为空时返回空配置
func LoadOverridesFile(path string) (Overrides, error) {
	if strings.TrimSpace(path) == "" {
		return Overrides{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开视图集覆盖配置失败: %w", err)
	}
	defer f.Close()
	return LoadOverrides(f)
}
