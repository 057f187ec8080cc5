package viewset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	// ErrNotFound 对象不存在
	ErrNotFound = errors.New("对象不存在")
	// ErrNamespaceTaken URL 命名空间已被注册
	ErrNamespaceTaken = errors.New("URL 命名空间已被注册")
	// ErrUnknownRoute 无法反解的路由名
	ErrUnknownRoute = errors.New("未知路由")
)

// Object 可在后台管理的对象，PK 用于构造编辑/删除 URL
type Object interface {
	PK() string
}

// Condition 等值过滤条件
type Condition struct {
	Column string
	Value  any
}

// Query 列表查询参数
type Query struct {
	Conditions []Condition
	OrderBy    string
	Desc       bool
	Limit      int
	Offset     int
}

// Store 视图集的数据访问层
type Store interface {
	Count(ctx context.Context, conds []Condition) (int64, error)
	List(ctx context.Context, q Query) ([]Object, error)
	Get(ctx context.Context, pk string) (Object, error)
	Create(ctx context.Context, values map[string]any) error
	Update(ctx context.Context, obj Object, values map[string]any) error
	Delete(ctx context.Context, obj Object) error
}

// ViewSet 某个模型的一组通用后台视图。
// Defaults 为类型级配置，Config 为实例级配置，后者优先
type ViewSet struct {
	Model    ModelDescriptor
	Defaults Config
	Config   Config

	Columns []Column
	Filters []FilterField
	Fields  []FormField
	Store   Store

	root     string
	settings *Config
}

// Key 注册时用于匹配覆盖配置的键
func (v *ViewSet) Key() string {
	if n := strings.TrimSpace(v.Config.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(v.Defaults.Name); n != "" {
		return n
	}
	return v.Model.ModelName
}

// Settings 合并后的有效配置，Name 和 URLPrefix 已补齐
func (v *ViewSet) Settings() Config {
	if v.settings != nil {
		return *v.settings
	}
	return v.effective()
}

func (v *ViewSet) effective() Config {
	cfg := v.Config.Merge(v.Defaults)
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = v.Model.ModelName
	}
	if strings.TrimSpace(cfg.URLPrefix) == "" {
		cfg.URLPrefix = strings.ReplaceAll(cfg.Name, "_", "-")
	}
	cfg.URLPrefix = strings.Trim(cfg.URLPrefix, "/")
	return cfg
}

// freeze 注册后配置只读
func (v *ViewSet) freeze(root string, override *Config) {
	if override != nil {
		v.Config = override.Merge(v.Config)
	}
	v.root = root
	cfg := v.effective()
	v.settings = &cfg
}

// Namespace URL 命名空间
func (v *ViewSet) Namespace() string {
	return v.Settings().Name
}

// BasePath 视图集根路径，如 /admin/streammodel/
func (v *ViewSet) BasePath() string {
	root := v.root
	if root == "" {
		root = "/admin"
	}
	return path.Join("/", root, v.Settings().URLPrefix) + "/"
}

// URL 构造视图 URL，编辑/删除视图需要 pk
func (v *ViewSet) URL(kind ViewKind, pk string) string {
	base := v.BasePath()
	switch kind {
	case IndexResults:
		return base + "results/"
	case Add:
		return base + "new/"
	case Edit:
		return base + "edit/" + url.PathEscape(pk) + "/"
	case Delete:
		return base + "delete/" + url.PathEscape(pk) + "/"
	default:
		return base
	}
}

// ExportURL 导出地址
func (v *ViewSet) ExportURL(format string) string {
	return v.BasePath() + "export/?export=" + format
}

// Column 按名称查找列
func (v *ViewSet) Column(name string) (Column, bool) {
	for _, c := range v.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Ordering 解析 ordering 参数，只接受可排序列的 sort key，可带 - 前缀表示降序
func (v *ViewSet) Ordering(raw string) (Column, bool, bool) {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	key := strings.TrimPrefix(raw, "-")
	if key == "" {
		return Column{}, false, false
	}
	for _, c := range v.Columns {
		if c.Sortable() && c.SortKey == key {
			return c, desc, true
		}
	}
	return Column{}, false, false
}

// ExportColumns list_export 中声明的列，未声明时为 nil
func (v *ViewSet) ExportColumns() ([]Column, error) {
	names := v.Settings().ListExport
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]Column, 0, len(names))
	for _, name := range names {
		c, ok := v.Column(name)
		if !ok {
			return nil, fmt.Errorf("导出列 %q 未在 %s 中定义", name, v.Namespace())
		}
		out = append(out, c)
	}
	return out, nil
}

// ExportFilename 导出文件名（不含扩展名）
func (v *ViewSet) ExportFilename() string {
	if name := v.Settings().ExportFilename; name != "" {
		return name
	}
	return Slugify(v.Model.Plural())
}
