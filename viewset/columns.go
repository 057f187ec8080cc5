package viewset

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// ColumnKind 列表列的渲染方式
type ColumnKind int

const (
	TextKind ColumnKind = iota
	BooleanKind
	DateTimeKind
	HTMLKind
)

// DateTimeLayout 日期时间列的显示格式
const DateTimeLayout = "2006-01-02 15:04"

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy
)

func htmlSanitizer() *bluemonday.Policy {
	htmlPolicyOnce.Do(func() {
		htmlPolicy = bluemonday.UGCPolicy()
	})
	return htmlPolicy
}

// Column 列表列定义
type Column struct {
	Name  string
	Label string
	// SortKey 出现在 ordering 参数中的键，为空表示不可排序
	SortKey string
	// OrderBy 排序使用的数据库列，缺省同 Name
	OrderBy    string
	Kind       ColumnKind
	LinkToEdit bool
	Value      func(Object) any
}

// Cell 已格式化的单元格
type Cell struct {
	Kind      string
	Text      string
	Icon      string
	IconClass string
	HTML      string
	URL       string
}

// Header 列标题，缺省由列名生成
func (c Column) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return HumanizeField(c.Name)
}

// Sortable 是否可排序
func (c Column) Sortable() bool {
	return c.SortKey != ""
}

// OrderColumn 排序使用的数据库列
func (c Column) OrderColumn() string {
	if c.OrderBy != "" {
		return c.OrderBy
	}
	return c.Name
}

// SortURL 列标题上的排序链接
func (c Column) SortURL(indexURL string) string {
	if !c.Sortable() {
		return ""
	}
	return indexURL + "?ordering=" + c.SortKey
}

func (c Column) raw(obj Object) any {
	if c.Value == nil || obj == nil {
		return nil
	}
	return c.Value(obj)
}

// Text 单元格纯文本，用于导出
func (c Column) Text(obj Object) string {
	v := c.raw(obj)
	if c.Kind == BooleanKind {
		b, ok := boolValue(v)
		if !ok {
			return ""
		}
		return strconv.FormatBool(b)
	}
	return FormatValue(v)
}

// Cell 渲染单元格，editURL 在 LinkToEdit 时作为链接
func (c Column) Cell(obj Object, editURL string) Cell {
	v := c.raw(obj)
	cell := Cell{Kind: "text"}
	switch c.Kind {
	case BooleanKind:
		cell.Kind = "boolean"
		b, ok := boolValue(v)
		switch {
		case !ok:
			cell.Icon, cell.Text = "help", "None"
		case b:
			cell.Icon, cell.IconClass, cell.Text = "success", "w-text-positive-100", "True"
		default:
			cell.Icon, cell.IconClass, cell.Text = "error", "w-text-critical-100", "False"
		}
	case HTMLKind:
		cell.Kind = "html"
		cell.HTML = htmlSanitizer().Sanitize(FormatValue(v))
	case DateTimeKind:
		cell.Kind = "datetime"
		cell.Text = FormatValue(v)
	default:
		cell.Text = FormatValue(v)
	}
	if c.LinkToEdit {
		cell.URL = editURL
	}
	return cell
}

func boolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case *bool:
		if b == nil {
			return false, false
		}
		return *b, true
	}
	return false, false
}

// FormatValue 把字段值格式化为显示文本，nil 指针为空串
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateTimeLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(DateTimeLayout)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Accessor 把按具体类型取值的函数包装为 Column.Value
func Accessor[T any](get func(*T) any) func(Object) any {
	return func(obj Object) any {
		t, ok := any(obj).(*T)
		if !ok {
			return nil
		}
		return get(t)
	}
}

// BooleanColumn 布尔列，nil 显示为 None
func BooleanColumn(name, label string, value func(Object) any) Column {
	return Column{Name: name, Label: label, Kind: BooleanKind, Value: value}
}

// UpdatedAtColumn 最后更新时间列，可按 _updated_at 排序
func UpdatedAtColumn(value func(Object) any) Column {
	return Column{
		Name:    "_updated_at",
		Label:   "Updated",
		SortKey: "_updated_at",
		OrderBy: "updated_at",
		Kind:    DateTimeKind,
		Value:   value,
	}
}
