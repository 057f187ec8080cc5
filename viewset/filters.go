package viewset

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DateLayout 日期过滤与表单使用的格式
const DateLayout = "2006-01-02"

// FilterKind 过滤字段类型
type FilterKind int

const (
	TextFilter FilterKind = iota
	DateFilter
	BoolFilter
)

// FilterField 列表过滤字段
type FilterField struct {
	Name   string
	Label  string
	Column string
	Kind   FilterKind
}

// Header 字段标签，缺省由字段名生成
func (f FilterField) Header() string {
	if f.Label != "" {
		return f.Label
	}
	return HumanizeField(f.Name)
}

func (f FilterField) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

func (f FilterField) parse(raw string) (any, error) {
	switch f.Kind {
	case DateFilter:
		d, err := time.ParseInLocation(DateLayout, raw, time.Local)
		if err != nil {
			return nil, errors.New("Enter a valid date.")
		}
		return d, nil
	case BoolFilter:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("Select a valid choice.")
		}
		return b, nil
	default:
		return raw, nil
	}
}

// FilterValue 单个过滤字段的提交状态
type FilterValue struct {
	Field FilterField
	// Raw 原样回显到输入框的值
	Raw string
	// Submitted 参数是否出现在查询串中（即使为空）
	Submitted bool
	// Applied 值非空且合法，参与过滤
	Applied bool
	Value   any
	Error   string
}

// ID 表单控件 id
func (v FilterValue) ID() string {
	return "id_" + v.Field.Name
}

// Label 字段标签
func (v FilterValue) Label() string {
	return v.Field.Header()
}

// FilterSet 一次请求的过滤状态
type FilterSet struct {
	Values []FilterValue
}

// ParseFilters 解析查询参数。空串等同未提交；非法值不参与过滤，仅回显并记录错误
func ParseFilters(fields []FilterField, query url.Values) FilterSet {
	set := FilterSet{Values: make([]FilterValue, 0, len(fields))}
	for _, f := range fields {
		fv := FilterValue{Field: f}
		if raws, ok := query[f.Name]; ok {
			fv.Submitted = true
			if len(raws) > 0 {
				fv.Raw = raws[0]
			}
		}
		if trimmed := strings.TrimSpace(fv.Raw); trimmed != "" {
			v, err := f.parse(trimmed)
			if err != nil {
				fv.Error = err.Error()
			} else {
				fv.Value = v
				fv.Applied = true
			}
		}
		set.Values = append(set.Values, fv)
	}
	return set
}

// IsFiltering 是否至少有一个过滤条件生效
func (s FilterSet) IsFiltering() bool {
	for _, v := range s.Values {
		if v.Applied {
			return true
		}
	}
	return false
}

// Conditions 生效的过滤条件
func (s FilterSet) Conditions() []Condition {
	var out []Condition
	for _, v := range s.Values {
		if v.Applied {
			out = append(out, Condition{Column: v.Field.column(), Value: v.Value})
		}
	}
	return out
}

// Query 生效条件对应的查询串，用于分页链接
func (s FilterSet) Query() url.Values {
	q := url.Values{}
	for _, v := range s.Values {
		if v.Submitted {
			q.Set(v.Field.Name, v.Raw)
		}
	}
	return q
}

// ResultMessage 列表空状态 / 匹配数提示，无需提示时返回空串
func ResultMessage(plural string, filtering bool, count int64) string {
	if !filtering {
		if count == 0 {
			return fmt.Sprintf("There are no %s to display", plural)
		}
		return ""
	}
	switch count {
	case 0:
		return fmt.Sprintf("No %s match your query", plural)
	case 1:
		return "There is 1 match"
	default:
		return fmt.Sprintf("There are %d matches", count)
	}
}
