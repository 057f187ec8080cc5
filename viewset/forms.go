package viewset

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FieldKind 表单字段类型
type FieldKind int

const (
	TextField FieldKind = iota
	TextAreaField
	DateField
	NullBoolField
	JSONField
)

// FormField 新增/编辑表单字段
type FormField struct {
	Name     string
	Label    string
	Column   string
	Kind     FieldKind
	Required bool
	Value    func(Object) any
}

// Header 字段标签
func (f FormField) Header() string {
	if f.Label != "" {
		return f.Label
	}
	return HumanizeField(f.Name)
}

func (f FormField) column() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Widget 模板中使用的控件类型
func (f FormField) Widget() string {
	switch f.Kind {
	case TextAreaField, JSONField:
		return "textarea"
	case DateField:
		return "date"
	case NullBoolField:
		return "nullbool"
	default:
		return "text"
	}
}

func (f FormField) initial(obj Object) string {
	if obj == nil || f.Value == nil {
		return ""
	}
	v := f.Value(obj)
	switch f.Kind {
	case DateField:
		switch t := v.(type) {
		case time.Time:
			if !t.IsZero() {
				return t.Format(DateLayout)
			}
		case *time.Time:
			if t != nil && !t.IsZero() {
				return t.Format(DateLayout)
			}
		}
		return ""
	case NullBoolField:
		if b, ok := boolValue(v); ok {
			return strconv.FormatBool(b)
		}
		return ""
	}
	return FormatValue(v)
}

// clean 校验并转换提交值，空值返回 nil
func (f FormField) clean(raw string) (any, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if f.Required {
			return nil, "This field is required."
		}
		if f.Kind == TextField || f.Kind == TextAreaField {
			return "", ""
		}
		return nil, ""
	}
	switch f.Kind {
	case DateField:
		d, err := time.ParseInLocation(DateLayout, trimmed, time.Local)
		if err != nil {
			return nil, "Enter a valid date."
		}
		return d, ""
	case NullBoolField:
		b, err := strconv.ParseBool(trimmed)
		if err != nil {
			return nil, "Select a valid choice."
		}
		return b, ""
	case JSONField:
		if !json.Valid([]byte(trimmed)) {
			return nil, "Enter a valid JSON."
		}
		return trimmed, ""
	case TextField:
		return trimmed, ""
	}
	return raw, ""
}

// BoundField 绑定了值的表单字段
type BoundField struct {
	Field FormField
	Value string
	Error string
}

// ID 控件 id
func (b BoundField) ID() string {
	return "id_" + b.Field.Name
}

// Form 新增/编辑表单
type Form struct {
	Fields []BoundField
	values map[string]any
	valid  bool
}

// NewForm 以对象当前值构造表单，obj 为 nil 时为空表单
func NewForm(fields []FormField, obj Object) Form {
	form := Form{Fields: make([]BoundField, 0, len(fields))}
	for _, f := range fields {
		form.Fields = append(form.Fields, BoundField{Field: f, Value: f.initial(obj)})
	}
	return form
}

// BindForm 绑定并校验提交数据
func BindForm(fields []FormField, data url.Values) Form {
	form := Form{
		Fields: make([]BoundField, 0, len(fields)),
		values: make(map[string]any, len(fields)),
		valid:  true,
	}
	for _, f := range fields {
		raw := data.Get(f.Name)
		v, msg := f.clean(raw)
		form.Fields = append(form.Fields, BoundField{Field: f, Value: raw, Error: msg})
		if msg != "" {
			form.valid = false
			continue
		}
		form.values[f.column()] = v
	}
	return form
}

// Valid 是否校验通过
func (f Form) Valid() bool {
	return f.valid
}

// Values 校验后的列值，键为数据库列名
func (f Form) Values() map[string]any {
	return f.values
}
