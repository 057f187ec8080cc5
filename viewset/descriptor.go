package viewset

import "strings"

// ModelDescriptor 模型标识，由注册方提供，注册后不可变
type ModelDescriptor struct {
	AppLabel          string `json:"app_label"`
	ModelName         string `json:"model_name"`
	VerboseName       string `json:"verbose_name"`
	VerboseNamePlural string `json:"verbose_name_plural"`
}

// Describe 构造模型标识，verbose name 为空时按默认规则补齐
func Describe(appLabel, modelName, verboseName, verboseNamePlural string) ModelDescriptor {
	return ModelDescriptor{
		AppLabel:          strings.ToLower(strings.TrimSpace(appLabel)),
		ModelName:         strings.ToLower(strings.TrimSpace(modelName)),
		VerboseName:       strings.TrimSpace(verboseName),
		VerboseNamePlural: strings.TrimSpace(verboseNamePlural),
	}
}

// Singular 单数显示名，缺省为模型名
func (m ModelDescriptor) Singular() string {
	if m.VerboseName != "" {
		return m.VerboseName
	}
	return m.ModelName
}

// Plural 复数显示名，缺省为单数名加 s
func (m ModelDescriptor) Plural() string {
	if m.VerboseNamePlural != "" {
		return m.VerboseNamePlural
	}
	return m.Singular() + "s"
}

// Label app_label.model_name 形式的唯一标识
func (m ModelDescriptor) Label() string {
	return m.AppLabel + "." + m.ModelName
}
