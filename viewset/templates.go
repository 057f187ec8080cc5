package viewset

import (
	"path"
	"strings"
)

// GenericTemplateDir 通用视图模板目录
const GenericTemplateDir = "wagtailadmin/generic"

// TemplateLookup 模板存在性探测，由模板引擎实现
type TemplateLookup interface {
	Exists(name string) bool
}

// ResolvedTemplate 解析结果
type ResolvedTemplate struct {
	Kind ViewKind `json:"view_kind"`
	Path string   `json:"template_path"`
}

// Resolver 按优先级为视图选择模板
type Resolver struct {
	lookup TemplateLookup
}

// NewResolver 创建模板解析器，lookup 为 nil 时只会返回显式模板或通用默认模板
func NewResolver(lookup TemplateLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// GenericTemplate 通用默认模板路径
func GenericTemplate(kind ViewKind) string {
	return GenericTemplateDir + "/" + kind.genericName() + ".html"
}

// Candidates 按优先级列出候选模板（不含显式模板），最后一项恒为通用默认模板
func Candidates(cfg Config, model ModelDescriptor, kind ViewKind) []string {
	name := kind.templateName() + ".html"
	var out []string
	if prefix := strings.Trim(strings.TrimSpace(cfg.TemplatePrefix), "/"); prefix != "" {
		out = append(out,
			path.Join(prefix, model.AppLabel, model.ModelName, name),
			path.Join(prefix, model.AppLabel, name),
			path.Join(prefix, name),
		)
	}
	return append(out, GenericTemplate(kind))
}

// Resolve 返回视图应使用的模板。显式模板原样返回，不做存在性检查；
// 前缀候选只在模板存在时命中，否则回落到通用默认模板
func (r *Resolver) Resolve(cfg Config, model ModelDescriptor, kind ViewKind) ResolvedTemplate {
	if explicit := strings.TrimSpace(cfg.TemplateName(kind)); explicit != "" {
		return ResolvedTemplate{Kind: kind, Path: explicit}
	}
	candidates := Candidates(cfg, model, kind)
	fallback := candidates[len(candidates)-1]
	if r == nil || r.lookup == nil {
		return ResolvedTemplate{Kind: kind, Path: fallback}
	}
	for _, name := range candidates[:len(candidates)-1] {
		if r.lookup.Exists(name) {
			return ResolvedTemplate{Kind: kind, Path: name}
		}
	}
	return ResolvedTemplate{Kind: kind, Path: fallback}
}

// ResolveAll 解析所有视图类型
func (r *Resolver) ResolveAll(cfg Config, model ModelDescriptor) []ResolvedTemplate {
	out := make([]ResolvedTemplate, 0, len(AllKinds))
	for _, k := range AllKinds {
		out = append(out, r.Resolve(cfg, model, k))
	}
	return out
}
