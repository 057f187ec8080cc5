package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed files
var embedded embed.FS

// ErrTemplateNotFound 模板不存在
var ErrTemplateNotFound = errors.New("模板不存在")

// Default 内置后台模板
func Default() fs.FS {
	sub, err := fs.Sub(embedded, "files")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option 引擎配置
type Option func(*Engine)

// WithFS 追加模板来源，先追加的优先
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		if files != nil {
			e.sources = append(e.sources, files)
		}
	}
}

// WithDir 追加磁盘目录作为模板来源
func WithDir(dir string) Option {
	return func(e *Engine) {
		if dir = strings.TrimSpace(dir); dir != "" {
			e.sources = append(e.sources, os.DirFS(dir))
		}
	}
}

// WithDebug 调试模式下每次渲染重新读取模板
func WithDebug(debug bool) Option {
	return func(e *Engine) {
		e.debug = debug
	}
}

// WithGlobals 所有模板可见的全局变量
func WithGlobals(globals map[string]any) Option {
	return func(e *Engine) {
		for k, v := range globals {
			e.globals[k] = v
		}
	}
}

// rootLoader 模板名一律相对模板根目录解析，extends/include 不受所在目录影响
type rootLoader struct {
	pongo2.TemplateLoader
}

func (l rootLoader) Abs(_, name string) string {
	return strings.TrimPrefix(name, "/")
}

// Engine 基于 pongo2 的模板引擎，同时提供存在性探测
type Engine struct {
	sources []fs.FS
	globals pongo2.Context
	debug   bool
	set     *pongo2.TemplateSet
}

// New 创建引擎。内置模板总是作为最后一个来源，供项目模板覆盖
func New(opts ...Option) (*Engine, error) {
	e := &Engine{globals: pongo2.Context{}}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	e.sources = append(e.sources, Default())

	loaders := make([]pongo2.TemplateLoader, 0, len(e.sources))
	for _, src := range e.sources {
		loaders = append(loaders, rootLoader{pongo2.NewFSLoader(src)})
	}
	e.set = pongo2.NewSet("modeladmin", loaders...)
	e.set.Debug = e.debug
	e.set.Globals.Update(e.globals)
	return e, nil
}

// Exists 任一来源中存在该模板文件
func (e *Engine) Exists(name string) bool {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if !fs.ValidPath(name) {
		return false
	}
	for _, src := range e.sources {
		if info, err := fs.Stat(src, name); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// Render 渲染模板。模板不存在时返回 ErrTemplateNotFound
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if !e.Exists(name) {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	// Debug 模式下 FromCache 会绕过缓存重新读取
	tpl, err := e.set.FromCache(strings.TrimPrefix(name, "/"))
	if err != nil {
		return "", fmt.Errorf("加载模板 %s 失败: %w", name, err)
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("渲染模板 %s 失败: %w", name, err)
	}
	return out, nil
}
