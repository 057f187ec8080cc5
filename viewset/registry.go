package viewset

import (
	"fmt"
	"strings"
	"sync"
)

// Registry 视图集注册表。启动时注册完毕，之后只读
type Registry struct {
	mu        sync.RWMutex
	root      string
	overrides Overrides
	viewsets  []*ViewSet
	byName    map[string]*ViewSet
	menu      []menuSource
}

type menuSource interface {
	MenuEntry() MenuEntry
}

// NewRegistry 创建注册表，root 为后台根路径，如 /admin
func NewRegistry(root string) *Registry {
	root = "/" + strings.Trim(strings.TrimSpace(root), "/")
	if root == "/" {
		root = "/admin"
	}
	return &Registry{
		root:   root,
		byName: make(map[string]*ViewSet),
	}
}

// Root 后台根路径
func (r *Registry) Root() string {
	return r.root
}

// SetOverrides 设置实例级覆盖配置，需在注册前调用
func (r *Registry) SetOverrides(o Overrides) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = o
}

// Register 注册单个视图集并加入顶级菜单
func (r *Registry) Register(vs *ViewSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.add(vs); err != nil {
		return err
	}
	if vs.Settings().InMenu() {
		r.menu = append(r.menu, vs)
	}
	return nil
}

// RegisterGroup 注册菜单分组及其全部成员，任一成员失败时整组不注册
func (r *Registry) RegisterGroup(g *Group) error {
	if len(g.Items) == 0 {
		return fmt.Errorf("菜单分组 %q 没有成员", g.Label)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.add(g.Items...); err != nil {
		return err
	}
	r.menu = append(r.menu, g)
	return nil
}

// add 先校验全部视图集再写入，调用方需持有锁
func (r *Registry) add(items ...*ViewSet) error {
	seen := make(map[string]bool, len(items))
	for _, vs := range items {
		if vs == nil {
			return fmt.Errorf("视图集不能为空")
		}
		if vs.Store == nil {
			return fmt.Errorf("视图集 %s 未设置 Store", vs.Key())
		}
		var override *Config
		if o, ok := r.overrides[vs.Key()]; ok {
			override = &o
		}
		vs.freeze(r.root, override)
		ns := vs.Namespace()
		if _, exists := r.byName[ns]; exists || seen[ns] {
			return fmt.Errorf("%w: %s", ErrNamespaceTaken, ns)
		}
		seen[ns] = true
	}
	for _, vs := range items {
		r.byName[vs.Namespace()] = vs
		r.viewsets = append(r.viewsets, vs)
	}
	return nil
}

// Get 按命名空间查找视图集
func (r *Registry) Get(namespace string) (*ViewSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vs, ok := r.byName[namespace]
	return vs, ok
}

// ViewSets 按注册顺序返回所有视图集
func (r *Registry) ViewSets() []*ViewSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ViewSet, len(r.viewsets))
	copy(out, r.viewsets)
	return out
}

// Menu 顶级菜单，按 Order 稳定排序
func (r *Registry) Menu() []MenuEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MenuEntry, 0, len(r.menu))
	for _, src := range r.menu {
		out = append(out, src.MenuEntry())
	}
	sortEntries(out)
	return out
}

// Reverse 反解路由，如 Reverse("streammodel:index") -> /admin/streammodel/
func (r *Registry) Reverse(route string, pk ...string) (string, error) {
	ns, view, ok := strings.Cut(route, ":")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	vs, found := r.Get(ns)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	kind, valid := ParseViewKind(view)
	if !valid {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, route)
	}
	if kind.NeedsObject() {
		if len(pk) == 0 || pk[0] == "" {
			return "", fmt.Errorf("%w: %s 需要主键", ErrUnknownRoute, route)
		}
		return vs.URL(kind, pk[0]), nil
	}
	return vs.URL(kind, ""), nil
}
