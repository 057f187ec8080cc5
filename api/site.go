package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"modeladmin/middleware"
	"modeladmin/viewset"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FiltersTemplate 列表过滤表单模板
const FiltersTemplate = "wagtailadmin/shared/filters.html"

// Renderer 模板渲染与存在性探测
type Renderer interface {
	viewset.TemplateLookup
	Render(name string, data map[string]any) (string, error)
}

// Site 后台站点：注册表、模板与公共页面上下文
type Site struct {
	Name     string
	Registry *viewset.Registry
	Renderer Renderer
	Resolver *viewset.Resolver
	Logger   *zap.Logger
}

// NewSite 创建后台站点
func NewSite(name string, registry *viewset.Registry, renderer Renderer) *Site {
	if strings.TrimSpace(name) == "" {
		name = "modeladmin"
	}
	return &Site{
		Name:     name,
		Registry: registry,
		Renderer: renderer,
		Resolver: viewset.NewResolver(renderer),
		Logger:   zap.L().Named("admin"),
	}
}

// URL 后台根路径下的地址
func (s *Site) URL(p string) string {
	u := path.Join(s.Registry.Root(), p)
	if strings.HasSuffix(p, "/") || p == "" {
		u += "/"
	}
	return u
}

// LoginURL 登录页
func (s *Site) LoginURL() string {
	return s.URL("login/")
}

// baseContext 所有后台页面共享的模板变量
func (s *Site) baseContext(c *gin.Context, title string) map[string]any {
	menu := s.Registry.Menu()
	menuJSON, err := json.Marshal(menu)
	if err != nil {
		s.Logger.Error("序列化菜单失败", zap.Error(err))
		menuJSON = []byte("[]")
	}
	menuJSON = spacedJSON(menuJSON)
	return map[string]any{
		"site_name":  s.Name,
		"page_title": title,
		"menu":       menu,
		"menu_json":  string(menuJSON),
		"username":   middleware.GetCurrentUsername(c),
		"logout_url": s.URL("logout/"),
		"admin_root": s.URL(""),
	}
}

// spacedJSON 在紧凑 JSON 的 , 和 : 后补空格，字符串内容不变
func spacedJSON(compact []byte) []byte {
	out := make([]byte, 0, len(compact)+len(compact)/4)
	inString, escaped := false, false
	for _, b := range compact {
		out = append(out, b)
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case !inString && (b == ',' || b == ':'):
			out = append(out, ' ')
		}
	}
	return out
}

// html 渲染模板并输出
func (s *Site) html(c *gin.Context, status int, name string, data map[string]any) {
	out, err := s.Renderer.Render(name, data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(out))
}

// fail 记录错误并返回对应状态码
func (s *Site) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := SafeErrorMessage(err, "服务器内部错误")
	if errors.Is(err, viewset.ErrNotFound) {
		status = http.StatusNotFound
		message = "Page not found"
	}
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("后台页面渲染失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	data := s.baseContext(c, http.StatusText(status))
	data["message"] = message
	out, renderErr := s.Renderer.Render("wagtailadmin/error.html", data)
	if renderErr != nil {
		c.String(status, message)
		c.Abort()
		return
	}
	c.Data(status, "text/html; charset=utf-8", []byte(out))
	c.Abort()
}
