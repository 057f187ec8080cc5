package api

import (
	"net/http"

	"modeladmin/viewset"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const homeTemplate = "wagtailadmin/home.html"

// SummaryItem 首页统计项
type SummaryItem struct {
	Label string
	Count int64
	URL   string
}

// HomeHandler 后台首页
type HomeHandler struct {
	site *Site
}

// NewHomeHandler 创建首页处理器
func NewHomeHandler(site *Site) *HomeHandler {
	return &HomeHandler{site: site}
}

// Summary 每个在菜单中的视图集的对象数量
func (h *HomeHandler) Summary(c *gin.Context) []SummaryItem {
	var items []SummaryItem
	for _, vs := range h.site.Registry.ViewSets() {
		if !vs.Settings().InMenu() {
			continue
		}
		count, err := vs.Store.Count(c.Request.Context(), nil)
		if err != nil {
			// 统计失败不影响首页展示
			h.site.Logger.Warn("统计对象数量失败", zap.String("viewset", vs.Namespace()), zap.Error(err))
			continue
		}
		entry := vs.MenuEntry()
		items = append(items, SummaryItem{
			Label: entry.Label,
			Count: count,
			URL:   vs.URL(viewset.Index, ""),
		})
	}
	return items
}

// Index 首页
func (h *HomeHandler) Index(c *gin.Context) {
	data := h.site.baseContext(c, "Dashboard")
	data["summary"] = h.Summary(c)
	h.site.html(c, http.StatusOK, homeTemplate, data)
}
