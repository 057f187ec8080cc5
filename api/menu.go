package api

import (
	"github.com/gin-gonic/gin"
)

// MenuHandler 后台菜单
type MenuHandler struct {
	site *Site
}

// NewMenuHandler 创建菜单处理器
func NewMenuHandler(site *Site) *MenuHandler {
	return &MenuHandler{site: site}
}

// List 菜单树
// @Summary 获取后台菜单
// @Description 返回所有已注册视图集和分组生成的菜单项，按 order 排序
// @Tags 菜单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]viewset.MenuEntry} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /admin/api/menu [get]
func (h *MenuHandler) List(c *gin.Context) {
	Success(c, h.site.Registry.Menu())
}
