package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"modeladmin/service"
	"modeladmin/viewset"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewSetHandler 单个视图集的通用视图
type ViewSetHandler struct {
	site *Site
	vs   *viewset.ViewSet
}

// NewViewSetHandler 创建视图集处理器
func NewViewSetHandler(site *Site, vs *viewset.ViewSet) *ViewSetHandler {
	return &ViewSetHandler{site: site, vs: vs}
}

// Register 在 admin 路由组下挂载视图集路由
func (h *ViewSetHandler) Register(admin *gin.RouterGroup) {
	g := admin.Group("/" + h.vs.Settings().URLPrefix)
	g.GET("/", h.Index)
	g.GET("/results/", h.IndexResults)
	g.GET("/new/", h.Add)
	g.POST("/new/", h.Add)
	g.GET("/edit/:pk/", h.Edit)
	g.POST("/edit/:pk/", h.Edit)
	g.GET("/delete/:pk/", h.Delete)
	g.POST("/delete/:pk/", h.Delete)
	g.GET("/export/", h.Export)
}

func (h *ViewSetHandler) template(kind viewset.ViewKind) string {
	return h.site.Resolver.Resolve(h.vs.Settings(), h.vs.Model, kind).Path
}

type filterView struct {
	ID        string
	Name      string
	Label     string
	Value     string
	Submitted bool
	Error     string
}

type fieldView struct {
	ID       string
	Name     string
	Label    string
	Value    string
	Error    string
	Widget   string
	Required bool
}

type exportLink struct {
	Label string
	URL   string
}

func filterViews(set viewset.FilterSet) []filterView {
	out := make([]filterView, 0, len(set.Values))
	for _, v := range set.Values {
		out = append(out, filterView{
			ID:        v.ID(),
			Name:      v.Field.Name,
			Label:     v.Label(),
			Value:     v.Raw,
			Submitted: v.Submitted,
			Error:     v.Error,
		})
	}
	return out
}

func fieldViews(form viewset.Form) []fieldView {
	out := make([]fieldView, 0, len(form.Fields))
	for _, f := range form.Fields {
		out = append(out, fieldView{
			ID:       f.ID(),
			Name:     f.Field.Name,
			Label:    f.Field.Header(),
			Value:    f.Value,
			Error:    f.Error,
			Widget:   f.Field.Widget(),
			Required: f.Field.Required,
		})
	}
	return out
}

// pageContext 视图集页面公共变量
func (h *ViewSetHandler) pageContext(c *gin.Context, title, subtitle string) map[string]any {
	entry := h.vs.MenuEntry()
	data := h.site.baseContext(c, title)
	data["model_opts"] = h.vs.Model
	data["model_name"] = h.vs.Model.Singular()
	data["model_name_plural"] = h.vs.Model.Plural()
	data["header_title"] = title
	data["header_subtitle"] = subtitle
	data["header_icon"] = entry.IconName
	data["index_url"] = h.vs.URL(viewset.Index, "")
	data["results_url"] = h.vs.URL(viewset.IndexResults, "")
	return data
}

func (h *ViewSetHandler) resultsContext(listing *viewset.Listing) map[string]any {
	return map[string]any{
		"model_opts": h.vs.Model,
		"headers":    listing.Headers,
		"rows":       listing.Rows,
		"message":    listing.Message,
		"count":      listing.Count,
		"filtering":  listing.Filtering,
		"page":       listing.Page,
		"num_pages":  listing.NumPages,
		"prev_url":   listing.PrevURL,
		"next_url":   listing.NextURL,
	}
}

// Index 列表页
func (h *ViewSetHandler) Index(c *gin.Context) {
	listing, err := h.vs.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.site.fail(c, err)
		return
	}
	results, err := h.site.Renderer.Render(h.template(viewset.IndexResults), h.resultsContext(listing))
	if err != nil {
		h.site.fail(c, err)
		return
	}

	data := h.pageContext(c, viewset.CapFirst(h.vs.Model.Plural()), "")
	data["add_url"] = h.vs.URL(viewset.Add, "")
	data["results_html"] = results
	if len(h.vs.Filters) > 0 {
		filters, err := h.site.Renderer.Render(FiltersTemplate, map[string]any{
			"action":   h.vs.URL(viewset.Index, ""),
			"filters":  filterViews(listing.Filters),
			"ordering": listing.Ordering,
		})
		if err != nil {
			h.site.fail(c, err)
			return
		}
		data["filters_html"] = filters
	}
	cols, err := h.vs.ExportColumns()
	if err != nil {
		h.site.Logger.Warn("导出列配置错误", zap.String("viewset", h.vs.Namespace()), zap.Error(err))
	}
	if len(cols) > 0 {
		data["export_links"] = []exportLink{
			{Label: "CSV", URL: h.exportURL(c, service.FormatCSV)},
			{Label: "XLSX", URL: h.exportURL(c, service.FormatXLSX)},
		}
	}
	h.site.html(c, http.StatusOK, h.template(viewset.Index), data)
}

func (h *ViewSetHandler) exportURL(c *gin.Context, format string) string {
	u := h.vs.ExportURL(format)
	q := c.Request.URL.Query()
	q.Del("p")
	q.Del("export")
	if len(q) > 0 {
		u += "&" + q.Encode()
	}
	return u
}

// IndexResults 仅列表结果片段，供异步刷新
func (h *ViewSetHandler) IndexResults(c *gin.Context) {
	listing, err := h.vs.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.site.fail(c, err)
		return
	}
	h.site.html(c, http.StatusOK, h.template(viewset.IndexResults), h.resultsContext(listing))
}

func (h *ViewSetHandler) bindForm(c *gin.Context) (viewset.Form, error) {
	if err := c.Request.ParseForm(); err != nil {
		return viewset.Form{}, fmt.Errorf("解析表单失败: %w", err)
	}
	return viewset.BindForm(h.vs.Fields, c.Request.PostForm), nil
}

func (h *ViewSetHandler) formPage(c *gin.Context, kind viewset.ViewKind, status int, form viewset.Form, obj viewset.Object) {
	var data map[string]any
	if kind == viewset.Add {
		data = h.pageContext(c, "New: "+viewset.CapFirst(h.vs.Model.Singular()), "")
		data["action"] = h.vs.URL(viewset.Add, "")
		data["submit_label"] = "Create"
	} else {
		data = h.pageContext(c, "Editing: "+objectLabel(obj), viewset.CapFirst(h.vs.Model.Singular()))
		data["action"] = h.vs.URL(viewset.Edit, obj.PK())
		data["delete_url"] = h.vs.URL(viewset.Delete, obj.PK())
		data["submit_label"] = "Save"
		data["object"] = obj
	}
	data["fields"] = fieldViews(form)
	h.site.html(c, status, h.template(kind), data)
}

// Add 新增页
func (h *ViewSetHandler) Add(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.formPage(c, viewset.Add, http.StatusOK, viewset.NewForm(h.vs.Fields, nil), nil)
		return
	}
	form, err := h.bindForm(c)
	if err != nil {
		h.site.fail(c, err)
		return
	}
	if !form.Valid() {
		h.formPage(c, viewset.Add, http.StatusOK, form, nil)
		return
	}
	if err := h.vs.Store.Create(c.Request.Context(), form.Values()); err != nil {
		h.site.fail(c, err)
		return
	}
	h.site.Logger.Info("已创建对象", zap.String("viewset", h.vs.Namespace()), zap.String("user", c.GetString("username")))
	c.Redirect(http.StatusFound, h.vs.URL(viewset.Index, ""))
}

func (h *ViewSetHandler) object(c *gin.Context) (viewset.Object, bool) {
	obj, err := h.vs.Store.Get(c.Request.Context(), c.Param("pk"))
	if err != nil {
		h.site.fail(c, err)
		return nil, false
	}
	return obj, true
}

// Edit 编辑页
func (h *ViewSetHandler) Edit(c *gin.Context) {
	obj, ok := h.object(c)
	if !ok {
		return
	}
	if c.Request.Method != http.MethodPost {
		h.formPage(c, viewset.Edit, http.StatusOK, viewset.NewForm(h.vs.Fields, obj), obj)
		return
	}
	form, err := h.bindForm(c)
	if err != nil {
		h.site.fail(c, err)
		return
	}
	if !form.Valid() {
		h.formPage(c, viewset.Edit, http.StatusOK, form, obj)
		return
	}
	if err := h.vs.Store.Update(c.Request.Context(), obj, form.Values()); err != nil {
		h.site.fail(c, err)
		return
	}
	h.site.Logger.Info("已更新对象", zap.String("viewset", h.vs.Namespace()), zap.String("pk", obj.PK()))
	c.Redirect(http.StatusFound, h.vs.URL(viewset.Index, ""))
}

// Delete 删除确认页
func (h *ViewSetHandler) Delete(c *gin.Context) {
	obj, ok := h.object(c)
	if !ok {
		return
	}
	if c.Request.Method != http.MethodPost {
		data := h.pageContext(c, "Delete "+h.vs.Model.Singular(), objectLabel(obj))
		data["action"] = h.vs.URL(viewset.Delete, obj.PK())
		data["object"] = obj
		h.site.html(c, http.StatusOK, h.template(viewset.Delete), data)
		return
	}
	if err := h.vs.Store.Delete(c.Request.Context(), obj); err != nil {
		h.site.fail(c, err)
		return
	}
	h.site.Logger.Info("已删除对象", zap.String("viewset", h.vs.Namespace()), zap.String("pk", obj.PK()))
	c.Redirect(http.StatusFound, h.vs.URL(viewset.Index, ""))
}

// Export 按 list_export 导出当前过滤结果
func (h *ViewSetHandler) Export(c *gin.Context) {
	cols, err := h.vs.ExportColumns()
	if err != nil {
		h.site.fail(c, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("export", service.FormatCSV))
	if len(cols) == 0 || !service.ValidFormat(format) {
		h.site.fail(c, viewset.ErrNotFound)
		return
	}

	query := c.Request.URL.Query()
	q := viewset.Query{Conditions: viewset.ParseFilters(h.vs.Filters, query).Conditions()}
	if col, desc, ok := h.vs.Ordering(query.Get("ordering")); ok {
		q.OrderBy, q.Desc = col.OrderColumn(), desc
	}
	objects, err := h.vs.Store.List(c.Request.Context(), q)
	if err != nil {
		h.site.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.ExportListing(&buf, format, viewset.CapFirst(h.vs.Model.Plural()), cols, objects); err != nil {
		h.site.fail(c, err)
		return
	}
	filename := h.vs.ExportFilename() + "." + format
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, service.ContentType(format), buf.Bytes())
}

func objectLabel(obj viewset.Object) string {
	if s, ok := obj.(fmt.Stringer); ok {
		return s.String()
	}
	return obj.PK()
}
