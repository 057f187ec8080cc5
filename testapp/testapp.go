// Package testapp 注册演示模型的后台视图集
package testapp

import (
	"embed"
	"io/fs"

	"modeladmin/models"
	"modeladmin/store"
	"modeladmin/viewset"

	"gorm.io/gorm"
)

//go:embed templates
var embedded embed.FS

// Templates 演示应用的自定义模板，优先于内置模板
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

var streamModel = viewset.Describe("tests", "jsonstreammodel", "json stream model", "")

// StreamModelDefaults JSONStreamModel 视图集的类型级配置
var StreamModelDefaults = viewset.Config{}

// MinMaxCountDefaults 在类型级设置命名空间和菜单标签
var MinMaxCountDefaults = viewset.Config{
	Name:      "minmaxcount_streammodel",
	MenuLabel: "JSON MinMaxCount StreamModel",
}

func streamViewSet(s viewset.Store, defaults, cfg viewset.Config) *viewset.ViewSet {
	body := viewset.Accessor(func(m *models.JSONStreamModel) any { return m.Body })
	return &viewset.ViewSet{
		Model:    streamModel,
		Defaults: defaults,
		Config:   cfg,
		Columns: []viewset.Column{
			{Name: "id", Label: "ID", SortKey: "id", LinkToEdit: true, Value: viewset.Accessor(func(m *models.JSONStreamModel) any { return m.ID })},
			{Name: "body", Value: body},
			viewset.UpdatedAtColumn(viewset.Accessor(func(m *models.JSONStreamModel) any { return m.UpdatedAt })),
		},
		Fields: []viewset.FormField{
			{Name: "body", Kind: viewset.JSONField, Required: true, Value: body},
		},
		Store: s,
	}
}

// StreamModelViewSets JSONStreamModel 的三个视图集：默认、类型级配置、实例级配置
func StreamModelViewSets(s viewset.Store) []*viewset.ViewSet {
	return []*viewset.ViewSet{
		streamViewSet(s, StreamModelDefaults, viewset.Config{Name: "streammodel"}),
		streamViewSet(s, MinMaxCountDefaults, viewset.Config{}),
		streamViewSet(s, StreamModelDefaults, viewset.Config{
			Name:      "blockcounts_streammodel",
			URLPrefix: "blockcounts/streammodel",
			MenuLabel: "JSON BlockCounts StreamModel",
		}),
	}
}

// ToyDefaults FeatureCompleteToy 视图集的类型级配置
var ToyDefaults = viewset.Config{
	Name:              "feature_complete_toy",
	TemplatePrefix:    "customprefix",
	IndexTemplateName: "tests/fctoy_index.html",
	ListExport:        []string{"name", "is_cool", "release_date", "_updated_at"},
	ExportFilename:    "feature-complete-toys",
}

// ToyViewSet FeatureCompleteToy 视图集
func ToyViewSet(s viewset.Store) *viewset.ViewSet {
	name := viewset.Accessor(func(t *models.FeatureCompleteToy) any { return t.Name })
	releaseDate := viewset.Accessor(func(t *models.FeatureCompleteToy) any { return t.ReleaseDate })
	return &viewset.ViewSet{
		Model:    viewset.Describe("tests", "featurecompletetoy", "feature complete toy", ""),
		Defaults: ToyDefaults,
		Columns: []viewset.Column{
			{Name: "name", SortKey: "name", LinkToEdit: true, Value: name},
			viewset.BooleanColumn("is_cool", "", viewset.Accessor(func(t *models.FeatureCompleteToy) any { return t.IsCool() })),
			{Name: "release_date", Value: viewset.Accessor(func(t *models.FeatureCompleteToy) any {
				if t.ReleaseDate == nil {
					return nil
				}
				return t.ReleaseDate.Format(viewset.DateLayout)
			})},
			viewset.UpdatedAtColumn(viewset.Accessor(func(t *models.FeatureCompleteToy) any { return t.UpdatedAt })),
		},
		Filters: []viewset.FilterField{
			{Name: "release_date", Kind: viewset.DateFilter},
		},
		Fields: []viewset.FormField{
			{Name: "name", Kind: viewset.TextField, Required: true, Value: name},
			{Name: "release_date", Kind: viewset.DateField, Value: releaseDate},
		},
		Store: s,
	}
}

// Register 注册演示视图集。JSONStreamModel 的视图集归入 tests 菜单分组
func Register(r *viewset.Registry, db *gorm.DB) error {
	return RegisterStores(r, store.NewGorm[models.JSONStreamModel](db), store.NewGorm[models.FeatureCompleteToy](db))
}

// RegisterStores 使用给定数据源注册，便于测试替换
func RegisterStores(r *viewset.Registry, streams, toys viewset.Store) error {
	group := &viewset.Group{Items: StreamModelViewSets(streams)}
	if err := r.RegisterGroup(group); err != nil {
		return err
	}
	return r.Register(ToyViewSet(toys))
}
