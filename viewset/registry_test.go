package viewset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NamespaceTaken(t *testing.T) {
	r := NewRegistry("/admin")
	require.NoError(t, r.Register(&ViewSet{Model: streamModel, Config: Config{Name: "streammodel"}, Store: &fakeStore{}}))

	err := r.Register(&ViewSet{Model: streamModel, Config: Config{Name: "streammodel"}, Store: &fakeStore{}})
	assert.ErrorIs(t, err, ErrNamespaceTaken)

	err = r.Register(&ViewSet{Model: streamModel, Config: Config{Name: "x"}})
	assert.Error(t, err)
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.RegisterGroup(&Group{Label: "empty"}))
}

func TestRegistry_GroupRegistersAllOrNothing(t *testing.T) {
	r := NewRegistry("/admin")
	require.NoError(t, r.Register(&ViewSet{Model: streamModel, Config: Config{Name: "taken"}, Store: &fakeStore{}}))

	group := &Group{Items: []*ViewSet{
		{Model: streamModel, Config: Config{Name: "first"}, Store: &fakeStore{}},
		{Model: streamModel, Config: Config{Name: "taken"}, Store: &fakeStore{}},
	}}
	assert.ErrorIs(t, r.RegisterGroup(group), ErrNamespaceTaken)
	_, ok := r.Get("first")
	assert.False(t, ok)
	assert.Len(t, r.ViewSets(), 1)
	assert.Len(t, r.Menu(), 1)

	// 组内重名同样拒绝
	dup := &Group{Items: []*ViewSet{
		{Model: streamModel, Config: Config{Name: "same"}, Store: &fakeStore{}},
		{Model: streamModel, Config: Config{Name: "same"}, Store: &fakeStore{}},
	}}
	assert.ErrorIs(t, r.RegisterGroup(dup), ErrNamespaceTaken)
	_, ok = r.Get("same")
	assert.False(t, ok)

	// 修正后可以完整注册
	group.Items[1].Config.Name = "second"
	require.NoError(t, r.RegisterGroup(group))
	assert.Len(t, r.ViewSets(), 3)
	assert.Len(t, r.Menu(), 2)
}

func TestRegistry_Reverse(t *testing.T) {
	r := NewRegistry("/admin")
	require.NoError(t, r.Register(&ViewSet{Model: streamModel, Config: Config{Name: "streammodel"}, Store: &fakeStore{}}))
	require.NoError(t, r.Register(&ViewSet{
		Model:  streamModel,
		Config: Config{Name: "blockcounts_streammodel", URLPrefix: "blockcounts/streammodel"},
		Store:  &fakeStore{},
	}))

	cases := map[string]string{
		"streammodel:index":             "/admin/streammodel/",
		"streammodel:index_results":     "/admin/streammodel/results/",
		"streammodel:add":               "/admin/streammodel/new/",
		"blockcounts_streammodel:index": "/admin/blockcounts/streammodel/",
	}
	for route, want := range cases {
		got, err := r.Reverse(route)
		require.NoError(t, err, route)
		assert.Equal(t, want, got, route)
	}

	got, err := r.Reverse("streammodel:edit", "a b/1")
	require.NoError(t, err)
	assert.Equal(t, "/admin/streammodel/edit/a%20b%2F1/", got)

	got, err = r.Reverse("streammodel:delete", "7")
	require.NoError(t, err)
	assert.Equal(t, "/admin/streammodel/delete/7/", got)

	for _, bad := range []string{"streammodel", "nope:index", "streammodel:inspect"} {
		_, err := r.Reverse(bad)
		assert.ErrorIs(t, err, ErrUnknownRoute, bad)
	}
	_, err = r.Reverse("streammodel:edit")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRegistry_Overrides(t *testing.T) {
	overrides, err := LoadOverrides(strings.NewReader(`
feature_complete_toy:
  menu_label: Toys
  menu_icon: tag
  list_per_page: 5
`))
	require.NoError(t, err)

	r := NewRegistry("/cms/")
	r.SetOverrides(overrides)
	vs := &ViewSet{
		Model:    Describe("tests", "featurecompletetoy", "feature complete toy", ""),
		Defaults: Config{Name: "feature_complete_toy", MenuLabel: "Class label", MenuOrder: 100},
		Store:    &fakeStore{},
	}
	require.NoError(t, r.Register(vs))

	cfg := vs.Settings()
	assert.Equal(t, "Toys", cfg.MenuLabel)
	assert.Equal(t, "tag", cfg.MenuIcon)
	assert.Equal(t, 5, cfg.PerPage())
	assert.Equal(t, 100, cfg.MenuOrder)
	assert.Equal(t, "feature-complete-toy", cfg.URLPrefix)
	assert.Equal(t, "/cms/feature-complete-toy/", vs.URL(Index, ""))

	// 注册后修改不影响已冻结的配置
	vs.Config.MenuLabel = "changed"
	assert.Equal(t, "Toys", vs.MenuEntry().Label)
}

func TestRegistry_ViewSets(t *testing.T) {
	r := NewRegistry("/admin")
	a := &ViewSet{Model: Describe("tests", "a", "", ""), Store: &fakeStore{}}
	b := &ViewSet{Model: Describe("tests", "b", "", ""), Store: &fakeStore{}}
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))

	got := r.ViewSets()
	assert.Equal(t, []*ViewSet{a, b}, got)
	got[0] = nil
	assert.Equal(t, a, r.ViewSets()[0])
}
