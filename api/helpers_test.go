package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"modeladmin/models"
	"modeladmin/templates"
	"modeladmin/testapp"
	"modeladmin/viewset"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// memStore 内存 Store，按列取值函数做等值过滤
type memStore struct {
	mu      sync.Mutex
	objects []viewset.Object
	column  func(obj viewset.Object, col string) any
	nextID  uint
	newObj  func(id uint, values map[string]any) viewset.Object

	created []map[string]any
	updated map[string]map[string]any
	deleted []string
	queries []viewset.Query
}

func normalize(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Format(viewset.DateLayout)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Format(viewset.DateLayout)
	}
	return v
}

func (s *memStore) match(obj viewset.Object, conds []viewset.Condition) bool {
	for _, c := range conds {
		if normalize(s.column(obj, c.Column)) != normalize(c.Value) {
			return false
		}
	}
	return true
}

func (s *memStore) filter(conds []viewset.Condition) []viewset.Object {
	var out []viewset.Object
	for _, obj := range s.objects {
		if s.match(obj, conds) {
			out = append(out, obj)
		}
	}
	return out
}

func (s *memStore) Count(_ context.Context, conds []viewset.Condition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filter(conds))), nil
}

func (s *memStore) List(_ context.Context, q viewset.Query) ([]viewset.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	out := s.filter(q.Conditions)
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a := viewset.FormatValue(s.column(out[i], q.OrderBy))
			b := viewset.FormatValue(s.column(out[j], q.OrderBy))
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, pk string) (viewset.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range s.objects {
		if obj.PK() == pk {
			return obj, nil
		}
	}
	return nil, viewset.ErrNotFound
}

func (s *memStore) Create(_ context.Context, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.created = append(s.created, values)
	if s.newObj != nil {
		s.objects = append(s.objects, s.newObj(s.nextID, values))
	}
	return nil
}

func (s *memStore) Update(_ context.Context, obj viewset.Object, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updated == nil {
		s.updated = make(map[string]map[string]any)
	}
	s.updated[obj.PK()] = values
	return nil
}

func (s *memStore) Delete(_ context.Context, obj viewset.Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, obj.PK())
	kept := s.objects[:0]
	for _, o := range s.objects {
		if o.PK() != obj.PK() {
			kept = append(kept, o)
		}
	}
	s.objects = kept
	return nil
}

func newToyStore(toys ...*models.FeatureCompleteToy) *memStore {
	s := &memStore{
		column: func(obj viewset.Object, col string) any {
			t := obj.(*models.FeatureCompleteToy)
			switch col {
			case "name":
				return t.Name
			case "release_date":
				return t.ReleaseDate
			case "updated_at":
				return t.UpdatedAt
			}
			return nil
		},
		newObj: func(id uint, values map[string]any) viewset.Object {
			t := &models.FeatureCompleteToy{ID: id}
			t.Name, _ = values["name"].(string)
			return t
		},
	}
	for _, t := range toys {
		s.objects = append(s.objects, t)
		if t.ID > s.nextID {
			s.nextID = t.ID
		}
	}
	return s
}

func newStreamStore(items ...*models.JSONStreamModel) *memStore {
	s := &memStore{
		column: func(obj viewset.Object, col string) any {
			m := obj.(*models.JSONStreamModel)
			switch col {
			case "id":
				return m.ID
			case "body":
				return m.Body
			case "updated_at":
				return m.UpdatedAt
			}
			return nil
		},
	}
	for _, m := range items {
		s.objects = append(s.objects, m)
	}
	return s
}

// recordingRenderer 记录直接渲染过的模板名
type recordingRenderer struct {
	*templates.Engine
	mu   sync.Mutex
	used []string
}

func (r *recordingRenderer) Render(name string, data map[string]any) (string, error) {
	r.mu.Lock()
	r.used = append(r.used, name)
	r.mu.Unlock()
	return r.Engine.Render(name, data)
}

func (r *recordingRenderer) Used() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.used...)
}

func (r *recordingRenderer) Reset() {
	r.mu.Lock()
	r.used = nil
	r.mu.Unlock()
}

type testAdmin struct {
	site     *Site
	router   *gin.Engine
	renderer *recordingRenderer
	toys     *memStore
	streams  *memStore
}

func newTestAdmin(t *testing.T, toys, streams *memStore) *testAdmin {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := templates.New(templates.WithFS(testapp.Templates()))
	require.NoError(t, err)
	renderer := &recordingRenderer{Engine: engine}

	reg := viewset.NewRegistry("/admin")
	require.NoError(t, testapp.RegisterStores(reg, streams, toys))

	site := NewSite("modeladmin", reg, renderer)
	router := gin.New()
	admin := router.Group(reg.Root())
	admin.GET("/", NewHomeHandler(site).Index)
	admin.GET("/api/menu", NewMenuHandler(site).List)
	for _, vs := range reg.ViewSets() {
		NewViewSetHandler(site, vs).Register(admin)
	}
	return &testAdmin{site: site, router: router, renderer: renderer, toys: toys, streams: streams}
}

func (a *testAdmin) get(target string) *httptest.ResponseRecorder {
	a.renderer.Reset()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAdmin) post(target string, form url.Values) *httptest.ResponseRecorder {
	a.renderer.Reset()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func date(s string) *time.Time {
	d, err := time.ParseInLocation(viewset.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return &d
}
