package viewset

import (
	"context"
	"time"
)

type item struct {
	ID      string
	Name    string
	Cool    *bool
	Updated time.Time
}

func (i *item) PK() string { return i.ID }

// fakeStore 记录查询参数，按 Limit/Offset 切片返回
type fakeStore struct {
	items   []Object
	count   int64
	err     error
	conds   [][]Condition
	queries []Query
}

func (s *fakeStore) Count(_ context.Context, conds []Condition) (int64, error) {
	s.conds = append(s.conds, conds)
	if s.err != nil {
		return 0, s.err
	}
	if s.count > 0 {
		return s.count, nil
	}
	return int64(len(s.items)), nil
}

func (s *fakeStore) List(_ context.Context, q Query) ([]Object, error) {
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	out := s.items
	if q.Offset >= len(out) {
		return nil, nil
	}
	out = out[q.Offset:]
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, pk string) (Object, error) {
	for _, o := range s.items {
		if o.PK() == pk {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) Create(context.Context, map[string]any) error         { return nil }
func (s *fakeStore) Update(context.Context, Object, map[string]any) error { return nil }
func (s *fakeStore) Delete(context.Context, Object) error                 { return nil }

var streamModel = Describe("tests", "jsonstreammodel", "json stream model", "")

func boolPtr(b bool) *bool { return &b }
