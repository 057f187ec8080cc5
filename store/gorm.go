package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modeladmin/viewset"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm 基于 gorm 的通用 Store，T 的指针类型需实现 viewset.Object
type Gorm[T any] struct {
	db     *gorm.DB
	pkName string
}

// NewGorm 创建 Store
func NewGorm[T any](db *gorm.DB) *Gorm[T] {
	if _, ok := any(new(T)).(viewset.Object); !ok {
		panic(fmt.Sprintf("store: %T 未实现 viewset.Object", new(T)))
	}
	return &Gorm[T]{db: db, pkName: "id"}
}

// WithPrimaryKey 指定主键列名，默认 id
func (s *Gorm[T]) WithPrimaryKey(column string) *Gorm[T] {
	s.pkName = column
	return s
}

func (s *Gorm[T]) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(new(T))
}

func where(db *gorm.DB, conds []viewset.Condition) *gorm.DB {
	for _, c := range conds {
		db = db.Where(clause.Eq{Column: clause.Column{Name: c.Column}, Value: c.Value})
	}
	return db
}

// Count 统计满足条件的行数
func (s *Gorm[T]) Count(ctx context.Context, conds []viewset.Condition) (int64, error) {
	var n int64
	if err := where(s.query(ctx), conds).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// List 按条件、排序和分页查询
func (s *Gorm[T]) List(ctx context.Context, q viewset.Query) ([]viewset.Object, error) {
	db := where(s.query(ctx), q.Conditions)
	if q.OrderBy != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.pkName}})
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if q.Offset > 0 {
		db = db.Offset(q.Offset)
	}
	var items []T
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	out := make([]viewset.Object, 0, len(items))
	for i := range items {
		out = append(out, any(&items[i]).(viewset.Object))
	}
	return out, nil
}

// Get 按主键查询，不存在时返回 viewset.ErrNotFound
func (s *Gorm[T]) Get(ctx context.Context, pk string) (viewset.Object, error) {
	item := new(T)
	err := s.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: s.pkName}, Value: pk}).
		First(item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, viewset.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return any(item).(viewset.Object), nil
}

// Create 以列值创建记录。map 方式创建不会自动填充时间戳，这里按模型字段补齐
func (s *Gorm[T]) Create(ctx context.Context, values map[string]any) error {
	stmt := &gorm.Statement{DB: s.db}
	if err := stmt.Parse(new(T)); err != nil {
		return fmt.Errorf("解析模型失败: %w", err)
	}
	now := time.Now()
	for _, name := range []string{"created_at", "updated_at"} {
		if _, set := values[name]; set {
			continue
		}
		if stmt.Schema.LookUpField(name) != nil {
			values[name] = now
		}
	}
	return s.query(ctx).Create(values).Error
}

// Update 更新对象的列值
func (s *Gorm[T]) Update(ctx context.Context, obj viewset.Object, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(obj).Updates(values).Error
}

// Delete 删除对象
func (s *Gorm[T]) Delete(ctx context.Context, obj viewset.Object) error {
	return s.db.WithContext(ctx).Delete(obj).Error
}
