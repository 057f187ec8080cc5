package models

import (
	"strconv"
	"strings"
	"time"
)

// FeatureCompleteToy 演示模型：带日期、计算布尔值和更新时间字段
type FeatureCompleteToy struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	ReleaseDate *time.Time `json:"release_date" gorm:"type:date;index"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 设置表名
func (FeatureCompleteToy) TableName() string {
	return "feature_complete_toys"
}

// PK 主键字符串
func (t *FeatureCompleteToy) PK() string {
	return strconv.FormatUint(uint64(t.ID), 10)
}

// String 对象显示名
func (t *FeatureCompleteToy) String() string {
	return t.Name
}

// IsCool 名称正读反读相同为 true，忽略大小写才相同为 false，否则为 nil
func (t *FeatureCompleteToy) IsCool() *bool {
	if t.Name == reverse(t.Name) {
		v := true
		return &v
	}
	if lower := strings.ToLower(t.Name); lower == reverse(lower) {
		v := false
		return &v
	}
	return nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
