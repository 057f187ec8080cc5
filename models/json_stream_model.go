package models

import (
	"strconv"
	"time"
)

// JSONStreamModel 演示模型：body 为 JSON 编码的 block 列表
type JSONStreamModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (JSONStreamModel) TableName() string {
	return "json_stream_models"
}

// PK 主键字符串
func (m *JSONStreamModel) PK() string {
	return strconv.FormatUint(uint64(m.ID), 10)
}

// String 对象显示名
func (m *JSONStreamModel) String() string {
	return "JSONStreamModel object (" + m.PK() + ")"
}
