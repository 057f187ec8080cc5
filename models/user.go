package models

import (
	"time"
)

const (
	// UserStatusLocked 锁定：不可登录后台
	UserStatusLocked = "locked"
	// UserStatusActive 正常：可登录后台
	UserStatusActive = "active"
)

// User 后台管理员
type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string     `json:"-" gorm:"size:255;not null"`
	Status    string     `json:"status" gorm:"size:20;default:active;index"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "admin_users"
}

// Active 是否允许登录
func (u User) Active() bool {
	return u.Status == UserStatusActive
}
