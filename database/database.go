package database

import (
	"fmt"

	"modeladmin/config"
	"modeladmin/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接并迁移后台模型
func Init(cfg *config.Config) error {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	if err := Migrate(DB); err != nil {
		return err
	}
	if err := EnsureAdminUser(DB, cfg.Admin.DefaultUsername, cfg.Admin.DefaultPassword); err != nil {
		return err
	}

	zap.L().Info("数据库初始化成功", zap.String("database", cfg.Database.DBName))
	return nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.FeatureCompleteToy{},
		&models.JSONStreamModel{},
	); err != nil {
		return fmt.Errorf("迁移数据库失败: %w", err)
	}
	return nil
}

// EnsureAdminUser 管理员表为空且配置了默认密码时创建初始管理员
func EnsureAdminUser(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("查询管理员失败: %w", err)
	}
	if count > 0 {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("生成密码哈希失败: %w", err)
	}
	user := models.User{Username: username, Password: string(hashed), Status: models.UserStatusActive}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("创建初始管理员失败: %w", err)
	}
	zap.L().Info("已创建初始管理员", zap.String("username", username))
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
