package movie

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// MigrateDB 负责自动迁移电影表结构
func MigrateDB(db *gorm.DB) error {
	if err := db.AutoMigrate(&Movie{}); err != nil {
		return fmt.Errorf("无法迁移movies表: %w", err)
	}
	slog.Info("Movie数据库表迁移成功")
	return nil
}
