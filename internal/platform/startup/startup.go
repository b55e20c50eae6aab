package startup

import (
	"log/slog"

	"github.com/SlpAus/top-movies-backend/internal/movie"
	"gorm.io/gorm"
)

// InitializeApplication 是应用启动时执行的总入口，负责迁移所有表结构
func InitializeApplication(db *gorm.DB) error {
	slog.Info("开始应用初始化")

	if err := movie.MigrateDB(db); err != nil {
		return err
	}

	slog.Info("应用初始化完成")
	return nil
}
