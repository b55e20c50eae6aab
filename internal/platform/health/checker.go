package health

import (
	"context"
	"net/http"
	"time"

	"github.com/SlpAus/top-movies-backend/pkg/lifecycle"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	checkInterval = 15 * time.Second
	pingTimeout   = 2 * time.Second
)

// Checker 定期检查数据库和Redis的连通性
type Checker struct {
	db     *gorm.DB
	rdb    *redis.Client
	status *statusManager
}

// NewChecker 创建检查器。rdb 为 nil 表示未启用Redis。
func NewChecker(db *gorm.DB, rdb *redis.Client) *Checker {
	return &Checker{
		db:     db,
		rdb:    rdb,
		status: newStatusManager(rdb != nil),
	}
}

// PerformCheck 执行一次完整的健康检查
func (c *Checker) PerformCheck(ctx context.Context) Snapshot {
	next := Snapshot{Database: StateHealthy, Redis: StateDisabled, CheckedAt: time.Now()}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		next.Database = StateDown
	}

	if c.rdb != nil {
		next.Redis = StateHealthy
		if err := c.rdb.Ping(pingCtx).Err(); err != nil {
			next.Redis = StateDown
		}
	}

	c.status.update(next)
	return next
}

// Current 返回最近一次检查的结果
func (c *Checker) Current() Snapshot {
	return c.status.get()
}

// Run 在后台周期性地执行检查，直到生命周期句柄发出停机信号
func (c *Checker) Run(handle *lifecycle.Handle) {
	defer handle.Close()
	for {
		if err := handle.Sleep(checkInterval); err != nil {
			return
		}
		c.PerformCheck(handle.Ctx())
	}
}

// Handle 是 GET /healthz 的处理函数，现场执行一次检查
func (c *Checker) Handle(ctx *gin.Context) {
	snap := c.PerformCheck(ctx.Request.Context())
	status := http.StatusOK
	if !snap.Healthy() {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, snap)
}
