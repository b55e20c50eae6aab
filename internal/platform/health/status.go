package health

import (
	"log/slog"
	"sync"
	"time"
)

// State 定义了单个依赖的健康状态
type State string

const (
	StateUnknown  State = "unknown"
	StateHealthy  State = "ok"
	StateDown     State = "down"
	StateDisabled State = "disabled"
)

// Snapshot 是某一时刻的健康状态
type Snapshot struct {
	Database  State     `json:"database"`
	Redis     State     `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy 只看数据库；Redis只是缓存，不可用时仍然可以提供服务
func (s Snapshot) Healthy() bool {
	return s.Database == StateHealthy
}

// statusManager 负责线程安全地管理和提供系统的健康状态。
type statusManager struct {
	mu      sync.RWMutex
	current Snapshot
}

func newStatusManager(redisEnabled bool) *statusManager {
	redisState := StateUnknown
	if !redisEnabled {
		redisState = StateDisabled
	}
	return &statusManager{current: Snapshot{Database: StateUnknown, Redis: redisState}}
}

func (sm *statusManager) get() Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// update 用于线程安全地更新健康状态，只有当状态发生变化时才打印日志
func (sm *statusManager) update(next Snapshot) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current.Database != next.Database {
		slog.Info("健康检查: 数据库状态变化", "from", sm.current.Database, "to", next.Database)
	}
	if sm.current.Redis != next.Redis {
		slog.Info("健康检查: Redis状态变化", "from", sm.current.Redis, "to", next.Redis)
	}
	sm.current = next
}
