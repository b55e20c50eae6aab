package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给每个后台服务的生命周期句柄，由 Manager 创建。
type Handle struct {
	ctx context.Context
	// Close 通知Manager该服务已经退出，服务的goroutine应当 defer 调用它。
	Close func()
}

// Ctx 返回服务应当使用的上下文，停机时被取消
func (h *Handle) Ctx() context.Context {
	return h.ctx
}

// Done 在停机信号发出后关闭
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

func (h *Handle) Err() error {
	return h.ctx.Err()
}

// Sleep 暂停指定的时长；停机信号先到达时提前返回上下文的错误。
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-h.Done():
		return h.Err()
	case <-timer.C:
		return nil
	}
}
