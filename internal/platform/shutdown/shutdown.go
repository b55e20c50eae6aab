package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/top-movies-backend/pkg/lifecycle"
)

const (
	httpTimeout       = 15 * time.Second
	backgroundTimeout = 5 * time.Second
)

// Closer 是停机最后阶段需要释放的资源（数据库、Redis连接等）
type Closer struct {
	Name  string
	Close func() error
}

// Coordinator 负责编排应用程序的优雅停机流程。
type Coordinator struct {
	Manager *lifecycle.Manager
	Closers []Closer
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(mgr *lifecycle.Manager, closers ...Closer) *Coordinator {
	return &Coordinator{
		Manager: mgr,
		Closers: closers,
	}
}

// ListenForSignalsAndShutdown 启动HTTP服务器并阻塞，直到收到停机信号且停机流程完成。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Run(ctx, server)
}

// Run 与 ListenForSignalsAndShutdown 相同，但由调用方的 ctx 决定何时停机
func (c *Coordinator) Run(ctx context.Context, server *http.Server) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("服务器已准备就绪，开始监听", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("收到关闭信号，开始优雅停机")
	case err := <-serveErr:
		if err != nil {
			slog.Error("HTTP服务器异常退出", "error", err)
			runErr = err
		}
	}

	// 关闭HTTP服务器，允许正在进行的请求完成
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP服务器关闭错误", "error", err)
	} else {
		slog.Info("HTTP服务器已关闭")
	}

	// 停止后台服务
	c.Manager.Shutdown()
	if remaining := c.Manager.WaitWithTimeout(backgroundTimeout); len(remaining) > 0 {
		slog.Warn("部分后台服务未能按时退出", "services", remaining)
	}

	for _, closer := range c.Closers {
		if err := closer.Close(); err != nil {
			slog.Error("释放资源失败", "resource", closer.Name, "error", err)
		}
	}

	slog.Info("优雅停机完成")
	return runErr
}
