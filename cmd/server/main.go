package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/SlpAus/top-movies-backend/api"
	"github.com/SlpAus/top-movies-backend/internal/movie"
	"github.com/SlpAus/top-movies-backend/internal/platform/config"
	"github.com/SlpAus/top-movies-backend/internal/platform/database"
	"github.com/SlpAus/top-movies-backend/internal/platform/health"
	"github.com/SlpAus/top-movies-backend/internal/platform/logger"
	"github.com/SlpAus/top-movies-backend/internal/platform/shutdown"
	"github.com/SlpAus/top-movies-backend/internal/platform/startup"
	"github.com/SlpAus/top-movies-backend/internal/tmdb"
	"github.com/SlpAus/top-movies-backend/pkg/lifecycle"
	"github.com/SlpAus/top-movies-backend/pkg/token"
	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
)

// CLI 定义了命令行入口
type CLI struct {
	Config string `help:"Directory containing config.yaml." type:"path" default:"./config"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the web server."`
	Migrate MigrateCmd `cmd:"" help:"Create or update the database schema and exit."`
}

type ServeCmd struct{}

type MigrateCmd struct{}

func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Server.Mode == gin.DebugMode)
	return cfg, nil
}

func (MigrateCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return startup.InitializeApplication(db)
}

func (ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := startup.InitializeApplication(db); err != nil {
		_ = database.Close(db)
		return fmt.Errorf("应用初始化失败，无法启动: %w", err)
	}

	ctx := context.Background()
	rdb, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		// Redis只用于缓存，连接失败时退化为直接访问TMDB
		slog.Warn("Redis不可用，搜索结果将不会被缓存", "error", err)
		rdb = nil
	}

	signer, err := token.NewSigner()
	if err != nil {
		_ = database.Close(db)
		return err
	}

	var searcher tmdb.Searcher = tmdb.NewClient(cfg.TMDB.SearchURL, cfg.TMDB.APIKeyEnv, cfg.TMDB.Timeout)
	if rdb != nil {
		searcher = tmdb.NewCachedSearcher(searcher, tmdb.NewRedisCache(rdb), cfg.TMDB.CacheTTL)
	}

	service := movie.NewService(movie.NewStore(db), cfg.TMDB.ImageBaseURL, cfg.Ranking.Persist)
	checker := health.NewChecker(db, rdb)
	checker.PerformCheck(ctx)

	router, err := api.NewRouter(cfg.Server, api.Dependencies{
		Movies: movie.NewHandler(service, searcher, signer),
		Health: checker,
	})
	if err != nil {
		_ = database.Close(db)
		return err
	}

	mgr := lifecycle.NewManager(ctx)
	if err := mgr.Go("health-checker", checker.Run); err != nil {
		_ = database.Close(db)
		return err
	}

	closers := []shutdown.Closer{{Name: "database", Close: func() error { return database.Close(db) }}}
	if rdb != nil {
		closers = append(closers, shutdown.Closer{Name: "redis", Close: rdb.Close})
	}

	server := &http.Server{Addr: cfg.Server.Address, Handler: router}
	return shutdown.NewCoordinator(mgr, closers...).ListenForSignalsAndShutdown(server)
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("top-movies"),
		kong.Description("A small movie rating site backed by TMDB search."),
		kong.UsageOnError(),
	)
	if err := kctx.Run(&cli); err != nil {
		slog.Error("程序异常退出", "error", err)
		os.Exit(1)
	}
}
