package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	TMDB     TMDBConfig     `mapstructure:"tmdb"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了关系型数据库的配置
type DatabaseConfig struct {
	// Driver 取值 "sqlite" 或 "postgres"
	Driver   string         `mapstructure:"driver"`
	LogLevel string         `mapstructure:"logLevel"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置，仅用于缓存TMDB搜索结果
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TMDBConfig 定义了外部电影搜索API的配置
type TMDBConfig struct {
	SearchURL    string `mapstructure:"searchURL"`
	ImageBaseURL string `mapstructure:"imageBaseURL"`
	// APIKeyEnv 是保存API密钥的环境变量名，每次搜索时读取
	APIKeyEnv string        `mapstructure:"apiKeyEnv"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cacheTTL"`
}

type RankingConfig struct {
	// Persist 为 true 时，每次列表渲染都会把排名写回数据库
	Persist bool `mapstructure:"persist"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.cors.allowedOrigins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.logLevel", "silent")
	v.SetDefault("database.sqlite.path", "movies-database.db")
	v.SetDefault("database.postgres.dsn", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("tmdb.searchURL", "https://api.themoviedb.org/3/search/movie")
	v.SetDefault("tmdb.imageBaseURL", "http://image.tmdb.org/t/p/w500/")
	v.SetDefault("tmdb.apiKeyEnv", "MOVIE_API_KEY")
	v.SetDefault("tmdb.timeout", time.Duration(0))
	v.SetDefault("tmdb.cacheTTL", 10*time.Minute)

	v.SetDefault("ranking.persist", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在 configDir、./config 和当前目录中查找名为 config.yaml 的文件，
// 找不到文件时使用默认值。
func LoadConfig(configDir string) (*Config, error) {
	// .env 只是为了方便本地开发设置 MOVIE_API_KEY，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:8080
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Sqlite.Path == "" {
			return errors.New("database.sqlite.path 不能为空")
		}
	case "postgres":
		if c.Database.Postgres.DSN == "" {
			return errors.New("database.postgres.dsn 不能为空")
		}
	default:
		return errors.New("未知的数据库驱动: " + c.Database.Driver)
	}
	if c.TMDB.SearchURL == "" {
		return errors.New("tmdb.searchURL 不能为空")
	}
	return nil
}
