package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 导出引擎。
const (
	EngineCanvas  = "canvas"
	EngineBrowser = "browser"
)

// Config 汇总服务配置，可来自配置文件或环境变量。
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Render   RenderConfig   `mapstructure:"render"`
	Export   ExportConfig   `mapstructure:"export"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
	// ExportRateLimit 是每个客户端每分钟允许提交的导出任务数。
	ExportRateLimit int           `mapstructure:"export_rate_limit"`
	RenderTimeout   time.Duration `mapstructure:"render_timeout"`
}

// RenderConfig 控制渲染策略。
type RenderConfig struct {
	EnforceTemplateTier bool          `mapstructure:"enforce_template_tier"`
	BrandingText        string        `mapstructure:"branding_text"`
	FilenamePattern     string        `mapstructure:"filename_pattern"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

// ExportConfig 控制异步导出任务。
type ExportConfig struct {
	Engine      string        `mapstructure:"engine"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	MaxRetry    int           `mapstructure:"max_retry"`
	LinkTTL     time.Duration `mapstructure:"link_ttl"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置，asynq 队列与通知频道共用。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// LogConfig 控制日志输出。命令行参数优先。
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr 返回 host:port。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load 读取配置：默认值 < 配置文件（path 非空时）< 环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("VITAE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.export_rate_limit", 10)
	v.SetDefault("api.render_timeout", 30*time.Second)
	v.SetDefault("render.enforce_template_tier", false)
	v.SetDefault("render.branding_text", "Powered by LoneStar")
	v.SetDefault("render.filename_pattern", "${personalInfo.fullName}_Resume.pdf")
	v.SetDefault("render.cache_ttl", 5*time.Minute)
	v.SetDefault("export.engine", EngineCanvas)
	v.SetDefault("export.timeout", 60*time.Second)
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("export.max_retry", 3)
	v.SetDefault("export.link_ttl", 24*time.Hour)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "vitae")
	v.SetDefault("database.user", "vitae")
	v.SetDefault("database.password", "vitae")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "exports")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                "API_PORT",
		"database.host":           "DATABASE_HOST",
		"database.port":           "DATABASE_PORT",
		"database.name":           "POSTGRES_DB",
		"database.user":           "POSTGRES_USER",
		"database.password":       "POSTGRES_PASSWORD",
		"database.sslmode":        "DATABASE_SSLMODE",
		"redis.host":              "REDIS_HOST",
		"redis.port":              "REDIS_PORT",
		"minio.endpoint":          "MINIO_ENDPOINT",
		"minio.public_endpoint":   "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":     "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key": "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":           "MINIO_USE_SSL",
		"minio.bucket":            "MINIO_BUCKET",
	}

	for key, env := range mappings {
		// 同时保留 VITAE_ 前缀形式，便于与其他服务共存。
		prefixed := "VITAE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.ExportRateLimit < 0 {
		return errors.New("api export rate limit must not be negative")
	}
	if cfg.Render.CacheTTL < 0 {
		return errors.New("render cache ttl must not be negative")
	}
	switch cfg.Export.Engine {
	case EngineCanvas, EngineBrowser:
	default:
		return fmt.Errorf("unknown export engine %q (want %s or %s)", cfg.Export.Engine, EngineCanvas, EngineBrowser)
	}
	if cfg.Export.Timeout <= 0 {
		return errors.New("export timeout must be positive")
	}
	if cfg.Export.Concurrency <= 0 {
		return errors.New("export concurrency must be positive")
	}
	return nil
}

// ValidateServices 校验 serve/worker 依赖的外部服务配置。
// 仅在本地渲染时不需要这些配置。
func (c *Config) ValidateServices() error {
	if c.Database.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if c.Database.Name == "" {
		return errors.New("database name is required")
	}
	if c.Database.User == "" {
		return errors.New("database user is required")
	}
	if c.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if c.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if c.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if c.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if c.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if c.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if c.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return nil
}
