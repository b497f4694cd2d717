package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Oracle    OracleConfig    `mapstructure:"oracle"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Trace     TraceConfig     `mapstructure:"trace"`
	Feature   FeatureConfig   `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置（postgres 为正式环境，sqlite 仅用于本地开发）
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | sqlite
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	SQLitePath      string `mapstructure:"sqlite_path"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// OracleConfig 大模型调用配置
type OracleConfig struct {
	Timeout     time.Duration  `mapstructure:"timeout"`
	Temperature float32        `mapstructure:"temperature"`
	Gemini      GeminiConfig   `mapstructure:"gemini"`
	Fallback    FallbackConfig `mapstructure:"fallback"`
}

// GeminiConfig 主模型（Gemini）配置
type GeminiConfig struct {
	APIKey string   `mapstructure:"api_key"`
	Models []string `mapstructure:"models"` // 按顺序尝试
}

// FallbackConfig 备用模型（OpenAI 兼容接口）配置，仅在主模型限流时启用一次
type FallbackConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// RecommendConfig 推荐引擎配置
type RecommendConfig struct {
	LoanTolerance     int `mapstructure:"loan_tolerance"`      // 贷款资助时预算上限的放宽额度
	PromptBucketLimit int `mapstructure:"prompt_bucket_limit"` // 对话上下文中每个分组保留的院校数
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	ChatPerMinute int `mapstructure:"chat_per_minute"`
}

// TraceConfig 链路追踪配置
type TraceConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	GenerateTasksDedup bool `mapstructure:"generate_tasks_dedup"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "abroad_compass")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.sqlite_path", "compass.db")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.catalog_ttl", "10m")

	// 无默认值的键也需注册，否则 AutomaticEnv 不会在 Unmarshal 时生效
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("oracle.timeout", "60s")
	v.SetDefault("oracle.temperature", 0.2)
	v.SetDefault("oracle.gemini.api_key", "")
	v.SetDefault("oracle.gemini.models", []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"})
	v.SetDefault("oracle.fallback.enabled", false)
	v.SetDefault("oracle.fallback.api_key", "")
	v.SetDefault("oracle.fallback.base_url", "https://api.openai.com")
	v.SetDefault("oracle.fallback.model", "gpt-4o-mini")

	v.SetDefault("recommend.loan_tolerance", 10000)
	v.SetDefault("recommend.prompt_bucket_limit", 8)

	v.SetDefault("rate_limit.chat_per_minute", 20)

	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.service_name", "abroad-compass")

	v.SetDefault("feature.generate_tasks_dedup", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("配置校验失败: db.driver 仅支持 postgres 或 sqlite，当前为 %q", c.Database.Driver)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("配置校验失败: oracle.timeout 必须大于 0")
	}
	if c.Recommend.LoanTolerance < 0 {
		return fmt.Errorf("配置校验失败: recommend.loan_tolerance 不能为负数")
	}
	return nil
}
