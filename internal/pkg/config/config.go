package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Defaults    DefaultsConfig    `mapstructure:"defaults"`
	Focus       FocusConfig       `mapstructure:"focus"`

	Source string `mapstructure:"-"` // 实际加载的配置文件路径，未找到文件时为空
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	ListenAddr           string `mapstructure:"listen_addr"`
	ReadHeaderTimeoutSec int    `mapstructure:"read_header_timeout_sec"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// AuthConfig 令牌配置
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	Issuer        string `mapstructure:"issuer"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// 账本后端
const (
	LedgerBackendSQL   = "sql"   // 与进度同库同事务
	LedgerBackendRedis = "redis" // 独立介质，提交后追加并重试
)

// LedgerConfig 经验流水配置
type LedgerConfig struct {
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	AppendRetries int    `mapstructure:"append_retries"`
}

// ProgressionConfig 养成配置
type ProgressionConfig struct {
	MaxConflictRetries int     `mapstructure:"max_conflict_retries"`
	LevelThresholds    []int64 `mapstructure:"level_thresholds"` // 为空则使用默认阈值表
}

// DefaultsConfig 新用户默认值（不写死在表结构里）
type DefaultsConfig struct {
	GoalMinutes    int    `mapstructure:"goal_minutes"`
	Theme          string `mapstructure:"theme"`
	PartnerPokemon int64  `mapstructure:"partner_pokemon"`
}

// MaxFocusXPPerMinute 单次专注最长 1440 分钟，折算经验不得超过单次经验变化上限 1e9
const MaxFocusXPPerMinute int64 = 1_000_000_000 / (24 * 60)

// FocusConfig 专注会话配置
type FocusConfig struct {
	XPPerMinute int64 `mapstructure:"xp_per_minute"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// 默认查找路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// 支持环境变量，例如 TRAINERHUB_AUTH_JWT_SECRET
	v.SetEnvPrefix("TRAINERHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("配置文件未找到，使用默认配置")
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		slog.Info("加载配置文件", "path", v.ConfigFileUsed())
	}

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.Source = v.ConfigFileUsed()

	// 处理环境变量占位符
	cfg.Auth.JWTSecret = expandEnv(cfg.Auth.JWTSecret)
	cfg.Ledger.RedisPassword = expandEnv(cfg.Ledger.RedisPassword)

	// 处理相对路径
	cfg.Storage.DBPath = resolvePath(cfg.Storage.DBPath)
	cfg.Ledger.Backend = strings.ToLower(strings.TrimSpace(cfg.Ledger.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回仅包含默认值的配置
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "trainerhub")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")

	// Server
	v.SetDefault("server.listen_addr", "127.0.0.1:8000")
	v.SetDefault("server.read_header_timeout_sec", 5)

	// Storage
	v.SetDefault("storage.db_path", "./data/trainerhub.db")

	// Auth
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "trainerhub")
	v.SetDefault("auth.token_ttl_hours", 24*7)

	// Ledger
	v.SetDefault("ledger.backend", LedgerBackendSQL)
	v.SetDefault("ledger.redis_addr", "")
	v.SetDefault("ledger.redis_password", "")
	v.SetDefault("ledger.redis_db", 0)
	v.SetDefault("ledger.append_retries", 3)

	// Progression
	v.SetDefault("progression.max_conflict_retries", 5)
	v.SetDefault("progression.level_thresholds", []int64{})

	// Defaults
	v.SetDefault("defaults.goal_minutes", 60)
	v.SetDefault("defaults.theme", "fire")
	v.SetDefault("defaults.partner_pokemon", 1)

	// Focus
	v.SetDefault("focus.xp_per_minute", 1)
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case LedgerBackendSQL:
	case LedgerBackendRedis:
		if strings.TrimSpace(c.Ledger.RedisAddr) == "" {
			return fmt.Errorf("ledger.backend=redis 时必须配置 ledger.redis_addr")
		}
	default:
		return fmt.Errorf("未知的 ledger.backend: %q", c.Ledger.Backend)
	}
	if c.Ledger.AppendRetries < 0 {
		return fmt.Errorf("ledger.append_retries 不能为负数")
	}
	if c.Progression.MaxConflictRetries < 0 {
		return fmt.Errorf("progression.max_conflict_retries 不能为负数")
	}
	if c.Defaults.GoalMinutes <= 0 {
		return fmt.Errorf("defaults.goal_minutes 必须大于 0")
	}
	if strings.TrimSpace(c.Defaults.Theme) == "" {
		return fmt.Errorf("defaults.theme 不能为空")
	}
	if c.Defaults.PartnerPokemon < 0 {
		return fmt.Errorf("defaults.partner_pokemon 不能为负数")
	}
	if c.Focus.XPPerMinute < 0 || c.Focus.XPPerMinute > MaxFocusXPPerMinute {
		return fmt.Errorf("focus.xp_per_minute 应在 0-%d 之间: %d", MaxFocusXPPerMinute, c.Focus.XPPerMinute)
	}
	return nil
}

// expandEnv 展开环境变量占位符 ${VAR}
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		envVar := s[2 : len(s)-1]
		return os.Getenv(envVar)
	}
	return s
}

// resolvePath 解析相对路径为绝对路径（相对可执行文件目录）
func resolvePath(path string) string {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") || filepath.IsAbs(path) {
		return path
	}

	// 获取可执行文件目录
	exe, err := os.Executable()
	if err != nil {
		return path
	}

	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, path)
}
