package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuqie6/trainerhub/internal/auth"
	"github.com/yuqie6/trainerhub/internal/eventbus"
	"github.com/yuqie6/trainerhub/internal/pkg/config"
	"github.com/yuqie6/trainerhub/internal/redis"
	"github.com/yuqie6/trainerhub/internal/repository"
	"github.com/yuqie6/trainerhub/internal/schema"
	"github.com/yuqie6/trainerhub/internal/service"
)

const redisPingTimeout = 3 * time.Second

// Core 持有跨命令共享的核心依赖
type Core struct {
	Cfg    *config.Config
	DB     *repository.Database
	Redis  redis.Client // ledger.backend=redis 时非空
	Hub    *eventbus.Hub
	Issuer *auth.Issuer
	Ledger service.XPLedger

	Repos struct {
		Progress *repository.ProgressRepository
		XPLogs   *repository.XPLogRepository
		Settings *repository.SettingsRepository
		Focus    *repository.FocusRepository
		Journal  *repository.JournalRepository
	}

	Services struct {
		Progression *service.ProgressionService
		Settings    *service.SettingsService
		Focus       *service.FocusService
		Journal     *service.JournalService
	}
}

// NewCore 加载配置并构建核心依赖
func NewCore(cfgPath string) (*Core, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)
	return NewCoreFromConfig(cfg)
}

// NewCoreFromConfig 基于已加载的配置构建核心依赖
func NewCoreFromConfig(cfg *config.Config) (*Core, error) {
	levels := schema.DefaultLevelTable()
	if len(cfg.Progression.LevelThresholds) > 0 {
		t, err := schema.NewLevelTable(cfg.Progression.LevelThresholds)
		if err != nil {
			return nil, fmt.Errorf("progression.level_thresholds 无效: %w", err)
		}
		levels = t
	}

	issuer, err := newIssuer(cfg.Auth)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, DB: db, Hub: eventbus.NewHub(), Issuer: issuer}

	// Repos
	c.Repos.Progress = repository.NewProgressRepository(db.DB)
	c.Repos.XPLogs = repository.NewXPLogRepository(db.DB)
	c.Repos.Settings = repository.NewSettingsRepository(db.DB)
	c.Repos.Focus = repository.NewFocusRepository(db.DB)
	c.Repos.Journal = repository.NewJournalRepository(db.DB)

	// Ledger
	ledgerInTx := true
	c.Ledger = c.Repos.XPLogs
	if cfg.Ledger.Backend == config.LedgerBackendRedis {
		client, err := redis.NewClient(cfg.Ledger.RedisAddr, &redis.Options{
			Password:    cfg.Ledger.RedisPassword,
			DB:          cfg.Ledger.RedisDB,
			DialTimeout: redisPingTimeout,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("创建 Redis 客户端失败: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		if err := redis.Ping(ctx, client); err != nil {
			// 不阻塞启动：追加失败会按重试策略处理并标记流水缺失
			slog.Warn("Redis 暂不可用，经验流水写入将降级", "addr", cfg.Ledger.RedisAddr, "error", err)
		}
		cancel()

		ledger, err := repository.NewRedisXPLedger(client)
		if err != nil {
			_ = client.Close()
			_ = db.Close()
			return nil, err
		}
		c.Redis = client
		c.Ledger = ledger
		ledgerInTx = false
	}
	slog.Info("经验流水后端", "backend", cfg.Ledger.Backend)

	// Services
	c.Services.Progression = service.NewProgressionService(
		service.NewGormUnitOfWork(repository.NewUnitOfWork(db.DB)),
		c.Repos.Progress,
		c.Ledger,
		service.ProgressionOptions{
			Levels:             levels,
			MaxConflictRetries: cfg.Progression.MaxConflictRetries,
			LedgerInTx:         ledgerInTx,
			AppendRetries:      cfg.Ledger.AppendRetries,
			Events:             c.Hub,
		},
	)
	c.Services.Settings = service.NewSettingsService(c.Repos.Settings, schema.Settings{
		GoalMinutes:    cfg.Defaults.GoalMinutes,
		Theme:          cfg.Defaults.Theme,
		PartnerPokemon: cfg.Defaults.PartnerPokemon,
	})
	c.Services.Focus = service.NewFocusService(
		c.Repos.Focus,
		c.Repos.Progress,
		c.Services.Settings,
		c.Services.Progression,
		cfg.Focus.XPPerMinute,
		c.Hub,
	)
	c.Services.Journal = service.NewJournalService(c.Repos.Journal)

	return c, nil
}

func newIssuer(cfg config.AuthConfig) (*auth.Issuer, error) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if cfg.JWTSecret == "" {
		slog.Warn("未配置 auth.jwt_secret，使用随机密钥（重启后令牌失效）")
		return auth.NewEphemeralIssuer(cfg.Issuer, ttl)
	}
	return auth.NewIssuer(cfg.JWTSecret, cfg.Issuer, ttl)
}

// Close 关闭核心依赖资源
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			slog.Warn("关闭 Redis 失败", "error", err)
		}
	}
	var dbErr error
	if c.DB != nil {
		dbErr = c.DB.Close()
	}
	return dbErr
}
