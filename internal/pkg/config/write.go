package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("获取可执行文件路径失败: %w", err)
	}
	exeDir := filepath.Dir(exe)
	return filepath.Join(exeDir, "config", "config.yaml"), nil
}

func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg 不能为空")
	}
	if path == "" {
		return fmt.Errorf("path 不能为空")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	thresholds := cfg.Progression.LevelThresholds
	if thresholds == nil {
		thresholds = []int64{}
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"version":   cfg.App.Version,
			"log_level": cfg.App.LogLevel,
		},
		"server": map[string]any{
			"listen_addr":             cfg.Server.ListenAddr,
			"read_header_timeout_sec": cfg.Server.ReadHeaderTimeoutSec,
		},
		"storage": map[string]any{
			"db_path": cfg.Storage.DBPath,
		},
		"auth": map[string]any{
			"jwt_secret":      cfg.Auth.JWTSecret,
			"issuer":          cfg.Auth.Issuer,
			"token_ttl_hours": cfg.Auth.TokenTTLHours,
		},
		"ledger": map[string]any{
			"backend":        cfg.Ledger.Backend,
			"redis_addr":     cfg.Ledger.RedisAddr,
			"redis_password": cfg.Ledger.RedisPassword,
			"redis_db":       cfg.Ledger.RedisDB,
			"append_retries": cfg.Ledger.AppendRetries,
		},
		"progression": map[string]any{
			"max_conflict_retries": cfg.Progression.MaxConflictRetries,
			"level_thresholds":     thresholds,
		},
		"defaults": map[string]any{
			"goal_minutes":    cfg.Defaults.GoalMinutes,
			"theme":           cfg.Defaults.Theme,
			"partner_pokemon": cfg.Defaults.PartnerPokemon,
		},
		"focus": map[string]any{
			"xp_per_minute": cfg.Focus.XPPerMinute,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
