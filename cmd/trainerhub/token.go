package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/trainerhub/internal/auth"
	"github.com/yuqie6/trainerhub/internal/pkg/config"
)

// tokenCmd 为开发调试签发访问令牌
func tokenCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "token",
		Short: "为指定用户签发访问令牌（开发用）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("未配置 auth.jwt_secret，无法签发可被服务端校验的令牌")
			}

			issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
			if err != nil {
				return err
			}
			token, err := issuer.Issue(userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "用户 ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
