package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/trainerhub/internal/bootstrap"
	"github.com/yuqie6/trainerhub/internal/httpapi"
	"github.com/yuqie6/trainerhub/internal/pkg/config"
)

// serveCmd 启动 HTTP 服务
func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			core, err := bootstrap.NewCore(cfgFile)
			if err != nil {
				slog.Error("初始化失败", "error", err)
				return err
			}
			defer core.Close()

			if core.DB.SafeMode {
				slog.Warn("数据库处于安全模式，仅 /health 可用", "reason", core.DB.MigrationError)
			}

			if src := core.Cfg.Source; src != "" {
				err := config.Watch(ctx, src, func(next *config.Config) {
					config.SetLogLevel(next.App.LogLevel)
				})
				if err != nil {
					slog.Warn("配置热更新未启用", "path", src, "error", err)
				}
			}

			addr := core.Cfg.Server.ListenAddr
			if listen != "" {
				addr = listen
			}
			srv, err := httpapi.Start(ctx, core, httpapi.Options{
				ListenAddr:        addr,
				ReadHeaderTimeout: time.Duration(core.Cfg.Server.ReadHeaderTimeoutSec) * time.Second,
			})
			if err != nil {
				slog.Error("启动 HTTP 服务失败", "addr", addr, "error", err)
				return err
			}

			<-ctx.Done()
			slog.Info("正在停止服务...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "监听地址，覆盖 server.listen_addr")
	return cmd
}
