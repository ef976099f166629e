package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/trainerhub/internal/bootstrap"
	"github.com/yuqie6/trainerhub/internal/service"
)

// xpCmd 直接操作本地库的经验命令
func xpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xp",
		Short: "经验管理",
	}
	cmd.AddCommand(xpGainCmd())
	cmd.AddCommand(xpLogCmd())
	return cmd
}

func xpGainCmd() *cobra.Command {
	var (
		userID    int64
		pokemonID int64
		delta     int64
		reason    string
	)

	cmd := &cobra.Command{
		Use:   "gain",
		Short: "给宝可梦增加（或扣减）经验",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := bootstrap.NewCore(cfgFile)
			if err != nil {
				return err
			}
			defer core.Close()

			res, err := core.Services.Progression.GainXP(context.Background(), service.GainXPInput{
				OwnerID:   userID,
				PokemonID: pokemonID,
				Delta:     delta,
				Reason:    reason,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := res.Progress
			fmt.Fprintf(out, "✅ #%d  XP %d  Lv.%d\n", p.PokemonID, p.XP, p.Level)
			if res.LeveledUp {
				fmt.Fprintf(out, "🎉 升级：Lv.%d → Lv.%d\n", res.PreviousLevel, p.Level)
			}
			if res.AuditMissing {
				fmt.Fprintln(out, "⚠️  经验流水写入失败，本次变更未入账")
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "用户 ID")
	cmd.Flags().Int64Var(&pokemonID, "pokemon", 0, "宝可梦编号")
	cmd.Flags().Int64Var(&delta, "delta", 0, "经验变化量（可为负）")
	cmd.Flags().StringVar(&reason, "reason", "", "原因，默认 \"XP for <pokemon>\"")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pokemon")
	_ = cmd.MarkFlagRequired("delta")
	return cmd
}

func xpLogCmd() *cobra.Command {
	var (
		userID int64
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "查看经验流水（新到旧）",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := bootstrap.NewCore(cfgFile)
			if err != nil {
				return err
			}
			defer core.Close()

			logs, err := core.Services.Progression.ListLedger(context.Background(), userID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "📚 暂无经验流水")
				return nil
			}
			for _, l := range logs {
				fmt.Fprintf(out, "%s  %+6d  %s\n", l.Time().Format(time.DateTime), l.Delta, l.Reason)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "用户 ID")
	cmd.Flags().IntVar(&limit, "limit", 20, "最多显示条数，0 表示全部")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
