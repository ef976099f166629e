package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yuqie6/trainerhub/internal/pkg/buildinfo"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trainerhub",
		Short:         "TrainerHub - 专注、日记与宝可梦养成后端",
		Long:          `TrainerHub 把专注时长折算为经验，驱动宝可梦升级，并保留完整的经验流水。`,
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(xpCmd())
	rootCmd.AddCommand(configCmd())

	rootCmd.SetVersionTemplate(fmt.Sprintf("trainerhub %s\n", buildinfo.String()))
	return rootCmd
}
