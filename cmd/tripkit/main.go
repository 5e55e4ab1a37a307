// Package main 是 tripkit 命令行入口：serve 启动 HTTP 服务，rank 对本地 JSON 报价排序。
package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "github.com/rushteam/tripkit/config/builders"
)

var (
	// configPath 是配置文件路径，为空时只用默认值与环境变量
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tripkit",
	Short: "Flight and hotel ranking service",
	Long: `tripkit ranks flight and hotel offers with weighted, explainable scores
and extracts named recommendation slices (cheapest, fastest, best, ...).`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML); TRIPKIT_* environment variables override it")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rankCmd)
}
