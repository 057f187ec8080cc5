package main

import (
	"fmt"
	"os"

	"modeladmin/config"
	"modeladmin/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title 模型后台 API
// @version 1.0
// @description 通用模型视图集后台的 JSON 接口：菜单与当前管理员信息
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "modeladmin",
	Short:   "通用模型视图集后台",
	Version: version,
	Long: `modeladmin 为 gorm 模型自动生成后台增删改查页面、菜单和导出功能。

不带子命令运行时启动 HTTP 服务。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 先用默认 logger 记录配置加载过程
		boot, err := logger.New("info", "console", verbose)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		logger.Install(boot)

		cfg, err = config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		log, err = logger.New(level, cfg.Log.Encoding, cfg.Server.Mode == "debug")
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}
		logger.Install(log)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	serveCmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, menuCmd, templatesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
