package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"modeladmin/api"
	"modeladmin/config"
	"modeladmin/database"
	"modeladmin/middleware"
	"modeladmin/router"
	"modeladmin/templates"
	"modeladmin/testapp"
	"modeladmin/viewset"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动后台 HTTP 服务",
	RunE:  runServe,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "打印后台菜单 JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := buildSite(cfg, nil)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(site.Registry.Menu(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "打印每个视图集各视图解析到的模板",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := buildSite(cfg, nil)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAMESPACE\tVIEW\tURL\tTEMPLATE")
		for _, vs := range site.Registry.ViewSets() {
			for _, rt := range site.Resolver.ResolveAll(vs.Settings(), vs.Model) {
				url := vs.URL(rt.Kind, "{pk}")
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", vs.Namespace(), rt.Kind, url, rt.Path)
			}
		}
		return w.Flush()
	},
}

// buildSite 注册视图集并创建模板引擎。db 为 nil 时只可用于离线命令
func buildSite(cfg *config.Config, db *gorm.DB) (*api.Site, error) {
	reg := viewset.NewRegistry(cfg.Admin.Root)
	if path := strings.TrimSpace(cfg.Admin.OverridesFile); path != "" {
		overrides, err := viewset.LoadOverridesFile(path)
		if err != nil {
			return nil, err
		}
		reg.SetOverrides(overrides)
		zap.L().Info("已加载视图集覆盖配置", zap.String("file", path), zap.Int("count", len(overrides)))
	}
	if err := testapp.Register(reg, db); err != nil {
		return nil, fmt.Errorf("注册视图集失败: %w", err)
	}

	engine, err := templates.New(
		templates.WithDir(cfg.Admin.TemplateDir),
		templates.WithFS(testapp.Templates()),
		templates.WithDebug(cfg.Server.Mode == "debug"),
		templates.WithGlobals(map[string]any{"site_name": cfg.Server.SiteName}),
	)
	if err != nil {
		return nil, fmt.Errorf("初始化模板失败: %w", err)
	}
	return api.NewSite(cfg.Server.SiteName, reg, engine), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// 命令行参数覆盖端口配置
	if port != "" {
		// 自动添加冒号前缀
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		zap.L().Info("命令行指定端口", zap.String("port", port))
	}

	config.PrintConfig()

	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	middleware.InitJWT(cfg)

	site, err := buildSite(cfg, database.GetDB())
	if err != nil {
		return err
	}

	limiter := middleware.NewLoginLimiter(cfg.Admin.LoginRateLimit, time.Minute)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, site, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("后台已启动",
			zap.String("admin", "http://localhost"+cfg.Server.Port+site.URL("")),
			zap.String("swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
