package router

import (
	"net/http"
	"strings"

	"modeladmin/api"
	"modeladmin/config"
	_ "modeladmin/docs"
	"modeladmin/logger"
	"modeladmin/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// SetupRouter 设置路由。limiter 为 nil 时登录不限流
func SetupRouter(cfg *config.Config, site *api.Site, limiter *middleware.LoginLimiter) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	log := zap.L()
	metrics := middleware.NewMetrics()

	r := gin.New()
	r.Use(middleware.RequestID(), logger.GinLogger(log), logger.GinRecovery(log), metrics.Middleware())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, site.URL(""))
	})

	admin := r.Group(site.Registry.Root())
	{
		authHandler := api.NewAuthHandler(site, cfg)
		login := admin.Group("/login")
		if limiter != nil {
			login.Use(limiter.Middleware())
		}
		login.GET("/", authHandler.LoginPage)
		login.POST("/", authHandler.Login)
		admin.POST("/logout/", authHandler.Logout)

		// 需要会话 Cookie 的后台页面
		pages := admin.Group("")
		pages.Use(middleware.AdminSession(site.LoginURL()))
		{
			pages.GET("/", api.NewHomeHandler(site).Index)
			for _, vs := range site.Registry.ViewSets() {
				api.NewViewSetHandler(site, vs).Register(pages)
			}
		}

		// 后台 JSON 接口
		apiGroup := admin.Group("/api")
		apiGroup.Use(CORSMiddleware(cfg.Admin.CORSOrigins), middleware.JWTAuth())
		{
			apiGroup.GET("/menu", api.NewMenuHandler(site).List)
			apiGroup.GET("/profile", authHandler.GetProfile)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus 指标
	r.GET("/metrics", metrics.Handler())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件，只对白名单内的 Origin 放行并允许携带凭证
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins[o] = true
		}
	}
	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		origin := c.GetHeader("Origin")
		if origin == "" || !origins[origin] {
			c.Next()
			return
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
