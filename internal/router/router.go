package router

import (
	"fmt"
	"strings"

	"github.com/lgpay-gateway/internal/cache"
	"github.com/lgpay-gateway/internal/config"
	publichandlers "github.com/lgpay-gateway/internal/http/handlers/public"
	"github.com/lgpay-gateway/internal/logger"
	"github.com/lgpay-gateway/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order", strings.TrimSpace(cache.Prefix())),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		payments := apiV1.Group("/payments")
		{
			payments.POST("/orders", RateLimitMiddleware(cache.Client(), orderRule, KeyByIP), publicHandler.CreateOrder)
			payments.POST("/razorpay/orders", RateLimitMiddleware(cache.Client(), orderRule, KeyByIP), publicHandler.CreateRazorpayOrder)
			payments.POST("/notify", publicHandler.PaymentNotify)
			payments.GET("/notify", publicHandler.PaymentNotify)
			payments.POST("/webhook/razorpay", publicHandler.RazorpayWebhook)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
