package main

import (
	"os"
	"strings"
	"syscall"

	"github.com/lgpay-gateway/internal/app"
	"github.com/lgpay-gateway/internal/cache"
	"github.com/lgpay-gateway/internal/config"
	"github.com/lgpay-gateway/internal/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.Gateway.SecretKey) {
			stdLog.Fatalf("网关密钥过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if cfg.Gateway.SecretKey != "" && isWeakSecret(cfg.Gateway.SecretKey) {
		stdLog.Printf("警告: 网关密钥过弱或仍为默认值，建议在生产环境中更换 (当前: %s)", logger.MaskSecret(cfg.Gateway.SecretKey))
	}

	// 初始化 Redis（限流依赖，未启用时自动跳过）
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		stdLog.Printf("警告: Redis 初始化失败，限流已禁用: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func isWeakSecret(secret string) bool {
	if len(secret) < 16 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}
