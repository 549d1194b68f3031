package app

import (
	"os"
	"time"

	"github.com/lgpay-gateway/internal/config"
	"github.com/lgpay-gateway/internal/logger"
	"github.com/lgpay-gateway/internal/service"

	"go.uber.org/zap"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	NotifyHook      service.NotifyHook
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	return opts
}
