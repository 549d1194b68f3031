package app

import (
	"errors"

	"github.com/lgpay-gateway/internal/config"
	"github.com/lgpay-gateway/internal/provider"
	"github.com/lgpay-gateway/internal/router"
	"github.com/lgpay-gateway/internal/service"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, hook service.NotifyHook) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg, hook)

	engine := router.SetupRouter(cfg, container)
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	httpService := NewHTTPService(addr, engine)

	return NewRunner(httpService), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.NotifyHook)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr)
	return RunWithOptions(runner, opts)
}
