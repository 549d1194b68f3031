package provider

import (
	"github.com/lgpay-gateway/internal/config"
	"github.com/lgpay-gateway/internal/logger"
	"github.com/lgpay-gateway/internal/payment/razorpay"
	"github.com/lgpay-gateway/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	RazorpayClient razorpay.Client
	PaymentService *service.PaymentService
}

// NewContainer 构建依赖容器
// NotifyHook 由部署方注入业务逻辑，核心只负责验签后转交。
func NewContainer(cfg *config.Config, hook service.NotifyHook) *Container {
	container := &Container{Config: cfg}

	if cfg.Razorpay.Enabled {
		rzConfig := &razorpay.Config{
			KeyID:         cfg.Razorpay.KeyID,
			KeySecret:     cfg.Razorpay.KeySecret,
			WebhookSecret: cfg.Razorpay.WebhookSecret,
			Currency:      cfg.Razorpay.Currency,
		}
		rzConfig.Normalize()
		client, err := razorpay.NewClient(rzConfig)
		if err != nil {
			logger.Warnw("razorpay_client_init_failed", "error", err)
		} else {
			container.RazorpayClient = client
		}
	}

	container.PaymentService = service.NewPaymentService(
		cfg.Gateway,
		container.RazorpayClient,
		cfg.Razorpay.Currency,
		hook,
	)
	return container
}
