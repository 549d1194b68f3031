package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Runner 管理唯一 HTTP 服务的生命周期
type Runner struct {
	http *HTTPService
}

// NewRunner 创建服务运行器
func NewRunner(http *HTTPService) *Runner {
	return &Runner{http: http}
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动 HTTP 服务并阻塞，直到退出信号或服务出错
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, logger *zap.SugaredLogger) error {
	if r == nil || r.http == nil {
		return errors.New("http service not initialized")
	}

	errCh := make(chan error, 1)
	go func() {
		if logger != nil {
			logger.Infow("http_service_start", "addr", r.http.Addr())
		}
		errCh <- r.http.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case err := <-errCh:
		runErr = err
	}

	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := r.http.Stop(stopCtx); err != nil {
		if logger != nil {
			logger.Errorw("http_service_stop_failed", "error", err)
		}
	}
	if logger != nil {
		logger.Infow("http_service_exit")
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
