package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"rehoming/api"
	"rehoming/config"
	"rehoming/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	router     *api.Router
	server     *http.Server
	components *Components
}

// Run 阻塞直到收到 SIGINT/SIGTERM，然后在 shutdown_timeout 内优雅关闭
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	return a.Shutdown()
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if closeErr := a.components.Close(); closeErr != nil {
		logger.Warn("Failed to close database", zap.Error(closeErr))
	}
	logger.Info("Server stopped")
	return err
}

// GetEngine 测试用
func (a *App) GetEngine() *gin.Engine {
	return a.router.GetEngine()
}
