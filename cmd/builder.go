package cmd

import (
	"net/http"

	"rehoming/api"
	"rehoming/api/health"
	apiperson "rehoming/api/person"
	"rehoming/config"
	"rehoming/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg          *config.Config
	components   *Components
	controllers  []api.ControllerRegister
	middlewares  []api.MiddlewareRegister
	customRoutes []api.Route
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:          cfg,
		controllers:  []api.ControllerRegister{},
		middlewares:  []api.MiddlewareRegister{},
		customRoutes: []api.Route{},
	}
}

// WithComponents 使用外部构造好的依赖（测试中传入内存存储）
func (b *AppBuilder) WithComponents(c *Components) *AppBuilder {
	b.components = c
	return b
}

func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

func (b *AppBuilder) WithMiddleware(m api.MiddlewareRegister) *AppBuilder {
	b.middlewares = append(b.middlewares, m)
	return b
}

func (b *AppBuilder) WithRoute(method, path string, handler gin.HandlerFunc) *AppBuilder {
	b.customRoutes = append(b.customRoutes, api.Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
	return b
}

// Build 调用前 logger 必须已经初始化
func (b *AppBuilder) Build() (*App, error) {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Driver))

	if b.components == nil {
		components, err := NewComponents(b.cfg)
		if err != nil {
			return nil, err
		}
		b.components = components
	}
	c := b.components

	controllers := append([]api.ControllerRegister{
		health.NewController(b.cfg, c.DB),
		apiperson.NewController(c.PersonService),
	}, b.controllers...)

	router := api.NewRouter(b.cfg, c.Metrics, c.Registry, controllers, b.middlewares, b.customRoutes)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:     b.cfg,
		router:     router,
		server:     server,
		components: c,
	}, nil
}
