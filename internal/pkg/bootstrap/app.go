// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"

	"quoteengine/internal/pkg/logger"
	"quoteengine/internal/pkg/nacos"
	"quoteengine/internal/pkg/tracing"
)

type AppCtx struct {
	Mux      *http.ServeMux
	Config   *Config
	Registry *prometheus.Registry

	shutdown *shutdownHooks
}

// OnShutdown 注册一个关停时执行的清理函数，按注册顺序逆序执行。
func (a AppCtx) OnShutdown(name string, fn func(ctx context.Context) error) {
	a.shutdown.add(name, fn)
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) // 一个函数，允许每个服务注册自己独特的 HTTP 路由
}

type shutdownHook struct {
	name string
	fn   func(ctx context.Context) error
}

type shutdownHooks struct {
	mu    sync.Mutex
	hooks []shutdownHook
}

func (s *shutdownHooks) add(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, shutdownHook{name: name, fn: fn})
}

// run 后进先出
func (s *shutdownHooks) run(ctx context.Context) {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i].fn(ctx); err != nil {
			zlog.Error().Err(err).Str("component", hooks[i].name).Msg("shutdown hook failed")
			continue
		}
		zlog.Info().Str("component", hooks[i].name).Msg("shut down")
	}
}

// NewAppCtx 创建路由、指标注册表以及 /healthz 和 /metrics 两个通用端点。
func NewAppCtx(cfg *Config) AppCtx {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return AppCtx{Mux: mux, Config: cfg, Registry: registry, shutdown: &shutdownHooks{}}
}

// Handler 返回带有 recover 和日志中间件的根 handler。
func (a AppCtx) Handler() http.Handler {
	return logger.Middleware(logger.Recover(a.Mux))
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()
	port := info.Port
	if cfg.Server.Port != 0 {
		port = cfg.Server.Port
	}

	// 1. Tracer
	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint, cfg.Infra.Jaeger.SampleRatio)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	appCtx := NewAppCtx(cfg)
	appCtx.OnShutdown("tracer-provider", tp.Shutdown)

	// 2. 注册业务路由
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(appCtx)
	}

	// 3. 可选的 Nacos 注册
	if cfg.Infra.Nacos.Enabled {
		registerNacos(appCtx, info.ServiceName, port)
	}

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      appCtx.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zlog.Info().Msgf("%s listening on :%d", info.ServiceName, port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	// 4. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// 先停止接收请求，再按逆序关闭依赖
	if err := server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("Error shutting down http server")
	}
	appCtx.shutdown.run(ctx)

	zlog.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

func registerNacos(appCtx AppCtx, serviceName string, port int) {
	n := appCtx.Config.Infra.Nacos
	client, err := nacos.NewNacosClient(n.ServerAddrs, n.Namespace, n.Group)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize nacos client")
	}

	ip, err := GetOutboundIP()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to get outbound IP address")
	}
	if err := client.RegisterServiceInstance(serviceName, ip, port); err != nil {
		zlog.Fatal().Err(err).Msg("failed to register service with nacos")
	}

	appCtx.OnShutdown("nacos", func(ctx context.Context) error {
		defer client.Close()
		return client.DeregisterServiceInstance(serviceName, ip, port)
	})
}

// GetOutboundIP 通过一次 UDP "连接" 得到本机对外的 IP，不会真正发送数据。
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
