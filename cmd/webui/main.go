// Package main 是 webui 服务的入口点。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"rollingdice-go/internal/config"
	"rollingdice-go/internal/handler"
	"rollingdice-go/internal/middleware"
	"rollingdice-go/internal/service"
	"rollingdice-go/internal/view"
	"rollingdice-go/pkg/diceapi"
	"rollingdice-go/pkg/log"
	"rollingdice-go/pkg/telemetry"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", "./configs/webui.yaml", "配置文件路径")
	flag.Parse()

	// 1. 初始化配置
	config.Init(*configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	// 3. 初始化链路追踪
	shutdownTracing, err := telemetry.Init(context.Background(), cfg.Telemetry)
	if err != nil {
		log.Fatal("链路追踪初始化失败", err)
	}

	// 4. 初始化 webapi 客户端与 Service，客户端请求会传播 trace 上下文
	client := diceapi.NewClient(cfg.WebAPI, otelhttp.NewTransport(http.DefaultTransport))
	webUIService := service.NewWebUIService(client)

	// 5. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 6. 注册路由
	pageHandler := handler.NewPageHandler(webUIService, view.MustPageRenderer(), cfg.Faro)
	handler.RegisterPageRoutes(r, pageHandler, http.FS(view.StaticFS()))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: otelhttp.NewHandler(r, cfg.Telemetry.ServiceName),
	}

	go func() {
		log.Infof("webui 服务启动于 %s, webapi=%s", srv.Addr, cfg.WebAPI.Host)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Errorf("TracerProvider 关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}
