// Package main 是 webapi 服务的入口点。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"rollingdice-go/internal/config"
	"rollingdice-go/internal/dice"
	"rollingdice-go/internal/handler"
	"rollingdice-go/internal/middleware"
	"rollingdice-go/internal/model"
	"rollingdice-go/internal/repository"
	"rollingdice-go/internal/service"
	"rollingdice-go/pkg/database"
	"rollingdice-go/pkg/kafka"
	"rollingdice-go/pkg/log"
	"rollingdice-go/pkg/telemetry"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", "./configs/webapi.yaml", "配置文件路径")
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

	// 4. 初始化数据库，以及可选的 Redis 和 Kafka
	database.InitDB(cfg.Database, &model.Dice{})

	statsRepo := repository.NewNoopRollStatsRepository()
	if cfg.Redis.Enabled {
		database.InitRedis(cfg.Redis)
		statsRepo = repository.NewRollStatsRepository(database.RDB)
	}

	var publisher service.EventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		p := kafka.NewPublisher(cfg.Kafka)
		defer p.Close()
		publisher = p
	}

	// 5. 初始化 Repository 与 Service
	diceRepo := repository.NewDiceRepository(database.DB)
	diceService := service.NewDiceService(diceRepo, statsRepo, publisher, dice.NewRoller(), cfg.Dice.LoopFile)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS(cfg.CORS.AllowedOrigins), gin.Recovery())

	// 7. 注册路由
	handler.RegisterDiceRoutes(r, handler.NewDiceHandler(diceService))

	run(fmt.Sprintf(":%s", cfg.Server.Port), otelhttp.NewHandler(r, cfg.Telemetry.ServiceName), shutdownTracing)
}

// run 启动 HTTP 服务器，收到 SIGINT/SIGTERM 后优雅停机。
func run(addr string, h http.Handler, shutdownTracing telemetry.ShutdownFunc) {
	srv := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	go func() {
		log.Infof("webapi 服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
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
