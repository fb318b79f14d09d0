package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"

	"hr-agent-go/internal/agent"
	"hr-agent-go/internal/api/handler"
	"hr-agent-go/internal/api/router"
	"hr-agent-go/internal/config"
	"hr-agent-go/internal/hrtools"
	appCoreLogger "hr-agent-go/internal/logger"
	"hr-agent-go/internal/planner"
	"hr-agent-go/pkg/ratelimit"
)

var (
	version     = "1.0.0"       //nolint:gochecknoglobals
	serviceName = "hr-agent-go" //nolint:gochecknoglobals
)

// @title HR Hiring Plan Agent API
// @version 1.0
// @description 将自由文本岗位描述转换为结构化招聘方案的服务
// @BasePath /api
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	// 1. 加载配置文件
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("加载配置文件失败")
	}

	// 2. 初始化日志系统，并把 Hertz 的日志桥接到 zerolog
	initLogger(cfg)
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.Info("配置加载成功")

	// 3. 初始化推理引擎客户端（进程级单例，启动后只读）。
	// 未配置 API 密钥时回退到 Mock 模型，方便本地联调。
	var chatModel model.ToolCallingChatModel
	llmReady := false
	if cfg.Aliyun.APIKey != "" {
		qwenModel, err := agent.NewAliyunQwenChatModel(cfg.Aliyun.APIKey, cfg.Aliyun.Model, cfg.Aliyun.APIURL)
		if err != nil {
			appCoreLogger.Fatal().Err(err).Msg("初始化引擎客户端失败")
		}
		chatModel = qwenModel
		llmReady = true
		glog.Info("通义千问引擎客户端初始化成功")
	} else {
		glog.Warn("未配置阿里云 API 密钥，回退到 MockChatClient")
		chatModel = agent.NewMockChatClient("CLARIFICATION_NOT_NEEDED: 描述已足够完整。", nil)
	}

	// 4. 绑定能力注册表，让引擎知晓进程声明的具名操作
	boundModel, err := chatModel.WithTools(hrtools.ToolInfos())
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("绑定能力注册表失败")
	}
	glog.Infof("能力注册表绑定成功，共 %d 个能力", hrtools.Count())

	// 5. 为引擎调用加上 QPM 限流与有界重试（max_retries 为 0 时保持失败即终止）
	limitedModel := ratelimit.NewRateLimitedLLMModel(boundModel, cfg.Planner.QPM).
		WithRetryPolicy(time.Duration(cfg.Planner.RetryWaitSeconds)*time.Second, cfg.Planner.MaxRetries)

	// 6. 引擎调用流水存储：配置了 Redis 用 Redis，否则退化为进程内存储
	var memory agent.PlanMemory = agent.NewInMemoryPlanMemory()
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		redisMemory, err := agent.NewRedisPlanMemory(redisClient, "plan_transcript:",
			time.Duration(cfg.Redis.TranscriptTTLHours)*time.Hour)
		if err != nil {
			glog.Warnf("初始化 Redis 流水存储失败，退化为进程内存储: %v", err)
		} else {
			memory = redisMemory
			glog.Info("Redis 流水存储初始化成功")
		}
	}

	// 7. 初始化规划器并注入处理器（依赖显式传递，不走环境全局量）
	hiringPlanner, err := planner.NewHiringPlanner(limitedModel,
		planner.WithPlanMemory(memory),
		planner.WithStageTimeout(time.Duration(cfg.Planner.StageTimeoutSeconds)*time.Second),
		planner.WithJDPreviewLength(cfg.Planner.JDPreviewLength),
	)
	if err != nil {
		appCoreLogger.Fatal().Err(err).Msg("初始化规划器失败")
	}
	glog.Info("招聘方案规划器初始化成功")

	planHandler := handler.NewPlanHandler(cfg, hiringPlanner, llmReady)

	// 8. 创建 HTTP 服务器并注册路由
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})
	router.RegisterRoutes(h, planHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			appCoreLogger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	// 9. 等待终止信号并优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		appCoreLogger.Fatal().Err(err).Msg("服务器关闭失败")
	}
	glog.Info("优雅退出完成")
}

// initLogger 根据配置初始化日志系统并附加全局字段
func initLogger(cfg *config.Config) {
	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	appCoreLogger.Logger = appCoreLogger.Logger.With().
		Str("app", serviceName).
		Str("version", version).
		Logger()
}
