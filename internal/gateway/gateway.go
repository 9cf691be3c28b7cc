package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jacl-coder/TerraRealm-Server/config"
	"github.com/jacl-coder/TerraRealm-Server/internal/game"
)

// Gateway 管理API网关
//
// 承载所有请求/响应式接口：注册登录、状态查询、背包、
// 拾取、转生与管理端施法。施法与转生和实时通道共用同一个
// 引擎，两个入口对相同输入产生相同的游戏状态结果。
type Gateway struct {
	config      *config.Config
	engine      *game.Engine
	broadcaster game.Broadcaster
	httpServer  *http.Server
	isRunning   bool
	shutdown    chan struct{}
}

// NewGateway 创建新的网关
func NewGateway(cfg *config.Config, engine *game.Engine, broadcaster game.Broadcaster) *Gateway {
	return &Gateway{
		config:      cfg,
		engine:      engine,
		broadcaster: broadcaster,
		shutdown:    make(chan struct{}),
	}
}

// Start 启动网关
func (g *Gateway) Start() error {
	if g.isRunning {
		return fmt.Errorf("网关已经在运行")
	}

	// 初始化HTTP服务器
	g.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", g.config.Server.GatewayPort),
		Handler: g.createHandler(),
	}

	// 启动HTTP服务器
	go func() {
		log.Printf("API网关启动，监听端口: %d", g.config.Server.GatewayPort)
		if err := g.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	g.isRunning = true
	return nil
}

// Stop 停止网关
func (g *Gateway) Stop() error {
	if !g.isRunning {
		return nil
	}

	close(g.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := g.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	g.isRunning = false
	log.Println("API网关已停止")
	return nil
}

// createHandler 创建HTTP处理器
func (g *Gateway) createHandler() http.Handler {
	mux := http.NewServeMux()

	st := g.engine.Store()

	// 创建各种处理器
	authHandler := NewAuthHandler(st, g.config.Server.JWTSecret)
	gameHandler := NewGameHandler(g.engine, g.broadcaster)
	inventoryHandler := NewInventoryHandler(g.engine)
	lootHandler := NewLootHandler(g.engine)
	chatHandler := NewChatHandler(st)
	leaderboardHandler := NewLeaderboardHandler()

	// 注册路由
	authHandler.RegisterHandlers(mux)
	gameHandler.RegisterHandlers(mux)
	inventoryHandler.RegisterHandlers(mux)
	lootHandler.RegisterHandlers(mux)
	chatHandler.RegisterHandlers(mux)
	leaderboardHandler.RegisterHandlers(mux)

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// 应用中间件
	handler := g.applyMiddleware(mux)

	return handler
}

// applyMiddleware 应用中间件
func (g *Gateway) applyMiddleware(handler http.Handler) http.Handler {
	// 创建中间件
	loggingMiddleware := NewLoggingMiddleware()
	securityMiddleware := NewSecurityMiddleware()
	corsMiddleware := NewCORSMiddleware()
	rateLimiter := NewRateLimiter(120, 20) // 每分钟120次请求，突发20次
	jwtMiddleware := NewJWTMiddleware(g.config.Server.JWTSecret)

	// 按顺序应用中间件（从外到内）
	handler = loggingMiddleware.Middleware(handler)
	handler = securityMiddleware.Middleware(handler)
	handler = corsMiddleware.Middleware(handler)
	handler = rateLimiter.Middleware(handler)
	handler = jwtMiddleware.Middleware(handler)

	return handler
}
