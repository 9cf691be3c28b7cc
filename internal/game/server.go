package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/jacl-coder/TerraRealm-Server/config"
)

// GameServer 游戏服务器
//
// 持有全部实时连接并负责事件扇出，同时驱动世界模拟器。
type GameServer struct {
	config      *config.Config
	engine      *Engine
	simulator   *WorldSimulator
	httpServer  *http.Server
	connections map[string]*PlayerConnection
	connMutex   sync.RWMutex

	// 关闭信号
	shutdown  chan struct{}
	isRunning bool
}

// PlayerConnection 玩家连接
type PlayerConnection struct {
	ID         string
	PlayerID   int64 // 0 表示尚未认证
	LastActive time.Time

	// 发送通道
	Send chan []byte

	// 连接状态
	IsAlive bool
}

// OutboundMessage 服务器下行消息信封
type OutboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewGameServer 创建新的游戏服务器
func NewGameServer(cfg *config.Config, engine *Engine) *GameServer {
	server := &GameServer{
		config:      cfg,
		engine:      engine,
		connections: make(map[string]*PlayerConnection),
		shutdown:    make(chan struct{}),
	}
	server.simulator = NewWorldSimulator(engine, server)
	return server
}

// Engine 返回游戏引擎
func (s *GameServer) Engine() *Engine {
	return s.engine
}

// Start 启动游戏服务器
func (s *GameServer) Start() error {
	if s.isRunning {
		return fmt.Errorf("服务器已经在运行")
	}

	// 初始化HTTP服务器
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Server.GamePort),
		Handler: s.createHandler(),
	}

	// 启动HTTP服务器
	go func() {
		log.Printf("游戏服务器启动，监听端口: %d", s.config.Server.GamePort)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器错误: %v", err)
		}
	}()

	// 启动世界模拟器
	if err := s.simulator.Start(); err != nil {
		return err
	}

	s.isRunning = true
	return nil
}

// Stop 停止游戏服务器
func (s *GameServer) Stop() error {
	if !s.isRunning {
		return nil
	}

	// 发送关闭信号
	close(s.shutdown)

	// 停止世界模拟器
	s.simulator.Stop()

	// 关闭所有连接
	s.connMutex.Lock()
	for _, conn := range s.connections {
		close(conn.Send)
	}
	s.connections = make(map[string]*PlayerConnection)
	s.connMutex.Unlock()

	// 关闭HTTP服务器
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP服务器关闭错误: %w", err)
	}

	s.isRunning = false
	log.Println("游戏服务器已停止")
	return nil
}

// createHandler 创建HTTP处理器
func (s *GameServer) createHandler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket 连接端点
	mux.HandleFunc("/ws", s.handleWSConnection)

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

// sendMessage 向单个连接发送消息
//
// 读锁期间closeConnection无法关闭通道，
// 发送前的在册检查因此不会落在已关闭的通道上。
func (s *GameServer) sendMessage(player *PlayerConnection, msgType string, data interface{}) {
	payload, err := json.Marshal(OutboundMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}

	s.connMutex.RLock()
	defer s.connMutex.RUnlock()

	if _, ok := s.connections[player.ID]; !ok {
		// 连接已关闭
		return
	}

	select {
	case player.Send <- payload:
		// 消息已发送到通道
	default:
		// 通道已满，关闭连接
		go s.closeConnection(player)
	}
}

// sendError 向单个连接回复错误，不影响其他连接
func (s *GameServer) sendError(player *PlayerConnection, message string) {
	s.sendMessage(player, "error", map[string]string{"message": message})
}

// Broadcast 向所有连接广播消息
func (s *GameServer) Broadcast(msgType string, data interface{}) {
	s.broadcast(msgType, data, "")
}

// BroadcastExcept 向除指定连接外的所有连接广播消息
func (s *GameServer) BroadcastExcept(connID string, msgType string, data interface{}) {
	s.broadcast(msgType, data, connID)
}

// broadcast 扇出实现，exceptID为空时发给所有连接
func (s *GameServer) broadcast(msgType string, data interface{}, exceptID string) {
	payload, err := json.Marshal(OutboundMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("序列化消息失败: %v", err)
		return
	}

	s.connMutex.RLock()
	defer s.connMutex.RUnlock()

	for id, player := range s.connections {
		if id == exceptID {
			continue
		}
		select {
		case player.Send <- payload:
			// 消息已发送到通道
		default:
			// 通道已满，关闭连接
			go s.closeConnection(player)
		}
	}
}
