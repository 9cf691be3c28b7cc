// websocket.go

package game

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

const (
	// 写入超时时间
	writeWait = 10 * time.Second

	// 读取超时时间
	pongWait = 60 * time.Second

	// 发送 ping 的间隔时间
	pingPeriod = (pongWait * 9) / 10

	// 最大消息大小
	maxMessageSize = 64 * 1024 // 64KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 允许所有跨域请求
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message 实时消息信封
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// 实时消息载荷

type authenticateData struct {
	PlayerID int64 `json:"player_id"`
}

type chatData struct {
	Message string `json:"message"`
	Channel string `json:"channel"`
}

type moveData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
}

type useAbilityData struct {
	AbilityName string `json:"ability_name"`
	TargetID    string `json:"target_id,omitempty"`
}

type playerPositionData struct {
	PlayerID int64   `json:"player_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Rotation float64 `json:"rotation"`
}

// handleWSConnection 处理WebSocket连接
//
// 连接建立时不要求身份，身份由后续 authenticate 消息声明。
func (s *GameServer) handleWSConnection(w http.ResponseWriter, r *http.Request) {
	// 升级HTTP连接为WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket升级失败: %v", err)
		return
	}

	// 创建玩家连接
	playerConn := &PlayerConnection{
		ID:         uuid.New().String(),
		LastActive: time.Now(),
		Send:       make(chan []byte, 256),
		IsAlive:    true,
	}

	// 添加到连接列表
	s.connMutex.Lock()
	s.connections[playerConn.ID] = playerConn
	s.connMutex.Unlock()

	log.Printf("新连接 %s 已建立", playerConn.ID)

	// 启动读写协程
	go s.readPump(conn, playerConn)
	go s.writePump(conn, playerConn)
}

// readPump 从WebSocket读取数据
func (s *GameServer) readPump(conn *websocket.Conn, player *PlayerConnection) {
	defer func() {
		s.closeConnection(player)
		conn.Close()
	}()

	// 设置读取参数
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket错误: %v", err)
			}
			break
		}

		player.LastActive = time.Now()

		// 处理接收到的消息
		s.handleMessage(player, message)
	}
}

// writePump 向WebSocket写入数据
func (s *GameServer) writePump(conn *websocket.Conn, player *PlayerConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-player.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection 关闭玩家连接
func (s *GameServer) closeConnection(player *PlayerConnection) {
	s.connMutex.Lock()
	defer s.connMutex.Unlock()

	// 检查连接是否已关闭
	if _, ok := s.connections[player.ID]; !ok {
		return
	}

	// 关闭发送通道
	close(player.Send)

	// 从连接列表移除
	delete(s.connections, player.ID)

	// 已认证的连接断开时标记玩家离线
	if player.PlayerID != 0 {
		if err := s.engine.store.SetPlayerOnline(player.PlayerID, false); err != nil {
			log.Printf("标记玩家 %d 离线失败: %v", player.PlayerID, err)
		}
		log.Printf("玩家 %d 已断开连接", player.PlayerID)
	} else {
		log.Printf("连接 %s 已断开", player.ID)
	}
}

// handleMessage 处理接收到的消息
//
// 解析失败只回复错误给发送方，连接保持打开，
// 不影响其他连接上的任何操作。
func (s *GameServer) handleMessage(player *PlayerConnection, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(player, "invalid message format")
		return
	}

	switch msg.Type {
	case "authenticate":
		s.handleAuthenticate(player, msg.Data)
	case "chat_message":
		s.handleChatMessage(player, msg.Data)
	case "player_move":
		s.handlePlayerMove(player, msg.Data)
	case "use_ability":
		s.handleUseAbility(player, msg.Data)
	default:
		s.sendError(player, "unknown message type")
	}
}

// handleAuthenticate 处理身份声明
//
// 核心不做密码学校验，身份由客户端声明（见网关层的令牌验证）。
func (s *GameServer) handleAuthenticate(player *PlayerConnection, data json.RawMessage) {
	var auth authenticateData
	if err := json.Unmarshal(data, &auth); err != nil || auth.PlayerID == 0 {
		s.sendError(player, "invalid authenticate payload")
		return
	}

	player.PlayerID = auth.PlayerID

	if err := s.engine.store.SetPlayerOnline(auth.PlayerID, true); err != nil {
		log.Printf("标记玩家 %d 在线失败: %v", auth.PlayerID, err)
	}

	log.Printf("连接 %s 认证为玩家 %d", player.ID, auth.PlayerID)
}

// handleChatMessage 处理聊天消息，广播给所有连接
func (s *GameServer) handleChatMessage(player *PlayerConnection, data json.RawMessage) {
	if player.PlayerID == 0 {
		s.sendError(player, "not authenticated")
		return
	}

	var chat chatData
	if err := json.Unmarshal(data, &chat); err != nil || chat.Message == "" {
		s.sendError(player, "invalid chat payload")
		return
	}
	if chat.Channel == "" {
		chat.Channel = "world"
	}

	msg := &models.ChatMessage{
		ID:        uuid.New().String(),
		PlayerID:  player.PlayerID,
		Message:   chat.Message,
		Channel:   chat.Channel,
		CreatedAt: time.Now(),
	}

	if sender, err := s.engine.store.GetPlayer(player.PlayerID); err == nil {
		msg.Username = sender.Username
	}

	if err := s.engine.store.CreateChatMessage(msg); err != nil {
		log.Printf("保存聊天消息失败: %v", err)
		s.sendError(player, "failed to send message")
		return
	}

	s.Broadcast("chat_message", msg)
}

// handlePlayerMove 处理移动，广播给除发送方外的所有连接
func (s *GameServer) handlePlayerMove(player *PlayerConnection, data json.RawMessage) {
	if player.PlayerID == 0 {
		s.sendError(player, "not authenticated")
		return
	}

	var move moveData
	if err := json.Unmarshal(data, &move); err != nil {
		s.sendError(player, "invalid move payload")
		return
	}

	pos := models.Vector3D{X: move.X, Y: move.Y, Z: move.Z}
	if err := s.engine.store.UpdatePlayerPosition(player.PlayerID, pos, move.Rotation); err != nil {
		log.Printf("更新玩家 %d 位置失败: %v", player.PlayerID, err)
		return
	}

	s.BroadcastExcept(player.ID, "player_position", playerPositionData{
		PlayerID: player.PlayerID,
		X:        move.X,
		Y:        move.Y,
		Z:        move.Z,
		Rotation: move.Rotation,
	})
}

// handleUseAbility 处理施法请求
//
// 结果只回给发送方；施法成功时额外向其他连接广播战斗事件。
func (s *GameServer) handleUseAbility(player *PlayerConnection, data json.RawMessage) {
	if player.PlayerID == 0 {
		s.sendError(player, "not authenticated")
		return
	}

	var use useAbilityData
	if err := json.Unmarshal(data, &use); err != nil || use.AbilityName == "" {
		s.sendError(player, "invalid ability payload")
		return
	}

	result, err := s.engine.UseAbility(player.PlayerID, use.AbilityName, use.TargetID)
	if err != nil {
		log.Printf("玩家 %d 施法处理失败: %v", player.PlayerID, err)
		s.sendError(player, "internal error")
		return
	}

	s.sendMessage(player, "ability_result", result)

	if result.Success {
		s.BroadcastExcept(player.ID, "combat_action", result)
	}
}
