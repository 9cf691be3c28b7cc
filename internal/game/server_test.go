// server_test.go

package game

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jacl-coder/TerraRealm-Server/config"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

func newTestServer(fake *fakeStore) *GameServer {
	cfg := &config.Config{
		Server: config.ServerConfig{GamePort: 0, GatewayPort: 0},
		Game:   testGameConfig(),
	}
	return NewGameServer(cfg, newTestEngine(fake))
}

// addTestConnection 注册一个测试连接
func (s *GameServer) addTestConnection(id string, playerID int64) *PlayerConnection {
	conn := &PlayerConnection{
		ID:         id,
		PlayerID:   playerID,
		LastActive: time.Now(),
		Send:       make(chan []byte, 16),
		IsAlive:    true,
	}
	s.connMutex.Lock()
	s.connections[id] = conn
	s.connMutex.Unlock()
	return conn
}

// readOutbound 取出连接上待发送的下一条消息
func readOutbound(t *testing.T, conn *PlayerConnection) *Message {
	t.Helper()
	select {
	case payload := <-conn.Send:
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("解析下行消息失败: %v", err)
		}
		return &msg
	default:
		t.Fatal("连接上没有待发送的消息")
		return nil
	}
}

// assertNoOutbound 确认连接上没有待发送的消息
func assertNoOutbound(t *testing.T, conn *PlayerConnection) {
	t.Helper()
	select {
	case payload := <-conn.Send:
		t.Fatalf("连接上不应有消息, 收到: %s", payload)
	default:
	}
}

func TestHandleMessageMalformed(t *testing.T) {
	server := newTestServer(newFakeStore())
	conn := server.addTestConnection("c1", 0)

	server.handleMessage(conn, []byte("{not json"))

	msg := readOutbound(t, conn)
	if msg.Type != "error" {
		t.Errorf("消息类型 = %s, 期望 error", msg.Type)
	}

	var body map[string]string
	json.Unmarshal(msg.Data, &body)
	if body["message"] != "invalid message format" {
		t.Errorf("错误内容 = %q, 期望 %q", body["message"], "invalid message format")
	}

	// 出错的连接保持注册状态
	server.connMutex.RLock()
	_, stillThere := server.connections["c1"]
	server.connMutex.RUnlock()
	if !stillThere {
		t.Error("解析失败不应断开连接")
	}
}

func TestHandleMessageUnknownType(t *testing.T) {
	server := newTestServer(newFakeStore())
	conn := server.addTestConnection("c1", 0)

	server.handleMessage(conn, []byte(`{"type":"teleport","data":{}}`))

	msg := readOutbound(t, conn)
	if msg.Type != "error" {
		t.Errorf("消息类型 = %s, 期望 error", msg.Type)
	}
}

func TestHandleAuthenticate(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 7, Username: "earthwalker"})
	server := newTestServer(fake)
	conn := server.addTestConnection("c1", 0)

	server.handleMessage(conn, []byte(`{"type":"authenticate","data":{"player_id":7}}`))

	if conn.PlayerID != 7 {
		t.Errorf("连接玩家ID = %d, 期望 7", conn.PlayerID)
	}
	stored, _ := fake.GetPlayer(7)
	if !stored.IsOnline {
		t.Error("认证后应标记玩家在线")
	}
	assertNoOutbound(t, conn)
}

func TestHandleChatRequiresAuth(t *testing.T) {
	server := newTestServer(newFakeStore())
	conn := server.addTestConnection("c1", 0)

	server.handleMessage(conn, []byte(`{"type":"chat_message","data":{"message":"hi"}}`))

	msg := readOutbound(t, conn)
	if msg.Type != "error" {
		t.Errorf("消息类型 = %s, 期望 error", msg.Type)
	}

	var body map[string]string
	json.Unmarshal(msg.Data, &body)
	if body["message"] != "not authenticated" {
		t.Errorf("错误内容 = %q, 期望 %q", body["message"], "not authenticated")
	}
}

func TestHandleChatBroadcast(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 7, Username: "earthwalker"})
	server := newTestServer(fake)
	sender := server.addTestConnection("c1", 7)
	other := server.addTestConnection("c2", 8)

	server.handleMessage(sender, []byte(`{"type":"chat_message","data":{"message":"hello terra"}}`))

	// 聊天广播给包括发送方在内的所有连接
	for _, conn := range []*PlayerConnection{sender, other} {
		msg := readOutbound(t, conn)
		if msg.Type != "chat_message" {
			t.Fatalf("消息类型 = %s, 期望 chat_message", msg.Type)
		}
		var chat models.ChatMessage
		json.Unmarshal(msg.Data, &chat)
		if chat.Message != "hello terra" || chat.Username != "earthwalker" {
			t.Errorf("聊天内容 = %+v", chat)
		}
		if chat.Channel != "world" {
			t.Errorf("默认频道 = %s, 期望 world", chat.Channel)
		}
	}

	// 消息已持久化
	if len(fake.chat) != 1 {
		t.Errorf("保存了 %d 条聊天记录, 期望 1", len(fake.chat))
	}
}

func TestHandlePlayerMove(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 7, Username: "earthwalker"})
	server := newTestServer(fake)
	sender := server.addTestConnection("c1", 7)
	other := server.addTestConnection("c2", 8)

	server.handleMessage(sender, []byte(`{"type":"player_move","data":{"x":10,"y":0,"z":-5,"rotation":90}}`))

	stored, _ := fake.GetPlayer(7)
	if stored.Position.X != 10 || stored.Position.Z != -5 || stored.Rotation != 90 {
		t.Errorf("位置未更新: %+v", stored.Position)
	}

	// 位置只广播给其他连接
	assertNoOutbound(t, sender)
	msg := readOutbound(t, other)
	if msg.Type != "player_position" {
		t.Fatalf("消息类型 = %s, 期望 player_position", msg.Type)
	}
	var pos playerPositionData
	json.Unmarshal(msg.Data, &pos)
	if pos.PlayerID != 7 || pos.X != 10 {
		t.Errorf("位置内容 = %+v", pos)
	}
}

func TestHandleUseAbilityOverWire(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{
		ID: 7, Username: "earthwalker",
		Level: 10, Aura: 500, MaxAura: 525,
		Zone: "terra_plains",
	})
	server := newTestServer(fake)
	sender := server.addTestConnection("c1", 7)
	other := server.addTestConnection("c2", 8)

	server.handleMessage(sender, []byte(`{"type":"use_ability","data":{"ability_name":"Stone Bullet"}}`))

	// 结果回给发送方
	msg := readOutbound(t, sender)
	if msg.Type != "ability_result" {
		t.Fatalf("消息类型 = %s, 期望 ability_result", msg.Type)
	}
	var result AbilityResult
	json.Unmarshal(msg.Data, &result)
	if !result.Success {
		t.Fatalf("施法失败: %s", result.Message)
	}

	// 成功时向其他连接广播战斗事件
	combat := readOutbound(t, other)
	if combat.Type != "combat_action" {
		t.Errorf("消息类型 = %s, 期望 combat_action", combat.Type)
	}
	assertNoOutbound(t, sender)
}

func TestSendMessageAfterClose(t *testing.T) {
	server := newTestServer(newFakeStore())
	conn := server.addTestConnection("c1", 0)

	server.closeConnection(conn)

	// 已关闭的连接不再在册, 发送应被丢弃而不是写入已关闭的通道
	server.sendMessage(conn, "chat_message", map[string]string{"message": "late"})

	if _, ok := <-conn.Send; ok {
		t.Error("关闭后的连接不应再收到消息")
	}

	// 重复关闭同样安全
	server.closeConnection(conn)
}

func TestHandleUseAbilityStorageFault(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{
		ID: 7, Level: 10, Aura: 500, MaxAura: 525,
		Zone: "terra_plains",
	})
	fs := &faultStore{fakeStore: fake, getPlayerErr: errors.New("connection refused")}
	cfg := &config.Config{
		Server: config.ServerConfig{GamePort: 0, GatewayPort: 0},
		Game:   testGameConfig(),
	}
	server := NewGameServer(cfg, NewEngine(fs, testGameConfig()))
	sender := server.addTestConnection("c1", 7)
	other := server.addTestConnection("c2", 8)

	server.handleMessage(sender, []byte(`{"type":"use_ability","data":{"ability_name":"stone_bullet"}}`))

	// 存储故障回复error而不是施法结果, 也不广播
	msg := readOutbound(t, sender)
	if msg.Type != "error" {
		t.Fatalf("消息类型 = %s, 期望 error", msg.Type)
	}
	var body map[string]string
	json.Unmarshal(msg.Data, &body)
	if body["message"] != "internal error" {
		t.Errorf("错误内容 = %q, 期望 %q", body["message"], "internal error")
	}
	assertNoOutbound(t, other)
}

func TestHandleUseAbilityFailureNotBroadcast(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{
		ID: 7, Level: 10, Aura: 5, MaxAura: 525,
		Zone: "terra_plains",
	})
	server := newTestServer(fake)
	sender := server.addTestConnection("c1", 7)
	other := server.addTestConnection("c2", 8)

	server.handleMessage(sender, []byte(`{"type":"use_ability","data":{"ability_name":"stone_bullet"}}`))

	msg := readOutbound(t, sender)
	if msg.Type != "ability_result" {
		t.Fatalf("消息类型 = %s, 期望 ability_result", msg.Type)
	}
	var result AbilityResult
	json.Unmarshal(msg.Data, &result)
	if result.Success {
		t.Fatal("灵气不足不应成功")
	}
	if result.Message != "not enough aura" {
		t.Errorf("消息 = %q, 期望 %q", result.Message, "not enough aura")
	}

	// 失败的施法不广播
	assertNoOutbound(t, other)
}
