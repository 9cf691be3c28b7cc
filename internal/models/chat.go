// chat.go

package models

import (
	"time"
)

// ChatMessage 聊天消息
type ChatMessage struct {
	ID        string    `json:"id"`
	PlayerID  int64     `json:"player_id"`
	Username  string    `json:"username,omitempty"`
	Message   string    `json:"message"`
	Channel   string    `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}
