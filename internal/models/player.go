// player.go

package models

import (
	"time"
)

// Player 玩家模型
type Player struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // 不序列化密码
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 等级与修炼进度
	Level        int   `json:"level"`
	Exp          int64 `json:"exp"`
	RebirthCycle int   `json:"rebirth_cycle"`

	// 生命与灵气
	Health    int `json:"health"`
	MaxHealth int `json:"max_health"`
	Aura      int `json:"aura"`
	MaxAura   int `json:"max_aura"`

	// 隐藏属性（只增不减，转生后保留）
	HiddenStrength     int `json:"hidden_strength"`
	HiddenAgility      int `json:"hidden_agility"`
	HiddenIntelligence int `json:"hidden_intelligence"`
	HiddenEndurance    int `json:"hidden_endurance"`

	// 位置与状态
	Position   Vector3D `json:"position"`
	Rotation   float64  `json:"rotation"`
	Zone       string   `json:"zone"`
	ZoneLocked bool     `json:"zone_locked"`
	IsOnline   bool     `json:"is_online"`
}
