// loot.go

package models

import (
	"time"
)

// ItemType 物品类型
type ItemType string

const (
	// ItemConsumable 消耗品
	ItemConsumable ItemType = "consumable"
	// ItemEquipment 装备
	ItemEquipment ItemType = "equipment"
	// ItemMaterial 材料
	ItemMaterial ItemType = "material"
)

// LootItem 物品目录条目
type LootItem struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Type          ItemType `json:"type"`
	Rarity        string   `json:"rarity"`
	RestoreHealth int      `json:"restore_health"`
	RestoreAura   int      `json:"restore_aura"`
	MaxStack      int      `json:"max_stack"`
}

// WorldLoot 世界掉落物实例
type WorldLoot struct {
	ID        string    `json:"id"`
	ItemID    int       `json:"item_id"`
	ItemName  string    `json:"item_name,omitempty"`
	Quantity  int       `json:"quantity"`
	Position  Vector3D  `json:"position"`
	Zone      string    `json:"zone"`
	DroppedBy int64     `json:"dropped_by"`
	SpawnedAt time.Time `json:"spawned_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired 检查掉落物是否已过期
func (w *WorldLoot) IsExpired(now time.Time) bool {
	return now.After(w.ExpiresAt)
}

// InventoryEntry 玩家背包条目
type InventoryEntry struct {
	PlayerID int64     `json:"player_id"`
	ItemID   int       `json:"item_id"`
	Item     *LootItem `json:"item,omitempty"`
	Quantity int       `json:"quantity"`
}
