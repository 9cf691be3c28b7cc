// store.go

package store

import (
	"errors"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

// ErrNotFound 实体不存在
var ErrNotFound = errors.New("记录不存在")

// ErrInsufficientQuantity 背包物品数量不足
var ErrInsufficientQuantity = errors.New("物品数量不足")

// ErrRebirthNotAllowed 未达到转生条件
var ErrRebirthNotAllowed = errors.New("未达到转生等级")

// Store 游戏数据存储接口
//
// 引擎只依赖该接口，测试中可替换为内存实现。
type Store interface {
	// 玩家
	GetPlayer(id int64) (*models.Player, error)
	GetPlayerByUsername(username string) (*models.Player, error)
	CreatePlayer(username, hashedPassword string) (*models.Player, error)
	UpdatePlayerPosition(id int64, pos models.Vector3D, rotation float64) error
	UpdatePlayerAura(id int64, aura int) error
	UpdatePlayerVitals(id int64, health, aura int) error
	UpdatePlayerProgress(p *models.Player) error
	SetPlayerOnline(id int64, online bool) error
	GetOnlinePlayers() ([]*models.Player, error)
	PerformRebirth(id int64) (*models.Player, error)

	// 怪物
	GetMonster(id string) (*models.Monster, error)
	CreateMonster(m *models.Monster) error
	UpdateMonsterHealth(id string, health int) error
	KillMonster(id string) error
	GetMonstersInZone(zone string) ([]*models.Monster, error)

	// 物品目录
	GetAllLootItems() ([]*models.LootItem, error)
	GetLootItem(id int) (*models.LootItem, error)
	GetLootItemByName(name string) (*models.LootItem, error)

	// 世界掉落物
	CreateWorldLoot(l *models.WorldLoot) error
	GetWorldLoot(id string) (*models.WorldLoot, error)
	GetWorldLootInZone(zone string) ([]*models.WorldLoot, error)
	DeleteWorldLoot(id string) error
	CleanupExpiredLoot() (int64, error)

	// 背包
	GetInventory(playerID int64) ([]*models.InventoryEntry, error)
	AddInventoryItem(playerID int64, itemID, quantity int) error
	RemoveInventoryItem(playerID int64, itemID, quantity int) error
	UseInventoryItem(playerID int64, itemID int) (*models.LootItem, error)

	// 聊天
	CreateChatMessage(msg *models.ChatMessage) error
	GetChatHistory(limit int) ([]*models.ChatMessage, error)
}
