// engine.go

package game

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/jacl-coder/TerraRealm-Server/config"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
	"github.com/jacl-coder/TerraRealm-Server/pkg/db"
)

var (
	// ErrPlayerNotFound 玩家不存在
	ErrPlayerNotFound = errors.New("玩家不存在")
	// ErrLootExpired 掉落物已过期
	ErrLootExpired = errors.New("掉落物已过期")
	// ErrOutOfRange 超出拾取/施法距离
	ErrOutOfRange = errors.New("超出有效距离")
	// ErrItemNotUsable 物品不可使用
	ErrItemNotUsable = errors.New("该物品无法使用")
)

// Engine 游戏引擎
//
// 每个进程一个实例，持有权威世界状态的入口：
// 存储、法术目录与冷却跟踪器。依赖通过构造函数注入，
// 测试中可替换为内存存储。
type Engine struct {
	store       store.Store
	abilities   *AbilityCatalog
	cooldowns   *CooldownTracker
	leaderboard *models.RedisLeaderboard
	cfg         config.GameConfig
	rng         *rand.Rand
}

// NewEngine 创建游戏引擎
func NewEngine(st store.Store, cfg config.GameConfig) *Engine {
	engine := &Engine{
		store:     st,
		abilities: NewAbilityCatalog(),
		cooldowns: NewCooldownTracker(),
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Redis可用时才启用排行榜
	if db.RedisClient != nil {
		engine.leaderboard = models.NewRedisLeaderboard()
	}

	return engine
}

// Store 返回注入的存储
func (e *Engine) Store() store.Store {
	return e.store
}

// Abilities 返回法术目录
func (e *Engine) Abilities() *AbilityCatalog {
	return e.abilities
}

// Zone 返回当前世界区域名
func (e *Engine) Zone() string {
	return e.cfg.Zone
}

// maxHealthForLevel 等级对应的生命上限
func maxHealthForLevel(level int) int {
	return 1000 + level*50
}

// maxAuraForLevel 等级对应的灵气上限
func maxAuraForLevel(level int) int {
	return 500 + level*25
}

// levelForExp 经验对应的等级，上限100
func levelForExp(exp int64) int {
	level := int(exp/100) + 1
	if level > 100 {
		level = 100
	}
	return level
}

// grantExperience 发放经验并处理升级
//
// 升级时重算生命/灵气上限并完全恢复，随后整体落库。
// 返回是否升级。
func (e *Engine) grantExperience(player *models.Player, gained int64) (bool, error) {
	player.Exp += gained

	leveledUp := false
	newLevel := levelForExp(player.Exp)
	if newLevel > player.Level {
		player.Level = newLevel
		player.MaxHealth = maxHealthForLevel(newLevel)
		player.MaxAura = maxAuraForLevel(newLevel)
		// 升级必定完全恢复
		player.Health = player.MaxHealth
		player.Aura = player.MaxAura
		leveledUp = true
	}

	if err := e.store.UpdatePlayerProgress(player); err != nil {
		return leveledUp, err
	}

	e.updateLeaderboards(player)
	return leveledUp, nil
}

// updateLeaderboards 尽力而为地同步排行榜，失败只记录日志
func (e *Engine) updateLeaderboards(player *models.Player) {
	if e.leaderboard == nil {
		return
	}
	if err := e.leaderboard.UpdatePlayerScore(player.ID, models.LeaderboardExp, float64(player.Exp)); err != nil {
		log.Printf("更新经验排行榜失败: %v", err)
		return
	}
	e.leaderboard.UpdatePlayerScore(player.ID, models.LeaderboardLevel, float64(player.Level))
	e.leaderboard.UpdatePlayerScore(player.ID, models.LeaderboardRebirth, float64(player.RebirthCycle))
}

// Rebirth 执行转生
//
// 仅限100级。成功后等级与经验重置、转生周期+1、
// 四项隐藏属性按转生前等级累加。
func (e *Engine) Rebirth(playerID int64) (*models.Player, error) {
	player, err := e.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	if player.Level < 100 {
		return nil, store.ErrRebirthNotAllowed
	}

	reborn, err := e.store.PerformRebirth(playerID)
	if err != nil {
		return nil, err
	}

	log.Printf("玩家 %d 完成第 %d 次转生", reborn.ID, reborn.RebirthCycle)
	e.updateLeaderboards(reborn)
	return reborn, nil
}

// UseItem 使用背包中的消耗品
//
// 恢复量受生命/灵气上限约束；数量归零的条目由存储层删除。
func (e *Engine) UseItem(playerID int64, itemID int) (*models.Player, error) {
	player, err := e.store.GetPlayer(playerID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	item, err := e.store.GetLootItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.Type != models.ItemConsumable {
		return nil, ErrItemNotUsable
	}

	if _, err := e.store.UseInventoryItem(playerID, itemID); err != nil {
		return nil, err
	}

	player.Health += item.RestoreHealth
	if player.Health > player.MaxHealth {
		player.Health = player.MaxHealth
	}
	player.Aura += item.RestoreAura
	if player.Aura > player.MaxAura {
		player.Aura = player.MaxAura
	}

	if err := e.store.UpdatePlayerVitals(player.ID, player.Health, player.Aura); err != nil {
		return nil, err
	}

	return player, nil
}

// CollectLoot 拾取世界掉落物
//
// 过期或不存在的掉落物一律失败，不会改动背包。
// 玩家不存在与掉落物不存在返回不同的错误。
func (e *Engine) CollectLoot(playerID int64, lootID string) (*models.WorldLoot, error) {
	player, err := e.store.GetPlayer(playerID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	loot, err := e.store.GetWorldLoot(lootID)
	if err != nil {
		return nil, err
	}

	if loot.IsExpired(time.Now()) {
		return nil, ErrLootExpired
	}
	if loot.Zone != player.Zone {
		return nil, ErrOutOfRange
	}
	if player.Position.DistanceTo(loot.Position) > e.cfg.CollectionRange {
		return nil, ErrOutOfRange
	}

	if err := e.store.AddInventoryItem(playerID, loot.ItemID, loot.Quantity); err != nil {
		return nil, err
	}
	if err := e.store.DeleteWorldLoot(lootID); err != nil {
		log.Printf("删除已拾取掉落物 %s 失败: %v", lootID, err)
	}

	return loot, nil
}
