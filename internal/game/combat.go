// combat.go

package game

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// AbilityResult 法术使用结果
//
// 游戏规则校验失败不是错误，统一以 Success=false 返回。
// 存储故障走error通道，调用方据此中止并上报。
type AbilityResult struct {
	Success      bool   `json:"success"`
	PlayerID     int64  `json:"player_id"`
	AbilityUsed  string `json:"ability_used,omitempty"`
	TargetID     string `json:"target_id,omitempty"`
	Damage       int    `json:"damage,omitempty"`
	TargetKilled bool   `json:"target_killed,omitempty"`
	ExpGained    int64  `json:"exp_gained,omitempty"`
	LeveledUp    bool   `json:"leveled_up,omitempty"`
	AuraCost     int    `json:"aura_cost"`
	Message      string `json:"message"`
}

// failure 构造失败结果
func failure(playerID int64, ability string, auraCost int, message string) *AbilityResult {
	return &AbilityResult{
		Success:     false,
		PlayerID:    playerID,
		AbilityUsed: ability,
		AuraCost:    auraCost,
		Message:     message,
	}
}

// UseAbility 使用法术
//
// 校验顺序：玩家存在 -> 法术存在 -> 等级 -> 灵气 -> 冷却，
// 任一失败立即返回。冷却的检查与设置是单一临界区（见CooldownTracker）。
// 伤害 = 法术伤害 + floor(隐藏力量 * 0.1)，服务端计算为唯一可信来源。
// 规则失败返回 Success=false 的结果；存储故障返回error，本次操作中止。
func (e *Engine) UseAbility(playerID int64, abilityName, targetID string) (*AbilityResult, error) {
	player, err := e.store.GetPlayer(playerID)
	if err != nil {
		if err == store.ErrNotFound {
			return failure(playerID, abilityName, 0, "player not found"), nil
		}
		return nil, fmt.Errorf("查询玩家失败: %w", err)
	}

	ability, ok := e.abilities.Resolve(abilityName)
	if !ok {
		return failure(playerID, abilityName, 0, "unknown ability"), nil
	}

	if player.Level < ability.RequiredLevel {
		return failure(playerID, ability.Name, ability.AuraCost,
			fmt.Sprintf("requires level %d", ability.RequiredLevel)), nil
	}

	if player.Aura < ability.AuraCost {
		return failure(playerID, ability.Name, ability.AuraCost, "not enough aura"), nil
	}

	acquired, remaining := e.cooldowns.TryAcquire(playerID, ability.Name, ability.Cooldown)
	if !acquired {
		return failure(playerID, ability.Name, ability.AuraCost,
			fmt.Sprintf("on cooldown (%dms remaining)", remaining.Milliseconds())), nil
	}

	// 扣除灵气
	player.Aura -= ability.AuraCost
	if err := e.store.UpdatePlayerAura(player.ID, player.Aura); err != nil {
		return nil, fmt.Errorf("扣除玩家 %d 灵气失败: %w", player.ID, err)
	}

	damage := ability.Damage + int(math.Floor(float64(player.HiddenStrength)*0.1))

	result := &AbilityResult{
		Success:     true,
		PlayerID:    player.ID,
		AbilityUsed: ability.Name,
		AuraCost:    ability.AuraCost,
		Message:     fmt.Sprintf("%s cast", ability.DisplayName),
	}

	if targetID == "" {
		return result, nil
	}

	monster, err := e.findTarget(player, targetID)
	if err != nil {
		return nil, err
	}
	if monster == nil {
		result.Message = fmt.Sprintf("%s cast, no valid target", ability.DisplayName)
		return result, nil
	}

	result.TargetID = monster.ID
	result.Damage = damage

	monster.Health -= damage
	if monster.Health > 0 {
		if err := e.store.UpdateMonsterHealth(monster.ID, monster.Health); err != nil {
			return nil, fmt.Errorf("更新怪物 %s 生命失败: %w", monster.ID, err)
		}
		result.Message = fmt.Sprintf("%s hit %s for %d damage", ability.DisplayName, monster.Name, damage)
		return result, nil
	}

	// 怪物死亡：软删除、发放经验、掉落战利品
	monster.Health = 0
	if err := e.store.KillMonster(monster.ID); err != nil {
		return nil, fmt.Errorf("击杀怪物 %s 落库失败: %w", monster.ID, err)
	}
	result.TargetKilled = true

	expGained := int64(math.Floor(float64(monster.Level) * 10 * (1 + float64(player.RebirthCycle)*0.1)))
	result.ExpGained = expGained

	leveledUp, err := e.grantExperience(player, expGained)
	if err != nil {
		return nil, fmt.Errorf("发放经验给玩家 %d 失败: %w", player.ID, err)
	}
	result.LeveledUp = leveledUp

	e.dropLoot(monster, player.ID)

	result.Message = fmt.Sprintf("%s killed %s, gained %d exp", ability.DisplayName, monster.Name, expGained)
	return result, nil
}

// findTarget 解析攻击目标
//
// 目标必须存活、与玩家处于同一区域、且在交战距离内；
// 不满足时返回nil（无有效目标），存储故障返回error。
func (e *Engine) findTarget(player *models.Player, targetID string) (*models.Monster, error) {
	monster, err := e.store.GetMonster(targetID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("查询怪物失败: %w", err)
	}
	if !monster.IsAlive {
		return nil, nil
	}
	if monster.Zone != e.cfg.Zone {
		return nil, nil
	}
	if player.Position.DistanceTo(monster.Position) > e.cfg.EngagementRange {
		return nil, nil
	}
	return monster, nil
}

// dropLoot 怪物死亡掉落
//
// 掉落概率 = min(0.8, 0.3 + 怪物等级*0.01)。
// 骨头按该概率掉1-3堆，兽肉按其0.6倍概率掉1-2堆，
// 每堆落在死亡位置X/Z各±5范围内，带默认TTL。
// 掉落是尽力而为的副作用，目录缺失或写入失败仅告警。
func (e *Engine) dropLoot(monster *models.Monster, killerID int64) {
	bone, err := e.store.GetLootItemByName("bone")
	if err != nil {
		log.Printf("物品目录缺少 bone，跳过掉落: %v", err)
		return
	}
	meat, err := e.store.GetLootItemByName("meat")
	if err != nil {
		log.Printf("物品目录缺少 meat，跳过掉落: %v", err)
		return
	}

	chance := math.Min(0.8, 0.3+float64(monster.Level)*0.01)

	if e.rng.Float64() < chance {
		stacks := 1 + e.rng.Intn(3)
		for i := 0; i < stacks; i++ {
			e.spawnLootStack(bone, monster, killerID)
		}
	}
	if e.rng.Float64() < chance*0.6 {
		stacks := 1 + e.rng.Intn(2)
		for i := 0; i < stacks; i++ {
			e.spawnLootStack(meat, monster, killerID)
		}
	}
}

// spawnLootStack 在怪物死亡位置附近生成一堆掉落物
func (e *Engine) spawnLootStack(item *models.LootItem, monster *models.Monster, killerID int64) {
	now := time.Now()
	loot := &models.WorldLoot{
		ID:       uuid.New().String(),
		ItemID:   item.ID,
		ItemName: item.Name,
		Quantity: 1,
		Position: models.Vector3D{
			X: monster.Position.X + (e.rng.Float64()*10 - 5),
			Y: monster.Position.Y,
			Z: monster.Position.Z + (e.rng.Float64()*10 - 5),
		},
		Zone:      monster.Zone,
		DroppedBy: killerID,
		SpawnedAt: now,
		ExpiresAt: now.Add(e.cfg.LootTTL),
	}

	if err := e.store.CreateWorldLoot(loot); err != nil {
		log.Printf("生成掉落物失败: %v", err)
	}
}
