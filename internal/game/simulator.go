// simulator.go

package game

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

// Broadcaster 世界事件广播接口
type Broadcaster interface {
	Broadcast(msgType string, data interface{})
	BroadcastExcept(connID string, msgType string, data interface{})
}

// NopBroadcaster 空广播器，单独运行网关时使用
type NopBroadcaster struct{}

// Broadcast 丢弃消息
func (NopBroadcaster) Broadcast(msgType string, data interface{}) {}

// BroadcastExcept 丢弃消息
func (NopBroadcaster) BroadcastExcept(connID string, msgType string, data interface{}) {}

// WorldSimulator 世界模拟器
//
// 三个相互独立的定时过程：怪物生成、玩家恢复、掉落物清扫。
// 每次tick的失败只记录日志，不会中断后续调度；
// 固定间隔本身就是重试机制。
type WorldSimulator struct {
	engine      *Engine
	broadcaster Broadcaster

	shutdown  chan struct{}
	isRunning bool
}

// NewWorldSimulator 创建世界模拟器
func NewWorldSimulator(engine *Engine, broadcaster Broadcaster) *WorldSimulator {
	return &WorldSimulator{
		engine:      engine,
		broadcaster: broadcaster,
		shutdown:    make(chan struct{}),
	}
}

// Start 启动所有模拟过程
func (s *WorldSimulator) Start() error {
	if s.isRunning {
		return fmt.Errorf("世界模拟器已经在运行")
	}

	go s.run("怪物生成", s.engine.cfg.SpawnInterval, s.spawnTick)
	go s.run("玩家恢复", s.engine.cfg.RegenInterval, s.regenTick)
	go s.run("掉落清扫", s.engine.cfg.LootInterval, s.janitorTick)

	s.isRunning = true
	log.Println("世界模拟器已启动")
	return nil
}

// Stop 停止世界模拟器
func (s *WorldSimulator) Stop() {
	if !s.isRunning {
		return
	}
	close(s.shutdown)
	s.isRunning = false
	log.Println("世界模拟器已停止")
}

// run 定时循环，tick失败只告警
func (s *WorldSimulator) run(name string, interval time.Duration, tick func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := tick(); err != nil {
				log.Printf("%s tick失败: %v", name, err)
			}
		case <-s.shutdown:
			return
		}
	}
}

// spawnTick 怪物生成
//
// 难度系数 = 1 + 在线玩家平均转生周期 * 0.5；
// 区域怪物数上限 = min(配置上限, 在线人数*3)；
// 未达上限时生成一只等级[10,99]的怪物。
func (s *WorldSimulator) spawnTick() error {
	players, err := s.engine.store.GetOnlinePlayers()
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}

	var totalRebirth int
	for _, p := range players {
		totalRebirth += p.RebirthCycle
	}
	avgRebirth := float64(totalRebirth) / float64(len(players))
	difficulty := 1 + avgRebirth*0.5

	monsters, err := s.engine.store.GetMonstersInZone(s.engine.cfg.Zone)
	if err != nil {
		return err
	}

	monsterCap := len(players) * 3
	if monsterCap > s.engine.cfg.MonsterCap {
		monsterCap = s.engine.cfg.MonsterCap
	}
	if len(monsters) >= monsterCap {
		return nil
	}

	level := 10 + s.engine.rng.Intn(90) // [10, 99]
	health := int(math.Floor(float64(level*100) * difficulty))

	monster := &models.Monster{
		ID:        uuid.New().String(),
		Name:      monsterNameForLevel(level),
		Level:     level,
		Health:    health,
		MaxHealth: health,
		Position: models.Vector3D{
			X: s.engine.rng.Float64()*200 - 100,
			Y: 0,
			Z: s.engine.rng.Float64()*200 - 100,
		},
		Zone:       s.engine.cfg.Zone,
		Difficulty: difficulty,
		IsAlive:    true,
		CreatedAt:  time.Now(),
	}

	if err := s.engine.store.CreateMonster(monster); err != nil {
		return err
	}

	s.broadcaster.Broadcast("monster_spawned", monster)
	log.Printf("生成怪物 %s (等级%d, 难度%.2f)", monster.Name, monster.Level, difficulty)
	return nil
}

// regenTick 在线玩家恢复
//
// 生命 +floor(上限*0.01)，灵气 +floor(上限*0.02)，均不超过上限；
// 两项都没有变化时跳过落库。
func (s *WorldSimulator) regenTick() error {
	players, err := s.engine.store.GetOnlinePlayers()
	if err != nil {
		return err
	}

	for _, p := range players {
		health := p.Health + int(math.Floor(float64(p.MaxHealth)*0.01))
		if health > p.MaxHealth {
			health = p.MaxHealth
		}
		aura := p.Aura + int(math.Floor(float64(p.MaxAura)*0.02))
		if aura > p.MaxAura {
			aura = p.MaxAura
		}

		if health == p.Health && aura == p.Aura {
			continue
		}

		if err := s.engine.store.UpdatePlayerVitals(p.ID, health, aura); err != nil {
			log.Printf("恢复玩家 %d 状态失败: %v", p.ID, err)
		}
	}
	return nil
}

// janitorTick 清理过期掉落物
func (s *WorldSimulator) janitorTick() error {
	removed, err := s.engine.store.CleanupExpiredLoot()
	if err != nil {
		return err
	}
	if removed > 0 {
		log.Printf("清理了 %d 个过期掉落物", removed)
	}
	return nil
}

// monsterNameForLevel 按等级段取怪物名称
func monsterNameForLevel(level int) string {
	switch {
	case level < 30:
		return "Earth Sprite"
	case level < 60:
		return "Stone Golem"
	case level < 90:
		return "Mountain Wraith"
	default:
		return "Terra Drake"
	}
}
