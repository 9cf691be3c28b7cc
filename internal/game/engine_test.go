// engine_test.go

package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/jacl-coder/TerraRealm-Server/config"
	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

func testGameConfig() config.GameConfig {
	return config.GameConfig{
		Zone:            "terra_plains",
		SpawnInterval:   30 * time.Second,
		RegenInterval:   5 * time.Second,
		LootInterval:    time.Minute,
		LootTTL:         5 * time.Minute,
		MonsterCap:      20,
		EngagementRange: 50,
		CollectionRange: 10,
	}
}

// newTestEngine 构建使用内存存储的引擎，随机源固定以便复现
func newTestEngine(fake *fakeStore) *Engine {
	engine := NewEngine(fake, testGameConfig())
	engine.rng = rand.New(rand.NewSource(1))
	return engine
}

func TestLevelFormulas(t *testing.T) {
	cases := []struct {
		exp       int64
		level     int
		maxHealth int
		maxAura   int
	}{
		{0, 1, 1050, 525},
		{99, 1, 1050, 525},
		{100, 2, 1100, 550},
		{4900, 50, 3500, 1750},
		{9900, 100, 6000, 3000},
		{50000, 100, 6000, 3000}, // 等级上限100
	}

	for _, c := range cases {
		if got := levelForExp(c.exp); got != c.level {
			t.Errorf("levelForExp(%d) = %d, 期望 %d", c.exp, got, c.level)
		}
		if got := maxHealthForLevel(c.level); got != c.maxHealth {
			t.Errorf("maxHealthForLevel(%d) = %d, 期望 %d", c.level, got, c.maxHealth)
		}
		if got := maxAuraForLevel(c.level); got != c.maxAura {
			t.Errorf("maxAuraForLevel(%d) = %d, 期望 %d", c.level, got, c.maxAura)
		}
	}
}

func TestRebirthRequiresMaxLevel(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Level: 99, Exp: 9800})
	engine := newTestEngine(fake)

	if _, err := engine.Rebirth(1); err != store.ErrRebirthNotAllowed {
		t.Fatalf("99级转生返回 %v, 期望 ErrRebirthNotAllowed", err)
	}

	if _, err := engine.Rebirth(42); err != store.ErrNotFound {
		t.Fatalf("不存在的玩家转生返回 %v, 期望 ErrNotFound", err)
	}
}

func TestRebirthResetsProgress(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{
		ID:             1,
		Level:          100,
		Exp:            9950,
		RebirthCycle:   1,
		Health:         6000,
		MaxHealth:      6000,
		Aura:           3000,
		MaxAura:        3000,
		HiddenStrength: 1000,
	})
	engine := newTestEngine(fake)

	reborn, err := engine.Rebirth(1)
	if err != nil {
		t.Fatalf("转生失败: %v", err)
	}

	if reborn.Level != 1 || reborn.Exp != 0 {
		t.Errorf("转生后等级/经验 = %d/%d, 期望 1/0", reborn.Level, reborn.Exp)
	}
	if reborn.RebirthCycle != 2 {
		t.Errorf("转生周期 = %d, 期望 2", reborn.RebirthCycle)
	}
	if reborn.Health != 1000 || reborn.MaxHealth != 1000 {
		t.Errorf("转生后生命 = %d/%d, 期望 1000/1000", reborn.Health, reborn.MaxHealth)
	}
	if reborn.Aura != 500 || reborn.MaxAura != 500 {
		t.Errorf("转生后灵气 = %d/%d, 期望 500/500", reborn.Aura, reborn.MaxAura)
	}
	// 隐藏属性按转生前等级累加: 1000 + 100*10
	if reborn.HiddenStrength != 2000 {
		t.Errorf("隐藏力量 = %d, 期望 2000", reborn.HiddenStrength)
	}
}

func TestUseItemRestoresVitals(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Health: 900, MaxHealth: 1050, Aura: 500, MaxAura: 525})
	fake.addItem(&models.LootItem{ID: 2, Name: "meat", Type: models.ItemConsumable, RestoreHealth: 50, RestoreAura: 100})
	fake.AddInventoryItem(1, 2, 2)
	engine := newTestEngine(fake)

	player, err := engine.UseItem(1, 2)
	if err != nil {
		t.Fatalf("使用物品失败: %v", err)
	}

	if player.Health != 950 {
		t.Errorf("生命 = %d, 期望 950", player.Health)
	}
	// 恢复量不超过上限
	if player.Aura != 525 {
		t.Errorf("灵气 = %d, 期望 525", player.Aura)
	}
	if fake.inventory[1][2] != 1 {
		t.Errorf("背包数量 = %d, 期望 1", fake.inventory[1][2])
	}

	// 用完后条目删除
	if _, err := engine.UseItem(1, 2); err != nil {
		t.Fatalf("使用最后一个物品失败: %v", err)
	}
	if _, ok := fake.inventory[1][2]; ok {
		t.Error("数量归零的背包条目应被删除")
	}

	if _, err := engine.UseItem(1, 2); err != store.ErrNotFound {
		t.Errorf("背包中没有该物品时返回 %v, 期望 ErrNotFound", err)
	}
}

func TestUseItemPlayerNotFound(t *testing.T) {
	fake := newFakeStore()
	fake.addItem(&models.LootItem{ID: 2, Name: "meat", Type: models.ItemConsumable, RestoreHealth: 50})
	engine := newTestEngine(fake)

	// 玩家不存在与物品不存在返回不同的错误
	if _, err := engine.UseItem(42, 2); err != ErrPlayerNotFound {
		t.Errorf("不存在的玩家使用物品返回 %v, 期望 ErrPlayerNotFound", err)
	}
}

func TestUseItemRejectsNonConsumable(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Health: 900, MaxHealth: 1050, Aura: 500, MaxAura: 525})
	fake.addItem(&models.LootItem{ID: 3, Name: "bone", Type: models.ItemMaterial})
	fake.AddInventoryItem(1, 3, 5)
	engine := newTestEngine(fake)

	if _, err := engine.UseItem(1, 3); err != ErrItemNotUsable {
		t.Errorf("使用材料返回 %v, 期望 ErrItemNotUsable", err)
	}
	if fake.inventory[1][3] != 5 {
		t.Error("失败的使用不应改动背包")
	}
}

func TestCollectLoot(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Zone: "terra_plains", Position: models.Vector3D{X: 10, Z: 10}})
	fake.addItem(&models.LootItem{ID: 2, Name: "bone", Type: models.ItemMaterial})
	fake.CreateWorldLoot(&models.WorldLoot{
		ID:        "loot-1",
		ItemID:    2,
		Quantity:  1,
		Position:  models.Vector3D{X: 15, Z: 10},
		Zone:      "terra_plains",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	engine := newTestEngine(fake)

	loot, err := engine.CollectLoot(1, "loot-1")
	if err != nil {
		t.Fatalf("拾取失败: %v", err)
	}
	if loot.ItemID != 2 {
		t.Errorf("拾取物品ID = %d, 期望 2", loot.ItemID)
	}
	if fake.inventory[1][2] != 1 {
		t.Errorf("背包数量 = %d, 期望 1", fake.inventory[1][2])
	}
	if _, ok := fake.worldLoot["loot-1"]; ok {
		t.Error("拾取后的掉落物应从世界移除")
	}
}

func TestCollectLootExpired(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Zone: "terra_plains"})
	fake.CreateWorldLoot(&models.WorldLoot{
		ID:        "loot-1",
		ItemID:    2,
		Quantity:  1,
		Zone:      "terra_plains",
		ExpiresAt: time.Now().Add(-time.Second),
	})
	engine := newTestEngine(fake)

	if _, err := engine.CollectLoot(1, "loot-1"); err != ErrLootExpired {
		t.Fatalf("拾取过期掉落物返回 %v, 期望 ErrLootExpired", err)
	}
	if len(fake.inventory[1]) != 0 {
		t.Error("失败的拾取不应改动背包")
	}
}

func TestCollectLootOutOfRange(t *testing.T) {
	fake := newFakeStore()
	fake.addPlayer(&models.Player{ID: 1, Zone: "terra_plains", Position: models.Vector3D{X: 0, Z: 0}})
	fake.CreateWorldLoot(&models.WorldLoot{
		ID:        "loot-far",
		ItemID:    2,
		Quantity:  1,
		Position:  models.Vector3D{X: 30, Z: 0},
		Zone:      "terra_plains",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	fake.CreateWorldLoot(&models.WorldLoot{
		ID:        "loot-other-zone",
		ItemID:    2,
		Quantity:  1,
		Position:  models.Vector3D{X: 1, Z: 0},
		Zone:      "stone_valley",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	engine := newTestEngine(fake)

	if _, err := engine.CollectLoot(1, "loot-far"); err != ErrOutOfRange {
		t.Errorf("拾取远处掉落物返回 %v, 期望 ErrOutOfRange", err)
	}
	if _, err := engine.CollectLoot(1, "loot-other-zone"); err != ErrOutOfRange {
		t.Errorf("拾取其他区域掉落物返回 %v, 期望 ErrOutOfRange", err)
	}
	if _, err := engine.CollectLoot(1, "no-such-loot"); err != store.ErrNotFound {
		t.Errorf("拾取不存在的掉落物返回 %v, 期望 ErrNotFound", err)
	}
}

func TestCollectLootPlayerNotFound(t *testing.T) {
	fake := newFakeStore()
	fake.CreateWorldLoot(&models.WorldLoot{
		ID:        "loot-1",
		ItemID:    2,
		Quantity:  1,
		Zone:      "terra_plains",
		ExpiresAt: time.Now().Add(time.Minute),
	})
	engine := newTestEngine(fake)

	// 玩家不存在与掉落物不存在返回不同的错误
	if _, err := engine.CollectLoot(42, "loot-1"); err != ErrPlayerNotFound {
		t.Errorf("不存在的玩家拾取返回 %v, 期望 ErrPlayerNotFound", err)
	}
}
