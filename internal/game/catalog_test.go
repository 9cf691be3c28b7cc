// catalog_test.go

package game

import (
	"testing"
	"time"
)

func TestNormalizeAbilityName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Stone Bullet", "stone_bullet"},
		{"stone_bullet", "stone_bullet"},
		{"GROUND DIG UP", "ground_dig_up"},
		{"Earth Spike", "earth_spike"},
	}

	for _, c := range cases {
		got := NormalizeAbilityName(c.input)
		if got != c.want {
			t.Errorf("NormalizeAbilityName(%q) = %q, 期望 %q", c.input, got, c.want)
		}
	}
}

func TestCatalogResolve(t *testing.T) {
	catalog := NewAbilityCatalog()

	// 显示名与规范名解析到同一个定义
	byDisplay, ok := catalog.Resolve("Stone Bullet")
	if !ok {
		t.Fatal("按显示名解析 Stone Bullet 失败")
	}
	byName, ok := catalog.Resolve("stone_bullet")
	if !ok {
		t.Fatal("按规范名解析 stone_bullet 失败")
	}
	if byDisplay != byName {
		t.Error("两种名称应解析到同一个定义")
	}

	if _, ok := catalog.Resolve("fireball"); ok {
		t.Error("不存在的法术不应解析成功")
	}
}

func TestCatalogDefinitions(t *testing.T) {
	catalog := NewAbilityCatalog()

	cases := []struct {
		name          string
		auraCost      int
		damage        int
		cooldown      time.Duration
		requiredLevel int
	}{
		{"stone_bullet", 20, 50, 1000 * time.Millisecond, 1},
		{"earth_spike", 40, 120, 2000 * time.Millisecond, 20},
		{"rock_crush", 60, 200, 3000 * time.Millisecond, 40},
		{"ground_dig_up", 100, 300, 5000 * time.Millisecond, 60},
	}

	for _, c := range cases {
		def, ok := catalog.Resolve(c.name)
		if !ok {
			t.Fatalf("法术 %s 未找到", c.name)
		}
		if def.AuraCost != c.auraCost {
			t.Errorf("%s 灵气消耗 = %d, 期望 %d", c.name, def.AuraCost, c.auraCost)
		}
		if def.Damage != c.damage {
			t.Errorf("%s 伤害 = %d, 期望 %d", c.name, def.Damage, c.damage)
		}
		if def.Cooldown != c.cooldown {
			t.Errorf("%s 冷却 = %v, 期望 %v", c.name, def.Cooldown, c.cooldown)
		}
		if def.RequiredLevel != c.requiredLevel {
			t.Errorf("%s 等级需求 = %d, 期望 %d", c.name, def.RequiredLevel, c.requiredLevel)
		}
	}

	if len(catalog.All()) != len(cases) {
		t.Errorf("目录包含 %d 个法术, 期望 %d", len(catalog.All()), len(cases))
	}
}
