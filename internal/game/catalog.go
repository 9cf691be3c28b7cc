// catalog.go

package game

import (
	"strings"
	"time"
)

// AbilityDefinition 法术定义（进程级常量，启动后不再修改）
type AbilityDefinition struct {
	Name          string        `json:"name"`
	DisplayName   string        `json:"display_name"`
	AuraCost      int           `json:"aura_cost"`
	Damage        int           `json:"damage"`
	Range         float64       `json:"range"`
	Cooldown      time.Duration `json:"cooldown"`
	RequiredLevel int           `json:"required_level"`
}

// AbilityCatalog 法术目录，纯查表，无可变状态
type AbilityCatalog struct {
	abilities map[string]*AbilityDefinition
}

// NewAbilityCatalog 创建法术目录
func NewAbilityCatalog() *AbilityCatalog {
	defs := []*AbilityDefinition{
		{
			DisplayName:   "Stone Bullet",
			AuraCost:      20,
			Damage:        50,
			Range:         30,
			Cooldown:      1000 * time.Millisecond,
			RequiredLevel: 1,
		},
		{
			DisplayName:   "Earth Spike",
			AuraCost:      40,
			Damage:        120,
			Range:         35,
			Cooldown:      2000 * time.Millisecond,
			RequiredLevel: 20,
		},
		{
			DisplayName:   "Rock Crush",
			AuraCost:      60,
			Damage:        200,
			Range:         40,
			Cooldown:      3000 * time.Millisecond,
			RequiredLevel: 40,
		},
		{
			DisplayName:   "Ground Dig Up",
			AuraCost:      100,
			Damage:        300,
			Range:         45,
			Cooldown:      5000 * time.Millisecond,
			RequiredLevel: 60,
		},
	}

	catalog := &AbilityCatalog{
		abilities: make(map[string]*AbilityDefinition, len(defs)),
	}
	for _, def := range defs {
		def.Name = NormalizeAbilityName(def.DisplayName)
		catalog.abilities[def.Name] = def
	}
	return catalog
}

// NormalizeAbilityName 规范化法术名称："Stone Bullet" 与 "stone_bullet" 等价
func NormalizeAbilityName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Resolve 按名称查找法术定义
func (c *AbilityCatalog) Resolve(name string) (*AbilityDefinition, bool) {
	def, ok := c.abilities[NormalizeAbilityName(name)]
	return def, ok
}

// All 返回全部法术定义
func (c *AbilityCatalog) All() []*AbilityDefinition {
	defs := make([]*AbilityDefinition, 0, len(c.abilities))
	for _, def := range c.abilities {
		defs = append(defs, def)
	}
	return defs
}
