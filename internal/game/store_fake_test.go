// store_fake_test.go

package game

import (
	"time"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
	"github.com/jacl-coder/TerraRealm-Server/internal/store"
)

// fakeStore 内存存储，测试专用
type fakeStore struct {
	players   map[int64]*models.Player
	monsters  map[string]*models.Monster
	items     map[int]*models.LootItem
	worldLoot map[string]*models.WorldLoot
	inventory map[int64]map[int]int
	chat      []*models.ChatMessage

	// 写入计数，用于验证跳过落库的路径
	vitalsWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:   make(map[int64]*models.Player),
		monsters:  make(map[string]*models.Monster),
		items:     make(map[int]*models.LootItem),
		worldLoot: make(map[string]*models.WorldLoot),
		inventory: make(map[int64]map[int]int),
	}
}

func (f *fakeStore) addPlayer(p *models.Player) {
	cp := *p
	f.players[p.ID] = &cp
}

func (f *fakeStore) addMonster(m *models.Monster) {
	cp := *m
	f.monsters[m.ID] = &cp
}

func (f *fakeStore) addItem(item *models.LootItem) {
	cp := *item
	f.items[item.ID] = &cp
}

func (f *fakeStore) GetPlayer(id int64) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetPlayerByUsername(username string) (*models.Player, error) {
	for _, p := range f.players {
		if p.Username == username {
			cp := *p
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreatePlayer(username, hashedPassword string) (*models.Player, error) {
	id := int64(len(f.players) + 1)
	p := &models.Player{
		ID:        id,
		Username:  username,
		Password:  hashedPassword,
		Level:     1,
		Health:    1050,
		MaxHealth: 1050,
		Aura:      525,
		MaxAura:   525,
		Zone:      "terra_plains",
	}
	f.players[id] = p
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdatePlayerPosition(id int64, pos models.Vector3D, rotation float64) error {
	p, ok := f.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Position = pos
	p.Rotation = rotation
	return nil
}

func (f *fakeStore) UpdatePlayerAura(id int64, aura int) error {
	p, ok := f.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Aura = aura
	return nil
}

func (f *fakeStore) UpdatePlayerVitals(id int64, health, aura int) error {
	p, ok := f.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Health = health
	p.Aura = aura
	f.vitalsWrites++
	return nil
}

func (f *fakeStore) UpdatePlayerProgress(p *models.Player) error {
	stored, ok := f.players[p.ID]
	if !ok {
		return store.ErrNotFound
	}
	stored.Level = p.Level
	stored.Exp = p.Exp
	stored.Health = p.Health
	stored.MaxHealth = p.MaxHealth
	stored.Aura = p.Aura
	stored.MaxAura = p.MaxAura
	return nil
}

func (f *fakeStore) SetPlayerOnline(id int64, online bool) error {
	p, ok := f.players[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsOnline = online
	return nil
}

func (f *fakeStore) GetOnlinePlayers() ([]*models.Player, error) {
	var online []*models.Player
	for _, p := range f.players {
		if p.IsOnline {
			cp := *p
			online = append(online, &cp)
		}
	}
	return online, nil
}

func (f *fakeStore) PerformRebirth(id int64) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Level < 100 {
		return nil, store.ErrRebirthNotAllowed
	}
	gain := p.Level * 10
	p.HiddenStrength += gain
	p.HiddenAgility += gain
	p.HiddenIntelligence += gain
	p.HiddenEndurance += gain
	p.Level = 1
	p.Exp = 0
	p.RebirthCycle++
	p.Health = 1000
	p.MaxHealth = 1000
	p.Aura = 500
	p.MaxAura = 500
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetMonster(id string) (*models.Monster, error) {
	m, ok := f.monsters[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) CreateMonster(m *models.Monster) error {
	cp := *m
	f.monsters[m.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateMonsterHealth(id string, health int) error {
	m, ok := f.monsters[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Health = health
	return nil
}

func (f *fakeStore) KillMonster(id string) error {
	m, ok := f.monsters[id]
	if !ok {
		return store.ErrNotFound
	}
	m.Health = 0
	m.IsAlive = false
	return nil
}

func (f *fakeStore) GetMonstersInZone(zone string) ([]*models.Monster, error) {
	var alive []*models.Monster
	for _, m := range f.monsters {
		if m.Zone == zone && m.IsAlive {
			cp := *m
			alive = append(alive, &cp)
		}
	}
	return alive, nil
}

func (f *fakeStore) GetAllLootItems() ([]*models.LootItem, error) {
	var items []*models.LootItem
	for _, item := range f.items {
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}

func (f *fakeStore) GetLootItem(id int) (*models.LootItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeStore) GetLootItemByName(name string) (*models.LootItem, error) {
	for _, item := range f.items {
		if item.Name == name {
			cp := *item
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateWorldLoot(l *models.WorldLoot) error {
	cp := *l
	f.worldLoot[l.ID] = &cp
	return nil
}

func (f *fakeStore) GetWorldLoot(id string) (*models.WorldLoot, error) {
	l, ok := f.worldLoot[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) GetWorldLootInZone(zone string) ([]*models.WorldLoot, error) {
	now := time.Now()
	var loot []*models.WorldLoot
	for _, l := range f.worldLoot {
		if l.Zone == zone && !l.IsExpired(now) {
			cp := *l
			loot = append(loot, &cp)
		}
	}
	return loot, nil
}

func (f *fakeStore) DeleteWorldLoot(id string) error {
	if _, ok := f.worldLoot[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.worldLoot, id)
	return nil
}

func (f *fakeStore) CleanupExpiredLoot() (int64, error) {
	now := time.Now()
	var removed int64
	for id, l := range f.worldLoot {
		if l.IsExpired(now) {
			delete(f.worldLoot, id)
			removed++
		}
	}
	return removed, nil
}

func (f *fakeStore) GetInventory(playerID int64) ([]*models.InventoryEntry, error) {
	var entries []*models.InventoryEntry
	for itemID, quantity := range f.inventory[playerID] {
		entry := &models.InventoryEntry{
			PlayerID: playerID,
			ItemID:   itemID,
			Quantity: quantity,
		}
		if item, ok := f.items[itemID]; ok {
			cp := *item
			entry.Item = &cp
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *fakeStore) AddInventoryItem(playerID int64, itemID, quantity int) error {
	bag, ok := f.inventory[playerID]
	if !ok {
		bag = make(map[int]int)
		f.inventory[playerID] = bag
	}
	bag[itemID] += quantity
	return nil
}

func (f *fakeStore) RemoveInventoryItem(playerID int64, itemID, quantity int) error {
	bag, ok := f.inventory[playerID]
	if !ok {
		return store.ErrNotFound
	}
	current, ok := bag[itemID]
	if !ok {
		return store.ErrNotFound
	}
	if current < quantity {
		return store.ErrInsufficientQuantity
	}
	bag[itemID] -= quantity
	if bag[itemID] == 0 {
		delete(bag, itemID)
	}
	return nil
}

func (f *fakeStore) UseInventoryItem(playerID int64, itemID int) (*models.LootItem, error) {
	item, err := f.GetLootItem(itemID)
	if err != nil {
		return nil, err
	}
	if err := f.RemoveInventoryItem(playerID, itemID, 1); err != nil {
		return nil, err
	}
	return item, nil
}

// faultStore 包装fakeStore并按方法注入存储故障，
// 用于验证故障走error通道而不是被当作规则失败
type faultStore struct {
	*fakeStore
	getPlayerErr     error
	updateAuraErr    error
	updateMonsterErr error
}

func (f *faultStore) GetPlayer(id int64) (*models.Player, error) {
	if f.getPlayerErr != nil {
		return nil, f.getPlayerErr
	}
	return f.fakeStore.GetPlayer(id)
}

func (f *faultStore) UpdatePlayerAura(id int64, aura int) error {
	if f.updateAuraErr != nil {
		return f.updateAuraErr
	}
	return f.fakeStore.UpdatePlayerAura(id, aura)
}

func (f *faultStore) UpdateMonsterHealth(id string, health int) error {
	if f.updateMonsterErr != nil {
		return f.updateMonsterErr
	}
	return f.fakeStore.UpdateMonsterHealth(id, health)
}

func (f *fakeStore) CreateChatMessage(msg *models.ChatMessage) error {
	cp := *msg
	f.chat = append(f.chat, &cp)
	return nil
}

func (f *fakeStore) GetChatHistory(limit int) ([]*models.ChatMessage, error) {
	start := len(f.chat) - limit
	if start < 0 {
		start = 0
	}
	var history []*models.ChatMessage
	for i := len(f.chat) - 1; i >= start; i-- {
		cp := *f.chat[i]
		history = append(history, &cp)
	}
	return history, nil
}
