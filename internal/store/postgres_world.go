// postgres_world.go

package store

import (
	"database/sql"
	"fmt"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

// GetMonster 按ID查询怪物
func (s *PostgresStore) GetMonster(id string) (*models.Monster, error) {
	var m models.Monster
	err := s.db.QueryRow(`
		SELECT id, name, level, health, max_health, pos_x, pos_y, pos_z,
		       zone, difficulty, is_alive, created_at
		FROM monsters WHERE id = $1`, id).Scan(
		&m.ID, &m.Name, &m.Level, &m.Health, &m.MaxHealth,
		&m.Position.X, &m.Position.Y, &m.Position.Z,
		&m.Zone, &m.Difficulty, &m.IsAlive, &m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询怪物失败: %w", err)
	}
	return &m, nil
}

// CreateMonster 创建怪物
func (s *PostgresStore) CreateMonster(m *models.Monster) error {
	_, err := s.db.Exec(`
		INSERT INTO monsters (id, name, level, health, max_health,
		                      pos_x, pos_y, pos_z, zone, difficulty, is_alive, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())`,
		m.ID, m.Name, m.Level, m.Health, m.MaxHealth,
		m.Position.X, m.Position.Y, m.Position.Z, m.Zone, m.Difficulty, m.IsAlive)
	if err != nil {
		return fmt.Errorf("创建怪物失败: %w", err)
	}
	return nil
}

// UpdateMonsterHealth 更新怪物生命值
func (s *PostgresStore) UpdateMonsterHealth(id string, health int) error {
	_, err := s.db.Exec(`UPDATE monsters SET health = $1 WHERE id = $2`, health, id)
	if err != nil {
		return fmt.Errorf("更新怪物生命失败: %w", err)
	}
	return nil
}

// KillMonster 击杀怪物（软删除，之后不再出现在区域查询中）
func (s *PostgresStore) KillMonster(id string) error {
	_, err := s.db.Exec(`UPDATE monsters SET health = 0, is_alive = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("击杀怪物失败: %w", err)
	}
	return nil
}

// GetMonstersInZone 查询区域内存活的怪物
func (s *PostgresStore) GetMonstersInZone(zone string) ([]*models.Monster, error) {
	rows, err := s.db.Query(`
		SELECT id, name, level, health, max_health, pos_x, pos_y, pos_z,
		       zone, difficulty, is_alive, created_at
		FROM monsters WHERE zone = $1 AND is_alive = true`, zone)
	if err != nil {
		return nil, fmt.Errorf("查询区域怪物失败: %w", err)
	}
	defer rows.Close()

	var monsters []*models.Monster
	for rows.Next() {
		var m models.Monster
		err := rows.Scan(
			&m.ID, &m.Name, &m.Level, &m.Health, &m.MaxHealth,
			&m.Position.X, &m.Position.Y, &m.Position.Z,
			&m.Zone, &m.Difficulty, &m.IsAlive, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描怪物数据失败: %w", err)
		}
		monsters = append(monsters, &m)
	}
	return monsters, rows.Err()
}

// GetAllLootItems 查询全部物品目录
func (s *PostgresStore) GetAllLootItems() ([]*models.LootItem, error) {
	rows, err := s.db.Query(`
		SELECT id, name, item_type, rarity, restore_health, restore_aura, max_stack
		FROM loot_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("查询物品目录失败: %w", err)
	}
	defer rows.Close()

	var items []*models.LootItem
	for rows.Next() {
		var item models.LootItem
		err := rows.Scan(&item.ID, &item.Name, &item.Type, &item.Rarity,
			&item.RestoreHealth, &item.RestoreAura, &item.MaxStack)
		if err != nil {
			return nil, fmt.Errorf("扫描物品数据失败: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// GetLootItem 按ID查询物品
func (s *PostgresStore) GetLootItem(id int) (*models.LootItem, error) {
	var item models.LootItem
	err := s.db.QueryRow(`
		SELECT id, name, item_type, rarity, restore_health, restore_aura, max_stack
		FROM loot_items WHERE id = $1`, id).Scan(
		&item.ID, &item.Name, &item.Type, &item.Rarity,
		&item.RestoreHealth, &item.RestoreAura, &item.MaxStack)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询物品失败: %w", err)
	}
	return &item, nil
}

// GetLootItemByName 按名称查询物品
func (s *PostgresStore) GetLootItemByName(name string) (*models.LootItem, error) {
	var item models.LootItem
	err := s.db.QueryRow(`
		SELECT id, name, item_type, rarity, restore_health, restore_aura, max_stack
		FROM loot_items WHERE name = $1`, name).Scan(
		&item.ID, &item.Name, &item.Type, &item.Rarity,
		&item.RestoreHealth, &item.RestoreAura, &item.MaxStack)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询物品失败: %w", err)
	}
	return &item, nil
}

// CreateWorldLoot 创建世界掉落物
func (s *PostgresStore) CreateWorldLoot(l *models.WorldLoot) error {
	_, err := s.db.Exec(`
		INSERT INTO world_loot (id, item_id, quantity, pos_x, pos_y, pos_z,
		                        zone, dropped_by, spawned_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID, l.ItemID, l.Quantity, l.Position.X, l.Position.Y, l.Position.Z,
		l.Zone, l.DroppedBy, l.SpawnedAt, l.ExpiresAt)
	if err != nil {
		return fmt.Errorf("创建掉落物失败: %w", err)
	}
	return nil
}

// GetWorldLoot 按ID查询掉落物
func (s *PostgresStore) GetWorldLoot(id string) (*models.WorldLoot, error) {
	var l models.WorldLoot
	err := s.db.QueryRow(`
		SELECT w.id, w.item_id, i.name, w.quantity, w.pos_x, w.pos_y, w.pos_z,
		       w.zone, w.dropped_by, w.spawned_at, w.expires_at
		FROM world_loot w
		JOIN loot_items i ON i.id = w.item_id
		WHERE w.id = $1`, id).Scan(
		&l.ID, &l.ItemID, &l.ItemName, &l.Quantity,
		&l.Position.X, &l.Position.Y, &l.Position.Z,
		&l.Zone, &l.DroppedBy, &l.SpawnedAt, &l.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询掉落物失败: %w", err)
	}
	return &l, nil
}

// GetWorldLootInZone 查询区域内未过期的掉落物
func (s *PostgresStore) GetWorldLootInZone(zone string) ([]*models.WorldLoot, error) {
	rows, err := s.db.Query(`
		SELECT w.id, w.item_id, i.name, w.quantity, w.pos_x, w.pos_y, w.pos_z,
		       w.zone, w.dropped_by, w.spawned_at, w.expires_at
		FROM world_loot w
		JOIN loot_items i ON i.id = w.item_id
		WHERE w.zone = $1 AND w.expires_at > NOW()`, zone)
	if err != nil {
		return nil, fmt.Errorf("查询区域掉落物失败: %w", err)
	}
	defer rows.Close()

	var loot []*models.WorldLoot
	for rows.Next() {
		var l models.WorldLoot
		err := rows.Scan(
			&l.ID, &l.ItemID, &l.ItemName, &l.Quantity,
			&l.Position.X, &l.Position.Y, &l.Position.Z,
			&l.Zone, &l.DroppedBy, &l.SpawnedAt, &l.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("扫描掉落物数据失败: %w", err)
		}
		loot = append(loot, &l)
	}
	return loot, rows.Err()
}

// DeleteWorldLoot 删除掉落物（拾取后）
func (s *PostgresStore) DeleteWorldLoot(id string) error {
	_, err := s.db.Exec(`DELETE FROM world_loot WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("删除掉落物失败: %w", err)
	}
	return nil
}

// CleanupExpiredLoot 清理所有已过期的掉落物
func (s *PostgresStore) CleanupExpiredLoot() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM world_loot WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("清理过期掉落物失败: %w", err)
	}
	return result.RowsAffected()
}
