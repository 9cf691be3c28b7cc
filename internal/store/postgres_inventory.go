// postgres_inventory.go

package store

import (
	"database/sql"
	"fmt"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

// GetInventory 查询玩家背包
func (s *PostgresStore) GetInventory(playerID int64) ([]*models.InventoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT inv.player_id, inv.item_id, inv.quantity,
		       i.id, i.name, i.item_type, i.rarity, i.restore_health, i.restore_aura, i.max_stack
		FROM player_inventory inv
		JOIN loot_items i ON i.id = inv.item_id
		WHERE inv.player_id = $1
		ORDER BY inv.item_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("查询背包失败: %w", err)
	}
	defer rows.Close()

	var entries []*models.InventoryEntry
	for rows.Next() {
		var entry models.InventoryEntry
		var item models.LootItem
		err := rows.Scan(
			&entry.PlayerID, &entry.ItemID, &entry.Quantity,
			&item.ID, &item.Name, &item.Type, &item.Rarity,
			&item.RestoreHealth, &item.RestoreAura, &item.MaxStack)
		if err != nil {
			return nil, fmt.Errorf("扫描背包数据失败: %w", err)
		}
		entry.Item = &item
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// AddInventoryItem 向背包添加物品（同类物品堆叠）
func (s *PostgresStore) AddInventoryItem(playerID int64, itemID, quantity int) error {
	_, err := s.db.Exec(`
		INSERT INTO player_inventory (player_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, item_id)
		DO UPDATE SET quantity = player_inventory.quantity + $3`,
		playerID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("添加背包物品失败: %w", err)
	}
	return nil
}

// RemoveInventoryItem 从背包移除物品，数量归零时删除整行
func (s *PostgresStore) RemoveInventoryItem(playerID int64, itemID, quantity int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	var current int
	err = tx.QueryRow(`
		SELECT quantity FROM player_inventory
		WHERE player_id = $1 AND item_id = $2
		FOR UPDATE`, playerID, itemID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("查询背包物品失败: %w", err)
	}

	if current < quantity {
		return ErrInsufficientQuantity
	}

	if current == quantity {
		_, err = tx.Exec(`
			DELETE FROM player_inventory WHERE player_id = $1 AND item_id = $2`,
			playerID, itemID)
	} else {
		_, err = tx.Exec(`
			UPDATE player_inventory SET quantity = quantity - $3
			WHERE player_id = $1 AND item_id = $2`,
			playerID, itemID, quantity)
	}
	if err != nil {
		return fmt.Errorf("移除背包物品失败: %w", err)
	}

	return tx.Commit()
}

// UseInventoryItem 消耗一个背包物品并返回其目录定义
func (s *PostgresStore) UseInventoryItem(playerID int64, itemID int) (*models.LootItem, error) {
	item, err := s.GetLootItem(itemID)
	if err != nil {
		return nil, err
	}

	if err := s.RemoveInventoryItem(playerID, itemID, 1); err != nil {
		return nil, err
	}

	return item, nil
}

// CreateChatMessage 追加聊天消息
func (s *PostgresStore) CreateChatMessage(msg *models.ChatMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_messages (id, player_id, message, channel, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.PlayerID, msg.Message, msg.Channel, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("保存聊天消息失败: %w", err)
	}
	return nil
}

// GetChatHistory 按时间倒序查询聊天记录
func (s *PostgresStore) GetChatHistory(limit int) ([]*models.ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.player_id, p.username, c.message, c.channel, c.created_at
		FROM chat_messages c
		JOIN players p ON p.id = c.player_id
		ORDER BY c.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询聊天记录失败: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		err := rows.Scan(&msg.ID, &msg.PlayerID, &msg.Username,
			&msg.Message, &msg.Channel, &msg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("扫描聊天数据失败: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
