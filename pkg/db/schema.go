// schema.go

package db

// 统一的数据库表结构定义

// CreateAllTablesSQL 创建所有表的SQL语句
const CreateAllTablesSQL = `
-- 玩家表
CREATE TABLE IF NOT EXISTS players (
    id SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    password VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,

    -- 等级与修炼进度
    level INT DEFAULT 1,
    exp BIGINT DEFAULT 0,
    rebirth_cycle INT DEFAULT 0,

    -- 生命与灵气
    health INT DEFAULT 1050,
    max_health INT DEFAULT 1050,
    aura INT DEFAULT 525,
    max_aura INT DEFAULT 525,

    -- 隐藏属性（转生后保留）
    hidden_strength INT DEFAULT 0,
    hidden_agility INT DEFAULT 0,
    hidden_intelligence INT DEFAULT 0,
    hidden_endurance INT DEFAULT 0,

    -- 位置与状态
    pos_x DOUBLE PRECISION DEFAULT 0,
    pos_y DOUBLE PRECISION DEFAULT 0,
    pos_z DOUBLE PRECISION DEFAULT 0,
    rotation DOUBLE PRECISION DEFAULT 0,
    zone VARCHAR(50) DEFAULT 'terra_plains',
    zone_locked BOOLEAN DEFAULT false,
    is_online BOOLEAN DEFAULT false
);

-- 怪物表
CREATE TABLE IF NOT EXISTS monsters (
    id VARCHAR(50) PRIMARY KEY,
    name VARCHAR(50) NOT NULL,
    level INT NOT NULL,
    health INT NOT NULL,
    max_health INT NOT NULL,
    pos_x DOUBLE PRECISION DEFAULT 0,
    pos_y DOUBLE PRECISION DEFAULT 0,
    pos_z DOUBLE PRECISION DEFAULT 0,
    zone VARCHAR(50) NOT NULL,
    difficulty DECIMAL(6,2) DEFAULT 1.0,
    is_alive BOOLEAN DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 物品目录表
CREATE TABLE IF NOT EXISTS loot_items (
    id SERIAL PRIMARY KEY,
    name VARCHAR(50) UNIQUE NOT NULL,
    item_type VARCHAR(20) NOT NULL,
    rarity VARCHAR(20) DEFAULT 'common',
    restore_health INT DEFAULT 0,
    restore_aura INT DEFAULT 0,
    max_stack INT DEFAULT 99
);

-- 世界掉落物表
CREATE TABLE IF NOT EXISTS world_loot (
    id VARCHAR(50) PRIMARY KEY,
    item_id INT REFERENCES loot_items(id),
    quantity INT NOT NULL,
    pos_x DOUBLE PRECISION DEFAULT 0,
    pos_y DOUBLE PRECISION DEFAULT 0,
    pos_z DOUBLE PRECISION DEFAULT 0,
    zone VARCHAR(50) NOT NULL,
    dropped_by BIGINT REFERENCES players(id),
    spawned_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP WITH TIME ZONE NOT NULL
);

-- 玩家背包表
CREATE TABLE IF NOT EXISTS player_inventory (
    player_id BIGINT REFERENCES players(id) ON DELETE CASCADE,
    item_id INT REFERENCES loot_items(id) ON DELETE CASCADE,
    quantity INT NOT NULL CHECK (quantity > 0),
    PRIMARY KEY (player_id, item_id)
);

-- 聊天记录表
CREATE TABLE IF NOT EXISTS chat_messages (
    id VARCHAR(50) PRIMARY KEY,
    player_id BIGINT REFERENCES players(id) ON DELETE CASCADE,
    message TEXT NOT NULL,
    channel VARCHAR(20) DEFAULT 'world',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- 创建索引以提高查询性能
CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
CREATE INDEX IF NOT EXISTS idx_players_is_online ON players(is_online);
CREATE INDEX IF NOT EXISTS idx_monsters_zone_alive ON monsters(zone, is_alive);
CREATE INDEX IF NOT EXISTS idx_world_loot_zone ON world_loot(zone);
CREATE INDEX IF NOT EXISTS idx_world_loot_expires_at ON world_loot(expires_at);
CREATE INDEX IF NOT EXISTS idx_player_inventory_player_id ON player_inventory(player_id);
CREATE INDEX IF NOT EXISTS idx_chat_messages_created_at ON chat_messages(created_at);
`

// InitAllTables 初始化所有数据库表
func InitAllTables() error {
	_, err := DB.Exec(CreateAllTablesSQL)
	if err != nil {
		return err
	}
	return nil
}
