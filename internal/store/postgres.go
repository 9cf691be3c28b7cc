// postgres.go

package store

import (
	"database/sql"
	"fmt"

	"github.com/jacl-coder/TerraRealm-Server/internal/models"
)

// PostgresStore 基于PostgreSQL的存储实现
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore 创建PostgreSQL存储
func NewPostgresStore(database *sql.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// playerColumns 玩家表查询列
const playerColumns = `
	id, username, password, created_at, updated_at,
	level, exp, rebirth_cycle,
	health, max_health, aura, max_aura,
	hidden_strength, hidden_agility, hidden_intelligence, hidden_endurance,
	pos_x, pos_y, pos_z, rotation, zone, zone_locked, is_online
`

// scanPlayer 扫描单行玩家数据
func scanPlayer(row *sql.Row) (*models.Player, error) {
	var p models.Player
	err := row.Scan(
		&p.ID, &p.Username, &p.Password, &p.CreatedAt, &p.UpdatedAt,
		&p.Level, &p.Exp, &p.RebirthCycle,
		&p.Health, &p.MaxHealth, &p.Aura, &p.MaxAura,
		&p.HiddenStrength, &p.HiddenAgility, &p.HiddenIntelligence, &p.HiddenEndurance,
		&p.Position.X, &p.Position.Y, &p.Position.Z, &p.Rotation,
		&p.Zone, &p.ZoneLocked, &p.IsOnline,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询玩家失败: %w", err)
	}
	return &p, nil
}

// GetPlayer 按ID查询玩家
func (s *PostgresStore) GetPlayer(id int64) (*models.Player, error) {
	query := fmt.Sprintf("SELECT %s FROM players WHERE id = $1", playerColumns)
	return scanPlayer(s.db.QueryRow(query, id))
}

// GetPlayerByUsername 按用户名查询玩家
func (s *PostgresStore) GetPlayerByUsername(username string) (*models.Player, error) {
	query := fmt.Sprintf("SELECT %s FROM players WHERE username = $1", playerColumns)
	return scanPlayer(s.db.QueryRow(query, username))
}

// CreatePlayer 创建玩家，初始等级1，生命1050/灵气525
func (s *PostgresStore) CreatePlayer(username, hashedPassword string) (*models.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO players (username, password, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING %s`, playerColumns)
	return scanPlayer(s.db.QueryRow(query, username, hashedPassword))
}

// UpdatePlayerPosition 更新玩家位置与朝向
func (s *PostgresStore) UpdatePlayerPosition(id int64, pos models.Vector3D, rotation float64) error {
	_, err := s.db.Exec(`
		UPDATE players
		SET pos_x = $1, pos_y = $2, pos_z = $3, rotation = $4, updated_at = NOW()
		WHERE id = $5`,
		pos.X, pos.Y, pos.Z, rotation, id)
	if err != nil {
		return fmt.Errorf("更新玩家位置失败: %w", err)
	}
	return nil
}

// UpdatePlayerAura 更新玩家灵气（单字段更新）
func (s *PostgresStore) UpdatePlayerAura(id int64, aura int) error {
	_, err := s.db.Exec(`
		UPDATE players SET aura = $1, updated_at = NOW() WHERE id = $2`,
		aura, id)
	if err != nil {
		return fmt.Errorf("更新玩家灵气失败: %w", err)
	}
	return nil
}

// UpdatePlayerVitals 更新玩家生命与灵气
func (s *PostgresStore) UpdatePlayerVitals(id int64, health, aura int) error {
	_, err := s.db.Exec(`
		UPDATE players SET health = $1, aura = $2, updated_at = NOW() WHERE id = $3`,
		health, aura, id)
	if err != nil {
		return fmt.Errorf("更新玩家状态失败: %w", err)
	}
	return nil
}

// UpdatePlayerProgress 更新玩家修炼进度（经验、等级、生命与灵气上限）
func (s *PostgresStore) UpdatePlayerProgress(p *models.Player) error {
	_, err := s.db.Exec(`
		UPDATE players
		SET level = $1, exp = $2,
		    health = $3, max_health = $4, aura = $5, max_aura = $6,
		    updated_at = NOW()
		WHERE id = $7`,
		p.Level, p.Exp, p.Health, p.MaxHealth, p.Aura, p.MaxAura, p.ID)
	if err != nil {
		return fmt.Errorf("更新玩家进度失败: %w", err)
	}
	return nil
}

// SetPlayerOnline 设置玩家在线状态
func (s *PostgresStore) SetPlayerOnline(id int64, online bool) error {
	_, err := s.db.Exec(`
		UPDATE players SET is_online = $1, updated_at = NOW() WHERE id = $2`,
		online, id)
	if err != nil {
		return fmt.Errorf("更新在线状态失败: %w", err)
	}
	return nil
}

// GetOnlinePlayers 查询所有在线玩家
func (s *PostgresStore) GetOnlinePlayers() ([]*models.Player, error) {
	query := fmt.Sprintf("SELECT %s FROM players WHERE is_online = true", playerColumns)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("查询在线玩家失败: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		err := rows.Scan(
			&p.ID, &p.Username, &p.Password, &p.CreatedAt, &p.UpdatedAt,
			&p.Level, &p.Exp, &p.RebirthCycle,
			&p.Health, &p.MaxHealth, &p.Aura, &p.MaxAura,
			&p.HiddenStrength, &p.HiddenAgility, &p.HiddenIntelligence, &p.HiddenEndurance,
			&p.Position.X, &p.Position.Y, &p.Position.Z, &p.Rotation,
			&p.Zone, &p.ZoneLocked, &p.IsOnline,
		)
		if err != nil {
			return nil, fmt.Errorf("扫描玩家数据失败: %w", err)
		}
		players = append(players, &p)
	}
	return players, rows.Err()
}

// PerformRebirth 执行转生
//
// 单条UPDATE保证原子性：SET子句全部基于旧行取值，
// 隐藏属性按转生前等级累加，等级与资源重置。
func (s *PostgresStore) PerformRebirth(id int64) (*models.Player, error) {
	query := fmt.Sprintf(`
		UPDATE players
		SET hidden_strength = hidden_strength + FLOOR(level * 10),
		    hidden_agility = hidden_agility + FLOOR(level * 10),
		    hidden_intelligence = hidden_intelligence + FLOOR(level * 10),
		    hidden_endurance = hidden_endurance + FLOOR(level * 10),
		    level = 1, exp = 0, rebirth_cycle = rebirth_cycle + 1,
		    health = 1000, max_health = 1000, aura = 500, max_aura = 500,
		    updated_at = NOW()
		WHERE id = $1 AND level >= 100
		RETURNING %s`, playerColumns)

	player, err := scanPlayer(s.db.QueryRow(query, id))
	if err == ErrNotFound {
		// 玩家不存在或未达到等级门槛
		if _, getErr := s.GetPlayer(id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrRebirthNotAllowed
	}
	return player, err
}
