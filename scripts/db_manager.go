// db_manager.go

package main

import (
	"crypto/sha256"
	"flag"
	"fmt"
	"log"

	"github.com/jacl-coder/TerraRealm-Server/config"
	"github.com/jacl-coder/TerraRealm-Server/pkg/db"
)

func main() {
	// 解析命令行参数
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	action := flag.String("action", "help", "操作类型: reset, init, seed, help")
	flag.Parse()

	// 显示帮助信息
	if *action == "help" {
		showHelp()
		return
	}

	// 加载配置
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化数据库连接
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("初始化PostgreSQL失败: %v", err)
	}
	defer db.Close()

	// 执行操作
	switch *action {
	case "reset":
		resetDatabase()
	case "init":
		initDatabase()
	case "seed":
		seedDatabase()
	default:
		log.Fatalf("未知操作: %s", *action)
	}
}

// showHelp 显示帮助信息
func showHelp() {
	log.Println("TerraRealm 数据库管理工具")
	log.Println("")
	log.Println("用法:")
	log.Println("  go run scripts/db_manager.go -action=<操作> [-config=<配置文件>]")
	log.Println("")
	log.Println("操作:")
	log.Println("  reset  - 重置数据库（删除所有表和数据）")
	log.Println("  init   - 初始化数据库（创建表结构）")
	log.Println("  seed   - 写入物品目录与测试账号")
	log.Println("  help   - 显示此帮助信息")
	log.Println("")
	log.Println("示例:")
	log.Println("  go run scripts/db_manager.go -action=reset")
	log.Println("  go run scripts/db_manager.go -action=init && go run scripts/db_manager.go -action=seed")
}

// resetDatabase 重置数据库
func resetDatabase() {
	log.Println("⚠️  正在重置数据库...")
	log.Println("⚠️  这将删除所有表和数据！")

	// 删除所有表的SQL
	resetSQL := `
-- 删除表（按依赖关系顺序）
DROP TABLE IF EXISTS chat_messages CASCADE;
DROP TABLE IF EXISTS player_inventory CASCADE;
DROP TABLE IF EXISTS world_loot CASCADE;
DROP TABLE IF EXISTS loot_items CASCADE;
DROP TABLE IF EXISTS monsters CASCADE;
DROP TABLE IF EXISTS players CASCADE;
`

	_, err := db.DB.Exec(resetSQL)
	if err != nil {
		log.Fatalf("重置数据库失败: %v", err)
	}

	log.Println("✅ 数据库重置完成")
}

// initDatabase 初始化数据库
func initDatabase() {
	log.Println("🚀 正在初始化数据库...")

	// 使用统一的表结构创建所有表
	if err := db.InitAllTables(); err != nil {
		log.Fatalf("初始化数据库表失败: %v", err)
	}

	log.Println("✅ 数据库初始化完成")
	log.Println("")
	log.Println("📋 已创建的表:")
	log.Println("  - players (玩家表)")
	log.Println("  - monsters (怪物表)")
	log.Println("  - loot_items (物品目录表)")
	log.Println("  - world_loot (世界掉落物表)")
	log.Println("  - player_inventory (玩家背包表)")
	log.Println("  - chat_messages (聊天记录表)")
	log.Println("")
	log.Println("💡 提示: 使用以下命令写入初始数据:")
	log.Println("  go run scripts/db_manager.go -action=seed")
}

// seedDatabase 写入物品目录与测试账号
func seedDatabase() {
	log.Println("🚀 正在写入初始数据...")

	seedItems()
	seedTestAccounts()

	log.Println("✅ 初始数据写入完成")
}

// seedItems 写入物品目录
//
// bone和meat是怪物掉落所依赖的固定条目，名称不可改动。
func seedItems() {
	itemsSQL := `
INSERT INTO loot_items (name, item_type, rarity, restore_health, restore_aura, max_stack) VALUES
	('bone', 'material', 'common', 0, 0, 99),
	('meat', 'consumable', 'common', 50, 0, 99),
	('healing_elixir', 'consumable', 'uncommon', 200, 0, 20),
	('aura_elixir', 'consumable', 'uncommon', 0, 100, 20),
	('earth_essence', 'material', 'rare', 0, 0, 99)
ON CONFLICT (name) DO NOTHING;
`

	result, err := db.DB.Exec(itemsSQL)
	if err != nil {
		log.Fatalf("写入物品目录失败: %v", err)
	}

	count, _ := result.RowsAffected()
	log.Printf("📦 写入 %d 个物品条目", count)
}

// seedTestAccounts 写入测试账号
func seedTestAccounts() {
	accounts := []struct {
		username string
		password string
		level    int
		exp      int64
	}{
		{"test1", "test123", 1, 0},
		{"test2", "test123", 50, 4900},
		{"master", "test123", 100, 9900},
	}

	for _, account := range accounts {
		hash := sha256.Sum256([]byte(account.password))
		_, err := db.DB.Exec(`
			INSERT INTO players (username, password, level, exp, health, max_health, aura, max_aura)
			VALUES ($1, $2, $3, $4, $5, $5, $6, $6)
			ON CONFLICT (username) DO NOTHING
		`, account.username, fmt.Sprintf("%x", hash), account.level, account.exp,
			1000+account.level*50, 500+account.level*25)
		if err != nil {
			log.Fatalf("写入测试账号 %s 失败: %v", account.username, err)
		}
	}

	log.Printf("👤 写入 %d 个测试账号", len(accounts))
}
