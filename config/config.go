// config.go

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	GamePort    int    `mapstructure:"game_port"`
	GatewayPort int    `mapstructure:"gateway_port"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	JWTSecret   string `mapstructure:"jwt_secret"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GameConfig 游戏世界配置
type GameConfig struct {
	Zone            string        `mapstructure:"zone"`
	SpawnInterval   time.Duration `mapstructure:"spawn_interval"`
	RegenInterval   time.Duration `mapstructure:"regen_interval"`
	LootInterval    time.Duration `mapstructure:"loot_interval"`
	LootTTL         time.Duration `mapstructure:"loot_ttl"`
	MonsterCap      int           `mapstructure:"monster_cap"`
	EngagementRange float64       `mapstructure:"engagement_range"`
	CollectionRange float64       `mapstructure:"collection_range"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config
)

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) error {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	setGameDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}

	if err := viper.Unmarshal(&GlobalConfig); err != nil {
		return fmt.Errorf("无法解析配置文件: %w", err)
	}

	return nil
}

// setGameDefaults 设置游戏世界参数默认值
func setGameDefaults() {
	viper.SetDefault("game.zone", "terra_plains")
	viper.SetDefault("game.spawn_interval", 30*time.Second)
	viper.SetDefault("game.regen_interval", 5*time.Second)
	viper.SetDefault("game.loot_interval", 60*time.Second)
	viper.SetDefault("game.loot_ttl", 5*time.Minute)
	viper.SetDefault("game.monster_cap", 20)
	viper.SetDefault("game.engagement_range", 50.0)
	viper.SetDefault("game.collection_range", 10.0)
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
