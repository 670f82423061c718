// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig 存储 API 服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ChatConfig 存储会话消息存储相关的配置。
type ChatConfig struct {
	// HistoryLimit 为单个会话保留的最大消息条数，超出后裁剪最旧的部分
	HistoryLimit int `mapstructure:"history_limit"`
	// HistoryTTL 为会话 key 在 Redis 中的过期时间
	HistoryTTL time.Duration `mapstructure:"history_ttl"`
}

// ClientConfig 存储 CLI 客户端相关的配置。
type ClientConfig struct {
	// APIBase 是后端 API 的基础地址，例如 http://localhost:5000/api
	APIBase string `mapstructure:"api_base"`
	// PollInterval 是会话轮询的固定间隔
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// StateDir 是本地凭证文件所在目录，为空时使用 ~/.archmarket
	StateDir string `mapstructure:"state_dir"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}

	applyDefaults(&Conf)
}

// applyDefaults 为缺省配置项填充合理的默认值。
func applyDefaults(c *Config) {
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 200
	}
	if c.Chat.HistoryTTL <= 0 {
		c.Chat.HistoryTTL = 30 * 24 * time.Hour
	}
	if c.Client.PollInterval <= 0 {
		c.Client.PollInterval = 5 * time.Second
	}
}
