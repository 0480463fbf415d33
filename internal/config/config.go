// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 configs/*.yaml 文件结构对应。
// webapi 与 webui 共用同一结构，各自只读取自己需要的部分。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Dice      DiceConfig      `mapstructure:"dice"`
	WebAPI    WebAPIConfig    `mapstructure:"webapi"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Faro      FaroConfig      `mapstructure:"faro"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// DatabaseConfig 存储关系型数据库连接的配置。
// Driver 取值 "mysql" 或 "sqlite"。
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置，用于出目统计。
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig 存储 Kafka 相关的配置，用于发布掷骰事件。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// DiceConfig 存储掷骰业务本身的配置。
type DiceConfig struct {
	// LoopFile 是 loop 处理中反复读取的文件，留空时使用当前加载的配置文件。
	LoopFile string `mapstructure:"loop_file"`
}

// WebAPIConfig 存储 webui 调用 webapi 所需的配置。
// TimeoutSeconds 为 0 时客户端不设超时，sleep/loop 多长都等待 webapi 返回。
type WebAPIConfig struct {
	Host           string `mapstructure:"host"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// CORSConfig 存储跨域访问的配置。
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FaroConfig 存储浏览器端 Grafana Faro SDK 的配置。
type FaroConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
}

// TelemetryConfig 存储 OpenTelemetry 链路追踪的配置。
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
// 环境变量（可来自 .env 文件）会覆盖同名配置项，例如 DATABASE_DSN。
func Init(configPath string) {
	c, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	Conf = *c
}

// Load 读取配置文件并返回解析后的结构体，不修改全局变量。
func Load(configPath string) (*Config, error) {
	// .env 文件是可选的
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if c.Dice.LoopFile == "" {
		c.Dice.LoopFile = v.ConfigFileUsed()
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("kafka.topic", "dice-rolls")
	v.SetDefault("webapi.host", "localhost:8081")
	v.SetDefault("webapi.timeout_seconds", 0)
	v.SetDefault("telemetry.service_name", "rollingdice")
}
