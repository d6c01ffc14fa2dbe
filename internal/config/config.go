package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

const (
	defaultConfigPath = "configs/config_local.toml"
	configPathEnv     = "REVIEWHUB_CONFIG"
)

type MainConfig struct {
	AppName   string `toml:"appName"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	EnableTLS bool   `toml:"enableTLS"`

	// ServiceToken /internal 路由组的共享令牌，为空时该组全部拒绝
	ServiceToken string `toml:"serviceToken"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
	Level   string `toml:"level"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type KafkaConfig struct {
	Brokers           []string `toml:"brokers"`
	ClientID          string   `toml:"clientID"`
	NotificationTopic string   `toml:"notificationTopic"`
	ReminderTopic     string   `toml:"reminderTopic"`
	Partitions        int32    `toml:"partitions"`
	ReplicationFactor int16    `toml:"replicationFactor"`
	RetentionHours    int      `toml:"retentionHours"`
}

// ReminderConfig 提醒投递任务配置
type ReminderConfig struct {
	MaxAttempts  int    `toml:"maxAttempts"`
	CronExpr     string `toml:"cronExpr"`
	BatchSize    int    `toml:"batchSize"`
	DispatchCron string `toml:"dispatchCron"`
	// DeferMinutes 被偏好或暂停拦截的提醒延后多久再检查
	DeferMinutes int    `toml:"deferMinutes"`
}

type PreferenceCacheConfig struct {
	TTLSeconds int `toml:"ttlSeconds"`
}

type Config struct {
	MainConfig            `toml:"mainConfig"`
	MysqlConfig           `toml:"mysqlConfig"`
	LogConfig             `toml:"logConfig"`
	JwtConfig             `toml:"jwtConfig"`
	RedisConfig           `toml:"redisConfig"`
	KafkaConfig           `toml:"kafkaConfig"`
	ReminderConfig        `toml:"reminderConfig"`
	PreferenceCacheConfig `toml:"preferenceCacheConfig"`
}

var (
	config *Config
	mu     sync.Mutex
)

// Default 返回全部字段已填充的默认配置，配置文件缺失时也能启动
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "reviewhub",
			Host:    "0.0.0.0",
			Port:    8000,
		},
		MysqlConfig: MysqlConfig{
			Host:         "127.0.0.1",
			Port:         3306,
			User:         "root",
			DatabaseName: "reviewhub",
		},
		LogConfig: LogConfig{
			LogPath: "logs/reviewhub.log",
			Level:   "info",
		},
		JwtConfig: JwtConfig{
			ExpireHours: 24,
			Issuer:      "reviewhub",
		},
		RedisConfig: RedisConfig{
			Port:     6379,
			PoolSize: 10,
		},
		KafkaConfig: KafkaConfig{
			ClientID:          "reviewhub",
			NotificationTopic: "reviewhub.notification",
			ReminderTopic:     "reviewhub.reminder",
			Partitions:        3,
			ReplicationFactor: 1,
			RetentionHours:    168,
		},
		ReminderConfig: ReminderConfig{
			MaxAttempts:  5,
			CronExpr:     "@every 1m",
			BatchSize:    100,
			DispatchCron: "@every 10s",
			DeferMinutes: 5,
		},
		PreferenceCacheConfig: PreferenceCacheConfig{
			TTLSeconds: 300,
		},
	}
}

// Load 读取 TOML 配置，文件中未出现的字段保留默认值
func Load(path string) (*Config, error) {
	conf := Default()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return conf, err
	}
	conf.normalize()
	return conf, nil
}

func (c *Config) normalize() {
	def := Default()
	if c.ReminderConfig.MaxAttempts <= 0 {
		c.ReminderConfig.MaxAttempts = def.ReminderConfig.MaxAttempts
	}
	if strings.TrimSpace(c.ReminderConfig.CronExpr) == "" {
		c.ReminderConfig.CronExpr = def.ReminderConfig.CronExpr
	}
	if strings.TrimSpace(c.ReminderConfig.DispatchCron) == "" {
		c.ReminderConfig.DispatchCron = def.ReminderConfig.DispatchCron
	}
	if c.ReminderConfig.DeferMinutes <= 0 {
		c.ReminderConfig.DeferMinutes = def.ReminderConfig.DeferMinutes
	}
	if c.ReminderConfig.BatchSize <= 0 {
		c.ReminderConfig.BatchSize = def.ReminderConfig.BatchSize
	}
	if c.JwtConfig.ExpireHours <= 0 {
		c.JwtConfig.ExpireHours = def.JwtConfig.ExpireHours
	}
	if c.JwtConfig.Issuer == "" {
		c.JwtConfig.Issuer = c.MainConfig.AppName
	}
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv(configPathEnv)); p != "" {
		return p
	}
	return defaultConfigPath
}

// GetConfig 首次调用时加载配置，失败则回退到默认值
func GetConfig() *Config {
	mu.Lock()
	defer mu.Unlock()
	if config == nil {
		conf, err := Load(configPath())
		if err != nil {
			log.Printf("加载配置文件失败: %v, 使用默认设置", err)
			conf = Default()
		}
		config = conf
	}
	return config
}

// SetConfig 替换全局配置（测试或命令行覆盖使用）
func SetConfig(c *Config) {
	mu.Lock()
	config = c
	mu.Unlock()
}
