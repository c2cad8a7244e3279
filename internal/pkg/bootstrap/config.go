// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"quoteengine/internal/service/quote/domain"
)

const (
	configPathEnv     = "QUOTE_CONFIG"
	defaultConfigPath = "configs/quote-service.yaml"
)

// Config 是服务的完整配置，YAML 文件之后再叠加环境变量。
type Config struct {
	Server  ServerConfig         `yaml:"server"`
	Log     LogConfig            `yaml:"log"`
	Pricing domain.PricingConfig `yaml:"pricing"`
	Infra   InfraConfig          `yaml:"infra"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type InfraConfig struct {
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Jaeger JaegerConfig `yaml:"jaeger"`
	Nacos  NacosConfig  `yaml:"nacos"`
}

type MySQLConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	Database     string        `yaml:"database"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	StoreTimeout time.Duration `yaml:"store_timeout"`
	AutoMigrate  bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addrs    []string      `yaml:"addrs"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	RateTTL  time.Duration `yaml:"rate_ttl"`
}

type KafkaConfig struct {
	Enabled bool   `yaml:"enabled"`
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

type JaegerConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type NacosConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServerAddrs string `yaml:"server_addrs"`
	Namespace   string `yaml:"namespace"`
	Group       string `yaml:"group"`
}

// DefaultConfig 返回不依赖任何外部组件即可运行的配置。
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:     LogConfig{Level: "info"},
		Pricing: domain.DefaultPricingConfig(),
		Infra: InfraConfig{
			MySQL:  MySQLConfig{
				Addr:         "localhost:3306",
				User:         "root",
				Database:     "quotes",
				MaxOpenConns: 20,
				MaxIdleConns: 5,
				StoreTimeout: 800 * time.Millisecond,
			},
			Redis:  RedisConfig{Addrs: []string{"localhost:6379"}, RateTTL: 5 * time.Minute},
			Kafka:  KafkaConfig{Brokers: "localhost:9092", Topic: "quote.issued"},
			Jaeger: JaegerConfig{SampleRatio: 1},
			Nacos:  NacosConfig{ServerAddrs: "localhost:8848", Group: "DEFAULT_GROUP"},
		},
	}
}

var (
	currentConfig *Config
	configMu      sync.RWMutex
)

// Init 加载配置，文件不存在时只使用默认值和环境变量。
func Init() {
	cfg, err := LoadConfig(getEnv(configPathEnv, defaultConfigPath))
	if err != nil {
		panic(err)
	}
	configMu.Lock()
	currentConfig = cfg
	configMu.Unlock()
}

// GetCurrentConfig 返回当前生效的配置，未初始化时返回默认配置。
func GetCurrentConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	if currentConfig == nil {
		cfg := DefaultConfig()
		applyEnvOverrides(&cfg)
		return &cfg
	}
	return currentConfig
}

// LoadConfig reads path over the defaults and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	applyEnvOverrides(&cfg)
	cfg.Pricing = cfg.Pricing.WithDefaults()
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	m := &cfg.Infra.MySQL
	m.Enabled = getEnvBool("MYSQL_ENABLED", m.Enabled)
	m.Addr = getEnv("MYSQL_ADDR", m.Addr)
	m.User = getEnv("MYSQL_USER", m.User)
	m.Password = getEnv("MYSQL_PASSWORD", m.Password)
	m.Database = getEnv("MYSQL_DATABASE", m.Database)
	m.StoreTimeout = getEnvDuration("STORE_TIMEOUT", m.StoreTimeout)
	m.AutoMigrate = getEnvBool("MYSQL_AUTO_MIGRATE", m.AutoMigrate)

	r := &cfg.Infra.Redis
	r.Enabled = getEnvBool("REDIS_ENABLED", r.Enabled)
	if addrs := getEnv("REDIS_ADDRS", ""); addrs != "" {
		r.Addrs = strings.Split(addrs, ",")
	}
	r.Password = getEnv("REDIS_PASSWORD", r.Password)

	k := &cfg.Infra.Kafka
	k.Enabled = getEnvBool("KAFKA_ENABLED", k.Enabled)
	k.Brokers = getEnv("KAFKA_BROKERS", k.Brokers)
	k.Topic = getEnv("KAFKA_QUOTE_TOPIC", k.Topic)

	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)

	n := &cfg.Infra.Nacos
	n.Enabled = getEnvBool("NACOS_ENABLED", n.Enabled)
	n.ServerAddrs = getEnv("NACOS_SERVER_ADDRS", n.ServerAddrs)
	n.Namespace = getEnv("NACOS_NAMESPACE", n.Namespace)
	n.Group = getEnv("NACOS_GROUP", n.Group)
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
