package config

import (
	"fmt"
	"strings"
	"time"

	"token-report/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "TOKEN_REPORT"

// Config 定义整个配置的结构
type Config struct {
	Log         LogConfig        `mapstructure:"log"`
	Server      ServerConfig     `mapstructure:"server"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Kafka       KafkaConfig      `mapstructure:"kafka"`
	Monitor     MonitorConfig    `mapstructure:"monitor"`
	Birdeye     BirdeyeConfig    `mapstructure:"birdeye"`
	DexScreener UpstreamConfig   `mapstructure:"dexscreener"`
	RugCheck    UpstreamConfig   `mapstructure:"rugcheck"`
	Assistant   AssistantConfig  `mapstructure:"assistant"`
	Retry       RetryConfig      `mapstructure:"retry"`
	Aggregator  AggregatorConfig `mapstructure:"aggregator"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Prices      PricesConfig     `mapstructure:"prices"`
	Thresholds  ThresholdsConfig `mapstructure:"thresholds"`
}

// LogConfig Log 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RedisConfig Redis 配置，address 为空时只使用本地缓存
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig brokers 为空时不发布报告事件
type KafkaConfig struct {
	Brokers     string `mapstructure:"brokers"`
	TopicReport string `mapstructure:"topic_report"`
}

type MonitorConfig struct {
	Enable         bool   `mapstructure:"enable"`
	PrometheusAddr string `mapstructure:"prometheus_addr"`
}

type UpstreamConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	RateLimit int           `mapstructure:"rate_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type BirdeyeConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Chain     string        `mapstructure:"chain"`
	RateLimit int           `mapstructure:"rate_limit"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type AssistantConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BaseDelay   time.Duration `mapstructure:"base_delay"`
}

type AggregatorConfig struct {
	Deadline       time.Duration `mapstructure:"deadline"`
	StrictBranches bool          `mapstructure:"strict_branches"`
}

type CacheConfig struct {
	ReportTTL time.Duration `mapstructure:"report_ttl"`
}

type PricesConfig struct {
	RefreshInterval time.Duration     `mapstructure:"refresh_interval"`
	Assets          map[string]string `mapstructure:"assets"`
}

type ThresholdsConfig struct {
	HighValueUSD    float64              `mapstructure:"high_value_usd"`
	HighSupplyRatio float64              `mapstructure:"high_supply_ratio"`
	TrendIncrease   float64              `mapstructure:"trend_increase"`
	TrendDecrease   float64              `mapstructure:"trend_decrease"`
	RiskWarning     float64              `mapstructure:"risk_warning"`
	RiskDanger      float64              `mapstructure:"risk_danger"`
	Trade           TradeThresholdConfig `mapstructure:"trade"`
}

type TradeThresholdConfig struct {
	Top10VolumeShare float64 `mapstructure:"top10_volume_share"`
	Volume24hUSD     float64 `mapstructure:"volume_24h_usd"`
	PriceChange24h   float64 `mapstructure:"price_change_24h"`
	PriceChange12h   float64 `mapstructure:"price_change_12h"`
	UniqueWallets24h int64   `mapstructure:"unique_wallets_24h"`
	MinLiquidityUSD  float64 `mapstructure:"min_liquidity_usd"`
	MinMarketCapUSD  float64 `mapstructure:"min_market_cap_usd"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "120s") // 大于 aggregator.deadline + assistant.timeout
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic_report", "token_report.generated")
	v.SetDefault("monitor.enable", false)
	v.SetDefault("monitor.prometheus_addr", "")
	v.SetDefault("birdeye.base_url", "https://public-api.birdeye.so")
	v.SetDefault("birdeye.api_key", "")
	v.SetDefault("birdeye.chain", "solana")
	v.SetDefault("birdeye.rate_limit", 0)
	v.SetDefault("birdeye.timeout", "10s")
	v.SetDefault("dexscreener.base_url", "https://api.dexscreener.com")
	v.SetDefault("dexscreener.rate_limit", 0)
	v.SetDefault("dexscreener.timeout", "10s")
	v.SetDefault("rugcheck.base_url", "https://api.rugcheck.xyz")
	v.SetDefault("rugcheck.rate_limit", 0)
	v.SetDefault("rugcheck.timeout", "10s")
	v.SetDefault("assistant.base_url", "https://api.assisterr.ai/api/v1/slm/elyrai")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.timeout", "60s")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", "2s")
	v.SetDefault("aggregator.deadline", "30s")
	v.SetDefault("aggregator.strict_branches", true)
	v.SetDefault("cache.report_ttl", "15m")
	v.SetDefault("prices.refresh_interval", "5m")
	v.SetDefault("prices.assets", map[string]string{
		"solana":   "So11111111111111111111111111111111111111112",
		"bitcoin":  "qfnqNqs3nCAHjnyCgLRDbBtq4p2MtHZxw8YjSyYhPoL",
		"ethereum": "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs",
	})
	v.SetDefault("thresholds.high_value_usd", 5)
	v.SetDefault("thresholds.high_supply_ratio", 0.02)
	v.SetDefault("thresholds.trend_increase", 10)
	v.SetDefault("thresholds.trend_decrease", -10)
	v.SetDefault("thresholds.risk_warning", 1000)
	v.SetDefault("thresholds.risk_danger", 5000)
	v.SetDefault("thresholds.trade.top10_volume_share", 0.05)
	v.SetDefault("thresholds.trade.volume_24h_usd", 1000)
	v.SetDefault("thresholds.trade.price_change_24h", 10)
	v.SetDefault("thresholds.trade.price_change_12h", 5)
	v.SetDefault("thresholds.trade.unique_wallets_24h", 100)
	v.SetDefault("thresholds.trade.min_liquidity_usd", 1000)
	v.SetDefault("thresholds.trade.min_market_cap_usd", 100000)
}

// Load 读取 dir 下的 name.yaml，环境变量 TOKEN_REPORT_<SECTION>_<KEY> 可覆盖
func Load(dir, name string) (Config, error) {
	v := viper.New()
	return load(v, dir, name)
}

func load(v *viper.Viper, dir, name string) (Config, error) {
	var config Config

	setDefaults(v)
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return config, fmt.Errorf("read config file: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return config, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}

	return config, nil
}

func InitConfig() Config {
	config, err := load(viper.GetViper(), "./config/", "config.server")
	if err != nil {
		panic(fmt.Errorf("fatal error config file: %s", err))
	}
	return config
}

// WatchConfig 配置热加载，目前只有日志级别即时生效
func WatchConfig(config *Config) {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig, err := load(viper.GetViper(), "./config/", "config.server")
		if err != nil {
			return
		}
		*config = newConfig
		logger.SetLogLevel(config.Log.Level)
	})
}
