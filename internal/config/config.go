package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Views         ViewsConfig         `mapstructure:"views"`
	RateLimit     RateLimitConfig     `mapstructure:"ratelimit"`
	CORS          CORSConfig          `mapstructure:"cors"`
	Log           LogConfig           `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"` // postgres | memory
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	TxMaxAttempts   int    `mapstructure:"tx_max_attempts"`
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	// Enabled 关闭时 token 黑名单保存在进程内存中，仅适合单实例开发环境
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// StorageConfig 媒体存储配置，Provider 决定使用哪个后端
type StorageConfig struct {
	Provider string      `mapstructure:"provider"` // minio | s3 | gcs | local
	MinIO    MinIOConfig `mapstructure:"minio"`
	S3       S3Config    `mapstructure:"s3"`
	GCS      GCSConfig   `mapstructure:"gcs"`
	Local    LocalConfig `mapstructure:"local"`
	// MaxUploadMB 单个文件上传上限
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes 返回上传上限（字节）
func (s *StorageConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// S3Config S3配置
type S3Config struct {
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// GCSConfig Google Cloud Storage配置
type GCSConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CredentialsFile string `mapstructure:"credentials_file"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
}

// LocalConfig 本地文件存储配置（开发环境）
type LocalConfig struct {
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
	GroupID string            `mapstructure:"group_id"`
	// CleanupMaxAttempts 媒体删除任务的最大重试次数
	CleanupMaxAttempts int `mapstructure:"cleanup_max_attempts"`
}

// Topic 返回 topic 名称，未配置时使用 key 本身
func (k *KafkaConfig) Topic(key string) string {
	if t, ok := k.Topics[key]; ok && t != "" {
		return t
	}
	return key
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Hosts   []string          `mapstructure:"hosts"`
	Index   map[string]string `mapstructure:"index"`
}

// VideosIndex 返回视频索引名
func (e *ElasticsearchConfig) VideosIndex() string {
	if name := e.Index["videos"]; name != "" {
		return name
	}
	return "videos"
}

// JWTConfig JWT配置
type JWTConfig struct {
	AccessSecret       string `mapstructure:"access_secret"`
	AccessExpireHours  int    `mapstructure:"access_expire_hours"`
	RefreshSecret      string `mapstructure:"refresh_secret"`
	RefreshExpireHours int    `mapstructure:"refresh_expire_hours"`
	// RevocationMaxHours 吊销记录在 Redis 中的最长保留时间
	RevocationMaxHours int `mapstructure:"revocation_max_hours"`
}

// AccessExpireDuration 返回 access token 过期时间
func (j *JWTConfig) AccessExpireDuration() time.Duration {
	return time.Duration(j.AccessExpireHours) * time.Hour
}

// RefreshExpireDuration 返回 refresh token 过期时间
func (j *JWTConfig) RefreshExpireDuration() time.Duration {
	return time.Duration(j.RefreshExpireHours) * time.Hour
}

// RevocationMaxTTL 返回吊销记录最长 TTL
func (j *JWTConfig) RevocationMaxTTL() time.Duration {
	return time.Duration(j.RevocationMaxHours) * time.Hour
}

// ViewsConfig 播放去重配置
type ViewsConfig struct {
	DedupWindowHours     int `mapstructure:"dedup_window_hours"`
	PurgeIntervalMinutes int `mapstructure:"purge_interval_minutes"`
}

// DedupWindow 返回去重窗口
func (v *ViewsConfig) DedupWindow() time.Duration {
	return time.Duration(v.DedupWindowHours) * time.Hour
}

// PurgeInterval 返回过期记录清理间隔
func (v *ViewsConfig) PurgeInterval() time.Duration {
	return time.Duration(v.PurgeIntervalMinutes) * time.Minute
}

// RateLimitConfig 认证接口限流配置
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
	Burst         int `mapstructure:"burst"`
}

// Window 返回限流窗口
func (r *RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// 全局配置实例
var globalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "tourtube")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.mode", "debug")
	v.SetDefault("app.port", 8000)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "tourtube")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.tx_max_attempts", 5)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.max_upload_mb", 512)
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.use_ssl", false)
	v.SetDefault("storage.minio.bucket", "tourtube-media")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.public_base_url", "")
	v.SetDefault("storage.gcs.bucket", "")
	v.SetDefault("storage.gcs.credentials_file", "")
	v.SetDefault("storage.gcs.public_base_url", "")
	v.SetDefault("storage.local.dir", "./data/media")
	v.SetDefault("storage.local.public_base_url", "http://localhost:8000/media")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topics", map[string]string{
		"video_events":  "tourtube.video-events",
		"media_cleanup": "tourtube.media-cleanup",
	})
	v.SetDefault("kafka.group_id", "tourtube-worker")
	v.SetDefault("kafka.cleanup_max_attempts", 5)

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.hosts", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index", map[string]string{"videos": "tourtube-videos"})

	v.SetDefault("jwt.access_secret", "change-me-access")
	v.SetDefault("jwt.access_expire_hours", 24)
	v.SetDefault("jwt.refresh_secret", "change-me-refresh")
	v.SetDefault("jwt.refresh_expire_hours", 240)
	v.SetDefault("jwt.revocation_max_hours", 72)

	v.SetDefault("views.dedup_window_hours", 24)
	v.SetDefault("views.purge_interval_minutes", 10)

	v.SetDefault("ratelimit.requests", 10)
	v.SetDefault("ratelimit.window_seconds", 60)
	v.SetDefault("ratelimit.burst", 5)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")
}

// Load 加载配置文件
// 优先级：环境变量 > .env > 配置文件 > 默认值；配置文件不存在时只使用默认值与环境变量
func Load(configPath string) (*Config, error) {
	// .env 可选
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// database.host -> DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	globalConfig = &cfg

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Provider {
	case "minio", "s3", "gcs", "local":
	default:
		return fmt.Errorf("unsupported storage provider %q", c.Storage.Provider)
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("jwt secrets must not be empty")
	}
	return nil
}

// Set 替换全局配置（测试使用）
func Set(cfg *Config) {
	globalConfig = cfg
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

// GetApp 获取应用配置
func GetApp() *AppConfig {
	return &Get().App
}

// GetDatabase 获取数据库配置
func GetDatabase() *DatabaseConfig {
	return &Get().Database
}

// GetRedis 获取Redis配置
func GetRedis() *RedisConfig {
	return &Get().Redis
}

// GetStorage 获取媒体存储配置
func GetStorage() *StorageConfig {
	return &Get().Storage
}

// GetKafka 获取Kafka配置
func GetKafka() *KafkaConfig {
	return &Get().Kafka
}

// GetElasticsearch 获取Elasticsearch配置
func GetElasticsearch() *ElasticsearchConfig {
	return &Get().Elasticsearch
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}

// GetViews 获取播放去重配置
func GetViews() *ViewsConfig {
	return &Get().Views
}

// GetLog 获取日志配置
func GetLog() *LogConfig {
	return &Get().Log
}

// GetRateLimit 获取限流配置
func GetRateLimit() *RateLimitConfig {
	return &Get().RateLimit
}

// GetCORS 获取跨域配置
func GetCORS() *CORSConfig {
	return &Get().CORS
}
