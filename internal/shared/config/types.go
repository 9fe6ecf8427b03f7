package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the gorm dialector. Driver is sqlite, postgres or mysql;
// Path is only read for sqlite.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	default:
		return d.Path
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	Issuer        string `mapstructure:"issuer"`
	AccessExpMins int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT        JWTConfig `mapstructure:"jwt"`
	BcryptCost int       `mapstructure:"bcrypt_cost"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SubscriptionConfig drives snapshot caching and the reconciliation schedule.
type SubscriptionConfig struct {
	SnapshotTTL         time.Duration `mapstructure:"snapshot_ttl"`
	DailyCron           string        `mapstructure:"daily_cron"`
	SweepInterval       time.Duration `mapstructure:"sweep_interval"`
	SweepTimeout        time.Duration `mapstructure:"sweep_timeout"`
	DefaultPlanSlug     string        `mapstructure:"default_plan_slug"`
	DefaultTrialDays    int           `mapstructure:"default_trial_days"`
	InvalidationChannel string        `mapstructure:"invalidation_channel"`
}

// StorageConfig selects where uploaded files live. Driver is local or s3.
type StorageConfig struct {
	Driver    string          `mapstructure:"driver"`
	LocalDir  string          `mapstructure:"local_dir"`
	PublicURL string          `mapstructure:"public_url"`
	MaxUpload int64           `mapstructure:"max_upload_bytes"`
	S3        S3StorageConfig `mapstructure:"s3"`
}

type S3StorageConfig struct {
	Bucket         string `mapstructure:"bucket"`
	Region         string `mapstructure:"region"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKeyID    string `mapstructure:"access_key_id"`
	SecretKey      string `mapstructure:"secret_key"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

type WebhookConfig struct {
	Token string `mapstructure:"token"`
}

// AdminConfig guards the platform endpoints that manage the plan catalog.
// An empty APIKey disables them.
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RateLimitConfig struct {
	PublicFormPerMinute int `mapstructure:"public_form_per_minute"`
}
