package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type LoginTokenConfig struct {
	ExpireMinutes int `mapstructure:"expire_minutes"`
}

type SessionConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type AuthConfig struct {
	LoginToken LoginTokenConfig `mapstructure:"login_token"`
	Session    SessionConfig    `mapstructure:"session"`
	Cookie     CookieConfig     `mapstructure:"cookie"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type TelegramConfig struct {
	BotToken    string `mapstructure:"bot_token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}

type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// NotifyConfig gates each event-router entry point. The flags are orthogonal
// to the per-trigger email preferences stored in the database.
type NotifyConfig struct {
	StatusChange       bool `mapstructure:"status_change"`
	UserCreated        bool `mapstructure:"user_created"`
	UserUpdated        bool `mapstructure:"user_updated"`
	UserDeleted        bool `mapstructure:"user_deleted"`
	DataUsageReset     bool `mapstructure:"data_usage_reset"`
	SubscriptionRevoked bool `mapstructure:"subscription_revoked"`
	UsagePercentReached bool `mapstructure:"usage_percent_reached"`
	DaysLeftReached    bool `mapstructure:"days_left_reached"`
	LoginAttempt       bool `mapstructure:"login_attempt"`
}

type RateLimitConfig struct {
	MagicLinkPerMinute int `mapstructure:"magic_link_per_minute"`
	MagicLinkPerHour   int `mapstructure:"magic_link_per_hour"`
}
