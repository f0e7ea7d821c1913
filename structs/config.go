package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Auth       *AuthConfig
	Cache      *CacheConfig
	Storage    *StorageConfig
	WhatsApp   *WhatsAppConfig
	Email      *EmailConfig
	Encryption *EncryptionConfig
	RateLimit  *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Bijouterie
	ShopName       string        // printed on receipts and messages
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	MaxUploadBytes int64
	CookieDomain   string
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver       string // pgdriver, pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AutoMigrate  bool
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	BlacklistCacheTTL time.Duration
	CacheUserTTL      time.Duration
	BootstrapUsername string
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapFullName string
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	StatsTTL        time.Duration
}

type StorageConfig struct {
	Backend       string // minio, s3
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	PublicBaseURL string
}

type WhatsAppConfig struct {
	BridgeURL   string
	Timeout     time.Duration
	CountryCode string
}

type EmailConfig struct {
	ApiKey string
	From   string
}

type EncryptionConfig struct {
	Key string
}

type RateLimitConfig struct {
	Enabled       bool
	AuthLimit     int
	AuthWindow    time.Duration
	GeneralLimit  int
	GeneralWindow time.Duration
}
