// Package config builds per-service configuration from environment variables
// so main stays lean. Values are read once at startup and never mutated.
package config

import (
	"os"
	"strings"
	"time"
)

// TrustMode selects how an internal service establishes the request principal.
type TrustMode string

const (
	// TrustModeHeaders trusts the gateway propagation headers verbatim. Use
	// when the gateway is the only network entry point.
	TrustModeHeaders TrustMode = "headers"
	// TrustModeVerify re-verifies the bearer token independently. Use in flat
	// networks where the gateway can be bypassed.
	TrustModeVerify TrustMode = "verify"
)

// Gateway captures API gateway configuration.
type Gateway struct {
	Addr               string
	LogLevel           string
	JWTSigningKey      string
	UserServiceURL     string
	ProjectServiceURL  string
	NotifyServiceURL   string
	PublicPathPrefixes []string
}

// UserService captures user service configuration.
type UserService struct {
	Addr          string
	LogLevel      string
	JWTSigningKey string
	TokenTTL      time.Duration
	TrustMode     TrustMode
}

// ProjectService captures project service configuration.
type ProjectService struct {
	Addr           string
	LogLevel       string
	JWTSigningKey  string
	TrustMode      TrustMode
	KafkaBrokers   []string
	TaskEventTopic string
	UserServiceURL string
}

// NotificationService captures notification service configuration.
type NotificationService struct {
	Addr           string
	LogLevel       string
	JWTSigningKey  string
	TrustMode      TrustMode
	KafkaBrokers   []string
	TaskEventTopic string
	ConsumerGroup  string
	// StoreWriteTimeout bounds each notification write triggered by a
	// consumed event so a slow store cannot stall the partition.
	StoreWriteTimeout time.Duration
	PostgresDSN       string // empty selects the in-memory store
	RedisURL          string // empty disables the unread-count cache
}

// GatewayFromEnv builds the gateway config from environment variables.
func GatewayFromEnv() Gateway {
	return Gateway{
		Addr:              getenv("GATEWAY_ADDR", ":8080"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		JWTSigningKey:     signingKey(),
		UserServiceURL:    getenv("USER_SERVICE_URL", "http://localhost:8081"),
		ProjectServiceURL: getenv("PROJECT_SERVICE_URL", "http://localhost:8082"),
		NotifyServiceURL:  getenv("NOTIFICATION_SERVICE_URL", "http://localhost:8083"),
		PublicPathPrefixes: splitList(getenv(
			"GATEWAY_PUBLIC_PATHS", "/api/auth/register,/api/auth/login")),
	}
}

// UserServiceFromEnv builds the user service config from environment variables.
func UserServiceFromEnv() UserService {
	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	return UserService{
		Addr:          getenv("USER_SERVICE_ADDR", ":8081"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		JWTSigningKey: signingKey(),
		TokenTTL:      ttl,
		TrustMode:     trustMode(),
	}
}

// ProjectServiceFromEnv builds the project service config from environment variables.
func ProjectServiceFromEnv() ProjectService {
	return ProjectService{
		Addr:           getenv("PROJECT_SERVICE_ADDR", ":8082"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		JWTSigningKey:  signingKey(),
		TrustMode:      trustMode(),
		KafkaBrokers:   splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
		TaskEventTopic: getenv("TASK_EVENT_TOPIC", "task-events"),
		UserServiceURL: getenv("USER_SERVICE_URL", "http://localhost:8081"),
	}
}

// NotificationServiceFromEnv builds the notification service config from
// environment variables.
func NotificationServiceFromEnv() NotificationService {
	timeout := 5 * time.Second
	if v := os.Getenv("STORE_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}
	return NotificationService{
		Addr:              getenv("NOTIFICATION_SERVICE_ADDR", ":8083"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		JWTSigningKey:     signingKey(),
		TrustMode:         trustMode(),
		KafkaBrokers:      splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
		TaskEventTopic:    getenv("TASK_EVENT_TOPIC", "task-events"),
		ConsumerGroup:     getenv("KAFKA_CONSUMER_GROUP", "notification-service-group"),
		StoreWriteTimeout: timeout,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		RedisURL:          os.Getenv("REDIS_URL"),
	}
}

func signingKey() string {
	key := os.Getenv("JWT_SIGNING_KEY")
	if key == "" {
		// Use a default for development - should be overridden in production
		key = "dev-secret-key-change-in-production"
	}
	return key
}

func trustMode() TrustMode {
	if os.Getenv("TRUST_MODE") == string(TrustModeVerify) {
		return TrustModeVerify
	}
	return TrustModeHeaders
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
