package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	OTPTTL             time.Duration

	Pricing    PricingConfig
	Restaurant RestaurantConfig

	RazorpayKeyID     string
	RazorpayKeySecret string
	GoogleMapsAPIKey  string
	Fast2SMSAPIKey    string
	ExpoPushURL       string
	ExpoAccessToken   string

	CatalogCacheTTL   time.Duration
	DashboardCacheTTL time.Duration
	IdempotencyTTL    time.Duration
	PaymentReplayTTL  time.Duration
	KafkaBrokers    []string
	KafkaTopic      string
	ResendAPIKey    string
	SupportEmailTo  string
	EmailFrom       string

	WorkerConcurrency int
	PushMaxRetry      int

	RateLimitPerMinute int64
	OTPSendLimit       int64
	OTPSendWindow      time.Duration
	AutoMigrate        bool
	MaxBodyBytes       int64
	EnableHSTS         bool
}

// PricingConfig carries the order pricing constants.
type PricingConfig struct {
	PlatformFee          decimal.Decimal
	FreeDeliveryRadiusKm float64
	DeliveryPerKm        decimal.Decimal
	MaxDeliveryRadiusKm  float64
}

// RestaurantConfig is the fixed pickup point used for distance calculations.
type RestaurantConfig struct {
	Lat float64
	Lng float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		AccessTokenTTL:     parseDuration(k.String("ACCESS_TOKEN_TTL"), "15m"),
		RefreshTokenTTL:    parseDuration(k.String("REFRESH_TOKEN_TTL"), "720h"),
		OTPTTL:             parseDuration(k.String("OTP_TTL"), "5m"),
		Pricing: PricingConfig{
			PlatformFee:          parseDecimal(k.String("PLATFORM_FEE"), "5.00"),
			FreeDeliveryRadiusKm: parseFloat(k.String("DELIVERY_FREE_RADIUS_KM"), 2),
			DeliveryPerKm:        parseDecimal(k.String("DELIVERY_PER_KM"), "10"),
			MaxDeliveryRadiusKm:  parseFloat(k.String("DELIVERY_MAX_RADIUS_KM"), 5),
		},
		Restaurant: RestaurantConfig{
			Lat: parseFloat(k.String("RESTAURANT_LAT"), 12.9697368),
			Lng: parseFloat(k.String("RESTAURANT_LNG"), 80.2479267),
		},
		RazorpayKeyID:      k.String("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:  k.String("RAZORPAY_KEY_SECRET"),
		GoogleMapsAPIKey:   k.String("GOOGLE_MAPS_API_KEY"),
		Fast2SMSAPIKey:     k.String("FAST2SMS_API_KEY"),
		ExpoPushURL:        valueOrDefault(k.String("EXPO_PUSH_URL"), "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken:    k.String("EXPO_ACCESS_TOKEN"),
		WorkerConcurrency:  int(parseInt(k.String("WORKER_CONCURRENCY"), 10)),
		PushMaxRetry:       int(parseInt(k.String("PUSH_MAX_RETRY"), 5)),
		CatalogCacheTTL:    parseDuration(k.String("CATALOG_CACHE_TTL"), "60s"),
		DashboardCacheTTL:  parseDuration(k.String("DASHBOARD_CACHE_TTL"), "5m"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),
		PaymentReplayTTL:   parseDuration(k.String("PAYMENT_REPLAY_TTL"), "24h"),
		KafkaBrokers:       splitAndTrim(k.String("KAFKA_BROKERS")),
		KafkaTopic:         valueOrDefault(k.String("KAFKA_TOPIC"), "food.orders"),
		ResendAPIKey:       k.String("RESEND_API_KEY"),
		SupportEmailTo:     strings.TrimSpace(k.String("SUPPORT_EMAIL_TO")),
		EmailFrom:          valueOrDefault(k.String("EMAIL_FROM"), "Support <support@example.com>"),
		RateLimitPerMinute: parseInt(k.String("RATE_LIMIT_PER_MINUTE"), 120),
		OTPSendLimit:       parseInt(k.String("OTP_SEND_LIMIT"), 3),
		OTPSendWindow:      parseDuration(k.String("OTP_SEND_WINDOW"), "10m"),
		AutoMigrate:        parseBool(k.String("AUTO_MIGRATE")),
		MaxBodyBytes:       parseInt(k.String("MAX_BODY_BYTES"), 1<<20),
		EnableHSTS:         parseBool(k.String("ENABLE_HSTS")),
	}

	if cfg.Pricing.MaxDeliveryRadiusKm < cfg.Pricing.FreeDeliveryRadiusKm {
		return nil, errors.New("DELIVERY_MAX_RADIUS_KM must not be below DELIVERY_FREE_RADIUS_KM")
	}
	if cfg.Pricing.PlatformFee.IsNegative() || cfg.Pricing.DeliveryPerKm.IsNegative() {
		return nil, errors.New("PLATFORM_FEE and DELIVERY_PER_KM must not be negative")
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseDecimal(value, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.RequireFromString(fallback)
	}
	return d
}
