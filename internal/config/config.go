package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Session / auth
	JWTSecret      string
	AdminJWTSecret string
	SessionTTL     time.Duration

	// OTP delivery
	OTPLength         int
	OTPTTL            time.Duration
	OTPResendCooldown time.Duration
	SMSProvider       string
	SMSGatewayURL     string
	SMSGatewayKey     string
	SMSSenderID       string

	// Payment gateway
	PaymentGatewayBaseURL string
	PaymentGatewayKeyID   string
	PaymentGatewaySecret  string
	AllowFakePayments     bool
	PaymentCurrency       string

	// Media uploads
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	MediaMaxBytes       int64
	MediaUploadTimeout  time.Duration

	// Document archive (S3)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	DocumentBucket      string

	// Email
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	// Rate limiting for OTP endpoints (requests/sec per IP)
	OTPRateLimit float64
	OTPRateBurst int

	// Booking
	BookingSessionTTL time.Duration

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 720*time.Hour),

		OTPLength:         getEnvAsInt("OTP_LENGTH", 6),
		OTPTTL:            getEnvAsDuration("OTP_TTL", 5*time.Minute),
		OTPResendCooldown: getEnvAsDuration("OTP_RESEND_COOLDOWN", 60*time.Second),
		SMSProvider:       strings.ToLower(strings.TrimSpace(getEnv("SMS_PROVIDER", "gateway"))),
		SMSGatewayURL:     getEnv("SMS_GATEWAY_URL", ""),
		SMSGatewayKey:     getEnv("SMS_GATEWAY_KEY", ""),
		SMSSenderID:       getEnv("SMS_SENDER_ID", "BTRHLT"),

		PaymentGatewayBaseURL: getEnv("PAYMENT_GATEWAY_BASE_URL", "https://api.razorpay.com"),
		PaymentGatewayKeyID:   getEnv("PAYMENT_GATEWAY_KEY_ID", ""),
		PaymentGatewaySecret:  getEnv("PAYMENT_GATEWAY_SECRET", ""),
		AllowFakePayments:     getEnvAsBool("ALLOW_FAKE_PAYMENTS", false),
		PaymentCurrency:       getEnv("PAYMENT_CURRENCY", "INR"),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "bh-documents"),
		MediaMaxBytes:       getEnvAsInt64("MEDIA_MAX_BYTES", 10<<20),
		MediaUploadTimeout:  getEnvAsDuration("MEDIA_UPLOAD_TIMEOUT", 30*time.Second),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		DocumentBucket:      getEnv("DOCUMENT_ARCHIVE_BUCKET", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Better Health"),

		OTPRateLimit: getEnvAsFloat("OTP_RATE_LIMIT", 1),
		OTPRateBurst: getEnvAsInt("OTP_RATE_BURST", 5),

		BookingSessionTTL: getEnvAsDuration("BOOKING_SESSION_TTL", 24*time.Hour),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
