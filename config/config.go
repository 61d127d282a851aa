package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	GinMode string
	DBUrl   string

	SupabaseUrl            string
	SupabaseKey            string
	SupabaseServiceRoleKey string
	SupabaseJWTSecret      string
	FrontendURL            string
	AllowedOrigins         []string
	OAuthProvider          string

	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string

	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string

	// Notification queue (asynq, shares the redis instance)
	QueueEnabled     bool
	QueueConcurrency int

	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitAuthThreshold   int
	RateLimitGlobalThreshold int
	UploadPerMinute          int
	UploadPerDay             int

	// Object storage: "supabase" or "s3"
	StorageProvider   string
	S3Provider        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
	S3PublicBaseURL   string
	UploadMaxBytes    int64

	LogMode       string
	LogDir        string
	LogFilename   string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; in deployed environments the variables come from the platform.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),
		DBUrl:   v.GetString("DATABASE_URL"),

		// Trailing slashes would produce ".co//auth" style URLs.
		SupabaseUrl:            strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseKey:            firstNonEmpty(v.GetString("SUPABASE_KEY"), v.GetString("SUPABASE_ANON_KEY")),
		SupabaseServiceRoleKey: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseJWTSecret:      firstNonEmpty(v.GetString("SUPABASE_JWT_SECRET"), v.GetString("SUPABASE_JWT_KEY")),
		FrontendURL:            strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		OAuthProvider:          v.GetString("OAUTH_PROVIDER"),

		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetString("SMTP_PORT"),
		SMTPUsername:  v.GetString("SMTP_USERNAME"),
		SMTPPassword:  v.GetString("SMTP_PASSWORD"),
		SMTPFromEmail: v.GetString("SMTP_FROM_EMAIL"),

		UpstashRedisURL:      v.GetString("UPSTASH_REDIS_URL"),
		UpstashRedisPassword: v.GetString("UPSTASH_REDIS_PASSWORD"),

		QueueEnabled:     v.GetBool("QUEUE_ENABLED"),
		QueueConcurrency: v.GetInt("QUEUE_CONCURRENCY"),

		RateLimitWindowSeconds:   v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		RateLimitAuthThreshold:   v.GetInt("RATE_LIMIT_AUTH_THRESHOLD"),
		RateLimitGlobalThreshold: v.GetInt("RATE_LIMIT_GLOBAL_THRESHOLD"),
		UploadPerMinute:          v.GetInt("UPLOAD_PER_MINUTE"),
		UploadPerDay:             v.GetInt("UPLOAD_PER_DAY"),

		StorageProvider:   strings.ToLower(v.GetString("STORAGE_PROVIDER")),
		S3Provider:        v.GetString("S3_PROVIDER"),
		S3AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
		S3Region:          v.GetString("S3_REGION"),
		S3Bucket:          v.GetString("S3_BUCKET"),
		S3Endpoint:        v.GetString("S3_ENDPOINT"),
		S3PublicBaseURL:   strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
		UploadMaxBytes:    v.GetInt64("UPLOAD_MAX_BYTES"),

		LogMode:       v.GetString("LOG_MODE"),
		LogDir:        v.GetString("LOG_DIR"),
		LogFilename:   v.GetString("LOG_FILENAME"),
		LogMaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		LogCompress:   v.GetBool("LOG_COMPRESS"),
	}

	cfg.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 && cfg.FrontendURL != "" {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback and the notification queue is disabled.")
		cfg.QueueEnabled = false
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("OAUTH_PROVIDER", "google")

	v.SetDefault("SMTP_HOST", "smtp-relay.brevo.com")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_FROM_EMAIL", "noreply@partnerz.ai")

	v.SetDefault("QUEUE_ENABLED", true)
	v.SetDefault("QUEUE_CONCURRENCY", 5)

	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_AUTH_THRESHOLD", 10)
	v.SetDefault("RATE_LIMIT_GLOBAL_THRESHOLD", 100)
	v.SetDefault("UPLOAD_PER_MINUTE", 10)
	v.SetDefault("UPLOAD_PER_DAY", 50)

	v.SetDefault("STORAGE_PROVIDER", "supabase")
	v.SetDefault("S3_PROVIDER", "aws")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)

	v.SetDefault("LOG_MODE", "debug")
	v.SetDefault("LOG_FILENAME", "partnerz.log")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("LOG_COMPRESS", true)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
