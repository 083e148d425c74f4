package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		PublicBaseURL  string   `yaml:"public_base_url"`
	} `yaml:"server"`
	Database struct {
		URL          string `yaml:"url"`
		AutoMigrate  bool   `yaml:"auto_migrate"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	JWT struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
		Issuer string        `yaml:"issuer"`
	} `yaml:"jwt"`
	Storage struct {
		Endpoint      string `yaml:"endpoint"`
		Region        string `yaml:"region"`
		Bucket        string `yaml:"bucket"`
		AccessKey     string `yaml:"access_key"`
		SecretKey     string `yaml:"secret_key"`
		PublicBaseURL string `yaml:"public_base_url"`
	} `yaml:"storage"`
	Firebase struct {
		ProjectID       string `yaml:"project_id"`
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"firebase"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
		FromName string `yaml:"from_name"`
		UseSSL   bool   `yaml:"use_ssl"`
	} `yaml:"smtp"`
	Contact struct {
		WebhookURL string        `yaml:"webhook_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"contact"`
	Uploads struct {
		MaxFileBytes int64    `yaml:"max_file_bytes"`
		MaxImages    int      `yaml:"max_images"`
		AllowedTypes []string `yaml:"allowed_types"`
	} `yaml:"uploads"`
	Views struct {
		DedupeWindow time.Duration `yaml:"dedupe_window"`
	} `yaml:"views"`
	Reconciler struct {
		Interval    time.Duration `yaml:"interval"`
		MaxAttempts int           `yaml:"max_attempts"`
		BatchSize   int           `yaml:"batch_size"`
	} `yaml:"reconciler"`
	Export struct {
		ImageTimeout time.Duration `yaml:"image_timeout"`
		MaxImages    int           `yaml:"max_images"`
	} `yaml:"export"`
	Admin struct {
		// Admins registering with one of these addresses are approved as
		// superadmins immediately.
		SuperAdminEmails []string `yaml:"superadmin_emails"`
	} `yaml:"admin"`
}

// Default returns a configuration usable for local development.
func Default() *Config {
	cfg := &Config{Env: "development"}
	cfg.Server.Port = "8080"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfg.Server.PublicBaseURL = "http://localhost:5173"
	cfg.Database.AutoMigrate = true
	cfg.Database.MaxOpenConns = 20
	cfg.JWT.TTL = 24 * time.Hour
	cfg.JWT.Issuer = "estatehub"
	cfg.Storage.Region = "us-east-1"
	cfg.SMTP.Port = 587
	cfg.SMTP.FromName = "EstateHub"
	cfg.Contact.Timeout = 10 * time.Second
	cfg.Uploads.MaxFileBytes = 5 << 20
	cfg.Uploads.MaxImages = 10
	cfg.Uploads.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	cfg.Views.DedupeWindow = 30 * time.Minute
	cfg.Reconciler.Interval = 10 * time.Minute
	cfg.Reconciler.MaxAttempts = 10
	cfg.Reconciler.BatchSize = 50
	cfg.Export.ImageTimeout = 5 * time.Second
	cfg.Export.MaxImages = 6
	return cfg
}

// Load reads .env (if present), then the YAML file named by CONFIG_PATH (if
// set), then applies environment overrides on top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str("APP_ENV", &cfg.Env)
	str("PORT", &cfg.Server.Port)
	str("PUBLIC_BASE_URL", &cfg.Server.PublicBaseURL)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	str("POSTGRES_URL", &cfg.Database.URL)
	if v, ok := lookup("DB_AUTO_MIGRATE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.AutoMigrate = b
		}
	}
	str("REDIS_URL", &cfg.Redis.URL)
	str("JWT_SECRET", &cfg.JWT.Secret)
	duration("JWT_TTL", &cfg.JWT.TTL)
	str("S3_ENDPOINT", &cfg.Storage.Endpoint)
	str("S3_REGION", &cfg.Storage.Region)
	str("S3_BUCKET", &cfg.Storage.Bucket)
	str("S3_ACCESS_KEY", &cfg.Storage.AccessKey)
	str("S3_SECRET_KEY", &cfg.Storage.SecretKey)
	str("S3_PUBLIC_BASE_URL", &cfg.Storage.PublicBaseURL)
	str("FIREBASE_PROJECT_ID", &cfg.Firebase.ProjectID)
	str("FIREBASE_CREDENTIALS_FILE", &cfg.Firebase.CredentialsFile)
	str("SMTP_HOST", &cfg.SMTP.Host)
	integer("SMTP_PORT", &cfg.SMTP.Port)
	str("SMTP_USERNAME", &cfg.SMTP.Username)
	str("SMTP_PASSWORD", &cfg.SMTP.Password)
	str("SMTP_FROM", &cfg.SMTP.From)
	str("CONTACT_WEBHOOK_URL", &cfg.Contact.WebhookURL)
	integer("UPLOAD_MAX_IMAGES", &cfg.Uploads.MaxImages)
	if v, ok := lookup("UPLOAD_MAX_FILE_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Uploads.MaxFileBytes = n
		}
	}
	duration("RECONCILER_INTERVAL", &cfg.Reconciler.Interval)
	integer("RECONCILER_MAX_ATTEMPTS", &cfg.Reconciler.MaxAttempts)
	integer("RECONCILER_BATCH_SIZE", &cfg.Reconciler.BatchSize)
	if v, ok := lookup("SUPERADMIN_EMAILS"); ok && v != "" {
		cfg.Admin.SuperAdminEmails = splitList(v)
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required (POSTGRES_URL)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	if c.Uploads.MaxImages <= 0 || c.Uploads.MaxFileBytes <= 0 {
		return fmt.Errorf("upload limits must be positive")
	}
	if c.Reconciler.Interval <= 0 {
		return fmt.Errorf("reconciler interval must be positive, got %v", c.Reconciler.Interval)
	}
	if c.Reconciler.MaxAttempts <= 0 || c.Reconciler.BatchSize <= 0 {
		return fmt.Errorf("reconciler max attempts and batch size must be positive")
	}
	if c.Views.DedupeWindow <= 0 {
		return fmt.Errorf("view dedupe window must be positive, got %v", c.Views.DedupeWindow)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
