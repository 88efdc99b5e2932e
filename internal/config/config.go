package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	ServerAddress string       `json:"serverAddress"`
	CatalogPath   string       `json:"catalogPath"`
	InquiryDBPath string       `json:"inquiryDbPath"`
	AssetStorage  AssetStorage `json:"assetStorage"`
	Admin         Admin        `json:"admin"`
	Mail          Mail         `json:"mail"`
	Revalidate    Revalidate   `json:"revalidate"`
}

// AssetStorage configuration for the managed upload namespace
type AssetStorage struct {
	PublicDir         string   `json:"publicDir"`
	UploadPrefix      string   `json:"uploadPrefix"`
	MaxFileSizeMB     int64    `json:"maxFileSizeMB"`
	AllowedExtensions []string `json:"allowedExtensions"`
}

// Admin holds the single admin principal. The password hash is a bcrypt
// digest; a plaintext password never appears in configuration.
type Admin struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	SessionHours int    `json:"sessionHours"`
}

// Mail transport settings. An empty Password switches delivery into
// simulated mode: submissions are logged and acknowledged, nothing is sent.
type Mail struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"-"`
	FromAddress string `json:"fromAddress"`
	FromName    string `json:"fromName"`
	ToAddress   string `json:"toAddress"`
	UseTLS      bool   `json:"useTLS"`
	SkipVerify  bool   `json:"skipVerify"`
}

// Revalidate configures the outbound page-invalidation collaborator. An
// empty FrontendBaseURL disables outbound revalidation entirely.
type Revalidate struct {
	FrontendBaseURL string   `json:"frontendBaseUrl"`
	Secret          string   `json:"-"`
	Paths           []string `json:"paths"`
	TimeoutSeconds  int      `json:"timeoutSeconds"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		ServerAddress: ":4000",
		CatalogPath:   "data/photos.json",
		InquiryDBPath: "data/inquiries.db",
		AssetStorage: AssetStorage{
			PublicDir:     "./public",
			UploadPrefix:  "/uploads/",
			MaxFileSizeMB: 25,
			AllowedExtensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".webp",
			},
		},
		Admin: Admin{
			Email:        "admin@barelands.vip",
			SessionHours: 24,
		},
		Mail: Mail{
			Host:     "smtp.gmail.com",
			Port:     587,
			FromName: "Barelands Website",
			UseTLS:   true,
		},
		Revalidate: Revalidate{
			Paths:          []string{"/", "/portfolio", "/admin", "/prints", "/news"},
			TimeoutSeconds: 5,
		},
	}
}

// Load loads configuration from .env, an optional config file, and
// environment variable overrides, in that order
func Load() (*Config, error) {
	// Best effort; absence of a .env file is the normal production case
	_ = godotenv.Load()

	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.ServerAddress = addr
	}
	if p := os.Getenv("CATALOG_PATH"); p != "" {
		cfg.CatalogPath = p
	}
	if p := os.Getenv("INQUIRY_DB_PATH"); p != "" {
		cfg.InquiryDBPath = p
	}
	if p := os.Getenv("PUBLIC_DIR"); p != "" {
		cfg.AssetStorage.PublicDir = p
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			cfg.AssetStorage.MaxFileSizeMB = mb
		}
	}

	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Admin.Email = email
	}
	cfg.Admin.PasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	if v := os.Getenv("SESSION_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.Admin.SessionHours = hours
		}
	}

	if host := os.Getenv("EMAIL_SERVER"); host != "" {
		cfg.Mail.Host = host
	}
	if v := os.Getenv("EMAIL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Mail.Port = port
		}
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		cfg.Mail.Username = user
	}
	cfg.Mail.Password = os.Getenv("EMAIL_PASSWORD")
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		cfg.Mail.FromAddress = from
	}
	if to := os.Getenv("CONTACT_EMAIL"); to != "" {
		cfg.Mail.ToAddress = to
	}
	if cfg.Mail.FromAddress == "" {
		cfg.Mail.FromAddress = cfg.Mail.ToAddress
	}
	if cfg.Mail.Username == "" {
		cfg.Mail.Username = cfg.Mail.FromAddress
	}

	if base := os.Getenv("REVALIDATE_BASE_URL"); base != "" {
		cfg.Revalidate.FrontendBaseURL = base
	}
	cfg.Revalidate.Secret = os.Getenv("REVALIDATE_SECRET")
	if v := os.Getenv("REVALIDATE_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Revalidate.TimeoutSeconds = secs
		}
	}

	if err := os.MkdirAll(cfg.AssetStorage.PublicDir, 0755); err != nil {
		return nil, err
	}
	absPublic, err := filepath.Abs(cfg.AssetStorage.PublicDir)
	if err != nil {
		return nil, err
	}
	cfg.AssetStorage.PublicDir = absPublic

	if err := os.MkdirAll(filepath.Dir(cfg.CatalogPath), 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}
