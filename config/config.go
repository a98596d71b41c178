package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds file and environment driven configuration values.
type AppConfig struct {
	AppPort            string
	RateLimitPerMinute int
	AllowedOrigins     []string
	StaticDir          string
	// Largest accepted image upload, in bytes
	MaxImageBytes int64
	// IANA zone deciding when an exhibition day ends; empty means local time
	Timezone string
	LockPath string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Redis backs the asset cache when RedisHost is set
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Offline asset cache
	CacheName   string
	CacheAssets []string
	// Themes
	ThemesFile   string
	DefaultTheme int
	// SMTP for exhibition end warnings; disabled when NotifyEmailTo is empty
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	SMTPFromName  string
	SMTPTLS       bool
	NotifyEmailTo string
}

var cfg AppConfig
var loaded bool

// DefaultPath is where Load looks for the configuration file.
var DefaultPath = filepath.Join("config", "config.json")

// Load loads the application configuration once and caches it.
func Load() AppConfig {
	if loaded {
		return cfg
	}
	c, err := LoadFile(DefaultPath)
	if err != nil {
		log.Printf("config: %v, using defaults", err)
	}
	Set(c)
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

// LoadFile builds a configuration from path. Precedence: file -> defaults ->
// environment overrides. A missing file is not an error; malformed JSON is,
// and the returned config then carries defaults and overrides only.
func LoadFile(path string) (AppConfig, error) {
	var c AppConfig
	fileErr := loadJSONConfig(path, &c)
	if fileErr != nil {
		c = AppConfig{}
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	return c, fileErr
}

// Location resolves Timezone, falling back to local time.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RedisEnabled reports whether a Redis host is configured.
func (c AppConfig) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads the grouped JSON file into out if present.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil // silently ignore missing file
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	getString := func(m map[string]any, key string) string {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if v, ok := m[key]; ok {
			if f, ok := v.(float64); ok {
				return int(f)
			}
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		if v, ok := m[key]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
		return false
	}
	getStringSlice := func(m map[string]any, key string) []string {
		if v, ok := m[key]; ok {
			if arr, ok := v.([]any); ok {
				res := make([]string, 0, len(arr))
				for _, it := range arr {
					if s, ok := it.(string); ok {
						res = append(res, s)
					}
				}
				return res
			}
		}
		return nil
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
		out.StaticDir = getString(app, "StaticDir")
		out.MaxImageBytes = int64(getInt(app, "MaxImageBytes"))
		out.Timezone = getString(app, "Timezone")
		out.LockPath = getString(app, "LockPath")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if cc, ok := raw["cache"].(map[string]any); ok {
		out.CacheName = getString(cc, "Name")
		out.CacheAssets = getStringSlice(cc, "Assets")
	}

	if th, ok := raw["themes"].(map[string]any); ok {
		out.ThemesFile = getString(th, "File")
		out.DefaultTheme = getInt(th, "Default")
	}

	if sm, ok := raw["smtp"].(map[string]any); ok {
		out.SMTPHost = getString(sm, "SMTPHost")
		out.SMTPPort = getInt(sm, "SMTPPort")
		out.SMTPUsername = getString(sm, "SMTPUsername")
		out.SMTPPassword = getString(sm, "SMTPPassword")
		out.SMTPFrom = getString(sm, "SMTPFrom")
		out.SMTPFromName = getString(sm, "SMTPFromName")
		out.SMTPTLS = getBool(sm, "SMTPTLS")
		out.NotifyEmailTo = getString(sm, "NotifyTo")
	}

	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 30
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.MaxImageBytes == 0 {
		c.MaxImageBytes = 2 * 1024 * 1024
	}
	if c.LockPath == "" {
		c.LockPath = "fotos.lock"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheName == "" {
		c.CacheName = "fotos-cache-v1"
	}
	if len(c.CacheAssets) == 0 {
		c.CacheAssets = []string{"/", "/index.html", "/app.js", "/manifest.json"}
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		setInt(&c.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE", v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("STATIC_DIR", ""); v != "" {
		c.StaticDir = v
	}
	if v := getEnv("MAX_IMAGE_BYTES", ""); v != "" {
		var n int
		if setInt(&n, "MAX_IMAGE_BYTES", v) {
			c.MaxImageBytes = int64(n)
		}
	}
	if v := getEnv("TIMEZONE", ""); v != "" {
		c.Timezone = v
	}
	if v := getEnv("LOCK_PATH", ""); v != "" {
		c.LockPath = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		setInt(&c.LogMaxSizeMB, "LOG_MAX_SIZE_MB", v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		setInt(&c.LogMaxBackups, "LOG_MAX_BACKUPS", v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		setInt(&c.LogMaxAgeDays, "LOG_MAX_AGE_DAYS", v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		setInt(&c.RedisPort, "REDIS_PORT", v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		setInt(&c.RedisDB, "REDIS_DB", v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("CACHE_NAME", ""); v != "" {
		c.CacheName = v
	}
	if v := getEnv("THEMES_FILE", ""); v != "" {
		c.ThemesFile = v
	}
	if v := getEnv("DEFAULT_THEME", ""); v != "" {
		setInt(&c.DefaultTheme, "DEFAULT_THEME", v)
	}
	if v := getEnv("SMTP_HOST", ""); v != "" {
		c.SMTPHost = v
	}
	if v := getEnv("SMTP_PORT", ""); v != "" {
		setInt(&c.SMTPPort, "SMTP_PORT", v)
	}
	if v := getEnv("SMTP_USERNAME", ""); v != "" {
		c.SMTPUsername = v
	}
	if v := getEnv("SMTP_PASSWORD", ""); v != "" {
		c.SMTPPassword = v
	}
	if v := getEnv("SMTP_FROM", ""); v != "" {
		c.SMTPFrom = v
	}
	if v := getEnv("SMTP_FROM_NAME", ""); v != "" {
		c.SMTPFromName = v
	}
	if v := getEnv("SMTP_TLS", ""); v != "" {
		c.SMTPTLS = v == "true"
	}
	if v := getEnv("NOTIFY_EMAIL_TO", ""); v != "" {
		c.NotifyEmailTo = v
	}
}

// setInt parses val into dst; invalid values are logged and ignored.
func setInt(dst *int, key, val string) bool {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Printf("config: ignoring invalid integer %s=%q: %v", key, val, err)
		return false
	}
	*dst = i
	return true
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
