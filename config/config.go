package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via the config file or the environment.
type AppConfig struct {
	AppPort   string
	JWTSecret string

	// Database
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	// OAuth providers
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string

	// HTTP
	RateLimitPerMinute int
	AllowedOrigins     []string
	GinMode            string
	GinPath            string

	// Redis for caching / token blacklist / oauth state
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Attachment uploads
	UploadsSelfDestructEnabled bool
	UploadsSelfDestructMinutes int
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during
// boot. Precedence: config/config.json -> defaults -> environment overrides.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads a grouped JSON file into cfg if present. Returns an
// error only for invalid JSON; a missing file is ignored.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
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
			switch t := v.(type) {
			case float64:
				return int(t)
			case int:
				return t
			case json.Number:
				i, _ := t.Int64()
				return int(i)
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
		out.JWTSecret = getString(app, "JWTSecret")
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		out.GinMode = getString(app, "GinMode")
		out.GinPath = getString(app, "GinPath")
	}
	if db, ok := raw["database"].(map[string]any); ok {
		out.DatabaseURI = getString(db, "DatabaseURI")
		out.DBHost = getString(db, "DBHost")
		out.DBPort = getString(db, "DBPort")
		out.DBUser = getString(db, "DBUser")
		out.DBPassword = getString(db, "DBPassword")
		out.DBName = getString(db, "DBName")
	}
	if oauth, ok := raw["oauth"].(map[string]any); ok {
		out.GitHubClientID = getString(oauth, "GitHubClientID")
		out.GitHubClientSecret = getString(oauth, "GitHubClientSecret")
		out.GoogleClientID = getString(oauth, "GoogleClientID")
		out.GoogleClientSecret = getString(oauth, "GoogleClientSecret")
		out.OAuthRedirectBase = getString(oauth, "OAuthRedirectBase")
	}
	if rd, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rd, "RedisHost")
		out.RedisPort = getInt(rd, "RedisPort")
		out.RedisDB = getInt(rd, "RedisDB")
		out.RedisPassword = getString(rd, "RedisPassword")
	}
	if lg, ok := raw["logging"].(map[string]any); ok {
		out.LogLevel = getString(lg, "LogLevel")
		out.LogPath = getString(lg, "LogPath")
		out.LogMaxSizeMB = getInt(lg, "LogMaxSizeMB")
		out.LogMaxBackups = getInt(lg, "LogMaxBackups")
		out.LogMaxAgeDays = getInt(lg, "LogMaxAgeDays")
		out.LogCompress = getBool(lg, "LogCompress")
	}
	if up, ok := raw["uploads"].(map[string]any); ok {
		out.UploadsSelfDestructEnabled = getBool(up, "SelfDestructEnabled")
		out.UploadsSelfDestructMinutes = getInt(up, "SelfDestructMinutes")
	}

	return nil
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "goshala"
	}
	if c.DBName == "" {
		c.DBName = "goshala"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/app.log"
	}
	if c.UploadsSelfDestructMinutes == 0 {
		c.UploadsSelfDestructMinutes = 60
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)

	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	c.GitHubClientID = getEnv("GITHUB_CLIENT_ID", c.GitHubClientID)
	c.GitHubClientSecret = getEnv("GITHUB_CLIENT_SECRET", c.GitHubClientSecret)
	c.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.OAuthRedirectBase = getEnv("OAUTH_REDIRECT_BASE", c.OAuthRedirectBase)

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_LOG_PATH", c.GinPath)

	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisPort = n
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	if v := os.Getenv("LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxSizeMB = n
		}
	}
	if v := os.Getenv("LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxBackups = n
		}
	}
	if v := os.Getenv("LOG_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LogMaxAgeDays = n
		}
	}
	if v := os.Getenv("LOG_COMPRESS"); v != "" {
		c.LogCompress = v == "1" || strings.EqualFold(v, "true")
	}

	if v := os.Getenv("UPLOADS_SELF_DESTRUCT_ENABLED"); v != "" {
		c.UploadsSelfDestructEnabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("UPLOADS_SELF_DESTRUCT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.UploadsSelfDestructMinutes = n
		}
	}
}
