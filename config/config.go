package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"walkboard/models"
)

// Walk duration bounds in minutes, shared with the settings API.
const (
	MinWalkDuration = 5
	MaxWalkDuration = 600
)

var (
	DB        *gorm.DB
	AppConfig Config
	envLoaded bool
)

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type Config struct {
	Environment string `json:"environment"`
	ServerPort  string `json:"server_port"`
	JWTSecret   string `json:"-"`
	CORSOrigins string `json:"cors_origins"`

	// Remote sheet and board defaults
	RemoteSyncURL  string        `json:"remote_sync_url"`
	DefaultTeamID  string        `json:"default_team_id"`
	WalkDuration   int           `json:"walk_duration"`
	AutoAddFriends bool          `json:"auto_add_friends"`
	PollInterval   time.Duration `json:"poll_interval"`
	SweepInterval  time.Duration `json:"sweep_interval"`
	Timezone       string        `json:"timezone"`
	TeamsFile      string        `json:"teams_file"`

	// Optional walk history database
	DBHost         string `json:"db_host"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	RateLimitMutations int         `json:"rate_limit_mutations"`
	Redis              RedisConfig `json:"redis"`
	SentryDSN          string      `json:"-"`
	TelegramBotToken   string      `json:"-"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
	envLoaded = true
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "5000"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		RemoteSyncURL:  getEnv("REMOTE_SYNC_URL", ""),
		DefaultTeamID:  getEnv("DEFAULT_TEAM_ID", "team_1"),
		WalkDuration:   getEnvAsInt("WALK_DURATION", 30),
		AutoAddFriends: getEnvAsBool("AUTO_ADD_FRIENDS", true),
		PollInterval:   time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 15)) * time.Second,
		SweepInterval:  time.Duration(getEnvAsInt("SWEEP_INTERVAL_SECONDS", 10)) * time.Second,
		Timezone:       getEnv("TIMEZONE", "Europe/Moscow"),
		TeamsFile:      getEnv("TEAMS_FILE", "teams.yaml"),

		DBHost:         getEnv("DB_HOST", ""),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "walkboard"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 20),

		RateLimitMutations: getEnvAsInt("RATE_LIMIT_MUTATIONS", 120),
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SentryDSN:        getEnv("SENTRY_DSN", ""),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	// Validate required configurations
	if AppConfig.WalkDuration < MinWalkDuration || AppConfig.WalkDuration > MaxWalkDuration {
		return fmt.Errorf("WALK_DURATION must be between %d and %d minutes, got %d",
			MinWalkDuration, MaxWalkDuration, AppConfig.WalkDuration)
	}
	if _, err := AppConfig.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", AppConfig.Timezone, err)
	}
	if AppConfig.Environment == "production" {
		if AppConfig.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if AppConfig.RemoteSyncURL == "" {
			return fmt.Errorf("REMOTE_SYNC_URL is required in production")
		}
	}
	if AppConfig.JWTSecret == "" {
		AppConfig.JWTSecret = "walkboard-dev-secret"
		logrus.Warn("⚠️ JWT_SECRET not set, using the development secret")
	}

	logConfig()
	return nil
}

// Location resolves the configured time zone used for wall-clock times.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// HistoryEnabled reports whether a history database is configured.
func (c Config) HistoryEnabled() bool {
	return c.DBHost != ""
}

// ConnectDB opens the walk history database. Without DB_HOST the service runs
// without history and DB stays nil.
func ConnectDB() error {
	if !AppConfig.HistoryEnabled() {
		logrus.Info("DB_HOST not set, walk history disabled")
		return nil
	}
	logrus.Info("Attempting to connect to database...")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBSSLMode,
	)
	logrus.Info("Using connection string: ", maskPassword(dsn))

	gormLogger := logger.Default.LogMode(logger.Warn)
	if AppConfig.Environment == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logrus.Info("✅ Successfully connected to the database")
	logrus.Info("🔄 Starting database migration...")
	if err := DB.AutoMigrate(&models.WalkRecord{}, &models.Preference{}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	logrus.Info("✅ Database migration completed")
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if !envLoaded && fallback == "" {
		logrus.Warnf("⚠️ Environment variable %s not found and no fallback provided", key)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func maskPassword(dsn string) string {
	const passwordMarker = "password="
	startIdx := strings.Index(dsn, passwordMarker)
	if startIdx == -1 {
		return dsn
	}

	startIdx += len(passwordMarker)
	endIdx := strings.IndexAny(dsn[startIdx:], " ")
	if endIdx == -1 {
		return dsn[:startIdx] + "*****"
	}
	return dsn[:startIdx] + "*****" + dsn[startIdx+endIdx:]
}

func logConfig() {
	logrus.WithFields(logrus.Fields{
		"environment":   AppConfig.Environment,
		"port":          AppConfig.ServerPort,
		"remote_sync":   AppConfig.RemoteSyncURL != "",
		"team":          AppConfig.DefaultTeamID,
		"walk_duration": AppConfig.WalkDuration,
		"timezone":      AppConfig.Timezone,
		"history_db":    AppConfig.HistoryEnabled(),
		"redis":         AppConfig.Redis.Enabled,
		"telegram":      AppConfig.TelegramBotToken != "",
	}).Info("🔧 Loaded configuration")
}
