package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Search   SearchConfig
	Schedule ScheduleConfig
}

type AppConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	BcryptCost     int
}

// IsDevelopment reports whether the app runs with development defaults
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
	Migrate  bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SearchConfig struct {
	DefaultSort string
	LexiconFile string
	CacheTTL    time.Duration
}

type ScheduleConfig struct {
	Open        string
	Close       string
	SlotMinutes int
	TimeZone    string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the env file at path, overlaid by the process
// environment. A missing file is not an error.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(v.GetString("SEARCH_CACHE_TTL"))
	if err != nil {
		cacheTTL = time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("APP_ALLOWED_ORIGINS")),
			BcryptCost:     v.GetInt("APP_BCRYPT_COST"),
		},
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			TimeZone: v.GetString("DB_TIMEZONE"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Search: SearchConfig{
			DefaultSort: v.GetString("SEARCH_DEFAULT_SORT"),
			LexiconFile: v.GetString("SEARCH_LEXICON_FILE"),
			CacheTTL:    cacheTTL,
		},
		Schedule: ScheduleConfig{
			Open:        v.GetString("SCHEDULE_OPEN"),
			Close:       v.GetString("SCHEDULE_CLOSE"),
			SlotMinutes: v.GetInt("SCHEDULE_SLOT_MINUTES"),
			TimeZone:    v.GetString("SCHEDULE_TIMEZONE"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_ALLOWED_ORIGINS", "*")
	v.SetDefault("APP_BCRYPT_COST", 10)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "doctor_discovery")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SEARCH_DEFAULT_SORT", "rating-desc")
	v.SetDefault("SEARCH_CACHE_TTL", "1m")

	v.SetDefault("SCHEDULE_OPEN", "09:00")
	v.SetDefault("SCHEDULE_CLOSE", "17:00")
	v.SetDefault("SCHEDULE_SLOT_MINUTES", 30)
	v.SetDefault("SCHEDULE_TIMEZONE", "UTC")
}

func isMissingConfig(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
