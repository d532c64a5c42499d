package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config - настройки бота и админки
type Config struct {
	TelegramToken string `yaml:"telegram_token"`
	LogLevel      string `yaml:"log_level"`
	Timezone      string `yaml:"timezone"`

	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Session    SessionConfig    `yaml:"session"`
	Recognizer RecognizerConfig `yaml:"recognizer"`
	Admin      AdminConfig      `yaml:"admin"`
	Images     ImagesConfig     `yaml:"images"`

	StoreTimeout time.Duration `yaml:"store_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres | sqlite
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type RecognizerConfig struct {
	Provider    string        `yaml:"provider"` // openai | gemini
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	TextModel   string        `yaml:"text_model"` // пусто - модель провайдера по умолчанию
	VisionModel string        `yaml:"vision_model"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ImagesConfig - ссылки на картинки анкеты, пустая ссылка заменяется текстом
type ImagesConfig struct {
	BodyFatMale   string `yaml:"bodyfat_male"`
	BodyFatFemale string `yaml:"bodyfat_female"`
	MealExample   string `yaml:"meal_example"`
}

type AdminConfig struct {
	Addr      string `yaml:"addr"`
	KeyHash   string `yaml:"key_hash"` // bcrypt от X-Admin-Key
	JWTSecret string `yaml:"jwt_secret"`
}

// Default возвращает значения по умолчанию
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Timezone: "Europe/Vilnius",
		Database: DatabaseConfig{Driver: "postgres"},
		Session:  SessionConfig{TTL: 30 * time.Minute},
		Recognizer: RecognizerConfig{
			Provider: "openai",
			Timeout:  45 * time.Second,
		},
		StoreTimeout: 5 * time.Second,
	}
}

// Load: .env -> YAML (если path не пустой) -> переменные окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TelegramToken = getEnv("TELEGRAM_TOKEN", c.TelegramToken)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Timezone = getEnv("TIMEZONE", c.Timezone)

	c.Database.Driver = getEnv("DATABASE_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DATABASE_URL", c.Database.DSN)
	c.Database.Debug = getEnvBool("DATABASE_DEBUG", c.Database.Debug)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Session.TTL = getEnvDuration("SESSION_TTL", c.Session.TTL)

	c.Recognizer.Provider = getEnv("RECOGNIZER_PROVIDER", c.Recognizer.Provider)
	c.Recognizer.APIKey = getEnv("RECOGNIZER_API_KEY", c.Recognizer.APIKey)
	if c.Recognizer.APIKey == "" {
		switch c.Recognizer.Provider {
		case "openai":
			c.Recognizer.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			c.Recognizer.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	c.Recognizer.BaseURL = getEnv("RECOGNIZER_BASE_URL", c.Recognizer.BaseURL)
	c.Recognizer.TextModel = getEnv("RECOGNIZER_TEXT_MODEL", c.Recognizer.TextModel)
	c.Recognizer.VisionModel = getEnv("RECOGNIZER_VISION_MODEL", c.Recognizer.VisionModel)
	c.Recognizer.Timeout = getEnvDuration("RECOGNIZER_TIMEOUT", c.Recognizer.Timeout)

	c.Admin.Addr = getEnv("ADMIN_ADDR", c.Admin.Addr)
	c.Admin.KeyHash = getEnv("ADMIN_KEY_HASH", c.Admin.KeyHash)
	c.Admin.JWTSecret = getEnv("ADMIN_JWT_SECRET", c.Admin.JWTSecret)

	c.Images.BodyFatMale = getEnv("IMAGE_BODYFAT_MALE", c.Images.BodyFatMale)
	c.Images.BodyFatFemale = getEnv("IMAGE_BODYFAT_FEMALE", c.Images.BodyFatFemale)
	c.Images.MealExample = getEnv("IMAGE_MEAL_EXAMPLE", c.Images.MealExample)

	c.StoreTimeout = getEnvDuration("STORE_TIMEOUT", c.StoreTimeout)
}

// Location - часовой пояс сервиса, все "сегодня/вчера" считаются в нём
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate проверяет то, без чего бот не стартует
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN not set"))
	}
	if err := c.ValidateStorage(); err != nil {
		errs = append(errs, err)
	}
	switch c.Recognizer.Provider {
	case "openai", "gemini":
	default:
		errs = append(errs, fmt.Errorf("unknown recognizer provider %q", c.Recognizer.Provider))
	}
	if c.Recognizer.APIKey == "" {
		errs = append(errs, errors.New("recognizer API key not set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateStorage - минимальная проверка для миграций и админки
func (c *Config) ValidateStorage() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_URL not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
