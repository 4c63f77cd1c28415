package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment   string
	LogLevel      string
	TelegramToken string
	MetricsAddr   string

	Sheets    SheetsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Reminder  ReminderConfig
	Lock      LockConfig

	DBDSN    string
	Location *time.Location
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	ScheduleSheet   string
	SettingsSheet   string
	RequestTimeout  time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig - ограничение входящих сообщений на пользователя
type RateLimitConfig struct {
	RequestsPerMinute int
}

type ReminderConfig struct {
	Interval     time.Duration
	SendInterval time.Duration
}

// DefaultLockTTL покрывает все обращения к таблице под блокировкой при таймаутах по умолчанию
const DefaultLockTTL = 60 * time.Second

// lockedBackendCalls - сколько запросов к таблице может сделать запись под блокировкой
// (строка, две ячейки недели тренингов, полный снимок, запись места) плюс запас
const lockedBackendCalls = 6

// MinLockTTL - нижняя граница TTL блокировки при заданном таймауте запроса к таблице
func MinLockTTL(requestTimeout time.Duration) time.Duration {
	return lockedBackendCalls * requestTimeout
}

// LockConfig - блокировка строк; без REDIS_URL используется блокировка в памяти процесса
type LockConfig struct {
	RedisURL string
	TTL      time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment:   v.GetString("ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		MetricsAddr:   v.GetString("METRICS_ADDR"),
		DBDSN:         v.GetString("DB_DSN"),
	}

	cfg.Sheets = SheetsConfig{
		SpreadsheetID:  v.GetString("SPREADSHEET_ID"),
		ScheduleSheet:  v.GetString("SCHEDULE_SHEET"),
		SettingsSheet:  v.GetString("SETTINGS_SHEET"),
		RequestTimeout: parseDuration(v.GetString("REQUEST_TIMEOUT"), 10*time.Second),
	}

	credentials, err := loadCredentials(v.GetString("GOOGLE_CREDENTIALS_JSON"), v.GetString("GOOGLE_CREDENTIALS_FILE"))
	if err != nil {
		return nil, err
	}
	cfg.Sheets.CredentialsJSON = credentials

	cfg.Cache = CacheConfig{
		TTL: parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerMinute: v.GetInt("MAX_REQUESTS_PER_MINUTE"),
	}

	cfg.Reminder = ReminderConfig{
		Interval:     parseDuration(v.GetString("REMINDER_INTERVAL"), 30*time.Minute),
		SendInterval: parseDuration(v.GetString("REMINDER_SEND_INTERVAL"), 300*time.Millisecond),
	}

	cfg.Lock = LockConfig{
		RedisURL: v.GetString("REDIS_URL"),
		TTL:      parseDuration(v.GetString("ROW_LOCK_TTL"), DefaultLockTTL),
	}
	if floor := MinLockTTL(cfg.Sheets.RequestTimeout); cfg.Lock.TTL < floor {
		log.Printf("ROW_LOCK_TTL %s is shorter than a locked booking may take, using %s", cfg.Lock.TTL, floor)
		cfg.Lock.TTL = floor
	}

	loc, err := loadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SCHEDULE_SHEET", "Расписание")
	v.SetDefault("SETTINGS_SHEET", "Настройки")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("MAX_REQUESTS_PER_MINUTE", 30)

	v.SetDefault("REMINDER_INTERVAL", "30m")
	v.SetDefault("REMINDER_SEND_INTERVAL", "300ms")

	v.SetDefault("ROW_LOCK_TTL", DefaultLockTTL.String())
}

// ValidateTelegram проверяет настройки, без которых бот не может работать с Telegram
func (c *Config) ValidateTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

// ValidateSheets проверяет настройки доступа к таблице
func (c *Config) ValidateSheets() error {
	if c.Sheets.SpreadsheetID == "" {
		return errors.New("SPREADSHEET_ID is required but not set")
	}
	if len(c.Sheets.CredentialsJSON) == 0 {
		return errors.New("GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is required but not set")
	}
	return nil
}

// ValidateReminderLog проверяет, что журнал напоминаний переживёт перезапуск процесса
func (c *Config) ValidateReminderLog() error {
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required: without a persistent reminder log every run sends reminders again")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func loadCredentials(raw, path string) ([]byte, error) {
	if strings.TrimSpace(raw) != "" {
		return []byte(raw), nil
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read google credentials file: %w", err)
	}
	return data, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
