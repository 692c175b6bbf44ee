package utils

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Quota    QuotaConfig
	Schedule ScheduleConfig
	Redis    RedisConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name     string
	Port     string
	Debug    bool
	LogPath  string
	Timezone string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type QuotaConfig struct {
	DefaultCapacity  int
	HorizonDays      int
	MaxProvisionDays int
}

type ScheduleConfig struct {
	Enabled       bool
	ProvisionCron string
	SweepCron     string
	RunOnStart    bool
}

type RedisConfig struct {
	Addr         string
	Password     string
	StreamPrefix string
}

type SessionConfig struct {
	ExpiryHours int
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "museum-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("QUOTA_DEFAULT_CAPACITY", 2000)
	viper.SetDefault("QUOTA_HORIZON_DAYS", 7)
	viper.SetDefault("QUOTA_MAX_PROVISION_DAYS", 30)
	viper.SetDefault("SCHEDULE_ENABLED", true)
	viper.SetDefault("SCHEDULE_PROVISION_CRON", "0 0 * * *")
	viper.SetDefault("SCHEDULE_SWEEP_CRON", "0 12 * * *")
	viper.SetDefault("SCHEDULE_RUN_ON_START", true)
	viper.SetDefault("REDIS_STREAM_PREFIX", "museum.")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)

	// .env is optional; the environment alone is enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:     viper.GetString("APP_NAME"),
			Port:     viper.GetString("PORT"),
			Debug:    viper.GetBool("DEBUG"),
			LogPath:  viper.GetString("LOG_PATH"),
			Timezone: viper.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Quota: QuotaConfig{
			DefaultCapacity:  viper.GetInt("QUOTA_DEFAULT_CAPACITY"),
			HorizonDays:      viper.GetInt("QUOTA_HORIZON_DAYS"),
			MaxProvisionDays: viper.GetInt("QUOTA_MAX_PROVISION_DAYS"),
		},
		Schedule: ScheduleConfig{
			Enabled:       viper.GetBool("SCHEDULE_ENABLED"),
			ProvisionCron: viper.GetString("SCHEDULE_PROVISION_CRON"),
			SweepCron:     viper.GetString("SCHEDULE_SWEEP_CRON"),
			RunOnStart:    viper.GetBool("SCHEDULE_RUN_ON_START"),
		},
		Redis: RedisConfig{
			Addr:         viper.GetString("REDIS_ADDR"),
			Password:     viper.GetString("REDIS_PASSWORD"),
			StreamPrefix: viper.GetString("REDIS_STREAM_PREFIX"),
		},
		Session: SessionConfig{
			ExpiryHours: viper.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	return config, nil
}
