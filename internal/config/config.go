package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	minJWTSecretLength = 32
)

type (
	Config struct {
		Host     string `mapstructure:"HOST" yaml:"HOST"`
		Port     string `mapstructure:"PORT" yaml:"PORT"`
		GRPCPort string `mapstructure:"GRPC_PORT" yaml:"GRPC_PORT"`

		DBDriver   string `mapstructure:"DB_DRIVER" yaml:"DB_DRIVER"`
		DBHost     string `mapstructure:"DB_HOST" yaml:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT" yaml:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER" yaml:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD" yaml:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME" yaml:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE" yaml:"DB_SSL_MODE"`
		SQLitePath string `mapstructure:"SQLITE_PATH" yaml:"SQLITE_PATH"`

		JWTSecret       string        `mapstructure:"JWT_SECRET" yaml:"JWT_SECRET"`
		AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL" yaml:"ACCESS_TOKEN_TTL"`
		RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL" yaml:"REFRESH_TOKEN_TTL"`
		BcryptCost      int           `mapstructure:"BCRYPT_COST" yaml:"BCRYPT_COST"`

		AuthRateLimit float64 `mapstructure:"AUTH_RATE_LIMIT" yaml:"AUTH_RATE_LIMIT"`
		AuthRateBurst int     `mapstructure:"AUTH_RATE_BURST" yaml:"AUTH_RATE_BURST"`

		CORSOrigins    string `mapstructure:"CORS_ORIGINS" yaml:"CORS_ORIGINS"`
		MetricsEnabled bool   `mapstructure:"METRICS_ENABLED" yaml:"METRICS_ENABLED"`

		LogLevel      string `mapstructure:"LOG_LEVEL" yaml:"LOG_LEVEL"`
		LogJSON       bool   `mapstructure:"LOG_JSON" yaml:"LOG_JSON"`
		LogFile       string `mapstructure:"LOG_FILE" yaml:"LOG_FILE"`
		LogMaxSize    int    `mapstructure:"LOG_MAX_SIZE" yaml:"LOG_MAX_SIZE"`
		LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS" yaml:"LOG_MAX_BACKUPS"`
		LogMaxAge     int    `mapstructure:"LOG_MAX_AGE" yaml:"LOG_MAX_AGE"`
		LogCompress   bool   `mapstructure:"LOG_COMPRESS" yaml:"LOG_COMPRESS"`
	}
)

// Default returns the configuration used when nothing is set in the
// environment or in a config file.
func Default() Config {
	return Config{
		Host:     "0.0.0.0",
		Port:     "5000",
		GRPCPort: "9000",

		DBDriver:   DriverPostgres,
		DBHost:     "0.0.0.0",
		DBPort:     "5432",
		DBUser:     "user",
		DBPassword: "password",
		DBName:     "emojimap",
		DBSSLMode:  sslModeDisable,
		SQLitePath: "emojimap.db",

		JWTSecret:       "emojimap-development-secret-change-me",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		BcryptCost:      12,

		AuthRateLimit: 1,
		AuthRateBurst: 10,

		CORSOrigins:    "http://localhost:3000",
		MetricsEnabled: true,

		LogLevel:      "info",
		LogMaxSize:    128,
		LogMaxBackups: 5,
		LogMaxAge:     16,
	}
}

var envs = []string{
	"HOST", "PORT", "GRPC_PORT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH",
	"JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "BCRYPT_COST",
	"AUTH_RATE_LIMIT", "AUTH_RATE_BURST",
	"CORS_ORIGINS", "METRICS_ENABLED",
	"LOG_LEVEL", "LOG_JSON", "LOG_FILE", "LOG_MAX_SIZE", "LOG_MAX_BACKUPS", "LOG_MAX_AGE", "LOG_COMPRESS",
}

// Init loads .env files and points viper at an optional config file. It must
// run before NewConfig.
func Init(path string) error {
	envFiles := []string{".env", ".env.local"}
	for _, envFile := range envFiles {
		// missing .env files are fine
		_ = godotenv.Load(envFile)
	}

	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	for _, envFile := range envFiles {
		_ = godotenv.Load(filepath.Join(dir, envFile))
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config file")
	}
	return nil
}

func NewConfig() (*Config, error) {
	viper.SetEnvPrefix("EMOJIMAP")

	d := Default()
	viper.SetDefault("HOST", d.Host)
	viper.SetDefault("PORT", d.Port)
	viper.SetDefault("GRPC_PORT", d.GRPCPort)
	viper.SetDefault("DB_DRIVER", d.DBDriver)
	viper.SetDefault("DB_HOST", d.DBHost)
	viper.SetDefault("DB_PORT", d.DBPort)
	viper.SetDefault("DB_USER", d.DBUser)
	viper.SetDefault("DB_PASSWORD", d.DBPassword)
	viper.SetDefault("DB_NAME", d.DBName)
	viper.SetDefault("DB_SSL_MODE", d.DBSSLMode)
	viper.SetDefault("SQLITE_PATH", d.SQLitePath)
	viper.SetDefault("JWT_SECRET", d.JWTSecret)
	viper.SetDefault("ACCESS_TOKEN_TTL", d.AccessTokenTTL)
	viper.SetDefault("REFRESH_TOKEN_TTL", d.RefreshTokenTTL)
	viper.SetDefault("BCRYPT_COST", d.BcryptCost)
	viper.SetDefault("AUTH_RATE_LIMIT", d.AuthRateLimit)
	viper.SetDefault("AUTH_RATE_BURST", d.AuthRateBurst)
	viper.SetDefault("CORS_ORIGINS", d.CORSOrigins)
	viper.SetDefault("METRICS_ENABLED", d.MetricsEnabled)
	viper.SetDefault("LOG_LEVEL", d.LogLevel)
	viper.SetDefault("LOG_JSON", d.LogJSON)
	viper.SetDefault("LOG_FILE", d.LogFile)
	viper.SetDefault("LOG_MAX_SIZE", d.LogMaxSize)
	viper.SetDefault("LOG_MAX_BACKUPS", d.LogMaxBackups)
	viper.SetDefault("LOG_MAX_AGE", d.LogMaxAge)
	viper.SetDefault("LOG_COMPRESS", d.LogCompress)

	for _, key := range envs {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if err := oneOf("DB driver", cfg.DBDriver, DriverPostgres, DriverSQLite); err != nil {
		return err
	}
	if err := oneOf("DB SSL mode", cfg.DBSSLMode, sslModeDisable, sslModeRequire); err != nil {
		return err
	}
	if err := oneOf("log level", cfg.LogLevel, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if len(cfg.JWTSecret) < minJWTSecretLength {
		return errors.New(fmt.Sprintf("JWT secret must be at least %d characters", minJWTSecretLength))
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	return nil
}

func oneOf(name, value string, valid ...string) error {
	for _, validValue := range valid {
		if value == validValue {
			return nil
		}
	}
	return errors.New(fmt.Sprintf("%s is invalid: %s", name, value))
}
