// Package config loads runtime configuration from the environment (and an
// optional .env file) plus the optional YAML fee schedule.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/finance"
)

// Config holds all runtime configuration values.
type Config struct {
	Env             string        // APP_ENV: development, test, production
	Port            string        // APP_PORT
	DBUser          string        // DB_USER
	DBPass          string        // DB_PASS, may be empty
	DBHost          string        // DB_HOST
	DBPort          string        // DB_PORT
	DBName          string        // DB_NAME
	JWTSecret       string        // JWT_SECRET
	AccessTTL       time.Duration // ACCESS_TOKEN_TTL_MIN
	BcryptCost      int           // BCRYPT_COST
	RabbitURL       string        // RABBITMQ_URL, empty disables messaging
	BookingLogPath  string        // BOOKING_LOG_PATH
	ShutdownTimeout time.Duration // SHUTDOWN_TIMEOUT
	FeesFile        string        // FEES_FILE, optional YAML fee schedule
	Rates           finance.Rates // TAX_RATE, TOURISM_FEE_RATE, COMMISSION_RATE
}

// Development reports whether the service runs in a development environment.
func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// Load reads the .env file when present and then the environment.  Missing
// required keys stop the process.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not read .env file")
	}
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          envStr("DB_PASS", ""),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTL:       time.Duration(mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		BcryptCost:      envInt("BCRYPT_COST", 12),
		RabbitURL:       envStr("RABBITMQ_URL", ""),
		BookingLogPath:  envStr("BOOKING_LOG_PATH", "logs/booking.log"),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 15*time.Second),
		FeesFile:        envStr("FEES_FILE", ""),
		Rates:           loadRates(),
	}
}

func loadRates() finance.Rates {
	return finance.Rates{
		Tax:        envDecimal("TAX_RATE", decimal.Zero),
		TourismFee: envDecimal("TOURISM_FEE_RATE", finance.DefaultTourismFeeRate),
		Commission: envDecimal("COMMISSION_RATE", finance.DefaultCommissionRate),
	}
}
