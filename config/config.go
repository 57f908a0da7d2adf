package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	RedisAddr     string
	RedisPort     string
	RedisPassword string
	JWTSecret     string

	// Log configuration
	LogLevel      string
	LogFilename   string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool

	// Credit configuration
	MaxCreditLimit        int
	EarlyReturnMultiplier int

	// Subscription plans
	FreeBookLimit       int
	FreeDurationDays    int
	FreeDailyFine       float64
	PremiumBookLimit    int
	PremiumDurationDays int
	PremiumDailyFine    float64
	PremiumPrice        float64

	// Staff borrowing terms (admins/librarians hold no subscription)
	StaffBorrowDurationDays int

	// Scheduler run times, "HH:MM" local time
	OverdueSweepAt      string
	ReminderSweepAt     string
	SubscriptionSweepAt string

	// Payment gateway (epay protocol)
	PaymentGatewayURL    string
	PaymentMerchantID    string
	PaymentMerchantKey   string
	PaymentNotifyBaseURL string
	PaymentReturnURL     string
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func (c *Config) RedisFullAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisAddr, c.RedisPort)
}

// global holds the configuration installed by Init at bootstrap.
var global *Config

// Init runs LoadConfig once and installs the result as the process-wide
// configuration returned by Get. Call it from main before anything else.
func Init() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	global = cfg
	return cfg, nil
}

// Get returns the configuration installed by Init. Before Init has run
// (tests), it falls back to reading the process environment directly, so it
// never returns nil.
func Get() *Config {
	if global != nil {
		return global
	}
	return fromEnv()
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		// Ignore error if .env file is not found
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return fromEnv(), nil
}

func fromEnv() *Config {
	return &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		RedisAddr:     os.Getenv("REDIS_HOST"),
		RedisPort:     os.Getenv("REDIS_PORT"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogFilename:   getEnv("LOG_FILENAME", "logs/app.log"),
		LogMaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnvAsBool("LOG_COMPRESS", true),

		MaxCreditLimit:        getEnvAsInt("CREDITS_MAX_LIMIT", 10),
		EarlyReturnMultiplier: getEnvAsInt("CREDITS_EARLY_RETURN_MULTIPLIER", 2),

		FreeBookLimit:       getEnvAsInt("SUBSCRIPTION_FREE_BOOK_LIMIT", 3),
		FreeDurationDays:    getEnvAsInt("SUBSCRIPTION_FREE_DURATION_DAYS", 14),
		FreeDailyFine:       getEnvAsFloat("SUBSCRIPTION_FREE_DAILY_FINE", 0.50),
		PremiumBookLimit:    getEnvAsInt("SUBSCRIPTION_PREMIUM_BOOK_LIMIT", 10),
		PremiumDurationDays: getEnvAsInt("SUBSCRIPTION_PREMIUM_DURATION_DAYS", 30),
		PremiumDailyFine:    getEnvAsFloat("SUBSCRIPTION_PREMIUM_DAILY_FINE", 0.25),
		PremiumPrice:        getEnvAsFloat("SUBSCRIPTION_PREMIUM_PRICE", 9.99),

		StaffBorrowDurationDays: getEnvAsInt("STAFF_BORROW_DURATION_DAYS", 30),

		OverdueSweepAt:      getEnv("SCHEDULER_OVERDUE_SWEEP_AT", "01:00"),
		ReminderSweepAt:     getEnv("SCHEDULER_REMINDER_SWEEP_AT", "09:00"),
		SubscriptionSweepAt: getEnv("SCHEDULER_SUBSCRIPTION_SWEEP_AT", "02:00"),

		PaymentGatewayURL:    os.Getenv("PAYMENT_GATEWAY_URL"),
		PaymentMerchantID:    os.Getenv("PAYMENT_MERCHANT_ID"),
		PaymentMerchantKey:   os.Getenv("PAYMENT_MERCHANT_KEY"),
		PaymentNotifyBaseURL: os.Getenv("PAYMENT_NOTIFY_BASE_URL"),
		PaymentReturnURL:     os.Getenv("PAYMENT_RETURN_URL"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
