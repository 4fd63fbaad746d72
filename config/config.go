package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisDedupDB  int    `mapstructure:"REDIS_DEDUP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Storefront money settings.
	Currency           string  `mapstructure:"CURRENCY"`
	TaxRate            float64 `mapstructure:"TAX_RATE"`
	TransactionFeeRate float64 `mapstructure:"TRANSACTION_FEE_RATE"`

	// Payment gateway selection: "paychangu" or "stripe".
	PaymentGateway     string `mapstructure:"PAYMENT_GATEWAY"`
	PayChanguBaseURL   string `mapstructure:"PAYCHANGU_BASE_URL"`
	PayChanguSecretKey string `mapstructure:"PAYCHANGU_SECRET_KEY"`
	WebhookSecret      string `mapstructure:"WEBHOOK_SECRET"`
	StripeKey          string `mapstructure:"STRIPE_KEY"`
	CheckoutReturnURL  string `mapstructure:"CHECKOUT_RETURN_URL"`
	CheckoutCancelURL  string `mapstructure:"CHECKOUT_CANCEL_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_DEDUP_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "maravi")
	viper.SetDefault("CURRENCY", "MWK")
	viper.SetDefault("TAX_RATE", 16.5)
	viper.SetDefault("TRANSACTION_FEE_RATE", 0.03)
	viper.SetDefault("PAYMENT_GATEWAY", "paychangu")
	viper.SetDefault("PAYCHANGU_BASE_URL", "https://api.paychangu.com")
	viper.SetDefault("CHECKOUT_RETURN_URL", "http://localhost:3000/payment/return")
	viper.SetDefault("CHECKOUT_CANCEL_URL", "http://localhost:3000/payment/cancel")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
