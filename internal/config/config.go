// backend-go/internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Engine   EngineConfig
	Cache    CacheConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EngineConfig holds the tunables of the optimization and forecasting engine.
// All of them have working defaults so the engine can run with an empty env.
type EngineConfig struct {
	LookbackDays     int     // demand statistics window
	OrderingCost     float64 // fixed cost per order, used by EOQ
	HoldingRate      float64 // yearly holding cost as a fraction of unit price
	NetReturns       bool    // net negative-quantity sales out of the demand series
	ABCBoundary      string  // "lower" or "upper" tier assignment at the 80/95 boundary
	VATRate          float64
	FreeShippingFrom float64 // subtotal above which shipping is free
	ShippingLarge    float64 // shipping for orders above 50 units
	ShippingMedium   float64 // shipping for orders above 20 units
	ShippingSmall    float64
	WorkerCount      int
	RequestTimeoutMS int
	OutputDir        string // CSV output directory for the batch CLI
}

type CacheConfig struct {
	Enabled               bool
	RedisURL              string
	RedisHost             string
	RedisPort             string
	RedisPassword         string
	RedisDB               int
	OptimizationTTLSecond int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "stockpilot")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("ENGINE_LOOKBACK_DAYS", 90)
		viper.SetDefault("ENGINE_ORDERING_COST", 50.0)
		viper.SetDefault("ENGINE_HOLDING_RATE", 0.25)
		viper.SetDefault("ENGINE_NET_RETURNS", true)
		viper.SetDefault("ENGINE_ABC_BOUNDARY", "lower")
		viper.SetDefault("ENGINE_VAT_RATE", 0.19)
		viper.SetDefault("ENGINE_FREE_SHIPPING_FROM", 500.0)
		viper.SetDefault("ENGINE_SHIPPING_LARGE", 25.0)
		viper.SetDefault("ENGINE_SHIPPING_MEDIUM", 15.0)
		viper.SetDefault("ENGINE_SHIPPING_SMALL", 10.0)
		viper.SetDefault("ENGINE_WORKER_COUNT", 8)
		viper.SetDefault("ENGINE_REQUEST_TIMEOUT_MS", 30000)
		viper.SetDefault("ENGINE_OUTPUT_DIR", "./data/output")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_OPTIMIZATION_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "purchase-orders")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the CLI output directory exists
		ensureDir(viper.GetString("ENGINE_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Engine: EngineConfig{
				LookbackDays:     viper.GetInt("ENGINE_LOOKBACK_DAYS"),
				OrderingCost:     viper.GetFloat64("ENGINE_ORDERING_COST"),
				HoldingRate:      viper.GetFloat64("ENGINE_HOLDING_RATE"),
				NetReturns:       viper.GetBool("ENGINE_NET_RETURNS"),
				ABCBoundary:      viper.GetString("ENGINE_ABC_BOUNDARY"),
				VATRate:          viper.GetFloat64("ENGINE_VAT_RATE"),
				FreeShippingFrom: viper.GetFloat64("ENGINE_FREE_SHIPPING_FROM"),
				ShippingLarge:    viper.GetFloat64("ENGINE_SHIPPING_LARGE"),
				ShippingMedium:   viper.GetFloat64("ENGINE_SHIPPING_MEDIUM"),
				ShippingSmall:    viper.GetFloat64("ENGINE_SHIPPING_SMALL"),
				WorkerCount:      viper.GetInt("ENGINE_WORKER_COUNT"),
				RequestTimeoutMS: viper.GetInt("ENGINE_REQUEST_TIMEOUT_MS"),
				OutputDir:        viper.GetString("ENGINE_OUTPUT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:               viper.GetBool("CACHE_ENABLED"),
				RedisURL:              viper.GetString("REDIS_URL"),
				RedisHost:             viper.GetString("REDIS_HOST"),
				RedisPort:             viper.GetString("REDIS_PORT"),
				RedisPassword:         viper.GetString("REDIS_PASSWORD"),
				RedisDB:               viper.GetInt("REDIS_DB"),
				OptimizationTTLSecond: viper.GetInt("CACHE_OPTIMIZATION_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
