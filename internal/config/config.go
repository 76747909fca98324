// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Cron      CronConfig
	Cache     CacheConfig
	Inventory InventoryConfig
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

type AuthConfig struct {
	JWTSecret       string
	SessionTTLHours int
}

type CronConfig struct {
	// Secret guards the externally scheduled endpoints. Empty disables the
	// endpoints entirely (they answer 503) rather than leaving them open.
	Secret string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	ReorderTTLSeconds int
}

// InventoryConfig names the replenishment constants so they are tunable
// instead of living as inline literals in the engine.
type InventoryConfig struct {
	SafetyFactor         float64 // multiplier on lead-time demand for safety stock
	ReorderCoverMonths   float64 // months of demand ordered per replenishment
	DaysPerMonth         int     // fixed days-per-month assumption
	DemandWindowMonths   int     // trailing window for the demand estimate
	DefaultLeadTimeDays  int     // lead time when a product has none configured
	MinReorderQuantity   int     // floor for the computed reorder quantity
	LowStockThreshold    int     // fixed-threshold selector cutoff
	FixedReorderQuantity int     // fixed-threshold suggested quantity
	FixedSafetyStock     int     // fixed-threshold safety stock
	CostRatioEstimate    float64 // unit cost estimate as a fraction of sale price
	FallbackSupplierName string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "storefront")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("JWT_SECRET", "storefront-dev-secret")
		viper.SetDefault("SESSION_TTL_HOURS", 168)
		viper.SetDefault("CRON_SECRET", "")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REORDER_TTL_SECONDS", 60)
		viper.SetDefault("INVENTORY_SAFETY_FACTOR", 1.5)
		viper.SetDefault("INVENTORY_REORDER_COVER_MONTHS", 1.5)
		viper.SetDefault("INVENTORY_DAYS_PER_MONTH", 30)
		viper.SetDefault("INVENTORY_DEMAND_WINDOW_MONTHS", 3)
		viper.SetDefault("INVENTORY_DEFAULT_LEAD_TIME_DAYS", 7)
		viper.SetDefault("INVENTORY_MIN_REORDER_QUANTITY", 10)
		viper.SetDefault("INVENTORY_LOW_STOCK_THRESHOLD", 10)
		viper.SetDefault("INVENTORY_FIXED_REORDER_QUANTITY", 30)
		viper.SetDefault("INVENTORY_FIXED_SAFETY_STOCK", 5)
		viper.SetDefault("INVENTORY_COST_RATIO_ESTIMATE", 0.6)
		viper.SetDefault("INVENTORY_FALLBACK_SUPPLIER", "Generic Supplier")

		// Read from environment variables
		viper.AutomaticEnv()

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
			Auth: AuthConfig{
				JWTSecret:       viper.GetString("JWT_SECRET"),
				SessionTTLHours: viper.GetInt("SESSION_TTL_HOURS"),
			},
			Cron: CronConfig{
				Secret: viper.GetString("CRON_SECRET"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				ReorderTTLSeconds: viper.GetInt("CACHE_REORDER_TTL_SECONDS"),
			},
			Inventory: InventoryConfig{
				SafetyFactor:         viper.GetFloat64("INVENTORY_SAFETY_FACTOR"),
				ReorderCoverMonths:   viper.GetFloat64("INVENTORY_REORDER_COVER_MONTHS"),
				DaysPerMonth:         viper.GetInt("INVENTORY_DAYS_PER_MONTH"),
				DemandWindowMonths:   viper.GetInt("INVENTORY_DEMAND_WINDOW_MONTHS"),
				DefaultLeadTimeDays:  viper.GetInt("INVENTORY_DEFAULT_LEAD_TIME_DAYS"),
				MinReorderQuantity:   viper.GetInt("INVENTORY_MIN_REORDER_QUANTITY"),
				LowStockThreshold:    viper.GetInt("INVENTORY_LOW_STOCK_THRESHOLD"),
				FixedReorderQuantity: viper.GetInt("INVENTORY_FIXED_REORDER_QUANTITY"),
				FixedSafetyStock:     viper.GetInt("INVENTORY_FIXED_SAFETY_STOCK"),
				CostRatioEstimate:    viper.GetFloat64("INVENTORY_COST_RATIO_ESTIMATE"),
				FallbackSupplierName: viper.GetString("INVENTORY_FALLBACK_SUPPLIER"),
			},
		}
	})

	return instance
}

// DefaultInventoryConfig returns the stock replenishment constants without
// touching the environment. Used by tests and the seed tool.
func DefaultInventoryConfig() InventoryConfig {
	return InventoryConfig{
		SafetyFactor:         1.5,
		ReorderCoverMonths:   1.5,
		DaysPerMonth:         30,
		DemandWindowMonths:   3,
		DefaultLeadTimeDays:  7,
		MinReorderQuantity:   10,
		LowStockThreshold:    10,
		FixedReorderQuantity: 30,
		FixedSafetyStock:     5,
		CostRatioEstimate:    0.6,
		FallbackSupplierName: "Generic Supplier",
	}
}
