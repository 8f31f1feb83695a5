package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceDBHost     string
	SourceDBPort     string
	SourceDBUser     string
	SourceDBPassword string
	SourceDBName     string
	SourceDBSSLMode  string

	LoadDBHost     string
	LoadDBPort     string
	LoadDBUser     string
	LoadDBPassword string
	LoadDBName     string
	LoadDBSSLMode  string

	AmazonQuery     string
	ProductFilePath string
	ScrapePages     int
	ScrapeURL       string

	MaxConcurrency int
	MaxRetries     int
	ForceRerun     bool
	Schedule       string

	OutputDir string
	ChromeBin string
	LogLevel  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SourceDBHost:     getEnv("SOURCE_DB_HOST", "localhost"),
		SourceDBPort:     getEnv("SOURCE_DB_PORT", "5432"),
		SourceDBUser:     getEnv("SOURCE_DB_USER", "etl"),
		SourceDBPassword: getEnv("SOURCE_DB_PASSWORD", "etl123"),
		SourceDBName:     getEnv("SOURCE_DB_NAME", "amazon_db"),
		SourceDBSSLMode:  getEnv("SOURCE_DB_SSLMODE", "disable"),

		LoadDBHost:     getEnv("LOAD_DB_HOST", "localhost"),
		LoadDBPort:     getEnv("LOAD_DB_PORT", "5433"),
		LoadDBUser:     getEnv("LOAD_DB_USER", "etl"),
		LoadDBPassword: getEnv("LOAD_DB_PASSWORD", "etl123"),
		LoadDBName:     getEnv("LOAD_DB_NAME", "datamart_db"),
		LoadDBSSLMode:  getEnv("LOAD_DB_SSLMODE", "disable"),

		AmazonQuery:     getEnv("AMAZON_QUERY", "SELECT * FROM amazon_sales_data"),
		ProductFilePath: getEnv("PRODUCT_FILE_PATH", "./data/ElectronicsProductsPricingData.csv"),
		ScrapePages:     getEnvInt("SCRAPE_TOTAL_PAGES", 45),
		ScrapeURL:       getEnv("SCRAPE_URL", "https://mydramalist.com/18452-goblin/reviews?page=%d"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		ForceRerun:     getEnvBool("FORCE_RERUN", false),
		Schedule:       getEnv("PIPELINE_SCHEDULE", ""),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),
		ChromeBin: getEnv("CHROME_BIN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// SourceDSN returns the connection string for the source (Amazon sales) database.
func (c *Config) SourceDSN() string {
	return dsn(c.SourceDBHost, c.SourceDBPort, c.SourceDBUser, c.SourceDBPassword, c.SourceDBName, c.SourceDBSSLMode)
}

// LoadDSN returns the connection string for the destination database.
func (c *Config) LoadDSN() string {
	return dsn(c.LoadDBHost, c.LoadDBPort, c.LoadDBUser, c.LoadDBPassword, c.LoadDBName, c.LoadDBSSLMode)
}

func dsn(host, port, user, password, dbname, sslmode string) string {
	return "host=" + host +
		" port=" + port +
		" user=" + user +
		" password=" + password +
		" dbname=" + dbname +
		" sslmode=" + sslmode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] Invalid integer for %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] Invalid boolean for %s=%q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}
