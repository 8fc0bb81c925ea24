package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting list values
	"time"    // For token lifetimes

	"github.com/joho/godotenv"   // For loading .env files
	"golang.org/x/crypto/bcrypt" // Default hashing cost
)

// Local frontend dev servers
var defaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	JWTSecret     string        // Secret used to sign password reset envelopes
	RedisAddr     string        // Redis server address, empty disables the reset queue
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	ResetQueueKey string        // Redis list that receives password reset envelopes
	BcryptCost    int           // bcrypt cost factor for password hashes
	ResetTokenTTL time.Duration // Lifetime of a password reset token
	CORSOrigins   []string      // Browser origins allowed to call the API
	IsProd        bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       getEnvOrDefault("APP_PORT", "8080"),                          // Application port
		DBUser:        os.Getenv("DB_USER"),                                         // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),                                     // Database password
		DBHost:        getEnvOrDefault("DB_HOST", "127.0.0.1"),                      // Database host
		DBPort:        getEnvOrDefault("DB_PORT", "3306"),                           // Database port
		DBName:        os.Getenv("DB_NAME"),                                         // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),                                      // Envelope signing key
		RedisAddr:     os.Getenv("REDIS_ADDR"),                                      // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),                                      // Redis password
		RedisDB:       redisDB,                                                      // Redis database number
		ResetQueueKey: getEnvOrDefault("RESET_QUEUE_KEY", "finance:password-reset"), // Reset delivery list
		BcryptCost:    getIntOrDefault("BCRYPT_COST", bcrypt.DefaultCost),           // Hash cost
		ResetTokenTTL: getDurationOrDefault("RESET_TOKEN_TTL", time.Hour),           // Reset token lifetime
		CORSOrigins:   getListOrDefault("CORS_ORIGINS", defaultCORSOrigins),         // Allowed browser origins
		IsProd:        os.Getenv("IS_PROD") == "true",                               // Is production environment
	}
}

// DSN returns the MySQL data source name with UTC timestamps
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&loc=UTC"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
