package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string
	JWTSecret  string
	JWTTTL     time.Duration
	CSRFSecret string
	CSRFTTL    time.Duration
	ServerPort string
	LogFormat  string
	LogLevel   string
	// CORSOrigins is passed to the cors middleware as is.
	CORSOrigins string
	// QuietStartup hides the fiber banner.
	QuietStartup bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	jwtSecret := getEnv("JWT_SECRET", "secret")
	return &Config{
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "learning_platform"),
		SQLitePath:   getEnv("SQLITE_PATH", "learning_platform.db"),
		JWTSecret:    jwtSecret,
		JWTTTL:       getDuration("JWT_TTL", 72*time.Hour),
		CSRFSecret:   getEnv("CSRF_SECRET", jwtSecret+"-csrf"),
		CSRFTTL:      getDuration("CSRF_TTL", time.Hour),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		QuietStartup: getEnv("QUIET_STARTUP", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDuration accepts Go durations ("90m") or plain seconds ("5400").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Invalid duration in %s=%q, using %s", key, value, defaultValue)
	return defaultValue
}
