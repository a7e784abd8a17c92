package config

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// FlowOverride carries optional catalog metadata overrides for a single flow,
// keyed by the flow file's relative path in the config file.
type FlowOverride struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Config struct {
	Port    string
	GinMode string

	// APIKey is the credential checked against the x-api-key header or query
	// parameter on authenticated routes. Supplied via environment only.
	APIKey string

	// FlowsDir is the folder scanned for *.json flow files at startup.
	FlowsDir string

	// Event Channel sizing. Buffers exist to bound memory, not to pace the
	// producer; pacing is done through the acknowledgment channel.
	EventBufferSize int
	AckBufferSize   int

	// Server
	ServerShutdownTimeoutSeconds int

	// CORS
	CORSAllowedOrigins string

	// Logging
	LogLevel  string
	LogFormat string

	// Flow metadata overrides loaded from the optional config file.
	FlowOverrides map[string]FlowOverride `yaml:"flows"`
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		APIKey: getEnvOrDefault("FLOWSERVE_API_KEY", ""),

		FlowsDir: getEnvOrDefault("FLOWS_DIR", "./flows"),

		EventBufferSize: getEnvAsInt("EVENT_BUFFER_SIZE", 256),
		AckBufferSize:   getEnvAsInt("ACK_BUFFER_SIZE", 256),

		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// The config file is optional; it only carries settings that have no
	// natural environment variable shape, like per-flow metadata overrides.
	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")

	configFile, err := os.Open(configFilePath)
	if err != nil {
		log.Printf("No config file at %s, using environment only", configFilePath)
		return
	}
	defer configFile.Close()

	log.Printf("Loading config file: %v", configFilePath)
	if err := LoadConfigFile(configFile, AppConfig); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	return nil
}
