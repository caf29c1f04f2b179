package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Blobstore BlobstoreConfig
	Pool      PoolConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// BlobstoreConfig holds blob-store gateway configuration
type BlobstoreConfig struct {
	BaseURL  string
	APIKey   string
	Bucket   string
	MockMode bool
}

// PoolConfig holds tunables for the phone-number pool
type PoolConfig struct {
	AllocationScanCap int
	BulkChunkSize     int
	MaxBulkRows       int
	DeleteGuardHours  int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, environment variables take over
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "callops")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Blobstore.Bucket", "callops-documents")
	viper.SetDefault("Blobstore.MockMode", true)
	viper.SetDefault("Pool.AllocationScanCap", 1000)
	viper.SetDefault("Pool.BulkChunkSize", 50)
	viper.SetDefault("Pool.MaxBulkRows", 10000)
	viper.SetDefault("Pool.DeleteGuardHours", 24)
	viper.SetDefault("LogLevel", "info")
}
