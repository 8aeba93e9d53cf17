package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	LogReader LogReaderConfig
	ReadState ReadStateConfig
	Kafka     KafkaConfig
	LogLevel  string
}

type ServerConfig struct {
	Port string
}

type LogReaderConfig struct {
	Path             string // Directory holding the log files
	Filename         string // Glob matched inside Path
	Environment      string
	Level            string // Comma separated
	Class            string
	OrderByField     string
	OrderByDirection string
	LevelMatch       string // "exact" or "minimum"
	CollapseOnRead   bool
	CollapseSchedule string // Cron spec with seconds; empty disables the job
}

type ReadStateConfig struct {
	FilePath string // Empty keeps read state in memory
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

const DefaultFilename = "*.*"

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_READER_PATH", "./storage/logs")
	viper.SetDefault("LOG_READER_FILENAME", "laravel.log")
	viper.SetDefault("LOG_READER_ENVIRONMENT", "")
	viper.SetDefault("LOG_READER_LEVEL", "")
	viper.SetDefault("LOG_READER_CLASS", "")
	viper.SetDefault("LOG_READER_ORDER_BY_FIELD", "")
	viper.SetDefault("LOG_READER_ORDER_BY_DIRECTION", "")
	viper.SetDefault("LOG_READER_LEVEL_MATCH", "exact")
	viper.SetDefault("LOG_READER_COLLAPSE_ON_READ", false)
	viper.SetDefault("LOG_READER_COLLAPSE_SCHEDULE", "")
	viper.SetDefault("READ_STATE_PATH", "./log_reader_state.json")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_AUDIT_TOPIC", "log_reader_audit")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Debug().Err(err).Msg("No config file loaded, using environment and defaults")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	// --- Log Reader ---
	config.LogReader.Path = viper.GetString("LOG_READER_PATH")
	config.LogReader.Filename = viper.GetString("LOG_READER_FILENAME")
	if strings.TrimSpace(config.LogReader.Filename) == "" {
		config.LogReader.Filename = DefaultFilename
	}
	config.LogReader.Environment = viper.GetString("LOG_READER_ENVIRONMENT")
	config.LogReader.Level = viper.GetString("LOG_READER_LEVEL")
	config.LogReader.Class = viper.GetString("LOG_READER_CLASS")
	config.LogReader.OrderByField = viper.GetString("LOG_READER_ORDER_BY_FIELD")
	config.LogReader.OrderByDirection = viper.GetString("LOG_READER_ORDER_BY_DIRECTION")
	config.LogReader.LevelMatch = viper.GetString("LOG_READER_LEVEL_MATCH")
	config.LogReader.CollapseOnRead = viper.GetBool("LOG_READER_COLLAPSE_ON_READ")
	config.LogReader.CollapseSchedule = viper.GetString("LOG_READER_COLLAPSE_SCHEDULE")

	// --- Read State ---
	config.ReadState.FilePath = viper.GetString("READ_STATE_PATH")

	// --- Kafka ---
	if brokers := strings.TrimSpace(viper.GetString("KAFKA_BROKERS")); brokers != "" {
		config.Kafka.Brokers = strings.Split(brokers, ",")
	}
	config.Kafka.AuditTopic = viper.GetString("KAFKA_AUDIT_TOPIC")

	config.LogLevel = viper.GetString("LOG_LEVEL")

	log.Debug().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
