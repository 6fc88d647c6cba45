package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env            string `yaml:"env"`
	HTTPServer     `yaml:"http_server"`
	SettlementDB   `yaml:"settlement_db"`
	LogConfig      `yaml:"log_config"`
	PaymentService `yaml:"payment-service"`
	UserService    `yaml:"user-service"`
	KafkaService   `yaml:"kafka-service"`
	Cascade        `yaml:"cascade"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type SettlementDB struct {
	Dsn string `yaml:"dsn"`
	// MigrationsPath points at versioned SQL migrations; empty means
	// schema management is left to AutoMigrate.
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type PaymentService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type UserService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Cascade struct {
	// WindowMinutes is the payment window duration. Defaults to the
	// platform-wide 10 minutes when unset.
	WindowMinutes      int `yaml:"window_minutes" env-default:"10"`
	StuckAfterMinutes  int `yaml:"stuck_after_minutes" env-default:"30"`
	CloseSweepSeconds  int `yaml:"close_sweep_seconds" env-default:"5"`
	StuckSweepSeconds  int `yaml:"stuck_sweep_seconds" env-default:"60"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
