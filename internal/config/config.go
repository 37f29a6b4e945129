package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB     *Postgres `yaml:"database"`
	RMQ    *RabbitMQ `yaml:"rabbitmq"`
	Server *Server   `yaml:"server"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type Server struct {
	Port int `yaml:"port"`
}

// LoadConfig reads the yaml file at configPath and applies environment
// overrides on top of it. Environment variables win so the same file can be
// shipped in containers with per-deployment credentials.
func LoadConfig(configPath string) (*Config, error) {
	cnf := &Config{
		DB:     &Postgres{Host: "localhost", Port: "5432"},
		RMQ:    &RabbitMQ{Host: "localhost", Port: "5672", VHost: "/"},
		Server: &Server{Port: 3000},
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cnf)
	return cnf, nil
}

func applyEnvOverrides(cnf *Config) {
	cnf.DB.Host = getEnv("POSTGRES_HOST", cnf.DB.Host)
	cnf.DB.Port = getEnv("POSTGRES_PORT", cnf.DB.Port)
	cnf.DB.User = getEnv("POSTGRES_USER", cnf.DB.User)
	cnf.DB.Password = getEnv("POSTGRES_PASSWORD", cnf.DB.Password)
	cnf.DB.Database = getEnv("POSTGRES_DB", cnf.DB.Database)

	cnf.RMQ.Host = getEnv("RABBITMQ_HOST", cnf.RMQ.Host)
	cnf.RMQ.Port = getEnv("RABBITMQ_PORT", cnf.RMQ.Port)
	cnf.RMQ.User = getEnv("RABBITMQ_USER", cnf.RMQ.User)
	cnf.RMQ.Password = getEnv("RABBITMQ_PASSWORD", cnf.RMQ.Password)
	cnf.RMQ.VHost = getEnv("RABBITMQ_VHOST", cnf.RMQ.VHost)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
