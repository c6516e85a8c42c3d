package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Rabbit  RabbitConfig
	Consul  ConsulConfig
	Catalog CatalogConfig
}

type ServerConfig struct {
	Port string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	QuizTTL  time.Duration
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address        string
	ServiceName    string
	ServiceAddress string
}

type CatalogConfig struct {
	Path string
}

// Load reads .env if present, then the environment. MONGO_URI is the only
// required value; Redis, RabbitMQ and Consul are optional integrations.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	return &Config{
		Server: ServerConfig{
			Port: getenv("PORT", "6680"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getenv("MONGO_DATABASE", "quiz_engine"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			QuizTTL:  getduration("REDIS_QUIZ_TTL", 10*time.Minute),
		},
		Rabbit: RabbitConfig{
			URI:      os.Getenv("RABBITMQ_URI"),
			Exchange: os.Getenv("RABBITMQ_EXCHANGE"),
		},
		Consul: ConsulConfig{
			Address:        os.Getenv("CONSUL_ADDRESS"),
			ServiceName:    getenv("SERVICE_NAME", "quiz-engine"),
			ServiceAddress: getenv("SERVICE_ADDRESS", "localhost"),
		},
		Catalog: CatalogConfig{
			Path: os.Getenv("CATALOG_PATH"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
