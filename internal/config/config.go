package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	BaseURL  string
	MongoURI string
	MongoDB  string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() Config {
	_ = godotenv.Load() // load .env if it exists
	cfg := Config{
		Addr:     getenv("ADDR", ":8080"),
		BaseURL:  getenv("BASE_URL", "http://localhost:8080"),
		MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "tienda"),
	}
	log.Printf("[config] ADDR=%s", cfg.Addr)
	log.Printf("[config] BASE_URL=%s", cfg.BaseURL)
	log.Printf("[config] MONGO_DB=%s", cfg.MongoDB)
	return cfg
}
