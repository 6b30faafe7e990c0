package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBDSN            string
	LogFile          string
	ClientID         string
	ClientSecret     string
	ClientSecretFile string
}

// clientSecretFile mirrors the Google client_secret.json layout.
type clientSecretFile struct {
	Web struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	} `json:"web"`
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found; using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "catalog.db"
	}

	cfg := Config{
		Port:             port,
		DBDSN:            dsn,
		LogFile:          os.Getenv("LOG_FILE"),
		ClientID:         os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:     os.Getenv("GOOGLE_CLIENT_SECRET"),
		ClientSecretFile: os.Getenv("CLIENT_SECRET_FILE"),
	}
	if cfg.ClientSecretFile == "" {
		cfg.ClientSecretFile = "client_secret.json"
	}

	// Env vars win; otherwise fall back to the client_secret.json artifact.
	if cfg.ClientID == "" {
		if raw, err := os.ReadFile(cfg.ClientSecretFile); err == nil {
			var f clientSecretFile
			if err := json.Unmarshal(raw, &f); err != nil {
				log.Printf("[config] could not parse %s: %v", cfg.ClientSecretFile, err)
			} else {
				cfg.ClientID = f.Web.ClientID
				cfg.ClientSecret = f.Web.ClientSecret
			}
		} else {
			log.Printf("[config] no client secret file at %s; login disabled until configured", cfg.ClientSecretFile)
		}
	}

	log.Printf("[config] PORT=%s DB_DSN=%s", cfg.Port, cfg.DBDSN)
	return cfg
}
