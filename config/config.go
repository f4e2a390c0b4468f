package config

import (
	"encoding/base64"
	"log"
	"os"

	util "Sistem-Absensi-Cuti/pkg/utils"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port          string
	MONGOSTRING   string
	PASETO_SECRET string
}

// LoadConfig loads configuration from .env file
func LoadConfig() *AppConfig {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file (might not exist in production): %v", err)
	}

	secretBase64 := os.Getenv("PASETO_SECRET")
	if secretBase64 == "" {
		generated, genErr := util.GenerateBase64Key(32)
		if genErr != nil {
			log.Fatalf("PASETO_SECRET tidak diset dan gagal membuat kunci sementara: %v", genErr)
		}
		log.Println("Warning: PASETO_SECRET tidak diset; memakai kunci acak sementara, semua token hangus saat restart")
		secretBase64 = generated
	}

	secretBytes, err := base64.URLEncoding.DecodeString(secretBase64)
	if err != nil {
		log.Fatalf("PASETO_SECRET in .env is not a valid Base64 URL-encoded string: %v", err)
	}

	if len(secretBytes) != 32 {
		log.Fatalf("PASETO_SECRET (decoded) must be exactly 32 bytes long. Current length: %d", len(secretBytes))
	}

	return &AppConfig{
		Port:          getEnv("PORT", "3000"),
		MONGOSTRING:   getEnv("MONGOSTRING", ""),
		PASETO_SECRET: secretBase64,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
