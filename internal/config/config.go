package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig es la configuración centralizada del cliente.
// Se puebla desde env vars; un .env se puede auto-cargar importando
// _ "github.com/joho/godotenv/autoload" en el main (las env reales
// tienen precedencia, no se requiere que el archivo exista).
type AppConfig struct {
	// APIBaseURL es la base del API remoto del hospital.
	APIBaseURL string
	// TokenPath es el archivo donde se persiste el bearer token.
	TokenPath string
	// HTTPTimeoutSec aplica a cada request saliente.
	HTTPTimeoutSec int

	LogLevel  string
	LogFormat string
	AppName   string
}

// Load lee la configuración desde env con defaults.
func Load() *AppConfig {
	return &AppConfig{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		TokenPath:      getEnv("TOKEN_PATH", defaultTokenPath()),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 10),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AppName:        getEnv("APP_NAME", "pet-hospital-client"),
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pet-hospital-client", "token")
	}
	return filepath.Join(home, ".pet-hospital-client", "token")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
