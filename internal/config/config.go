package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения. Заполняется из переменных
// окружения (или .env файла) и передается явно в компоненты при сборке,
// а не через глобальное состояние.
type Config struct {
	Port           string
	DatabaseURL    string
	MigrationsPath string
	WebDir         string

	// Конфигурация удаленного генератора AI-саммари (Azure OpenAI).
	// Если Endpoint или APIKey пустые, генерация молча отключена.
	AIEndpoint      string
	AIAPIKey        string
	AIDeploymentID  string
	AITemperature   float64
	AIMaxTokens     int
	AIEnableCaching bool
}

// Load инициализирует конфигурацию из переменных окружения или значений по умолчанию.
func Load() *Config {
	// Загружаем .env файл, если он существует
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "filmreview.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		WebDir:         getEnv("WEB_DIR", "./web/static"),

		AIEndpoint:      getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AIAPIKey:        getEnv("AZURE_OPENAI_API_KEY", ""),
		AIDeploymentID:  getEnv("AZURE_OPENAI_DEPLOYMENT_ID", "gpt-35-turbo"),
		AITemperature:   getEnvFloat("AI_SUMMARY_TEMPERATURE", 0.7),
		AIMaxTokens:     getEnvInt("AI_SUMMARY_MAX_TOKENS", 2000),
		AIEnableCaching: getEnvBool("AI_SUMMARY_CACHE", true),
	}
}

// getEnv возвращает переменную окружения или значение по умолчанию.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt возвращает переменную окружения как int или значение по умолчанию.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvFloat возвращает переменную окружения как float64 или значение по умолчанию.
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid float for %s, using default %g", key, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvBool возвращает переменную окружения как bool или значение по умолчанию.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid boolean for %s, using default %t", key, defaultValue)
		return defaultValue
	}
	return parsed
}
