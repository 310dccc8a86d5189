package config

import (
	"os"
	"strconv"
	"strings"
)

type envConfig struct {
	LogLevel               string
	LogFormat              string
	ServerPort             int
	Version                string
	BackendURL             string
	BackendTimeoutSeconds  int
	BackendRateLimit       int
	BackendRateBurst       int
	TeamFetchConcurrency   int
	DecisionTimeoutSeconds int
	Timezone               string
	AutoRejectSchedule     string
	CORSAllowedOrigins     []string
}

func NewEnvironmentConfig() *envConfig {
	return &envConfig{
		LogLevel:               getEnvString("LOG_LEVEL", "INFO"),
		LogFormat:              getEnvString("LOG_FORMAT", "text"),
		ServerPort:             getEnvInt("SERVER_PORT", 3000),
		Version:                getEnvString("VERSION", "v1"),
		BackendURL:             strings.TrimRight(getEnvString("BACKEND_URL", "http://localhost:5001"), "/"),
		BackendTimeoutSeconds:  getEnvInt("BACKEND_TIMEOUT_SECONDS", 5),
		BackendRateLimit:       getEnvInt("BACKEND_RATE_LIMIT", 0),
		BackendRateBurst:       getEnvInt("BACKEND_RATE_BURST", 10),
		TeamFetchConcurrency:   getEnvInt("TEAM_FETCH_CONCURRENCY", 8),
		DecisionTimeoutSeconds: getEnvInt("DECISION_TIMEOUT_SECONDS", 10),
		Timezone:               getEnvString("TIMEZONE", "Asia/Singapore"),
		AutoRejectSchedule:     getEnvString("AUTO_REJECT_SCHEDULE", ""),
		CORSAllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// helper function to read an environment or return a default value
func getEnvString(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// helper function to read an environment or return a default value
func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(getEnvString(key, strconv.Itoa(defaultVal)))
	if err == nil {
		return val
	}

	return defaultVal
}

// comma separated; blank entries are dropped
func getEnvList(key string, defaultVal []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultVal
	}
	return values
}
