package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xyfu66/score-following-app/constants"
)

// Config holds the settings shared by the tracker server and the follow client
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	SentryDSN   string

	// Where uploaded scores and their metadata live
	UploadDir string

	// DynamoDB metadata backend, only used when an endpoint is set
	DynamoEndpoint string
	DynamoRegion   string
	DynamoTable    string

	// Tracker
	SimulationBPM  float64
	ChordWindow    time.Duration
	AllowedOrigins []string

	// Follow client
	ServerURL string
	BeatField string
}

func Load() *Config {
	return &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Port:           getEnv("PORT", constants.DefaultPort),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		UploadDir:      constants.GetUploadDir(),
		DynamoEndpoint: getEnv("DYNAMODB_ENDPOINT", ""),
		DynamoRegion:   getEnv("DYNAMODB_REGION", "localhost"),
		DynamoTable:    getEnv("DYNAMODB_TABLE", "score-following-metadata"),
		SimulationBPM:  getFloat("SIMULATION_BPM", 0),
		ChordWindow:    time.Duration(getInt("CHORD_WINDOW_MS", constants.DefaultChordWindowMs)) * time.Millisecond,
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"*"}),
		ServerURL:      getEnv("SERVER_URL", constants.DefaultServerURL),
		BeatField:      getEnv("BEAT_FIELD", constants.DefaultBeatField),
	}
}

// UsesDynamo returns true if score metadata should go to DynamoDB instead of local files
func (c *Config) UsesDynamo() bool {
	return c.DynamoEndpoint != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var res []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}
