// internal/config/environment.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port           int
	DBPath         string
	DataPath       string
	RemoteBaseURL  string // remote origin for feed resolution, no trailing slash
	ContactURL     string // upstream endpoint that accepts contact submissions
	GitHubUser     string // profile for the stats block; empty disables it
	ProductionMode bool
}

func GetConfig() Config {
	config := Config{
		Port:     8080, // default port
		DBPath:   "data/portfolio.db",
		DataPath: "data",
	}

	// Override with environment variables if present
	if port := os.Getenv("PORTFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}

	if dbPath := os.Getenv("PORTFOLIO_DB_PATH"); dbPath != "" {
		config.DBPath = dbPath
	}

	if dataPath := os.Getenv("PORTFOLIO_DATA_PATH"); dataPath != "" {
		config.DataPath = dataPath
	}

	if remote := os.Getenv("PORTFOLIO_REMOTE_URL"); remote != "" {
		config.RemoteBaseURL = remote
	}

	if contact := os.Getenv("PORTFOLIO_CONTACT_URL"); contact != "" {
		config.ContactURL = contact
	}

	if user := os.Getenv("PORTFOLIO_GITHUB_USER"); user != "" {
		config.GitHubUser = user
	}

	return config
}

func (c Config) GetAddress() string {
	return fmt.Sprintf(":%d", c.Port)
}
