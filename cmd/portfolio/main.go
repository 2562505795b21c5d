package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/server"
	"portfolio/internal/source"
	"portfolio/internal/stats"
)

var (
	// Version will be set during build
	Version = "dev"

	// Command line flags
	port     = flag.Int("port", 0, "Port to run the server on (default: 8080 or PORTFOLIO_PORT)")
	dbPath   = flag.String("db", "", "Path to database file (default: data/portfolio.db or PORTFOLIO_DB_PATH)")
	dataPath = flag.String("data", "", "Path to data directory (default: data or PORTFOLIO_DATA_PATH)")
	siteURL  = flag.String("site-url", "", "Public base URL of this deployment")
	version  = flag.Bool("version", false, "Print version information")
	prodMode = flag.Bool("prod", false, "Enable production mode (HTTPS-only cookies)")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Portfolio version %s\n", Version)
		return
	}

	// Setup logging
	logger := log.New(os.Stdout, "portfolio: ", log.LstdFlags|log.Lshortfile)

	// Get base configuration from environment
	cfg := config.GetConfig()

	// Override with command line flags if provided
	if *port > 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	cfg.ProductionMode = *prodMode

	logger.Printf("Starting Portfolio v%s", Version)
	logger.Printf("Port: %d", cfg.Port)
	logger.Printf("Database: %s", cfg.DBPath)
	logger.Printf("Data directory: %s", cfg.DataPath)
	if cfg.RemoteBaseURL != "" {
		logger.Printf("Remote feed origin: %s", cfg.RemoteBaseURL)
	}

	// Create necessary directories
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Fatalf("Failed to create database directory: %v", err)
	}
	if err := os.MkdirAll(cfg.DataPath, 0755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize database
	dbConfig := database.DefaultConfig()
	db, err := database.NewDB(cfg.DBPath, dbConfig)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize feed resolver and stats service
	resolver := source.NewResolver(logger, cfg.RemoteBaseURL, cfg.DataPath)
	statsSvc := stats.NewService(logger, cfg.GitHubUser)

	// Initialize server
	srv, err := server.NewServer(db, logger, resolver, statsSvc, server.Config{
		UseHTTPS:   cfg.ProductionMode,
		SiteURL:    *siteURL,
		ContactURL: cfg.ContactURL,
		DataPath:   cfg.DataPath,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize server: %v", err)
	}

	logger.Printf("Starting server on port %d", cfg.Port)
	if err := srv.Start(cfg.GetAddress()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
