// Package app wires configuration, storage, clients, and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soltrack/soltrack/internal/clients/coingecko"
	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/interfaces"
	"github.com/soltrack/soltrack/internal/services/market"
	"github.com/soltrack/soltrack/internal/services/portfolio"
	"github.com/soltrack/soltrack/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Users            *storage.UserStore
	CoinGeckoClient  interfaces.CoinGeckoClient
	MarketService    *market.Service
	PortfolioService *portfolio.Service
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration: provided path, SOLTRACK_CONFIG, binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("SOLTRACK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "soltrack.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/soltrack.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative users file path to binary directory
	if config.Storage.UsersFile != "" && !filepath.IsAbs(config.Storage.UsersFile) {
		config.Storage.UsersFile = filepath.Join(binDir, config.Storage.UsersFile)
	}

	logger := common.NewLogger(config.Logging.Level)

	users := storage.NewUserStore(logger, config.Storage.UsersFile)

	cg := config.Clients.CoinGecko
	coinGeckoClient := coingecko.NewClient(cg.APIKey,
		coingecko.WithBaseURL(cg.BaseURL),
		coingecko.WithLogger(logger),
		coingecko.WithRateLimit(cg.RateLimit),
		coingecko.WithTimeout(cg.GetTimeout()),
	)

	marketService := market.NewService(coinGeckoClient, logger)
	portfolioService := portfolio.NewService(logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Users:            users,
		CoinGeckoClient:  coinGeckoClient,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}
