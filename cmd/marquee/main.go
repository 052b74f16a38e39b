package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"marquee/internal/config"
	"marquee/internal/log"
	"marquee/internal/search"
	"marquee/internal/store"
	"marquee/internal/tmdb"
	"marquee/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, tmdb.Options{
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
	}, logger)

	// Open the search history store, degrading to no history on failure
	var history *store.HistoryStore
	if cfg.History.Enabled {
		history, err = store.NewHistoryStore(cfg.History.Dir)
		if err != nil {
			logger.Warn("search history unavailable", "error", err)
			history = nil
		} else {
			defer history.Close()
		}
	}

	coord := search.NewCoordinator(logger)
	model := tui.NewModel(client, coord, history)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when no API key is configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("Marquee needs a TMDB API key to browse the movie catalog.")
	fmt.Println("Get one for free at https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		fmt.Print("Enter your TMDB API key: ")
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		apiKey := strings.TrimSpace(string(keyBytes))

		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		fmt.Print("Checking the key... ")
		if err := validateAPIKey(cfg, apiKey, logger); err != nil {
			fmt.Printf("✗ %v\n", err)
			fmt.Println("Please check the key and try again.")
			fmt.Println()
			continue
		}
		fmt.Println("✓ OK")

		cfg.TMDB.APIKey = apiKey
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start the application.")

	return nil
}

// validateAPIKey issues a cheap authenticated request against the catalog
func validateAPIKey(cfg *config.Config, apiKey string, logger *slog.Logger) error {
	client := tmdb.NewClient(cfg.TMDB.BaseURL, apiKey, tmdb.Options{
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Language:     cfg.TMDB.Language,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := client.TrendingMovies(ctx, 1)
	return err
}
