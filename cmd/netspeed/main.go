// cmd/netspeed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rusenback/netspeed/internal/config"
	"github.com/rusenback/netspeed/internal/counters"
	"github.com/rusenback/netspeed/internal/logger"
	"github.com/rusenback/netspeed/internal/metrics"
	"github.com/rusenback/netspeed/internal/sampler"
	"github.com/rusenback/netspeed/internal/service"
	"github.com/rusenback/netspeed/internal/settings"
	"github.com/rusenback/netspeed/internal/storage"
	"github.com/rusenback/netspeed/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config file")
	flag.Parse()

	// NETSPEED_* overrides may also come from a .env file
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Init(cfg.Logging)
	if err != nil {
		fmt.Printf("❌ Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if envErr != nil {
		log.Debug().Msg("no .env file found, relying on system environment variables")
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("netspeed exited with error")
		logCloser.Close()
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create storage
	store, err := storage.NewStorage(storage.Options{
		Dir:       cfg.Storage.Dir,
		Retention: cfg.Retention(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	prefs, err := settings.NewStore(store)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Create counter source
	reader, err := counters.Open(ctx, counters.Options{
		Kind:            cfg.Source.Kind,
		Interfaces:      cfg.Source.Interfaces,
		IncludeLoopback: cfg.Source.IncludeLoopback,
		Container:       cfg.Source.Container,
		Docker: counters.DockerConfig{
			Host:      cfg.Docker.Host,
			TLSVerify: cfg.Docker.TLSVerify,
			CertPath:  cfg.Docker.CertPath,
			Timeout:   cfg.DockerTimeout(),
		},
	})
	if err != nil {
		if cfg.Source.Kind == counters.KindContainer {
			fmt.Println("\nMake sure Docker is running:")
			fmt.Println("  sudo systemctl start docker")
			fmt.Println("  sudo usermod -aG docker $USER")
		}
		return fmt.Errorf("failed to open %s counters: %w", cfg.Source.Kind, err)
	}
	defer reader.Close()

	var svc *service.Service
	monitor := sampler.NewMonitor(reader,
		sampler.WithInterval(cfg.Interval()),
		sampler.WithErrorListener(func(err error) { svc.ReportError(err) }),
	)

	opts := service.Options{History: store}
	if cfg.Metrics.Enabled {
		exporter := metrics.NewExporter(reader.Name())
		if err := exporter.Serve(cfg.Metrics.Listen); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := exporter.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("metrics server shutdown")
			}
		}()
		opts.Observer = exporter
	}

	svc = service.New(monitor, prefs, opts)
	svc.Start(ctx)
	defer svc.Stop()

	log.Info().
		Str("source", reader.Name()).
		Str("session", store.SessionID()).
		Dur("interval", monitor.Interval()).
		Msg("netspeed started")

	// Create TUI model
	m := tui.NewModel(tui.Options{
		Source:   reader.Name(),
		Store:    prefs,
		History:  store,
		Rates:    svc.Rates(),
		Errors:   svc.Errors(),
		Interval: monitor.Interval(),
	})

	// Start TUI
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
