package main

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/srtcast/srtcast/cmd"
	"github.com/srtcast/srtcast/internal/api"
	"github.com/srtcast/srtcast/internal/config"
	"github.com/srtcast/srtcast/internal/events"
	"github.com/srtcast/srtcast/internal/logging"
	"github.com/srtcast/srtcast/internal/metrics/exporters"
	"github.com/srtcast/srtcast/internal/session"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"srtcast.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Presets settings
	PresetsFile string `help:"Session preset definitions file" default:"presets.toml" toml:"presets.config_file" env:"PRESETS_CONFIG_FILE"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingSession string `help:"Session logging level" default:"info" toml:"logging.session" env:"LOGGING_SESSION"`
	LoggingGst     string `help:"Pipeline logging level" default:"info" toml:"logging.gst" env:"LOGGING_GST"`
	LoggingProcess string `help:"Process supervision logging level" default:"info" toml:"logging.process" env:"LOGGING_PROCESS"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	// Create Huma CLI
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		loggingConfig := logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"session": opts.LoggingSession,
				"gst":     opts.LoggingGst,
				"process": opts.LoggingProcess,
				"api":     opts.LoggingAPI,
			},
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		// Create event bus for in-process event handling
		eventBus := events.New()

		// Bridge log entries onto the event bus so the SSE endpoint
		// and metrics recorder see them as they happen.
		var logSeq atomic.Uint64
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        logSeq.Add(1),
				Timestamp:  entry.Timestamp.UTC().Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Count pipeline builds and session restarts published on the bus
		recorder := exporters.NewBusRecorder(eventBus)

		// Load saved session presets
		presets := config.NewPresetManager(opts.PresetsFile)
		if loadErr := presets.Load(); loadErr != nil {
			logger.Warn("Failed to load presets", "error", loadErr)
		}

		configPath := opts.Config
		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Resolver:     session.DefaultResolver(),
			Defaults: func() session.Defaults {
				d, err := config.LoadDefaults(configPath)
				if err != nil {
					logger.Warn("Failed to load stream defaults", "error", err)
					return session.BuiltinDefaults()
				}
				return d
			},
			EventBus:          eventBus,
			Presets:           presets,
			PrometheusHandler: exporters.HTTPHandler(),
		}

		server := api.NewServer(apiOpts)

		hooks.OnStart(func() {
			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
			recorder.Stop()
		})
	})

	// Add subcommands
	cli.Root().Use = "srtcast"
	cli.Root().Short = "Screen sharing over SRT"
	cli.Root().AddCommand(cmd.CreateRunCmd())
	cli.Root().AddCommand(cmd.CreateDisplaysCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())

	cli.Run()
}
