package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/jera/internal/config"
	"github.com/existflow/jera/internal/logger"
	"github.com/existflow/jera/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel    string
	logFile     string
	logConsole  bool
	logFormat   string
	apiURL      string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "jera",
	Short: "Jera - project management from the terminal",
	Long: `Jera is a terminal client for a project-management server: projects,
sprints, tasks, users and administrators.

Run 'jera' without arguments to launch the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			loaded.LogConsole = logConsole
			configChanged = true
		}
		if cmd.Flags().Changed("log-format") {
			loaded.LogFormat = logFormat
			configChanged = true
		}
		if cmd.Flags().Changed("api-url") {
			loaded.APIURL = apiURL
			configChanged = true
		}
		if cmd.Flags().Changed("metrics-addr") {
			loaded.MetricsAddr = metricsAddr
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := loaded.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			Format:     logger.ParseFormat(cfg.LogFormat),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Jera started", logger.F("command", cmd.CommandPath()), logger.F("api_url", cfg.APIURL))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}

		if cfg.MetricsAddr != "" {
			stop := serveMetrics(cfg.MetricsAddr, a)
			defer stop()
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(tui.Deps{
			Client:   a.client,
			Session:  a.session,
			Data:     a.data,
			Settings: a.db,
			Confirm:  cfg.ConfirmDelete,
		})
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
}

// serveMetrics exposes request metrics while the dashboard runs.
func serveMetrics(addr string, a *app) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", logger.F("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logger.F("error", err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteContextC(context.Background())
	shutdown(cmd, err)
	return err
}

// shutdown releases storage and the log file. Cobra skips post-run hooks
// when a command fails, so this runs after every invocation instead.
func shutdown(cmd *cobra.Command, err error) {
	closeApp()
	path := rootCmd.Name()
	if cmd != nil {
		path = cmd.CommandPath()
	}
	if err != nil {
		logger.Error("Command failed", logger.F("command", path), logger.F("error", err))
	} else {
		logger.Info("Jera exiting", logger.F("command", path))
	}
	_ = logger.Close()
}

func init() {
	// Group hooks run after the root's, so protected groups can check the
	// session once config and logging are ready.
	cobra.EnableTraverseRunHooks = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log line format (text, json)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (saved to config)")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address while the dashboard runs")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(sprintCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(configCmd)
}
