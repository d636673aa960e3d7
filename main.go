// PropertyDesk - property listing manager
// A TUI and HTTP service for browsing, filtering and editing property records.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lazyvibe/propertydesk/internal/app"
	"github.com/lazyvibe/propertydesk/internal/gateway"
	"github.com/lazyvibe/propertydesk/internal/notify"
	"github.com/lazyvibe/propertydesk/internal/server"
	"github.com/lazyvibe/propertydesk/internal/store"
	"github.com/lazyvibe/propertydesk/internal/ui"
	"github.com/lazyvibe/propertydesk/pkg/utils"
)

const (
	appName    = "PropertyDesk"
	appVersion = "0.1.0"
)

var (
	// configDir is set by the --config-dir flag.
	configDir string

	v      *viper.Viper
	config *app.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "propertydesk",
	Short: "PropertyDesk manages property listings",
	Long: `PropertyDesk is a terminal panel for browsing, filtering and editing
property listings. The listing is kept in sync with the store while the
panel is open.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the property API over HTTP",
	RunE:  runServe,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load properties from a YAML fixture file",
	RunE:  runSeed,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s v%s\n", appName, appVersion)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/propertydesk)")
	flags.String(app.KeyBackend, "", "store backend: json, sqlite or remote")
	flags.String(app.KeyDataDir, "", "directory of the local store")
	flags.String(app.KeyRemoteURL, "", "server URL for the remote backend")
	flags.String(app.KeyLogLevel, "", "log level: debug, info, warn or error")

	serveCmd.Flags().String(app.KeyListenAddr, "", "address to listen on")
	seedCmd.Flags().StringP("file", "f", "", "fixture file to load")
	_ = seedCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges config.json, PROPERTYDESK_* variables and flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if configDir == "" {
		dir, err := utils.ConfigDir()
		if err != nil {
			return fmt.Errorf("config directory: %w", err)
		}
		configDir = dir
	}
	configDir = utils.ExpandPath(configDir)

	v = app.NewViper(configDir)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := app.LoadConfig(v)
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// bindFlags lets explicitly set flags override file and env settings.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{app.KeyBackend, app.KeyDataDir, app.KeyRemoteURL, app.KeyLogLevel, app.KeyListenAddr} {
		f := fs.Lookup(key)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", key, err)
		}
	}
	return nil
}

// openLocal opens the configured local store.
func openLocal() (store.PropertyStore, error) {
	if config.Backend == app.BackendRemote {
		return nil, fmt.Errorf("backend %q has no local store", app.BackendRemote)
	}
	return store.Open(config.Backend, config.StoreDir(configDir))
}

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := app.SetupFileLogging(configDir, config.LogLevel)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logFile.Close()

	var gw gateway.Gateway
	if config.Backend == app.BackendRemote {
		gw = gateway.NewHTTPGateway(config.RemoteURL)
	} else {
		s, err := openLocal()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()
		gw = gateway.NewLocal(s)
	}
	slog.Info("starting panel", "backend", config.Backend, "version", appVersion)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	application := ui.New(ui.Options{
		Gateway:      gw,
		Dispatcher:   notify.NewDispatcher(config.Notify()),
		PriceMax:     config.PriceMax,
		MinSearchLen: config.MinSearchLen,
		Context:      ctx,
	})

	p := tea.NewProgram(
		application,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := app.SetupStderrLogging(config.LogLevel); err != nil {
		return err
	}
	s, err := openLocal()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	srv := server.New(gateway.NewLocal(s), prometheus.NewRegistry())
	httpServer := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", config.ListenAddr, "backend", config.Backend)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := app.SetupStderrLogging(config.LogLevel); err != nil {
		return err
	}
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	s, err := openLocal()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	n, err := store.LoadFixtures(cmd.Context(), s, utils.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	fmt.Printf("Loaded %d properties into %s store\n", n, config.Backend)
	return nil
}
