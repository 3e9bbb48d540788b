package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"glorp/internal/config"
	"glorp/internal/core"
	"glorp/internal/logging"
	"glorp/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool
	workspace  string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "glorp",
	Short: "Glorp - a chat assistant with nothing to say",
	Long: `Glorp answers every message with confident nonsense.

Keywords in your message shape the reply: ask for code and you get
pseudo-code, ask for a list and you get bullets, say thanks and Glorp gets
very excited. The words themselves never mean anything.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.glorp/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Glorp home directory for the database and logs (default: ~/.glorp)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and starts logging.
func setup() error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
		if workspace != "" {
			path = filepath.Join(workspace, "config.yaml")
		}
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if workspace != "" {
		loaded.Store.DatabasePath = filepath.Join(workspace, "glorp.db")
		loaded.Logging.Dir = filepath.Join(workspace, "logs")
	}
	if verbose {
		loaded.Logging.DebugMode = true
		loaded.Logging.Level = "debug"
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg = loaded

	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.BootWarn("No config at %s, using defaults", path)
	} else {
		logging.Boot("Config loaded from %s", path)
	}
	return nil
}

// newEngine builds an engine seeded from seed, or from config, or the clock.
func newEngine(seed int64) *core.Engine {
	if seed == 0 {
		seed = cfg.Engine.Seed
	}
	if seed == 0 {
		return core.New()
	}
	return core.New(core.WithSeed(seed))
}

func openStore(ctx context.Context) (store.ChatStore, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat store: %w", err)
	}
	return st, nil
}
