package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/importer"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/output"
	"github.com/shamilbi/bookmarks-curses/internal/sentry"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
	"github.com/shamilbi/bookmarks-curses/internal/tui"
)

var (
	version = "0.2.0"
	commit  = "release"
	date    = "2026-08-25"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if sentry.IsEnabled() {
				sentry.CaptureError(fmt.Errorf("panic: %v", r), "main", "panic_recovery")
				sentry.Flush(2 * time.Second)
			}
			fmt.Fprintf(os.Stderr, "bookmarks-curses encountered a fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	configPath := ""
	for i, arg := range os.Args[1:] {
		if arg == "--config" && i+2 < len(os.Args) {
			configPath = os.Args[i+2]
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Override data directory if BC_DATA_DIR is set. Used for tests,
	// containers, and keeping several bookmark files apart.
	if dataDir := os.Getenv("BC_DATA_DIR"); dataDir != "" {
		if !filepath.IsAbs(dataDir) {
			fmt.Fprintf(os.Stderr, "BC_DATA_DIR must be an absolute path, got: %s\n", dataDir)
			os.Exit(1)
		}
		if filepath.Clean(dataDir) != dataDir {
			fmt.Fprintf(os.Stderr, "BC_DATA_DIR contains invalid path components: %s\n", dataDir)
			os.Exit(1)
		}

		cfg.DataDir = dataDir
		cfg.ConfigDir = dataDir
		cfg.Database.Path = filepath.Join(dataDir, "bookmarks.db")

		if err := os.MkdirAll(dataDir, 0700); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create data directory %s: %v\n", dataDir, err)
			os.Exit(1)
		}
	}

	if err := sentry.Initialize(cfg, version, commit, date); err != nil {
		// Monitoring is optional, never fatal
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error monitoring: %v\n", err)
	}
	defer func() {
		if sentry.IsEnabled() {
			sentry.Flush(2 * time.Second)
			sentry.Close()
		}
	}()

	// Errors only by default so the interface stays clean
	loggerConfig := &logger.Config{
		Level:     "error",
		Output:    "stderr",
		Color:     true,
		Timestamp: true,
	}
	if err := logger.Init(loggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	attachSentryHook()

	rootCmd := &cobra.Command{
		Use:   "bookmarks-curses",
		Short: "A terminal bookmark manager",
		Long: `bookmarks-curses is a personal bookmark manager with a terminal
interface backed by a single SQLite file.

Bookmarks are listed, sorted, searched, and edited through keyboard
shortcuts; record editing round-trips through your $EDITOR. Diigo and
Chrome HTML exports can be imported.

Run without arguments to open the interface.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				loggerConfig.Level = "debug"
				if err := logger.Init(loggerConfig); err != nil {
					return err
				}
				attachSentryHook()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create data directories: %w", err)
			}
			return tui.Launch(cfg, nil)
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.config/bookmarks-curses/config.toml)")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(importCmd(cfg))
	rootCmd.AddCommand(vacuumCmd(cfg))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// attachSentryHook forwards error-level log events to Sentry when
// monitoring is active
func attachSentryHook() {
	if client := sentry.Get(); client != nil && client.IsEnabled() {
		logger.AttachHook(sentry.NewZerologHook(client, zerolog.ErrorLevel))
	}
}

// newFormatter builds the CLI output formatter from config and flags
func newFormatter(cmd *cobra.Command, cfg *config.Config) *output.Formatter {
	formatter := output.NewFormatter(cfg)
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatter.SetFlags(verbose, false, noColor)
	return formatter
}

// openStore opens the database and returns the bookmark store
func openStore(cfg *config.Config) (*storage.Database, *storage.Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directories: %w", err)
	}

	db, err := storage.NewDatabase(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	return db, storage.NewStore(db), nil
}

// importCmd imports an HTML bookmark export from the command line
func importCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import a Diigo/Chrome HTML bookmark export",
		Long: `Import bookmarks from a Netscape-format HTML export, the file layout
produced by Diigo and Chrome. Every anchor becomes one record; imports
always append and never overwrite existing bookmarks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, cfg)

			db, store, err := openStore(cfg)
			if err != nil {
				formatter.Error("Failed to open database: %v", err)
				return err
			}
			defer db.Close()

			im := importer.New(store, cfg)
			result, err := im.ImportFile(args[0])
			if err != nil {
				formatter.Error("Import failed: %v", err)
				sentry.CaptureError(err, "import", "import_file")
				return err
			}

			formatter.Success("Imported %d bookmarks", result.Added)
			if result.Skipped > 0 {
				formatter.Warning("Skipped %d anchors without a URL", result.Skipped)
			}

			count, err := store.Count(false)
			if err == nil {
				formatter.Info("Database now holds %d bookmarks", count)
			}
			return nil
		},
	}
}

// vacuumCmd runs database maintenance
func vacuumCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "vacuum",
		Short: "Compact the bookmark database",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, cfg)

			db, _, err := openStore(cfg)
			if err != nil {
				formatter.Error("Failed to open database: %v", err)
				return err
			}
			defer db.Close()

			before, _ := db.GetSize()

			if err := db.CheckIntegrity(); err != nil {
				formatter.Error("Integrity check failed: %v", err)
				return err
			}

			if err := db.Vacuum(); err != nil {
				formatter.Error("Vacuum failed: %v", err)
				return err
			}

			after, _ := db.GetSize()
			formatter.Done("Database compacted: %d -> %d bytes", before, after)
			return nil
		},
	}
}

// versionCmd prints version and build information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bookmarks-curses %s\n", version)
			fmt.Printf("  commit:  %s\n", commit)
			fmt.Printf("  built:   %s\n", date)
			fmt.Printf("  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
