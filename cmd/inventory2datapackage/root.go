package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/code4sa/inventory2datapackage/config"
	"github.com/code4sa/inventory2datapackage/convert"
	"github.com/code4sa/inventory2datapackage/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command, which runs the conversion.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "inventory2datapackage",
		Short: "Convert an asset inventory into data packages",
		Long: `inventory2datapackage reads a Socrata asset inventory export and writes a
Frictionless data package for every public, published, non-derived dataset.

Each package describes the raw CSV export of the dataset (raw-csv/<UID>.csv)
and is saved as data-packages-json/<name>.json and data-packages-zip/<name>.zip.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE:          runConvert,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultConfigFile+")")
	pf.String("base-dir", "", "Directory the other paths are relative to (default: .)")
	pf.String("inventory", "", "Asset inventory CSV export (default: "+config.DefaultInventory+")")
	pf.String("raw-dir", "", "Directory of the raw <UID>.csv files, within the base directory (default: "+config.DefaultRawDir+")")
	pf.String("json-dir", "", "Output directory for JSON descriptors (default: "+config.DefaultJSONDir+")")
	pf.String("zip-dir", "", "Output directory for zip bundles (default: "+config.DefaultZipDir+")")
	pf.String("profiles-dir", "", "Directory with a registry.json of profiles overriding the built-in ones")
	pf.String("log-level", "", "Log level (debug|info|warn|error|off)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error", "off"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newVersionCommand(Version))
	return rootCmd
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg := getConfig(cmd.Context())
	logger := getLogger(cmd.Context())

	loaders, err := cfg.RegistryLoaders()
	if err != nil {
		return err
	}
	c, err := convert.NewConverter(cfg.BaseDir, cfg.RawDir, convert.Persister{
		JSONDir: cfg.JSONPath(),
		ZipDir:  cfg.ZipPath(),
	}, logger, loaders...)
	if err != nil {
		return err
	}
	sum, err := c.ConvertFile(cfg.InventoryPath())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d data packages (%d of %d assets selected)\n", sum.Written, sum.Selected, sum.Read)
	return nil
}

func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		BaseDir:   ".",
		Inventory: config.DefaultInventory,
		RawDir:    config.DefaultRawDir,
		JSONDir:   config.DefaultJSONDir,
		ZipDir:    config.DefaultZipDir,
		LogLevel:  config.DefaultLogLevel,
	}
}

func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
