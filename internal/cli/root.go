package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/incgraph/incgraph/pkg/buildinfo"
	"github.com/incgraph/incgraph/pkg/config"
)

// appName is the binary name, also used for cache and config paths.
const appName = "incgraph"

// Execute runs the incgraph CLI under ctx, so a SIGINT cancels running
// scans, renders, and servers.
//
// Logging:
//   - Default: info level (stderr)
//   - With --verbose (-v): debug level
//
// The logger and the loaded configuration travel in the command context,
// reachable from any command via loggerFromContext and configFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "incgraph maps #include relationships as a Graphviz graph",
		Long: `incgraph scans source directories for #include-style directives and renders
the resulting file-to-file or module-to-module dependency graph through
Graphviz. It understands no grammar: a directive is a single-line pattern
match, and the graph is a literal transcription of what the files say.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmdCtx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(cmdCtx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./incgraph.toml, then $XDG_CONFIG_HOME/incgraph/config.toml)")

	root.AddCommand(newGraphCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig resolves the configuration: an explicit path must exist, the
// default lookup tolerates absence.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// configKey is the context key for the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context carrying cfg.
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the configuration from ctx, or an empty one
// when command setup was bypassed (as in tests).
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}
