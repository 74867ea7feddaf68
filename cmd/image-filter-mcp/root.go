package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/config"
	"github.com/ironsheep/image-filter-mcp/internal/logging"
	"github.com/ironsheep/image-filter-mcp/internal/report"
	"github.com/ironsheep/image-filter-mcp/internal/server"
)

// app carries what every subcommand shares once the root command has
// read the environment.
type app struct {
	cfg  config.Config
	log  *zap.Logger
	sink report.Once
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "image-filter-mcp",
		Short: "MCP server for bordered image filtering",
		Long: `image-filter-mcp exposes border padding, convolution, blurring, median
filtering, distance transforms and edge detection as MCP tools.

Run without a subcommand it speaks JSON-RPC on stdin/stdout; configure it in
your MCP client. The convolve and distance subcommands run a single filter
on a file.

Environment variables:
  IMAGE_MCP_LOG_LEVEL   debug, info, warn or error (default warn)
  IMAGE_MCP_MODE        production (JSON logs) or development
  IMAGE_MCP_LOG_FILE    also write logs to this rotated file
  IMAGE_MCP_WORKERS     goroutines per convolution (default GOMAXPROCS)
  IMAGE_MCP_CACHE_SIZE  decoded images kept in memory (default 32)`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.SetVersionTemplate(versionText())

	root.AddCommand(newVersionCmd(), newConvolveCmd(a), newDistanceCmd(a))
	return root
}

// setup loads the configuration, builds the logger and points the
// process-wide report sink at it.
func (a *app) setup(logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.NewWithWriter(cfg, logOut)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", config.EnvLogLevel, err)
	}
	if err := a.sink.Set(report.Zap(logger)); err != nil {
		return err
	}
	a.cfg, a.log = cfg, logger
	a.log.Debug("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))
	return nil
}

func (a *app) serve(in io.Reader, out io.Writer) error {
	srv := server.New(
		server.WithConfig(a.cfg),
		server.WithLogger(a.log),
		server.WithReporter(&a.sink),
	)
	if err := srv.Serve(in, out); err != nil {
		a.log.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

func versionText() string {
	return fmt.Sprintf("%s %s\n  Build time: %s\n  Git commit: %s\n", server.Name, Version, BuildTime, GitCommit)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		PersistentPostRun: func(*cobra.Command, []string) {},

		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionText())
		},
	}
}

// parsePolicy turns the --border and --border-value flags into a policy.
func parsePolicy(name string, value float64) (border.Policy, error) {
	kind, err := border.ParseKind(name)
	if err != nil {
		return border.Policy{}, err
	}
	return border.Policy{Kind: kind, Value: value}, nil
}
