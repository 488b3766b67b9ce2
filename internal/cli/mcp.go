package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/internal/mcpserver"
	"github.com/yaklabco/tagtok/pkg/config"
)

func newMCPCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tokenizer to MCP clients over stdio",
		Long: `Run a Model Context Protocol server on standard input and output.

The server exposes two tools: tokenize_text, for inline content, and
tokenize_file, for files under the current directory. Both use the
configuration tagtok would load for the tokenize command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			// stdout carries the protocol; logs go to stderr.
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logger.SetLevel(logging.ParseLevel("debug"))
			}
			ctx = logging.WithLogger(ctx, logger)

			workDir, err := os.Getwd()
			if err != nil {
				return &ExitError{Code: ExitIOError, Err: fmt.Errorf("get working directory: %w", err)}
			}

			cfg, err := loadConfig(ctx, cmd, workDir, &config.Config{})
			if err != nil {
				return err
			}

			handlers, err := mcpserver.NewHandlers(cfg, workDir, logger)
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}

			logger.Info("serving MCP over stdio", logging.FieldVersion, info.Version)
			if err := mcpserver.Serve(ctx, mcpserver.NewServer(handlers, info.Version)); err != nil {
				return &ExitError{Code: ExitIOError, Err: err}
			}
			return nil
		},
	}
}
