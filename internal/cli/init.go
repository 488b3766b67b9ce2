package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/fsutil"
)

// ErrConfigExists is returned when init would overwrite a file without --force.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a tagtok configuration file",
		Long: `Create a commented ` + config.ProjectFileName + ` in the current directory with the
default settings. Edit it to choose fields, ignored tags, normalization
and stemming for the project.`,
		Example: `  tagtok init                    # Create .tagtok.yml
  tagtok init --output ci.yml    # Write to a custom path
  tagtok init --force            # Overwrite an existing file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(commandContext(cmd), cmd.InOrStdin(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default "+config.ProjectFileName+")")

	return cmd
}

func runInit(ctx context.Context, in io.Reader, prompt io.Writer, flags *initFlags) error {
	logger := logging.Default()

	outputPath := flags.output
	if outputPath == "" {
		outputPath = config.ProjectFileName
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("resolve path: %w", err)}
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		if !confirmOverwrite(in, prompt, outputPath) {
			return &ExitError{
				Code: ExitInvalidUsage,
				Err:  fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, outputPath),
			}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	if err := fsutil.WriteAtomic(ctx, absPath, config.Template(), fsutil.DefaultFileMode); err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("write config: %w", err)}
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'tagtok config show' to see the effective settings")

	return nil
}

// confirmOverwrite asks on interactive terminals only; anything but y/yes declines.
func confirmOverwrite(in io.Reader, prompt io.Writer, path string) bool {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false
	}

	fmt.Fprintf(prompt, "%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
