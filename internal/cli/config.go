package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtok/internal/configloader"
	"github.com/yaklabco/tagtok/internal/ui/pretty"
	"github.com/yaklabco/tagtok/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect tagtok configuration",
		Long: `Inspect how tagtok resolves its configuration.

Settings are layered, lowest precedence first: defaults, the system file,
the user file, the project ` + config.ProjectFileName + `, --config, TAGTOK_*
environment variables and command-line flags.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigEnvCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)

			workDir, err := os.Getwd()
			if err != nil {
				return &ExitError{Code: ExitIOError, Err: fmt.Errorf("get working directory: %w", err)}
			}
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("get config flag: %w", err)
			}

			loaded, err := configloader.Load(ctx, configloader.LoadOptions{
				WorkingDir:   workDir,
				ExplicitPath: configPath,
			})
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load configuration: %w", err)}
			}

			out, err := loaded.Config.ToYAMLWithHeader(showHeader(loaded.LoadedFrom))
			if err != nil {
				return &ExitError{Code: ExitInternalError, Err: err}
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func showHeader(loadedFrom []string) string {
	if len(loadedFrom) == 0 {
		return "# Effective configuration (defaults only)"
	}
	var b strings.Builder
	b.WriteString("# Effective configuration, merged from:\n")
	for _, path := range loadedFrom {
		b.WriteString("#   " + path + "\n")
	}
	return b.String()
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			width := 0
			for _, v := range vars {
				width = max(width, len(v.Name))
			}

			styles := pretty.NewStyles(colorEnabled(cmd))
			out := cmd.OutOrStdout()
			for _, v := range vars {
				name := v.Name + strings.Repeat(" ", width-len(v.Name))
				fmt.Fprintf(out, "%s  %s\n", styles.Term.Render(name), v.Description)
			}
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show which configuration files would be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workDir, err := os.Getwd()
			if err != nil {
				return &ExitError{Code: ExitIOError, Err: fmt.Errorf("get working directory: %w", err)}
			}

			paths, err := configloader.DiscoverPaths(commandContext(cmd), workDir)
			if err != nil {
				return &ExitError{Code: ExitConfigError, Err: err}
			}
			if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
				paths.Explicit = explicit
			}

			styles := pretty.NewStyles(colorEnabled(cmd))
			out := cmd.OutOrStdout()
			for _, layer := range []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", paths.Explicit},
			} {
				value := styles.Dim.Render("(none)")
				if layer.path != "" {
					value = styles.FilePath.Render(layer.path)
				}
				fmt.Fprintf(out, "%-9s %s\n", layer.name+":", value)
			}
			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func colorEnabled(cmd *cobra.Command) bool {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = pretty.ColorAuto
	}
	return pretty.IsColorEnabled(mode, cmd.OutOrStdout())
}
