package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tagtok/internal/configloader"
	"github.com/yaklabco/tagtok/internal/logging"
	"github.com/yaklabco/tagtok/pkg/config"
	"github.com/yaklabco/tagtok/pkg/fsutil"
	"github.com/yaklabco/tagtok/pkg/reporter"
	"github.com/yaklabco/tagtok/pkg/runner"
	"github.com/yaklabco/tagtok/pkg/source"
)

type tokenizeFlags struct {
	fields          []string
	ignoreTags      []string
	noSplitTags     []string
	entities        string
	lowercase       bool
	foldAccents     bool
	keepApostrophes bool
	stemmer         string
	stemLanguage    string
	noPool          bool

	ignore         []string
	include        []string
	extensions     []string
	followSymlinks bool
	jobs           int

	stdin       bool
	stdinFormat string
	stdinName   string

	format      string
	output      string
	strict      bool
	spans       bool
	perFile     bool
	compact     bool
	includeText bool
	noSummary   bool
}

func newTokenizeCommand() *cobra.Command {
	flags := &tokenizeFlags{}

	cmd := &cobra.Command{
		Use:     "tokenize [paths...]",
		Aliases: []string{"tok"},
		Short:   "Tokenize documents into terms and tags",
		Long: `Tokenize documents into normalized terms and whitelisted tags.

By default, every .html, .htm, .xml, .txt, .md and .markdown file under the
current directory is processed. Markdown is rendered to HTML first. Tags
named by --fields are kept in the output with the range of terms they
cover; everything else contributes terms only.`,
		Example: `  tagtok tokenize                           # Tokenize the current directory
  tagtok tokenize docs/ --fields title,h1   # Keep title and h1 tags
  tagtok tokenize page.html --format json   # JSON for indexing pipelines
  cat page.html | tagtok tokenize --stdin   # Read one document from stdin
  tagtok tokenize --stemmer porter2 --lowercase`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenize(cmd, args, flags)
		},
	}

	addTokenizeFlags(cmd, flags)

	return cmd
}

func addTokenizeFlags(cmd *cobra.Command, flags *tokenizeFlags) {
	f := cmd.Flags()

	f.StringSliceVar(&flags.fields, "fields", nil, "tag patterns to keep: regexp, glob:..., literal:...")
	f.StringSliceVar(&flags.ignoreTags, "ignore-tags", nil, "tags whose content is skipped (default script,style)")
	f.StringSliceVar(&flags.noSplitTags, "no-split-tags", nil, "tags whose content is kept as one term")
	f.StringVar(&flags.entities, "entities", "", "character reference table: basic, html5")
	f.BoolVar(&flags.lowercase, "lowercase", false, "lowercase terms")
	f.BoolVar(&flags.foldAccents, "fold-accents", false, "strip diacritics from terms")
	f.BoolVar(&flags.keepApostrophes, "keep-apostrophes", false, "keep apostrophes inside terms")
	f.StringVar(&flags.stemmer, "stemmer", "", "stem terms: none, snowball, porter2")
	f.StringVar(&flags.stemLanguage, "stem-language", "", "snowball language (default english)")
	f.BoolVar(&flags.noPool, "no-pool", false, "disable term interning")

	f.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to skip")
	f.StringSliceVar(&flags.include, "include", nil, "only process paths matching these globs")
	f.StringSliceVar(&flags.extensions, "ext", nil, "file extensions to process")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	f.IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	f.BoolVar(&flags.stdin, "stdin", false, "read a single document from standard input")
	f.StringVar(&flags.stdinFormat, "stdin-format", "", "format of stdin: html, xml, markdown, text (default: detect)")
	f.StringVar(&flags.stdinName, "stdin-name", "<stdin>", "document name used for stdin")

	f.StringVar(&flags.format, "format", "", "output format: text, table, json, yaml, summary")
	f.StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	f.BoolVar(&flags.strict, "strict", false, "exit non-zero when a document has no terms or tags")
	f.BoolVar(&flags.spans, "spans", false, "show byte spans next to terms (text format)")
	f.BoolVar(&flags.perFile, "per-file", false, "print a term table for each file (table format)")
	f.BoolVar(&flags.compact, "compact", false, "compact JSON output")
	f.BoolVar(&flags.includeText, "include-text", false, "include document text in JSON and YAML output")
	f.BoolVar(&flags.noSummary, "no-summary", false, "omit the summary line")
}

// cliConfig turns the flags the user actually set into a config overlay.
func cliConfig(cmd *cobra.Command, flags *tokenizeFlags) *config.Config {
	f := cmd.Flags()
	cfg := &config.Config{}

	if f.Changed("fields") {
		cfg.Fields = flags.fields
	}
	if f.Changed("ignore-tags") {
		cfg.IgnoreTags = flags.ignoreTags
	}
	if f.Changed("no-split-tags") {
		cfg.NoSplitTags = flags.noSplitTags
	}
	cfg.Entities = flags.entities
	if f.Changed("lowercase") {
		cfg.Normalize.Lowercase = config.Bool(flags.lowercase)
	}
	if f.Changed("fold-accents") {
		cfg.Normalize.FoldAccents = config.Bool(flags.foldAccents)
	}
	if f.Changed("keep-apostrophes") {
		cfg.Normalize.StripApostrophes = config.Bool(!flags.keepApostrophes)
	}
	cfg.Stemmer = flags.stemmer
	cfg.StemLanguage = flags.stemLanguage
	if f.Changed("no-pool") {
		cfg.Pool.Enabled = config.Bool(!flags.noPool)
	}
	if f.Changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if f.Changed("ext") {
		cfg.Extensions = flags.extensions
	}

	cfg.Format = config.OutputFormat(flags.format)
	cfg.Jobs = flags.jobs
	cfg.Output = flags.output
	cfg.Strict = flags.strict

	return cfg
}

func runTokenize(cmd *cobra.Command, args []string, flags *tokenizeFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	if flags.stdin && len(args) > 0 {
		return &ExitError{Code: ExitInvalidUsage, Err: errors.New("--stdin cannot be combined with paths")}
	}

	if flags.format != "" {
		parsed, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return &ExitError{Code: ExitInvalidUsage, Err: err}
		}
		flags.format = parsed.String()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("get working directory: %w", err)}
	}

	cfg, err := loadConfig(ctx, cmd, workDir, cliConfig(cmd, flags))
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return &ExitError{Code: ExitInvalidUsage, Err: err}
	}

	tok, err := runner.New(cfg)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	var result *runner.Result
	if flags.stdin {
		result, err = tokenizeStdin(ctx, tok, cmd.InOrStdin(), flags)
	} else {
		runOpts := runner.OptionsFromConfig(cfg, args)
		runOpts.WorkingDir = workDir
		runOpts.IncludeGlobs = flags.include
		runOpts.FollowSymlinks = flags.followSymlinks

		logger.Debug("starting tokenize run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldJobs, runOpts.Jobs,
			logging.FieldFields, cfg.Fields,
			logging.FieldStemmer, cfg.Stemmer,
		)
		result, err = tok.Run(ctx, runOpts)
		if err != nil {
			err = &ExitError{Code: ExitIOError, Err: err}
		}
	}
	if err != nil {
		return err
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	var out io.Writer = cmd.OutOrStdout()
	var buf bytes.Buffer
	if cfg.Output != "" {
		out = &buf
		colorMode = "never"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		Format:      format,
		Color:       colorMode,
		ShowSummary: !flags.noSummary,
		ShowSpans:   flags.spans,
		PerFile:     flags.perFile,
		Compact:     flags.compact,
		IncludeText: flags.includeText,
		WorkingDir:  workDir,
	})
	if err != nil {
		return &ExitError{Code: ExitInvalidUsage, Err: fmt.Errorf("create reporter: %w", err)}
	}

	if err := rep.Report(ctx, result); err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("report results: %w", err)}
	}

	if cfg.Output != "" {
		if err := fsutil.WriteAtomic(ctx, cfg.Output, buf.Bytes(), fsutil.DefaultFileMode); err != nil {
			return &ExitError{Code: ExitIOError, Err: fmt.Errorf("write report: %w", err)}
		}
		logger.Info("wrote report", logging.FieldOutput, cfg.Output, logging.FieldFormat, format)
	}

	switch ExitCodeFromResult(result, cfg.Strict) {
	case ExitFileErrors:
		return &ExitError{Code: ExitFileErrors, Err: ErrFilesFailed}
	case ExitEmptyDocuments:
		return &ExitError{Code: ExitEmptyDocuments, Err: ErrEmptyDocuments}
	default:
		return nil
	}
}

// tokenizeStdin reads one document from in. Read failures are fatal;
// a document that fails to tokenize is reported like a failed file.
func tokenizeStdin(
	ctx context.Context, tok *runner.Runner, in io.Reader, flags *tokenizeFlags,
) (*runner.Result, error) {
	var format source.Format
	if flags.stdinFormat != "" {
		f, ok := source.ParseFormat(flags.stdinFormat)
		if !ok {
			return nil, &ExitError{
				Code: ExitInvalidUsage,
				Err:  fmt.Errorf("unknown stdin format %q; must be one of: html, xml, markdown, text", flags.stdinFormat),
			}
		}
		format = f
	}

	doc, err := tok.Reader().ReadFrom(ctx, flags.stdinName, in, format)
	if err != nil {
		return nil, &ExitError{Code: ExitIOError, Err: err}
	}

	outcome := runner.FileOutcome{Path: flags.stdinName, Document: doc}
	if err := tok.Process(ctx, doc); err != nil {
		outcome.Document = nil
		outcome.Error = err
	}
	return runner.NewResult(outcome), nil
}

// loadConfig resolves the layered configuration with overlay on top.
func loadConfig(ctx context.Context, cmd *cobra.Command, workDir string, overlay *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    overlay,
	})
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: fmt.Errorf("load configuration: %w", err)}
	}

	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldConfig, loaded.LoadedFrom)
	}

	return loaded.Config, nil
}
