// cmd/meteofetch/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/julianshen/meteofetch/internal/config"
	"github.com/julianshen/meteofetch/internal/integrations"
	"github.com/julianshen/meteofetch/internal/output"
	"github.com/julianshen/meteofetch/internal/request"
	"github.com/julianshen/meteofetch/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	logger = newLogger(os.Stderr, false)
)

// newFetcher builds the transport for a run. Tests replace it to avoid the
// public API.
var newFetcher = func(timeout time.Duration, log zerolog.Logger) runner.Fetcher {
	return integrations.NewHTTPFetcher(timeout,
		integrations.WithUserAgent("meteofetch/"+version),
		integrations.WithLogger(log),
	)
}

type options struct {
	configPath      string
	datetime        string
	parameters      string
	location        string
	format          string
	output          string
	timeout         time.Duration
	maxResponseSize int
	verbose         bool
}

func versionString() string {
	return fmt.Sprintf("meteofetch %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		reportError(logger, err)
		os.Exit(runner.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "meteofetch",
		Short: "Fetch weather data from the Meteomatics API",
		Long: "meteofetch: query the Meteomatics API once and print the sanitized JSON response.\n\n" +
			"Credentials are read from METEOMATICS_USERNAME and METEOMATICS_PASSWORD.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd.Context(), opts, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file")
	flags.StringVar(&opts.datetime, "datetime", "", "ISO-8601 datetime or range segment")
	flags.StringVar(&opts.parameters, "parameters", "", "comma-separated parameter list (e.g. t_2m:C)")
	flags.StringVar(&opts.location, "location", "", "location segment (e.g. lat,lon)")
	flags.StringVar(&opts.format, "format", "", "response format segment requested from the API")
	flags.StringVar(&opts.output, "output", "", "output format: json, yaml")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default from config, 30s)")
	flags.IntVar(&opts.maxResponseSize, "max-response-size", 0, "maximum response body size in bytes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the request URL without sending it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			url, err := request.BuildURL(cfg.RequestConfig(request.Credentials{}), cfg.Limits.MaxURLLength)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	rootCmd.AddCommand(versionCmd, urlCmd)
	return rootCmd
}

// loadConfig resolves the config path, loads the config, and applies any
// flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfgPath := opts.configPath
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgPath = filepath.Join(home, ".config", "meteofetch", "config.toml")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.datetime != "" {
		cfg.Request.Datetime = opts.datetime
	}
	if opts.parameters != "" {
		cfg.Request.Parameters = opts.parameters
	}
	if opts.location != "" {
		cfg.Request.Location = opts.location
	}
	if opts.format != "" {
		cfg.Request.Format = opts.format
	}
	if opts.output != "" {
		cfg.Output.Format = opts.output
	}
	if opts.maxResponseSize > 0 {
		cfg.Limits.MaxResponseSize = opts.maxResponseSize
		cfg.Limits.InitialBufferSize = min(cfg.Limits.InitialBufferSize, opts.maxResponseSize)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runFetch performs one request and writes the sanitized response to stdout.
func runFetch(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}

	creds, err := config.ResolveCredentials(cfg.API)
	if err != nil {
		return err
	}

	timeout := cfg.Timeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	log := logger.With().Str("run_id", uuid.NewString()).Logger()
	ctx = log.WithContext(ctx)

	limits := runner.Limits{
		MaxURLLength:      cfg.Limits.MaxURLLength,
		InitialBufferSize: cfg.Limits.InitialBufferSize,
		MaxResponseSize:   cfg.Limits.MaxResponseSize,
	}
	r := runner.New(newFetcher(timeout, log), limits, log)

	result, err := r.Run(ctx, cfg.RequestConfig(creds))
	if err != nil {
		return err
	}

	out, err := formatter.Format(result.Document)
	if err != nil {
		return err
	}
	if _, err := stdout.Write(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Debug().
		Int("bytes", result.Bytes).
		Dur("duration", result.Duration).
		Msg("Request completed")
	return nil
}

// reportError logs a failed run with its pipeline stage and error kind.
func reportError(log zerolog.Logger, err error) {
	evt := log.Error().Err(err).Str("kind", runner.Kind(err))
	var stageErr *runner.StageError
	if errors.As(err, &stageErr) {
		evt = evt.Stringer("stage", stageErr.Stage).Str("source", stageErr.Source)
	}
	evt.Msg("meteofetch failed")
}
