package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sellsyctl/config"
	"github.com/s0up4200/sellsyctl/sellsy"
)

// skipConfig marks commands that run without loading the configuration
const skipConfig = "skip-config"

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sellsyctl",
	Short: "A command line client for the Sellsy API",
	Long: `sellsyctl calls the Sellsy API with OAuth 1.0 PLAINTEXT credentials.

It can fetch account information, perform any Module.method call with JSON
parameters, filter list results with expressions, and run batches of calls
concurrently.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	if _, ok := cmd.Annotations[skipConfig]; ok {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !colorEnabled(cfg.Color, os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// colorEnabled reports whether colored output should be written to fd
func colorEnabled(configured bool, fd uintptr) bool {
	if !configured {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newClient builds a Sellsy client from the loaded configuration
func newClient(opts ...sellsy.Option) (*sellsy.Client, error) {
	factory, err := newClientFactory(opts...)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

// newClientFactory returns a constructor for clients sharing one executor
// and one rate limiter, so the configured rate holds across all of them.
func newClientFactory(opts ...sellsy.Option) (func() *sellsy.Client, error) {
	base, err := clientOptions(cfg.API)
	if err != nil {
		return nil, err
	}
	base = append(base, opts...)

	creds := sellsy.NewCredentials(
		cfg.API.ConsumerKey,
		cfg.API.ConsumerSecret,
		cfg.API.AccessToken,
		cfg.API.AccessTokenSecret,
	)

	return func() *sellsy.Client {
		return sellsy.NewClient(cfg.API.URL, creds, logger, base...)
	}, nil
}

// clientOptions maps API settings to client options. The executor and
// limiter are built here once and shared by every client using the options.
func clientOptions(api config.APIConfig) ([]sellsy.Option, error) {
	policy, err := sellsy.ParseTLSPolicy(api.TLSPolicy)
	if err != nil {
		return nil, err
	}
	if policy == sellsy.TLSPolicyInsecure {
		logger.Warn().Msg("TLS peer verification is disabled for all Sellsy calls")
	}

	return []sellsy.Option{
		sellsy.WithTLSPolicy(policy),
		sellsy.WithExecutor(sellsy.NewHTTPExecutor(api.Timeout, api.UserAgent)),
		sellsy.WithLimiter(sellsy.NewRateLimiter(api.RateLimit, api.RateBurst)),
	}, nil
}

// signalContext is cancelled on interrupt or termination
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
