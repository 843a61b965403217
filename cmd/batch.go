package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sellsyctl/batch"
	"github.com/s0up4200/sellsyctl/metrics"
	"github.com/s0up4200/sellsyctl/sellsy"
)

var (
	batchConcurrency int
	metricsOut       string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run a batch of API calls concurrently",
	Long: `Run every call listed in a YAML batch file with bounded concurrency.

  concurrency: 4
  calls:
    - name: account
      method: Infos.getInfos
    - name: clients
      method: Client.getList
      params:
        pagination: {nbperpage: 50, pagenum: 1}

Failed calls are reported but never stop the batch. The command exits with an
error when any call failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "maximum calls in flight (overrides file and config)")
	batchCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file, err := batch.Load(args[0])
	if err != nil {
		return err
	}

	// Priority: flag > file > config
	concurrency := cfg.Batch.Concurrency
	if file.Concurrency > 0 {
		concurrency = file.Concurrency
	}
	if cmd.Flags().Changed("concurrency") {
		concurrency = batchConcurrency
	}

	recorder := metrics.NewRecorder()

	newRequester, err := newClientFactory(sellsy.WithObserver(recorder))
	if err != nil {
		return err
	}
	factory := func() sellsy.Requester {
		return newRequester()
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	runner := batch.NewRunner(factory, concurrency, logger)
	logger.Info().
		Str("file", args[0]).
		Int("calls", len(file.Calls)).
		Int("concurrency", runner.Concurrency()).
		Msg("Running batch")

	results, summary := runner.Run(ctx, file.Calls)
	printResults(cmd.OutOrStdout(), results, summary)

	if metricsOut != "" {
		if err := recorder.WriteTextfile(metricsOut); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		logger.Info().Str("path", metricsOut).Msg("Metrics written")
	}

	if summary.Failed() {
		return fmt.Errorf("%d of %d calls failed", summary.APIErrors+summary.RequestFailures, summary.Total)
	}
	return nil
}

func printResults(w io.Writer, results []batch.Result, summary batch.Summary) {
	for _, res := range results {
		switch res.Outcome() {
		case sellsy.OutcomeSuccess:
			fmt.Fprintf(w, "✓ %s (%s) %s\n", res.Name, res.Method, res.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(w, "✗ %s (%s) %s: %v\n", res.Name, res.Method, res.Outcome(), describeCallError(res.Err))
		}
	}
	fmt.Fprintf(w, "\n%d calls: %d succeeded, %d API errors, %d request failures in %s\n",
		summary.Total, summary.Succeeded, summary.APIErrors, summary.RequestFailures, summary.Elapsed.Round(time.Millisecond))
}
