package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/sellsyctl/filter"
	"github.com/s0up4200/sellsyctl/sellsy"
)

var (
	paramsJSON  string
	paramsFile  string
	filterExpr  string
	showRequest bool

	filters = filter.NewCompiler()
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <Module.method>",
	Short: "Perform a single API call",
	Long: `Perform any Sellsy API call and print its payload as JSON.

Parameters are given as a JSON document, inline or from a file. List results
can be narrowed with a filter expression evaluated against every row, e.g.

  sellsyctl call Client.getList --params '{"pagination":{"nbperpage":100}}' \
    --filter 'contains(name, "acme") and daysSince(parseDate(joindate)) < 30'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVarP(&paramsJSON, "params", "p", "", "call parameters as JSON")
	callCmd.Flags().StringVar(&paramsFile, "params-file", "", "read call parameters from a JSON file")
	callCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to list rows")
	callCmd.Flags().BoolVar(&showRequest, "show-request", false, "print the request body sent")
	callCmd.MarkFlagsMutuallyExclusive("params", "params-file")
}

func runCall(cmd *cobra.Command, args []string) error {
	module, action, err := sellsy.SplitMethod(args[0])
	if err != nil {
		return err
	}

	params, err := loadParams(paramsJSON, paramsFile)
	if err != nil {
		return err
	}

	// Compile before calling so a bad expression costs no request
	var f *filter.Filter
	if filterExpr != "" {
		f, err = filters.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	out := cmd.OutOrStdout()
	resp, err := client.Collection(module).Call(ctx, action, params)
	if showRequest {
		printRequest(cmd.ErrOrStderr(), client.LastRequest())
	}
	if err != nil {
		return describeCallError(err)
	}

	if f == nil {
		return writeJSON(out, resp.Payload())
	}

	rows, err := filter.Rows(resp.Payload())
	if err != nil {
		return err
	}
	matches, err := f.Apply(rows)
	if err != nil {
		logger.Warn().Err(err).Msg("Some rows could not be evaluated")
	}
	logger.Info().
		Int("rows", len(rows)).
		Int("matches", len(matches)).
		Str("filter", f.Expression()).
		Msg("Filtered result")

	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return writeJSON(out, data)
}

// loadParams decodes call parameters from inline JSON or a file. No
// parameters yields nil, which is sent as an empty list.
func loadParams(inline, path string) (any, error) {
	data := []byte(inline)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var params any
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("invalid params JSON: %w", err)
	}
	return params, nil
}

// describeCallError adds the API error code or OAuth problem to err
func describeCallError(err error) error {
	var apiErr *sellsy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API error %s: %s", apiErr.Code, apiErr.Message)
	}

	var failure *sellsy.RequestFailure
	if errors.As(err, &failure) {
		if problem := failure.OAuthProblem(); problem != "" {
			return fmt.Errorf("authentication rejected (%s): check the OAuth credentials", problem)
		}
	}
	return err
}

func printRequest(w io.Writer, body *sellsy.RequestBody) {
	if body == nil {
		return
	}
	fmt.Fprintf(w, "request=%d io_mode=%s\n", body.Request, body.IOMode)
	fmt.Fprintf(w, "do_in=%s\n", body.DoIn)
}

// writeJSON pretty prints a JSON document
func writeJSON(w io.Writer, data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
