package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repository = "s0up4200/sellsyctl"

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion sets the build information reported by the version command
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = v
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sellsyctl %s (built %s, %s/%s, %s)\n",
			version, buildTime, runtime.GOOS, runtime.GOARCH, runtime.Version())
	},
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update sellsyctl to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	RunE:        runUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := releaseVersion(version)
	if err != nil {
		return err
	}

	ctx := context.Background()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(cmd.OutOrStdout(), "sellsyctl %s is up to date\n", current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	logger.Info().Str("from", current.String()).Str("to", latest.Version()).Msg("Updating")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated to %s\n", latest.Version())
	return nil
}

// releaseVersion parses the running version. Development builds cannot be
// compared with releases and are refused.
func releaseVersion(v string) (semver.Version, error) {
	parsed, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("cannot update a development build (version %q)", v)
	}
	return parsed, nil
}
