package cli

import (
	"fmt"
	"strings"

	"websql/internal/config"
	"websql/internal/log"
	"websql/internal/plugin/updater"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for or install a newer release",
	Long: `Check the release manifest for a newer version, or download, verify and
install it in place of the running binary.

The manifest URL comes from the build, WEBSQL_UPDATE_ENDPOINT, or --endpoint.

Examples:
  # Report whether a newer release exists
  websql update check

  # Install it without progress output
  websql update install -q`,
}

var updateCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether a newer release is available",
	Args:  cobra.NoArgs,
	RunE:  runUpdateCheck,
}

var updateInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download, verify and install the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdateInstall,
}

// Update flags
var (
	updEndpoint string
	updQuiet    bool
)

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.AddCommand(updateCheckCmd)
	updateCmd.AddCommand(updateInstallCmd)

	updateCmd.PersistentFlags().StringVar(&updEndpoint, "endpoint", "", "Release manifest URL (overrides the configured endpoint)")
	updateInstallCmd.Flags().BoolVarP(&updQuiet, "quiet", "q", false, "Suppress progress output")
}

// newUpdater is replaced in tests.
var newUpdater = func() (*updater.Updater, error) {
	cfg := config.FromEnvironment(Version)
	if updEndpoint != "" {
		cfg.Update.Endpoint = updEndpoint
	}
	return updater.New(updater.Options{
		Endpoint:  cfg.Update.Endpoint,
		Current:   Version,
		PublicKey: cfg.Update.PublicKey,
		Logger:    log.GetLogger(),
	})
}

func runUpdateCheck(cmd *cobra.Command, args []string) error {
	u, err := newUpdater()
	if err != nil {
		return err
	}
	up, err := u.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}

	out := cmd.OutOrStdout()
	if up == nil {
		fmt.Fprintf(out, "websql %s is up to date\n", u.Current())
		return nil
	}
	fmt.Fprintf(out, "websql %s is available (current %s)\n", up.Version, up.Current)
	if notes := strings.TrimSpace(up.Notes); notes != "" {
		fmt.Fprintln(out, notes)
	}
	return nil
}

func runUpdateInstall(cmd *cobra.Command, args []string) error {
	u, err := newUpdater()
	if err != nil {
		return err
	}
	up, err := u.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("update check: %w", err)
	}

	out := cmd.OutOrStdout()
	if up == nil {
		fmt.Fprintf(out, "websql %s is up to date\n", u.Current())
		return nil
	}

	r := NewReporter(cmd.ErrOrStderr(), updQuiet)
	stop := r.CancelOn(cmd.Context())
	path, err := u.Install(cmd.Context(), up, r)
	stop()
	r.Finish()
	if err != nil {
		return fmt.Errorf("install %s: %w", up.Version, err)
	}
	fmt.Fprintf(out, "Installed websql %s to %s. Restart the application to use it.\n", up.Version, path)
	return nil
}
