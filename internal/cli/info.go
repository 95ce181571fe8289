package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"websql/internal/config"
	"websql/internal/plugin"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "websql %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
	},
}

var logpathCmd = &cobra.Command{
	Use:   "logpath",
	Short: "Print where the debug log is written",
	Long: `Print the path of the append-only debug log.

The log lives in the home directory (USERPROFILE on Windows, HOME elsewhere)
and falls back to the current directory when neither is set.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.ResolveLogPath(os.LookupEnv, runtime.GOOS))
	},
}

// Plugins flags
var pluginsVariant string

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugins compiled into a build variant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := ParseVariant(pluginsVariant)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		caps := set.Capabilities()
		if len(caps) == 0 {
			fmt.Fprintln(out, "none")
			return nil
		}
		for _, c := range caps {
			fmt.Fprintln(out, c)
		}
		return nil
	},
}

// ParseVariant maps a variant name to its plugin set.
func ParseVariant(name string) (plugin.Set, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bare":
		return plugin.VariantBare, nil
	case "updater":
		return plugin.VariantUpdater, nil
	case "full", "":
		return plugin.VariantFull, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want bare, updater or full)", name)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(logpathCmd)
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().StringVar(&pluginsVariant, "variant", "full", "Build variant: bare, updater or full")
}
