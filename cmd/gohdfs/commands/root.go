// Package commands implements the gohdfs CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globalFlags holds the persistent flag values synced on every invocation.
var globalFlags struct {
	ConfigPath  string
	Nameservice string
	Output      string
	NoColor     bool
	Verbose     bool
}

var rootCmd = &cobra.Command{
	Use:   "gohdfs",
	Short: "A native client for the HDFS name-node RPC protocol",
	Long: `gohdfs talks directly to an HDFS name-node over its ClientProtocol
RPC wire format, without a JVM or native libhdfs dependency.

Use "gohdfs [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		globalFlags.ConfigPath, _ = cmd.Flags().GetString("config")
		globalFlags.Nameservice, _ = cmd.Flags().GetString("nameservice")
		globalFlags.Output, _ = cmd.Flags().GetString("output")
		globalFlags.NoColor, _ = cmd.Flags().GetBool("no-color")
		globalFlags.Verbose, _ = cmd.Flags().GetBool("verbose")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command, for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (defaults to $XDG_CONFIG_HOME/gohdfs/config.yaml)")
	rootCmd.PersistentFlags().String("nameservice", "", "Nameservice to operate against (defaults to the config's only entry, or default_fs's authority)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format (table|json|yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(dfCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveMetricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}
