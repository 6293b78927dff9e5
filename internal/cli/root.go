// Package cli defines the cobra commands of the csvsql command line tool.
// The commands run the same introspection and query path as the server
// against a local file, without sessions.
package cli

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/csvsql/internal/engine"
	"github.com/JonMunkholm/csvsql/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "dev" // set via ldflags at build time

	logLevel    string
	memoryLimit string
	threads     int
)

var rootCmd = &cobra.Command{
	Use:   "csvsql",
	Short: "Run SQL against CSV files",
	Long: `csvsql runs DuckDB SQL against a CSV file. Refer to the file as
"tablename" in queries; every whole-word occurrence is replaced by a
read_csv_auto reference to the file.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, "text")
	},
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for testing.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func newEngine() *engine.Engine {
	return engine.New(engine.Options{MemoryLimit: memoryLimit, Threads: threads})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&memoryLimit, "memory-limit", "", "DuckDB memory limit, e.g. 2GB")
	rootCmd.PersistentFlags().IntVar(&threads, "threads", 0, "DuckDB worker threads (0 keeps the engine default)")
}
