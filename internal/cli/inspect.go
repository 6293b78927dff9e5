package cli

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/JonMunkholm/csvsql/internal/core"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show the columns and row count of a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	schema, err := newEngine().Introspect(cmd.Context(), path)
	if err != nil {
		return core.IngestError(err)
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE")
	for i, col := range schema.Columns {
		typ := ""
		if i < len(schema.ColumnTypes) {
			typ = schema.ColumnTypes[i]
		}
		fmt.Fprintf(tw, "%s\t%s\n", col, typ)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d rows\n", schema.RowCount)
	return nil
}
