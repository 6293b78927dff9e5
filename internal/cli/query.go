package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/JonMunkholm/csvsql/internal/core"
	"github.com/JonMunkholm/csvsql/internal/sqlrewrite"
	"github.com/spf13/cobra"
)

var outputFormat string

var queryCmd = &cobra.Command{
	Use:   "query FILE SQL",
	Short: "Run a SQL statement against a CSV file",
	Long: `Run a SQL statement against FILE. Use "tablename" where the file
should appear, for example:

  csvsql query sales.csv "SELECT region, SUM(amount) FROM tablename GROUP BY 1"`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "csv" {
		return fmt.Errorf("unknown format %q (want json or csv)", outputFormat)
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	rs, err := newEngine().Execute(cmd.Context(), sqlrewrite.Rewrite(args[1], path))
	if err != nil {
		return core.QueryError(err)
	}

	result := core.QueryResult{Columns: rs.Columns, Rows: rs.Rows, RowCount: len(rs.Rows)}
	if outputFormat == "csv" {
		return writeCSV(cmd.OutOrStdout(), result)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// writeCSV writes a header row and then every row; NULL becomes an empty field.
func writeCSV(w io.Writer, result core.QueryResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	record := make([]string, len(result.Columns))
	for _, row := range result.Rows {
		for i, v := range row {
			if v == nil {
				record[i] = ""
			} else {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
