// Package sqlrewrite turns a client query written against the placeholder
// table name into one that reads the uploaded CSV file directly.
//
// The rewrite is textual. It does not parse SQL, so the placeholder is also
// replaced inside string literals and comments. The rest of the query is
// client-controlled and handed to the engine as-is: anyone who can reach the
// query endpoint has the same power as a direct DuckDB session, including
// read_csv/read_text on other server paths. Deployments must treat it that way.
//
// Word boundaries follow RE2, where only ASCII letters, digits and '_' are
// word characters. "éTableName" therefore counts as a separate placeholder
// after the "é" and is rewritten.
package sqlrewrite

import (
	"regexp"
	"strings"
)

// Placeholder is the table name clients use for their own upload.
const Placeholder = "tablename"

var placeholderRE = regexp.MustCompile(`(?i)\b` + Placeholder + `\b`)

// TableReference returns the DuckDB table function reading the CSV at path
// with automatic dialect and schema detection. Single quotes in path are
// doubled so the literal stays well formed.
func TableReference(path string) string {
	return "read_csv_auto('" + strings.ReplaceAll(path, "'", "''") + "')"
}

// Rewrite replaces every case-insensitive whole-word occurrence of
// Placeholder in query with TableReference(path).
func Rewrite(query, path string) string {
	ref := TableReference(path)
	// ReplaceAllLiteralString keeps "$" in paths from being read as group refs.
	return placeholderRE.ReplaceAllLiteralString(query, ref)
}

// References reports whether query mentions the placeholder at all.
func References(query string) bool {
	return placeholderRE.MatchString(query)
}
