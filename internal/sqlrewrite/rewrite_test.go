package sqlrewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableReference_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `read_csv_auto('/tmp/abc_data.csv')`, TableReference("/tmp/abc_data.csv"))
	assert.Equal(t, `read_csv_auto('/tmp/o''brien''s.csv')`, TableReference("/tmp/o'brien's.csv"))
}

func TestRewrite(t *testing.T) {
	const path = "/data/s1_sales.csv"
	ref := TableReference(path)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "lower case",
			query: "select * from tablename",
			want:  "select * from " + ref,
		},
		{
			name:  "mixed case",
			query: "SELECT * FROM TableName",
			want:  "SELECT * FROM " + ref,
		},
		{
			name:  "every occurrence",
			query: "SELECT a FROM tablename WHERE b IN (SELECT b FROM TABLENAME)",
			want:  "SELECT a FROM " + ref + " WHERE b IN (SELECT b FROM " + ref + ")",
		},
		{
			name:  "longer identifier untouched",
			query: "SELECT * FROM tablenamefoo",
			want:  "SELECT * FROM tablenamefoo",
		},
		{
			name:  "prefixed identifier untouched",
			query: "SELECT * FROM my_tablename",
			want:  "SELECT * FROM my_tablename",
		},
		{
			name:  "non-ASCII letter is a word boundary",
			query: "SELECT * FROM éTableName",
			want:  "SELECT * FROM é" + ref,
		},
		{
			name:  "digit prefix is not a boundary",
			query: "SELECT * FROM 2tablename",
			want:  "SELECT * FROM 2tablename",
		},
		{
			name:  "qualified column",
			query: "SELECT tablename.a FROM tablename",
			want:  "SELECT " + ref + ".a FROM " + ref,
		},
		{
			name:  "inside string literal is rewritten too",
			query: "SELECT 'tablename' AS label FROM tablename",
			want:  "SELECT '" + ref + "' AS label FROM " + ref,
		},
		{
			name:  "inside comment is rewritten too",
			query: "SELECT 1 -- from tablename",
			want:  "SELECT 1 -- from " + ref,
		},
		{
			name:  "no placeholder",
			query: "SELECT 42",
			want:  "SELECT 42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.query, path))
		})
	}
}

func TestRewrite_DollarInPathIsLiteral(t *testing.T) {
	got := Rewrite("SELECT * FROM tablename", "/tmp/$1_price.csv")
	assert.Equal(t, "SELECT * FROM read_csv_auto('/tmp/$1_price.csv')", got)
}

func TestReferences(t *testing.T) {
	assert.True(t, References("select count(*) from TABLENAME"))
	assert.False(t, References("select count(*) from tablenames"))
}
