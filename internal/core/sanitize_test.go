package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data.csv", "data.csv"},
		{"My Sales Report.csv", "My_Sales_Report.csv"},
		{"../../etc/passwd.csv", "etc_passwd.csv"},
		{`..\..\windows\win.csv`, "windowswin.csv"},
		{`a\b.csv`, "ab.csv"},
		{"données été.csv", "donnees_ete.csv"},
		{"report (final)!.csv", "report_final.csv"},
		{"  spaced   out .csv ", "spaced_out_.csv"},
		{".hidden.csv", "hidden.csv"},
		{"日本語.csv", "csv"},
		{"../", "upload.csv"},
		{"", "upload.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SecureFilename(tt.in))
		})
	}
}

func TestHasCSVExtension(t *testing.T) {
	assert.True(t, HasCSVExtension("data.csv"))
	assert.True(t, HasCSVExtension("DATA.CSV"))
	assert.False(t, HasCSVExtension("data.csv.exe"))
	assert.False(t, HasCSVExtension("data.tsv"))
	assert.False(t, HasCSVExtension("csv"))
}
