package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{n: 0, want: "0 B"},
		{n: 1023, want: "1023 B"},
		{n: 1024, want: "1.0 KiB"},
		{n: 1536, want: "1.5 KiB"},
		{n: 1 << 20, want: "1.0 MiB"},
		{n: 100 << 20, want: "100.0 MiB"},
		{n: 3 << 30, want: "3.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, humanBytes(tt.n))
		})
	}
}

func TestIndex_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Index(100<<20).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, `<p class="hint">CSV files up to 100.0 MiB. Refer to your file as <code>tablename</code> in queries.</p>`)
	assert.Contains(t, html, `<form id="upload-form">`)
	assert.Contains(t, html, `fetch("/query"`)
}

func TestIndex_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	assert.ErrorIs(t, Index(1024).Render(ctx, &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}
