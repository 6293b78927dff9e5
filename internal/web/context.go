package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/csvsql/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for the audit trail.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already resolved by TrustedRealIP
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return core.ContextWithClient(ctx, ip, r.UserAgent())
}
