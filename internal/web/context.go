package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/csvview/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx so document
// events are logged with who caused them.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	// RemoteAddr is already resolved by TrustedRealIP.
	return core.ContextWithClient(ctx, r.RemoteAddr, r.UserAgent())
}
