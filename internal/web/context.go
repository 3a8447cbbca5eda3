package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
	mw "github.com/JonMunkholm/tableman/internal/web/middleware"
)

// withRequestMetadata adds the client address and user agent to the request
// context so session history can name who made a change.
func withRequestMetadata(r *http.Request) context.Context {
	return core.WithClient(r.Context(), mw.ClientIP(r), r.UserAgent())
}
