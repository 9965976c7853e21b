package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/api/responses"
	pkgerrors "github.com/brightcart/storefront-backend/pkg/errors"
	"github.com/brightcart/storefront-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// GuestSession reads the guest cart session header when present. The header
// must be a UUID; a malformed value is rejected rather than silently ignored
// so clients notice broken session handling immediately.
func GuestSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session header must be a valid uuid"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, sessionID.String())
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
