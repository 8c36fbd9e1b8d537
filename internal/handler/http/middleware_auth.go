// Package http implements the HTTP transport layer of the catalog service.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, admin gating, logging, and tracing
// concerns are all handled at this layer before requests are forwarded to
// the service layer.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/imagehub/image-hub/internal/logger"
	"github.com/imagehub/image-hub/internal/service"
	"github.com/imagehub/image-hub/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it via [service.AuthService.ParseToken], and — on
// success — stores the authenticated identity in the request context under
// [utils.IdentityCtxKey] before delegating to the next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when:
//   - The "Authorization" header is absent ([ErrEmptyAuthorizationHeader]).
//   - The header value cannot be parsed as a bearer token.
//   - The token signature or structure is invalid ([utils.ErrInvalidToken]).
//   - The token has expired ([utils.ErrExpiredToken]).
//   - The token decodes but its claims are unusable
//     ([utils.ErrInvalidDecodedToken]).
//
// All rejection events are logged using the context-scoped logger obtained
// via [logger.FromRequest].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		identity, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				log.Err(err).Msg("token expired")
			case errors.Is(err, utils.ErrInvalidDecodedToken):
				log.Err(err).Msg("token claims are unusable")
			default:
				log.Err(err).Msg("error occurred during parsing token")
			}
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		// Store the authenticated identity in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx = context.WithValue(ctx, utils.IdentityCtxKey, identity)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects authenticated non-admin callers with 403. It must be
// mounted after [Handler.auth].
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		identity, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			log.Error().Msg("no identity in context on an admin-only route")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !identity.IsAdmin {
			log.Error().Int64("user_id", identity.UserID).Msg("admin-only route called by plain user")
			http.Error(w, service.ErrAdminRequired.Error(), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
