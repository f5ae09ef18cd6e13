package middle

/**
- Work of this file -> Session package:
	- Validates the session token
	- Stores the session identity in context
	- Exposes a helper to retrieve it
**/

import (
	"context"
	"errors"
	"net/http"
	"probe-wizard/internals/security"
	"probe-wizard/pkg/apperror"
	"probe-wizard/pkg/utils"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

type sessionCtxKeyType struct{}

var sessionCtxKey = sessionCtxKeyType{}

type SessionIdentity struct {
	SessionID string
}

type TokenValidator interface {
	ValidateSessionToken(token string) (*security.SessionClaims, error)
}

type SessionMiddleware struct {
	tokenSvc TokenValidator
}

func NewSessionMiddleware(tokenSvc TokenValidator) *SessionMiddleware {
	return &SessionMiddleware{
		tokenSvc: tokenSvc,
	}
}

func (s *SessionMiddleware) Handle(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := middleware.GetReqID(ctx)

		token, err := extractBearerToken(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, reqID, apperror.Unauthorised, err.Error())
			return
		}

		claims, err := s.tokenSvc.ValidateSessionToken(token)
		if err != nil {
			utils.FromAppError(w, reqID, err)
			return
		}

		newCtx := context.WithValue(ctx, sessionCtxKey, &SessionIdentity{SessionID: claims.SessionID})
		next.ServeHTTP(w, r.WithContext(newCtx))
	}

	return http.HandlerFunc(fn)
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")

	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid Authorization header")
	}

	return parts[1], nil
}

func SessionFromContext(ctx context.Context) (*SessionIdentity, bool) {
	id, ok := ctx.Value(sessionCtxKey).(*SessionIdentity)
	return id, ok
}

// WithSession is used by handlers' tests to skip token validation.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey, &SessionIdentity{SessionID: sessionID})
}
