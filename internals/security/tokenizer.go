package security

import (
	"probe-wizard/config"
	"probe-wizard/pkg/apperror"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "probe-wizard"

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(sessionCfg *config.SessionConfig) *TokenService {
	return &TokenService{
		secret: []byte(sessionCfg.Secret),
		ttl:    sessionCfg.TTL,
		now:    time.Now,
	}
}

// GenerateSessionToken signs a token that expires together with the session.
func (ts *TokenService) GenerateSessionToken(sessionID string) (string, error) {
	const op string = "service.token.generate_session_token"

	now := ts.now()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(ts.secret)
	if err != nil {
		return "", apperror.New(apperror.Internal, op, err).WithMessage("could not issue session token")
	}

	return signedToken, nil
}

func (ts *TokenService) ValidateSessionToken(sessionToken string) (*SessionClaims, error) {
	const op string = "service.token.validate_session_token"

	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(
		sessionToken,
		claims,
		func(t *jwt.Token) (any, error) {
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ts.now),
	)

	if err != nil || !token.Valid || claims.SessionID == "" {
		return nil, &apperror.Error{
			Kind:    apperror.Unauthorised,
			Op:      op,
			Message: "invalid session token",
			Err:     err,
		}
	}

	return claims, nil
}
