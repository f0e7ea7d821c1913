package lib

import (
	"bijouterie_server/structs"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "bijouterie"

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken signs the session claims with HS256
func SignToken(claims *structs.AuthClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   claims.Sub.String(),
			ID:        claims.Jti.String(),
			IssuedAt:  jwt.NewNumericDate(claims.Iat),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature, issuer and expiry of a session token.
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	var sc sessionClaims
	_, err := jwt.ParseWithClaims(tokenStr, &sc, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	sub, err := uuid.Parse(sc.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	jti, err := uuid.Parse(sc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid jti claim: %w", err)
	}
	if sc.IssuedAt == nil {
		return nil, fmt.Errorf("missing iat claim")
	}

	return &structs.AuthClaims{
		Sub:   sub,
		Email: sc.Email,
		Role:  sc.Role,
		Iat:   sc.IssuedAt.Time,
		Exp:   sc.ExpiresAt.Time,
		Jti:   jti,
	}, nil
}
