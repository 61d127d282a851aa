package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the Supabase access token fields the service reads.
type Claims struct {
	UserID       string
	Email        string
	UserMetadata map[string]interface{}
}

// Verifier checks access tokens issued by the auth gateway. HS256 tokens are checked
// against the project secret, RS256 and ES256 tokens against the JWKS endpoint.
type Verifier struct {
	jwks   *Provider
	secret []byte
}

func NewVerifier(jwks *Provider, hmacSecret string) *Verifier {
	return &Verifier{jwks: jwks, secret: []byte(hmacSecret)}
}

func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, v.keyFunc, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := mc["email"].(string)
	metadata, _ := mc["user_metadata"].(map[string]interface{})

	return &Claims{UserID: sub, Email: email, UserMetadata: metadata}, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) == 0 {
			return nil, errors.New("HS256 token received but SUPABASE_JWT_SECRET is not configured")
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		if v.jwks == nil {
			return nil, errors.New("asymmetric token received but no JWKS provider is configured")
		}
		return v.jwks.KeyFunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}
