package identity

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "plansign/pkg/domain-errors"
)

// Claims carries the signer identity inside access tokens.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 bearer tokens minted by the platform's auth
// service.
type JWTVerifier struct {
	signingKey []byte
	issuer     string
}

func NewJWTVerifier(signingKey, issuer string) *JWTVerifier {
	return &JWTVerifier{signingKey: []byte(signingKey), issuer: issuer}
}

func (v *JWTVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, dErrors.New(dErrors.CodeAuthRequired, "missing credential")
	}
	parsed, err := jwt.ParseWithClaims(credential, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, dErrors.New(dErrors.CodeAuthRequired, "credential has expired")
		}
		return Identity{}, dErrors.New(dErrors.CodeAuthRequired, "invalid credential")
	}
	if !parsed.Valid {
		return Identity{}, dErrors.New(dErrors.CodeAuthRequired, "invalid credential")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return Identity{}, dErrors.New(dErrors.CodeAuthRequired, "invalid credential claims")
	}
	return Identity{
		SignerID: claims.Subject,
		Name:     claims.Name,
		Email:    claims.Email,
	}, nil
}

// MintToken issues a short-lived credential for a signer. Used by tests and
// the dev login helper; production tokens come from the platform auth service.
func (v *JWTVerifier) MintToken(signerID, name, email string, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   signerID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    v.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(v.signingKey)
}
