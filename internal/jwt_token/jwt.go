package jwttoken

import (
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "civitas/pkg/domain-errors"
)

// Claims represents the JWT claims for signer tokens. The subject is the
// base58 wallet key the gateway vouches for.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles signer token creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateSignerToken issues a token asserting the given wallet identity.
func (s *JWTService) GenerateSignerToken(signer solana.PublicKey, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   signer.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateToken verifies the token and returns the wallet key it asserts.
func (s *JWTService) ValidateToken(tokenString string) (solana.PublicKey, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return solana.PublicKey{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return solana.PublicKey{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return solana.PublicKey{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return solana.PublicKey{}, dErrors.New(dErrors.CodeUnauthorized, "token carries no signer")
	}

	signer, err := solana.PublicKeyFromBase58(claims.Subject)
	if err != nil {
		return solana.PublicKey{}, dErrors.New(dErrors.CodeUnauthorized, "token subject is not a wallet key")
	}
	return signer, nil
}
