package jwttoken

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "civitas/pkg/domain-errors"
)

func newService() *JWTService {
	return NewJWTService("test-signing-key", "civitas", "civitas-api")
}

func TestSignerTokenRoundTrip(t *testing.T) {
	svc := newService()
	wallet := solana.NewWallet().PublicKey()

	token, err := svc.GenerateSignerToken(wallet, time.Minute)
	require.NoError(t, err)

	signer, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, wallet, signer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newService()
	wallet := solana.NewWallet().PublicKey()

	token, err := svc.GenerateSignerToken(wallet, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	svc := newService()
	other := NewJWTService("some-other-key", "civitas", "civitas-api")
	wallet := solana.NewWallet().PublicKey()

	token, err := other.GenerateSignerToken(wallet, time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newService()
	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
}
