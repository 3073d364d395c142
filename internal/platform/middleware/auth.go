package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go"

	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

// SignerValidator verifies a bearer token and returns the wallet key it
// asserts. This is the gateway half of the host's signer verification:
// a request only reaches a state-transition operation with a signer the
// validator vouched for.
type SignerValidator interface {
	ValidateToken(tokenString string) (solana.PublicKey, error)
}

type contextKeySigner struct{}

// ContextKeySigner is exported for use in handlers.
var ContextKeySigner = contextKeySigner{}

// GetSigner retrieves the verified signer identity from the context.
// The zero PublicKey means the request was not authenticated.
func GetSigner(ctx context.Context) solana.PublicKey {
	signer, ok := ctx.Value(ContextKeySigner).(solana.PublicKey)
	if !ok {
		return solana.PublicKey{}
	}
	return signer
}

// RequireSigner rejects requests without a valid bearer token and stores
// the verified signer identity in the request context.
func RequireSigner(validator SignerValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			signer, err := validator.ValidateToken(token)
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "rejected signer token",
						"request_id", GetRequestID(r.Context()),
						"error", err)
				}
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid bearer token"))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySigner, signer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
