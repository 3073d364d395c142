package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// LedgerProgramID seeds deterministic address derivation. All record
	// addresses are derived under this identity, so changing it produces a
	// disjoint ledger.
	LedgerProgramID string

	RedisURL     string
	KafkaBrokers []string
	PostgresDSN  string
}

// VerifyCacheTTL bounds how long wallet verification reads may be served
// from cache before hitting the ledger again.
var VerifyCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CIVITAS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	programID := os.Getenv("CIVITAS_PROGRAM_ID")
	if programID == "" {
		programID = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"
	}

	var brokers []string
	if v := os.Getenv("CIVITAS_KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Server{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		LedgerProgramID: programID,
		RedisURL:        os.Getenv("CIVITAS_REDIS_URL"),
		KafkaBrokers:    brokers,
		PostgresDSN:     os.Getenv("CIVITAS_POSTGRES_DSN"),
	}
}
