// Package models defines the achievement credential record: a
// non-transferable one-unit asset bound to the student who earned it.
package models

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"civitas/internal/ledger"
	dErrors "civitas/pkg/domain-errors"
)

// Record sizes are fixed upper bounds known at creation time; longer
// text is rejected, never truncated.
const (
	MaxNameLen = 100
	MaxURILen  = 200
)

// Credential is created exactly once per underlying asset identity and
// is immutable afterwards.
type Credential struct {
	Asset       solana.PublicKey
	Student     solana.PublicKey
	Issuer      solana.PublicKey
	StudentName string
	CourseName  string
	IssuerName  string
	MintTime    time.Time
}

// NewCredential validates the bounded fields and identities.
func NewCredential(asset, student, issuer solana.PublicKey, studentName, courseName, issuerName string, mintTime time.Time) (*Credential, error) {
	if asset.IsZero() || student.IsZero() || issuer.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "asset, student and issuer identities are required")
	}
	for _, f := range []struct {
		field string
		value string
	}{
		{"student name", studentName},
		{"course name", courseName},
		{"issuer name", issuerName},
	} {
		field, value := f.field, f.value
		if value == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s is required", field)
		}
		if len(value) > MaxNameLen {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s exceeds %d bytes", field, MaxNameLen)
		}
	}
	return &Credential{
		Asset:       asset,
		Student:     student,
		Issuer:      issuer,
		StudentName: studentName,
		CourseName:  courseName,
		IssuerName:  issuerName,
		MintTime:    mintTime,
	}, nil
}

// ValidateURI bounds the metadata locator attached to the asset.
func ValidateURI(uri string) error {
	if uri == "" {
		return dErrors.New(dErrors.CodeValidation, "metadata uri is required")
	}
	if len(uri) > MaxURILen {
		return dErrors.Newf(dErrors.CodeValidation, "metadata uri exceeds %d bytes", MaxURILen)
	}
	return nil
}

func (c *Credential) Clone() ledger.Record {
	cp := *c
	return &cp
}

// DisplayName is the descriptive name attached to the asset metadata.
func (c *Credential) DisplayName() string {
	return c.CourseName + " Certificate"
}
