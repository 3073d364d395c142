package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"civitas/internal/asset"
	"civitas/internal/audit"
	"civitas/internal/ledger"
	"civitas/internal/platform/metrics"
	"civitas/internal/platform/middleware"
	"civitas/internal/registry"
	"civitas/internal/registry/models"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates platform initialization and issuer management.
type Service struct {
	ledger         *ledger.Ledger
	book           *asset.Book
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// New constructs a Service.
func New(l *ledger.Ledger, book *asset.Book, opts ...Option) *Service {
	s := &Service{
		ledger: l,
		book:   book,
		tracer: otel.Tracer("civitas/registry"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitPlatform creates the singleton platform record at its well-known
// derived address and registers the settlement asset the yield pool pays
// out of. A second call fails: the address is already occupied.
func (s *Service) InitPlatform(ctx context.Context, authority solana.PublicKey) (*models.Platform, error) {
	ctx, span := s.tracer.Start(ctx, "registry.InitPlatform")
	defer span.End()

	capability := asset.NewCapability()
	settlementAsset, err := s.ledger.Derive(ledger.NamespaceSettlement)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive settlement asset")
	}

	platform, err := models.NewPlatform(authority, capability, settlementAsset)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		addr, err := s.ledger.Derive(ledger.NamespacePlatform)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive platform address")
		}
		if err := txn.Create(addr, platform); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeDuplicate, "platform is already initialized")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create platform record")
		}
		if err := s.book.CreateMint(txn, settlementAsset, capability, 9); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create settlement mint")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{
		Actor:   authority.String(),
		Subject: settlementAsset.String(),
		Action:  audit.EventPlatformInitialized,
	})
	return platform, nil
}

// AddIssuer appends an issuer to the allow-list. Only the platform
// authority may call it; capacity and duplicates are enforced.
func (s *Service) AddIssuer(ctx context.Context, caller, issuer solana.PublicKey) error {
	ctx, span := s.tracer.Start(ctx, "registry.AddIssuer")
	defer span.End()

	err := s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, addr, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		if !platform.IsAuthority(caller) {
			s.countAuthFailure()
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not the platform authority")
		}
		if err := platform.AddIssuer(issuer); err != nil {
			return err
		}
		return txn.Put(addr, platform)
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, audit.Event{
		Actor:   caller.String(),
		Subject: issuer.String(),
		Action:  audit.EventIssuerAuthorized,
	})
	return nil
}

// Platform returns the current registry record.
func (s *Service) Platform(ctx context.Context) (*models.Platform, error) {
	var platform *models.Platform
	err := s.ledger.View(ctx, func(txn *ledger.Txn) error {
		p, _, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		platform = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return platform, nil
}

// ListIssuers returns the issuer allow-list.
func (s *Service) ListIssuers(ctx context.Context) ([]solana.PublicKey, error) {
	platform, err := s.Platform(ctx)
	if err != nil {
		return nil, err
	}
	return platform.AuthorizedIssuers, nil
}

// IsAuthorizedIssuer reports whether key is on the allow-list.
func (s *Service) IsAuthorizedIssuer(ctx context.Context, key solana.PublicKey) (bool, error) {
	platform, err := s.Platform(ctx)
	if err != nil {
		return false, err
	}
	return platform.IsAuthorizedIssuer(key), nil
}

// FundPool mints settlement units into the platform's liquid balance.
// Development facility for exercising yield claims, mirroring a faucet
// deposit; only the authority may call it.
func (s *Service) FundPool(ctx context.Context, caller solana.PublicKey, amount uint64) error {
	ctx, span := s.tracer.Start(ctx, "registry.FundPool")
	defer span.End()

	return s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, addr, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		if !platform.IsAuthority(caller) {
			s.countAuthFailure()
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not the platform authority")
		}
		if err := s.book.Mint(txn, platform.SettlementAsset, addr, amount, platform.MintCapability); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to fund settlement pool")
		}
		return nil
	})
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		event.RequestID = requestID
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"actor", event.Actor, "subject", event.Subject, "log_type", "audit")
	}
	if s.auditPublisher != nil {
		_ = s.auditPublisher.Emit(ctx, event)
	}
}

func (s *Service) countAuthFailure() {
	if s.metrics != nil {
		s.metrics.AuthFailures.Inc()
	}
}
