// Package service implements property registration, share acquisition
// and yield claims.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/gagliardetto/solana-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"civitas/internal/asset"
	"civitas/internal/audit"
	"civitas/internal/ledger"
	"civitas/internal/platform/metrics"
	"civitas/internal/platform/middleware"
	"civitas/internal/property/models"
	"civitas/internal/registry"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the property/share subsystem on the ledger.
type Service struct {
	ledger         *ledger.Ledger
	book           *asset.Book
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	newAsset       func() solana.PublicKey
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
		ledger:   l,
		book:     book,
		newAsset: func() solana.PublicKey { return solana.NewWallet().PublicKey() },
		tracer:   otel.Tracer("civitas/property"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries the authority-supplied fields for one property.
type RegisterParams struct {
	Caller      solana.PublicKey
	Name        string
	TotalValue  uint64
	TotalTokens uint64
	MetadataURI string
}

// Register creates the property record and its share-asset class. Only
// the platform authority may register properties.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.Property, error) {
	ctx, span := s.tracer.Start(ctx, "property.Register")
	defer span.End()

	assetID := s.newAsset()
	property, err := models.NewProperty(assetID, params.Name, params.TotalValue, params.TotalTokens, params.MetadataURI)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, platformAddr, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		if !platform.IsAuthority(params.Caller) {
			s.countAuthFailure()
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not the platform authority")
		}

		addr, err := s.ledger.Derive(ledger.NamespaceProperty, assetID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive property address")
		}
		if err := txn.Create(addr, property); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeDuplicate, "property already exists for this asset")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create property record")
		}
		if err := s.book.CreateMint(txn, assetID, platform.MintCapability, 0); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create share asset")
		}

		if err := platform.RecordProperty(); err != nil {
			return err
		}
		return txn.Put(platformAddr, platform)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PropertiesRegistered.Inc()
	}
	s.logAudit(ctx, audit.Event{
		Actor:   params.Caller.String(),
		Subject: assetID.String(),
		Action:  audit.EventPropertyRegistered,
	})
	return property, nil
}

// AcquireShares mints quantity shares of the property to the buyer,
// enforcing the supply cap with no partial fill.
func (s *Service) AcquireShares(ctx context.Context, buyer, assetID solana.PublicKey, quantity uint64) (*models.Property, error) {
	ctx, span := s.tracer.Start(ctx, "property.AcquireShares")
	defer span.End()

	var property *models.Property
	err := s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, _, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		p, addr, err := s.load(txn, assetID)
		if err != nil {
			return err
		}
		if err := p.Sell(quantity); err != nil {
			return err
		}
		if err := s.book.Mint(txn, assetID, buyer, quantity, platform.MintCapability); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint shares")
		}
		if err := txn.Put(addr, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update property record")
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SharesSold.Add(float64(quantity))
	}
	s.logAudit(ctx, audit.Event{
		Actor:   buyer.String(),
		Subject: assetID.String(),
		Action:  audit.EventSharesAcquired,
		Amount:  quantity,
	})
	return property, nil
}

// ClaimYield pays the claimant their proportional slice of the nominal
// monthly rent out of the platform's settlement balance. The claimant
// must hold at least one share.
func (s *Service) ClaimYield(ctx context.Context, claimant, assetID solana.PublicKey) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "property.ClaimYield")
	defer span.End()

	var payout uint64
	err := s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, platformAddr, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		property, _, err := s.load(txn, assetID)
		if err != nil {
			return err
		}

		balance, err := s.book.Balance(txn, assetID, claimant)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read share balance")
		}
		if balance == 0 {
			return dErrors.New(dErrors.CodeInvalidState, "no tokens owned")
		}

		payout, err = property.YieldFor(balance)
		if err != nil {
			return err
		}
		if err := s.book.Transfer(txn, platform.SettlementAsset, platformAddr, claimant, payout); err != nil {
			if errors.Is(err, sentinel.ErrInsufficientFunds) {
				return dErrors.New(dErrors.CodeInvalidState, "settlement pool cannot cover payout")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to transfer payout")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.YieldPaid.Add(float64(payout))
	}
	s.logAudit(ctx, audit.Event{
		Actor:   claimant.String(),
		Subject: assetID.String(),
		Action:  audit.EventYieldClaimed,
		Amount:  payout,
	})
	return payout, nil
}

// Get returns the property for the given share-asset identity.
func (s *Service) Get(ctx context.Context, assetID solana.PublicKey) (*models.Property, error) {
	var property *models.Property
	err := s.ledger.View(ctx, func(txn *ledger.Txn) error {
		p, _, err := s.load(txn, assetID)
		if err != nil {
			return err
		}
		property = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return property, nil
}

// List returns every registered property, ordered by name.
func (s *Service) List(ctx context.Context) ([]*models.Property, error) {
	var properties []*models.Property
	err := s.ledger.View(ctx, func(txn *ledger.Txn) error {
		txn.Range(func(_ ledger.Address, rec ledger.Record) bool {
			if p, ok := rec.(*models.Property); ok {
				properties = append(properties, p)
			}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(properties, func(i, j int) bool {
		if properties[i].Name != properties[j].Name {
			return properties[i].Name < properties[j].Name
		}
		return properties[i].Asset.String() < properties[j].Asset.String()
	})
	return properties, nil
}

// Holding pairs a property with the owner's share balance.
type Holding struct {
	Property *models.Property
	Balance  uint64
}

// Holdings returns the owner's nonzero share positions.
func (s *Service) Holdings(ctx context.Context, owner solana.PublicKey) ([]Holding, error) {
	properties, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var holdings []Holding
	err = s.ledger.View(ctx, func(txn *ledger.Txn) error {
		for _, p := range properties {
			balance, err := s.book.Balance(txn, p.Asset, owner)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read share balance")
			}
			if balance > 0 {
				holdings = append(holdings, Holding{Property: p, Balance: balance})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

func (s *Service) load(txn *ledger.Txn, assetID solana.PublicKey) (*models.Property, ledger.Address, error) {
	addr, err := s.ledger.Derive(ledger.NamespaceProperty, assetID)
	if err != nil {
		return nil, ledger.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive property address")
	}
	rec, err := txn.Get(addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ledger.Address{}, dErrors.New(dErrors.CodeNotFound, "property not found")
		}
		return nil, ledger.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load property record")
	}
	return rec.(*models.Property), addr, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		event.RequestID = requestID
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"actor", event.Actor, "subject", event.Subject, "amount", event.Amount, "log_type", "audit")
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
