// Package service implements credential issuance and the read side
// used by wallet verification.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"civitas/internal/asset"
	"civitas/internal/audit"
	"civitas/internal/credential/models"
	"civitas/internal/ledger"
	"civitas/internal/platform/metrics"
	"civitas/internal/platform/middleware"
	"civitas/internal/platform/redis"
	"civitas/internal/registry"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/sentinel"
)

// CredentialSymbol tags every achievement asset.
const CredentialSymbol = "EDU"

const verifyCachePrefix = "civitas:verify:"

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates issuance against the ledger and asset book.
type Service struct {
	ledger         *ledger.Ledger
	book           *asset.Book
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	cache          *redis.Client
	cacheTTL       time.Duration
	clock          func() time.Time
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

// WithVerifyCache caches wallet verification results in Redis. A nil
// client disables caching.
func WithVerifyCache(cache *redis.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// New constructs a Service.
func New(l *ledger.Ledger, book *asset.Book, opts ...Option) *Service {
	s := &Service{
		ledger:   l,
		book:     book,
		clock:    time.Now,
		newAsset: func() solana.PublicKey { return solana.NewWallet().PublicKey() },
		tracer:   otel.Tracer("civitas/credential"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueParams carries the issuer-supplied fields for one credential.
type IssueParams struct {
	Issuer      solana.PublicKey
	Student     solana.PublicKey
	StudentName string
	CourseName  string
	IssuerName  string
	MetadataURI string
}

// Issue creates the credential record, mints exactly one unit of a fresh
// asset to the student and attaches the descriptive metadata, all in one
// atomic transaction. The issuer must be on the platform allow-list.
func (s *Service) Issue(ctx context.Context, params IssueParams) (*models.Credential, error) {
	ctx, span := s.tracer.Start(ctx, "credential.Issue")
	defer span.End()

	if err := models.ValidateURI(params.MetadataURI); err != nil {
		return nil, err
	}

	assetID := s.newAsset()
	credential, err := models.NewCredential(
		assetID, params.Student, params.Issuer,
		params.StudentName, params.CourseName, params.IssuerName,
		s.clock().UTC(),
	)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Update(ctx, func(txn *ledger.Txn) error {
		platform, platformAddr, err := registry.Load(txn, s.ledger)
		if err != nil {
			return err
		}
		if !platform.IsAuthorizedIssuer(params.Issuer) {
			s.countAuthFailure()
			return dErrors.New(dErrors.CodeUnauthorized, "issuer is not on the platform allow-list")
		}

		addr, err := s.ledger.Derive(ledger.NamespaceCertificate, assetID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive credential address")
		}
		if err := txn.Create(addr, credential); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeDuplicate, "credential already exists for this asset")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create credential record")
		}

		if err := s.book.CreateMint(txn, assetID, platform.MintCapability, 0); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create credential asset")
		}
		if err := s.book.Mint(txn, assetID, params.Student, 1, platform.MintCapability); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint credential unit")
		}
		if err := s.book.AttachMetadata(txn, assetID, asset.Metadata{
			Name:                 credential.DisplayName(),
			Symbol:               CredentialSymbol,
			URI:                  params.MetadataURI,
			SellerFeeBasisPoints: 0,
			Creators:             []asset.Creator{{Address: params.Issuer, Verified: true, Share: 100}},
			Mutable:              true,
		}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to attach credential metadata")
		}

		if err := platform.RecordCertificate(); err != nil {
			return err
		}
		return txn.Put(platformAddr, platform)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CertificatesIssued.Inc()
	}
	s.invalidateVerify(ctx, params.Student)
	s.logAudit(ctx, audit.Event{
		Actor:   params.Issuer.String(),
		Subject: assetID.String(),
		Action:  audit.EventCredentialIssued,
	})
	return credential, nil
}

// Get returns the credential bound to the given asset identity.
func (s *Service) Get(ctx context.Context, assetID solana.PublicKey) (*models.Credential, error) {
	var credential *models.Credential
	err := s.ledger.View(ctx, func(txn *ledger.Txn) error {
		addr, err := s.ledger.Derive(ledger.NamespaceCertificate, assetID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive credential address")
		}
		rec, err := txn.Get(addr)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "credential not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential record")
		}
		credential = rec.(*models.Credential)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// ListByHolder returns every credential whose student is holder, oldest
// first.
func (s *Service) ListByHolder(ctx context.Context, holder solana.PublicKey) ([]*models.Credential, error) {
	var credentials []*models.Credential
	err := s.ledger.View(ctx, func(txn *ledger.Txn) error {
		txn.Range(func(_ ledger.Address, rec ledger.Record) bool {
			if c, ok := rec.(*models.Credential); ok && c.Student.Equals(holder) {
				credentials = append(credentials, c)
			}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(credentials, func(i, j int) bool {
		if !credentials[i].MintTime.Equal(credentials[j].MintTime) {
			return credentials[i].MintTime.Before(credentials[j].MintTime)
		}
		return credentials[i].Asset.String() < credentials[j].Asset.String()
	})
	return credentials, nil
}

// VerifyWallet returns how many credentials the wallet holds. Results
// are cached when a verify cache is configured.
func (s *Service) VerifyWallet(ctx context.Context, wallet solana.PublicKey) (int, error) {
	if count, ok := s.cachedVerify(ctx, wallet); ok {
		return count, nil
	}

	credentials, err := s.ListByHolder(ctx, wallet)
	if err != nil {
		return 0, err
	}
	s.storeVerify(ctx, wallet, len(credentials))
	return len(credentials), nil
}

func (s *Service) cachedVerify(ctx context.Context, wallet solana.PublicKey) (count int, ok bool) {
	if s.cache == nil {
		return 0, false
	}
	val, err := s.cache.Get(ctx, verifyCachePrefix+wallet.String()).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) && s.logger != nil {
			s.logger.WarnContext(ctx, "verify cache read failed", "error", err.Error())
		}
		return 0, false
	}
	count, err = strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (s *Service) storeVerify(ctx context.Context, wallet solana.PublicKey, count int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, verifyCachePrefix+wallet.String(), strconv.Itoa(count), s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "verify cache write failed", "error", err.Error())
	}
}

func (s *Service) invalidateVerify(ctx context.Context, wallet solana.PublicKey) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, verifyCachePrefix+wallet.String()).Err(); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "verify cache invalidation failed", "error", err.Error())
	}
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
