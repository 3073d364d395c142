// Package handler exposes credential issuance and wallet verification
// over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"civitas/internal/credential/models"
	"civitas/internal/credential/service"
	"civitas/internal/platform/middleware"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/credential-mocks.go -package=mocks Service

// Service defines the interface for credential operations.
type Service interface {
	Issue(ctx context.Context, params service.IssueParams) (*models.Credential, error)
	Get(ctx context.Context, asset solana.PublicKey) (*models.Credential, error)
	ListByHolder(ctx context.Context, holder solana.PublicKey) ([]*models.Credential, error)
	VerifyWallet(ctx context.Context, wallet solana.PublicKey) (int, error)
}

// Handler handles credential endpoints.
type Handler struct {
	logger     *slog.Logger
	credential Service
	validator  middleware.SignerValidator
}

// New creates a new credential Handler.
func New(credential Service, logger *slog.Logger, validator middleware.SignerValidator) *Handler {
	return &Handler{
		logger:     logger,
		credential: credential,
		validator:  validator,
	}
}

// Register registers the credential routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSigner(h.validator, h.logger))
		r.Post("/credentials", h.handleIssue)
	})
	r.Get("/credentials/{asset}", h.handleGet)
	r.Get("/wallets/{wallet}/credentials", h.handleListByHolder)
	r.Get("/wallets/{wallet}/verify", h.handleVerify)
}

// handleIssue issues a credential signed by the authenticated issuer.
func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	student, err := solana.PublicKeyFromBase58(req.Student)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid student key"))
		return
	}

	credential, err := h.credential.Issue(ctx, service.IssueParams{
		Issuer:      signer,
		Student:     student,
		StudentName: req.StudentName,
		CourseName:  req.CourseName,
		IssuerName:  req.IssuerName,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		h.logError(ctx, "failed to issue credential", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, credentialResponseFrom(credential))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, err := solana.PublicKeyFromBase58(chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid asset key"))
		return
	}

	credential, err := h.credential.Get(ctx, assetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, credentialResponseFrom(credential))
}

func (h *Handler) handleListByHolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := solana.PublicKeyFromBase58(chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid wallet key"))
		return
	}

	credentials, err := h.credential.ListByHolder(ctx, wallet)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := credentialsResponse{
		Credentials: make([]credentialResponse, 0, len(credentials)),
		Count:       len(credentials),
	}
	for _, c := range credentials {
		resp.Credentials = append(resp.Credentials, credentialResponseFrom(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := solana.PublicKeyFromBase58(chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid wallet key"))
		return
	}

	count, err := h.credential.VerifyWallet(ctx, wallet)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifyResponse{
		Wallet:          wallet.String(),
		Verified:        count > 0,
		CredentialCount: count,
	})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}
