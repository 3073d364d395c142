// Package handler exposes platform initialization and issuer
// management over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"civitas/internal/platform/middleware"
	"civitas/internal/registry/models"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/registry-mocks.go -package=mocks Service

// Service defines the interface for platform registry operations.
type Service interface {
	InitPlatform(ctx context.Context, authority solana.PublicKey) (*models.Platform, error)
	AddIssuer(ctx context.Context, caller, issuer solana.PublicKey) error
	FundPool(ctx context.Context, caller solana.PublicKey, amount uint64) error
	Platform(ctx context.Context) (*models.Platform, error)
	ListIssuers(ctx context.Context) ([]solana.PublicKey, error)
	IsAuthorizedIssuer(ctx context.Context, key solana.PublicKey) (bool, error)
}

// Handler handles registry endpoints.
type Handler struct {
	logger    *slog.Logger
	registry  Service
	validator middleware.SignerValidator
}

// New creates a new registry Handler.
func New(registry Service, logger *slog.Logger, validator middleware.SignerValidator) *Handler {
	return &Handler{
		logger:    logger,
		registry:  registry,
		validator: validator,
	}
}

// Register registers the registry routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSigner(h.validator, h.logger))
		r.Post("/platform", h.handleInitPlatform)
		r.Post("/platform/pool", h.handleFundPool)
		r.Post("/issuers", h.handleAddIssuer)
	})
	r.Get("/platform", h.handleGetPlatform)
	r.Get("/issuers", h.handleListIssuers)
	r.Get("/issuers/check/{key}", h.handleCheckIssuer)
}

func (h *Handler) handleInitPlatform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	platform, err := h.registry.InitPlatform(ctx, signer)
	if err != nil {
		h.logError(ctx, "failed to initialize platform", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, platformResponseFrom(platform))
}

func (h *Handler) handleAddIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	var req addIssuerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	issuer, err := solana.PublicKeyFromBase58(req.Issuer)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid issuer key"))
		return
	}

	if err := h.registry.AddIssuer(ctx, signer, issuer); err != nil {
		h.logError(ctx, "failed to add issuer", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleFundPool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	var req fundPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}
	if req.Amount == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "amount must be positive"))
		return
	}

	if err := h.registry.FundPool(ctx, signer, req.Amount); err != nil {
		h.logError(ctx, "failed to fund settlement pool", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetPlatform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	platform, err := h.registry.Platform(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, platformResponseFrom(platform))
}

func (h *Handler) handleListIssuers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuers, err := h.registry.ListIssuers(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := issuersResponse{Issuers: make([]string, 0, len(issuers)), Count: len(issuers)}
	for _, issuer := range issuers {
		resp.Issuers = append(resp.Issuers, issuer.String())
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCheckIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, err := solana.PublicKeyFromBase58(chi.URLParam(r, "key"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid issuer key"))
		return
	}

	authorized, err := h.registry.IsAuthorizedIssuer(ctx, key)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, checkIssuerResponse{
		Issuer:     key.String(),
		Authorized: authorized,
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
