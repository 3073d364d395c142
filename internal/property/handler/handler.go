// Package handler exposes property registration, share acquisition and
// yield claims over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"

	"civitas/internal/platform/middleware"
	"civitas/internal/property/models"
	"civitas/internal/property/service"
	dErrors "civitas/pkg/domain-errors"
	"civitas/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/property-mocks.go -package=mocks Service

// Service defines the interface for property operations.
type Service interface {
	Register(ctx context.Context, params service.RegisterParams) (*models.Property, error)
	AcquireShares(ctx context.Context, buyer, asset solana.PublicKey, quantity uint64) (*models.Property, error)
	ClaimYield(ctx context.Context, claimant, asset solana.PublicKey) (uint64, error)
	Get(ctx context.Context, asset solana.PublicKey) (*models.Property, error)
	List(ctx context.Context) ([]*models.Property, error)
	Holdings(ctx context.Context, owner solana.PublicKey) ([]service.Holding, error)
}

// Handler handles property endpoints.
type Handler struct {
	logger    *slog.Logger
	property  Service
	validator middleware.SignerValidator
}

// New creates a new property Handler.
func New(property Service, logger *slog.Logger, validator middleware.SignerValidator) *Handler {
	return &Handler{
		logger:    logger,
		property:  property,
		validator: validator,
	}
}

// Register registers the property routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSigner(h.validator, h.logger))
		r.Post("/properties", h.handleRegister)
		r.Post("/properties/{asset}/shares", h.handleAcquireShares)
		r.Post("/properties/{asset}/claims", h.handleClaimYield)
	})
	r.Get("/properties", h.handleList)
	r.Get("/properties/{asset}", h.handleGet)
	r.Get("/wallets/{wallet}/holdings", h.handleHoldings)
}

// handleRegister registers a property on behalf of the authenticated
// platform authority.
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	property, err := h.property.Register(ctx, service.RegisterParams{
		Caller:      signer,
		Name:        req.Name,
		TotalValue:  req.TotalValue,
		TotalTokens: req.TotalTokens,
		MetadataURI: req.MetadataURI,
	})
	if err != nil {
		h.logError(ctx, "failed to register property", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, propertyResponseFrom(property))
}

func (h *Handler) handleAcquireShares(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	assetID, err := solana.PublicKeyFromBase58(chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid asset key"))
		return
	}
	var req acquireSharesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	property, err := h.property.AcquireShares(ctx, signer, assetID, req.Quantity)
	if err != nil {
		h.logError(ctx, "failed to acquire shares", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, acquireSharesResponse{
		Property: propertyResponseFrom(property),
		Buyer:    signer.String(),
		Quantity: req.Quantity,
	})
}

func (h *Handler) handleClaimYield(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	signer := middleware.GetSigner(ctx)

	assetID, err := solana.PublicKeyFromBase58(chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid asset key"))
		return
	}

	payout, err := h.property.ClaimYield(ctx, signer, assetID)
	if err != nil {
		h.logError(ctx, "failed to claim yield", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, claimYieldResponse{
		Asset:    assetID.String(),
		Claimant: signer.String(),
		Payout:   payout,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	properties, err := h.property.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := propertiesResponse{
		Properties: make([]propertyResponse, 0, len(properties)),
		Count:      len(properties),
	}
	for _, p := range properties {
		resp.Properties = append(resp.Properties, propertyResponseFrom(p))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	assetID, err := solana.PublicKeyFromBase58(chi.URLParam(r, "asset"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid asset key"))
		return
	}

	property, err := h.property.Get(ctx, assetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, propertyResponseFrom(property))
}

func (h *Handler) handleHoldings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wallet, err := solana.PublicKeyFromBase58(chi.URLParam(r, "wallet"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid wallet key"))
		return
	}

	holdings, err := h.property.Holdings(ctx, wallet)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := holdingsResponse{
		Wallet:   wallet.String(),
		Holdings: make([]holdingResponse, 0, len(holdings)),
	}
	for _, holding := range holdings {
		resp.Holdings = append(resp.Holdings, holdingResponseFrom(holding))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
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
