package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	jwttoken "civitas/internal/jwt_token"
	"civitas/internal/property/handler/mocks"
	"civitas/internal/property/models"
	"civitas/internal/property/service"
	dErrors "civitas/pkg/domain-errors"
)

type PropertyHandlerSuite struct {
	suite.Suite
}

func TestPropertyHandlerSuite(t *testing.T) {
	suite.Run(t, new(PropertyHandlerSuite))
}

var testJWT = jwttoken.NewJWTService("handler-test-key", "civitas", "civitas")

func newTestRouter(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, logger, testJWT).Register(r)
	return r, mockService
}

func signedRequest(t *testing.T, method, target string, body any, signer solana.PublicKey) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := testJWT.GenerateSignerToken(signer, time.Minute)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func testProperty() *models.Property {
	return &models.Property{
		Asset:       solana.NewWallet().PublicKey(),
		Name:        "Harborview Lofts",
		TotalValue:  100_000,
		TotalTokens: 1_000,
		TokensSold:  250,
		MetadataURI: "https://meta.civitas.dev/properties/1.json",
	}
}

func (s *PropertyHandlerSuite) TestRegister() {
	router, mockService := newTestRouter(s.T())
	authority := solana.NewWallet().PublicKey()
	property := testProperty()
	property.TokensSold = 0

	mockService.EXPECT().Register(gomock.Any(), service.RegisterParams{
		Caller:      authority,
		Name:        property.Name,
		TotalValue:  property.TotalValue,
		TotalTokens: property.TotalTokens,
		MetadataURI: property.MetadataURI,
	}).Return(property, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/properties", map[string]any{
		"name":         property.Name,
		"total_value":  property.TotalValue,
		"total_tokens": property.TotalTokens,
		"metadata_uri": property.MetadataURI,
	}, authority))

	s.Equal(http.StatusCreated, rec.Code)
	var resp struct {
		Asset           string `json:"asset"`
		TokensAvailable uint64 `json:"tokens_available"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(property.Asset.String(), resp.Asset)
	s.Equal(uint64(1_000), resp.TokensAvailable)
}

func (s *PropertyHandlerSuite) TestRegisterRequiresToken() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/properties", nil))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *PropertyHandlerSuite) TestAcquireShares() {
	router, mockService := newTestRouter(s.T())
	buyer := solana.NewWallet().PublicKey()
	property := testProperty()
	mockService.EXPECT().AcquireShares(gomock.Any(), buyer, property.Asset, uint64(250)).
		Return(property, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost,
		"/properties/"+property.Asset.String()+"/shares",
		map[string]uint64{"quantity": 250}, buyer))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Quantity uint64 `json:"quantity"`
		Property struct {
			TokensSold    uint64  `json:"tokens_sold"`
			OwnershipSold float64 `json:"ownership_sold"`
		} `json:"property"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(uint64(250), resp.Quantity)
	s.Equal(uint64(250), resp.Property.TokensSold)
	s.InDelta(25.0, resp.Property.OwnershipSold, 0.001)
}

func (s *PropertyHandlerSuite) TestAcquireSharesCapacityExceeded() {
	router, mockService := newTestRouter(s.T())
	buyer := solana.NewWallet().PublicKey()
	assetID := solana.NewWallet().PublicKey()
	mockService.EXPECT().AcquireShares(gomock.Any(), buyer, assetID, uint64(2_000)).
		Return(nil, dErrors.New(dErrors.CodeCapacityExceeded, "insufficient tokens available"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost,
		"/properties/"+assetID.String()+"/shares",
		map[string]uint64{"quantity": 2_000}, buyer))

	s.Equal(http.StatusConflict, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(string(dErrors.CodeCapacityExceeded), resp.Error)
}

func (s *PropertyHandlerSuite) TestClaimYield() {
	router, mockService := newTestRouter(s.T())
	claimant := solana.NewWallet().PublicKey()
	assetID := solana.NewWallet().PublicKey()
	mockService.EXPECT().ClaimYield(gomock.Any(), claimant, assetID).Return(uint64(100), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost,
		"/properties/"+assetID.String()+"/claims", nil, claimant))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Payout uint64 `json:"payout"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(uint64(100), resp.Payout)
}

func (s *PropertyHandlerSuite) TestClaimYieldNoShares() {
	router, mockService := newTestRouter(s.T())
	claimant := solana.NewWallet().PublicKey()
	assetID := solana.NewWallet().PublicKey()
	mockService.EXPECT().ClaimYield(gomock.Any(), claimant, assetID).
		Return(uint64(0), dErrors.New(dErrors.CodeInvalidState, "no tokens owned"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost,
		"/properties/"+assetID.String()+"/claims", nil, claimant))

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *PropertyHandlerSuite) TestList() {
	router, mockService := newTestRouter(s.T())
	mockService.EXPECT().List(gomock.Any()).Return([]*models.Property{testProperty()}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(1, resp.Count)
}

func (s *PropertyHandlerSuite) TestHoldings() {
	router, mockService := newTestRouter(s.T())
	wallet := solana.NewWallet().PublicKey()
	property := testProperty()
	mockService.EXPECT().Holdings(gomock.Any(), wallet).Return([]service.Holding{
		{Property: property, Balance: 100},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets/"+wallet.String()+"/holdings", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Holdings []struct {
			Balance          uint64 `json:"balance"`
			EstimatedMonthly uint64 `json:"estimated_monthly_yield"`
		} `json:"holdings"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Require().Len(resp.Holdings, 1)
	s.Equal(uint64(100), resp.Holdings[0].Balance)
	// 100000/100 * 100 / 1000 = 100.
	s.Equal(uint64(100), resp.Holdings[0].EstimatedMonthly)
}

func (s *PropertyHandlerSuite) TestGetRejectsBadAssetKey() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/properties/zz!!", nil))

	s.Equal(http.StatusBadRequest, rec.Code)
}
