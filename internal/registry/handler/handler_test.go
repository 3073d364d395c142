package handler

import (
	"bytes"
	"context"
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
	"civitas/internal/registry/handler/mocks"
	"civitas/internal/registry/models"
	dErrors "civitas/pkg/domain-errors"
)

type RegistryHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *RegistryHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestRegistryHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistryHandlerSuite))
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

func testPlatform(authority solana.PublicKey) *models.Platform {
	return &models.Platform{
		Authority:       authority,
		SettlementAsset: solana.NewWallet().PublicKey(),
	}
}

func (s *RegistryHandlerSuite) TestInitPlatform() {
	router, mockService := newTestRouter(s.T())
	authority := solana.NewWallet().PublicKey()
	mockService.EXPECT().InitPlatform(gomock.Any(), authority).Return(testPlatform(authority), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/platform", nil, authority))

	s.Equal(http.StatusCreated, rec.Code)
	var resp struct {
		Authority   string `json:"authority"`
		IssuerCount int    `json:"issuer_count"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(authority.String(), resp.Authority)
	s.Zero(resp.IssuerCount)
}

func (s *RegistryHandlerSuite) TestInitPlatformRequiresToken() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/platform", nil))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RegistryHandlerSuite) TestInitPlatformConflict() {
	router, mockService := newTestRouter(s.T())
	authority := solana.NewWallet().PublicKey()
	mockService.EXPECT().InitPlatform(gomock.Any(), authority).
		Return(nil, dErrors.New(dErrors.CodeDuplicate, "platform is already initialized"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/platform", nil, authority))

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *RegistryHandlerSuite) TestAddIssuer() {
	router, mockService := newTestRouter(s.T())
	authority := solana.NewWallet().PublicKey()
	issuer := solana.NewWallet().PublicKey()
	mockService.EXPECT().AddIssuer(gomock.Any(), authority, issuer).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/issuers",
		map[string]string{"issuer": issuer.String()}, authority))

	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RegistryHandlerSuite) TestAddIssuerRejectsBadKey() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/issuers",
		map[string]string{"issuer": "not-a-key"}, solana.NewWallet().PublicKey()))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RegistryHandlerSuite) TestAddIssuerForbidden() {
	router, mockService := newTestRouter(s.T())
	caller := solana.NewWallet().PublicKey()
	issuer := solana.NewWallet().PublicKey()
	mockService.EXPECT().AddIssuer(gomock.Any(), caller, issuer).
		Return(dErrors.New(dErrors.CodeUnauthorized, "caller is not the platform authority"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/issuers",
		map[string]string{"issuer": issuer.String()}, caller))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RegistryHandlerSuite) TestFundPool() {
	router, mockService := newTestRouter(s.T())
	authority := solana.NewWallet().PublicKey()
	mockService.EXPECT().FundPool(gomock.Any(), authority, uint64(5000)).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/platform/pool",
		map[string]uint64{"amount": 5000}, authority))

	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RegistryHandlerSuite) TestFundPoolRejectsZeroAmount() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/platform/pool",
		map[string]uint64{"amount": 0}, solana.NewWallet().PublicKey()))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RegistryHandlerSuite) TestListIssuers() {
	router, mockService := newTestRouter(s.T())
	issuers := []solana.PublicKey{solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()}
	mockService.EXPECT().ListIssuers(gomock.Any()).Return(issuers, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issuers", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Issuers []string `json:"issuers"`
		Count   int      `json:"count"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(2, resp.Count)
	s.Equal(issuers[0].String(), resp.Issuers[0])
}

func (s *RegistryHandlerSuite) TestCheckIssuer() {
	router, mockService := newTestRouter(s.T())
	issuer := solana.NewWallet().PublicKey()
	mockService.EXPECT().IsAuthorizedIssuer(gomock.Any(), issuer).Return(true, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issuers/check/"+issuer.String(), nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Authorized bool `json:"authorized"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Authorized)
}

func (s *RegistryHandlerSuite) TestGetPlatformNotInitialized() {
	router, mockService := newTestRouter(s.T())
	mockService.EXPECT().Platform(gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "platform is not initialized"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/platform", nil))

	s.Equal(http.StatusNotFound, rec.Code)
}
