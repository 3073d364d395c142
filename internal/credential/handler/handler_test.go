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

	"civitas/internal/credential/handler/mocks"
	"civitas/internal/credential/models"
	"civitas/internal/credential/service"
	jwttoken "civitas/internal/jwt_token"
	dErrors "civitas/pkg/domain-errors"
)

type CredentialHandlerSuite struct {
	suite.Suite
}

func TestCredentialHandlerSuite(t *testing.T) {
	suite.Run(t, new(CredentialHandlerSuite))
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

func testCredential(issuer, student solana.PublicKey) *models.Credential {
	return &models.Credential{
		Asset:       solana.NewWallet().PublicKey(),
		Student:     student,
		Issuer:      issuer,
		StudentName: "Ada Lovelace",
		CourseName:  "Distributed Systems",
		IssuerName:  "Civitas Academy",
		MintTime:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *CredentialHandlerSuite) TestIssue() {
	router, mockService := newTestRouter(s.T())
	issuer := solana.NewWallet().PublicKey()
	student := solana.NewWallet().PublicKey()
	credential := testCredential(issuer, student)

	mockService.EXPECT().Issue(gomock.Any(), service.IssueParams{
		Issuer:      issuer,
		Student:     student,
		StudentName: "Ada Lovelace",
		CourseName:  "Distributed Systems",
		IssuerName:  "Civitas Academy",
		MetadataURI: "https://meta.civitas.dev/credentials/1.json",
	}).Return(credential, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/credentials", map[string]string{
		"student":      student.String(),
		"student_name": "Ada Lovelace",
		"course_name":  "Distributed Systems",
		"issuer_name":  "Civitas Academy",
		"metadata_uri": "https://meta.civitas.dev/credentials/1.json",
	}, issuer))

	s.Equal(http.StatusCreated, rec.Code)
	var resp struct {
		Asset      string `json:"asset"`
		CourseName string `json:"course_name"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(credential.Asset.String(), resp.Asset)
	s.Equal("Distributed Systems", resp.CourseName)
}

func (s *CredentialHandlerSuite) TestIssueRequiresToken() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/credentials", nil))

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *CredentialHandlerSuite) TestIssueUnauthorizedIssuer() {
	router, mockService := newTestRouter(s.T())
	issuer := solana.NewWallet().PublicKey()
	student := solana.NewWallet().PublicKey()
	mockService.EXPECT().Issue(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "issuer is not on the platform allow-list"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/credentials", map[string]string{
		"student":      student.String(),
		"student_name": "Ada Lovelace",
		"course_name":  "Distributed Systems",
		"issuer_name":  "Civitas Academy",
		"metadata_uri": "https://meta.civitas.dev/credentials/1.json",
	}, issuer))

	s.Equal(http.StatusForbidden, rec.Code)
	var resp struct {
		Error string `json:"error"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(string(dErrors.CodeUnauthorized), resp.Error)
}

func (s *CredentialHandlerSuite) TestIssueRejectsBadStudentKey() {
	router, _ := newTestRouter(s.T())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(s.T(), http.MethodPost, "/credentials",
		map[string]string{"student": "not-a-key"}, solana.NewWallet().PublicKey()))

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *CredentialHandlerSuite) TestGet() {
	router, mockService := newTestRouter(s.T())
	credential := testCredential(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())
	mockService.EXPECT().Get(gomock.Any(), credential.Asset).Return(credential, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/credentials/"+credential.Asset.String(), nil))

	s.Equal(http.StatusOK, rec.Code)
}

func (s *CredentialHandlerSuite) TestGetNotFound() {
	router, mockService := newTestRouter(s.T())
	assetID := solana.NewWallet().PublicKey()
	mockService.EXPECT().Get(gomock.Any(), assetID).
		Return(nil, dErrors.New(dErrors.CodeNotFound, "credential not found"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/credentials/"+assetID.String(), nil))

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *CredentialHandlerSuite) TestListByHolder() {
	router, mockService := newTestRouter(s.T())
	wallet := solana.NewWallet().PublicKey()
	mockService.EXPECT().ListByHolder(gomock.Any(), wallet).Return([]*models.Credential{
		testCredential(solana.NewWallet().PublicKey(), wallet),
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets/"+wallet.String()+"/credentials", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(1, resp.Count)
}

func (s *CredentialHandlerSuite) TestVerify() {
	router, mockService := newTestRouter(s.T())
	wallet := solana.NewWallet().PublicKey()
	mockService.EXPECT().VerifyWallet(gomock.Any(), wallet).Return(3, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets/"+wallet.String()+"/verify", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		Verified        bool `json:"verified"`
		CredentialCount int  `json:"credential_count"`
	}
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Verified)
	s.Equal(3, resp.CredentialCount)
}
