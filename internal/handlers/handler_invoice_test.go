package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/dto"
	"github.com/invobook/invoicing_app/internal/handlers"
	"github.com/invobook/invoicing_app/internal/platform/config"
)

// --- Mock InvoiceService ---

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, callerID string, params dto.ListInvoicesParams) ([]domain.Invoice, string, error) {
	args := m.Called(ctx, callerID, params)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.String(1), args.Error(2)
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, callerID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, callerID string, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, callerID string, invoiceID string) error {
	args := m.Called(ctx, callerID, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceService) SendInvoice(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) RecordPayment(ctx context.Context, callerID string, invoiceID string, req dto.RecordPaymentRequest) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, invoiceID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, callerID string, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, callerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) SweepOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock UserService (only GetUserByID is exercised here) ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListEmployees(ctx context.Context, callerID string, params dto.ListUsersParams) ([]domain.User, error) {
	args := m.Called(ctx, callerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) CreateEmployee(ctx context.Context, callerID string, req dto.CreateEmployeeRequest) (*domain.User, error) {
	args := m.Called(ctx, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, callerID string, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, callerID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, callerID string, userID string) error {
	args := m.Called(ctx, callerID, userID)
	return args.Error(0)
}

func (m *MockUserService) ResetPassword(ctx context.Context, callerID string, userID string, req dto.ResetPasswordRequest) error {
	args := m.Called(ctx, callerID, userID, req)
	return args.Error(0)
}

func (m *MockUserService) ChangePassword(ctx context.Context, callerID string, req dto.ChangePasswordRequest) error {
	args := m.Called(ctx, callerID, req)
	return args.Error(0)
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---

type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	mockUserService    *MockUserService
	jwtSecret          string
}

func (suite *InvoiceHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "invoicing-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockInvoiceService = new(MockInvoiceService)
	suite.mockUserService = new(MockUserService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skips the swagger routes
	}
	container := &portssvc.ServiceContainer{
		Invoice: suite.mockInvoiceService,
		User:    suite.mockUserService,
	}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *InvoiceHandlerTestSuite) doRequest(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_Success() {
	callerID := uuid.NewString()
	clientID := uuid.NewString()
	dueDate := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)

	created := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		CompanyID:     uuid.NewString(),
		ClientID:      clientID,
		InvoiceNumber: "INV-000001",
		TotalAmount:   decimal.NewFromInt(1500),
		Status:        domain.InvoiceDraft,
		DueDate:       dueDate,
	}

	suite.mockInvoiceService.On("CreateInvoice", mock.Anything, callerID, mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool {
		return req.ClientID == clientID && len(req.Items) == 1
	})).Return(created, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices", callerID, gin.H{
		"clientID": clientID,
		"dueDate":  dueDate.Format(time.RFC3339),
		"items": []gin.H{
			{"description": "Consulting", "quantity": "10", "unitPrice": "150"},
		},
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-000001", resp.InvoiceNumber)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_ValidationError() {
	callerID := uuid.NewString()

	// Missing items entirely, binding rejects before the service is called.
	w := suite.doRequest(http.MethodPost, "/api/v1/invoices", callerID, gin.H{
		"clientID": uuid.NewString(),
		"dueDate":  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_NotFound() {
	callerID := uuid.NewString()
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("GetInvoiceByID", mock.Anything, callerID, invoiceID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/"+invoiceID, callerID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_Unauthenticated() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestSendInvoice_NonDraftRejected() {
	callerID := uuid.NewString()
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("SendInvoice", mock.Anything, callerID, invoiceID).
		Return(nil, fmt.Errorf("only DRAFT invoices can be sent: %w", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/send", callerID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestRecordPayment_Success() {
	callerID := uuid.NewString()
	invoiceID := uuid.NewString()
	accountID := uuid.NewString()

	paid := &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-000005",
		TotalAmount:   decimal.NewFromInt(500),
		AmountPaid:    decimal.NewFromInt(500),
		IsPaid:        true,
		Status:        domain.InvoicePaid,
	}

	suite.mockInvoiceService.On("RecordPayment", mock.Anything, callerID, invoiceID, mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
		return req.CashAccountID == accountID && req.Amount.Equal(decimal.NewFromInt(500))
	})).Return(paid, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", callerID, gin.H{
		"cashAccountID": accountID,
		"amount":        "500",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.InvoicePaid, resp.Status)
	suite.True(resp.IsPaid)
}

func (suite *InvoiceHandlerTestSuite) TestSweepOverdue_ForbiddenForAdmin() {
	callerID := uuid.NewString()
	companyID := uuid.NewString()

	suite.mockUserService.On("GetUserByID", mock.Anything, callerID).
		Return(&domain.User{UserID: callerID, Role: domain.RoleAdmin, CompanyID: &companyID}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices/sweep-overdue", callerID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "SweepOverdue", mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestSweepOverdue_SuperadminSucceeds() {
	callerID := uuid.NewString()

	suite.mockUserService.On("GetUserByID", mock.Anything, callerID).
		Return(&domain.User{UserID: callerID, Role: domain.RoleSuperadmin}, nil).Once()
	suite.mockInvoiceService.On("SweepOverdue", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]domain.Invoice{{InvoiceID: uuid.NewString(), Status: domain.InvoiceOverdue}}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices/sweep-overdue", callerID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp map[string]int
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp["swept"])
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestListInvoices_PassesFilters() {
	callerID := uuid.NewString()

	suite.mockInvoiceService.On("ListInvoices", mock.Anything, callerID, mock.MatchedBy(func(p dto.ListInvoicesParams) bool {
		return p.Status == "OVERDUE" && p.Limit == 5
	})).Return([]domain.Invoice{}, "", nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices?status=OVERDUE&limit=5", callerID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
