package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/core/services"
	"github.com/invobook/invoicing_app/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockClientRepo  *MockClientRepository
	mockTxnRepo     *MockTransactionRepository
	mockUserRepo    *MockUserRepository
	mockNotifier    *MockNotifier
	service         portssvc.InvoiceSvcFacade

	companyID string
	callerID  string
	caller    *domain.User
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockClientRepo = new(MockClientRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockClientRepo,
		suite.mockTxnRepo,
		suite.mockUserRepo,
		suite.mockNotifier,
	)

	suite.companyID = uuid.NewString()
	suite.callerID = uuid.NewString()
	suite.caller = &domain.User{
		UserID:    suite.callerID,
		Role:      domain.RoleAdmin,
		CompanyID: &suite.companyID,
	}
}

func (suite *InvoiceServiceTestSuite) expectCaller() {
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.callerID).Return(suite.caller, nil)
}

func (suite *InvoiceServiceTestSuite) newClient() *domain.Client {
	return &domain.Client{
		ClientID:  uuid.NewString(),
		CompanyID: suite.companyID,
		Name:      "Acme Ltd",
		Email:     "billing@acme.example",
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	suite.expectCaller()
	client := suite.newClient()

	req := dto.CreateInvoiceRequest{
		ClientID: client.ClientID,
		DueDate:  time.Now().Add(30 * 24 * time.Hour),
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(150)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(49)},
		},
	}

	saved := &domain.Invoice{Status: domain.InvoiceDraft, InvoiceNumber: "INV-000001", CompanyID: suite.companyID}

	suite.mockClientRepo.On("FindClientByID", ctx, client.ClientID).Return(client, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv domain.Invoice) bool {
		return inv.CompanyID == suite.companyID &&
			inv.Status == domain.InvoiceDraft &&
			inv.TotalAmount.Equal(decimal.NewFromInt(1549)) &&
			len(inv.Items) == 2 &&
			inv.ClientName == client.Name
	})).Return(saved, nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.callerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("INV-000001", created.InvoiceNumber)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_MissingDueDate() {
	ctx := context.Background()
	suite.expectCaller()

	req := dto.CreateInvoiceRequest{
		ClientID: uuid.NewString(),
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.CreateInvoice(ctx, suite.callerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ClientFromOtherCompany() {
	ctx := context.Background()
	suite.expectCaller()
	client := suite.newClient()
	client.CompanyID = uuid.NewString()

	req := dto.CreateInvoiceRequest{
		ClientID: client.ClientID,
		DueDate:  time.Now().Add(24 * time.Hour),
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
	}

	suite.mockClientRepo.On("FindClientByID", ctx, client.ClientID).Return(client, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.callerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_WrongCompanyIsNotFound() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: uuid.NewString()}, nil).Once()

	_, err := suite.service.GetInvoiceByID(ctx, suite.callerID, invoiceID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_RejectsNonDraft() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceSent}, nil).Once()

	notes := "updated"
	_, err := suite.service.UpdateInvoice(ctx, suite.callerID, invoiceID, dto.UpdateInvoiceRequest{Notes: &notes})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateDraftInvoice", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestSendInvoice_Success() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	draft := &domain.Invoice{
		InvoiceID: invoiceID,
		CompanyID: suite.companyID,
		Status:    domain.InvoiceDraft,
	}
	sent := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		InvoiceNumber: "INV-000007",
		ClientName:    "Acme Ltd",
		Status:        domain.InvoiceSent,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(draft, nil).Once()
	suite.mockInvoiceRepo.On("MarkInvoiceSent", ctx, invoiceID, suite.callerID, mock.AnythingOfType("time.Time")).
		Return(sent, nil).Once()
	suite.mockNotifier.On("NotifyCompanyAdmins", ctx, suite.companyID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoiceSent
	})).Return().Once()

	got, err := suite.service.SendInvoice(ctx, suite.callerID, invoiceID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceSent, got.Status)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_AlreadyPaid() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, IsPaid: true, Status: domain.InvoicePaid}, nil).Once()

	_, err := suite.service.RecordPayment(ctx, suite.callerID, invoiceID, dto.RecordPaymentRequest{
		CashAccountID: uuid.NewString(),
		Amount:        decimal.NewFromInt(100),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestMarkPaid_SettlesRemainderAndNotifies() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{
			InvoiceID:   invoiceID,
			CompanyID:   suite.companyID,
			Status:      domain.InvoiceSent,
			TotalAmount: decimal.NewFromInt(500),
			AmountPaid:  decimal.NewFromInt(200),
		}, nil).Once()

	settled := &domain.Invoice{
		InvoiceID:   invoiceID,
		CompanyID:   suite.companyID,
		IsPaid:      true,
		Status:      domain.InvoicePaid,
		TotalAmount: decimal.NewFromInt(500),
		AmountPaid:  decimal.NewFromInt(500),
	}
	suite.mockInvoiceRepo.On("MarkInvoicePaid", ctx, invoiceID, suite.callerID, mock.AnythingOfType("time.Time")).
		Return(settled, nil).Once()
	suite.mockNotifier.On("NotifyCompanyAdmins", ctx, suite.companyID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoicePaid
	})).Once()

	invoice, err := suite.service.MarkPaid(ctx, suite.callerID, invoiceID)

	suite.Require().NoError(err)
	suite.True(invoice.IsPaid)
	suite.Equal(domain.InvoicePaid, invoice.Status)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkPaid_AlreadyPaidRejected() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, IsPaid: true, Status: domain.InvoicePaid}, nil).Once()

	_, err := suite.service.MarkPaid(ctx, suite.callerID, invoiceID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "MarkInvoicePaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_FullPaymentNotifies() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	accountID := uuid.NewString()
	unpaid := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		InvoiceNumber: "INV-000003",
		TotalAmount:   decimal.NewFromInt(500),
		Status:        domain.InvoiceUnpaid,
	}
	paid := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		InvoiceNumber: "INV-000003",
		TotalAmount:   decimal.NewFromInt(500),
		AmountPaid:    decimal.NewFromInt(500),
		IsPaid:        true,
		Status:        domain.InvoicePaid,
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(unpaid, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.Income &&
			txn.AccountID == accountID &&
			txn.InvoiceID != nil && *txn.InvoiceID == invoiceID &&
			txn.Amount.Equal(decimal.NewFromInt(500))
	})).Return(paid, nil).Once()
	suite.mockNotifier.On("NotifyCompanyAdmins", ctx, suite.companyID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoicePaid
	})).Return().Once()

	got, err := suite.service.RecordPayment(ctx, suite.callerID, invoiceID, dto.RecordPaymentRequest{
		CashAccountID: accountID,
		Amount:        decimal.NewFromInt(500),
	})

	suite.Require().NoError(err)
	suite.True(got.IsPaid)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue_NotifiesPerInvoice() {
	ctx := context.Background()
	now := time.Now()

	swept := []domain.Invoice{
		{InvoiceID: uuid.NewString(), CompanyID: suite.companyID, InvoiceNumber: "INV-000001", Status: domain.InvoiceOverdue},
		{InvoiceID: uuid.NewString(), CompanyID: suite.companyID, InvoiceNumber: "INV-000002", Status: domain.InvoiceOverdue},
	}

	suite.mockInvoiceRepo.On("SweepOverdue", ctx, now).Return(swept, nil).Once()
	suite.mockNotifier.On("NotifyCompanyAdmins", ctx, suite.companyID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoiceOverdue && n.Priority == domain.PriorityHigh
	})).Return().Times(2)

	got, err := suite.service.SweepOverdue(ctx, now)

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestSweepOverdue_EmptyIsQuiet() {
	ctx := context.Background()
	now := time.Now()

	suite.mockInvoiceRepo.On("SweepOverdue", ctx, now).Return([]domain.Invoice{}, nil).Once()

	got, err := suite.service.SweepOverdue(ctx, now)

	suite.Require().NoError(err)
	suite.Empty(got)
	suite.mockNotifier.AssertNotCalled(suite.T(), "NotifyCompanyAdmins", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_RejectsNonDraft() {
	ctx := context.Background()
	suite.expectCaller()

	invoiceID := uuid.NewString()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceOverdue}, nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.callerID, invoiceID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "DeleteDraftInvoice", mock.Anything, mock.Anything)
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
