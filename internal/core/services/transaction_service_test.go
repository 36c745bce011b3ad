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

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockCashAccountRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockUserRepo    *MockUserRepository
	mockNotifier    *MockNotifier
	service         portssvc.TransactionSvcFacade

	companyID string
	callerID  string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockCashAccountRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewTransactionService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockInvoiceRepo,
		suite.mockUserRepo,
		suite.mockNotifier,
	)

	suite.companyID = uuid.NewString()
	suite.callerID = uuid.NewString()
	suite.mockUserRepo.On("FindUserByID", mock.Anything, suite.callerID).Return(&domain.User{
		UserID:    suite.callerID,
		Role:      domain.RoleUser,
		CompanyID: &suite.companyID,
	}, nil)
}

func (suite *TransactionServiceTestSuite) activeAccount() *domain.CashAccount {
	return &domain.CashAccount{
		AccountID:    uuid.NewString(),
		CompanyID:    suite.companyID,
		Name:         "Main checking",
		CurrencyCode: "USD",
		Balance:      decimal.NewFromInt(1000),
		IsActive:     true,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseSuccess() {
	ctx := context.Background()
	account := suite.activeAccount()

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.CompanyID == suite.companyID &&
			txn.Type == domain.Expense &&
			txn.Amount.Equal(decimal.NewFromInt(250)) &&
			txn.InvoiceID == nil
	})).Return(nil, nil).Once()

	txn, invoice, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID:   account.AccountID,
		Type:        "EXPENSE",
		Amount:      decimal.NewFromInt(250),
		Description: "Office rent",
		Category:    "rent",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Nil(invoice)
	suite.Equal(suite.callerID, txn.CreatedBy)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InactiveAccount() {
	ctx := context.Background()
	account := suite.activeAccount()
	account.IsActive = false

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	_, _, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID: account.AccountID,
		Type:      "EXPENSE",
		Amount:    decimal.NewFromInt(10),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_ExpenseLinkedToInvoice() {
	ctx := context.Background()
	account := suite.activeAccount()
	invoiceID := uuid.NewString()

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceSent}, nil).Once()

	_, _, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID: account.AccountID,
		Type:      "EXPENSE",
		Amount:    decimal.NewFromInt(10),
		InvoiceID: &invoiceID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_LinkedPaymentCompletesInvoice() {
	ctx := context.Background()
	account := suite.activeAccount()
	invoiceID := uuid.NewString()

	open := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		InvoiceNumber: "INV-000042",
		TotalAmount:   decimal.NewFromInt(300),
		Status:        domain.InvoiceUnpaid,
	}
	paid := &domain.Invoice{
		InvoiceID:     invoiceID,
		CompanyID:     suite.companyID,
		InvoiceNumber: "INV-000042",
		TotalAmount:   decimal.NewFromInt(300),
		AmountPaid:    decimal.NewFromInt(300),
		IsPaid:        true,
		Status:        domain.InvoicePaid,
	}

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(open, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.Income && txn.InvoiceID != nil && *txn.InvoiceID == invoiceID
	})).Return(paid, nil).Once()
	suite.mockNotifier.On("NotifyCompanyAdmins", ctx, suite.companyID, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoicePaid
	})).Return().Once()

	txn, invoice, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID: account.AccountID,
		Type:      "INCOME",
		Amount:    decimal.NewFromInt(300),
		InvoiceID: &invoiceID,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Require().NotNil(invoice)
	suite.True(invoice.IsPaid)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_BackdatedPaymentKeepsRecordedDate() {
	ctx := context.Background()
	account := suite.activeAccount()
	invoiceID := uuid.NewString()
	backdate := time.Now().AddDate(0, 0, -10)

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, TotalAmount: decimal.NewFromInt(300), Status: domain.InvoiceOverdue}, nil).Once()
	// TransactionDate carries the recorded payment date while CreatedAt stays
	// the server clock. The store derives paid_at and status from the former.
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.TransactionDate.Equal(backdate) && txn.CreatedAt.After(backdate)
	})).Return(nil, nil).Once()

	txn, _, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID:       account.AccountID,
		Type:            "INCOME",
		Amount:          decimal.NewFromInt(100),
		InvoiceID:       &invoiceID,
		TransactionDate: &backdate,
	})

	suite.Require().NoError(err)
	suite.True(txn.TransactionDate.Equal(backdate))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PaidInvoiceRejected() {
	ctx := context.Background()
	account := suite.activeAccount()
	invoiceID := uuid.NewString()

	suite.mockAccountRepo.On("FindCashAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).
		Return(&domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, IsPaid: true, Status: domain.InvoicePaid}, nil).Once()

	_, _, err := suite.service.CreateTransaction(ctx, suite.callerID, dto.CreateTransactionRequest{
		AccountID: account.AccountID,
		Type:      "INCOME",
		Amount:    decimal.NewFromInt(50),
		InvoiceID: &invoiceID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_UnknownType() {
	ctx := context.Background()

	_, _, err := suite.service.ListTransactions(ctx, suite.callerID, dto.ListTransactionsParams{Type: "TRANSFER"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_WrongCompanyIsNotFound() {
	ctx := context.Background()
	txnID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(&domain.Transaction{
		TransactionID:   txnID,
		CompanyID:       uuid.NewString(),
		Type:            domain.Income,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: time.Now(),
	}, nil).Once()

	_, err := suite.service.GetTransactionByID(ctx, suite.callerID, txnID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
