package services

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/dto"
)

// CashAccountReaderSvc defines read operations for cash accounts
type CashAccountReaderSvc interface {
	// GetCashAccountByID retrieves a cash account within the caller's company.
	GetCashAccountByID(ctx context.Context, callerID string, accountID string) (*domain.CashAccount, error)

	// ListCashAccounts lists the caller's company's cash accounts.
	ListCashAccounts(ctx context.Context, callerID string) ([]domain.CashAccount, error)
}

// CashAccountWriterSvc defines write operations for cash accounts
type CashAccountWriterSvc interface {
	// CreateCashAccount creates a cash account in the caller's company.
	CreateCashAccount(ctx context.Context, callerID string, req dto.CreateCashAccountRequest) (*domain.CashAccount, error)

	// UpdateCashAccount updates name or active flag. Balance is untouchable.
	UpdateCashAccount(ctx context.Context, callerID string, accountID string, req dto.UpdateCashAccountRequest) (*domain.CashAccount, error)
}

// CashAccountSvcFacade combines all cash-account-related service interfaces
type CashAccountSvcFacade interface {
	CashAccountReaderSvc
	CashAccountWriterSvc
}

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction within the caller's company.
	GetTransactionByID(ctx context.Context, callerID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions lists the caller's company's transactions, newest
	// first, with token-based pagination and optional filters.
	ListTransactions(ctx context.Context, callerID string, params dto.ListTransactionsParams) ([]domain.Transaction, string, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction posts a ledger entry and moves the account balance
	// in one store transaction. If the entry is linked to an invoice the
	// invoice's payment state advances atomically with it; the updated
	// invoice, when affected, is returned alongside the transaction.
	CreateTransaction(ctx context.Context, callerID string, req dto.CreateTransactionRequest) (*domain.Transaction, *domain.Invoice, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
