package repositories

import (
	"context"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CashAccountRepository defines persistence operations for cash accounts.
type CashAccountRepository interface {
	SaveCashAccount(ctx context.Context, account domain.CashAccount) error
	FindCashAccountByID(ctx context.Context, accountID string) (*domain.CashAccount, error)
	ListCashAccountsByCompany(ctx context.Context, companyID string) ([]domain.CashAccount, error)
	UpdateCashAccount(ctx context.Context, account domain.CashAccount) error
	// FindCashAccountForUpdate locks the account row inside tx.
	FindCashAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.CashAccount, error)
	// AdjustBalanceInTx applies a signed delta to the locked account's balance.
	AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, updatedBy string) error
}

// TransactionRepository defines persistence operations for ledger entries.
// SaveTransaction posts the entry, adjusts the cash account balance and, for
// invoice-linked entries, applies the payment to the invoice, all inside one
// database transaction.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Invoice, error)
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByCompany(ctx context.Context, companyID string, accountID *string, txnType *domain.TransactionType, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	ListTransactionsByInvoice(ctx context.Context, invoiceID string) ([]domain.Transaction, error)
}
