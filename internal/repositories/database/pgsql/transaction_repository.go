package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/models"
	"github.com/invobook/invoicing_app/internal/utils/mapping"
	"github.com/invobook/invoicing_app/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo *PgxCashAccountRepository
	applier     portsrepo.InvoicePaymentApplier
}

func newPgxTransactionRepository(db *pgxpool.Pool, accountRepo *PgxCashAccountRepository, applier portsrepo.InvoicePaymentApplier) *PgxTransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: db},
		accountRepo:    accountRepo,
		applier:        applier,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, company_id, account_id, type, amount, description, category, invoice_id, transaction_date, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.AccountID,
		&m.Type,
		&m.Amount,
		&m.Description,
		&m.Category,
		&m.InvoiceID,
		&m.TransactionDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveTransaction posts a ledger entry. The account row is locked first, then
// the balance delta, the entry insert and any linked invoice payment all
// commit together or not at all. Returns the updated invoice for linked
// entries, nil otherwise.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	account, err := r.accountRepo.FindCashAccountForUpdate(ctx, tx, txn.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("cash account %s is inactive: %w", txn.AccountID, apperrors.ErrValidation)
	}

	if err := r.accountRepo.AdjustBalanceInTx(ctx, tx, txn.AccountID, txn.SignedAmount(), txn.CreatedBy); err != nil {
		return nil, err
	}

	m := mapping.ToModelTransaction(txn)
	query := `
        INSERT INTO transactions (` + transactionColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	if _, err := tx.Exec(ctx, query,
		m.TransactionID, m.CompanyID, m.AccountID, m.Type, m.Amount,
		m.Description, m.Category, m.InvoiceID, m.TransactionDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	var updatedInvoice *domain.Invoice
	if txn.InvoiceID != nil {
		// The recorded payment date drives paid_at and status derivation, so
		// a backdated entry settles the invoice as of that date.
		updatedInvoice, err = r.applier.ApplyPaymentInTx(ctx, tx, *txn.InvoiceID, txn.Amount, txn.CreatedBy, txn.TransactionDate)
		if err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updatedInvoice, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

func (r *PgxTransactionRepository) ListTransactionsByCompany(ctx context.Context, companyID string, accountID *string, txnType *domain.TransactionType, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1`
	args := []any{companyID}
	argPos := 2

	if accountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argPos)
		args = append(args, *accountID)
		argPos++
	}
	if txnType != nil {
		query += fmt.Sprintf(" AND type = $%d", argPos)
		args = append(args, string(*txnType))
		argPos++
	}
	if nextToken != nil {
		txnDate, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (transaction_date, transaction_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, txnDate, id)
		argPos += 2
	}
	query += fmt.Sprintf(" ORDER BY transaction_date DESC, transaction_id DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeToken(last.TransactionDate, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}

func (r *PgxTransactionRepository) ListTransactionsByInvoice(ctx context.Context, invoiceID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE invoice_id = $1 ORDER BY transaction_date;`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}
