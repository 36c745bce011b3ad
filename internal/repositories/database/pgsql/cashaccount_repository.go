package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/models"
	"github.com/invobook/invoicing_app/internal/utils/mapping"
)

type PgxCashAccountRepository struct {
	BaseRepository
}

func newPgxCashAccountRepository(db *pgxpool.Pool) *PgxCashAccountRepository {
	return &PgxCashAccountRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CashAccountRepository = (*PgxCashAccountRepository)(nil)

const cashAccountColumns = `account_id, company_id, name, currency_code, initial_balance, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanCashAccount(row pgx.Row) (*models.CashAccount, error) {
	var m models.CashAccount
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Name,
		&m.CurrencyCode,
		&m.InitialBalance,
		&m.Balance,
		&m.IsActive,
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

func (r *PgxCashAccountRepository) SaveCashAccount(ctx context.Context, account domain.CashAccount) error {
	m := mapping.ToModelCashAccount(account)
	query := `
        INSERT INTO cash_accounts (` + cashAccountColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.CompanyID, m.Name, m.CurrencyCode,
		m.InitialBalance, m.Balance, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save cash account: %w", err)
	}
	return nil
}

func (r *PgxCashAccountRepository) FindCashAccountByID(ctx context.Context, accountID string) (*domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE account_id = $1;`
	m, err := scanCashAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash account by ID %s: %w", accountID, err)
	}
	account := mapping.ToDomainCashAccount(*m)
	return &account, nil
}

func (r *PgxCashAccountRepository) ListCashAccountsByCompany(ctx context.Context, companyID string) ([]domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE company_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.CashAccount{}
	for rows.Next() {
		m, err := scanCashAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainCashAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash account rows: %w", err)
	}
	return accounts, nil
}

// UpdateCashAccount writes name and active flag. Balance is never written
// here, only AdjustBalanceInTx touches it.
func (r *PgxCashAccountRepository) UpdateCashAccount(ctx context.Context, account domain.CashAccount) error {
	m := mapping.ToModelCashAccount(account)
	query := `
        UPDATE cash_accounts
        SET name = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
        WHERE account_id = $1;
    `
	tag, err := r.Pool.Exec(ctx, query, m.AccountID, m.Name, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update cash account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCashAccountRepository) FindCashAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE account_id = $1 FOR UPDATE;`
	m, err := scanCashAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock cash account %s: %w", accountID, err)
	}
	account := mapping.ToDomainCashAccount(*m)
	return &account, nil
}

func (r *PgxCashAccountRepository) AdjustBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, updatedBy string) error {
	query := `
        UPDATE cash_accounts
        SET balance = balance + $2, last_updated_at = NOW(), last_updated_by = $3
        WHERE account_id = $1;
    `
	tag, err := tx.Exec(ctx, query, accountID, delta, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of cash account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
