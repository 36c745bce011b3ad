package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	"github.com/invobook/invoicing_app/internal/models"
	"github.com/invobook/invoicing_app/internal/utils/mapping"
	"github.com/invobook/invoicing_app/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(db *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: db}}
}

var (
	_ portsrepo.InvoiceRepository     = (*PgxInvoiceRepository)(nil)
	_ portsrepo.InvoicePaymentApplier = (*PgxInvoiceRepository)(nil)
)

const invoiceColumns = `invoice_id, company_id, client_id, client_name, client_email, client_tax_id, invoice_number, sequence, total_amount, amount_paid, is_paid, issue_date, due_date, status, paid_at, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.CompanyID,
		&m.ClientID,
		&m.ClientName,
		&m.ClientEmail,
		&m.ClientTaxID,
		&m.InvoiceNumber,
		&m.Sequence,
		&m.TotalAmount,
		&m.AmountPaid,
		&m.IsPaid,
		&m.IssueDate,
		&m.DueDate,
		&m.Status,
		&m.PaidAt,
		&m.Notes,
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

func (r *PgxInvoiceRepository) loadItems(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
        SELECT item_id, invoice_id, description, quantity, unit_price, total
        FROM invoice_items
        WHERE invoice_id = $1
        ORDER BY item_id;
    `
	rows, err := q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var m models.InvoiceItem
		if err := rows.Scan(&m.ItemID, &m.InvoiceID, &m.Description, &m.Quantity, &m.UnitPrice, &m.Total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		items = append(items, mapping.ToDomainInvoiceItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", err)
	}
	return items, nil
}

func insertItemsBatch(ctx context.Context, tx pgx.Tx, items []domain.InvoiceItem) error {
	batch := &pgx.Batch{}
	query := `
        INSERT INTO invoice_items (item_id, invoice_id, description, quantity, unit_price, total)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	for _, item := range items {
		m := mapping.ToModelInvoiceItem(item)
		batch.Queue(query, m.ItemID, m.InvoiceID, m.Description, m.Quantity, m.UnitPrice, m.Total)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

// SaveInvoice inserts the invoice and its items atomically. The per-company
// sequence is assigned under the company row lock so concurrent creates never
// collide on an invoice number.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var exists string
	if err := tx.QueryRow(ctx, `SELECT company_id FROM companies WHERE company_id = $1 FOR UPDATE;`, invoice.CompanyID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock company row: %w", err)
	}

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) + 1 FROM invoices WHERE company_id = $1;`, invoice.CompanyID).Scan(&seq); err != nil {
		return nil, fmt.Errorf("failed to compute invoice sequence: %w", err)
	}

	invoice.InvoiceNumber = fmt.Sprintf("INV-%06d", seq)
	m := mapping.ToModelInvoice(invoice)
	m.Sequence = seq

	query := `
        INSERT INTO invoices (` + invoiceColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
    `
	if _, err := tx.Exec(ctx, query,
		m.InvoiceID, m.CompanyID, m.ClientID, m.ClientName, m.ClientEmail, m.ClientTaxID,
		m.InvoiceNumber, m.Sequence, m.TotalAmount, m.AmountPaid, m.IsPaid,
		m.IssueDate, m.DueDate, m.Status, m.PaidAt, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	if err := insertItemsBatch(ctx, tx, invoice.Items); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}

	invoice := mapping.ToDomainInvoice(*m)
	items, err := r.loadItems(ctx, r.Pool, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

// ListInvoicesByCompany pages newest-first with a keyset token on
// (created_at, invoice_id), so page boundaries hold while rows are inserted.
// Line items are not loaded for listings.
func (r *PgxInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.InvoiceStatus, clientID *string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1`
	args := []any{companyID}
	argPos := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, string(*status))
		argPos++
	}
	if clientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argPos)
		args = append(args, *clientID)
		argPos++
	}
	if nextToken != nil {
		createdAt, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
		}
		query += fmt.Sprintf(" AND (created_at, invoice_id) < ($%d, $%d)", argPos, argPos+1)
		args = append(args, createdAt, id)
		argPos += 2
	}
	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(" ORDER BY created_at DESC, invoice_id DESC LIMIT $%d;", argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.InvoiceID)
		token = &t
	}
	return invoices, token, nil
}

// UpdateDraftInvoice replaces the mutable fields of a DRAFT invoice including
// its items. A non-DRAFT invoice matches no row.
func (r *PgxInvoiceRepository) UpdateDraftInvoice(ctx context.Context, invoice domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelInvoice(invoice)
	query := `
        UPDATE invoices
        SET client_id = $2, client_name = $3, client_email = $4, client_tax_id = $5,
            total_amount = $6, issue_date = $7, due_date = $8, notes = $9,
            last_updated_at = $10, last_updated_by = $11
        WHERE invoice_id = $1 AND status = 'DRAFT';
    `
	tag, err := tx.Exec(ctx, query,
		m.InvoiceID, m.ClientID, m.ClientName, m.ClientEmail, m.ClientTaxID,
		m.TotalAmount, m.IssueDate, m.DueDate, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoice.InvoiceID); err != nil {
		return fmt.Errorf("failed to clear invoice items: %w", err)
	}
	if err := insertItemsBatch(ctx, tx, invoice.Items); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) MarkInvoiceSent(ctx context.Context, invoiceID string, updatedBy string, now time.Time) (*domain.Invoice, error) {
	query := `
        UPDATE invoices
        SET status = 'SENT', last_updated_at = $2, last_updated_by = $3
        WHERE invoice_id = $1 AND status = 'DRAFT'
        RETURNING ` + invoiceColumns + `;
    `
	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID, now, updatedBy))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark invoice %s sent: %w", invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(*m)
	return &invoice, nil
}

// MarkInvoicePaid records full payment of whatever remains outstanding.
func (r *PgxInvoiceRepository) MarkInvoicePaid(ctx context.Context, invoiceID string, updatedBy string, now time.Time) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	current, err := r.lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	remaining := current.TotalAmount.Sub(current.AmountPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	updated, err := r.applyPaymentLocked(ctx, tx, current, remaining, updatedBy, now)
	if err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PgxInvoiceRepository) DeleteDraftInvoice(ctx context.Context, invoiceID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1;`, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice items: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND status = 'DRAFT';`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// SweepOverdue moves every unpaid, non-terminal invoice past its due date to
// OVERDUE in a single statement. Running it again is a no-op for already
// swept rows.
func (r *PgxInvoiceRepository) SweepOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	statuses := domain.SweepableStatuses()
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}

	query := `
        UPDATE invoices
        SET status = 'OVERDUE', last_updated_at = $2, last_updated_by = 'system:sweep'
        WHERE status = ANY($1) AND due_date < $2 AND is_paid = FALSE
        RETURNING ` + invoiceColumns + `;
    `
	rows, err := r.Pool.Query(ctx, query, statusStrs, now)
	if err != nil {
		return nil, fmt.Errorf("failed to sweep overdue invoices: %w", err)
	}
	defer rows.Close()

	swept := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swept invoice row: %w", err)
		}
		swept = append(swept, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating swept invoice rows: %w", err)
	}
	return swept, nil
}

// lockInvoice loads an invoice under FOR UPDATE inside tx.
func (r *PgxInvoiceRepository) lockInvoice(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`
	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock invoice %s: %w", invoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(*m)
	return &invoice, nil
}

// applyPaymentLocked advances the payment state of an already locked invoice
// and re-derives its status in the same transaction, so the row is never
// visible paid-but-unpaid.
func (r *PgxInvoiceRepository) applyPaymentLocked(ctx context.Context, tx pgx.Tx, current *domain.Invoice, amount decimal.Decimal, updatedBy string, now time.Time) (*domain.Invoice, error) {
	newAmountPaid := current.AmountPaid.Add(amount)
	isPaid := newAmountPaid.GreaterThanOrEqual(current.TotalAmount)
	status := domain.DeriveInvoiceStatus(isPaid, current.DueDate, now)

	var paidAt *time.Time
	if isPaid {
		if current.PaidAt != nil {
			paidAt = current.PaidAt
		} else {
			paidAt = &now
		}
	}

	query := `
        UPDATE invoices
        SET amount_paid = $2, is_paid = $3, status = $4, paid_at = $5,
            last_updated_at = $6, last_updated_by = $7
        WHERE invoice_id = $1
        RETURNING ` + invoiceColumns + `;
    `
	m, err := scanInvoice(tx.QueryRow(ctx, query,
		current.InvoiceID, newAmountPaid, isPaid, string(status), paidAt, now, updatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to apply payment to invoice %s: %w", current.InvoiceID, err)
	}
	invoice := mapping.ToDomainInvoice(*m)
	return &invoice, nil
}

// ApplyPaymentInTx applies a payment inside an existing transaction. The
// transaction repository uses it so a ledger posting and the invoice payment
// state commit as one unit.
func (r *PgxInvoiceRepository) ApplyPaymentInTx(ctx context.Context, tx pgx.Tx, invoiceID string, amount decimal.Decimal, updatedBy string, now time.Time) (*domain.Invoice, error) {
	current, err := r.lockInvoice(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	return r.applyPaymentLocked(ctx, tx, current, amount, updatedBy, now)
}
