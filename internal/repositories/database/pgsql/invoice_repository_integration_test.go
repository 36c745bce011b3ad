package pgsql_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/invobook/invoicing_app/internal/repositories/database/pgsql"
)

// openTestPool connects to the database named by TEST_DATABASE_URL, applies
// migrations and truncates all tables. Tests using it are skipped when the
// variable is unset.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	require.NoError(t, err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../../migrations", "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE companies CASCADE;`)
	require.NoError(t, err)
	return pool
}

func seedCompanyAndClient(t *testing.T, ctx context.Context, pool *pgxpool.Pool) (string, string) {
	t.Helper()
	companyID := uuid.NewString()
	clientID := uuid.NewString()
	now := time.Now().UTC()

	_, err := pool.Exec(ctx, `
        INSERT INTO companies (company_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, 'Acme GmbH', TRUE, $2, $3, $2, $3);
    `, companyID, now, uuid.NewString())
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
        INSERT INTO clients (client_id, company_id, name, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, 'Globex Ltd', $3, $4, $3, $4);
    `, clientID, companyID, now, uuid.NewString())
	require.NoError(t, err)
	return companyID, clientID
}

func testInvoice(companyID, clientID string, status domain.InvoiceStatus, dueDate time.Time) domain.Invoice {
	now := time.Now().UTC()
	invoiceID := uuid.NewString()
	inv := domain.Invoice{
		InvoiceID:   invoiceID,
		CompanyID:   companyID,
		ClientID:    clientID,
		ClientName:  "Globex Ltd",
		ClientEmail: "billing@globex.example",
		Items: []domain.InvoiceItem{{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: "Consulting",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(100),
			Total:       decimal.NewFromInt(100),
		}},
		TotalAmount: decimal.NewFromInt(100),
		AmountPaid:  decimal.Zero,
		IssueDate:   dueDate.AddDate(0, 0, -14),
		DueDate:     dueDate,
		Status:      status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     uuid.NewString(),
			LastUpdatedAt: now,
			LastUpdatedBy: uuid.NewString(),
		},
	}
	if status == domain.InvoicePaid {
		inv.IsPaid = true
		inv.AmountPaid = inv.TotalAmount
		paidAt := dueDate.AddDate(0, 0, -1)
		inv.PaidAt = &paidAt
	}
	return inv
}

func TestSweepOverdue_OnlyPastDueUnpaidRows(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repos := pgsql.NewRepositoryProvider(pool)
	companyID, clientID := seedCompanyAndClient(t, ctx, pool)

	now := time.Now().UTC()
	past := now.Add(-72 * time.Hour)
	future := now.Add(72 * time.Hour)

	draftPastDue := testInvoice(companyID, clientID, domain.InvoiceDraft, past)
	sentPastDue := testInvoice(companyID, clientID, domain.InvoiceSent, past)
	unpaidFutureDue := testInvoice(companyID, clientID, domain.InvoiceUnpaid, future)
	paidPastDue := testInvoice(companyID, clientID, domain.InvoicePaid, past)

	for _, inv := range []domain.Invoice{draftPastDue, sentPastDue, unpaidFutureDue, paidPastDue} {
		_, err := repos.InvoiceRepo.SaveInvoice(ctx, inv)
		require.NoError(t, err)
	}

	swept, err := repos.InvoiceRepo.SweepOverdue(ctx, now)
	require.NoError(t, err)

	sweptIDs := map[string]bool{}
	for _, inv := range swept {
		sweptIDs[inv.InvoiceID] = true
		assert.Equal(t, domain.InvoiceOverdue, inv.Status)
		assert.Equal(t, "system:sweep", inv.LastUpdatedBy)
	}
	assert.Len(t, swept, 2)
	assert.True(t, sweptIDs[draftPastDue.InvoiceID])
	assert.True(t, sweptIDs[sentPastDue.InvoiceID])

	notDue, err := repos.InvoiceRepo.FindInvoiceByID(ctx, unpaidFutureDue.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceUnpaid, notDue.Status)

	settled, err := repos.InvoiceRepo.FindInvoiceByID(ctx, paidPastDue.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, settled.Status)
	assert.True(t, settled.IsPaid)

	// Running the sweep again touches nothing.
	again, err := repos.InvoiceRepo.SweepOverdue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, again)
}
