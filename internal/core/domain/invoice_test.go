package domain_test

import (
	"testing"
	"time"

	"github.com/invobook/invoicing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		isPaid bool
		due    time.Time
		now    time.Time
		want   domain.InvoiceStatus
	}{
		{
			name:   "paid wins regardless of due date in the past",
			isPaid: true,
			due:    due,
			now:    due.AddDate(0, 6, 0),
			want:   domain.InvoicePaid,
		},
		{
			name:   "paid wins regardless of due date in the future",
			isPaid: true,
			due:    due,
			now:    due.AddDate(0, -6, 0),
			want:   domain.InvoicePaid,
		},
		{
			name:   "unpaid past due date is overdue",
			isPaid: false,
			due:    due,
			now:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			want:   domain.InvoiceOverdue,
		},
		{
			name:   "unpaid before due date is unpaid",
			isPaid: false,
			due:    due,
			now:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			want:   domain.InvoiceUnpaid,
		},
		{
			name:   "unpaid exactly at due date is not overdue",
			isPaid: false,
			due:    due,
			now:    due,
			want:   domain.InvoiceUnpaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.DeriveInvoiceStatus(tt.isPaid, tt.due, tt.now)
			assert.Equal(t, tt.want, got)

			// Derivation is idempotent: a second call with identical inputs
			// must return the identical status.
			assert.Equal(t, got, domain.DeriveInvoiceStatus(tt.isPaid, tt.due, tt.now))
		})
	}
}

func TestSweepableStatuses(t *testing.T) {
	statuses := domain.SweepableStatuses()
	assert.ElementsMatch(t, []domain.InvoiceStatus{
		domain.InvoiceDraft,
		domain.InvoiceSent,
		domain.InvoiceUnpaid,
	}, statuses)

	// Mutating the returned slice must not affect subsequent calls.
	statuses[0] = domain.InvoicePaid
	assert.NotContains(t, domain.SweepableStatuses(), domain.InvoicePaid)
}

func TestInvoice_Validate(t *testing.T) {
	now := time.Now()
	validItem := domain.InvoiceItem{
		ItemID:      "item_1",
		Description: "Consulting",
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromFloat(150.00),
		Total:       decimal.NewFromFloat(300.00),
	}

	base := func() domain.Invoice {
		return domain.Invoice{
			InvoiceID:   "inv_1",
			CompanyID:   "comp_1",
			ClientID:    "client_1",
			Items:       []domain.InvoiceItem{validItem},
			TotalAmount: decimal.NewFromFloat(300.00),
			IssueDate:   now,
			DueDate:     now.AddDate(0, 1, 0),
			Status:      domain.InvoiceDraft,
		}
	}

	t.Run("valid invoice", func(t *testing.T) {
		inv := base()
		assert.NoError(t, inv.Validate())
	})

	t.Run("missing due date", func(t *testing.T) {
		inv := base()
		inv.DueDate = time.Time{}
		assert.ErrorContains(t, inv.Validate(), "due date is required")
	})

	t.Run("no items", func(t *testing.T) {
		inv := base()
		inv.Items = nil
		assert.ErrorContains(t, inv.Validate(), "at least one item")
	})

	t.Run("item total mismatch", func(t *testing.T) {
		inv := base()
		inv.Items[0].Total = decimal.NewFromFloat(299.99)
		assert.ErrorContains(t, inv.Validate(), "does not match quantity")
	})

	t.Run("grand total mismatch", func(t *testing.T) {
		inv := base()
		inv.TotalAmount = decimal.NewFromFloat(301.00)
		assert.ErrorContains(t, inv.Validate(), "sum of item totals")
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		inv := base()
		inv.Items[0].Quantity = decimal.Zero
		assert.ErrorContains(t, inv.Validate(), "quantity must be positive")
	})
}

func TestTransaction_Validate(t *testing.T) {
	invoiceID := "inv_1"

	tests := []struct {
		name    string
		txn     domain.Transaction
		wantErr string
	}{
		{
			name: "valid income",
			txn: domain.Transaction{
				AccountID: "acc_1",
				Type:      domain.Income,
				Amount:    decimal.NewFromFloat(100.00),
			},
		},
		{
			name: "valid expense",
			txn: domain.Transaction{
				AccountID: "acc_1",
				Type:      domain.Expense,
				Amount:    decimal.NewFromFloat(42.50),
			},
		},
		{
			name: "zero amount rejected",
			txn: domain.Transaction{
				AccountID: "acc_1",
				Type:      domain.Income,
				Amount:    decimal.Zero,
			},
			wantErr: "must be positive",
		},
		{
			name: "expense linked to invoice rejected",
			txn: domain.Transaction{
				AccountID: "acc_1",
				Type:      domain.Expense,
				Amount:    decimal.NewFromFloat(10),
				InvoiceID: &invoiceID,
			},
			wantErr: "only income transactions",
		},
		{
			name: "unknown type rejected",
			txn: domain.Transaction{
				AccountID: "acc_1",
				Type:      domain.TransactionType("TRANSFER"),
				Amount:    decimal.NewFromFloat(10),
			},
			wantErr: "INCOME or EXPENSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.NewFromFloat(75.25)
	income := domain.Transaction{Type: domain.Income, Amount: amount}
	expense := domain.Transaction{Type: domain.Expense, Amount: amount}

	assert.True(t, income.SignedAmount().Equal(amount))
	assert.True(t, expense.SignedAmount().Equal(amount.Neg()))
}
