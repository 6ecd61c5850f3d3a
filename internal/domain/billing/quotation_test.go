package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotation(t *testing.T) {
	newOpen := func(t *testing.T) *Quotation {
		q, err := NewQuotation("QT-2001", uuid.New(), "City Pharmacy", nil, "")
		require.NoError(t, err)
		return q
	}

	t.Run("starts open", func(t *testing.T) {
		q := newOpen(t)
		assert.Equal(t, QuotationStatusOpen, q.Status)
		assert.True(t, q.IsOpen())
	})

	t.Run("add line", func(t *testing.T) {
		q := newOpen(t)

		line, err := q.AddLine(uuid.New(), "Paracetamol 500mg", decimal.NewFromInt(10), decimal.NewFromInt(2), DiscountTypeAmount, decimal.Zero)

		require.NoError(t, err)
		assert.True(t, line.PaidQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, line.FreeQuantity.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		q := newOpen(t)
		productID := uuid.New()
		_, err := q.AddLine(productID, "Aspirin", decimal.NewFromInt(5), decimal.Zero, DiscountTypeAmount, decimal.Zero)
		require.NoError(t, err)

		_, err = q.AddLine(productID, "Aspirin", decimal.NewFromInt(3), decimal.Zero, DiscountTypeAmount, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("mark converted", func(t *testing.T) {
		q := newOpen(t)
		invoiceID := uuid.New()

		require.NoError(t, q.MarkConverted(invoiceID))

		assert.Equal(t, QuotationStatusConverted, q.Status)
		require.NotNil(t, q.InvoiceID)
		assert.Equal(t, invoiceID, *q.InvoiceID)
		assert.NotNil(t, q.ConvertedAt)

		// Conversion is one-shot
		assert.Error(t, q.MarkConverted(uuid.New()))
	})

	t.Run("cancel", func(t *testing.T) {
		q := newOpen(t)

		require.NoError(t, q.Cancel())

		assert.Equal(t, QuotationStatusCancelled, q.Status)
		assert.Error(t, q.MarkConverted(uuid.New()))

		_, err := q.AddLine(uuid.New(), "Aspirin", decimal.NewFromInt(1), decimal.Zero, DiscountTypeAmount, decimal.Zero)
		assert.Error(t, err)
	})
}
