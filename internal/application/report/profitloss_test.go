package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allWindow() Window {
	return ResolveWindow(WindowAll, time.Now(), nil, nil)
}

type lineSpec struct {
	productID     uuid.UUID
	productName   string
	categoryID    *uuid.UUID
	batchID       uuid.UUID
	paidQty       int64
	freeQty       int64
	tpRate        int64
	costPrice     int64
	discountType  billing.DiscountType
	discountValue int64
}

func settledInvoice(t *testing.T, number, customerName string, customerID uuid.UUID, lines ...lineSpec) billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(number, customerID, customerName, nil, "")
	require.NoError(t, err)
	for _, spec := range lines {
		batchID := spec.batchID
		if batchID == uuid.Nil {
			batchID = uuid.New()
		}
		_, err := invoice.AddLine(
			spec.productID, spec.productName, spec.categoryID, batchID, "LOT-R",
			decimal.NewFromInt(spec.paidQty), decimal.NewFromInt(spec.freeQty),
			decimal.NewFromInt(spec.tpRate+20), decimal.NewFromInt(spec.tpRate), decimal.NewFromInt(spec.costPrice),
			spec.discountType, decimal.NewFromInt(spec.discountValue),
		)
		require.NoError(t, err)
	}
	require.NoError(t, invoice.Confirm())
	return *invoice
}

func TestCompute_FreeGoodsPolicy(t *testing.T) {
	// paid=5, free=3, tp=10, cost=4: free units consume cost but
	// generate no revenue
	invoice := settledInvoice(t, "INV-1", "Alpha", uuid.New(), lineSpec{
		productID: uuid.New(), productName: "Paracetamol",
		paidQty: 5, freeQty: 3, tpRate: 10, costPrice: 4,
		discountType: billing.DiscountTypeAmount,
	})

	result := Compute(Input{Invoices: []billing.Invoice{invoice}}, Filter{}, allWindow())

	assert.True(t, result.Metrics.NetSales.Equal(decimal.NewFromInt(50)))
	assert.True(t, result.Metrics.CostTotal.Equal(decimal.NewFromInt(32)))
	assert.True(t, result.Metrics.GrossProfit.Equal(decimal.NewFromInt(18)))
	assert.True(t, result.Metrics.FreeQty.Equal(decimal.NewFromInt(3)))
	assert.True(t, result.Metrics.FreeCost.Equal(decimal.NewFromInt(12)))
}

func TestCompute_EndToEndFigures(t *testing.T) {
	// cost=40, tp=60, paid=10, no discount
	invoice := settledInvoice(t, "INV-2", "Alpha", uuid.New(), lineSpec{
		productID: uuid.New(), productName: "Amoxicillin",
		paidQty: 10, freeQty: 0, tpRate: 60, costPrice: 40,
		discountType: billing.DiscountTypeAmount,
	})

	result := Compute(Input{Invoices: []billing.Invoice{invoice}}, Filter{}, allWindow())

	assert.True(t, result.Metrics.NetSales.Equal(decimal.NewFromInt(600)))
	assert.True(t, result.Metrics.CostTotal.Equal(decimal.NewFromInt(400)))
	assert.True(t, result.Metrics.GrossProfit.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 1, result.Metrics.InvoiceCount)
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, "INV-2", result.Invoices[0].InvoiceNumber)
}

func TestCompute_MarginGuard(t *testing.T) {
	t.Run("empty window yields zero margin, not NaN", func(t *testing.T) {
		result := Compute(Input{}, Filter{}, allWindow())

		assert.True(t, result.Metrics.ProfitMargin.IsZero())
		assert.True(t, result.Metrics.NetSales.IsZero())
	})

	t.Run("positive sales compute a margin", func(t *testing.T) {
		invoice := settledInvoice(t, "INV-3", "Alpha", uuid.New(), lineSpec{
			productID: uuid.New(), productName: "Ibuprofen",
			paidQty: 10, freeQty: 0, tpRate: 10, costPrice: 5,
			discountType: billing.DiscountTypeAmount,
		})

		result := Compute(Input{Invoices: []billing.Invoice{invoice}}, Filter{}, allWindow())

		// profit 50 on sales 100 = 50%
		assert.True(t, result.Metrics.ProfitMargin.Equal(decimal.NewFromInt(50)))
	})
}

func TestCompute_AdjustmentTerms(t *testing.T) {
	productID := uuid.New()
	batchID := uuid.New()
	invoiceID := uuid.New()
	batchCosts := map[uuid.UUID]decimal.Decimal{batchID: decimal.NewFromInt(4)}

	mustReturn := func(action inventory.ReturnAction, qty int64) inventory.StockAdjustment {
		adj, err := inventory.NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(qty), action, decimal.NewFromInt(qty*10), "")
		require.NoError(t, err)
		return *adj
	}
	mustWriteOff := func(adjType inventory.AdjustmentType, qty int64) inventory.StockAdjustment {
		adj, err := inventory.NewWriteOffAdjustment(adjType, productID, batchID, decimal.NewFromInt(qty), "")
		require.NoError(t, err)
		return *adj
	}

	t.Run("restocked returns credit cost back", func(t *testing.T) {
		input := Input{
			Adjustments: []inventory.StockAdjustment{mustReturn(inventory.ReturnActionRestock, 5)},
			BatchCosts:  batchCosts,
		}

		result := Compute(input, Filter{}, allWindow())

		assert.True(t, result.Metrics.ReturnAdjustment.Equal(decimal.NewFromInt(20)))
		assert.True(t, result.Metrics.NetProfit.Equal(decimal.NewFromInt(20)))
	})

	t.Run("scrapped returns stay a net loss", func(t *testing.T) {
		input := Input{
			Adjustments: []inventory.StockAdjustment{mustReturn(inventory.ReturnActionScrap, 5)},
			BatchCosts:  batchCosts,
		}

		result := Compute(input, Filter{}, allWindow())

		assert.True(t, result.Metrics.ReturnAdjustment.IsZero())
	})

	t.Run("damage and expiry write off, lost does not", func(t *testing.T) {
		input := Input{
			Adjustments: []inventory.StockAdjustment{
				mustWriteOff(inventory.AdjustmentTypeDamage, 2),
				mustWriteOff(inventory.AdjustmentTypeExpired, 3),
				mustWriteOff(inventory.AdjustmentTypeLost, 7),
			},
			BatchCosts: batchCosts,
		}

		result := Compute(input, Filter{}, allWindow())

		// (2+3) x 4
		assert.True(t, result.Metrics.DamageWriteOff.Equal(decimal.NewFromInt(20)))
		assert.True(t, result.Metrics.NetProfit.Equal(decimal.NewFromInt(-20)))
	})
}

func TestCompute_WindowAndStatusFiltering(t *testing.T) {
	customerID := uuid.New()
	inside := settledInvoice(t, "INV-IN", "Alpha", customerID, lineSpec{
		productID: uuid.New(), productName: "A",
		paidQty: 1, tpRate: 100, costPrice: 50,
		discountType: billing.DiscountTypeAmount,
	})
	outside := settledInvoice(t, "INV-OUT", "Alpha", customerID, lineSpec{
		productID: uuid.New(), productName: "B",
		paidQty: 1, tpRate: 100, costPrice: 50,
		discountType: billing.DiscountTypeAmount,
	})
	outside.CreatedAt = time.Now().AddDate(0, -2, 0)

	draft, err := billing.NewInvoice("INV-DRAFT", customerID, "Alpha", nil, "")
	require.NoError(t, err)

	window := ResolveWindow(WindowThisMonth, time.Now(), nil, nil)
	input := Input{Invoices: []billing.Invoice{inside, outside, *draft}}

	result := Compute(input, Filter{}, window)

	assert.Equal(t, 1, result.Metrics.InvoiceCount)
	require.Len(t, result.Invoices, 1)
	assert.Equal(t, "INV-IN", result.Invoices[0].InvoiceNumber)
}

func TestCompute_CustomerFilter(t *testing.T) {
	alphaID := uuid.New()
	betaID := uuid.New()
	alpha := settledInvoice(t, "INV-A", "Alpha", alphaID, lineSpec{
		productID: uuid.New(), productName: "A",
		paidQty: 1, tpRate: 100, costPrice: 40,
		discountType: billing.DiscountTypeAmount,
	})
	beta := settledInvoice(t, "INV-B", "Beta", betaID, lineSpec{
		productID: uuid.New(), productName: "B",
		paidQty: 1, tpRate: 200, costPrice: 80,
		discountType: billing.DiscountTypeAmount,
	})

	result := Compute(Input{Invoices: []billing.Invoice{alpha, beta}}, Filter{CustomerID: &alphaID}, allWindow())

	assert.True(t, result.Metrics.NetSales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, result.Metrics.InvoiceCount)
}

func TestCompute_ProductFilterProration(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	invoice := settledInvoice(t, "INV-P", "Alpha", uuid.New(),
		lineSpec{productID: productA, productName: "A", paidQty: 1, tpRate: 300, costPrice: 100, discountType: billing.DiscountTypeAmount},
		lineSpec{productID: productB, productName: "B", paidQty: 1, tpRate: 100, costPrice: 50, discountType: billing.DiscountTypeAmount},
	)
	// total 400, pay half
	require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(200)))

	result := Compute(Input{Invoices: []billing.Invoice{invoice}}, Filter{ProductID: &productA}, allWindow())

	// Product A is 300/400 of the invoice: paid 150 of 200, due 150 of 200
	assert.True(t, result.Metrics.NetSales.Equal(decimal.NewFromInt(300)))
	assert.True(t, result.Metrics.CostTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.Metrics.Paid.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.Metrics.Due.Equal(decimal.NewFromInt(150)))
}

func TestCompute_LineDiscountsAndInvoiceDiscount(t *testing.T) {
	invoice, err := billing.NewInvoice("INV-D", uuid.New(), "Alpha", nil, "")
	require.NoError(t, err)
	_, err = invoice.AddLine(
		uuid.New(), "A", nil, uuid.New(), "LOT-1",
		decimal.NewFromInt(10), decimal.Zero,
		decimal.NewFromInt(80), decimal.NewFromInt(60), decimal.NewFromInt(40),
		billing.DiscountTypePercent, decimal.NewFromInt(10),
	)
	require.NoError(t, err)
	require.NoError(t, invoice.ApplyInvoiceDiscount(decimal.NewFromInt(40)))
	require.NoError(t, invoice.Confirm())

	result := Compute(Input{Invoices: []billing.Invoice{*invoice}}, Filter{}, allWindow())

	// revenue 600, line discount 60, invoice discount 40 -> 500
	assert.True(t, result.Metrics.NetSales.Equal(decimal.NewFromInt(500)))
	assert.True(t, result.Metrics.GrossProfit.Equal(decimal.NewFromInt(100)))
}

func TestCompute_GroupsSortedByProfit(t *testing.T) {
	big := uuid.New()
	small := uuid.New()
	invoice := settledInvoice(t, "INV-G", "Alpha", uuid.New(),
		lineSpec{productID: small, productName: "Small", paidQty: 1, tpRate: 50, costPrice: 40, discountType: billing.DiscountTypeAmount},
		lineSpec{productID: big, productName: "Big", paidQty: 1, tpRate: 500, costPrice: 100, discountType: billing.DiscountTypeAmount},
	)

	result := Compute(Input{Invoices: []billing.Invoice{invoice}}, Filter{}, allWindow())

	require.Len(t, result.ByProduct, 2)
	assert.Equal(t, "Big", result.ByProduct[0].Name)
	assert.Equal(t, "Small", result.ByProduct[1].Name)
	require.Len(t, result.ByCustomer, 1)
	assert.Equal(t, "Alpha", result.ByCustomer[0].Name)
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC) // a Friday

	t.Run("today", func(t *testing.T) {
		window := ResolveWindow(WindowToday, now, nil, nil)
		assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), window.Start)
		assert.True(t, window.Contains(now))
		assert.False(t, window.Contains(now.AddDate(0, 0, 1)))
	})

	t.Run("week starts monday", func(t *testing.T) {
		window := ResolveWindow(WindowThisWeek, now, nil, nil)
		assert.Equal(t, time.Monday, window.Start.Weekday())
		assert.True(t, window.Contains(now))
	})

	t.Run("month", func(t *testing.T) {
		window := ResolveWindow(WindowThisMonth, now, nil, nil)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), window.Start)
	})

	t.Run("year", func(t *testing.T) {
		window := ResolveWindow(WindowThisYear, now, nil, nil)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), window.Start)
	})

	t.Run("all contains everything past", func(t *testing.T) {
		window := ResolveWindow(WindowAll, now, nil, nil)
		assert.True(t, window.Contains(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("custom", func(t *testing.T) {
		start := now.AddDate(0, 0, -7)
		end := now
		window := ResolveWindow(WindowCustom, now, &start, &end)
		assert.Equal(t, start, window.Start)
		assert.Equal(t, end, window.End)
	})
}
