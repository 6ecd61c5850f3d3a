package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// Input is everything the aggregator reads: settled invoices and
// adjustments created inside the window, unit costs per batch for
// valuing adjustments, and catalog lookups for grouping and category
// filtering. The aggregator itself is a pure function over this input.
type Input struct {
	Invoices          []billing.Invoice
	Adjustments       []inventory.StockAdjustment
	BatchCosts        map[uuid.UUID]decimal.Decimal
	ProductCategories map[uuid.UUID]uuid.UUID
	CategoryNames     map[uuid.UUID]string
}

var hundred = decimal.NewFromInt(100)

// Compute produces the profit and loss report for the window.
//
// Per line: cost covers paid plus free units while revenue covers paid
// units only; line discounts come off trade-price revenue. Per window:
// restocked returns add their cost back, damage and expiry write-offs
// subtract theirs, and scrapped returns stay a net loss because their
// cost is never reversed.
func Compute(input Input, filter Filter, window Window) *ProfitLossReport {
	report := &ProfitLossReport{
		Window:     window,
		Invoices:   make([]InvoiceProfit, 0, len(input.Invoices)),
		ByCustomer: nil,
		BySeller:   nil,
		ByProduct:  nil,
		ByCategory: nil,
	}

	byCustomer := make(map[uuid.UUID]*ProfitGroup)
	bySeller := make(map[uuid.UUID]*ProfitGroup)
	byProduct := make(map[uuid.UUID]*ProfitGroup)
	byCategory := make(map[uuid.UUID]*ProfitGroup)

	metrics := Metrics{
		NetSales:         decimal.Zero,
		CostTotal:        decimal.Zero,
		GrossProfit:      decimal.Zero,
		ReturnAdjustment: decimal.Zero,
		DamageWriteOff:   decimal.Zero,
		NetProfit:        decimal.Zero,
		ProfitMargin:     decimal.Zero,
		FreeQty:          decimal.Zero,
		FreeCost:         decimal.Zero,
		Paid:             decimal.Zero,
		Due:              decimal.Zero,
	}

	for idx := range input.Invoices {
		invoice := &input.Invoices[idx]
		if !invoice.Status.IsSettleable() {
			continue
		}
		if !window.Contains(invoice.CreatedAt) {
			continue
		}
		if filter.CustomerID != nil && invoice.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.SellerID != nil && (invoice.SellerID == nil || *invoice.SellerID != *filter.SellerID) {
			continue
		}

		row := InvoiceProfit{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  invoice.CustomerName,
			SellerName:    invoice.SellerName,
			NetSales:      decimal.Zero,
			CostTotal:     decimal.Zero,
			FreeQty:       decimal.Zero,
			FreeCost:      decimal.Zero,
			CreatedAt:     invoice.CreatedAt,
		}
		filteredLineTotal := decimal.Zero

		for lineIdx := range invoice.Lines {
			line := &invoice.Lines[lineIdx]
			if !lineMatchesFilter(line, filter) {
				continue
			}

			filteredLineTotal = filteredLineTotal.Add(line.LineTotal)
			row.NetSales = row.NetSales.Add(line.LineTotal)
			row.CostTotal = row.CostTotal.Add(line.CostTotal())
			row.FreeQty = row.FreeQty.Add(line.FreeQuantity)
			row.FreeCost = row.FreeCost.Add(line.FreeCost())

			accumulateGroup(byProduct, line.ProductID, line.ProductName, line)
			accumulateGroup(byCustomer, invoice.CustomerID, invoice.CustomerName, line)
			if invoice.SellerID != nil {
				accumulateGroup(bySeller, *invoice.SellerID, invoice.SellerName, line)
			}
			if line.CategoryID != nil {
				accumulateGroup(byCategory, *line.CategoryID, input.CategoryNames[*line.CategoryID], line)
			}
		}
		if filteredLineTotal.IsZero() && filter.HasLineFilter() {
			continue
		}

		// Share of invoice-level figures attributed to the filtered
		// lines. Approximate when filtered and unfiltered lines share
		// one invoice, exact otherwise.
		ratio := decimal.NewFromInt(1)
		if filter.HasLineFilter() {
			if invoice.Total.IsZero() {
				ratio = decimal.Zero
			} else {
				ratio = filteredLineTotal.Div(invoice.Total)
			}
		}

		row.NetSales = row.NetSales.Sub(invoice.Discount.Mul(ratio))
		row.GrossProfit = row.NetSales.Sub(row.CostTotal)
		row.Paid = invoice.Paid.Mul(ratio)
		row.Due = invoice.Due.Mul(ratio)

		metrics.NetSales = metrics.NetSales.Add(row.NetSales)
		metrics.CostTotal = metrics.CostTotal.Add(row.CostTotal)
		metrics.FreeQty = metrics.FreeQty.Add(row.FreeQty)
		metrics.FreeCost = metrics.FreeCost.Add(row.FreeCost)
		metrics.Paid = metrics.Paid.Add(row.Paid)
		metrics.Due = metrics.Due.Add(row.Due)
		metrics.InvoiceCount++

		report.Invoices = append(report.Invoices, row)
	}

	for idx := range input.Adjustments {
		adjustment := &input.Adjustments[idx]
		if !window.Contains(adjustment.CreatedAt) {
			continue
		}
		if !adjustmentMatchesFilter(adjustment, filter, input.ProductCategories) {
			continue
		}

		cost := input.BatchCosts[adjustment.BatchID].Mul(adjustment.AbsQuantity())
		switch {
		case adjustment.IsRestock():
			// SCRAP returns stay out: their cost is a net loss
			metrics.ReturnAdjustment = metrics.ReturnAdjustment.Add(cost)
		case adjustment.Type.IsWriteOff():
			metrics.DamageWriteOff = metrics.DamageWriteOff.Add(cost)
		}
	}

	metrics.GrossProfit = metrics.NetSales.Sub(metrics.CostTotal)
	metrics.NetProfit = metrics.GrossProfit.Add(metrics.ReturnAdjustment).Sub(metrics.DamageWriteOff)
	if metrics.NetSales.GreaterThan(decimal.Zero) {
		metrics.ProfitMargin = metrics.NetProfit.Div(metrics.NetSales).Mul(hundred)
	}
	report.Metrics = metrics

	report.ByCustomer = sortGroups(byCustomer)
	report.BySeller = sortGroups(bySeller)
	report.ByProduct = sortGroups(byProduct)
	report.ByCategory = sortGroups(byCategory)

	return report
}

func lineMatchesFilter(line *billing.InvoiceLine, filter Filter) bool {
	if filter.ProductID != nil && line.ProductID != *filter.ProductID {
		return false
	}
	if filter.CategoryID != nil && (line.CategoryID == nil || *line.CategoryID != *filter.CategoryID) {
		return false
	}
	return true
}

func adjustmentMatchesFilter(adjustment *inventory.StockAdjustment, filter Filter, productCategories map[uuid.UUID]uuid.UUID) bool {
	if filter.ProductID != nil && adjustment.ProductID != *filter.ProductID {
		return false
	}
	if filter.CategoryID != nil {
		categoryID, ok := productCategories[adjustment.ProductID]
		if !ok || categoryID != *filter.CategoryID {
			return false
		}
	}
	return true
}

func accumulateGroup(groups map[uuid.UUID]*ProfitGroup, id uuid.UUID, name string, line *billing.InvoiceLine) {
	group, ok := groups[id]
	if !ok {
		group = &ProfitGroup{
			ID:          id,
			Name:        name,
			NetSales:    decimal.Zero,
			CostTotal:   decimal.Zero,
			GrossProfit: decimal.Zero,
			FreeQty:     decimal.Zero,
			FreeCost:    decimal.Zero,
		}
		groups[id] = group
	}
	group.NetSales = group.NetSales.Add(line.LineTotal)
	group.CostTotal = group.CostTotal.Add(line.CostTotal())
	group.GrossProfit = group.NetSales.Sub(group.CostTotal)
	group.FreeQty = group.FreeQty.Add(line.FreeQuantity)
	group.FreeCost = group.FreeCost.Add(line.FreeCost())
}

func sortGroups(groups map[uuid.UUID]*ProfitGroup) []ProfitGroup {
	result := make([]ProfitGroup, 0, len(groups))
	for _, group := range groups {
		result = append(result, *group)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].GrossProfit.GreaterThan(result[j].GrossProfit)
	})
	return result
}
