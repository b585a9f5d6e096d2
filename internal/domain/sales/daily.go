package sales

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/domain/payment"
)

// ProductSummary is how much of one product was sold in a day.
type ProductSummary struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// PaymentTotals splits a day's takings by bucket.
type PaymentTotals struct {
	Cash     decimal.Decimal `json:"cash"`
	Transfer decimal.Decimal `json:"transfer"`
	Card     decimal.Decimal `json:"card"`
}

// DailySummary is the sales report for one business day. It is also the
// export and import format.
type DailySummary struct {
	Date     string           `json:"date"`
	Sales    []Sale           `json:"sales"`
	Total    decimal.Decimal  `json:"total"`
	Products []ProductSummary `json:"products"`
	Payments PaymentTotals    `json:"payments"`
}

// Summarize builds the daily report from a day's sales. Product names and
// prices come from the catalog; items no longer on the menu are left out of
// the product breakdown but still count toward the total.
func Summarize(date string, sales []Sale, catalog menu.Catalog) DailySummary {
	summary := DailySummary{
		Date:     date,
		Sales:    sales,
		Total:    decimal.Zero,
		Products: []ProductSummary{},
	}
	if summary.Sales == nil {
		summary.Sales = []Sale{}
	}

	positions := make(map[string]int)
	for _, sale := range sales {
		summary.Total = summary.Total.Add(sale.Total)
		summary.Payments.add(sale)

		for _, line := range sale.Items {
			item, ok := catalog.Lookup(line.ItemID)
			if !ok {
				continue
			}
			lineTotal := item.Price.Mul(line.Quantity)
			if i, seen := positions[line.ItemID]; seen {
				p := &summary.Products[i]
				p.Quantity = p.Quantity.Add(line.Quantity)
				p.Total = p.Total.Add(lineTotal)
				continue
			}
			positions[line.ItemID] = len(summary.Products)
			summary.Products = append(summary.Products, ProductSummary{
				ID:       line.ItemID,
				Name:     item.Name,
				Quantity: line.Quantity,
				Total:    lineTotal,
			})
		}
	}
	return summary
}

func (p *PaymentTotals) add(sale Sale) {
	// Older records may carry only the method without parts.
	if sale.CashPart.IsZero() && sale.TransferPart.IsZero() && sale.CardPart.IsZero() {
		switch sale.PaymentMethod {
		case payment.Cash:
			p.Cash = p.Cash.Add(sale.Total)
		case payment.Transfer:
			p.Transfer = p.Transfer.Add(sale.Total)
		case payment.Card:
			p.Card = p.Card.Add(sale.Total)
		}
		return
	}
	p.Cash = p.Cash.Add(sale.CashPart)
	p.Transfer = p.Transfer.Add(sale.TransferPart)
	p.Card = p.Card.Add(sale.CardPart)
}

// MergeImported returns the sales from imported whose IDs are not already in
// existing, in import order.
func MergeImported(existing, imported []Sale) []Sale {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.ID] = true
	}

	var added []Sale
	for _, s := range imported {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		added = append(added, s)
	}
	return added
}

// ExportFilename is the download name for a day's export.
func ExportFilename(date string) string {
	return fmt.Sprintf("ventas-%s.json", date)
}
