package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/GabRuby/calcTacos/internal/domain/money"
	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

// PrintHeader prints the report header
func PrintHeader(w io.Writer, businessName, date string) {
	fmt.Fprintf(w, "%s: ventas del %s\n", businessName, date)
}

// PrintDailySummary prints the day's sales, product breakdown and payment buckets
func PrintDailySummary(w io.Writer, summary sales.DailySummary, f *money.Formatter) {
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(summary.Sales) == 0 {
		fmt.Fprintln(w, "Sin ventas registradas.")
		return
	}

	fmt.Fprintf(w, "Ventas: %d | Total: %s\n", len(summary.Sales), f.Format(summary.Total))

	fmt.Fprintln(w, "\nMesas:")
	for _, sale := range summary.Sales {
		name := sale.TableName
		if name == "" {
			name = fmt.Sprintf("Mesa %d", sale.TableNumber)
		}
		fmt.Fprintf(w, "  %s  %-20s %12s  %s\n",
			sale.Timestamp.Format("15:04"),
			name,
			f.Format(sale.Total),
			sale.PaymentMethod.Label())
	}

	if len(summary.Products) > 0 {
		fmt.Fprintln(w, "\nProductos:")
		for _, p := range summary.Products {
			fmt.Fprintf(w, "  %-28s x %-8s %12s\n", p.Name, p.Quantity.String(), f.Format(p.Total))
		}
	}

	fmt.Fprintf(w, "\nEfectivo: %s | Transferencia: %s | Tarjeta: %s\n",
		f.Format(summary.Payments.Cash),
		f.Format(summary.Payments.Transfer),
		f.Format(summary.Payments.Card))
}
