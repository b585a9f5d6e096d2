package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upNormalizePaymentMethods, downNormalizePaymentMethods)
}

// Sales imported from older exports carry the Spanish display label (or
// nothing) instead of the method code.
var legacyPaymentLabels = []struct {
	code   string
	labels string
}{
	{"cash", "'Efectivo', 'efectivo'"},
	{"transfer", "'Transferencia', 'transferencia'"},
	{"card", "'Tarjeta', 'tarjeta'"},
	{"mixed", "'Mixto', 'mixto'"},
	{"NoEsp", "'', 'No especificado', 'noesp'"},
}

func upNormalizePaymentMethods(ctx context.Context, tx *sql.Tx) error {
	for _, l := range legacyPaymentLabels {
		query := "UPDATE sales SET payment_method = '" + l.code + "' WHERE payment_method IN (" + l.labels + ")"
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// Labels cannot be restored once normalized.
func downNormalizePaymentMethods(ctx context.Context, tx *sql.Tx) error {
	return nil
}
