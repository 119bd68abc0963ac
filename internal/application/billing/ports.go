package billing

import (
	"context"

	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn con repos atados a una transacción.
// Emisión de número, cabecera e ítems deben confirmar o revertir juntos:
// una factura con total inconsistente respecto a sus ítems es un defecto.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		settingsRepo repository.SettingsRepository,
	) error) error
}
