package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Facturas-api/internal/application/billing"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

var _ billing.InvoiceTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	defaults SettingsDefaults
}

// NewTxRunner construye el runner con el pool y los defaults de settings
// (los necesita el repo de settings atado a la tx para sembrar contadores).
func NewTxRunner(pool *pgxpool.Pool, defaults SettingsDefaults) *TxRunner {
	return &TxRunner{pool: pool, defaults: defaults}
}

// RunInvoice inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	settingsRepo := NewSettingsRepository(tx, r.defaults)

	if err := fn(invoiceRepo, settingsRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
