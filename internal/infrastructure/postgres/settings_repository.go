package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsDefaults semilla para filas de settings creadas implícitamente
// por el secuenciador (usuario que factura antes de tocar sus settings).
type SettingsDefaults struct {
	TaxRate          decimal.Decimal
	Currency         string
	InvoicePrefix    string
	PaymentTermsDays int
}

// SettingsRepo implementación de SettingsRepository (usable con pool o tx).
type SettingsRepo struct {
	q        Querier
	defaults SettingsDefaults
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier, defaults SettingsDefaults) *SettingsRepo {
	return &SettingsRepo{q: q, defaults: defaults}
}

// Get obtiene los settings del usuario. Retorna (nil, nil) si no existen.
func (r *SettingsRepo) Get(userID string) (*entity.UserSettings, error) {
	query := `
		SELECT user_id, default_tax_rate, currency, invoice_prefix, next_invoice_number, payment_terms_days, updated_at
		FROM user_settings WHERE user_id = $1`
	var s entity.UserSettings
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&s.UserID, &s.DefaultTaxRate, &s.Currency, &s.InvoicePrefix,
		&s.NextInvoiceNumber, &s.PaymentTermsDays, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Upsert crea o actualiza los settings del usuario.
// No toca next_invoice_number en filas existentes: el contador es del secuenciador.
func (r *SettingsRepo) Upsert(settings *entity.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, default_tax_rate, currency, invoice_prefix, next_invoice_number, payment_terms_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			default_tax_rate   = EXCLUDED.default_tax_rate,
			currency           = EXCLUDED.currency,
			invoice_prefix     = EXCLUDED.invoice_prefix,
			payment_terms_days = EXCLUDED.payment_terms_days,
			updated_at         = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		settings.UserID, settings.DefaultTaxRate, settings.Currency, settings.InvoicePrefix,
		settings.NextInvoiceNumber, settings.PaymentTermsDays, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// IncrementInvoiceNumber emite el siguiente número en una sola sentencia
// atómica: siembra la fila con los defaults si no existe (primer número: 1)
// y deja el contador apuntando al siguiente. El RETURNING entrega el prefijo
// vigente y el número emitido, de modo que dos llamadas concurrentes para el
// mismo usuario jamás ven el mismo valor.
func (r *SettingsRepo) IncrementInvoiceNumber(userID string) (string, int, error) {
	query := `
		INSERT INTO user_settings (user_id, default_tax_rate, currency, invoice_prefix, next_invoice_number, payment_terms_days, updated_at)
		VALUES ($1, $2, $3, $4, 2, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			next_invoice_number = user_settings.next_invoice_number + 1,
			updated_at          = EXCLUDED.updated_at
		RETURNING invoice_prefix, next_invoice_number - 1`
	var prefix string
	var issued int
	err := r.q.QueryRow(context.Background(), query,
		userID, r.defaults.TaxRate, r.defaults.Currency, r.defaults.InvoicePrefix,
		r.defaults.PaymentTermsDays, time.Now(),
	).Scan(&prefix, &issued)
	if err != nil {
		if isSerializationFailure(err) {
			return "", 0, domain.ErrConcurrency
		}
		return "", 0, fmt.Errorf("increment invoice number: %w", err)
	}
	return prefix, issued, nil
}
