package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest body para PUT /api/settings.
// NextInvoiceNumber no figura: el contador solo lo muta el secuenciador.
type UpdateSettingsRequest struct {
	DefaultTaxRate   *decimal.Decimal `json:"default_tax_rate,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	InvoicePrefix    string           `json:"invoice_prefix,omitempty"`
	PaymentTermsDays *int             `json:"payment_terms_days,omitempty"`
}

// SettingsResponse configuración vigente del usuario.
type SettingsResponse struct {
	UserID            string          `json:"user_id"`
	DefaultTaxRate    decimal.Decimal `json:"default_tax_rate"`
	Currency          string          `json:"currency"`
	InvoicePrefix     string          `json:"invoice_prefix"`
	NextInvoiceNumber int             `json:"next_invoice_number"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
