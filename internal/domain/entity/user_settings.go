package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserSettings configuración de facturación por usuario (singleton por UserID).
// NextInvoiceNumber es el contador monotónico del secuenciador: solo él lo muta.
type UserSettings struct {
	UserID            string
	DefaultTaxRate    decimal.Decimal // porcentaje (19.0) o fracción (0.19); se normaliza al usarse
	Currency          string
	InvoicePrefix     string
	NextInvoiceNumber int
	PaymentTermsDays  int
	UpdatedAt         time.Time
}
