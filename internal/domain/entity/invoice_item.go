package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem representa una línea de una factura.
// TotalPrice = Quantity * UnitPrice redondeado a la precisión de la moneda;
// se recalcula siempre, nunca es fijado por un caller.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Position    int // orden de inserción, relevante para mostrar, no para totales
	CreatedAt   time.Time
}
