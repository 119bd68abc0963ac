package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
const (
	StatusDraft     = "draft"     // editable, ítems mutables
	StatusSent      = "sent"      // enviada al cliente, ítems congelados
	StatusPaid      = "paid"      // pagada (terminal)
	StatusOverdue   = "overdue"   // derivado: sent con due_date vencida, nunca se persiste
	StatusCancelled = "cancelled" // anulada (terminal)
)

// Invoice representa la cabecera de una factura.
// Subtotal, TaxAmount y TotalAmount son campos derivados: se recalculan en cada
// mutación de ítems y nunca los fija un caller directamente.
type Invoice struct {
	ID            string
	UserID        string
	ClientID      string
	InvoiceNumber string // único por usuario, emitido por el secuenciador
	IssueDate     time.Time
	DueDate       time.Time // siempre >= IssueDate
	Currency      string
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal // fracción (0.19), no porcentaje
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        string
	Notes         string
	SentAt        *time.Time // lo fija únicamente la transición send
	PaidAt        *time.Time // lo fija únicamente la transición markPaid
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
