package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura (descripción, cantidad, precio unitario).
// El total de línea nunca viene del caller: se deriva siempre.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// TaxRate y Currency vacíos toman los valores de UserSettings.
// DueDate vacío se calcula como IssueDate + PaymentTermsDays.
type CreateInvoiceRequest struct {
	ClientID  string               `json:"client_id"`
	IssueDate string               `json:"issue_date"` // YYYY-MM-DD
	DueDate   string               `json:"due_date,omitempty"`
	Currency  string               `json:"currency,omitempty"`
	TaxRate   *decimal.Decimal     `json:"tax_rate,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	Items     []InvoiceItemRequest `json:"items"`
}

// UpdateItemsRequest body para PUT /api/invoices/:id/items (solo en draft).
type UpdateItemsRequest struct {
	Items []InvoiceItemRequest `json:"items"`
}

// InvoiceItemResponse línea en la respuesta.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// InvoiceResponse factura con detalle completo.
// Status es el estado efectivo: una factura sent vencida se reporta overdue.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	ClientID      string                `json:"client_id"`
	InvoiceNumber string                `json:"invoice_number"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	Currency      string                `json:"currency"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes,omitempty"`
	SentAt        *time.Time            `json:"sent_at,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Items         []InvoiceItemResponse `json:"items"`
}
