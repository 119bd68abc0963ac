package repository

import "github.com/jhoicas/Facturas-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus ítems.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	// Update actualiza estado, sellos de tiempo y campos derivados
	// (subtotal, tax_amount, total_amount) de la cabecera.
	Update(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error)
	DeleteItemsByInvoiceID(invoiceID string) error
	Delete(id string) error
	// CountByClient cuenta facturas que referencian al cliente (bloqueo de borrado).
	CountByClient(clientID string) (int, error)
}
