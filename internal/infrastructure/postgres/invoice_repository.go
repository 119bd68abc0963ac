package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, user_id, client_id, invoice_number, issue_date, due_date, currency,
	subtotal, tax_rate, tax_amount, total_amount, status, COALESCE(notes, ''),
	sent_at, paid_at, created_at, updated_at`

// Create persiste la cabecera de la factura.
// La unicidad de invoice_number por usuario la respalda un constraint único;
// una violación aquí indica una carrera del secuenciador.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, client_id, invoice_number, issue_date, due_date, currency,
		                      subtotal, tax_rate, tax_amount, total_amount, status, notes, sent_at, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.UserID, invoice.ClientID, invoice.InvoiceNumber,
		invoice.IssueDate, invoice.DueDate, invoice.Currency,
		invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.TotalAmount,
		invoice.Status, nullIfEmpty(invoice.Notes), invoice.SentAt, invoice.PaidAt,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrency
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, total_price, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.UnitPrice,
		item.TotalPrice, item.Position, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// Update actualiza estado, sellos y campos derivados de la cabecera.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET subtotal     = $2,
		    tax_rate     = $3,
		    tax_amount   = $4,
		    total_amount = $5,
		    status       = $6,
		    notes        = $7,
		    sent_at      = $8,
		    paid_at      = $9,
		    updated_at   = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Subtotal, invoice.TaxRate, invoice.TaxAmount, invoice.TotalAmount,
		invoice.Status, nullIfEmpty(invoice.Notes), invoice.SentAt, invoice.PaidAt, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una factura. Retorna (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by id: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID obtiene las líneas en orden de inserción.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, description, quantity, unit_price, total_price, position, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Position, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByUser lista facturas del usuario, más recientes primero.
func (r *InvoiceRepo) ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// DeleteItemsByInvoiceID elimina todas las líneas de una factura.
func (r *InvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera de una factura.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// CountByClient cuenta facturas que referencian al cliente.
func (r *InvoiceRepo) CountByClient(clientID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM invoices WHERE client_id = $1`, clientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count invoices by client: %w", err)
	}
	return count, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.ClientID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &inv.Currency,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.TotalAmount,
		&inv.Status, &inv.Notes, &inv.SentAt, &inv.PaidAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
