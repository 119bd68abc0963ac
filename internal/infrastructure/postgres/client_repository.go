package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, user_id, name, COALESCE(email, ''), COALESCE(company, ''),
	COALESCE(street, ''), COALESCE(city, ''), COALESCE(postal_code, ''), country,
	COALESCE(vat_number, ''), created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(client *entity.Client) error {
	query := `
		INSERT INTO clients (id, user_id, name, email, company, street, city, postal_code, country, vat_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.UserID, client.Name,
		nullIfEmpty(client.Email), nullIfEmpty(client.Company), nullIfEmpty(client.Street),
		nullIfEmpty(client.City), nullIfEmpty(client.PostalCode), client.Country, nullIfEmpty(client.VATNumber),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Retorna (nil, nil) si no existe.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	var c entity.Client
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company,
		&c.Street, &c.City, &c.PostalCode, &c.Country,
		&c.VATNumber, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return &c, nil
}

// ListByUser lista clientes del usuario con paginación.
func (r *ClientRepo) ListByUser(userID string, limit, offset int) ([]*entity.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Email, &c.Company,
			&c.Street, &c.City, &c.PostalCode, &c.Country,
			&c.VATNumber, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(client *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, company = $4, street = $5, city = $6,
		       postal_code = $7, country = $8, vat_number = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		client.ID, client.Name,
		nullIfEmpty(client.Email), nullIfEmpty(client.Company), nullIfEmpty(client.Street),
		nullIfEmpty(client.City), nullIfEmpty(client.PostalCode), client.Country, nullIfEmpty(client.VATNumber),
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}
