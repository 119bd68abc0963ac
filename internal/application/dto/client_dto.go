package dto

import "time"

// CreateClientRequest body para POST /api/clients.
// Country vacío toma el país por defecto configurado.
type CreateClientRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Company    string `json:"company,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	VATNumber  string `json:"vat_number,omitempty"`
}

// UpdateClientRequest body para PUT /api/clients/:id.
type UpdateClientRequest = CreateClientRequest

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Company    string    `json:"company,omitempty"`
	Street     string    `json:"street,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Country    string    `json:"country"`
	VATNumber  string    `json:"vat_number,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
