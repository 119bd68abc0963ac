package entity

import "time"

// Client representa un cliente facturable. Pertenece a exactamente un User.
type Client struct {
	ID         string
	UserID     string
	Name       string
	Email      string
	Company    string
	Street     string
	City       string
	PostalCode string
	Country    string // si viene vacío en la creación se aplica el país por defecto configurado
	VATNumber  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
