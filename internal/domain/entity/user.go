package entity

import "time"

// User representa un freelancer o pequeña empresa dueña de sus clientes y facturas.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	CompanyName  string
	TaxID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
