package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes del usuario.
// Toda lectura y escritura verifica propiedad: un cliente ajeno o inexistente
// responde ErrNotFound por igual, para no filtrar existencia a terceros.
type ClientUseCase struct {
	clientRepo     repository.ClientRepository
	invoiceRepo    repository.InvoiceRepository
	defaultCountry string
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository, invoiceRepo repository.InvoiceRepository, defaultCountry string) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo, invoiceRepo: invoiceRepo, defaultCountry: defaultCountry}
}

// Create crea un cliente. Country vacío toma el país por defecto configurado.
func (uc *ClientUseCase) Create(userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	country := in.Country
	if country == "" {
		country = uc.defaultCountry
	}
	now := time.Now()
	client := &entity.Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       in.Name,
		Email:      in.Email,
		Company:    in.Company,
		Street:     in.Street,
		City:       in.City,
		PostalCode: in.PostalCode,
		Country:    country,
		VATNumber:  in.VATNumber,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get obtiene un cliente propio por ID.
func (uc *ClientUseCase) Get(userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.ownedClient(userID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista los clientes del usuario con paginación.
func (uc *ClientUseCase) List(userID string, limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.clientRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update actualiza los datos de contacto/facturación de un cliente propio.
func (uc *ClientUseCase) Update(userID, id string, in dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.ownedClient(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	client.Name = in.Name
	client.Email = in.Email
	client.Company = in.Company
	client.Street = in.Street
	client.City = in.City
	client.PostalCode = in.PostalCode
	if in.Country != "" {
		client.Country = in.Country
	}
	client.VATNumber = in.VATNumber
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete elimina un cliente propio. Un cliente con facturas no se elimina
// (ErrConflict): las facturas lo referencian, no hay borrado en cascada.
func (uc *ClientUseCase) Delete(userID, id string) error {
	client, err := uc.ownedClient(userID, id)
	if err != nil {
		return err
	}
	count, err := uc.invoiceRepo.CountByClient(client.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return uc.clientRepo.Delete(client.ID)
}

// ownedClient carga un cliente y verifica que pertenezca al usuario.
func (uc *ClientUseCase) ownedClient(userID, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil || client.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		Email:      c.Email,
		Company:    c.Company,
		Street:     c.Street,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		VATNumber:  c.VATNumber,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
