package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Facturas-api/internal/application/dto"
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/billing"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
	"golang.org/x/text/currency"
)

// dateLayout formato de fecha de emisión y vencimiento en la API.
const dateLayout = "2006-01-02"

// InvoiceUseCase servicio agregado de facturas: orquesta secuenciador,
// calculadora y máquina de estados. Es el único lugar que aplica los guards de
// mutabilidad por estado y el único que invoca transiciones.
type InvoiceUseCase struct {
	txRunner     InvoiceTxRunner
	clientRepo   repository.ClientRepository
	invoiceRepo  repository.InvoiceRepository
	settingsRepo repository.SettingsRepository
	defaults     Defaults
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner InvoiceTxRunner,
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	settingsRepo repository.SettingsRepository,
	defaults Defaults,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		clientRepo:   clientRepo,
		invoiceRepo:  invoiceRepo,
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// CreateInvoice crea una factura en draft: valida cliente y fechas, emite el
// número con el secuenciador, calcula totales y persiste cabecera e ítems en
// una sola transacción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente y que sea del usuario; ajeno e inexistente responden igual
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || client.UserID != userID {
		return nil, domain.ErrNotFound
	}

	settings, err := uc.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = uc.defaults.Seed(userID)
	}

	issueDate, err := time.Parse(dateLayout, in.IssueDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	var dueDate time.Time
	if in.DueDate == "" {
		dueDate = issueDate.AddDate(0, 0, settings.PaymentTermsDays)
	} else {
		dueDate, err = time.Parse(dateLayout, in.DueDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
	}
	if dueDate.Before(issueDate) {
		return nil, domain.ErrInvalidInput
	}

	curr := in.Currency
	if curr == "" {
		curr = settings.Currency
	}
	unit, err := currency.ParseISO(curr)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	taxRate := settings.DefaultTaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	taxRate = billing.NormalizeTaxRate(taxRate)

	lines, err := toLines(in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(lines, taxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		UserID:      userID,
		ClientID:    client.ID,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		Currency:    unit.String(),
		Subtotal:    totals.Subtotal,
		TaxRate:     taxRate,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.Total,
		Status:      entity.StatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := buildItems(inv.ID, in.Items, totals, now)

	// Número + cabecera + ítems confirman o revierten juntos
	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, settingsRepo repository.SettingsRepository) error {
		number, err := NewSequencer(settingsRepo).Next(userID)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// UpdateItems reemplaza los ítems de una factura en draft y recalcula los
// campos derivados. Fuera de draft la edición de ítems es una transición
// ilegal, no una validación fallida.
func (uc *InvoiceUseCase) UpdateItems(ctx context.Context, userID, invoiceID string, in dto.UpdateItemsRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !billing.ItemsMutable(inv.Status) {
		return nil, &billing.TransitionError{From: inv.Status, Event: "updateItems"}
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	lines, err := toLines(in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := billing.ComputeTotals(lines, inv.TaxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.TotalAmount = totals.Total
	inv.UpdatedAt = now
	items := buildItems(inv.ID, in.Items, totals, now)

	err = uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.SettingsRepository) error {
		if err := invoiceRepo.DeleteItemsByInvoiceID(inv.ID); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return invoiceRepo.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// Send transición draft -> sent: congela ítems y sella SentAt.
func (uc *InvoiceUseCase) Send(ctx context.Context, userID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.transition(userID, invoiceID, billing.EventSend)
}

// MarkPaid transición sent -> paid: sella PaidAt.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, userID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.transition(userID, invoiceID, billing.EventMarkPaid)
}

// Cancel transición draft|sent -> cancelled. Los montos no cambian.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, userID, invoiceID string) (*dto.InvoiceResponse, error) {
	return uc.transition(userID, invoiceID, billing.EventCancel)
}

// transition aplica la máquina de estados y persiste estado + sello en un update.
func (uc *InvoiceUseCase) transition(userID, invoiceID, event string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, err
	}
	next, err := billing.Transition(inv.Status, event)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv.Status = next
	switch event {
	case billing.EventSend:
		inv.SentAt = &now
	case billing.EventMarkPaid:
		inv.PaidAt = &now
	}
	inv.UpdatedAt = now
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// GetInvoice obtiene una factura propia con su detalle completo.
func (uc *InvoiceUseCase) GetInvoice(userID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// ListInvoices lista las facturas del usuario con paginación.
func (uc *InvoiceUseCase) ListInvoices(userID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.invoiceRepo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items, err := uc.invoiceRepo.GetItemsByInvoiceID(inv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toInvoiceResponse(inv, items))
	}
	return out, nil
}

// DeleteInvoice elimina una factura propia; solo draft y cancelled se borran.
// El número emitido no se recupera.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	inv, err := uc.ownedInvoice(userID, invoiceID)
	if err != nil {
		return err
	}
	if !billing.Deletable(inv.Status) {
		return &billing.TransitionError{From: inv.Status, Event: "delete"}
	}
	return uc.txRunner.RunInvoice(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.SettingsRepository) error {
		if err := invoiceRepo.DeleteItemsByInvoiceID(inv.ID); err != nil {
			return err
		}
		return invoiceRepo.Delete(inv.ID)
	})
}

// ownedInvoice carga una factura y verifica que pertenezca al usuario.
func (uc *InvoiceUseCase) ownedInvoice(userID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// toLines valida descripción y convierte ítems del request a líneas de cálculo.
func toLines(items []dto.InvoiceItemRequest) ([]billing.Line, error) {
	lines := make([]billing.Line, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, domain.ErrInvalidInput
		}
		lines[i] = billing.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice}
	}
	return lines, nil
}

// buildItems arma las entidades de línea con el total derivado por la calculadora.
func buildItems(invoiceID string, items []dto.InvoiceItemRequest, totals billing.Totals, now time.Time) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, len(items))
	for i, item := range items {
		out[i] = &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  totals.LineTotals[i],
			Position:    i,
			CreatedAt:   now,
		}
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		UserID:        inv.UserID,
		ClientID:      inv.ClientID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        billing.EffectiveStatus(inv.Status, inv.DueDate, time.Now()),
		Notes:         inv.Notes,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:          item.ID,
			InvoiceID:   item.InvoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return resp
}
