package billing

import (
	"strings"
	"time"

	"github.com/jhoicas/Facturas-api/internal/application/dto"
	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Defaults valores de facturación semilla para usuarios sin settings.
type Defaults struct {
	Currency         string
	TaxRate          decimal.Decimal // porcentaje o fracción
	InvoicePrefix    string
	PaymentTermsDays int
}

// Seed materializa los defaults como settings de un usuario (contador en 1).
func (d Defaults) Seed(userID string) *entity.UserSettings {
	return &entity.UserSettings{
		UserID:            userID,
		DefaultTaxRate:    d.TaxRate,
		Currency:          d.Currency,
		InvoicePrefix:     d.InvoicePrefix,
		NextInvoiceNumber: 1,
		PaymentTermsDays:  d.PaymentTermsDays,
		UpdatedAt:         time.Now(),
	}
}

// SettingsUseCase lectura y actualización de UserSettings.
// NextInvoiceNumber nunca se actualiza por esta vía: es territorio del secuenciador.
type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
	defaults     Defaults
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingsRepo repository.SettingsRepository, defaults Defaults) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo, defaults: defaults}
}

// Get devuelve los settings del usuario, materializando los defaults si aún no existen.
func (uc *SettingsUseCase) Get(userID string) (*dto.SettingsResponse, error) {
	settings, err := uc.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = uc.defaults.Seed(userID)
		if err := uc.settingsRepo.Upsert(settings); err != nil {
			return nil, err
		}
	}
	return toSettingsResponse(settings), nil
}

// Update modifica tasa por defecto, moneda, prefijo y plazo de pago.
func (uc *SettingsUseCase) Update(userID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := uc.settingsRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = uc.defaults.Seed(userID)
	}
	if in.DefaultTaxRate != nil {
		if in.DefaultTaxRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		settings.DefaultTaxRate = *in.DefaultTaxRate
	}
	if in.Currency != "" {
		unit, err := currency.ParseISO(in.Currency)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		settings.Currency = unit.String()
	}
	if prefix := strings.TrimSpace(in.InvoicePrefix); prefix != "" {
		settings.InvoicePrefix = prefix
	}
	if in.PaymentTermsDays != nil {
		if *in.PaymentTermsDays < 0 {
			return nil, domain.ErrInvalidInput
		}
		settings.PaymentTermsDays = *in.PaymentTermsDays
	}
	settings.UpdatedAt = time.Now()
	if err := uc.settingsRepo.Upsert(settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(s *entity.UserSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		UserID:            s.UserID,
		DefaultTaxRate:    s.DefaultTaxRate,
		Currency:          s.Currency,
		InvoicePrefix:     s.InvoicePrefix,
		NextInvoiceNumber: s.NextInvoiceNumber,
		PaymentTermsDays:  s.PaymentTermsDays,
		UpdatedAt:         s.UpdatedAt,
	}
}
