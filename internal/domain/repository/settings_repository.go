package repository

import "github.com/jhoicas/Facturas-api/internal/domain/entity"

// SettingsRepository define el puerto de persistencia para UserSettings.
type SettingsRepository interface {
	Get(userID string) (*entity.UserSettings, error)
	Upsert(settings *entity.UserSettings) error
	// IncrementInvoiceNumber emite el siguiente número del usuario de forma
	// atómica: si no hay fila la siembra con los valores por defecto y emite 1.
	// Retorna el prefijo vigente y el número emitido; el contador queda
	// apuntando al siguiente. Una carrera que produzca duplicados es un bug de
	// la implementación, no de este contrato.
	IncrementInvoiceNumber(userID string) (prefix string, issued int, err error)
}
