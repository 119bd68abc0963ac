package billing

import (
	"errors"
	"fmt"

	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/repository"
)

// maxSequencerRetries presupuesto de reintentos ante contención del contador.
const maxSequencerRetries = 3

// Sequencer emite números de factura por usuario: PREFIJO-0001, PREFIJO-0002...
// La unicidad y monotonicidad las garantiza el incremento atómico del repo;
// los números emitidos nunca se reutilizan, aunque la factura se cancele o borre.
type Sequencer struct {
	settingsRepo repository.SettingsRepository
}

// NewSequencer construye el secuenciador sobre el repo de settings
// (normalmente el repo atado a la transacción de creación de la factura).
func NewSequencer(settingsRepo repository.SettingsRepository) *Sequencer {
	return &Sequencer{settingsRepo: settingsRepo}
}

// Next emite el siguiente número del usuario. Reintenta ante contención
// (serialización) hasta agotar el presupuesto; entonces retorna ErrConcurrency.
func (s *Sequencer) Next(userID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxSequencerRetries; attempt++ {
		prefix, issued, err := s.settingsRepo.IncrementInvoiceNumber(userID)
		if err == nil {
			return FormatNumber(prefix, issued), nil
		}
		if !errors.Is(err, domain.ErrConcurrency) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("secuenciador agotó reintentos: %w", lastErr)
}

// FormatNumber compone el número visible: prefijo + consecutivo con padding.
func FormatNumber(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}
