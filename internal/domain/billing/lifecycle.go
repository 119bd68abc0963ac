package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Facturas-api/internal/domain"
	"github.com/jhoicas/Facturas-api/internal/domain/entity"
)

// Eventos del ciclo de vida de una factura.
const (
	EventSend     = "send"
	EventMarkPaid = "markPaid"
	EventCancel   = "cancel"
)

// TransitionError transición ilegal: nombra estado actual y evento solicitado.
type TransitionError struct {
	From  string
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición inválida: evento %q desde estado %q", e.Event, e.From)
}

// Unwrap permite errors.Is(err, domain.ErrInvalidTransition) en las capas externas.
func (e *TransitionError) Unwrap() error { return domain.ErrInvalidTransition }

// Transition aplica la máquina de estados:
//
//	draft --send--> sent --markPaid--> paid
//	draft|sent --cancel--> cancelled
//
// paid y cancelled son terminales. overdue es un estado derivado (ver
// EffectiveStatus) y nunca es origen ni destino de un evento persistido.
func Transition(from, event string) (string, error) {
	switch {
	case from == entity.StatusDraft && event == EventSend:
		return entity.StatusSent, nil
	case from == entity.StatusSent && event == EventMarkPaid:
		return entity.StatusPaid, nil
	case (from == entity.StatusDraft || from == entity.StatusSent) && event == EventCancel:
		return entity.StatusCancelled, nil
	default:
		return "", &TransitionError{From: from, Event: event}
	}
}

// EffectiveStatus estado observable de la factura: una factura sent cuya fecha
// de vencimiento ya pasó se reporta como overdue. Se calcula en lectura, no se
// persiste, así el estado almacenado nunca diverge del derivado.
//
// La comparación es entre fechas de calendario, cada instante en su propia
// zona: la factura vence al terminar el día local, no a la medianoche UTC.
func EffectiveStatus(status string, dueDate, now time.Time) string {
	if status != entity.StatusSent {
		return status
	}
	if calendarDay(dueDate).Before(calendarDay(now)) {
		return entity.StatusOverdue
	}
	return status
}

// calendarDay proyecta un instante a su fecha de calendario (medianoche UTC)
// según la zona del propio instante.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ItemsMutable indica si los ítems de la factura admiten altas/ediciones/bajas.
// Solo draft lleva lista mutable; el guard vive aquí y lo consulta únicamente
// el caso de uso de facturas.
func ItemsMutable(status string) bool {
	return status == entity.StatusDraft
}

// Deletable indica si la factura puede eliminarse (solo draft y cancelled).
func Deletable(status string) bool {
	return status == entity.StatusDraft || status == entity.StatusCancelled
}
