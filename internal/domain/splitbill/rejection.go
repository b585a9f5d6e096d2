package splitbill

import (
	"fmt"
)

// Reason classifies why an operation was rejected.
type Reason string

const (
	ReasonEmptyAllocation          Reason = "empty_allocation"
	ReasonIncompleteAllocation     Reason = "incomplete_allocation"
	ReasonTotalMismatch            Reason = "total_mismatch"
	ReasonInsufficientMixedPayment Reason = "insufficient_mixed_payment"
	ReasonInvalidPayment           Reason = "invalid_payment"
	ReasonAlreadyPaid              Reason = "already_paid"
	ReasonUnknownTab               Reason = "unknown_tab"
	ReasonTabLimitReached          Reason = "tab_limit_reached"
	ReasonNotFullyAssigned         Reason = "not_fully_assigned"
	ReasonSessionClosed            Reason = "session_closed"
)

// Rejection is returned when an operation is refused. The session is left
// exactly as it was before the call.
type Rejection struct {
	Reason Reason
	Tab    Tab
	Detail string
}

// Sentinels for errors.Is. A rejection matches a sentinel with the same
// reason regardless of tab.
var (
	ErrEmptyAllocation          = &Rejection{Reason: ReasonEmptyAllocation}
	ErrIncompleteAllocation     = &Rejection{Reason: ReasonIncompleteAllocation}
	ErrTotalMismatch            = &Rejection{Reason: ReasonTotalMismatch}
	ErrInsufficientMixedPayment = &Rejection{Reason: ReasonInsufficientMixedPayment}
	ErrInvalidPayment           = &Rejection{Reason: ReasonInvalidPayment}
	ErrAlreadyPaid              = &Rejection{Reason: ReasonAlreadyPaid}
	ErrUnknownTab               = &Rejection{Reason: ReasonUnknownTab}
	ErrTabLimitReached          = &Rejection{Reason: ReasonTabLimitReached}
	ErrNotFullyAssigned         = &Rejection{Reason: ReasonNotFullyAssigned}
	ErrSessionClosed            = &Rejection{Reason: ReasonSessionClosed}
)

func reject(reason Reason, tab Tab) *Rejection {
	return &Rejection{Reason: reason, Tab: tab}
}

func (r *Rejection) Error() string {
	msg := string(r.Reason)
	if r.Tab != "" {
		msg += fmt.Sprintf(" (tab %s)", r.Tab)
	}
	if r.Detail != "" {
		msg += ": " + r.Detail
	}
	return msg
}

// Is matches sentinels by reason.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	if !ok {
		return false
	}
	return t.Reason == r.Reason && (t.Tab == "" || t.Tab == r.Tab)
}

// Message is the operator-facing text.
func (r *Rejection) Message() string {
	switch r.Reason {
	case ReasonEmptyAllocation:
		return fmt.Sprintf("No hay productos asignados en la subcuenta %q.", string(r.Tab))
	case ReasonIncompleteAllocation:
		return "No se puede pagar esta subcuenta porque aún quedan productos del pedido principal sin asignar a ninguna subcuenta."
	case ReasonTotalMismatch:
		return "El monto total a pagar, incluyendo esta subcuenta, no coincide con el total del pedido. Asegúrate de que todos los montos estén correctamente asignados."
	case ReasonInsufficientMixedPayment:
		return "El monto pagado es insuficiente."
	case ReasonInvalidPayment:
		return "Los montos del pago no son válidos."
	case ReasonAlreadyPaid:
		return fmt.Sprintf("La subcuenta %q ya está pagada.", string(r.Tab))
	case ReasonUnknownTab:
		return fmt.Sprintf("La subcuenta %q no existe.", string(r.Tab))
	case ReasonTabLimitReached:
		return fmt.Sprintf("No se pueden crear más de %d subcuentas.", MaxLetteredTabs)
	case ReasonNotFullyAssigned:
		return "No se puede cerrar la cuenta porque aún quedan productos sin asignar."
	case ReasonSessionClosed:
		return "La cuenta ya fue cerrada."
	default:
		return "Operación no permitida."
	}
}
