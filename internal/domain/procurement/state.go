// Package procurement reglas puras de órdenes de compra: máquina de estados, MOQ,
// selección de proveedor y agrupación de solicitudes de stock.
package procurement

import (
	"fmt"

	"github.com/jhoicas/supply-chain-api/internal/domain"
	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

var transitions = map[string][]string{
	entity.POStatusDraft:           {entity.POStatusPendingApproval, entity.POStatusCancelled},
	entity.POStatusPendingApproval: {entity.POStatusApproved, entity.POStatusCancelled},
	entity.POStatusApproved:        {entity.POStatusSent, entity.POStatusCancelled},
	entity.POStatusSent:            {entity.POStatusConfirmed, entity.POStatusDelivered, entity.POStatusCancelled},
	entity.POStatusConfirmed:       {entity.POStatusDelivered},
}

// CanTransition indica si la orden puede pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition valida y aplica el cambio de estado.
func Transition(po *entity.PurchaseOrder, to string) error {
	if !CanTransition(po.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, po.Status, to)
	}
	po.Status = to
	return nil
}

// IsTerminal indica si el estado ya no admite cambios.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// Editable indica si la cabecera de la orden todavía se puede modificar.
func Editable(status string) bool {
	return status == entity.POStatusDraft || status == entity.POStatusPendingApproval
}

// ValidStatus indica si s es un estado conocido.
func ValidStatus(s string) bool {
	switch s {
	case entity.POStatusDraft, entity.POStatusPendingApproval, entity.POStatusApproved,
		entity.POStatusSent, entity.POStatusConfirmed, entity.POStatusDelivered, entity.POStatusCancelled:
		return true
	}
	return false
}
