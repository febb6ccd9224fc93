package restaurant

import "github.com/qrdine/qrdine-backend/pkg/enums"

// statusesByRole lists the statuses each staff role may set. Owners and
// managers are unrestricted and never consult this table.
var statusesByRole = map[enums.StaffRole]map[enums.OrderStatus]bool{
	enums.StaffRoleKitchen: {
		enums.OrderStatusAccepted:  true,
		enums.OrderStatusPreparing: true,
		enums.OrderStatusReady:     true,
		enums.OrderStatusCancelled: true,
	},
	enums.StaffRoleWaiter: {
		enums.OrderStatusServed:    true,
		enums.OrderStatusCompleted: true,
		enums.OrderStatusCancelled: true,
	},
	enums.StaffRoleDelivery: {
		enums.OrderStatusServed:    true,
		enums.OrderStatusCompleted: true,
		enums.OrderStatusCancelled: true,
	},
}

// CanSetStatus reports whether the caller may set the order to next. The
// current status is deliberately not consulted; permitted callers may set any
// status they are entitled to at any time.
func CanSetStatus(role enums.StaffRole, isOwner bool, next enums.OrderStatus) bool {
	if !next.IsValid() {
		return false
	}
	if isOwner || role == enums.StaffRoleManager {
		return true
	}
	return statusesByRole[role][next]
}

// CanAssign reports whether the caller may change an order's assignee.
func CanAssign(role enums.StaffRole, isOwner bool) bool {
	return isOwner || role == enums.StaffRoleManager || role == enums.StaffRoleKitchen
}

// Assignable reports whether a staff role may be the target of an assignment.
func Assignable(role enums.StaffRole) bool {
	return role == enums.StaffRoleWaiter || role == enums.StaffRoleDelivery
}
