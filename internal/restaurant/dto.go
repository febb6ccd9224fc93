package restaurant

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// OrderItemInput is one requested line in a new order. Prices are never
// accepted from the caller; the menu is authoritative.
type OrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// CreateOrderInput captures a new order placed by a customer or staff member.
type CreateOrderInput struct {
	RestaurantID   uuid.UUID
	OrderType      enums.OrderType
	TableNumber    *string
	CustomerName   *string
	PlacedByUserID *uuid.UUID
	Items          []OrderItemInput
}

// UpdateOrderInput is a PATCH on status and/or assignment. At least one of
// Status and AssignedToUserID must be set.
type UpdateOrderInput struct {
	OrderID          uuid.UUID
	ActorUserID      uuid.UUID
	Status           *enums.OrderStatus
	AssignedToUserID *uuid.UUID
}

// DeleteOrderInput soft-deletes an order.
type DeleteOrderInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
}

// OrderFilters describe the inputs supported by the order list.
type OrderFilters struct {
	Status    *enums.OrderStatus
	OrderType *enums.OrderType
}

// OrderSummary exposes the aggregated fields returned in the order list.
type OrderSummary struct {
	ID               uuid.UUID         `json:"id"`
	Status           enums.OrderStatus `json:"status"`
	OrderType        enums.OrderType   `json:"order_type"`
	TableNumber      *string           `json:"table_number,omitempty"`
	CustomerName     *string           `json:"customer_name,omitempty"`
	AssignedToUserID *uuid.UUID        `json:"assigned_to_user_id,omitempty"`
	Total            decimal.Decimal   `json:"total"`
	Currency         enums.Currency    `json:"currency"`
	TotalItems       int               `json:"total_items"`
	CreatedAt        time.Time         `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StaffMember is the staff listing projection.
type StaffMember struct {
	UserID uuid.UUID       `json:"user_id"`
	Role   enums.StaffRole `json:"role"`
}
