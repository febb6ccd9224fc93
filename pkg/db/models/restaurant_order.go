package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// RestaurantOrder is a customer or staff-placed order. Totals are always
// recomputed server-side from menu-item prices; rows are soft-deleted only.
type RestaurantOrder struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID     uuid.UUID             `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status           enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'placed'"`
	OrderType        enums.OrderType       `gorm:"column:order_type;type:text;not null"`
	TableNumber      *string               `gorm:"column:table_number;type:text"`
	CustomerName     *string               `gorm:"column:customer_name;type:text"`
	PlacedByUserID   *uuid.UUID            `gorm:"column:placed_by_user_id;type:uuid"`
	AssignedToUserID *uuid.UUID            `gorm:"column:assigned_to_user_id;type:uuid"`
	Total            decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	Currency         enums.Currency        `gorm:"column:currency;type:text;not null"`
	Items            []RestaurantOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeletedAt        *time.Time            `gorm:"column:deleted_at;type:timestamptz"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// RestaurantOrderItem is a line item snapshot priced from the menu at
// order-creation time.
type RestaurantOrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;type:text;not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
