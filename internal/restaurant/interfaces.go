package restaurant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

// Repository defines persistence operations for the restaurant ordering
// tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindMenuItems(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error)
	CreateOrder(ctx context.Context, order *models.RestaurantOrder) (*models.RestaurantOrder, error)
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.RestaurantOrder, error)
	ListOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error
	FindStaff(ctx context.Context, restaurantID, userID uuid.UUID) (*models.RestaurantStaff, error)
	ListStaff(ctx context.Context, restaurantID uuid.UUID) ([]models.RestaurantStaff, error)
	FindStalePlacedOrders(ctx context.Context, cutoff time.Time) ([]models.RestaurantOrder, error)
}
