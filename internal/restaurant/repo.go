package restaurant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a restaurant repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) FindMenuItems(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.RestaurantOrder) (*models.RestaurantOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.RestaurantOrder, error) {
	var order models.RestaurantOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND deleted_at IS NULL", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.RestaurantOrder{}).
		Preload("Items").
		Where("restaurant_id = ? AND deleted_at IS NULL", restaurantID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.OrderType != nil {
		query = query.Where("order_type = ?", *filters.OrderType)
	}
	if cursor, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, err
	} else if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.RestaurantOrder
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(orders) > normalized {
		orders = orders[:normalized]
		last := orders[normalized-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		totalItems := 0
		for _, item := range order.Items {
			totalItems += item.Quantity
		}
		summaries = append(summaries, OrderSummary{
			ID:               order.ID,
			Status:           order.Status,
			OrderType:        order.OrderType,
			TableNumber:      order.TableNumber,
			CustomerName:     order.CustomerName,
			AssignedToUserID: order.AssignedToUserID,
			Total:            order.Total,
			Currency:         order.Currency,
			TotalItems:       totalItems,
			CreatedAt:        order.CreatedAt,
		})
	}

	return &OrderList{Orders: summaries, NextCursor: nextCursor}, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.RestaurantOrder{}).
		Where("id = ? AND deleted_at IS NULL", orderID).
		Updates(updates).Error
}

func (r *repository) SoftDeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.RestaurantOrder{}).
		Where("id = ? AND deleted_at IS NULL", orderID).
		UpdateColumn("deleted_at", time.Now().UTC()).Error
}

func (r *repository) FindStaff(ctx context.Context, restaurantID, userID uuid.UUID) (*models.RestaurantStaff, error) {
	var staff models.RestaurantStaff
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *repository) ListStaff(ctx context.Context, restaurantID uuid.UUID) ([]models.RestaurantStaff, error) {
	var staff []models.RestaurantStaff
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at ASC").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *repository) FindStalePlacedOrders(ctx context.Context, cutoff time.Time) ([]models.RestaurantOrder, error) {
	var orders []models.RestaurantOrder
	err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL AND created_at < ?", enums.OrderStatusPlaced, cutoff).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
