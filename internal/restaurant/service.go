package restaurant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier enqueues in-app notifications. Writes are best-effort; callers log
// failures and move on.
type Notifier interface {
	Enqueue(ctx context.Context, notification models.Notification) error
}

// Service defines restaurant order operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.RestaurantOrder, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.RestaurantOrder, error)
	ListOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error)
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.RestaurantOrder, error)
	DeleteOrder(ctx context.Context, input DeleteOrderInput) error
	ListStaff(ctx context.Context, restaurantID uuid.UUID) ([]StaffMember, error)
	ExpireStalePlacedOrders(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier Notifier
	log      *logger.Logger
}

// NewService builds the restaurant service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier Notifier, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier, log: log}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.RestaurantOrder, error) {
	if input.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if !input.OrderType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order type must be delivery or dine_in")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"menu_item_id": item.MenuItemID})
		}
	}

	restaurant, err := s.repo.FindRestaurant(ctx, input.RestaurantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.MenuItemID)
	}
	menuItems, err := s.repo.FindMenuItems(ctx, restaurant.ID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
	}
	menuByID := make(map[uuid.UUID]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		menuByID[item.ID] = item
	}

	// Prices come from the menu, never from the request.
	total := decimal.Zero
	lines := make([]models.RestaurantOrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		menuItem, ok := menuByID[item.MenuItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item not found for restaurant").
				WithDetails(map[string]any{"menu_item_id": item.MenuItemID})
		}
		if !menuItem.Available {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item is unavailable").
				WithDetails(map[string]any{"menu_item_id": item.MenuItemID})
		}
		lineTotal := menuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)
		lines = append(lines, models.RestaurantOrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   item.Quantity,
			UnitPrice:  menuItem.Price,
			LineTotal:  lineTotal,
		})
	}

	order := &models.RestaurantOrder{
		RestaurantID:   restaurant.ID,
		Status:         enums.OrderStatusPlaced,
		OrderType:      input.OrderType,
		TableNumber:    input.TableNumber,
		CustomerName:   input.CustomerName,
		PlacedByUserID: input.PlacedByUserID,
		Total:          total,
		Currency:       restaurant.Currency,
		Items:          lines,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.RestaurantOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, restaurantID uuid.UUID, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	list, err := s.repo.ListOrders(ctx, restaurantID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateOrder(ctx context.Context, input UpdateOrderInput) (*models.RestaurantOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Status == nil && input.AssignedToUserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status or assignedToUserId required")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.RestaurantOrder
	var statusBecameReady bool
	var assigneeChanged bool

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		restaurant, err := repo.FindRestaurant(ctx, order.RestaurantID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
		}

		isOwner, role, err := s.resolveActor(ctx, repo, restaurant, input.ActorUserID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if input.Status != nil {
			if !CanSetStatus(role, isOwner, *input.Status) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "role may not set this status").
					WithDetails(map[string]any{"status": *input.Status})
			}
			updates["status"] = *input.Status
			statusBecameReady = *input.Status == enums.OrderStatusReady
		}
		if input.AssignedToUserID != nil {
			if !CanAssign(role, isOwner) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "role may not assign orders")
			}
			assignee, err := repo.FindStaff(ctx, order.RestaurantID, *input.AssignedToUserID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeValidation, "assignee is not staff of this restaurant")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignee")
			}
			if !Assignable(assignee.Role) {
				return pkgerrors.New(pkgerrors.CodeValidation, "assignee must have role waiter or delivery").
					WithDetails(map[string]any{"role": assignee.Role})
			}
			updates["assigned_to_user_id"] = *input.AssignedToUserID
			assigneeChanged = order.AssignedToUserID == nil || *order.AssignedToUserID != *input.AssignedToUserID
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		updated, err = repo.FindOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusBecameReady {
		s.notify(ctx, models.Notification{
			RestaurantID: updated.RestaurantID,
			Type:         enums.NotificationTypeOrderReady,
			Title:        "Order ready",
			Message:      fmt.Sprintf("Order %s is ready for pickup", updated.ID),
		})
	}
	if assigneeChanged {
		s.notify(ctx, models.Notification{
			RestaurantID: updated.RestaurantID,
			UserID:       input.AssignedToUserID,
			Type:         enums.NotificationTypeOrderAssigned,
			Title:        "Order assigned",
			Message:      fmt.Sprintf("Order %s was assigned to you", updated.ID),
		})
	}

	return updated, nil
}

func (s *service) DeleteOrder(ctx context.Context, input DeleteOrderInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	restaurant, err := s.repo.FindRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	isOwner, role, err := s.resolveActor(ctx, s.repo, restaurant, input.ActorUserID)
	if err != nil {
		return err
	}
	if !isOwner && role != enums.StaffRoleManager {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner or a manager may delete orders")
	}

	if err := s.repo.SoftDeleteOrder(ctx, order.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) ListStaff(ctx context.Context, restaurantID uuid.UUID) ([]StaffMember, error) {
	if restaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	rows, err := s.repo.ListStaff(ctx, restaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	members := make([]StaffMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, StaffMember{UserID: row.UserID, Role: row.Role})
	}
	return members, nil
}

// ExpireStalePlacedOrders cancels orders stuck in placed since before cutoff.
// Per-order failures are combined; successful cancellations still count.
func (s *service) ExpireStalePlacedOrders(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.FindStalePlacedOrders(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stale orders")
	}

	expired := 0
	var errs error
	for _, order := range stale {
		if err := s.repo.UpdateOrder(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cancel order %s: %w", order.ID, err))
			continue
		}
		expired++
		s.notify(ctx, models.Notification{
			RestaurantID: order.RestaurantID,
			Type:         enums.NotificationTypeOrderExpired,
			Title:        "Order expired",
			Message:      fmt.Sprintf("Order %s was cancelled after sitting unaccepted", order.ID),
		})
	}
	return expired, errs
}

func (s *service) resolveActor(ctx context.Context, repo Repository, restaurant *models.Restaurant, userID uuid.UUID) (bool, enums.StaffRole, error) {
	if restaurant.OwnerUserID == userID {
		return true, "", nil
	}
	staff, err := repo.FindStaff(ctx, restaurant.ID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, "", pkgerrors.New(pkgerrors.CodeForbidden, "caller is not staff of this restaurant")
		}
		return false, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff membership")
	}
	return false, staff.Role, nil
}

func (s *service) notify(ctx context.Context, notification models.Notification) {
	if err := s.notifier.Enqueue(ctx, notification); err != nil {
		s.log.Warn(ctx, fmt.Sprintf("notification enqueue failed: %v", err))
	}
}
