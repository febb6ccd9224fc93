package restaurant

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

type fakeRepo struct {
	restaurants  map[uuid.UUID]models.Restaurant
	menuItems    map[uuid.UUID]models.MenuItem
	orders       map[uuid.UUID]*models.RestaurantOrder
	staff        map[uuid.UUID]map[uuid.UUID]models.RestaurantStaff
	updateErrFor map[uuid.UUID]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		restaurants:  map[uuid.UUID]models.Restaurant{},
		menuItems:    map[uuid.UUID]models.MenuItem{},
		orders:       map[uuid.UUID]*models.RestaurantOrder{},
		staff:        map[uuid.UUID]map[uuid.UUID]models.RestaurantStaff{},
		updateErrFor: map[uuid.UUID]error{},
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) FindRestaurant(_ context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, ok := f.restaurants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &restaurant, nil
}

func (f *fakeRepo) FindMenuItems(_ context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, id := range ids {
		if item, ok := f.menuItems[id]; ok && item.RestaurantID == restaurantID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateOrder(_ context.Context, order *models.RestaurantOrder) (*models.RestaurantOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now().UTC()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) FindOrder(_ context.Context, orderID uuid.UUID) (*models.RestaurantOrder, error) {
	order, ok := f.orders[orderID]
	if !ok || order.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeRepo) ListOrders(_ context.Context, _ uuid.UUID, _ pagination.Params, _ OrderFilters) (*OrderList, error) {
	return &OrderList{}, nil
}

func (f *fakeRepo) UpdateOrder(_ context.Context, orderID uuid.UUID, updates map[string]any) error {
	if err := f.updateErrFor[orderID]; err != nil {
		return err
	}
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if status, ok := updates["status"].(enums.OrderStatus); ok {
		order.Status = status
	}
	if assignee, ok := updates["assigned_to_user_id"].(uuid.UUID); ok {
		order.AssignedToUserID = &assignee
	}
	return nil
}

func (f *fakeRepo) SoftDeleteOrder(_ context.Context, orderID uuid.UUID) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now().UTC()
	order.DeletedAt = &now
	return nil
}

func (f *fakeRepo) FindStaff(_ context.Context, restaurantID, userID uuid.UUID) (*models.RestaurantStaff, error) {
	member, ok := f.staff[restaurantID][userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &member, nil
}

func (f *fakeRepo) ListStaff(_ context.Context, restaurantID uuid.UUID) ([]models.RestaurantStaff, error) {
	var out []models.RestaurantStaff
	for _, member := range f.staff[restaurantID] {
		out = append(out, member)
	}
	return out, nil
}

func (f *fakeRepo) FindStalePlacedOrders(_ context.Context, cutoff time.Time) ([]models.RestaurantOrder, error) {
	var out []models.RestaurantOrder
	for _, order := range f.orders {
		if order.Status == enums.OrderStatusPlaced && order.DeletedAt == nil && order.CreatedAt.Before(cutoff) {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeRepo) addStaff(restaurantID, userID uuid.UUID, role enums.StaffRole) {
	if f.staff[restaurantID] == nil {
		f.staff[restaurantID] = map[uuid.UUID]models.RestaurantStaff{}
	}
	f.staff[restaurantID][userID] = models.RestaurantStaff{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		UserID:       userID,
		Role:         role,
	}
}

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeNotifier struct {
	enqueued []models.Notification
	err      error
}

func (f *fakeNotifier) Enqueue(_ context.Context, notification models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, notification)
	return nil
}

type fixture struct {
	repo         *fakeRepo
	notifier     *fakeNotifier
	svc          Service
	restaurantID uuid.UUID
	ownerID      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	log := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, fakeTx{}, notifier, log)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	restaurantID := uuid.New()
	ownerID := uuid.New()
	repo.restaurants[restaurantID] = models.Restaurant{
		ID:          restaurantID,
		OwnerUserID: ownerID,
		Name:        "Test Kitchen",
		CountryCode: "NG",
		Currency:    enums.CurrencyNGN,
	}
	return &fixture{repo: repo, notifier: notifier, svc: svc, restaurantID: restaurantID, ownerID: ownerID}
}

func (fx *fixture) addMenuItem(t *testing.T, name, price string, available bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	fx.repo.menuItems[id] = models.MenuItem{
		ID:           id,
		RestaurantID: fx.restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    available,
	}
	return id
}

func (fx *fixture) addOrder(status enums.OrderStatus) *models.RestaurantOrder {
	order := &models.RestaurantOrder{
		ID:           uuid.New(),
		RestaurantID: fx.restaurantID,
		Status:       status,
		OrderType:    enums.OrderTypeDineIn,
		Total:        decimal.RequireFromString("10.00"),
		Currency:     enums.CurrencyNGN,
		CreatedAt:    time.Now().UTC(),
	}
	fx.repo.orders[order.ID] = order
	return order
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestCreateOrderPricesFromMenu(t *testing.T) {
	fx := newFixture(t)
	jollof := fx.addMenuItem(t, "Jollof Rice", "12.50", true)
	suya := fx.addMenuItem(t, "Suya", "4.25", true)

	order, err := fx.svc.CreateOrder(context.Background(), CreateOrderInput{
		RestaurantID: fx.restaurantID,
		OrderType:    enums.OrderTypeDineIn,
		Items: []OrderItemInput{
			{MenuItemID: jollof, Quantity: 2},
			{MenuItemID: suya, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if order.Status != enums.OrderStatusPlaced {
		t.Fatalf("new orders start placed, got %s", order.Status)
	}
	if order.Currency != enums.CurrencyNGN {
		t.Fatalf("currency comes from the restaurant, got %s", order.Currency)
	}
	want := decimal.RequireFromString("37.75")
	if !order.Total.Equal(want) {
		t.Fatalf("total = %s, want %s", order.Total, want)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(order.Items))
	}
	if order.Items[0].Name != "Jollof Rice" || !order.Items[0].LineTotal.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("unexpected first line %+v", order.Items[0])
	}
}

func TestCreateOrderRejectsUnknownMenuItem(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.CreateOrder(context.Background(), CreateOrderInput{
		RestaurantID: fx.restaurantID,
		OrderType:    enums.OrderTypeDineIn,
		Items:        []OrderItemInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	fx := newFixture(t)
	off := fx.addMenuItem(t, "Seasonal Special", "9.00", false)

	_, err := fx.svc.CreateOrder(context.Background(), CreateOrderInput{
		RestaurantID: fx.restaurantID,
		OrderType:    enums.OrderTypeDelivery,
		Items:        []OrderItemInput{{MenuItemID: off, Quantity: 1}},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateOrderKitchenReadyNotifies(t *testing.T) {
	fx := newFixture(t)
	kitchen := uuid.New()
	fx.repo.addStaff(fx.restaurantID, kitchen, enums.StaffRoleKitchen)
	order := fx.addOrder(enums.OrderStatusPreparing)

	ready := enums.OrderStatusReady
	updated, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     order.ID,
		ActorUserID: kitchen,
		Status:      &ready,
	})
	if err != nil {
		t.Fatalf("update order: %v", err)
	}
	if updated.Status != enums.OrderStatusReady {
		t.Fatalf("status = %s, want ready", updated.Status)
	}
	if len(fx.notifier.enqueued) != 1 || fx.notifier.enqueued[0].Type != enums.NotificationTypeOrderReady {
		t.Fatalf("expected one order_ready notification, got %+v", fx.notifier.enqueued)
	}
}

func TestUpdateOrderKitchenCannotComplete(t *testing.T) {
	fx := newFixture(t)
	kitchen := uuid.New()
	fx.repo.addStaff(fx.restaurantID, kitchen, enums.StaffRoleKitchen)
	order := fx.addOrder(enums.OrderStatusServed)

	completed := enums.OrderStatusCompleted
	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     order.ID,
		ActorUserID: kitchen,
		Status:      &completed,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateOrderAssignmentFlow(t *testing.T) {
	fx := newFixture(t)
	manager := uuid.New()
	waiter := uuid.New()
	fx.repo.addStaff(fx.restaurantID, manager, enums.StaffRoleManager)
	fx.repo.addStaff(fx.restaurantID, waiter, enums.StaffRoleWaiter)
	order := fx.addOrder(enums.OrderStatusReady)

	updated, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:          order.ID,
		ActorUserID:      manager,
		AssignedToUserID: &waiter,
	})
	if err != nil {
		t.Fatalf("assign order: %v", err)
	}
	if updated.AssignedToUserID == nil || *updated.AssignedToUserID != waiter {
		t.Fatalf("unexpected assignee %v", updated.AssignedToUserID)
	}
	if len(fx.notifier.enqueued) != 1 || fx.notifier.enqueued[0].Type != enums.NotificationTypeOrderAssigned {
		t.Fatalf("expected order_assigned notification, got %+v", fx.notifier.enqueued)
	}
	if fx.notifier.enqueued[0].UserID == nil || *fx.notifier.enqueued[0].UserID != waiter {
		t.Fatalf("notification should target the assignee")
	}
}

func TestUpdateOrderWaiterCannotAssign(t *testing.T) {
	fx := newFixture(t)
	waiter := uuid.New()
	other := uuid.New()
	fx.repo.addStaff(fx.restaurantID, waiter, enums.StaffRoleWaiter)
	fx.repo.addStaff(fx.restaurantID, other, enums.StaffRoleDelivery)
	order := fx.addOrder(enums.OrderStatusReady)

	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:          order.ID,
		ActorUserID:      waiter,
		AssignedToUserID: &other,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateOrderAssigneeMustBeFloorStaff(t *testing.T) {
	fx := newFixture(t)
	kitchen := uuid.New()
	fx.repo.addStaff(fx.restaurantID, kitchen, enums.StaffRoleKitchen)
	order := fx.addOrder(enums.OrderStatusReady)

	stranger := uuid.New()
	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:          order.ID,
		ActorUserID:      fx.ownerID,
		AssignedToUserID: &stranger,
	})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:          order.ID,
		ActorUserID:      fx.ownerID,
		AssignedToUserID: &kitchen,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateOrderRequiresAField(t *testing.T) {
	fx := newFixture(t)
	order := fx.addOrder(enums.OrderStatusPlaced)

	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     order.ID,
		ActorUserID: fx.ownerID,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateOrderNotFound(t *testing.T) {
	fx := newFixture(t)
	ready := enums.OrderStatusReady

	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     uuid.New(),
		ActorUserID: fx.ownerID,
		Status:      &ready,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateOrderNonStaffRejected(t *testing.T) {
	fx := newFixture(t)
	order := fx.addOrder(enums.OrderStatusPlaced)
	ready := enums.OrderStatusReady

	_, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     order.ID,
		ActorUserID: uuid.New(),
		Status:      &ready,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateOrderNotificationFailureIsSwallowed(t *testing.T) {
	fx := newFixture(t)
	fx.notifier.err = fmt.Errorf("notifications table gone")
	order := fx.addOrder(enums.OrderStatusPreparing)

	ready := enums.OrderStatusReady
	updated, err := fx.svc.UpdateOrder(context.Background(), UpdateOrderInput{
		OrderID:     order.ID,
		ActorUserID: fx.ownerID,
		Status:      &ready,
	})
	if err != nil {
		t.Fatalf("notification failure must not fail the mutation: %v", err)
	}
	if updated.Status != enums.OrderStatusReady {
		t.Fatalf("status = %s, want ready", updated.Status)
	}
}

func TestDeleteOrderOwnerOnly(t *testing.T) {
	fx := newFixture(t)
	waiter := uuid.New()
	fx.repo.addStaff(fx.restaurantID, waiter, enums.StaffRoleWaiter)
	order := fx.addOrder(enums.OrderStatusCancelled)

	err := fx.svc.DeleteOrder(context.Background(), DeleteOrderInput{OrderID: order.ID, ActorUserID: waiter})
	expectCode(t, err, pkgerrors.CodeForbidden)

	if err := fx.svc.DeleteOrder(context.Background(), DeleteOrderInput{OrderID: order.ID, ActorUserID: fx.ownerID}); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	_, err = fx.svc.GetOrder(context.Background(), order.ID)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestExpireStalePlacedOrders(t *testing.T) {
	fx := newFixture(t)
	stale := fx.addOrder(enums.OrderStatusPlaced)
	stale.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)
	fresh := fx.addOrder(enums.OrderStatusPlaced)
	accepted := fx.addOrder(enums.OrderStatusAccepted)
	accepted.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)

	expired, err := fx.svc.ExpireStalePlacedOrders(context.Background(), time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if fx.repo.orders[stale.ID].Status != enums.OrderStatusCancelled {
		t.Fatal("stale order should be cancelled")
	}
	if fx.repo.orders[fresh.ID].Status != enums.OrderStatusPlaced {
		t.Fatal("fresh order should be untouched")
	}
	if fx.repo.orders[accepted.ID].Status != enums.OrderStatusAccepted {
		t.Fatal("accepted order should be untouched")
	}
	if len(fx.notifier.enqueued) != 1 || fx.notifier.enqueued[0].Type != enums.NotificationTypeOrderExpired {
		t.Fatalf("expected order_expired notification, got %+v", fx.notifier.enqueued)
	}
}

func TestExpireStalePlacedOrdersPartialFailure(t *testing.T) {
	fx := newFixture(t)
	bad := fx.addOrder(enums.OrderStatusPlaced)
	bad.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)
	good := fx.addOrder(enums.OrderStatusPlaced)
	good.CreatedAt = time.Now().UTC().Add(-3 * time.Hour)
	fx.repo.updateErrFor[bad.ID] = fmt.Errorf("deadlock")

	expired, err := fx.svc.ExpireStalePlacedOrders(context.Background(), time.Now().UTC().Add(-1*time.Hour))
	if err == nil {
		t.Fatal("expected combined error for failed cancellation")
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}
	if fx.repo.orders[good.ID].Status != enums.OrderStatusCancelled {
		t.Fatal("good order should still be cancelled")
	}
}
