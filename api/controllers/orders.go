package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qrdine/qrdine-backend/api/middleware"
	"github.com/qrdine/qrdine-backend/api/responses"
	"github.com/qrdine/qrdine-backend/api/validators"
	"github.com/qrdine/qrdine-backend/internal/restaurant"
	"github.com/qrdine/qrdine-backend/pkg/db/models"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

type orderItemRequest struct {
	MenuItemID uuid.UUID `json:"menuItemId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	OrderType    string             `json:"orderType" validate:"required"`
	TableNumber  *string            `json:"tableNumber"`
	CustomerName *string            `json:"customerName"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type orderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	MenuItemID uuid.UUID       `json:"menuItemId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

type orderResponse struct {
	ID               uuid.UUID           `json:"id"`
	RestaurantID     uuid.UUID           `json:"restaurantId"`
	Status           enums.OrderStatus   `json:"status"`
	OrderType        enums.OrderType     `json:"orderType"`
	TableNumber      *string             `json:"tableNumber,omitempty"`
	CustomerName     *string             `json:"customerName,omitempty"`
	PlacedByUserID   *uuid.UUID          `json:"placedByUserId,omitempty"`
	AssignedToUserID *uuid.UUID          `json:"assignedToUserId,omitempty"`
	Total            decimal.Decimal     `json:"total"`
	Currency         enums.Currency      `json:"currency"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func newOrderResponse(order *models.RestaurantOrder) orderResponse {
	resp := orderResponse{
		ID:               order.ID,
		RestaurantID:     order.RestaurantID,
		Status:           order.Status,
		OrderType:        order.OrderType,
		TableNumber:      order.TableNumber,
		CustomerName:     order.CustomerName,
		PlacedByUserID:   order.PlacedByUserID,
		AssignedToUserID: order.AssignedToUserID,
		Total:            order.Total,
		Currency:         order.Currency,
		Items:            make([]orderItemResponse, 0, len(order.Items)),
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			LineTotal:  item.LineTotal,
		})
	}
	return resp
}

// CreateOrder places a new order. Prices come from the menu; the body never
// carries amounts.
func CreateOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		restaurantID, err := parseRestaurantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderType, err := enums.ParseOrderType(body.OrderType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order type"))
			return
		}

		input := restaurant.CreateOrderInput{
			RestaurantID: restaurantID,
			OrderType:    orderType,
			TableNumber:  body.TableNumber,
			CustomerName: body.CustomerName,
		}
		if actor := actorFromContext(r); actor != nil {
			input.PlacedByUserID = actor
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, restaurant.OrderItemInput{
				MenuItemID: item.MenuItemID,
				Quantity:   item.Quantity,
			})
		}

		order, err := svc.CreateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// ListOrders returns a cursor-paginated order page for one restaurant.
func ListOrders(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		restaurantID, err := parseRestaurantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters, err := buildOrderFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), restaurantID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order with its line items.
func OrderDetail(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type patchOrderRequest struct {
	Status           *string `json:"status"`
	AssignedToUserID *string `json:"assignedToUserId"`
}

type patchOrderResponse struct {
	Ok    bool          `json:"ok"`
	Order orderResponse `json:"order"`
}

// PatchOrder sets the order status and/or assignment, gated by the caller's
// staff role.
func PatchOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFromContext(r)
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body patchOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := restaurant.UpdateOrderInput{
			OrderID:     orderID,
			ActorUserID: *actor,
		}

		if body.Status != nil {
			status, err := enums.ParseOrderStatus(*body.Status)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
				return
			}
			input.Status = &status
		}
		if body.AssignedToUserID != nil {
			assignee, err := uuid.Parse(*body.AssignedToUserID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid assignee id"))
				return
			}
			input.AssignedToUserID = &assignee
		}

		order, err := svc.UpdateOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, patchOrderResponse{Ok: true, Order: newOrderResponse(order)})
	}
}

// DeleteOrder soft-deletes an order. Owner or manager only.
func DeleteOrder(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFromContext(r)
		if actor == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.DeleteOrder(r.Context(), restaurant.DeleteOrderInput{OrderID: orderID, ActorUserID: *actor}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

// ListStaff returns the staff roster used by assignment pickers.
func ListStaff(svc restaurant.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service unavailable"))
			return
		}

		restaurantID, err := parseRestaurantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		staff, err := svc.ListStaff(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"staff": staff})
	}
}

func parseRestaurantID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "restaurantId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id")
	}
	return id, nil
}

func parseOrderID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return id, nil
}

func actorFromContext(r *http.Request) *uuid.UUID {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func buildOrderFilters(r *http.Request) (restaurant.OrderFilters, error) {
	var filters restaurant.OrderFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status")
		}
		filters.Status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("orderType")); raw != "" {
		orderType, err := enums.ParseOrderType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order type")
		}
		filters.OrderType = &orderType
	}
	return filters, nil
}
