package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qrdine/qrdine-backend/pkg/db/models"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/pagination"
)

// Service defines notification enqueue/list/read operations.
type Service interface {
	Enqueue(ctx context.Context, notification models.Notification) error
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, restaurantID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo Repository
}

// ListParams configures pagination for notifications.
type ListParams struct {
	RestaurantID uuid.UUID
	UserID       *uuid.UUID
	Limit        int
	Cursor       string
	UnreadOnly   bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

// Enqueue writes one notification row. Callers treat failures as advisory.
func (s *service) Enqueue(ctx context.Context, notification models.Notification) error {
	if notification.RestaurantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if !notification.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown notification type")
	}
	if err := s.repo.Create(ctx, &notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RestaurantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	query := listNotificationsParams{
		RestaurantID: params.RestaurantID,
		UserID:       params.UserID,
		Limit:        params.Limit,
		UnreadOnly:   params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}

	return &ListResult{
		Items:  rows,
		Cursor: cursor,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, restaurantID, notificationID uuid.UUID) error {
	if restaurantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}

	result, err := s.repo.MarkRead(ctx, restaurantID, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	if restaurantID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id required")
	}

	count, err := s.repo.MarkAllRead(ctx, restaurantID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

// DeleteReadBefore removes read notifications older than cutoff. Used by the
// retention cleanup job.
func (s *service) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := s.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete read notifications")
	}
	return count, nil
}
