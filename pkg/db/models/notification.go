package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to restaurants.
// Writes are best-effort; readers poll per restaurant or per user.
type Notification struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null;index"`
	UserID       *uuid.UUID             `gorm:"column:user_id;type:uuid"`
	Type         enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title        string                 `gorm:"column:title;type:text;not null"`
	Message      string                 `gorm:"column:message;type:text;not null"`
	ReadAt       *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt    time.Time              `gorm:"column:created_at;default:now()"`
}
