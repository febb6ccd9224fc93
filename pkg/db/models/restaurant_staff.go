package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// RestaurantStaff links a user to a restaurant with a role. At most one row
// exists per (restaurant, user) pair.
type RestaurantStaff struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:idx_restaurant_staff_member"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_restaurant_staff_member"`
	Role         enums.StaffRole `gorm:"column:role;type:text;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
