package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/qrdine/qrdine-backend/pkg/enums"
)

// Restaurant is the tenant entity for the ordering vertical. Ownership is a
// direct user reference, not a staff row.
type Restaurant struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID      `gorm:"column:owner_user_id;type:uuid;not null"`
	Name        string         `gorm:"column:name;type:text;not null"`
	CountryCode string         `gorm:"column:country_code;type:char(2);not null"`
	Currency    enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
