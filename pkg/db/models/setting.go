package models

import "time"

// Setting is a key-value row for administrator-configured platform settings,
// such as per-gateway enablement and discovery snapshots.
type Setting struct {
	Key       string         `gorm:"column:key;type:text;primaryKey"`
	Value     map[string]any `gorm:"column:value;type:jsonb;serializer:json;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
