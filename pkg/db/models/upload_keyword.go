package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadKeyword is the persisted per-keyword summary. Property and campaign
// sets are not stored; a full aggregate is re-derived from the detail rows
// on load.
type UploadKeyword struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	UploadID         uuid.UUID `gorm:"column:file_id;type:uuid;not null;index" json:"-"`
	Keyword          string    `gorm:"column:keyword;not null" json:"keyword"`
	TotalConversions float64   `gorm:"column:total_conversions" json:"total_conversions"`
	TotalCost        float64   `gorm:"column:total_cost" json:"total_cost"`
	BreakdownCount   int       `gorm:"column:breakdown_count" json:"breakdown_count"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (UploadKeyword) TableName() string { return "aggregated_keywords" }
