package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Upload is one saved workbook snapshot: the raw file bytes plus the
// aggregate totals shown in listings.
type Upload struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Filename         string         `gorm:"column:filename;not null" json:"filename"`
	FileData         []byte         `gorm:"column:file_data;not null" json:"-"`
	FileSize         int64          `gorm:"column:file_size" json:"file_size"`
	SheetNames       pq.StringArray `gorm:"column:sheet_names;type:text[]" json:"sheet_names"`
	TotalKeywords    int            `gorm:"column:total_keywords" json:"total_keywords"`
	TotalConversions float64        `gorm:"column:total_conversions" json:"total_conversions"`
	TotalCost        float64        `gorm:"column:total_cost" json:"total_cost"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table names from the original schema.
func (Upload) TableName() string { return "uploaded_files" }
