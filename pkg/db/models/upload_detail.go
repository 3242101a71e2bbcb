package models

import (
	"time"

	"github.com/google/uuid"
)

// UploadDetail is one source row that carried a keyword, as ingested.
type UploadDetail struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	UploadID    uuid.UUID `gorm:"column:file_id;type:uuid;not null;index" json:"-"`
	Keyword     string    `gorm:"column:keyword;not null;index" json:"keyword"`
	Property    string    `gorm:"column:property;not null" json:"property"`
	Campaign    string    `gorm:"column:campaign" json:"campaign"`
	AdGroup     string    `gorm:"column:ad_group" json:"ad_group"`
	Conversions float64   `gorm:"column:conversions" json:"conversions"`
	Cost        float64   `gorm:"column:cost" json:"cost"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (UploadDetail) TableName() string { return "file_details" }
