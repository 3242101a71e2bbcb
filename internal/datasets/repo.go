package datasets

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daniyalishaq1/data-aggregator/pkg/db/models"
)

// Repository handles snapshot persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to snapshot operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save persists the upload row plus all keyword and detail rows in one
// transaction; either everything lands or nothing does.
func (r *Repository) Save(ctx context.Context, upload *models.Upload, keywords []models.UploadKeyword, details []models.UploadDetail) error {
	if upload == nil {
		return fmt.Errorf("upload is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upload.ID == uuid.Nil {
			upload.ID = uuid.New()
		}
		if err := tx.Create(upload).Error; err != nil {
			return err
		}
		for i := range keywords {
			keywords[i].ID = uuid.New()
			keywords[i].UploadID = upload.ID
		}
		if len(keywords) > 0 {
			if err := tx.CreateInBatches(keywords, 500).Error; err != nil {
				return err
			}
		}
		for i := range details {
			details[i].ID = uuid.New()
			details[i].UploadID = upload.ID
		}
		if len(details) > 0 {
			if err := tx.CreateInBatches(details, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all upload summaries, newest first, without the file bytes.
func (r *Repository) List(ctx context.Context) ([]models.Upload, error) {
	var uploads []models.Upload
	if err := r.db.WithContext(ctx).
		Omit("file_data").
		Order("created_at DESC").
		Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

// FindByID loads one upload including its raw file bytes.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&upload).Error; err != nil {
		return nil, err
	}
	return &upload, nil
}

// KeywordsByUpload returns the persisted keyword summaries, highest
// conversions first.
func (r *Repository) KeywordsByUpload(ctx context.Context, id uuid.UUID) ([]models.UploadKeyword, error) {
	var rows []models.UploadKeyword
	if err := r.db.WithContext(ctx).
		Where("file_id = ?", id).
		Order("total_conversions DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DetailsByUpload returns the detail rows ordered by keyword then property.
// Source encounter order is not preserved across a storage round trip.
func (r *Repository) DetailsByUpload(ctx context.Context, id uuid.UUID) ([]models.UploadDetail, error) {
	var rows []models.UploadDetail
	if err := r.db.WithContext(ctx).
		Where("file_id = ?", id).
		Order("keyword, property").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the upload and its dependent rows. The children are
// deleted explicitly so the behavior does not depend on the driver honoring
// ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var upload models.Upload
		if err := tx.Select("id").Where("id = ?", id).First(&upload).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.UploadDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("file_id = ?", id).Delete(&models.UploadKeyword{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Upload{}).Error
	})
}

// StatisticsRow is the aggregate shape produced by the statistics query.
type StatisticsRow struct {
	RecordCount        int64   `gorm:"column:record_count"`
	DistinctKeywords   int64   `gorm:"column:distinct_keywords"`
	DistinctProperties int64   `gorm:"column:distinct_properties"`
	TotalConversions   float64 `gorm:"column:total_conversions"`
	TotalCost          float64 `gorm:"column:total_cost"`
	AvgConversions     float64 `gorm:"column:avg_conversions"`
	AvgCost            float64 `gorm:"column:avg_cost"`
}

// Statistics aggregates the detail rows of one upload.
func (r *Repository) Statistics(ctx context.Context, id uuid.UUID) (*StatisticsRow, error) {
	var row StatisticsRow
	err := r.db.WithContext(ctx).
		Model(&models.UploadDetail{}).
		Select(`COUNT(*) AS record_count,
			COUNT(DISTINCT keyword) AS distinct_keywords,
			COUNT(DISTINCT property) AS distinct_properties,
			COALESCE(SUM(conversions), 0) AS total_conversions,
			COALESCE(SUM(cost), 0) AS total_cost,
			COALESCE(AVG(conversions), 0) AS avg_conversions,
			COALESCE(AVG(cost), 0) AS avg_cost`).
		Where("file_id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
