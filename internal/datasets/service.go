package datasets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/pkg/db/models"
	pkgerrors "github.com/daniyalishaq1/data-aggregator/pkg/errors"
)

type repository interface {
	Save(ctx context.Context, upload *models.Upload, keywords []models.UploadKeyword, details []models.UploadDetail) error
	List(ctx context.Context) ([]models.Upload, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Upload, error)
	KeywordsByUpload(ctx context.Context, id uuid.UUID) ([]models.UploadKeyword, error)
	DetailsByUpload(ctx context.Context, id uuid.UUID) ([]models.UploadDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context, id uuid.UUID) (*StatisticsRow, error)
}

// Service exposes snapshot persistence operations.
type Service interface {
	Save(ctx context.Context, input SaveInput) (uuid.UUID, error)
	List(ctx context.Context) ([]UploadSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context, id uuid.UUID) (*Statistics, error)
}

type service struct {
	repo repository
}

// NewService builds a datasets service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("datasets repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (uuid.UUID, error) {
	if input.Filename == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if len(input.RawBytes) == 0 {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "file bytes are required")
	}
	if len(input.Keywords) == 0 {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "no aggregated data to save")
	}

	summary := report.Summarize(input.Keywords, len(input.SheetNames))
	upload := &models.Upload{
		Filename:         input.Filename,
		FileData:         input.RawBytes,
		FileSize:         int64(len(input.RawBytes)),
		SheetNames:       input.SheetNames,
		TotalKeywords:    summary.TotalKeywords,
		TotalConversions: summary.TotalConversions,
		TotalCost:        summary.TotalCost,
	}

	keywords := make([]models.UploadKeyword, 0, len(input.Keywords))
	for _, k := range input.Keywords {
		keywords = append(keywords, models.UploadKeyword{
			Keyword:          k.Keyword,
			TotalConversions: k.Conversions,
			TotalCost:        k.Cost,
			BreakdownCount:   len(k.Breakdown),
		})
	}

	details := make([]models.UploadDetail, 0, len(input.Details))
	for _, d := range input.Details {
		details = append(details, models.UploadDetail{
			Keyword:     d.Keyword,
			Property:    d.Property,
			Campaign:    d.Campaign,
			AdGroup:     d.AdGroup,
			Conversions: d.Conversions,
			Cost:        d.Cost,
		})
	}

	if err := s.repo.Save(ctx, upload, keywords, details); err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save snapshot")
	}
	return upload.ID, nil
}

func (s *service) List(ctx context.Context) ([]UploadSummary, error) {
	uploads, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list snapshots")
	}
	summaries := make([]UploadSummary, 0, len(uploads))
	for _, u := range uploads {
		summaries = append(summaries, summaryFromModel(u))
	}
	return summaries, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	upload, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "fetch snapshot")
	}

	keywordRows, err := s.repo.KeywordsByUpload(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch keywords")
	}
	detailRows, err := s.repo.DetailsByUpload(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch details")
	}

	snapshot := &Snapshot{
		UploadSummary:      summaryFromModel(*upload),
		AggregatedKeywords: make([]KeywordRow, 0, len(keywordRows)),
		Details:            make([]report.DetailRecord, 0, len(detailRows)),
		RawBytes:           upload.FileData,
	}
	for _, k := range keywordRows {
		snapshot.AggregatedKeywords = append(snapshot.AggregatedKeywords, KeywordRow{
			Keyword:          k.Keyword,
			TotalConversions: k.TotalConversions,
			TotalCost:        k.TotalCost,
			BreakdownCount:   k.BreakdownCount,
		})
	}
	for _, d := range detailRows {
		snapshot.Details = append(snapshot.Details, report.DetailRecord{
			Keyword:     d.Keyword,
			Property:    d.Property,
			Campaign:    d.Campaign,
			AdGroup:     d.AdGroup,
			Conversions: d.Conversions,
			Cost:        d.Cost,
		})
	}
	return snapshot, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, "delete snapshot")
	}
	return nil
}

func (s *service) Statistics(ctx context.Context, id uuid.UUID) (*Statistics, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLookupError(err, "fetch snapshot")
	}
	row, err := s.repo.Statistics(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute statistics")
	}
	return &Statistics{
		RecordCount:        row.RecordCount,
		DistinctKeywords:   row.DistinctKeywords,
		DistinctProperties: row.DistinctProperties,
		TotalConversions:   row.TotalConversions,
		TotalCost:          row.TotalCost,
		AvgConversions:     row.AvgConversions,
		AvgCost:            row.AvgCost,
	}, nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "snapshot not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
