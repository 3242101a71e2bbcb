package datasets

import (
	"time"

	"github.com/google/uuid"

	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/pkg/db/models"
)

// SaveInput is everything needed to persist one dataset snapshot.
type SaveInput struct {
	Filename   string
	RawBytes   []byte
	SheetNames []string
	Keywords   []report.AggregatedKeyword
	Details    []report.DetailRecord
}

// UploadSummary is the listing row for one saved snapshot.
type UploadSummary struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	FileSize         int64     `json:"file_size"`
	SheetNames       []string  `json:"sheet_names"`
	TotalKeywords    int       `json:"total_keywords"`
	TotalConversions float64   `json:"total_conversions"`
	TotalCost        float64   `json:"total_cost"`
	CreatedAt        time.Time `json:"created_at"`
}

func summaryFromModel(m models.Upload) UploadSummary {
	return UploadSummary{
		ID:               m.ID,
		Filename:         m.Filename,
		FileSize:         m.FileSize,
		SheetNames:       append([]string(nil), m.SheetNames...),
		TotalKeywords:    m.TotalKeywords,
		TotalConversions: m.TotalConversions,
		TotalCost:        m.TotalCost,
		CreatedAt:        m.CreatedAt,
	}
}

// KeywordRow is one persisted keyword summary as exposed over the API.
type KeywordRow struct {
	Keyword          string  `json:"keyword"`
	TotalConversions float64 `json:"total_conversions"`
	TotalCost        float64 `json:"total_cost"`
	BreakdownCount   int     `json:"breakdown_count"`
}

// Snapshot is the full fetched form of one saved dataset.
type Snapshot struct {
	UploadSummary
	AggregatedKeywords []KeywordRow          `json:"aggregatedKeywords"`
	Details            []report.DetailRecord `json:"details"`
	RawBytes           []byte                `json:"-"`
}

// Statistics mirrors the aggregate numbers the statistics endpoint reports.
type Statistics struct {
	RecordCount        int64   `json:"record_count"`
	DistinctKeywords   int64   `json:"distinct_keywords"`
	DistinctProperties int64   `json:"distinct_properties"`
	TotalConversions   float64 `json:"total_conversions"`
	TotalCost          float64 `json:"total_cost"`
	AvgConversions     float64 `json:"avg_conversions"`
	AvgCost            float64 `json:"avg_cost"`
}
