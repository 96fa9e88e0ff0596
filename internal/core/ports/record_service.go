package ports

import (
	"context"
	"time"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

// SubmitRecordInput carries all data needed to submit a health record.
// Submitter fields come from the verified identity, never from the payload.
type SubmitRecordInput struct {
	ChildName       string
	Age             int
	Gender          string
	WeightKg        float64
	Symptoms        string
	SchoolName      string
	AnganwadiKendra string
	HealthStatus    string // optional; defaults to Pending
	Submitter       domain.Identity
}

// ListRecordsInput carries all parameters for the admin list endpoint.
type ListRecordsInput struct {
	AnganwadiKendra string
	HealthStatus    string
	DateFrom        time.Time
	DateTo          time.Time
	Page            int
	Limit           int
}

// Pagination describes one page of a larger result set.
type Pagination struct {
	CurrentPage    int   `json:"current_page"`
	TotalPages     int   `json:"total_pages"`
	TotalRecords   int64 `json:"total_records"`
	RecordsPerPage int   `json:"records_per_page"`
}

// RecordPage is one page of health records plus its pagination envelope.
type RecordPage struct {
	Records    []*domain.HealthRecord
	Pagination Pagination
}

// RecordService defines use-case operations for health records.
type RecordService interface {
	Submit(ctx context.Context, input SubmitRecordInput) (*domain.HealthRecord, error)
	// List is the admin view over all records.
	List(ctx context.Context, input ListRecordsInput) (*RecordPage, error)
	// ListMine is the worker view scoped to the caller's own submissions.
	ListMine(ctx context.Context, submitter domain.Identity, page, limit int) (*RecordPage, error)
	// Get returns a single record. Workers may only fetch their own
	// submissions; a foreign record returns domain.ErrForbidden.
	Get(ctx context.Context, id string, caller domain.Identity) (*domain.HealthRecord, error)
	// Export returns the full filtered set (no pagination) for CSV export.
	Export(ctx context.Context, input ListRecordsInput) ([]*domain.HealthRecord, error)
	// DashboardStats computes the admin dashboard aggregates.
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}
