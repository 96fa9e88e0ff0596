package ports

import (
	"context"
	"time"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

// ListRecordsFilter carries all query parameters for listing health records.
// SubmittedByUserID is enforced by the service layer for worker-scoped views.
type ListRecordsFilter struct {
	SubmittedByUserID string    // empty = no filter (admin); non-empty = scoped to submitter
	AnganwadiKendra   string    // optional: partial, case-insensitive match
	HealthStatus      string    // optional: exact status filter
	DateFrom          time.Time // optional: created_at >= DateFrom
	DateTo            time.Time // optional: created_at <= DateTo
	Page              int       // 1-based
	Limit             int       // max rows per page (capped at 100 by service)
}

// StatusCount is one bucket of the per-status breakdown.
type StatusCount struct {
	HealthStatus string `json:"health_status" bson:"_id"`
	Count        int64  `json:"count" bson:"count"`
}

// KendraCount is one bucket of the per-kendra breakdown.
type KendraCount struct {
	AnganwadiKendra string `json:"anganwadi_kendra" bson:"_id"`
	Count           int64  `json:"count" bson:"count"`
}

// DailyCount is the number of submissions on a single calendar day.
type DailyCount struct {
	Date  string `json:"date" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// DashboardStats aggregates the admin dashboard numbers.
type DashboardStats struct {
	TotalRecords      int64         `json:"total_records"`
	StatusBreakdown   []StatusCount `json:"status_breakdown"`
	TopKendras        []KendraCount `json:"top_anganwadi_kendras"`
	RecentSubmissions []DailyCount  `json:"recent_submissions"`
}

// RecordRepository defines persistence operations for health records.
type RecordRepository interface {
	Create(ctx context.Context, r *domain.HealthRecord) (*domain.HealthRecord, error)
	FindByID(ctx context.Context, id string) (*domain.HealthRecord, error)
	// List returns a page of records matching filter and the total count.
	List(ctx context.Context, filter ListRecordsFilter) ([]*domain.HealthRecord, int64, error)
	// Stats runs the dashboard aggregations. topN bounds the kendra
	// breakdown; since bounds the recent-submissions window.
	Stats(ctx context.Context, topN int, since time.Time) (*DashboardStats, error)
}
