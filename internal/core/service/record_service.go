package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

const (
	defaultPageLimit = 50
	minePageLimit    = 20
	maxPageLimit     = 100
	exportLimit      = 10000

	statsTopKendras = 10
	statsRecentDays = 7
)

type RecordService struct {
	repo   ports.RecordRepository
	logger zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, logger zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, logger: logger}
}

// Submit validates and persists a new health record. The submitter comes
// from the verified identity, never from the request payload.
func (s *RecordService) Submit(ctx context.Context, input ports.SubmitRecordInput) (*domain.HealthRecord, error) {
	status := domain.HealthStatus(input.HealthStatus)
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.ValidHealthStatus(status) {
		return nil, domain.ErrValidation
	}
	if !domain.ValidGender(domain.Gender(input.Gender)) {
		return nil, domain.ErrValidation
	}
	if input.Age < 0 || input.Age > 18 {
		return nil, domain.ErrValidation
	}
	if input.WeightKg <= 0 {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	record := &domain.HealthRecord{
		ChildName:         input.ChildName,
		Age:               input.Age,
		Gender:            domain.Gender(input.Gender),
		WeightKg:          input.WeightKg,
		Symptoms:          input.Symptoms,
		SchoolName:        input.SchoolName,
		AnganwadiKendra:   input.AnganwadiKendra,
		HealthStatus:      status,
		SubmittedByUserID: input.Submitter.ID,
		SubmittedBy:       input.Submitter.Username,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("submitted_by", input.Submitter.Username).Msg("failed to create health record")
		return nil, err
	}

	s.logger.Info().
		Str("record_id", created.ID).
		Str("anganwadi_kendra", created.AnganwadiKendra).
		Str("submitted_by", created.SubmittedBy).
		Msg("health record submitted")

	return created, nil
}

// List is the admin view over all records, filtered and paginated.
func (s *RecordService) List(ctx context.Context, input ports.ListRecordsInput) (*ports.RecordPage, error) {
	page, limit := normalizePage(input.Page, input.Limit, defaultPageLimit)

	records, total, err := s.repo.List(ctx, ports.ListRecordsFilter{
		AnganwadiKendra: input.AnganwadiKendra,
		HealthStatus:    input.HealthStatus,
		DateFrom:        input.DateFrom,
		DateTo:          input.DateTo,
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		return nil, err
	}

	return newRecordPage(records, total, page, limit), nil
}

// ListMine returns the caller's own submissions, newest first.
func (s *RecordService) ListMine(ctx context.Context, submitter domain.Identity, page, limit int) (*ports.RecordPage, error) {
	page, limit = normalizePage(page, limit, minePageLimit)

	records, total, err := s.repo.List(ctx, ports.ListRecordsFilter{
		SubmittedByUserID: submitter.ID,
		Page:              page,
		Limit:             limit,
	})
	if err != nil {
		return nil, err
	}

	return newRecordPage(records, total, page, limit), nil
}

// Get returns a single record. Workers only see their own submissions.
func (s *RecordService) Get(ctx context.Context, id string, caller domain.Identity) (*domain.HealthRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin && record.SubmittedByUserID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return record, nil
}

// Export returns the full filtered set for CSV export, bounded by a hard cap
// so a runaway filter cannot stream the whole collection unpaginated.
func (s *RecordService) Export(ctx context.Context, input ports.ListRecordsInput) ([]*domain.HealthRecord, error) {
	records, _, err := s.repo.List(ctx, ports.ListRecordsFilter{
		AnganwadiKendra: input.AnganwadiKendra,
		HealthStatus:    input.HealthStatus,
		DateFrom:        input.DateFrom,
		DateTo:          input.DateTo,
		Page:            1,
		Limit:           exportLimit,
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DashboardStats computes the admin dashboard aggregates: total records,
// per-status breakdown, top kendras, and submissions over the last week.
func (s *RecordService) DashboardStats(ctx context.Context) (*ports.DashboardStats, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(statsRecentDays - 1))
	return s.repo.Stats(ctx, statsTopKendras, since)
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func newRecordPage(records []*domain.HealthRecord, total int64, page, limit int) *ports.RecordPage {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.RecordPage{
		Records: records,
		Pagination: ports.Pagination{
			CurrentPage:    page,
			TotalPages:     totalPages,
			TotalRecords:   total,
			RecordsPerPage: limit,
		},
	}
}
