package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

type stubRecordRepo struct {
	records    map[string]*domain.HealthRecord
	nextID     int
	lastFilter ports.ListRecordsFilter
	statsFn    func(ctx context.Context, topN int, since time.Time) (*ports.DashboardStats, error)
}

func newStubRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{records: make(map[string]*domain.HealthRecord)}
}

func (r *stubRecordRepo) Create(_ context.Context, rec *domain.HealthRecord) (*domain.HealthRecord, error) {
	r.nextID++
	created := *rec
	created.ID = fmt.Sprintf("r%d", r.nextID)
	r.records[created.ID] = &created
	out := created
	return &out, nil
}

func (r *stubRecordRepo) FindByID(_ context.Context, id string) (*domain.HealthRecord, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

func (r *stubRecordRepo) List(_ context.Context, filter ports.ListRecordsFilter) ([]*domain.HealthRecord, int64, error) {
	r.lastFilter = filter
	var matched []*domain.HealthRecord
	for _, rec := range r.records {
		if filter.SubmittedByUserID != "" && rec.SubmittedByUserID != filter.SubmittedByUserID {
			continue
		}
		out := *rec
		matched = append(matched, &out)
	}
	return matched, int64(len(matched)), nil
}

func (r *stubRecordRepo) Stats(ctx context.Context, topN int, since time.Time) (*ports.DashboardStats, error) {
	if r.statsFn != nil {
		return r.statsFn(ctx, topN, since)
	}
	return &ports.DashboardStats{}, nil
}

func validSubmitInput(submitter domain.Identity) ports.SubmitRecordInput {
	return ports.SubmitRecordInput{
		ChildName:       "Asha",
		Age:             4,
		Gender:          string(domain.GenderFemale),
		WeightKg:        14.5,
		Symptoms:        "mild fever",
		SchoolName:      "Govt Primary School",
		AnganwadiKendra: "Kendra 12",
		Submitter:       submitter,
	}
}

func TestRecordService_Submit_DefaultsStatus(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())
	worker := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}

	created, err := svc.Submit(context.Background(), validSubmitInput(worker))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created.HealthStatus != domain.StatusPending {
		t.Fatalf("expected default status %s, got %s", domain.StatusPending, created.HealthStatus)
	}
	if created.SubmittedByUserID != "u1" || created.SubmittedBy != "alice" {
		t.Fatalf("submitter not stamped from identity: %+v", created)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned record ID")
	}
}

func TestRecordService_Submit_Validation(t *testing.T) {
	svc := NewRecordService(newStubRecordRepo(), zerolog.Nop())
	worker := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}

	cases := []struct {
		name   string
		mutate func(*ports.SubmitRecordInput)
	}{
		{"negative age", func(in *ports.SubmitRecordInput) { in.Age = -1 }},
		{"age over limit", func(in *ports.SubmitRecordInput) { in.Age = 19 }},
		{"zero weight", func(in *ports.SubmitRecordInput) { in.WeightKg = 0 }},
		{"bad gender", func(in *ports.SubmitRecordInput) { in.Gender = "unknown" }},
		{"bad status", func(in *ports.SubmitRecordInput) { in.HealthStatus = "Cured" }},
	}
	for _, tc := range cases {
		input := validSubmitInput(worker)
		tc.mutate(&input)
		if _, err := svc.Submit(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestRecordService_List_NormalizesPagination(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	if _, err := svc.List(context.Background(), ports.ListRecordsInput{Page: 0, Limit: 0}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != defaultPageLimit {
		t.Fatalf("expected page=1 limit=%d, got page=%d limit=%d", defaultPageLimit, repo.lastFilter.Page, repo.lastFilter.Limit)
	}

	if _, err := svc.List(context.Background(), ports.ListRecordsInput{Page: 3, Limit: 500}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastFilter.Limit != maxPageLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxPageLimit, repo.lastFilter.Limit)
	}
}

func TestRecordService_List_TotalPages(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())
	worker := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}
	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(context.Background(), validSubmitInput(worker)); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	page, err := svc.List(context.Background(), ports.ListRecordsInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Pagination.TotalRecords != 3 {
		t.Fatalf("expected 3 total records, got %d", page.Pagination.TotalRecords)
	}
	if page.Pagination.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page.Pagination.TotalPages)
	}
	if page.Pagination.RecordsPerPage != 2 {
		t.Fatalf("expected 2 records per page, got %d", page.Pagination.RecordsPerPage)
	}
}

func TestRecordService_ListMine_ScopesToSubmitter(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())
	alice := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}
	bob := domain.Identity{ID: "u2", Username: "bob", Role: domain.RoleWorker}

	if _, err := svc.Submit(context.Background(), validSubmitInput(alice)); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	if _, err := svc.Submit(context.Background(), validSubmitInput(bob)); err != nil {
		t.Fatalf("seed record: %v", err)
	}

	page, err := svc.ListMine(context.Background(), alice, 0, 0)
	if err != nil {
		t.Fatalf("list mine failed: %v", err)
	}
	if repo.lastFilter.SubmittedByUserID != "u1" {
		t.Fatalf("expected filter scoped to u1, got %q", repo.lastFilter.SubmittedByUserID)
	}
	if repo.lastFilter.Limit != minePageLimit {
		t.Fatalf("expected default limit %d, got %d", minePageLimit, repo.lastFilter.Limit)
	}
	if len(page.Records) != 1 || page.Records[0].SubmittedByUserID != "u1" {
		t.Fatalf("expected only alice's record, got %d records", len(page.Records))
	}
}

func TestRecordService_Get_Ownership(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())
	alice := domain.Identity{ID: "u1", Username: "alice", Role: domain.RoleWorker}
	bob := domain.Identity{ID: "u2", Username: "bob", Role: domain.RoleWorker}
	admin := domain.Identity{ID: "u3", Username: "root", Role: domain.RoleAdmin}

	created, err := svc.Submit(context.Background(), validSubmitInput(alice))
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}

	if _, err := svc.Get(context.Background(), created.ID, alice); err != nil {
		t.Fatalf("owner should read own record: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, admin); err != nil {
		t.Fatalf("admin should read any record: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, bob); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign worker, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "missing", admin); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRecordService_Export_UsesHardCap(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	if _, err := svc.Export(context.Background(), ports.ListRecordsInput{}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if repo.lastFilter.Limit != exportLimit {
		t.Fatalf("expected export limit %d, got %d", exportLimit, repo.lastFilter.Limit)
	}
	if repo.lastFilter.Page != 1 {
		t.Fatalf("expected export page 1, got %d", repo.lastFilter.Page)
	}
}

func TestRecordService_DashboardStats_Window(t *testing.T) {
	repo := newStubRecordRepo()
	svc := NewRecordService(repo, zerolog.Nop())

	var gotTopN int
	var gotSince time.Time
	repo.statsFn = func(_ context.Context, topN int, since time.Time) (*ports.DashboardStats, error) {
		gotTopN = topN
		gotSince = since
		return &ports.DashboardStats{TotalRecords: 42}, nil
	}

	stats, err := svc.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalRecords != 42 {
		t.Fatalf("expected stats passthrough, got %+v", stats)
	}
	if gotTopN != statsTopKendras {
		t.Fatalf("expected topN %d, got %d", statsTopKendras, gotTopN)
	}

	// The window must cover today plus the preceding six days.
	oldest := time.Now().UTC().AddDate(0, 0, -statsRecentDays)
	if !gotSince.After(oldest) {
		t.Fatalf("since %v reaches further back than %d days", gotSince, statsRecentDays)
	}
	if gotSince.After(time.Now().UTC()) {
		t.Fatalf("since %v is in the future", gotSince)
	}
}
