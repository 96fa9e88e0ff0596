package handler

import (
	"net/url"
	"time"

	"github.com/swasthya/child-health-system/internal/core/domain"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

// --- Request → Service input ---

func toSubmitInput(req submitRecordRequest, submitter domain.Identity) ports.SubmitRecordInput {
	return ports.SubmitRecordInput{
		ChildName:       req.ChildName,
		Age:             req.Age,
		Gender:          req.Gender,
		WeightKg:        req.WeightKg,
		Symptoms:        req.Symptoms,
		SchoolName:      req.SchoolName,
		AnganwadiKendra: req.AnganwadiKendra,
		HealthStatus:    req.HealthStatus,
		Submitter:       submitter,
	}
}

// toListInput parses the list/export query parameters. Date bounds are
// inclusive calendar days in the YYYY-MM-DD format; an unparsable date is
// simply ignored, matching the forgiving behaviour of the filter form.
func toListInput(q url.Values, page, limit int) ports.ListRecordsInput {
	input := ports.ListRecordsInput{
		AnganwadiKendra: q.Get("anganwadi_kendra"),
		HealthStatus:    q.Get("health_status"),
		Page:            page,
		Limit:           limit,
	}
	if from, err := time.Parse("2006-01-02", q.Get("start_date")); err == nil {
		input.DateFrom = from
	}
	if to, err := time.Parse("2006-01-02", q.Get("end_date")); err == nil {
		input.DateTo = to.Add(24*time.Hour - time.Nanosecond)
	}
	return input
}

// --- Service result → HTTP response ---

func toRecordResponse(r *domain.HealthRecord) recordResponse {
	return recordResponse{
		ID:              r.ID,
		ChildName:       r.ChildName,
		Age:             r.Age,
		Gender:          string(r.Gender),
		WeightKg:        r.WeightKg,
		Symptoms:        r.Symptoms,
		SchoolName:      r.SchoolName,
		AnganwadiKendra: r.AnganwadiKendra,
		HealthStatus:    string(r.HealthStatus),
		SubmittedBy:     r.SubmittedBy,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func toListResponse(page *ports.RecordPage) listRecordsResponse {
	records := make([]recordResponse, len(page.Records))
	for i, r := range page.Records {
		records[i] = toRecordResponse(r)
	}
	return listRecordsResponse{
		Records: records,
		Pagination: paginationResponse{
			CurrentPage:    page.Pagination.CurrentPage,
			TotalPages:     page.Pagination.TotalPages,
			TotalRecords:   page.Pagination.TotalRecords,
			RecordsPerPage: page.Pagination.RecordsPerPage,
		},
	}
}
