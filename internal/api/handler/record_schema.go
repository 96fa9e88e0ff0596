package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type submitRecordRequest struct {
	ChildName       string  `json:"child_name"       validate:"required"`
	Age             int     `json:"age"              validate:"gte=0,lte=18"`
	Gender          string  `json:"gender"           validate:"required,oneof=Male Female Other"`
	WeightKg        float64 `json:"weight"           validate:"required,gt=0"`
	Symptoms        string  `json:"symptoms"`
	SchoolName      string  `json:"school_name"      validate:"required"`
	AnganwadiKendra string  `json:"anganwadi_kendra" validate:"required"`
	HealthStatus    string  `json:"health_status"    validate:"omitempty,oneof=Pending Checked Referred Treated 'Follow-up Required'"`
}

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// service changes.

type recordResponse struct {
	ID              string    `json:"id"`
	ChildName       string    `json:"child_name"`
	Age             int       `json:"age"`
	Gender          string    `json:"gender"`
	WeightKg        float64   `json:"weight"`
	Symptoms        string    `json:"symptoms,omitempty"`
	SchoolName      string    `json:"school_name"`
	AnganwadiKendra string    `json:"anganwadi_kendra"`
	HealthStatus    string    `json:"health_status"`
	SubmittedBy     string    `json:"submitted_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type paginationResponse struct {
	CurrentPage    int   `json:"current_page"`
	TotalPages     int   `json:"total_pages"`
	TotalRecords   int64 `json:"total_records"`
	RecordsPerPage int   `json:"records_per_page"`
}

type listRecordsResponse struct {
	Records    []recordResponse   `json:"records"`
	Pagination paginationResponse `json:"pagination"`
}
