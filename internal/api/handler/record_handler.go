package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swasthya/child-health-system/internal/api/metrics"
	"github.com/swasthya/child-health-system/internal/core/ports"
)

// RecordHandler handles HTTP requests for health record operations.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// Submit handles POST /v1/records — a worker submits a child health record.
//
// @Summary      Submit a child health record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitRecordRequest  true  "Health record details"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/records [post]
func (h *RecordHandler) Submit(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitRecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.service.Submit(c.Request().Context(), toSubmitInput(req, identity))
	if err != nil {
		return err
	}

	metrics.RecordsSubmittedTotal.WithLabelValues(string(record.HealthStatus)).Inc()
	return c.JSON(http.StatusCreated, toRecordResponse(record))
}

// List handles GET /v1/records — the admin view over all records.
//
// @Summary      List all health records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        anganwadi_kendra  query     string  false  "Partial kendra name filter"
// @Param        health_status     query     string  false  "Checkup status filter"
// @Param        start_date        query     string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        end_date          query     string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Param        page              query     int     false  "Page number (default 1)"
// @Param        limit             query     int     false  "Rows per page (default 50, max 100)"
// @Success      200               {object}  listRecordsResponse
// @Failure      401               {object}  errorResponse
// @Failure      403               {object}  errorResponse
// @Router       /v1/records [get]
func (h *RecordHandler) List(c echo.Context) error {
	page, limit := queryPage(c)
	result, err := h.service.List(c.Request().Context(), toListInput(c.QueryParams(), page, limit))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListMine handles GET /v1/records/mine — a worker's own submissions.
//
// @Summary      List own submitted records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Rows per page (default 20, max 100)"
// @Success      200    {object}  listRecordsResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/records/mine [get]
func (h *RecordHandler) ListMine(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, limit := queryPage(c)
	result, err := h.service.ListMine(c.Request().Context(), identity, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /v1/records/:id.
//
// @Summary      Get a single health record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  recordResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/records/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	record, err := h.service.Get(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(record))
}

// csvHeader is the column order of the CSV export.
var csvHeader = []string{
	"id", "child_name", "age", "gender", "weight_kg", "symptoms",
	"school_name", "anganwadi_kendra", "health_status", "submitted_by", "created_at",
}

// Export handles GET /v1/records/export — streams the filtered record set as CSV.
//
// @Summary      Export health records as CSV
// @Tags         records
// @Produce      text/csv
// @Security     BearerAuth
// @Param        anganwadi_kendra  query  string  false  "Partial kendra name filter"
// @Param        health_status     query  string  false  "Checkup status filter"
// @Param        start_date        query  string  false  "Inclusive lower bound (YYYY-MM-DD)"
// @Param        end_date          query  string  false  "Inclusive upper bound (YYYY-MM-DD)"
// @Success      200  {string}  string  "CSV payload"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/records/export [get]
func (h *RecordHandler) Export(c echo.Context) error {
	records, err := h.service.Export(c.Request().Context(), toListInput(c.QueryParams(), 1, 0))
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="child_health_records.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			r.ChildName,
			strconv.Itoa(r.Age),
			string(r.Gender),
			strconv.FormatFloat(r.WeightKg, 'f', 2, 64),
			r.Symptoms,
			r.SchoolName,
			r.AnganwadiKendra,
			string(r.HealthStatus),
			r.SubmittedBy,
			r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func queryPage(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
