/*
handlers.go - HTTP API handlers for the maternity allowance engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculation:
    POST   /api/calculate              Single-employee calculation
    POST   /api/batch                  Multi-row calculation with row isolation

  Rules:
    GET    /api/rules/maternity        List maternity leave rules
    POST   /api/rules/maternity        Create or update a rule
    DELETE /api/rules/maternity/{id}   Delete a rule
    GET    /api/rules/allowance        List allowance rules
    POST   /api/rules/allowance        Create or update a city's allowance rule

  Holidays:
    GET    /api/holidays?year=2025     List calendar entries for a year
    POST   /api/holidays               Create or update an entry
    POST   /api/holidays/defaults      Seed fixed-date legal holidays
    DELETE /api/holidays               Delete an entry

ARCHITECTURE:
  Handler holds the one dependency, the rule store. Each calculation
  request loads a fresh snapshot and calendar from the store, so a rule
  edit is visible on the very next request without reload machinery.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: No allowance rule for the requested city
  - 500: Internal errors and computation invariant failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/maternity-engine/batch"
	"github.com/warp/maternity-engine/calendar"
	"github.com/warp/maternity-engine/maternity"
	"github.com/warp/maternity-engine/rules"
	"github.com/warp/maternity-engine/store/sqlite"
)

// Handler carries the handlers' one dependency, the rule store.
type Handler struct {
	Store *sqlite.Store
}

// NewHandler creates the API handler.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate runs the engine for a single employee.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	in, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid input", err)
		return
	}

	snap, cal, err := h.loadEngine(r.Context(), in.StartDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rules", err)
		return
	}

	result, err := maternity.NewCalculator(cal).Compute(snap, in)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResultDTO(result))
}

// Batch runs the engine over many rows with per-row error isolation.
// Rows that fail DTO conversion are reported at their original index
// alongside rows that fail inside the engine.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "batch has no rows", nil)
		return
	}

	ctx := r.Context()

	// The snapshot is captured once before the batch and never mutated
	// during the run.
	snap, err := h.Store.LoadSnapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rules", err)
		return
	}
	cal, err := h.loadCalendarForRows(ctx, req.Rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load calendar", err)
		return
	}

	directory := batch.NewDirectory(toEmployees(req.Employees))
	orchestrator := batch.New(snap, cal, directory)

	var result batch.Result
	for i, rowReq := range req.Rows {
		in, err := rowReq.ToInput()
		if err != nil {
			result.Errors = append(result.Errors, batch.RowError{
				RowIndex: i,
				Identity: rowIdentity(rowReq),
				Errors:   errorStrings(err),
			})
			continue
		}
		rowResult, rowErr := orchestrator.ProcessRow(i, in)
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}
		result.Results = append(result.Results, *rowResult)
	}

	writeJSON(w, http.StatusOK, toBatchDTO(result))
}

// loadEngine loads a fresh snapshot plus a calendar spanning the leave.
// Extended leave can cross a year boundary, so the next year is always
// loaded too.
func (h *Handler) loadEngine(ctx context.Context, start calendar.Date) (*rules.Snapshot, *calendar.Calendar, error) {
	snap, err := h.Store.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	cal, err := h.Store.LoadCalendar(ctx, start.Year(), start.Year()+1)
	if err != nil {
		return nil, nil, err
	}
	return snap, cal, nil
}

func (h *Handler) loadCalendarForRows(ctx context.Context, rows []CalculateRequest) (*calendar.Calendar, error) {
	yearSet := make(map[int]struct{})
	for _, row := range rows {
		if d, err := calendar.ParseDate(row.StartDate); err == nil {
			yearSet[d.Year()] = struct{}{}
			yearSet[d.Year()+1] = struct{}{}
		}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	return h.Store.LoadCalendar(ctx, years...)
}

// =============================================================================
// RULE MANAGEMENT
// =============================================================================

// ListMaternityRules returns every stored maternity rule row.
func (h *Handler) ListMaternityRules(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListMaternityRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err)
		return
	}
	out := make([]MaternityRuleDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MaternityRuleDTO{
			ID:           row.ID,
			City:         row.City,
			LeaveType:    row.LeaveType,
			Stage:        row.Stage,
			Days:         row.Days,
			Extendable:   row.Extendable,
			HasAllowance: row.HasAllowance,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateMaternityRule upserts one rule row. Labels are validated by a
// trial snapshot build so a bad label fails here, not at calculation time.
func (h *Handler) CreateMaternityRule(w http.ResponseWriter, r *http.Request) {
	var req MaternityRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	raw := rules.RawMaternityRule{
		ID:           req.ID,
		City:         req.City,
		LeaveType:    req.LeaveType,
		Stage:        req.Stage,
		Days:         req.Days,
		Extendable:   req.Extendable,
		HasAllowance: req.HasAllowance,
	}
	if _, err := rules.BuildSnapshot([]rules.RawMaternityRule{raw}, nil); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule", err)
		return
	}
	id, err := h.Store.SaveMaternityRule(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save rule", err)
		return
	}
	req.ID = id
	writeJSON(w, http.StatusCreated, req)
}

// DeleteMaternityRule removes one rule row by id.
func (h *Handler) DeleteMaternityRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteMaternityRule(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete rule", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAllowanceRules returns every stored allowance rule row.
func (h *Handler) ListAllowanceRules(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListAllowanceRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules", err)
		return
	}
	out := make([]AllowanceRuleDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AllowanceRuleDTO{
			ID:                      row.ID,
			City:                    row.City,
			SocialAverageWage:       row.SocialAverageWage,
			CompanyAverageWage:      row.CompanyAverageWage,
			CompanyContributionWage: row.CompanyContributionWage,
			CalculationBase:         row.CalculationBase,
			PayoutMethod:            row.PayoutMethod,
			Notes:                   row.Notes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateAllowanceRule upserts one city's allowance rule.
func (h *Handler) CreateAllowanceRule(w http.ResponseWriter, r *http.Request) {
	var req AllowanceRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	raw := rules.RawAllowanceRule{
		ID:                      req.ID,
		City:                    req.City,
		SocialAverageWage:       req.SocialAverageWage,
		CompanyAverageWage:      req.CompanyAverageWage,
		CompanyContributionWage: req.CompanyContributionWage,
		CalculationBase:         req.CalculationBase,
		PayoutMethod:            req.PayoutMethod,
		Notes:                   req.Notes,
	}
	if _, err := rules.BuildSnapshot(nil, []rules.RawAllowanceRule{raw}); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule", err)
		return
	}
	id, err := h.Store.SaveAllowanceRule(r.Context(), raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save rule", err)
		return
	}
	req.ID = id
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns calendar entries for a year (?year=2025).
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year query parameter is required", err)
		return
	}
	entries, err := h.Store.ListHolidays(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list holidays", err)
		return
	}
	out := make([]HolidayDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, HolidayDTO{
			Date:           e.Date.String(),
			Name:           e.Name,
			Kind:           string(e.Kind),
			IsLegalHoliday: e.IsLegalHoliday,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateHoliday upserts one calendar entry.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unparseable date", err)
		return
	}
	kind := calendar.DayKind(req.Kind)
	if kind == "" {
		kind = calendar.KindHoliday
	}
	if kind != calendar.KindHoliday && kind != calendar.KindMakeupWorkday {
		writeError(w, http.StatusBadRequest, "unknown calendar entry kind", nil)
		return
	}
	if _, err := h.Store.SaveHoliday(r.Context(), calendar.Entry{
		Date:           date,
		Name:           req.Name,
		Kind:           kind,
		IsLegalHoliday: req.IsLegalHoliday,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// AddDefaultHolidays seeds the built-in fixed-date legal holidays.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year int `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", err)
		return
	}
	if err := h.Store.SeedDefaultHolidays(r.Context(), req.Year); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to seed holidays", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteHoliday removes an entry (?date=2025-10-01&kind=holiday).
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := calendar.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unparseable date", err)
		return
	}
	kind := calendar.DayKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = calendar.KindHoliday
	}
	if err := h.Store.DeleteHoliday(r.Context(), date, kind); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func toEmployees(dtos []EmployeeDTO) []batch.Employee {
	out := make([]batch.Employee, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, batch.Employee{ID: d.ID, Name: d.Name, City: d.City})
	}
	return out
}

func rowIdentity(req CalculateRequest) string {
	if req.EmployeeName != "" {
		return req.EmployeeName
	}
	if req.EmployeeID != "" {
		return req.EmployeeID
	}
	return "unknown"
}

func errorStrings(err error) []string {
	var verrs maternity.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Messages()
	}
	return []string{err.Error()}
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case maternity.IsClientError(err):
		writeError(w, http.StatusBadRequest, "invalid input", err)
	case rules.IsNotFound(err):
		writeError(w, http.StatusNotFound, "rule not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "calculation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]any{"error": message}
	if err != nil {
		body["detail"] = err.Error()
		var verrs maternity.ValidationErrors
		if errors.As(err, &verrs) {
			body["fields"] = verrs.Messages()
		}
	}
	writeJSON(w, status, body)
}
