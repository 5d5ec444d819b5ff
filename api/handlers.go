/*
handlers.go - HTTP API handlers for the sampling cadence service

PURPOSE:
  Exposes the cadence analysis engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Datasets:
    POST   /api/datasets                 Upload a CSV/XLSX export
    GET    /api/datasets                 List uploaded datasets
    GET    /api/datasets/{id}            Dataset metadata
    DELETE /api/datasets/{id}            Remove a dataset
    GET    /api/datasets/{id}/accounts   Distinct account names
    POST   /api/datasets/demo            Load the built-in demo dataset

  Analysis:
    POST   /api/datasets/{id}/analysis          Run an analysis (JSON)
    GET    /api/datasets/{id}/analysis/export   Same analysis as XLSX

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (ingest, analysis pipeline, report)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed uploads, invalid parameters
  - 404: Unknown dataset
  - 500: Internal errors

CACHING:
  Analysis results are memoized per (dataset, accounts, unit, run date).
  Uploading never invalidates anything; deleting a dataset flushes the
  whole cache (keys are content hashes, so there is no per-dataset index
  to sweep).

SEE ALSO:
  - dto.go: Request/response data structures
  - fixtures.go: The demo dataset
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tribolab/sampling-cadence/analysis"
	"github.com/tribolab/sampling-cadence/ingest"
	"github.com/tribolab/sampling-cadence/report"
	"github.com/tribolab/sampling-cadence/store/sqlite"
)

// maxUploadBytes caps multipart uploads (the in-memory part).
const maxUploadBytes = 32 << 20 // 32 MB

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Policy   analysis.Policy
	FromYear int
	Log      *slog.Logger

	// Now is the clock used for default run dates; swapped in tests.
	Now func() time.Time

	mu    sync.Mutex
	cache map[string]analysis.Result
}

// NewHandler creates a new handler with the given store and default policy.
func NewHandler(store *sqlite.Store, policy analysis.Policy, fromYear int, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:    store,
		Policy:   policy,
		FromYear: fromYear,
		Log:      log,
		Now:      time.Now,
		cache:    make(map[string]analysis.Result),
	}
}

// =============================================================================
// DATASET HANDLERS
// =============================================================================

// UploadDataset ingests a multipart CSV/XLSX upload into a new dataset.
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart request", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return
	}
	defer file.Close()

	rows, err := ingest.Read(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read upload", err)
		return
	}

	samples, dropped := analysis.Normalize(rows)

	ds := sqlite.Dataset{
		ID:          uuid.NewString(),
		Name:        header.Filename,
		UploadedAt:  h.Now().UTC(),
		DroppedRows: dropped,
	}
	if err := h.Store.SaveDataset(r.Context(), ds, samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store dataset", err)
		return
	}
	ds.SampleCount = len(samples)

	h.Log.Info("dataset uploaded",
		slog.String("dataset_id", ds.ID),
		slog.String("name", ds.Name),
		slog.Int("samples", len(samples)),
		slog.Int("dropped", dropped))

	writeJSON(w, http.StatusCreated, toDatasetDTO(ds))
}

// ListDatasets returns all uploaded datasets, newest first.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.Store.ListDatasets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list datasets", err)
		return
	}

	dtos := make([]DatasetDTO, len(datasets))
	for i, ds := range datasets {
		dtos[i] = toDatasetDTO(ds)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDataset returns a single dataset's metadata.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ds, err := h.Store.GetDataset(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get dataset", err)
		return
	}
	writeJSON(w, http.StatusOK, toDatasetDTO(ds))
}

// DeleteDataset removes a dataset, its samples and its cached analyses.
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteDataset(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to delete dataset", err)
		return
	}
	h.evictAll()

	h.Log.Info("dataset deleted", slog.String("dataset_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ListAccounts returns the distinct account names present in a dataset.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	accounts, err := h.Store.ListAccounts(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to list accounts", err)
		return
	}
	writeJSON(w, http.StatusOK, AccountsDTO{Accounts: accounts})
}

// LoadDemoDataset stores the built-in demo dataset and returns it.
func (h *Handler) LoadDemoDataset(w http.ResponseWriter, r *http.Request) {
	ds := sqlite.Dataset{
		ID:         uuid.NewString(),
		Name:       demoDatasetName,
		UploadedAt: h.Now().UTC(),
	}
	samples := demoSamples()

	if err := h.Store.SaveDataset(r.Context(), ds, samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store demo dataset", err)
		return
	}
	ds.SampleCount = len(samples)

	h.Log.Info("demo dataset loaded", slog.String("dataset_id", ds.ID))
	writeJSON(w, http.StatusCreated, toDatasetDTO(ds))
}

// =============================================================================
// ANALYSIS HANDLERS
// =============================================================================

// RunAnalysis executes the cadence pipeline over the selected accounts.
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.analyze(r, id, req)
	if err != nil {
		writeDomainError(w, "Analysis failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(id, result))
}

// ExportAnalysis runs the same analysis and streams it as an XLSX workbook.
// Inputs arrive as query parameters: accounts (repeatable or comma separated),
// unit, run_date.
func (h *Handler) ExportAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	q := r.URL.Query()
	req := AnalyzeRequest{
		Accounts: splitAccounts(q["accounts"]),
		Unit:     q.Get("unit"),
		RunDate:  q.Get("run_date"),
	}

	result, err := h.analyze(r, id, req)
	if err != nil {
		writeDomainError(w, "Analysis failed", err)
		return
	}

	buf, err := report.Workbook(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}

	filename := fmt.Sprintf("sampling-cadence-%s.xlsx", result.RunDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// analyze validates the request, loads the selected samples and runs the
// pipeline, memoizing the result per (dataset, accounts, unit, run date).
func (h *Handler) analyze(r *http.Request, datasetID string, req AnalyzeRequest) (analysis.Result, error) {
	if len(req.Accounts) == 0 {
		return analysis.Result{}, analysis.ErrNoAccountsSelected
	}

	policy := h.Policy
	if req.Unit != "" {
		unit := analysis.FrequencyUnit(strings.ToLower(req.Unit))
		if !unit.Valid() {
			return analysis.Result{}, fmt.Errorf("%w: %q", analysis.ErrInvalidUnit, req.Unit)
		}
		policy = policy.WithUnit(unit)
	}

	runDate := analysis.DateOnly(h.Now().UTC())
	if req.RunDate != "" {
		parsed, err := time.Parse("2006-01-02", req.RunDate)
		if err != nil {
			return analysis.Result{}, fmt.Errorf("%w: run_date %q (use YYYY-MM-DD)", analysis.ErrUnparseableDate, req.RunDate)
		}
		runDate = parsed
	}

	key := analysis.CacheKey(datasetID, req.Accounts, policy.Unit, runDate)
	h.mu.Lock()
	cached, ok := h.cache[key]
	h.mu.Unlock()
	if ok {
		return cached, nil
	}

	samples, err := h.Store.LoadSamples(r.Context(), datasetID, req.Accounts)
	if err != nil {
		return analysis.Result{}, err
	}

	result := analysis.Analyze(samples, policy, runDate, h.FromYear)

	h.mu.Lock()
	h.cache[key] = result
	h.mu.Unlock()

	h.Log.Info("analysis run",
		slog.String("dataset_id", datasetID),
		slog.Int("accounts", len(req.Accounts)),
		slog.Int("rows", len(result.Rows)),
		slog.Int("projected_dates", len(result.Projection)))

	return result, nil
}

// evictAll drops every cached result. Keys hash the dataset ID, so a
// per-dataset sweep isn't possible without a reverse index; full eviction
// on delete is cheap enough.
func (h *Handler) evictAll() {
	h.mu.Lock()
	h.cache = make(map[string]analysis.Result)
	h.mu.Unlock()
}

// splitAccounts accepts both repeated and comma-separated account params.
func splitAccounts(values []string) []string {
	var accounts []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				accounts = append(accounts, part)
			}
		}
	}
	return accounts
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case analysis.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Dataset not found", err)
	case analysis.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
