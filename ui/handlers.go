package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"quotelens/adapters/tabular"
	"quotelens/app"
	"quotelens/domain/core"
	"quotelens/domain/quote"
	"quotelens/internal/optimizer"
	"quotelens/internal/pipeline"
)

const maxUploadBytes = 50 << 20 // 50MB

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts a multipart CSV or XLSX upload, runs the pipeline,
// and replaces the current dataset.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	name := header.Filename
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		summary, err := a.service.LoadDatasetFromCSV(file, name)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, summary)
	case ".xlsx":
		t, err := tabular.ReadXLSX(file)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		ds, err := pipeline.Process(t, name)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		summary, err := a.service.InstallDataset(ds)
		if err != nil {
			respondEngineError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, summary)
	default:
		respondError(w, http.StatusBadRequest, "unsupported file format: expected .csv or .xlsx")
	}
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.Summary()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := a.service.Report()
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (a *App) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var q quote.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, err := a.service.Recommend(q)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

type predictRequest struct {
	quote.Query
	ProposedDiscount float64 `json:"proposed_discount"`
}

func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	est, err := a.service.Predict(r.Context(), req.Query, req.ProposedDiscount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, est)
}

func (a *App) handleBatchPredict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requests []app.PredictionRequest `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, err := a.service.BatchPredict(r.Context(), req.Requests)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="processed_quotes.csv"`)
	if err := a.service.ExportCSV(w); err != nil {
		respondEngineError(w, err)
	}
}

func (a *App) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="quote_template.csv"`)
	_, _ = w.Write(tabular.TemplateCSV())
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps domain errors onto HTTP statuses. Empty-result
// conditions include the suggested alternative action when one exists.
func respondEngineError(w http.ResponseWriter, err error) {
	var noAccepted *optimizer.NoAcceptedQuotesError
	if errors.As(err, &noAccepted) {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error":          noAccepted.Error(),
			"recommendation": noAccepted.Suggestion,
		})
		return
	}

	switch {
	case core.IsStructuralError(err), errors.Is(err, core.ErrInvalidRange):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNoDataset):
		respondError(w, http.StatusConflict, "no dataset loaded: upload quote data first")
	case errors.Is(err, core.ErrNoWorkingModel), errors.Is(err, core.ErrEstimatorUnavailable):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
