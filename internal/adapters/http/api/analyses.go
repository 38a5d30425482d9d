package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/possession/internal/adapters/chart"
	"github.com/okian/possession/internal/adapters/loader"
	"github.com/okian/possession/internal/adapters/report"
	service "github.com/okian/possession/internal/app"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/types"
)

// AnalysesHandler serves submission and retrieval of analyses.
type AnalysesHandler struct {
	deps           Dependencies
	decoder        Decoder
	maxUploadBytes int64
	labels         types.Labels
	chartOptions   []chart.Option
}

// HandlePost handles POST /analyses requests.
func (h *AnalysesHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	sync := false
	if v := r.URL.Query().Get("sync"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		sync = b
	}

	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	frames, err := h.decoder.Decode(r.Context(), body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", wrapKind(op, ErrPayloadTooLarge, err))
		case errors.Is(err, loader.ErrDecode), errors.Is(err, loader.ErrInvalidFrame):
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	if sync {
		rep, err := h.deps.Analyze(r.Context(), frames)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		writeJSON(w, http.StatusOK, report.View(rep, h.labels))
		return
	}

	id, err := h.deps.Submit(r.Context(), frames)
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", wrapKind(op, ErrBackpressure, nil))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.Header().Set("Location", "/analyses/"+id)
	writeJSON(w, http.StatusAccepted, types.JobView{ID: id, Status: string(model.JobPending)})
}

// HandleGet handles GET /analyses/{id}[/gantt|/shares|/chart.png] requests.
func (h *AnalysesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id, view, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/analyses/"), "/")
	if id == "" || strings.Contains(view, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch view {
	case "", "gantt", "shares", "chart.png":
	default:
		http.NotFound(w, r)
		return
	}

	rep, err := h.deps.Report(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPending):
			writeJSON(w, http.StatusAccepted, types.JobView{ID: id, Status: string(model.JobPending)})
		case errors.Is(err, service.ErrFailed):
			writeJSON(w, http.StatusUnprocessableEntity, types.JobView{ID: id, Status: string(model.JobFailed), Error: err.Error()})
		case errors.Is(err, service.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}

	switch view {
	case "gantt":
		writeJSON(w, http.StatusOK, report.Gantt(rep, h.labels))
	case "shares":
		writeJSON(w, http.StatusOK, report.Shares(rep, h.labels))
	case "chart.png":
		var buf bytes.Buffer
		if err := chart.Render(&buf, rep, h.chartOptions...); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	default:
		writeJSON(w, http.StatusOK, report.View(rep, h.labels))
	}
}
