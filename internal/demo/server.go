package demo

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/timelane-go/timelane/buffered"
)

const (
	logMsgRequest        = "http request"
	logMsgRequestFailed  = "http request failed"
	logMsgEncodingFailed = "encoding http response failed"

	logAttrMethod   = "method"
	logAttrPath     = "path"
	logAttrDuration = "duration_ms"
	logAttrReqID    = "request_id"

	maxWorkloadValues = 10_000
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type healthResponse struct {
	Status  string                    `json:"status"`
	RunID   string                    `json:"run_id"`
	Buffers map[string]buffered.Stats `json:"buffers"`
}

type runResponse struct {
	RunID              string `json:"run_id"`
	LastSubscriptionID uint64 `json:"last_subscription_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	stack    *Stack
	workload WorkloadOptions
	logger   *slog.Logger
}

// NewRouter serves the stack over HTTP:
//   - GET  /healthz  run id and buffered sink counters
//   - GET  /metrics  Prometheus exposition of the stack registry
//   - GET  /records  stored records; query parameters from, run_id, lane, limit
//   - POST /runs     runs the demo workload into the stack sink; query parameters values, interval
func NewRouter(stack *Stack, workload WorkloadOptions, logger *slog.Logger) http.Handler {
	h := &handler{stack: stack, workload: workload, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(stack.Registry, promhttp.HandlerOpts{}))
	r.Get("/records", h.records)
	r.Post("/runs", h.runs)

	return r
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.Debug(logMsgRequest,
			logAttrMethod, r.Method,
			logAttrPath, r.URL.Path,
			logAttrStatus, ww.Status(),
			logAttrDuration, time.Since(start).Milliseconds(),
			logAttrReqID, middleware.GetReqID(r.Context()),
		)
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		RunID:   h.stack.RunID.String(),
		Buffers: h.stack.BufferStats(),
	})
}

func (h *handler) records(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := Query{From: params.Get("from"), Lane: params.Get("lane")}
	if q.From == "" {
		q.From = StoreRedis
	}

	if raw := params.Get("run_id"); raw != "" {
		runID, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		q.RunID = runID
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, http.StatusBadRequest, errors.New("limit must be a non-negative integer"))
			return
		}
		q.Limit = limit
	}

	entries, err := h.stack.Read(r.Context(), q)
	switch {
	case errors.Is(err, ErrUnknownStore), errors.Is(err, ErrSinkNotConfigured):
		h.writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

func (h *handler) runs(w http.ResponseWriter, r *http.Request) {
	options := h.workload
	params := r.URL.Query()

	if raw := params.Get("values"); raw != "" {
		values, err := strconv.Atoi(raw)
		if err != nil || values < 0 || values > maxWorkloadValues {
			h.writeError(w, http.StatusBadRequest, errors.New("values must be between 0 and 10000"))
			return
		}
		options.Values = values
	}

	if raw := params.Get("interval"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil || interval <= 0 {
			h.writeError(w, http.StatusBadRequest, errors.New("interval must be a positive duration"))
			return
		}
		options.Interval = interval
	}

	if err := RunWorkload(r.Context(), h.stack.Sink, options); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	response := runResponse{RunID: h.stack.RunID.String()}
	if options.Registry != nil {
		response.LastSubscriptionID = options.Registry.LastSubscriptionID()
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Error(logMsgRequestFailed, logAttrStatus, status, logAttrError, err.Error())
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(logMsgEncodingFailed, logAttrError, err.Error())
	}
}
