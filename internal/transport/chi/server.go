package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/querylens/topicforge/internal/domain"
	domusage "github.com/querylens/topicforge/internal/domain/usage"
	logpkg "github.com/querylens/topicforge/internal/logger"
	healthuc "github.com/querylens/topicforge/internal/usecase/health"
	topicsuc "github.com/querylens/topicforge/internal/usecase/topics"
	usageuc "github.com/querylens/topicforge/internal/usecase/usage"
)

// maxQueriesPerRequest bounds one clustering request. Larger batches should
// be split by the caller; cluster assignment is quadratic in batch size.
const maxQueriesPerRequest = 500

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the topic pipeline over HTTP. Handlers log through the
// request-scoped logger installed into the context by the logging middleware.
type Server struct {
	topics        *topicsuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(topics *topicsuc.Service, health *healthuc.Service, usage *usageuc.Service) *Server {
	s := &Server{
		topics: topics,
		health: health,
		usage:  usage,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidParams, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingQuotaExceeded, http.StatusPaymentRequired, codeEmbeddingQuotaExceeded),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// RegisterRoutes mounts the API on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/v1/topics", s.ClusterTopics)
	r.Get("/v1/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ClusterTopics handles POST /v1/topics.
func (s *Server) ClusterTopics(w http.ResponseWriter, r *http.Request) {
	var req TopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if len(req.Queries) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "queries must not be empty")
		return
	}
	if len(req.Queries) > maxQueriesPerRequest {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "too many queries in one request")
		return
	}

	records := make([]domain.QueryRecord, 0, len(req.Queries))
	for _, q := range req.Queries {
		records = append(records, queryFromDTO(q))
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	topics, err := s.topics.ClusterAndRank(ctx, records, companyFromDTO(req.Company))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := TopicsResponse{Topics: make([]TopicDTO, 0, len(topics))}
	for i := range topics {
		resp.Topics = append(resp.Topics, topicToDTO(topics[i]))
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, resp)
}

// GetUsage handles GET /v1/usage. The period query parameter accepts
// "day" (default), "month" and "total".
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period := domusage.Period(r.URL.Query().Get("period"))
	switch period {
	case "":
		period = domusage.PeriodDay
	case domusage.PeriodDay, domusage.PeriodMonth, domusage.PeriodTotal:
	default:
		writeError(w, http.StatusBadRequest, codeValidationFailed, "period must be day, month or total")
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageReportToDTO(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		domain.ErrInvalidParams,
		domain.ErrEmbeddingQuotaExceeded,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
