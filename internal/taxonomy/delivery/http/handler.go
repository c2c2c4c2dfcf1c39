package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/taxonomy/domain"
	"github.com/tair/catalog-admin/internal/taxonomy/usecase/command"
	"github.com/tair/catalog-admin/internal/taxonomy/usecase/query"
)

// Response is the standard API envelope
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Gate authorizes a request for one module/action before the handler runs
type Gate interface {
	Require(module, action string, next http.HandlerFunc) http.HandlerFunc
}

// routePrefixes maps each taxonomy kind to its URL segment
var routePrefixes = map[domain.Kind]string{
	domain.KindCatalog:     "catalogs",
	domain.KindCategory:    "categories",
	domain.KindSubCategory: "sub-categories",
	domain.KindBrand:       "brands",
	domain.KindVehicleType: "vehicle-types",
	domain.KindWebsite:     "websites",
	domain.KindVendor:      "vendors",
}

// NodeHandler handles HTTP requests for all taxonomy kinds
type NodeHandler struct {
	createHandler *command.CreateNodeHandler
	updateHandler *command.UpdateNodeHandler
	deleteHandler *command.DeleteNodeHandler

	getHandler  *query.GetNodeHandler
	listHandler *query.ListNodesHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewNodeHandler creates a new taxonomy handler
func NewNodeHandler(
	createHandler *command.CreateNodeHandler,
	updateHandler *command.UpdateNodeHandler,
	deleteHandler *command.DeleteNodeHandler,
	getHandler *query.GetNodeHandler,
	listHandler *query.ListNodesHandler,
) *NodeHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxonomy_requests_total",
			Help: "Total number of requests to the taxonomy endpoints",
		},
		[]string{"method", "kind", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taxonomy_request_duration_seconds",
			Help:    "Duration of taxonomy endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "kind"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &NodeHandler{
		createHandler:  createHandler,
		updateHandler:  updateHandler,
		deleteHandler:  deleteHandler,
		getHandler:     getHandler,
		listHandler:    listHandler,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *NodeHandler) metricsMiddleware(kind domain.Kind, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, string(kind)).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, string(kind), strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreateNode handles POST /api/<kind>
func (h *NodeHandler) CreateNode(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Email       string `json:"email"`
			Phone       string `json:"phone"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		node, err := h.createHandler.Handle(command.CreateNodeCommand{
			Kind:        kind,
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
			Email:       req.Email,
			Phone:       req.Phone,
		})
		if err != nil {
			h.respondError(w, statusForError(err), err.Error())
			return
		}

		h.respondJSON(w, http.StatusCreated, node)
	}
}

// ListNodes handles GET /api/<kind>
func (h *NodeHandler) ListNodes(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		nodes, total, err := h.listHandler.Handle(query.ListNodesQuery{
			Kind:   kind,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.respondError(w, statusForError(err), err.Error())
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"items": nodes,
			"total": total,
		})
	}
}

// GetNode handles GET /api/<kind>/{id}
func (h *NodeHandler) GetNode(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		node, err := h.getHandler.Handle(query.GetNodeQuery{Kind: kind, ID: id})
		if err != nil {
			h.respondError(w, statusForError(err), err.Error())
			return
		}

		h.respondJSON(w, http.StatusOK, node)
	}
}

// UpdateNode handles PUT /api/<kind>/{id}
func (h *NodeHandler) UpdateNode(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		var req struct {
			Name        string  `json:"name"`
			Description *string `json:"description"`
			URL         string  `json:"url"`
			Email       string  `json:"email"`
			Phone       string  `json:"phone"`
		}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		node, err := h.updateHandler.Handle(command.UpdateNodeCommand{
			Kind:        kind,
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			URL:         req.URL,
			Email:       req.Email,
			Phone:       req.Phone,
		})
		if err != nil {
			h.respondError(w, statusForError(err), err.Error())
			return
		}

		h.respondJSON(w, http.StatusOK, node)
	}
}

// DeleteNode handles DELETE /api/<kind>/{id}
func (h *NodeHandler) DeleteNode(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid ID")
			return
		}

		if err := h.deleteHandler.Handle(command.DeleteNodeCommand{Kind: kind, ID: id}); err != nil {
			h.respondError(w, statusForError(err), err.Error())
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
	}
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	return uint(id), err
}

func statusForError(err error) int {
	if _, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON success response
func (h *NodeHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// respondError sends an error response
func (h *NodeHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// RegisterRoutes registers CRUD routes for every taxonomy kind. Reads are
// open; writes go through the permission gate.
func (h *NodeHandler) RegisterRoutes(router *mux.Router, gate Gate) {
	const module = "taxonomy"

	for _, kind := range domain.Kinds {
		prefix := "/api/" + routePrefixes[kind]
		k := kind

		router.HandleFunc(prefix, h.metricsMiddleware(k, h.ListNodes(k))).Methods("GET")
		router.HandleFunc(prefix+"/{id}", h.metricsMiddleware(k, h.GetNode(k))).Methods("GET")
		router.HandleFunc(prefix, h.metricsMiddleware(k, gate.Require(module, "create", h.CreateNode(k)))).Methods("POST")
		router.HandleFunc(prefix+"/{id}", h.metricsMiddleware(k, gate.Require(module, "update", h.UpdateNode(k)))).Methods("PUT")
		router.HandleFunc(prefix+"/{id}", h.metricsMiddleware(k, gate.Require(module, "delete", h.DeleteNode(k)))).Methods("DELETE")
	}
}
