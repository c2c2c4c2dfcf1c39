package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/purchase/usecase/command"
	"github.com/tair/catalog-admin/internal/purchase/usecase/query"
	userhttp "github.com/tair/catalog-admin/internal/user/delivery/http"
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

// PurchaseHandler handles HTTP requests for purchases
type PurchaseHandler struct {
	createHandler *command.CreatePurchaseHandler
	updateHandler *command.UpdatePurchaseHandler
	deleteHandler *command.DeletePurchaseHandler

	getHandler  *query.GetPurchaseHandler
	listHandler *query.ListPurchasesHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(
	createHandler *command.CreatePurchaseHandler,
	updateHandler *command.UpdatePurchaseHandler,
	deleteHandler *command.DeletePurchaseHandler,
	getHandler *query.GetPurchaseHandler,
	listHandler *query.ListPurchasesHandler,
) *PurchaseHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_requests_total",
			Help: "Total number of requests to the purchase endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "purchase_request_duration_seconds",
			Help:    "Duration of purchase endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &PurchaseHandler{
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
func (h *PurchaseHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CreatePurchase handles POST /api/purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := userhttp.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var req struct {
		Currency  string  `json:"currency"`
		Quantity  int     `json:"quantity"`
		CostPrice float64 `json:"cost_price"`
		Status    string  `json:"status"`
		VendorID  *uint   `json:"vendor_id"`
		ProductID uint    `json:"product_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	purchase, err := h.createHandler.Handle(command.CreatePurchaseCommand{
		Currency:  req.Currency,
		Quantity:  req.Quantity,
		CostPrice: req.CostPrice,
		Status:    req.Status,
		VendorID:  req.VendorID,
		ProductID: req.ProductID,
		UserID:    userID,
	})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, purchase)
}

// ListPurchases handles GET /api/purchases
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	productID, _ := strconv.ParseUint(r.URL.Query().Get("product_id"), 10, 32)

	purchases, err := h.listHandler.Handle(query.ListPurchasesQuery{
		Limit:     limit,
		Offset:    offset,
		Status:    r.URL.Query().Get("status"),
		ProductID: uint(productID),
	})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, purchases)
}

// GetPurchase handles GET /api/purchases/{id}
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	purchase, err := h.getHandler.Handle(query.GetPurchaseQuery{ID: id})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, purchase)
}

// UpdatePurchase handles PUT /api/purchases/{id}
func (h *PurchaseHandler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	var req struct {
		Currency  *string  `json:"currency"`
		Quantity  *int     `json:"quantity"`
		CostPrice *float64 `json:"cost_price"`
		Status    *string  `json:"status"`
		VendorID  *uint    `json:"vendor_id"`
		ProductID *uint    `json:"product_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	purchase, err := h.updateHandler.Handle(command.UpdatePurchaseCommand{
		ID:        id,
		Currency:  req.Currency,
		Quantity:  req.Quantity,
		CostPrice: req.CostPrice,
		Status:    req.Status,
		VendorID:  req.VendorID,
		ProductID: req.ProductID,
	})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, purchase)
}

// DeletePurchase handles DELETE /api/purchases/{id}
func (h *PurchaseHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid purchase ID")
		return
	}

	if err := h.deleteHandler.Handle(command.DeletePurchaseCommand{ID: id}); err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Purchase deleted successfully"})
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
func (h *PurchaseHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// respondError sends an error response
func (h *PurchaseHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// RegisterRoutes registers all purchase routes behind the permission gate
func (h *PurchaseHandler) RegisterRoutes(router *mux.Router, gate Gate) {
	const module = "purchases"

	router.HandleFunc("/api/purchases", h.metricsMiddleware("/api/purchases", gate.Require(module, "read", h.ListPurchases))).Methods("GET")
	router.HandleFunc("/api/purchases/{id}", h.metricsMiddleware("/api/purchases/{id}", gate.Require(module, "read", h.GetPurchase))).Methods("GET")
	router.HandleFunc("/api/purchases", h.metricsMiddleware("/api/purchases", gate.Require(module, "create", h.CreatePurchase))).Methods("POST")
	router.HandleFunc("/api/purchases/{id}", h.metricsMiddleware("/api/purchases/{id}", gate.Require(module, "update", h.UpdatePurchase))).Methods("PUT")
	router.HandleFunc("/api/purchases/{id}", h.metricsMiddleware("/api/purchases/{id}", gate.Require(module, "delete", h.DeletePurchase))).Methods("DELETE")
}
