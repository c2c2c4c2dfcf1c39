package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/tair/catalog-admin/internal/errors"
	"github.com/tair/catalog-admin/internal/product/domain"
	"github.com/tair/catalog-admin/internal/product/usecase/command"
	"github.com/tair/catalog-admin/internal/product/usecase/query"
	userhttp "github.com/tair/catalog-admin/internal/user/delivery/http"
	"github.com/tair/catalog-admin/kafka"
	"github.com/tair/catalog-admin/pkg/logger"
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

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	createHandler    *command.CreateProductHandler
	updateHandler    *command.UpdateProductHandler
	deleteHandler    *command.DeleteProductHandler
	restoreHandler   *command.RestoreProductHandler
	stockHandler     *command.AdjustStockHandler
	reconcileHandler *command.ReconcileCountersHandler

	getHandler   *query.GetProductHandler
	listHandler  *query.ListProductsHandler
	statsHandler *query.GetStatsHandler

	repo      domain.ProductRepository
	publisher *kafka.Publisher

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
}

// NewProductHandler creates a new product handler. The publisher may be nil
// when Kafka is not configured; the reconcile handler may be nil when the raw
// connection is unavailable.
func NewProductHandler(repo domain.ProductRepository, publisher *kafka.Publisher, reconcileHandler *command.ReconcileCountersHandler) *ProductHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_requests_total",
			Help: "Total number of requests to the product endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_request_duration_seconds",
			Help:    "Duration of product endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "product_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.005,
				0.99: 0.001,
			},
		},
		[]string{"method", "endpoint"},
	)

	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_total",
			Help: "Number of live products",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(requestSummary)
	prometheus.MustRegister(totalProducts)

	return &ProductHandler{
		createHandler:    command.NewCreateProductHandler(repo),
		updateHandler:    command.NewUpdateProductHandler(repo),
		deleteHandler:    command.NewDeleteProductHandler(repo),
		restoreHandler:   command.NewRestoreProductHandler(repo),
		stockHandler:     command.NewAdjustStockHandler(repo),
		reconcileHandler: reconcileHandler,
		getHandler:       query.NewGetProductHandler(repo),
		listHandler:      query.NewListProductsHandler(repo),
		statsHandler:     query.NewGetStatsHandler(repo),
		repo:             repo,
		publisher:        publisher,
		requestCounter:   requestCounter,
		requestLatency:   requestLatency,
		requestSummary:   requestSummary,
		totalProducts:    totalProducts,
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
func (h *ProductHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

type associationPayload struct {
	CatalogID     *uint   `json:"catalog_id"`
	CategoryID    *uint   `json:"category_id"`
	SubCategoryID *uint   `json:"sub_category_id"`
	BrandID       *uint   `json:"brand_id"`
	VehicleTypeID *uint   `json:"vehicle_type_id"`
	WebsiteIDs    []int64 `json:"website_ids"`
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := userhttp.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var req struct {
		SKU         string   `json:"sku"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Status      string   `json:"status"`
		Price       float64  `json:"price"`
		InStock     int      `json:"in_stock"`
		SaleStock   int      `json:"sale_stock"`
		Tags        []string `json:"tags"`
		associationPayload
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Price:         req.Price,
		InStock:       req.InStock,
		SaleStock:     req.SaleStock,
		Tags:          req.Tags,
		CatalogID:     req.CatalogID,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		BrandID:       req.BrandID,
		VehicleTypeID: req.VehicleTypeID,
		WebsiteIDs:    req.WebsiteIDs,
		UserID:        userID,
	})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.publishProductEvent(r.Context(), kafka.EventTypeProductCreated, product)
	h.updateProductsMetric()
	h.respondJSON(w, http.StatusCreated, product)
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	status := r.URL.Query().Get("status")

	products, err := h.listHandler.Handle(query.ListProductsQuery{
		Limit:  limit,
		Offset: offset,
		Status: status,
	})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.updateProductsMetric()
	h.respondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	product, err := h.getHandler.Handle(query.GetProductQuery{ID: id, IncludeDeleted: includeDeleted})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Name         string              `json:"name"`
		Description  *string             `json:"description"`
		Status       string              `json:"status"`
		Price        *float64            `json:"price"`
		SaleStock    *int                `json:"sale_stock"`
		Tags         []string            `json:"tags"`
		Associations *associationPayload `json:"associations"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Price:       req.Price,
		SaleStock:   req.SaleStock,
		Tags:        req.Tags,
	}
	if req.Associations != nil {
		cmd.Associations = &command.AssociationPatch{
			CatalogID:     req.Associations.CatalogID,
			CategoryID:    req.Associations.CategoryID,
			SubCategoryID: req.Associations.SubCategoryID,
			BrandID:       req.Associations.BrandID,
			VehicleTypeID: req.Associations.VehicleTypeID,
			WebsiteIDs:    req.Associations.WebsiteIDs,
		}
	}

	product, err := h.updateHandler.Handle(cmd)
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, _ := h.getHandler.Handle(query.GetProductQuery{ID: id})

	if err := h.deleteHandler.Handle(command.DeleteProductCommand{ID: id}); err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	if product != nil {
		h.publishProductEvent(r.Context(), kafka.EventTypeProductDeleted, product)
	}
	h.updateProductsMetric()
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// RestoreProduct handles POST /api/products/{id}/restore
func (h *ProductHandler) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.restoreHandler.Handle(command.RestoreProductCommand{ID: id})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.updateProductsMetric()
	h.respondJSON(w, http.StatusOK, product)
}

// UpdateStock handles PATCH /api/products/{id}/stock
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Delta  int    `json:"delta"`
		Reason string `json:"reason"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.stockHandler.Handle(command.AdjustStockCommand{ProductID: id, Delta: req.Delta}); err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	if err := h.publisher.PublishStockAdjusted(r.Context(), kafka.StockAdjustedEvent{
		ProductID: id,
		Delta:     req.Delta,
		Reason:    req.Reason,
	}); err != nil {
		logger.Warn(r.Context()).Err(err).Uint("product_id", id).Msg("Failed to publish stock adjusted event")
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Stock adjusted successfully"})
}

// GetStats handles GET /api/products/stats
func (h *ProductHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(query.GetStatsQuery{})
	if err != nil {
		h.respondError(w, statusForError(err), err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, stats)
}

// ReconcileCounters handles POST /api/products/reconcile
func (h *ProductHandler) ReconcileCounters(w http.ResponseWriter, r *http.Request) {
	if h.reconcileHandler == nil {
		h.respondError(w, http.StatusServiceUnavailable, "Reconciliation is not configured")
		return
	}

	report, err := h.reconcileHandler.Handle(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, report)
}

// publishProductEvent publishes a lifecycle event, logging instead of failing
// the request when the broker is down
func (h *ProductHandler) publishProductEvent(ctx context.Context, eventType string, product *domain.Product) {
	event := kafka.ProductEvent{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Status:    product.Status,
		UserID:    product.UserID,
	}

	var err error
	switch eventType {
	case kafka.EventTypeProductCreated:
		err = h.publisher.PublishProductCreated(ctx, event)
	case kafka.EventTypeProductDeleted:
		err = h.publisher.PublishProductDeleted(ctx, event)
	}
	if err != nil {
		logger.Warn(ctx).Err(err).
			Str("event_type", eventType).
			Uint("product_id", product.ID).
			Msg("Failed to publish product event")
	}
}

// updateProductsMetric updates the live products gauge
func (h *ProductHandler) updateProductsMetric() {
	count, err := h.repo.Count()
	if err == nil {
		h.totalProducts.Set(float64(count))
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
func (h *ProductHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// respondError sends an error response
func (h *ProductHandler) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message})
}

// RegisterRoutes registers all product routes. Reads are open; writes go
// through the permission gate.
func (h *ProductHandler) RegisterRoutes(router *mux.Router, gate Gate) {
	const module = "products"

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/stats", h.metricsMiddleware("/api/products/stats", h.GetStats)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", gate.Require(module, "create", h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", gate.Require(module, "update", h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", gate.Require(module, "delete", h.DeleteProduct))).Methods("DELETE")
	router.HandleFunc("/api/products/{id}/restore", h.metricsMiddleware("/api/products/{id}/restore", gate.Require(module, "restore", h.RestoreProduct))).Methods("POST")
	router.HandleFunc("/api/products/{id}/stock", h.metricsMiddleware("/api/products/{id}/stock", gate.Require(module, "update", h.UpdateStock))).Methods("PATCH")
	router.HandleFunc("/api/products/reconcile", h.metricsMiddleware("/api/products/reconcile", gate.Require(module, "update", h.ReconcileCounters))).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *ProductHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods("GET")
}
