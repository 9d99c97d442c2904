package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/internal/inventory/usecase/command"
	"github.com/comerciolibre/backend/internal/inventory/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// StockHandler handles HTTP requests for inventory.
type StockHandler struct {
	createHandler     *command.CreateStockHandler
	movementHandler   *command.ApplyMovementHandler
	batchHandler      *command.ApplyBatchHandler
	deactivateHandler *command.DeactivateStockHandler

	getHandler       *query.GetStockHandler
	listHandler      *query.ListStockHandler
	bulkHandler      *query.BulkQuantitiesHandler
	movementsHandler *query.ListMovementsHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewStockHandler creates a new inventory handler.
func NewStockHandler(
	createHandler *command.CreateStockHandler,
	movementHandler *command.ApplyMovementHandler,
	batchHandler *command.ApplyBatchHandler,
	deactivateHandler *command.DeactivateStockHandler,
	getHandler *query.GetStockHandler,
	listHandler *query.ListStockHandler,
	bulkHandler *query.BulkQuantitiesHandler,
	movementsHandler *query.ListMovementsHandler,
) *StockHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_service_requests_total",
			Help: "Total number of requests to inventory service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_service_request_duration_seconds",
			Help:    "Duration of inventory service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &StockHandler{
		createHandler:     createHandler,
		movementHandler:   movementHandler,
		batchHandler:      batchHandler,
		deactivateHandler: deactivateHandler,
		getHandler:        getHandler,
		listHandler:       listHandler,
		bulkHandler:       bulkHandler,
		movementsHandler:  movementsHandler,
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

func (h *StockHandler) metrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.statusCode)).Inc()
	}
}

// CreateStock handles POST /api/inventarios
func (h *StockHandler) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID uint   `json:"productoId"`
		Quantity  int    `json:"cantidad"`
		Location  string `json:"ubicacion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	row, err := h.createHandler.Handle(r.Context(), command.CreateStockCommand{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Location:  req.Location,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("producto_id", req.ProductID).Msg("Failed to create stock row")
		apierror.Respond(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, row)
}

// GetStock handles GET /api/inventarios/{id}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	row, err := h.getHandler.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// GetStockByProduct handles GET /api/inventarios/producto/{id}
func (h *StockHandler) GetStockByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	row, err := h.getHandler.ByProductID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// ListStock handles GET /api/inventarios
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if r.URL.Query().Get("conProducto") == "true" {
		rows, err := h.listHandler.HandleWithProduct(r.Context(), limit, offset)
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to list stock with products")
			apierror.Respond(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
		return
	}

	rows, err := h.listHandler.Handle(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list stock")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// BulkQuantities handles POST /api/inventarios/cantidad/batch
func (h *StockHandler) BulkQuantities(w http.ResponseWriter, r *http.Request) {
	var productIDs []uint
	if err := json.NewDecoder(r.Body).Decode(&productIDs); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	quantities, err := h.bulkHandler.Handle(r.Context(), productIDs)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, quantities)
}

// UpdateStock handles PUT /api/inventarios/producto/{id}/stock
func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("cantidad"))
	if err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El parámetro cantidad no es válido"))
		return
	}

	row, err := h.movementHandler.Handle(r.Context(), command.ApplyMovementCommand{
		ProductID: productID,
		Kind:      r.URL.Query().Get("tipoMovimiento"),
		Quantity:  quantity,
		Reason:    r.URL.Query().Get("motivo"),
		ActorID:   actorID(r.Context()),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("producto_id", productID).Msg("Failed to apply movement")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// BatchOut handles POST /api/inventarios/salida-lote
func (h *StockHandler) BatchOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items  []domain.BatchItem `json:"items"`
		Reason string             `json:"motivo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	rows, err := h.batchHandler.Handle(r.Context(), command.ApplyBatchCommand{
		Items:   req.Items,
		Reason:  req.Reason,
		ActorID: actorID(r.Context()),
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Int("items", len(req.Items)).Msg("Batch out rejected")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// DeactivateStock handles DELETE /api/inventarios/{id}
func (h *StockHandler) DeactivateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.deactivateHandler.Handle(r.Context(), command.DeactivateStockCommand{ID: id}); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMovements handles GET /api/movimientos/inventario/{id}
func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	movements, err := h.movementsHandler.Handle(r.Context(), id, limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, movements)
}

// RegisterRoutes registers all inventory routes.
func (h *StockHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventarios", h.metrics("list", h.ListStock)).Methods("GET")
	router.HandleFunc("/api/inventarios", h.metrics("create", AdminMiddleware(h.CreateStock))).Methods("POST")
	router.HandleFunc("/api/inventarios/cantidad/batch", h.metrics("bulk_quantities", h.BulkQuantities)).Methods("POST")
	router.HandleFunc("/api/inventarios/salida-lote", h.metrics("batch_out", h.BatchOut)).Methods("POST")
	router.HandleFunc("/api/inventarios/producto/{id}", h.metrics("get_by_product", h.GetStockByProduct)).Methods("GET")
	router.HandleFunc("/api/inventarios/producto/{id}/stock", h.metrics("update_stock", AdminMiddleware(h.UpdateStock))).Methods("PUT")
	router.HandleFunc("/api/inventarios/{id}", h.metrics("get", h.GetStock)).Methods("GET")
	router.HandleFunc("/api/inventarios/{id}", h.metrics("deactivate", AdminMiddleware(h.DeactivateStock))).Methods("DELETE")
	router.HandleFunc("/api/movimientos/inventario/{id}", h.metrics("list_movements", h.ListMovements)).Methods("GET")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *StockHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			apierror.Respond(w, apierror.Wrap(apierror.KindUnavailable, apierror.CodeUnavailable,
				"Base de datos no disponible", err))
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
			"Identificador no válido: %s", raw)
	}
	return uint(id), nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
