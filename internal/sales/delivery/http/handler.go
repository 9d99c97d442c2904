package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comerciolibre/backend/internal/sales/usecase/command"
	"github.com/comerciolibre/backend/internal/sales/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// SaleHandler handles HTTP requests for sales and customers.
type SaleHandler struct {
	placeHandler   *command.PlaceSaleHandler
	confirmHandler *command.ConfirmSaleHandler
	cancelHandler  *command.CancelSaleHandler
	customers      *command.CustomerHandler

	getHandler         *query.GetSaleHandler
	listHandler        *query.ListSalesHandler
	getCustomerHandler *query.GetCustomerHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewSaleHandler creates a new sales handler.
func NewSaleHandler(
	placeHandler *command.PlaceSaleHandler,
	confirmHandler *command.ConfirmSaleHandler,
	cancelHandler *command.CancelSaleHandler,
	customers *command.CustomerHandler,
	getHandler *query.GetSaleHandler,
	listHandler *query.ListSalesHandler,
	getCustomerHandler *query.GetCustomerHandler,
) *SaleHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_service_requests_total",
			Help: "Total number of requests to sales service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sales_service_request_duration_seconds",
			Help:    "Duration of sales service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &SaleHandler{
		placeHandler:       placeHandler,
		confirmHandler:     confirmHandler,
		cancelHandler:      cancelHandler,
		customers:          customers,
		getHandler:         getHandler,
		listHandler:        listHandler,
		getCustomerHandler: getCustomerHandler,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
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

func (h *SaleHandler) metrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.statusCode)).Inc()
	}
}

// PlaceSale handles POST /api/ventas
func (h *SaleHandler) PlaceSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID uint                    `json:"clienteId"`
		Items      []command.SaleItemInput `json:"detalles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	sale, err := h.placeHandler.Handle(r.Context(), command.PlaceSaleCommand{
		CustomerID: req.CustomerID,
		Items:      req.Items,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("cliente_id", req.CustomerID).Msg("Failed to place sale")
		apierror.Respond(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}

// ConfirmSale handles PUT /api/ventas/{id}/completar
func (h *SaleHandler) ConfirmSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	sale, err := h.confirmHandler.Handle(r.Context(), id)
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("venta_id", id).Msg("Failed to confirm sale")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// CancelSale handles PUT /api/ventas/{id}/cancelar
func (h *SaleHandler) CancelSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	sale, err := h.cancelHandler.Handle(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// GetSale handles GET /api/ventas/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	sale, err := h.getHandler.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// GetSaleByInvoice handles GET /api/ventas/factura/{numero}
func (h *SaleHandler) GetSaleByInvoice(w http.ResponseWriter, r *http.Request) {
	sale, err := h.getHandler.ByInvoice(r.Context(), mux.Vars(r)["numero"])
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// ListSales handles GET /api/ventas
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sales, err := h.listHandler.Handle(r.Context(), limit, offset)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list sales")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// ListSalesByCustomer handles GET /api/ventas/cliente/{id}
func (h *SaleHandler) ListSalesByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sales, err := h.listHandler.ByCustomer(r.Context(), id, limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// CreateCustomer handles POST /api/clientes
func (h *SaleHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateCustomerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	customer, err := h.customers.Create(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

// GetCustomer handles GET /api/clientes/{id}
func (h *SaleHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	customer, err := h.getCustomerHandler.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// ListCustomers handles GET /api/clientes
func (h *SaleHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	customers, err := h.getCustomerHandler.List(r.Context(), limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// UpdateCustomer handles PUT /api/clientes/{id}
func (h *SaleHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var cmd command.UpdateCustomerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}
	cmd.ID = id

	customer, err := h.customers.Update(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// DeactivateCustomer handles DELETE /api/clientes/{id}
func (h *SaleHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.customers.Deactivate(r.Context(), id); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers all sales routes.
func (h *SaleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/ventas", h.metrics("list_sales", h.ListSales)).Methods("GET")
	router.HandleFunc("/api/ventas", h.metrics("place_sale", AuthMiddleware(h.PlaceSale))).Methods("POST")
	router.HandleFunc("/api/ventas/factura/{numero}", h.metrics("get_by_invoice", h.GetSaleByInvoice)).Methods("GET")
	router.HandleFunc("/api/ventas/cliente/{id}", h.metrics("list_by_customer", h.ListSalesByCustomer)).Methods("GET")
	router.HandleFunc("/api/ventas/{id}", h.metrics("get_sale", h.GetSale)).Methods("GET")
	router.HandleFunc("/api/ventas/{id}/completar", h.metrics("confirm_sale", AuthMiddleware(h.ConfirmSale))).Methods("PUT")
	router.HandleFunc("/api/ventas/{id}/cancelar", h.metrics("cancel_sale", AuthMiddleware(h.CancelSale))).Methods("PUT")

	router.HandleFunc("/api/clientes", h.metrics("list_customers", h.ListCustomers)).Methods("GET")
	router.HandleFunc("/api/clientes", h.metrics("create_customer", AuthMiddleware(h.CreateCustomer))).Methods("POST")
	router.HandleFunc("/api/clientes/{id}", h.metrics("get_customer", h.GetCustomer)).Methods("GET")
	router.HandleFunc("/api/clientes/{id}", h.metrics("update_customer", AuthMiddleware(h.UpdateCustomer))).Methods("PUT")
	router.HandleFunc("/api/clientes/{id}", h.metrics("deactivate_customer", AdminMiddleware(h.DeactivateCustomer))).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *SaleHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
