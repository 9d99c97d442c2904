package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comerciolibre/backend/internal/catalog/usecase/command"
	"github.com/comerciolibre/backend/internal/catalog/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// CatalogHandler handles HTTP requests for products, categories and companies.
type CatalogHandler struct {
	products   *command.ProductHandler
	categories *command.CategoryHandler
	companies  *command.CompanyHandler

	getProduct  *query.GetProductHandler
	getCategory *query.GetCategoryHandler
	getCompany  *query.GetCompanyHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(
	products *command.ProductHandler,
	categories *command.CategoryHandler,
	companies *command.CompanyHandler,
	getProduct *query.GetProductHandler,
	getCategory *query.GetCategoryHandler,
	getCompany *query.GetCompanyHandler,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_service_requests_total",
			Help: "Total number of requests to catalog service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_service_request_duration_seconds",
			Help:    "Duration of catalog service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		products:       products,
		categories:     categories,
		companies:      companies,
		getProduct:     getProduct,
		getCategory:    getCategory,
		getCompany:     getCompany,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
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

func (h *CatalogHandler) metrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.statusCode)).Inc()
	}
}

// CreateProduct handles POST /api/productos
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateProductCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	product, err := h.products.Create(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("nombre", cmd.Name).Msg("Failed to create product")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/productos/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	product, err := h.getProduct.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /api/productos
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if r.URL.Query().Get("conStock") == "true" {
		products, err := h.getProduct.ListWithStock(r.Context(), limit, offset)
		if err != nil {
			logger.Error(r.Context()).Err(err).Msg("Failed to list products with stock")
			apierror.Respond(w, err)
			return
		}
		respondJSON(w, http.StatusOK, products)
		return
	}

	products, err := h.getProduct.List(r.Context(), limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// UpdateProduct handles PUT /api/productos/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var cmd command.UpdateProductCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}
	cmd.ID = id

	product, err := h.products.Update(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// DeactivateProduct handles DELETE /api/productos/{id}
func (h *CatalogHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.products.Deactivate(r.Context(), id); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCategory handles POST /api/categorias
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var cmd command.CategoryCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	category, err := h.categories.Create(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// GetCategory handles GET /api/categorias/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	category, err := h.getCategory.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// ListCategories handles GET /api/categorias
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	categories, err := h.getCategory.List(r.Context(), limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// UpdateCategory handles PUT /api/categorias/{id}
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var cmd command.CategoryCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}
	cmd.ID = id

	category, err := h.categories.Update(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

// DeactivateCategory handles DELETE /api/categorias/{id}
func (h *CatalogHandler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.categories.Deactivate(r.Context(), id); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCompany handles POST /api/empresas
func (h *CatalogHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var cmd command.CompanyCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	company, err := h.companies.Create(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, company)
}

// GetCompany handles GET /api/empresas/{id}
func (h *CatalogHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	company, err := h.getCompany.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// ListCompanies handles GET /api/empresas
func (h *CatalogHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	companies, err := h.getCompany.List(r.Context(), limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, companies)
}

// UpdateCompany handles PUT /api/empresas/{id}
func (h *CatalogHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var cmd command.CompanyCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}
	cmd.ID = id

	company, err := h.companies.Update(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// DeactivateCompany handles DELETE /api/empresas/{id}
func (h *CatalogHandler) DeactivateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.companies.Deactivate(r.Context(), id); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/productos", h.metrics("list_products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/productos", h.metrics("create_product", AdminMiddleware(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/productos/{id}", h.metrics("get_product", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/productos/{id}", h.metrics("update_product", AdminMiddleware(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/productos/{id}", h.metrics("deactivate_product", AdminMiddleware(h.DeactivateProduct))).Methods("DELETE")

	router.HandleFunc("/api/categorias", h.metrics("list_categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/categorias", h.metrics("create_category", AdminMiddleware(h.CreateCategory))).Methods("POST")
	router.HandleFunc("/api/categorias/{id}", h.metrics("get_category", h.GetCategory)).Methods("GET")
	router.HandleFunc("/api/categorias/{id}", h.metrics("update_category", AdminMiddleware(h.UpdateCategory))).Methods("PUT")
	router.HandleFunc("/api/categorias/{id}", h.metrics("deactivate_category", AdminMiddleware(h.DeactivateCategory))).Methods("DELETE")

	router.HandleFunc("/api/empresas", h.metrics("list_companies", h.ListCompanies)).Methods("GET")
	router.HandleFunc("/api/empresas", h.metrics("create_company", AdminMiddleware(h.CreateCompany))).Methods("POST")
	router.HandleFunc("/api/empresas/{id}", h.metrics("get_company", h.GetCompany)).Methods("GET")
	router.HandleFunc("/api/empresas/{id}", h.metrics("update_company", AdminMiddleware(h.UpdateCompany))).Methods("PUT")
	router.HandleFunc("/api/empresas/{id}", h.metrics("deactivate_company", AdminMiddleware(h.DeactivateCompany))).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
