package http

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/comerciolibre/backend/internal/auth/usecase/command"
	"github.com/comerciolibre/backend/internal/auth/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// UserHandler handles HTTP requests for authentication and user administration.
type UserHandler struct {
	users        *command.UserHandler
	loginHandler *command.LoginHandler
	getHandler   *query.GetUserHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewUserHandler creates a new auth handler.
func NewUserHandler(
	users *command.UserHandler,
	loginHandler *command.LoginHandler,
	getHandler *query.GetUserHandler,
) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_service_requests_total",
			Help: "Total number of requests to auth service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_service_request_duration_seconds",
			Help:    "Duration of auth service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &UserHandler{
		users:          users,
		loginHandler:   loginHandler,
		getHandler:     getHandler,
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

func (h *UserHandler) metrics(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.statusCode)).Inc()
	}
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd command.LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Register handles POST /api/auth/registro
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	user, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("username", cmd.Username).Msg("Failed to register user")
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// CreateUser handles POST /api/usuarios (admin, may assign roles)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var cmd command.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	user, err := h.users.RegisterWithRoles(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/usuarios/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, _ := r.Context().Value(UsernameKey).(string)
	user, err := h.getHandler.ByUsername(r.Context(), username)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// GetUser handles GET /api/usuarios/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	user, err := h.getHandler.ByID(r.Context(), id)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /api/usuarios
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.getHandler.List(r.Context(), limit, offset)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Stats handles GET /api/usuarios/estadisticas
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.getHandler.Stats(r.Context())
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// UpdateUser handles PUT /api/usuarios/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var cmd command.UpdateUserCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}
	cmd.ID = id

	user, err := h.users.Update(r.Context(), cmd)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// ChangeRoles handles PUT /api/usuarios/{id}/roles
func (h *UserHandler) ChangeRoles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var req struct {
		Roles []string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	user, err := h.users.ChangeRoles(r.Context(), id, req.Roles)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// SetActive handles PUT /api/usuarios/{id}/activo
func (h *UserHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	var req struct {
		Active bool `json:"activo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.Respond(w, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"Cuerpo de la petición no válido"))
		return
	}

	user, err := h.users.SetActive(r.Context(), id, req.Active)
	if err != nil {
		apierror.Respond(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeactivateUser handles DELETE /api/usuarios/{id}
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		apierror.Respond(w, err)
		return
	}

	if err := h.users.Deactivate(r.Context(), id); err != nil {
		apierror.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers all auth routes.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/login", h.metrics("login", h.Login)).Methods("POST")
	router.HandleFunc("/api/auth/registro", h.metrics("register", h.Register)).Methods("POST")

	router.HandleFunc("/api/usuarios", h.metrics("list_users", AdminMiddleware(h.ListUsers))).Methods("GET")
	router.HandleFunc("/api/usuarios", h.metrics("create_user", AdminMiddleware(h.CreateUser))).Methods("POST")
	router.HandleFunc("/api/usuarios/estadisticas", h.metrics("stats", AdminMiddleware(h.Stats))).Methods("GET")
	router.HandleFunc("/api/usuarios/me", h.metrics("me", AuthMiddleware(h.Me))).Methods("GET")
	router.HandleFunc("/api/usuarios/{id}", h.metrics("get_user", AdminMiddleware(h.GetUser))).Methods("GET")
	router.HandleFunc("/api/usuarios/{id}", h.metrics("update_user", AdminMiddleware(h.UpdateUser))).Methods("PUT")
	router.HandleFunc("/api/usuarios/{id}", h.metrics("deactivate_user", AdminMiddleware(h.DeactivateUser))).Methods("DELETE")
	router.HandleFunc("/api/usuarios/{id}/roles", h.metrics("change_roles", AdminMiddleware(h.ChangeRoles))).Methods("PUT")
	router.HandleFunc("/api/usuarios/{id}/activo", h.metrics("set_active", AdminMiddleware(h.SetActive))).Methods("PUT")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *UserHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
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
