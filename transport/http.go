package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	auditapp "github.com/muhammadheryan/artisanhub/application/audit"
	healthapp "github.com/muhammadheryan/artisanhub/application/health"
	userapp "github.com/muhammadheryan/artisanhub/application/user"
	"github.com/muhammadheryan/artisanhub/constant"
	"github.com/muhammadheryan/artisanhub/model"
	utilsContext "github.com/muhammadheryan/artisanhub/utils/context"
	"github.com/muhammadheryan/artisanhub/utils/errors"
	validatorx "github.com/muhammadheryan/artisanhub/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

const maxBodyBytes = 1 << 20

type RestHandler struct {
	UserApp   userapp.UserApp
	AuditApp  auditapp.AuditApp
	HealthApp healthapp.HealthApp
}

// Options carries the transport-level settings read from config.
type Options struct {
	InternalAPIKey string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewTransport(userApp userapp.UserApp, auditApp auditapp.AuditApp, healthApp healthapp.HealthApp, opts Options) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		UserApp:   userApp,
		AuditApp:  auditApp,
		HealthApp: healthApp,
	}

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	router.HandleFunc("/healthz", rh.Health).Methods(http.MethodGet)

	// Public routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", rh.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", rh.Login).Methods(http.MethodPost)

	// protected routes
	api.HandleFunc("/me", rh.Me).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", rh.Dashboard).Methods(http.MethodGet)

	customer := api.PathPrefix("/customer").Subrouter()
	customer.Use(RequireRole(constant.RoleCustomer))
	customer.HandleFunc("/dashboard", rh.RoleDashboard).Methods(http.MethodGet)

	seller := api.PathPrefix("/seller").Subrouter()
	seller.Use(RequireRole(constant.RoleSeller))
	seller.HandleFunc("/dashboard", rh.RoleDashboard).Methods(http.MethodGet)

	// internal routes, called by workers with the static API key
	internal := router.PathPrefix("/internal/v1").Subrouter()
	internal.Use(InternalMiddleware(opts.InternalAPIKey))
	internal.HandleFunc("/audit/login", rh.RecordLoginAudit).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.SetCustomError(constant.ErrNotFound))
	})

	// known path, wrong method; set on subrouters too so their mismatches end here
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.SetCustomError(constant.ErrMethodNotAllowed))
	})
	for _, rt := range []*mux.Router{router, api, customer, seller, internal} {
		rt.MethodNotAllowedHandler = methodNotAllowed
	}

	// middleware
	router.Use(LoggingMiddleware())
	router.Use(AuthMiddleware(userApp))

	var handler http.Handler = router
	handler = TimeoutMiddleware(opts.RequestTimeout)(handler)
	handler = CORSMiddleware(opts.AllowedOrigins)(handler)
	handler = RecoveryMiddleware(handler)

	return handler
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// Register handler
// @Summary Register user
// @Description Register a new customer or seller account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Register Request"
// @Success 200 {object} model.RegisterResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 409 {object} transport.ErrorResponse
// @Failure 500 {object} transport.ErrorResponse
// @Router /api/register [post]
func (s *RestHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.WrapCustomError(constant.ErrInvalidRequest, err))
		return
	}

	if s.UserApp == nil {
		writeError(w, errors.SetCustomError(constant.ErrInternal))
		return
	}

	res, err := s.UserApp.Register(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Login handler
// @Summary Login user
// @Description Login with email or phone and receive a signed session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login Request"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 429 {object} transport.ErrorResponse
// @Failure 500 {object} transport.ErrorResponse
// @Router /api/login [post]
func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.WrapCustomError(constant.ErrInvalidRequest, err))
		return
	}

	if s.UserApp == nil {
		writeError(w, errors.SetCustomError(constant.ErrInternal))
		return
	}

	res, err := s.UserApp.Login(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Me handler
// @Summary Current user
// @Description Profile of the authenticated caller
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} transport.ErrorResponse
// @Router /api/me [get]
func (s *RestHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.UserApp.GetProfile(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Dashboard handler
// @Summary Dashboard route
// @Description Client route for the caller's role
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DashboardResponse
// @Failure 401 {object} transport.ErrorResponse
// @Router /api/dashboard [get]
func (s *RestHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role, ok := utilsContext.GetRole(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.UserApp.ResolveDashboard(ctx, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// RoleDashboard handler
// @Summary Role dashboard
// @Description Dashboard payload for customers (/api/customer/dashboard) or sellers (/api/seller/dashboard)
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DashboardResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Router /api/customer/dashboard [get]
// @Router /api/seller/dashboard [get]
func (s *RestHandler) RoleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, okID := utilsContext.GetUserID(ctx)
	role, okRole := utilsContext.GetRole(ctx)
	if !okID || !okRole {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.UserApp.GetDashboard(ctx, userID, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// RecordLoginAudit handler
// @Summary Record login audit
// @Description Internal endpoint used by the audit worker
// @Tags Internal
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer <internal api key>"
// @Param request body model.LoginEvent true "Login Event"
// @Success 204
// @Failure 400 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Router /internal/v1/audit/login [post]
func (s *RestHandler) RecordLoginAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event model.LoginEvent
	if err := decodeJSON(w, r, &event); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if s.AuditApp == nil {
		writeError(w, errors.SetCustomError(constant.ErrInternal))
		return
	}

	if err := s.AuditApp.RecordLogin(ctx, &event); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handler
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Failure 503 {object} model.HealthResponse
// @Router /healthz [get]
func (s *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	if s.HealthApp == nil {
		writeJSON(w, http.StatusOK, model.HealthResponse{Status: healthapp.StatusOK})
		return
	}

	res := s.HealthApp.Check(r.Context())
	status := http.StatusOK
	if res.Status != healthapp.StatusOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, res)
}
