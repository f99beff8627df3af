package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"greendash/backend/services/dashboard/internal/http/handlers"
	"greendash/backend/services/dashboard/internal/http/middleware"
	"greendash/backend/services/dashboard/internal/models"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers       *handlers.AuthHandlers
	MapHandlers        *handlers.MapHandlers
	StationsHandlers   *handlers.StationsHandlers
	ScheduleHandlers   *handlers.ScheduleHandlers
	SessionsHandlers   *handlers.SessionsHandlers
	ManagementHandlers *handlers.ManagementHandlers
	VehiclesHandlers   *handlers.VehiclesHandlers
	ProfileHandlers    *handlers.ProfileHandlers
	HealthHandler      http.HandlerFunc
	MetricsHandler     http.Handler
	WSHandler          http.HandlerFunc

	LoginLimiter *middleware.IPRateLimiter
	Observer     middleware.HTTPObserver
	CSRF         func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware. Sessions are expected to be loaded by an outer
// middleware (middleware.Auth.Load).
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	if deps.Observer != nil {
		r.Use(middleware.MetricsMiddleware(deps.Observer))
	}

	r.Handle("/health", deps.HealthHandler).Methods(http.MethodGet)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods(http.MethodGet)
	}

	if deps.WSHandler != nil {
		r.Handle("/ws/stations", deps.WSHandler).Methods(http.MethodGet)
	}

	web := r.NewRoute().Subrouter()
	if deps.CSRF != nil {
		web.Use(deps.CSRF)
	}

	anonymousOnly := middleware.RedirectAuthenticated(handlers.DashboardPath)
	web.Handle("/login", anonymousOnly(http.HandlerFunc(deps.AuthHandlers.LoginPage))).Methods(http.MethodGet)
	web.Handle("/register", anonymousOnly(http.HandlerFunc(deps.AuthHandlers.RegisterPage))).Methods(http.MethodGet)
	web.Handle("/dashboard", middleware.RequirePage(http.HandlerFunc(deps.AuthHandlers.DashboardPage))).Methods(http.MethodGet)
	web.Handle("/dashboard/{page:.*}", middleware.RequirePage(http.HandlerFunc(deps.AuthHandlers.DashboardPage))).Methods(http.MethodGet)

	api := web.PathPrefix("/api").Subrouter()

	login := http.Handler(http.HandlerFunc(deps.AuthHandlers.Login))
	if deps.LoginLimiter != nil {
		login = middleware.RateLimit(deps.LoginLimiter)(login)
	}
	api.Handle("/auth/login", login).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", deps.AuthHandlers.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", deps.AuthHandlers.Logout).Methods(http.MethodPost)
	api.Handle("/auth/me", signedIn(deps.AuthHandlers.Me)).Methods(http.MethodGet)

	api.Handle("/map/stations", signedIn(deps.MapHandlers.Stations)).Methods(http.MethodGet)

	api.Handle("/stations", operator(deps.StationsHandlers.Create)).Methods(http.MethodPost)
	api.Handle("/stations/{id}", signedIn(deps.StationsHandlers.Detail)).Methods(http.MethodGet)
	api.Handle("/stations/{id}", operator(deps.StationsHandlers.Update)).Methods(http.MethodPut)
	api.Handle("/stations/{id}", operator(deps.StationsHandlers.Delete)).Methods(http.MethodDelete)
	api.Handle("/stations/{id}/spots", operator(deps.StationsHandlers.CreateSpot)).Methods(http.MethodPost)
	api.Handle("/stations/{id}/spots/{spotId}", operator(deps.StationsHandlers.UpdateSpot)).Methods(http.MethodPut)
	api.Handle("/stations/{id}/spots/{spotId}", operator(deps.StationsHandlers.DeleteSpot)).Methods(http.MethodDelete)
	api.Handle("/stations/{id}/spots/{spotId}/status", operator(deps.StationsHandlers.SpotStatus)).Methods(http.MethodPut)

	schedule := "/stations/{id}/spots/{spotId}/schedule"
	api.Handle(schedule, driver(deps.ScheduleHandlers.Get)).Methods(http.MethodGet)
	api.Handle(schedule+"/click", driver(deps.ScheduleHandlers.Click)).Methods(http.MethodPost)
	api.Handle(schedule+"/hover", driver(deps.ScheduleHandlers.Hover)).Methods(http.MethodPost)
	api.Handle(schedule+"/week", driver(deps.ScheduleHandlers.Week)).Methods(http.MethodPost)
	api.Handle(schedule+"/book", driver(deps.ScheduleHandlers.Book)).Methods(http.MethodPost)

	api.Handle("/sessions", driver(deps.SessionsHandlers.List)).Methods(http.MethodGet)
	api.Handle("/sessions/{id}", driver(deps.SessionsHandlers.Cancel)).Methods(http.MethodDelete)
	api.Handle("/sessions/{id}/payment", driver(deps.SessionsHandlers.Pay)).Methods(http.MethodPost)
	api.Handle("/payment/return", signedIn(deps.SessionsHandlers.PaymentReturn)).Methods(http.MethodGet)

	api.Handle("/management/sessions", operator(deps.ManagementHandlers.Sessions)).Methods(http.MethodGet)

	api.Handle("/vehicles", driver(deps.VehiclesHandlers.List)).Methods(http.MethodGet)
	api.Handle("/vehicles", driver(deps.VehiclesHandlers.Create)).Methods(http.MethodPost)
	api.Handle("/vehicles/{id}", driver(deps.VehiclesHandlers.Update)).Methods(http.MethodPut)
	api.Handle("/vehicles/{id}", driver(deps.VehiclesHandlers.Delete)).Methods(http.MethodDelete)

	api.Handle("/profile", signedIn(deps.ProfileHandlers.Get)).Methods(http.MethodGet)
	api.Handle("/profile", signedIn(deps.ProfileHandlers.Update)).Methods(http.MethodPut)
	api.Handle("/profile", signedIn(deps.ProfileHandlers.Delete)).Methods(http.MethodDelete)

	return r
}

func signedIn(h http.HandlerFunc) http.Handler {
	return middleware.RequireAPI()(h)
}

func operator(h http.HandlerFunc) http.Handler {
	return middleware.RequireAPI(models.RoleOperator)(h)
}

func driver(h http.HandlerFunc) http.Handler {
	return middleware.RequireAPI(models.RoleUser)(h)
}
