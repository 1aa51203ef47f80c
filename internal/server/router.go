package server

import (
	"log/slog"
	"net/http"
	"time"

	"warungpos-backend/internal/config"
	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	outlets handler.OutletHandler,
	employees handler.EmployeeHandler,
	categories handler.CategoryHandler,
	products handler.ProductHandler,
	pos handler.POSHandler,
	shifts handler.ShiftHandler,
	cashFlows handler.CashFlowHandler,
	stocks handler.StockHandler,
	attendance handler.AttendanceHandler,
	kasbon handler.KasbonHandler,
	dashboard handler.DashboardHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		auth.RegisterProtectedRoutes(pr)
		// cashier-level (cashier/manager/super_admin)
		pr.Group(func(cr chi.Router) {
			cr.Use(RequireRole(domain.RoleSuperAdmin, domain.RoleManager, domain.RoleCashier))
			products.RegisterRoutes(cr)
			categories.RegisterRoutes(cr)
			pos.RegisterRoutes(cr)
			shifts.RegisterRoutes(cr)
			attendance.RegisterRoutes(cr)
			kasbon.RegisterRoutes(cr)
		})
		// manager-level (manager/super_admin)
		pr.Group(func(mr chi.Router) {
			mr.Use(RequireRole(domain.RoleSuperAdmin, domain.RoleManager))
			outlets.RegisterRoutes(mr)
			employees.RegisterRoutes(mr)
			products.RegisterAdminRoutes(mr)
			categories.RegisterAdminRoutes(mr)
			stocks.RegisterRoutes(mr)
			cashFlows.RegisterRoutes(mr)
			dashboard.RegisterRoutes(mr)
		})
	})

	return r
}
