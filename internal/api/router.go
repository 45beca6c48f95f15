package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/Justice00000/nucleus-vault-app/internal/api/handler"
	"github.com/Justice00000/nucleus-vault-app/internal/api/middleware"
	"github.com/Justice00000/nucleus-vault-app/internal/api/spec"
	"github.com/Justice00000/nucleus-vault-app/internal/config"
	"github.com/Justice00000/nucleus-vault-app/internal/idempotency"
	"github.com/Justice00000/nucleus-vault-app/internal/service"
)

// Router wires handlers, middleware, and operational endpoints into the
// HTTP surface.
type Router struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *pgxpool.Pool
	redis     redis.Cmdable
	idemStore *idempotency.Store

	auth     *handler.AuthHandler
	profile  *handler.ProfileHandler
	tx       *handler.TransactionHandler
	kyc      *handler.KYCHandler
	admin    *handler.AdminHandler
	health   *handler.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *pgxpool.Pool,
	redisClient redis.Cmdable,
	idemStore *idempotency.Store,
	authSvc *service.AuthService,
	profileSvc *service.ProfileService,
	accountSvc *service.AccountService,
	txSvc *service.TransactionService,
	kycSvc *service.KYCService,
	reviewSvc *service.ReviewService,
) *Router {
	return &Router{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		idemStore: idemStore,
		auth:      handler.NewAuthHandler(authSvc),
		profile:   handler.NewProfileHandler(profileSvc, accountSvc),
		tx:        handler.NewTransactionHandler(txSvc),
		kyc:       handler.NewKYCHandler(kycSvc),
		admin:     handler.NewAdminHandler(reviewSvc),
		health:    handler.NewHealthHandler(db, redisClient),
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)

	// Operational endpoints
	r.Get("/health/live", api.health.Live)
	r.Get("/health/ready", api.health.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Post("/v1/auth/signup", api.auth.Signup)
		r.Post("/v1/auth/login", api.auth.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Use(middleware.AuthRateLimiter(api.cfg.AuthRateLimitRPS))

		r.Get("/v1/me", api.profile.Me)
		r.Patch("/v1/me", api.profile.Update)
		r.Get("/v1/me/notifications", api.profile.Notifications)

		r.With(middleware.IdempotencyMiddleware(api.idemStore, api.logger)).
			Post("/v1/transactions", api.tx.Submit)
		r.Get("/v1/transactions", api.tx.List)
		r.Get("/v1/transactions/{id}", api.tx.Get)

		r.Post("/v1/kyc/documents", api.kyc.Upload)
		r.Get("/v1/kyc/documents", api.kyc.List)
		r.Get("/v1/kyc/documents/{id}/file", api.kyc.DownloadFile)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Get("/v1/admin/users", api.admin.ListUsers)
			r.Post("/v1/admin/users/{id}/decision", api.admin.DecideUser)
			r.Post("/v1/admin/users/{id}/kyc/decision", api.admin.DecideUserKYC)
			r.Post("/v1/admin/users/{id}/kyc/reset", api.admin.ResetUserKYC)

			r.Get("/v1/admin/transactions", api.admin.ListTransactions)
			r.Post("/v1/admin/transactions/{id}/decision", api.admin.DecideTransaction)

			r.Get("/v1/admin/kyc/documents", api.admin.ListKYCDocuments)
			r.Post("/v1/admin/kyc/documents/{id}/decision", api.admin.DecideKYCDocument)
			r.Get("/v1/admin/kyc/documents/{id}/file", api.kyc.DownloadFile)
		})
	})

	return r
}
