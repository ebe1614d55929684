package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pricecast/backend/internal/config"
	"github.com/pricecast/backend/internal/engine"
	"github.com/pricecast/backend/internal/governance"
	"github.com/pricecast/backend/internal/handler"
	"github.com/pricecast/backend/internal/logging"
	"github.com/pricecast/backend/internal/repository"
	"github.com/pricecast/backend/internal/service"
	"github.com/pricecast/backend/pkg/auth"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect to database", "error", err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	projectRepo := repository.NewPgProjectRepository(pool)
	teamRepo := repository.NewPgTeamRepository(pool)
	featureRepo := repository.NewPgFeatureRepository(pool)
	sprintRepo := repository.NewPgSprintPlanRepository(pool)
	rateRepo := repository.NewPgRateRepository(pool)
	auditRepo := repository.NewPgAuditRepository(pool)

	eng := engine.New(cfg.Calculation)
	guard := governance.NewGuard(eng)
	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)

	authService := service.NewAuthService(userRepo, issuer)
	projectService := service.NewProjectService(projectRepo, guard)
	versionService := service.NewVersionService(projectRepo, guard)
	teamService := service.NewTeamService(projectRepo, teamRepo, rateRepo, guard)
	featureService := service.NewFeatureService(projectRepo, featureRepo, guard)
	sprintPlanService := service.NewSprintPlanService(projectRepo, teamRepo, sprintRepo, guard)
	rateService := service.NewRateService(rateRepo)
	auditService := service.NewAuditService(projectRepo, auditRepo)
	calcService := service.NewCalculationService(projectRepo, teamRepo, featureRepo, sprintRepo, rateRepo, eng)

	h := handler.New(pool, cfg.FrontendURL)
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	versionHandler := handler.NewVersionHandler(versionService)
	teamHandler := handler.NewTeamHandler(teamService)
	featureHandler := handler.NewFeatureHandler(featureService)
	sprintPlanHandler := handler.NewSprintPlanHandler(sprintPlanService)
	rateHandler := handler.NewRateHandler(rateService)
	auditHandler := handler.NewAuditHandler(auditService)
	calcHandler := handler.NewCalculationHandler(calcService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	wrapAuth := func(next http.Handler) http.Handler {
		if cfg.AuthRequired {
			return auth.RequireAuth(issuer)(next)
		}
		return auth.DevAuth(next)
	}
	protect := func(hf http.HandlerFunc) http.Handler {
		return wrapAuth(hf)
	}

	mux.Handle("GET /api/me", protect(authHandler.Me))

	mux.Handle("GET /api/projects", protect(projectHandler.List))
	mux.Handle("POST /api/projects", protect(projectHandler.Create))
	mux.Handle("GET /api/projects/{id}", protect(projectHandler.Get))
	mux.Handle("PATCH /api/projects/{id}", protect(projectHandler.Update))
	mux.Handle("DELETE /api/projects/{id}", protect(projectHandler.Delete))

	mux.Handle("GET /api/projects/{id}/versions/current", protect(versionHandler.Current))
	mux.Handle("PATCH /api/projects/{id}/versions/{vid}", protect(versionHandler.Update))
	mux.Handle("PATCH /api/projects/{id}/versions/{vid}/status", protect(versionHandler.TransitionStatus))
	mux.Handle("POST /api/projects/{id}/versions/{vid}/lock", protect(versionHandler.Lock))
	mux.Handle("POST /api/projects/{id}/versions/{vid}/unlock", protect(versionHandler.Unlock))

	mux.Handle("GET /api/projects/{id}/features", protect(featureHandler.List))
	mux.Handle("POST /api/projects/{id}/features", protect(featureHandler.Create))
	mux.Handle("PATCH /api/projects/{id}/features/{fid}", protect(featureHandler.Update))
	mux.Handle("DELETE /api/projects/{id}/features/{fid}", protect(featureHandler.Delete))
	mux.Handle("POST /api/projects/{id}/features/{fid}/approve-suggested", protect(featureHandler.ApproveSuggestedEffort))

	mux.Handle("GET /api/projects/{id}/team", protect(teamHandler.List))
	mux.Handle("POST /api/projects/{id}/team", protect(teamHandler.Create))
	mux.Handle("PATCH /api/projects/{id}/team/{mid}", protect(teamHandler.Update))
	mux.Handle("DELETE /api/projects/{id}/team/{mid}", protect(teamHandler.Delete))

	mux.Handle("GET /api/projects/{id}/sprint-plan", protect(sprintPlanHandler.Get))
	mux.Handle("PUT /api/projects/{id}/sprint-plan", protect(sprintPlanHandler.Replace))
	mux.Handle("GET /api/projects/{id}/sprint-config", protect(sprintPlanHandler.Config))
	mux.Handle("PUT /api/projects/{id}/sprint-config", protect(sprintPlanHandler.UpsertConfig))

	mux.Handle("GET /api/rates", protect(rateHandler.List))
	mux.Handle("PUT /api/rates", protect(rateHandler.Upsert))
	mux.Handle("DELETE /api/rates/{id}", protect(rateHandler.Delete))

	mux.Handle("GET /api/projects/{id}/calculations/cost", protect(calcHandler.Cost))
	mux.Handle("GET /api/projects/{id}/calculations/revenue", protect(calcHandler.Revenue))
	mux.Handle("GET /api/projects/{id}/calculations/profitability", protect(calcHandler.Profitability))
	mux.Handle("GET /api/projects/{id}/calculations/reverse-margin", protect(calcHandler.ReverseMargin))
	mux.Handle("GET /api/projects/{id}/calculations/sprint", protect(calcHandler.SprintAllocation))
	mux.Handle("GET /api/projects/{id}/calculations/sprint-plan-cost", protect(calcHandler.SprintPlanCost))

	mux.Handle("GET /api/projects/{id}/audit", protect(auditHandler.Logs))
	mux.Handle("GET /api/projects/{id}/estimation-history", protect(auditHandler.History))
	mux.Handle("GET /api/projects/{id}/justifications", protect(auditHandler.Justifications))

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute)
	chain := handler.RequestLogger(
		handler.SecurityHeaders(
			limiter.Middleware(
				h.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      chain,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
