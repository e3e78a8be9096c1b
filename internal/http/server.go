package http

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smoradi/customer-api/internal/auth"
	"github.com/smoradi/customer-api/internal/config"
	"github.com/smoradi/customer-api/internal/http/middleware"
	"github.com/smoradi/customer-api/internal/metrics"
	"github.com/smoradi/customer-api/internal/repository"
	"github.com/smoradi/customer-api/internal/service/account"
	"github.com/smoradi/customer-api/internal/upload"
)

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB *sqlx.DB) *Server {
	// repos
	customersRepo := repository.NewCustomersRepository(mysqlDB)

	// collaborators
	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	uploader := upload.NewHTTPUploader(cfg.Upload.BaseURL, cfg.Upload.APIKey, cfg.Upload.TimeoutMs)

	// services
	accountSvc := account.New(customersRepo, tokens, uploader, cfg.Upload.Folder)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	authMW := middleware.BearerAuthMiddleware(tokens)
	adminMW := middleware.AdminOnlyMiddleware()

	// routes
	e.POST("/register", registerHandler(accountSvc))
	e.POST("/login", loginHandler(accountSvc))
	e.GET("/profile", getProfileHandler(accountSvc), authMW)
	e.PUT("/profile/:id", updateProfileHandler(accountSvc), authMW)
	e.DELETE("/profile/:id", deleteProfileHandler(accountSvc), authMW)
	e.GET("/customer", listCustomersHandler(accountSvc), authMW, adminMW)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
