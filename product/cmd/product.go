package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/pratama/commerce/internal/config"
	"github.com/pratama/commerce/internal/constants"
	"github.com/pratama/commerce/internal/discovery"
	inHttp "github.com/pratama/commerce/internal/http"
	"github.com/pratama/commerce/internal/identity"
	"github.com/pratama/commerce/internal/infra"
	"github.com/pratama/commerce/internal/log"
	"github.com/pratama/commerce/internal/middleware"
	"github.com/pratama/commerce/internal/otel"
	"github.com/pratama/commerce/product/internal/controller"
	"github.com/pratama/commerce/product/internal/repository"
	"github.com/pratama/commerce/product/internal/service"
)

func RunProductService(c context.Context) {
	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppProductService)).
		With().
		Str(log.KeyAppName, constants.AppProductService).
		Str(log.KeyTag, "main RunProductService").
		Logger()

	logger.Info().Str(log.KeyProcess, "initializing config").Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppProductService)

	logger.Info().Str(log.KeyProcess, "initializing otel sdk").Msg("initializing otel sdk")
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.AppProductService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	defer func() {
		if err := otel.ShutdownOtel(context.Background(), shutdownFuncs); err != nil {
			logger.Error().Err(err).Msg("failed shutting down otel")
		}
	}()

	logger.Info().Str(log.KeyProcess, "initializing database").Msg("initializing database")
	pool := infra.NewDatabaseClient(c, cfg.Database)
	defer pool.Close()

	queries := repository.New(pool)
	productService := service.NewProductService(queries, identity.SystemProvider{})

	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(
		otelmux.Middleware(constants.AppProductService),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics(constants.AppProductService),
	)
	controller.AttachProductController(router, &productService)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			inHttp.WriteJson(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		inHttp.WriteJson(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	registry := discovery.NewClient(cfg.Discovery.Endpoint)
	serviceID := fmt.Sprintf("%s-%d", constants.AppProductService, cfg.Application.Port)
	if registry.Enabled() {
		logger.Info().Str(log.KeyProcess, "registering service").Msg("registering with discovery registry")
		err := registry.Register(c, discovery.Registration{
			ID:      serviceID,
			Name:    constants.AppProductService,
			Address: cfg.Application.Host,
			Port:    cfg.Application.Port,
			Check: discovery.Check{
				HTTP:     fmt.Sprintf("http://%s:%d/health", cfg.Application.Host, cfg.Application.Port),
				Interval: "10s",
				Timeout:  "2s",
			},
		})
		if err != nil {
			logger.Error().Err(err).Msg("failed registering with discovery registry")
		}
		defer func() {
			if err := registry.Deregister(context.Background(), serviceID); err != nil {
				logger.Error().Err(err).Msg("failed deregistering from discovery registry")
			}
		}()
	}

	go func() {
		logger.Info().Str(log.KeyProcess, "start server").Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("encounter error=%w while running server", err)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()

	<-c.Done()
	logger.Info().Str(log.KeyProcess, "shutdown server").Msg("received interruption signal, shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("server completely shutdown")
}
