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
	inHttp "github.com/pratama/commerce/internal/http"
	"github.com/pratama/commerce/internal/log"
	"github.com/pratama/commerce/internal/middleware"
	"github.com/pratama/commerce/internal/otel"
)

// RunOrderService starts the order service skeleton. Order management is not
// implemented yet, so the service only exposes health and metrics endpoints.
func RunOrderService(c context.Context) {
	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppOrderService)).
		With().
		Str(log.KeyAppName, constants.AppOrderService).
		Str(log.KeyTag, "main RunOrderService").
		Logger()

	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppOrderService)

	shutdownFuncs, err := otel.InitOtelSdk(c, constants.AppOrderService, cfg.Otel)
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

	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(
		otelmux.Middleware(constants.AppOrderService),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics(constants.AppOrderService),
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteJson(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
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
