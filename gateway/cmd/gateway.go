package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pratama/commerce/internal/config"
	"github.com/pratama/commerce/internal/constants"
	inHttp "github.com/pratama/commerce/internal/http"
	"github.com/pratama/commerce/internal/log"
	"github.com/pratama/commerce/internal/middleware"
	"github.com/pratama/commerce/internal/otel"
)

func newProxy(c context.Context, target string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("failed parsing upstream url=%s with error=%w", target, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.Transport = otelhttp.NewTransport(http.DefaultTransport)
	return proxy, nil
}

// RunApiGateway starts the edge router that forwards /api/products and
// /api/orders traffic to the backing services.
func RunApiGateway(c context.Context) {
	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppApiGateway)).
		With().
		Str(log.KeyAppName, constants.AppApiGateway).
		Str(log.KeyTag, "main RunApiGateway").
		Logger()

	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppApiGateway)

	shutdownFuncs, err := otel.InitOtelSdk(c, constants.AppApiGateway, cfg.Otel)
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

	productProxy, err := newProxy(c, cfg.Gateway.ProductServiceURL)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	orderProxy, err := newProxy(c, cfg.Gateway.OrderServiceURL)
	if err != nil {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(constants.AppApiGateway),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics(constants.AppApiGateway),
	)
	router.PathPrefix("/api/products").Handler(productProxy)
	router.PathPrefix("/api/orders").Handler(orderProxy)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteJson(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
