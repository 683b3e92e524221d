package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/propagators/jaeger"
	"go.opentelemetry.io/contrib/propagators/ot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/pratama/commerce/internal/config"
	"github.com/pratama/commerce/internal/log"
)

type ShutdownFunc func(context.Context) error

func newPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		jaeger.Jaeger{},
		ot.OT{},
	)
}

// InitOtelSdk wires the global tracer and meter providers against the
// configured otlp collector. The returned shutdown funcs must be run on exit.
func InitOtelSdk(
	c context.Context,
	serviceName string,
	cfg config.Otel,
) (shutdownFuncs []ShutdownFunc, err error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "InitOtelSdk").
		Logger()

	endpoint := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	otel.SetTextMapPropagator(newPropagator())

	logger.Info().Str(log.KeyProcess, "init tracerProvider").Msg("initializing tracerProvider")
	tracerProvider, err := initTracerProvider(c, endpoint, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed initializing tracerProvider with error=%w", err)
	}
	otel.SetTracerProvider(tracerProvider)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	logger.Info().Str(log.KeyProcess, "init tracerProvider").Msg("initialized tracerProvider")

	logger.Info().Str(log.KeyProcess, "init meterProvider").Msg("initializing meterProvider")
	meterProvider, err := initMeterProvider(c, endpoint)
	if err != nil {
		return shutdownFuncs, fmt.Errorf("failed initializing meterProvider with error=%w", err)
	}
	otel.SetMeterProvider(meterProvider)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	logger.Info().Str(log.KeyProcess, "init meterProvider").Msg("initialized meterProvider")

	return shutdownFuncs, nil
}

func ShutdownOtel(c context.Context, shutdownFuncs []ShutdownFunc) error {
	var err error
	for _, shutdown := range shutdownFuncs {
		err = errors.Join(err, shutdown(c))
	}
	return err
}
