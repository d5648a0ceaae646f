package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/prefeitura-rio/app-personalizacao/internal/config"
	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
)

const (
	ServiceName    = "app-personalizacao"
	ServiceVersion = "v1.0.0"
)

// ShutdownFunc encerra o provedor de traces
type ShutdownFunc func()

// InitTracer inicializa o tracer OpenTelemetry com exportador OTLP gRPC.
// Com tracing desativado, o provedor global (no-op) é mantido.
func InitTracer(cfg *config.Config, log logger.Logger) ShutdownFunc {
	if !cfg.TracingEnabled {
		log.Info("Tracing desativado")
		return func() {}
	}

	ctx := context.Background()

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.TracingEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		log.Error("Falha ao criar exportador OTLP", logger.Error(err))
		return func() {}
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(ServiceVersion),
		),
	)
	if err != nil {
		log.Error("Falha ao criar resource", logger.Error(err))
		return func() {}
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(512),
			sdktrace.WithBatchTimeout(time.Second*10),
			sdktrace.WithMaxQueueSize(2048),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("Tracer inicializado", logger.String("endpoint", cfg.TracingEndpoint))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Falha ao encerrar tracer provider", logger.Error(err))
		}
	}
}
