package tracing

import (
	"context"
	"crypto/tls"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/credentials"
)

const (
	serviceName    = "ramp-service"
	serviceVersion = "1.0.0"
)

// Config holds tracing configuration.
type Config struct {
	Enabled      bool
	CollectorURL string  // OTLP collector endpoint
	Environment  string  // development, staging, production
	SampleRate   float64 // 0.0 to 1.0
	Insecure     bool    // plaintext gRPC, development only
}

func (c Config) isProduction() bool {
	return c.Environment == "production" || c.Environment == "staging"
}

// InitTracer initializes the OpenTelemetry tracer provider and returns its
// shutdown function.
func InitTracer(ctx context.Context, cfg Config, logger *zap.Logger) (func(context.Context) error, error) {
	if !cfg.Enabled {
		logger.Info("OpenTelemetry tracing is disabled")
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	grpcOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.CollectorURL),
	}

	// Plaintext is honored in development only; production always gets TLS.
	if cfg.Insecure && !cfg.isProduction() {
		grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		logger.Warn("OpenTelemetry tracing using insecure gRPC connection",
			zap.String("environment", cfg.Environment))
	} else {
		if cfg.Insecure {
			logger.Warn("Insecure gRPC connection requested in production - forcing TLS",
				zap.String("environment", cfg.Environment))
		}
		tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
		grpcOpts = append(grpcOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsConfig)))
	}

	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(grpcOpts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	logger.Info("OpenTelemetry tracing initialized",
		zap.String("collector_url", cfg.CollectorURL),
		zap.Float64("sample_rate", cfg.SampleRate),
		zap.String("environment", cfg.Environment))

	return tp.Shutdown, nil
}

// GetTracer returns a tracer for the given name.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
