package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCount           metric.Int64Counter
	RequestDuration        metric.Float64Histogram
	StoreQueryDuration     metric.Float64Histogram
	ValidationFailureCount metric.Int64Counter
	EmailCount             metric.Int64Counter
	RedrawCount            metric.Int64Counter
	ScrapeBusinessCount    metric.Int64Counter
}

const instrumentationName = "github.com/zatekoja/diningconcierge"

// metricExportInterval is short enough for a Lambda invocation to flush on shutdown
const metricExportInterval = 15 * time.Second

// Setup initializes OpenTelemetry tracing and metrics. The returned shutdown
// flushes both providers.
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace provider
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter and provider
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(metricExportInterval),
		)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		LoggerFromContext(ctx).Warn().Err(err).Msg("runtime metrics disabled")
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	storeQueryDuration, err := meter.Float64Histogram(
		"store.query.duration",
		metric.WithDescription("Document store and search index call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	validationFailureCount, err := meter.Int64Counter(
		"dialog.validation.failure.count",
		metric.WithDescription("Number of slot values rejected by the fulfillment handler"),
	)
	if err != nil {
		return nil, err
	}

	emailCount, err := meter.Int64Counter(
		"recommendation.email.count",
		metric.WithDescription("Number of recommendation emails attempted"),
	)
	if err != nil {
		return nil, err
	}

	redrawCount, err := meter.Int64Counter(
		"recommendation.redraw.count",
		metric.WithDescription("Number of sampled restaurants rejected as outside the city"),
	)
	if err != nil {
		return nil, err
	}

	scrapeBusinessCount, err := meter.Int64Counter(
		"scrape.business.count",
		metric.WithDescription("Number of business records fetched from the directory"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:           requestCount,
		RequestDuration:        requestDuration,
		StoreQueryDuration:     storeQueryDuration,
		ValidationFailureCount: validationFailureCount,
		EmailCount:             emailCount,
		RedrawCount:            redrawCount,
		ScrapeBusinessCount:    scrapeBusinessCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records an HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordStoreMetric records a document store or search index call
func RecordStoreMetric(ctx context.Context, metrics *Metrics, backend, operation string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("store.backend", backend),
		attribute.String("store.operation", operation),
	}
	metrics.StoreQueryDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordValidationFailure records a rejected slot value
func RecordValidationFailure(ctx context.Context, metrics *Metrics, slot string) {
	if metrics == nil {
		return
	}
	metrics.ValidationFailureCount.Add(ctx, 1, metric.WithAttributes(attribute.String("dialog.slot", slot)))
}

// RecordEmail records a recommendation email attempt
func RecordEmail(ctx context.Context, metrics *Metrics, cuisine string, success bool) {
	if metrics == nil {
		return
	}
	metrics.EmailCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cuisine", cuisine),
		attribute.Bool("success", success),
	))
}

// RecordRedraw records a sampled restaurant rejected by the city filter
func RecordRedraw(ctx context.Context, metrics *Metrics, cuisine string) {
	if metrics == nil {
		return
	}
	metrics.RedrawCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cuisine", cuisine)))
}

// RecordScrapedBusinesses records businesses returned by one directory page
func RecordScrapedBusinesses(ctx context.Context, metrics *Metrics, cuisine string, count int) {
	if metrics == nil {
		return
	}
	metrics.ScrapeBusinessCount.Add(ctx, int64(count), metric.WithAttributes(attribute.String("cuisine", cuisine)))
}
