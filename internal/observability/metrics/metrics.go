package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	sessionsOpened   metric.Int64Counter
	sessionsClosed   metric.Int64Counter
	purchaseIntents  metric.Int64Counter
	guardRejections  metric.Int64Counter
	presenceFailures metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "storefront"
	}
	meter := provider.Meter(name)

	sessionsOpened, err := meter.Int64Counter("storefront_product_sessions_opened_total")
	if err != nil {
		return nil, err
	}
	sessionsClosed, err := meter.Int64Counter("storefront_product_sessions_closed_total")
	if err != nil {
		return nil, err
	}
	purchaseIntents, err := meter.Int64Counter("storefront_purchase_intents_total")
	if err != nil {
		return nil, err
	}
	guardRejections, err := meter.Int64Counter("storefront_purchase_guard_rejections_total")
	if err != nil {
		return nil, err
	}
	presenceFailures, err := meter.Int64Counter("storefront_presence_failures_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		sessionsOpened:   sessionsOpened,
		sessionsClosed:   sessionsClosed,
		purchaseIntents:  purchaseIntents,
		guardRejections:  guardRejections,
		presenceFailures: presenceFailures,
	}, nil
}

// RecordSessionOpened increments the opened-session count.
func (m *Metrics) RecordSessionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsOpened.Add(ctx, 1)
}

// RecordSessionClosed increments the closed-session count.
func (m *Metrics) RecordSessionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.sessionsClosed.Add(ctx, 1)
}

// RecordPurchaseIntent increments purchase intent counts.
func (m *Metrics) RecordPurchaseIntent(ctx context.Context, action, licenseType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("action", strings.TrimSpace(action)),
		attribute.String("license_type", strings.TrimSpace(licenseType)),
	)
	m.purchaseIntents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordGuardRejection increments rejected purchase attempt counts.
func (m *Metrics) RecordGuardRejection(ctx context.Context) {
	if m == nil {
		return
	}
	m.guardRejections.Add(ctx, 1)
}

// RecordPresenceFailure increments swallowed presence-call failures.
func (m *Metrics) RecordPresenceFailure(ctx context.Context, op string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("op", strings.TrimSpace(op)))
	m.presenceFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"action":       {},
	"license_type": {},
	"op":           {},
	"status_code":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
