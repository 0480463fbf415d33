// Package telemetry 负责安装 OpenTelemetry 链路追踪 SDK。
package telemetry

import (
	"context"
	"fmt"
	"rollingdice-go/internal/config"
	"rollingdice-go/pkg/log"

	"go.opentelemetry.io/contrib/exporters/autoexport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc 刷新并关闭已安装的 TracerProvider。
type ShutdownFunc func(ctx context.Context) error

// Init 安装全局 propagator 与 TracerProvider。
// 未启用时只安装 propagator，otel 全局 tracer 保持为 noop。
// exporter 由 OTEL_TRACES_EXPORTER 等标准环境变量决定（默认 otlp）。
func Init(ctx context.Context, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		log.Info("[Telemetry] 链路追踪未启用")
		return func(context.Context) error { return nil }, nil
	}

	exp, err := autoexport.NewSpanExporter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	log.Infof("[Telemetry] 链路追踪已启用, service.name=%s", cfg.ServiceName)

	return tp.Shutdown, nil
}
