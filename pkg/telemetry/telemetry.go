package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"abroad-compass/backend/config"
)

const instrumentationName = "abroad-compass/backend"

// Shutdown 刷新并关闭追踪导出器
type Shutdown func(context.Context) error

// Init 初始化全局 TracerProvider
// 未开启时保持 otel 默认的 noop 实现，返回的 Shutdown 为空操作
func Init(ctx context.Context, cfg *config.TraceConfig, logger *zap.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("初始化追踪资源失败: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("初始化追踪导出器失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("链路追踪已开启", zap.String("service", cfg.ServiceName))
	return tp.Shutdown, nil
}

// Tracer 返回本服务的 tracer
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
