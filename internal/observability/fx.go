package observability

import (
	"os"
	"strings"

	"github.com/smallbiznis/hotelbill/internal/config"
	"github.com/smallbiznis/hotelbill/internal/observability/logger"
	"github.com/smallbiznis/hotelbill/internal/observability/metrics"
	"github.com/smallbiznis/hotelbill/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideLoggerConfig,
		logger.New,
		provideMetrics,
		provideTracingConfig,
		tracing.NewProvider,
	),
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	debug := !cfg.IsProduction()
	return logger.Config{
		ServiceName:         cfg.AppName,
		Environment:         cfg.Environment,
		Version:             cfg.AppVersion,
		Level:               strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		Format:              os.Getenv("LOG_FORMAT"),
		IncludeCaller:       true,
		IncludeStackOnError: debug,
	}
}

func provideMetrics(cfg config.Config) *metrics.Metrics {
	return metrics.Default(metrics.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
	})
}

func provideTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ServiceName:      cfg.AppName,
		ServiceVersion:   cfg.AppVersion,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}
