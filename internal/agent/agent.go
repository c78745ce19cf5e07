package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/compose"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/forecast"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/intent"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/observability"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/rowset"
)

type Classifier interface {
	Classify(ctx context.Context, utterance string) intent.Intent
}

type Runner interface {
	Run(ctx context.Context, sqlText string) (rowset.RowSet, error)
}

type Exporter interface {
	Export(ctx context.Context, traceID string, rs rowset.RowSet) (string, error)
}

// Agent runs the full answer pipeline: classify, execute, optionally
// forecast, compose. Classification never fails and forecasting degrades
// in place; only execution and composition are terminal.
type Agent struct {
	Classifier Classifier
	Warehouse  Runner
	Forecaster forecast.Engine
	Composer   compose.Composer
	Exporter   Exporter
	Logger     *slog.Logger
}

func (a *Agent) Answer(ctx context.Context, utterance string) (compose.Payload, error) {
	it := a.Classifier.Classify(ctx, utterance)
	if it.Fallback {
		observability.IncrementClassifierFallback()
	}
	a.log(ctx, "intent classified",
		slog.String("visualization", string(it.Visualization)),
		slog.Bool("fallback", it.Fallback),
	)

	start := time.Now()
	rs, err := a.Warehouse.Run(ctx, it.SQLQuery)
	observability.ObserveQueryDuration(time.Since(start))
	if err != nil {
		observability.ObserveChatRequest("query_error")
		return compose.Payload{}, err
	}
	a.log(ctx, "query executed",
		slog.Int("records", rs.Len()),
		slog.String("duration", time.Since(start).String()),
	)

	var fc *forecast.Result
	if it.Kind == "forecast" && rs.Len() > 0 {
		result := a.Forecaster.Forecast(rs, it.TimePeriod)
		fc = &result
		if result.ModelKind == forecast.ModelKindError {
			observability.ObserveForecast("degraded")
			a.log(ctx, "forecast degraded", slog.String("reason", result.ErrorMessage))
		} else {
			observability.ObserveForecast("ok")
			a.log(ctx, "forecast produced",
				slog.String("model", result.ModelKind),
				slog.Int("periods", result.PeriodCount),
			)
		}
	}

	payload, err := a.Composer.Compose(it, utterance, rs, fc)
	if err != nil {
		observability.ObserveChatRequest("compose_error")
		return compose.Payload{}, err
	}

	// Exports ride along with explicit table requests; a failed upload is
	// logged and dropped, never surfaced as a request failure.
	if a.Exporter != nil && payload.Visualization == intent.VisualizationTable && wantsExport(utterance) {
		traceID := observability.TraceIDFromContext(ctx)
		key, exportErr := a.Exporter.Export(ctx, traceID, rs)
		if exportErr != nil {
			observability.ObserveExport("error")
			a.log(ctx, "export failed", slog.String("error", exportErr.Error()))
		} else {
			observability.ObserveExport("ok")
			payload.ExportKey = key
		}
	}

	observability.ObserveChatRequest("ok")
	return payload, nil
}

func wantsExport(utterance string) bool {
	lower := strings.ToLower(utterance)
	return strings.Contains(lower, "export") || strings.Contains(lower, "download")
}

func (a *Agent) log(ctx context.Context, msg string, attrs ...slog.Attr) {
	if a.Logger == nil {
		return
	}
	a.Logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}
