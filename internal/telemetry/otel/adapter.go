package otel

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"workspace-control-plane/internal/telemetry"
	"workspace-control-plane/internal/telemetry/domain"
)

// loggerName is the instrumentation scope of event log records.
const loggerName = "wcp.events"

// recordEmitter is the subset of otellog.Logger used by the emitter.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger(loggerName)}
}

// NewEventEmitterWithLogger returns an EventEmitter writing to logger directly.
func NewEventEmitterWithLogger(logger recordEmitter) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to an OTel log record and emits it. The body carries the event attributes as JSON.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	rec.SetTimestamp(event.CreatedAt)
	if rec.Timestamp().IsZero() {
		rec.SetTimestamp(time.Now().UTC())
	}
	if len(event.Attributes) > 0 {
		body, err := json.Marshal(event.Attributes)
		if err != nil {
			return err
		}
		rec.SetBody(otellog.BytesValue(body))
	}
	addString(&rec, "event_id", event.ID)
	addString(&rec, "event_type", event.Type)
	addString(&rec, "workspace_id", event.WorkspaceID)
	addString(&rec, "actor_id", event.ActorID)
	addString(&rec, "subject_id", event.SubjectID)
	addString(&rec, "source", event.Source)
	e.logger.Emit(ctx, rec)
	return nil
}

func addString(rec *otellog.Record, key, value string) {
	if value != "" {
		rec.AddAttributes(otellog.String(key, value))
	}
}
