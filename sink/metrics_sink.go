package sink

import (
	"context"
	"direct-chat/domain"
	"direct-chat/observability"
)

type MetricsSink struct {
	metrics *observability.Metrics
}

func NewMetricsSink(metrics *observability.Metrics) *MetricsSink {
	return &MetricsSink{metrics: metrics}
}

func (s *MetricsSink) Name() string { return "metrics" }

func (s *MetricsSink) Consume(ctx context.Context, e domain.Event) error {
	created, ok := e.Payload.(domain.MessageCreated)
	if !ok {
		return nil
	}
	s.metrics.MessagesSent.WithLabelValues(contentKind(created.Message)).Inc()
	return nil
}

func contentKind(m domain.Message) string {
	switch {
	case m.Text != "" && m.Image != "":
		return "text_image"
	case m.Image != "":
		return "image"
	default:
		return "text"
	}
}
