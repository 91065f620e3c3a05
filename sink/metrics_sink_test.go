package sink

import (
	"context"
	"direct-chat/domain"
	"direct-chat/observability"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsSink_CountsByContentKind(t *testing.T) {
	req := require.New(t)
	metrics := observability.NewMetrics()
	s := NewMetricsSink(metrics)

	messages := []domain.Message{
		{Text: "hello"},
		{Image: "/images/a.png"},
		{Text: "look", Image: "/images/b.png"},
		{Text: "again"},
	}
	for _, m := range messages {
		req.NoError(s.Consume(context.Background(), domain.NewMessageCreated(m)))
	}

	req.Equal(2.0, testutil.ToFloat64(metrics.MessagesSent.WithLabelValues("text")))
	req.Equal(1.0, testutil.ToFloat64(metrics.MessagesSent.WithLabelValues("image")))
	req.Equal(1.0, testutil.ToFloat64(metrics.MessagesSent.WithLabelValues("text_image")))
}
