package prometheus

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bezhai/inner-bot-server-sub000/pkg/domain/safety"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserver(t *testing.T) {
	Config = DefaultMetricsConfig()
	o := NewObserver()

	before := testutil.ToFloat64(DetectorVerdicts.WithLabelValues("banned_word", "blocked"))
	o.ObserveVerdict(safety.Block("banned_word", safety.ReasonBannedWord, "x"), 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(DetectorVerdicts.WithLabelValues("banned_word", "blocked")))

	o.ObserveVerdict(safety.FailOpen("prompt_injection", nil), time.Second)
	assert.GreaterOrEqual(t, testutil.ToFloat64(DetectorVerdicts.WithLabelValues("prompt_injection", "failed_open")), 1.0)

	o.ObserveQueueDepth("inner_bot.safety.dlq", 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(QueueDepth.WithLabelValues("inner_bot.safety.dlq")))

	o.ObserveDelivery("safety_check", "dead_lettered")
	assert.GreaterOrEqual(t, testutil.ToFloat64(Deliveries.WithLabelValues("safety_check", "dead_lettered")), 1.0)
}

func TestHandlerExposesSafetyMetrics(t *testing.T) {
	NewObserver().ObserveQueueDepth("recall", 1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "safetyd_queue_depth")
}
