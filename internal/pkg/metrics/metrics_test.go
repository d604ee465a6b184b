package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordSource(t *testing.T) {
	m := NewSlipMetrics()
	m.RecordSource("booking", "ok", 120*time.Millisecond)
	m.RecordSource("booking", "ok", 80*time.Millisecond)
	m.RecordSource("booking", "unavailable", time.Second)

	if got := counterValue(t, m.SourceRequests.WithLabelValues("booking", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := counterValue(t, m.SourceRequests.WithLabelValues("booking", "unavailable")); got != 1 {
		t.Errorf("unavailable count = %v, want 1", got)
	}
}

func TestRecordSlipCreated(t *testing.T) {
	m := NewSlipMetrics()
	m.RecordSlipCreated("ai", decimal.RequireFromString("1.82"))

	if got := counterValue(t, m.SlipsCreated.WithLabelValues("ai")); got != 1 {
		t.Errorf("created = %v, want 1", got)
	}
	if DecimalToFloat64(decimal.RequireFromString("1.82")) != 1.82 {
		t.Error("decimal conversion mismatch")
	}
}

func TestStatusText(t *testing.T) {
	cases := map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"}
	for in, want := range cases {
		if got := statusText(in); got != want {
			t.Errorf("statusText(%d) = %s, want %s", in, got, want)
		}
	}
}
