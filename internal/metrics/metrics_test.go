package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestRecordOperation(t *testing.T) {
	r := NewRegistry()

	r.RecordOperation("find_paths", "ok", 10*time.Millisecond)
	r.RecordOperation("find_paths", "ok", 20*time.Millisecond)
	r.RecordOperation("find_paths", "not_found", 5*time.Millisecond)

	counter, err := r.OperationsTotal.GetMetricWithLabelValues("find_paths", "ok")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("Counter value = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordPathSearch(t *testing.T) {
	r := NewRegistry()
	r.RecordPathSearch(3, false)
	r.RecordPathSearch(1, true)

	var metric dto.Metric
	if err := r.PartialSearches.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("partial searches = %v, want 1", metric.Counter.GetValue())
	}

	var hist dto.Metric
	if err := r.PathsReturned.Write(&hist); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if hist.Histogram.GetSampleCount() != 2 || hist.Histogram.GetSampleSum() != 4 {
		t.Errorf("unexpected histogram: count=%d sum=%v", hist.Histogram.GetSampleCount(), hist.Histogram.GetSampleSum())
	}
}

func TestCacheObserverAndIngest(t *testing.T) {
	r := NewRegistry()
	r.CacheHit("person")
	r.CacheMiss("person")
	r.CacheMiss("person")
	r.RecordIngest("people", nil)
	r.RecordIngest("people", errors.New("boom"))

	miss, _ := r.CacheLookups.GetMetricWithLabelValues("person", "miss")
	var metric dto.Metric
	if err := miss.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("cache misses = %v, want 2", metric.Counter.GetValue())
	}

	failed, _ := r.IngestRecords.GetMetricWithLabelValues("people", "error")
	metric.Reset()
	if err := failed.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("ingest errors = %v, want 1", metric.Counter.GetValue())
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/v1/paths", "200", time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `netintel_http_requests_total{method="GET",route="/v1/paths",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("metrics output missing runtime collector")
	}
}
