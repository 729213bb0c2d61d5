package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveParse(t *testing.T) {
	valid := testutil.ToFloat64(LinesParsed.WithLabelValues("valid"))
	invalid := testutil.ToFloat64(LinesParsed.WithLabelValues("invalid"))

	ObserveParse(3, 2)

	if got := testutil.ToFloat64(LinesParsed.WithLabelValues("valid")) - valid; got != 3 {
		t.Errorf("valid delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(LinesParsed.WithLabelValues("invalid")) - invalid; got != 2 {
		t.Errorf("invalid delta = %v, want 2", got)
	}
}

func TestObserveReconcile(t *testing.T) {
	before := testutil.ToFloat64(ReconcileChecks.WithLabelValues("mismatch"))
	ObserveReconcile(true)
	ObserveReconcile(false)
	if got := testutil.ToFloat64(ReconcileChecks.WithLabelValues("mismatch")) - before; got != 1 {
		t.Errorf("mismatch delta = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveParse(1, 0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "billscan_lines_parsed_total") {
		t.Error("expected billscan_lines_parsed_total in /metrics output")
	}
}
