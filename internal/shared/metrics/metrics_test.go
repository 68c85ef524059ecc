package metrics

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRenderIncludesCountersAndHistogram(t *testing.T) {
	IncAnalysisCompleted()
	IncAnalysisDegraded()
	IncAnalysisRejected()
	ObserveLLMDurationMs(300)
	ObserveLLMDurationMs(-5)

	out := Render()
	for _, want := range []string{
		"# TYPE ats_analysis_completed_total counter",
		"# TYPE ats_analysis_degraded_total counter",
		"# TYPE ats_analysis_rejected_total counter",
		"# TYPE ats_llm_call_duration_ms histogram",
		`ats_llm_call_duration_ms_bucket{le="+Inf"}`,
		"ats_llm_call_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected 3 observations, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
	if snap.sum != 555 {
		t.Fatalf("expected sum 555, got %v", snap.sum)
	}
}

func TestWriteHistogramEmitsCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100, 250})
	h.Observe(50)

	var buf bytes.Buffer
	writeHistogram(&buf, "test_ms", "test", h.Snapshot())
	out := buf.String()
	for _, want := range []string{
		`test_ms_bucket{le="10"} 0`,
		`test_ms_bucket{le="100"} 1`,
		`test_ms_bucket{le="250"} 1`,
		`test_ms_bucket{le="+Inf"} 1`,
		"test_ms_count 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderBucketsNeverExceedTotal(t *testing.T) {
	ObserveLLMDurationMs(50)
	ObserveLLMDurationMs(4000)

	var buckets []uint64
	var total uint64
	scanner := bufio.NewScanner(strings.NewReader(Render()))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "ats_llm_call_duration_ms_bucket") {
			continue
		}
		fields := strings.Fields(line)
		n, err := strconv.ParseUint(fields[len(fields)-1], 10, 64)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		if strings.Contains(line, `le="+Inf"`) {
			total = n
			continue
		}
		buckets = append(buckets, n)
	}
	if len(buckets) == 0 || total < 2 {
		t.Fatalf("expected buckets and at least 2 observations, got %v total=%d", buckets, total)
	}
	for i, n := range buckets {
		if n > total {
			t.Fatalf("bucket %d count %d exceeds +Inf %d", i, n, total)
		}
		if i > 0 && n < buckets[i-1] {
			t.Fatalf("bucket %d count %d below previous %d", i, n, buckets[i-1])
		}
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", Handler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}
