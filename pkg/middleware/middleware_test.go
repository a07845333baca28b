package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecordsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Prometheus(WithRegistry(reg), WithNamespace("test")))
	r.Get("/pages/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/about", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != "test_http_requests_total" {
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("requests_total has %d series, want 1", len(mf.GetMetric()))
		}
		m := mf.GetMetric()[0]
		if got := m.GetCounter().GetValue(); got != 3 {
			t.Errorf("requests_total = %v, want 3", got)
		}
		// The route label must be the chi pattern, not the raw path.
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "route" && lp.GetValue() != "/pages/{name}" {
				t.Errorf("route label = %q, want chi pattern", lp.GetValue())
			}
		}
		return
	}
	t.Fatal("metric test_http_requests_total not found")
}

func TestPrometheusStatusLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Prometheus(WithRegistry(reg), WithNamespace("test2")))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "test2_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "status" && lp.GetValue() == "500" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("no series with status=500")
	}
}

func TestOpenTelemetryPassesThrough(t *testing.T) {
	// No tracer provider is registered, so spans are no-ops; the
	// middleware must still serve the request unchanged.
	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithTracerName("test")))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	skipped := false
	r := chi.NewRouter()
	r.Use(OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		skipped = true
		return false
	})))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !skipped {
		t.Error("filter was not consulted")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Get("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hi"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	out := buf.String()
	for _, want := range []string{"http request", "method=GET", "path=/hello", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
