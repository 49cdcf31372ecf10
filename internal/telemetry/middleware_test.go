package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByPattern(t *testing.T) {
	const pattern = "GET /api/products/{id}"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "404"))

	h := Middleware(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "404"))
	assert.Equal(t, before+2, after)
}

func TestMiddlewareDefaultsToOK(t *testing.T) {
	const pattern = "GET /healthz"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "200"))

	h := Middleware(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "200")))
}
