package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/daycare-server/internal/model"
)

func TestRegistry_ObserveQuery(t *testing.T) {
	r := NewRegistry()

	r.ObserveQuery("SELECT", "children", 5*time.Millisecond, nil)
	r.ObserveQuery("SELECT", "children", 5*time.Millisecond, nil)
	r.ObserveQuery("UPDATE", "children", time.Millisecond, model.NewStoreError(model.CodeNoRows, "no rows", nil))
	r.ObserveQuery("INSERT", "users", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.dbQueriesTotal.WithLabelValues("SELECT", "children", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dbQueriesTotal.WithLabelValues("UPDATE", "children", model.CodeNoRows)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dbQueriesTotal.WithLabelValues("INSERT", "users", "error")))
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ObserveRequest(http.MethodGet, "/api/children", http.StatusOK, 10*time.Millisecond)
	r.SetBreakerState("postgres", 2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "daycare_http_requests_total")
	assert.Contains(t, body, `daycare_db_circuit_breaker_state{name="postgres"} 2`)
}
