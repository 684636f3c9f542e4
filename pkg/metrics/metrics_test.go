package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.UsersCreated.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.UsersCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.UsersCreated))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.DocumentsSaved.WithLabelValues("create").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `doctrack_documents_saved_total{action="create"} 1`)
}
