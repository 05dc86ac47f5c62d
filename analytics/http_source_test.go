package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *HTTPSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPSource(server.URL, "rahasia", 0)
}

func TestHTTPSourceEnvelopeShape(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer rahasia", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":{"summary":{"totalOrders":12,"completedOrders":9}}}`))
	})

	data, err := src.FetchAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, data.Summary.TotalOrders)
	assert.Equal(t, 9, data.Summary.CompletedOrders)
}

func TestHTTPSourceBareObjectShape(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":{"totalOrders":7},"clusterStats":[{"cluster":"Cibubur","total":7,"completed":3}]}`))
	})

	data, err := src.FetchAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, data.Summary.TotalOrders)
	require.Len(t, data.ClusterStats, 1)
	assert.Equal(t, "Cibubur", data.ClusterStats[0].Cluster)
}

func TestHTTPSourceDataWrapperShape(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"summary":{"totalOrders":3}}}`))
	})

	data, err := src.FetchAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, data.Summary.TotalOrders)
	assert.NotNil(t, data.StoStats, "missing slices must be normalized to empty")
}

func TestHTTPSourceServerErrorIsUnreachable(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := src.FetchAnalytics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestHTTPSourceClientErrorIsGeneric(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	_, err := src.FetchAnalytics(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnreachable)
}

func TestHTTPSourceConnectionRefusedIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src := NewHTTPSource(url, "", 0)
	_, err := src.FetchAnalytics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}
