package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NahomAnteneh/scm-predictor/core"
)

func TestDoMapsStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusInternalServerError, ErrServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Get(context.Background(), "healthz")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestDoNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Health(context.Background())
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestPredictSendsShipment(t *testing.T) {
	var got core.ShipmentInput
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/predictions", r.URL.Path)
		assert.Equal(t, ContentTypeJSON, r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"x","verdict":{"late":false,"on_time_percent":95.26,"late_percent":4.74,"band":"safe"}}`))
	}))
	defer server.Close()

	var logged []string
	c := NewClient(server.URL+"/", WithVerbose(true), WithLogger(func(format string, args ...interface{}) {
		logged = append(logged, format)
	}))

	in := core.DefaultInput()
	in.DaysScheduled = 5
	p, err := c.Predict(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, in, got)
	assert.Equal(t, "x", p.ID)
	assert.False(t, p.Verdict.Late)
	assert.Equal(t, core.BandSafe, p.Verdict.Band)
	assert.Len(t, logged, 1)
}

func TestAssessmentsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/assessments", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("cursor"))
		w.Write([]byte(`{"assessments":[{"id":"a","band":"caution"}],"next_cursor":11}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL).Assessments(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, page.Assessments, 1)
	assert.Equal(t, "caution", page.Assessments[0].Band)
	assert.Equal(t, 11, page.NextCursor)
}

func TestHistoryAndHealth(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		switch r.URL.Path {
		case "/healthz":
			w.Write([]byte(`{"status":"ok","model_loaded":true}`))
		case "/api/v1/assessments/summary":
			w.Write([]byte(`{"total":3,"bands":{"safe":2,"high_risk":1}}`))
		case "/api/v1/assessments/a b":
			w.Write([]byte(`{"id":"a b","late":true,"late_percent":88.08,"band":"high_risk","order_region":13}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Assessment history is disabled"}`))
		}
	}))
	defer server.Close()

	transport := &countingTransport{next: http.DefaultTransport}
	c := NewClient(server.URL, WithHTTPClient(&http.Client{Transport: transport}))
	ctx := context.Background()

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.True(t, h.ModelLoaded)

	s, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Total)
	assert.Equal(t, map[string]int64{"safe": 2, "high_risk": 1}, s.Bands)

	a, err := c.Assessment(ctx, "a b")
	require.NoError(t, err)
	assert.True(t, a.Late)
	assert.Equal(t, 13, a.OrderRegion)
	assert.Equal(t, "/api/v1/assessments/a%20b", paths[len(paths)-1])

	_, err = c.Assessment(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 4, transport.calls)
}

type countingTransport struct {
	next  http.RoundTripper
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return c.next.RoundTrip(req)
}
