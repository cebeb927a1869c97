package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/NahomAnteneh/scm-predictor/internal/api/handlers"
	"github.com/NahomAnteneh/scm-predictor/internal/config"
	"github.com/NahomAnteneh/scm-predictor/internal/db"
	"github.com/NahomAnteneh/scm-predictor/internal/db/models"
	"github.com/NahomAnteneh/scm-predictor/internal/model"
	"github.com/NahomAnteneh/scm-predictor/internal/predictor"
	"github.com/NahomAnteneh/scm-predictor/internal/web"
)

type testServer struct {
	handler http.Handler
	loader  *model.Loader
}

func newTestServer(t *testing.T, artifact string, withHistory bool) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)

	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}
	loader := model.NewLoader(filepath.Join("..", "model", "testdata", artifact), "", logger)

	var history models.AssessmentService
	if withHistory {
		database, err := db.Connect("sqlite", "file::memory:", logger)
		require.NoError(t, err)
		t.Cleanup(func() { db.Close(database) })
		require.NoError(t, db.RunMigrations(database))
		history = models.NewAssessmentService(database)
	}

	pages, err := web.NewRenderer()
	require.NoError(t, err)

	svc := predictor.NewService(loader, history, logger)
	return &testServer{
		handler: SetupRouter(cfg, loader, svc, pages, logger),
		loader:  loader,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(t *testing.T, path string, body interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formValues(days string) url.Values {
	return url.Values{
		"days_scheduled": {days},
		"shipping_mode":  {"Standard Class"},
		"order_region":   {"Western Europe"},
		"sales":          {"120.50"},
		"quantity":       {"2"},
		"market":         {"Europe"},
	}
}

func TestDashboardForm(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, web.DefaultTitle)
	assert.Contains(t, body, "<form")
	assert.NotContains(t, body, `id="verdict"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestDashboardSubmit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	// z = 2 - days
	rec := s.do(postForm(formValues("0")))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="alert warning"`)
	assert.Contains(t, body, "LATE DELIVERY RISK: 88.08%")
	assert.Contains(t, body, "On time: 11.92%")
	assert.NotContains(t, body, `class="alert success"`)
	assert.Contains(t, body, `<option value="Western Europe" selected>`)

	rec = s.do(postForm(formValues("5")))
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `class="alert success"`)
	assert.Contains(t, body, "ON TIME: 95.26%")
	assert.NotContains(t, body, `class="alert warning"`)
}

func TestDashboardSubmitInvalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	values := formValues("3")
	values.Set("quantity", "0")
	rec := s.do(postForm(values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be at least 1")
	assert.NotContains(t, rec.Body.String(), `id="verdict"`)

	values = formValues("3")
	values.Set("sales", "lots")
	rec = s.do(postForm(values))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not read the submitted form")
}

func TestDashboardMissingArtifactHalts(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "missing.json", false)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		postForm(formValues("3")),
	} {
		rec := s.do(req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Model artifact could not be loaded")
		assert.Contains(t, body, "missing.json")
		assert.NotContains(t, body, "<form")
		assert.NotContains(t, body, `id="verdict"`)
	}
}

func TestDashboardCorruptArtifactHalts(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "corrupt.json", false)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to decode model artifact")
}

func TestCreatePrediction(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "forest.yaml", false)

	rec := s.do(postJSON(t, "/api/v1/predictions", map[string]interface{}{
		"days_scheduled": 3,
		"shipping_mode":  " First Class ",
		"order_region":   "Oceania",
		"sales":          80,
		"quantity":       1,
		"market":         "Pacific Asia",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		ID       string `json:"id"`
		Headline string `json:"headline"`
		Verdict  struct {
			Late          bool    `json:"late"`
			LatePercent   float64 `json:"late_percent"`
			OnTimePercent float64 `json:"on_time_percent"`
			Band          string  `json:"band"`
		} `json:"verdict"`
		Record struct {
			ShippingMode int `json:"shipping_mode"`
			OrderRegion  int `json:"order_region"`
		} `json:"record"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.True(t, resp.Verdict.Late)
	assert.InDelta(t, 70.0, resp.Verdict.LatePercent, 1e-9)
	assert.InDelta(t, 100.0, resp.Verdict.LatePercent+resp.Verdict.OnTimePercent, 1e-9)
	assert.Equal(t, "high_risk", resp.Verdict.Band)
	assert.Equal(t, "⚠️ LATE DELIVERY RISK: 70.00%", resp.Headline)
	assert.Equal(t, 0, resp.Record.ShippingMode)
	assert.Equal(t, 12, resp.Record.OrderRegion)
}

func TestCreatePredictionWithRegionID(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	rec := s.do(postJSON(t, "/api/v1/predictions", map[string]interface{}{
		"days_scheduled":  2,
		"shipping_mode":   "Same Day",
		"order_region_id": 17,
		"sales":           10,
		"quantity":        3,
		"market":          "USCA",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"order_region":17`)
}

func TestCreatePredictionInvalid(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	rec := s.do(postJSON(t, "/api/v1/predictions", map[string]interface{}{
		"days_scheduled": 9,
		"shipping_mode":  "Standard Class",
		"order_region":   "Oceania",
		"sales":          10,
		"quantity":       1,
		"market":         "Narnia",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Fields, 2)
	assert.Equal(t, "days_scheduled", resp.Fields[0].Field)
	assert.Equal(t, "market", resp.Fields[1].Field)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predictions", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePredictionMissingArtifact(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "missing.json", false)

	rec := s.do(postJSON(t, "/api/v1/predictions", map[string]interface{}{"days_scheduled": 1}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestModelEncodingsAndHealth(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","model_loaded":false}`, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var info handlers.ModelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, model.KindLogistic, info.Kind)
	assert.Len(t, info.Features, 6)
	assert.Len(t, info.Fingerprint, 64)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","model_loaded":true}`, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/encodings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var enc handlers.EncodingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))
	assert.Len(t, enc.ShippingModes, 4)
	assert.Len(t, enc.Markets, 5)
	assert.Len(t, enc.Regions, 7)
	assert.Equal(t, [2]int{0, 6}, enc.DaysRange)
}

func TestAssessmentsDisabled(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	for _, path := range []string{"/api/v1/assessments", "/api/v1/assessments/summary", "/api/v1/assessments/abc"} {
		rec := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestAssessmentsHistory(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", true)

	var ids []string
	for _, days := range []int{0, 5} {
		rec := s.do(postJSON(t, "/api/v1/predictions", map[string]interface{}{
			"days_scheduled": days,
			"shipping_mode":  "Standard Class",
			"order_region":   "South Asia",
			"sales":          50,
			"quantity":       1,
			"market":         "Pacific Asia",
		}))
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		ids = append(ids, resp.ID)
	}

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/v1/assessments?limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Assessments []models.Assessment `json:"assessments"`
		NextCursor  int                 `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Assessments, 2)
	assert.Equal(t, 2, list.NextCursor)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/assessments/"+ids[0], nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var one models.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.True(t, one.Late)
	assert.Equal(t, 13, one.OrderRegion)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/assessments/not-a-real-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/assessments/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":2,"bands":{"high_risk":1,"safe":1}}`, rec.Body.String())
}

func TestDashboardNonFiniteForestHalts(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "nan_leaf.yaml", false)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), web.HeadingArtifactUnavailable)
	assert.NotContains(t, rec.Body.String(), "<form")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouterRecoversPanics(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, "logistic.json", false)

	mux, ok := s.handler.(chi.Router)
	require.True(t, ok)
	mux.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, rec.Header().Get("X-Request-ID"), body["request_id"])
}
