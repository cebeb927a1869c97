package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NahomAnteneh/scm-predictor/core"
)

// Common constants
const (
	// Default timeout for HTTP requests
	DefaultTimeout = 30 * time.Second

	// Standard content types
	ContentTypeJSON = "application/json"

	apiPrefix = "api/v1/"
)

// Common error types
var (
	ErrNetworkError = errors.New("network error occurred")
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnavailable  = errors.New("model unavailable")
	ErrServerError  = errors.New("server error")
)

// Prediction is the server's answer for one shipment
type Prediction struct {
	ID               string       `json:"id"`
	Record           core.Record  `json:"record"`
	Verdict          core.Verdict `json:"verdict"`
	ModelFingerprint string       `json:"model_fingerprint"`
	CreatedAt        time.Time    `json:"created_at"`
	Headline         string       `json:"headline"`
	BandTitle        string       `json:"band_title"`
	Narrative        string       `json:"narrative"`
}

// ModelInfo describes the artifact the server has loaded
type ModelInfo struct {
	Kind             string            `json:"kind"`
	Features         []string          `json:"features"`
	Fingerprint      string            `json:"fingerprint"`
	Path             string            `json:"path"`
	FeatureNamesPath string            `json:"feature_names_path,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	LoadedAt         time.Time         `json:"loaded_at"`
}

// Encodings lists the label tables the server encodes with
type Encodings struct {
	ShippingModes []core.Label `json:"shipping_modes"`
	Markets       []core.Label `json:"markets"`
	Regions       []core.Label `json:"regions"`
	RegionIDRange [2]int       `json:"region_id_range"`
	DaysRange     [2]int       `json:"days_scheduled_range"`
	MinQuantity   int          `json:"min_quantity"`
}

// StoredAssessment is one row of the server's assessment history
type StoredAssessment struct {
	ID               string    `json:"id"`
	DaysScheduled    int       `json:"days_scheduled"`
	ShippingMode     int       `json:"shipping_mode"`
	OrderRegion      int       `json:"order_region"`
	Sales            float64   `json:"sales"`
	Quantity         int       `json:"quantity"`
	Market           int       `json:"market"`
	Late             bool      `json:"late"`
	LateProbability  float64   `json:"late_probability"`
	LatePercent      float64   `json:"late_percent"`
	OnTimePercent    float64   `json:"on_time_percent"`
	Band             string    `json:"band"`
	ModelFingerprint string    `json:"model_fingerprint"`
	CreatedAt        time.Time `json:"created_at"`
}

// AssessmentPage is one page of history
type AssessmentPage struct {
	Assessments []StoredAssessment `json:"assessments"`
	NextCursor  int                `json:"next_cursor"`
}

// Summary counts recorded assessments per risk band
type Summary struct {
	Total int64            `json:"total"`
	Bands map[string]int64 `json:"bands"`
}

// Health is the liveness report
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client talks to a running predictor server
type Client struct {
	httpClient    *http.Client
	baseURL       string
	verbose       bool
	requestLogger func(string, ...interface{})
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithTimeout sets the timeout for HTTP requests
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithVerbose enables or disables verbose output
func WithVerbose(verbose bool) ClientOption {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// WithLogger sets a custom logger function
func WithLogger(logger func(string, ...interface{})) ClientOption {
	return func(c *Client) {
		c.requestLogger = logger
	}
}

// NewClient creates a new predictor client
func NewClient(baseURL string, options ...ClientOption) *Client {
	// Ensure baseURL ends with a slash
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:       baseURL,
		requestLogger: func(format string, args ...interface{}) {},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// logRequest logs a request if verbose mode is enabled
func (c *Client) logRequest(format string, args ...interface{}) {
	if c.verbose {
		c.requestLogger(format, args...)
	}
}

// buildURL builds a full URL from the path
func (c *Client) buildURL(urlPath string) string {
	return c.baseURL + strings.TrimPrefix(urlPath, "/")
}

// Do performs an HTTP request and maps error statuses onto the package errors
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "SCM-Predictor-Client/1.0")

	c.logRequest("Request: %s %s", req.Method, req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		errMsg := strings.TrimSpace(string(body))

		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, errMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrBadRequest, errMsg)
		case http.StatusServiceUnavailable:
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, errMsg)
		default:
			return nil, fmt.Errorf("%w: %s (status code: %d)", ErrServerError, errMsg, resp.StatusCode)
		}
	}

	return resp, nil
}

// Get performs a GET request and returns the response body
func (c *Client) Get(ctx context.Context, urlPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(urlPath), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Post performs a POST request with JSON data and returns the response body
func (c *Client) Post(ctx context.Context, urlPath string, data interface{}) ([]byte, error) {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(urlPath), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Header.Set("Accept", ContentTypeJSON)

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, urlPath string, out interface{}) error {
	data, err := c.Get(ctx, urlPath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Predict submits one shipment and returns the verdict
func (c *Client) Predict(ctx context.Context, in core.ShipmentInput) (*Prediction, error) {
	data, err := c.Post(ctx, apiPrefix+"predictions", in)
	if err != nil {
		return nil, fmt.Errorf("failed to predict: %w", err)
	}

	var p Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &p, nil
}

// Encodings retrieves the label tables
func (c *Client) Encodings(ctx context.Context) (*Encodings, error) {
	var enc Encodings
	if err := c.getJSON(ctx, apiPrefix+"encodings", &enc); err != nil {
		return nil, fmt.Errorf("failed to get encodings: %w", err)
	}
	return &enc, nil
}

// ModelInfo describes the server's loaded artifact
func (c *Client) ModelInfo(ctx context.Context) (*ModelInfo, error) {
	var info ModelInfo
	if err := c.getJSON(ctx, apiPrefix+"model", &info); err != nil {
		return nil, fmt.Errorf("failed to get model info: %w", err)
	}
	return &info, nil
}

// Assessments lists recorded assessments, newest first
func (c *Client) Assessments(ctx context.Context, limit, cursor int) (*AssessmentPage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor > 0 {
		q.Set("cursor", strconv.Itoa(cursor))
	}
	p := apiPrefix + "assessments"
	if len(q) > 0 {
		p += "?" + q.Encode()
	}

	var page AssessmentPage
	if err := c.getJSON(ctx, p, &page); err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return &page, nil
}

// Assessment retrieves one recorded assessment
func (c *Client) Assessment(ctx context.Context, id string) (*StoredAssessment, error) {
	var a StoredAssessment
	if err := c.getJSON(ctx, apiPrefix+"assessments/"+url.PathEscape(id), &a); err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &a, nil
}

// Summary returns assessment counts per risk band
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.getJSON(ctx, apiPrefix+"assessments/summary", &s); err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return &s, nil
}

// Health checks server liveness
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "healthz", &h); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &h, nil
}
